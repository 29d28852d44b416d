package service

// VisitPass is the payload encoded into a visitor pass QR code.
type VisitPass struct {
	VisitID     int    `json:"visit_id"`
	Visitor     string `json:"visitor"`
	Date        string `json:"date"`
	Type        string `json:"type"`
	CheckoutURL string `json:"checkout_url,omitempty"`
}

// QRCodeService defines the interface for visitor pass generation and parsing
type QRCodeService interface {
	// GenerateVisitPass renders the pass as a PNG image
	GenerateVisitPass(pass *VisitPass) ([]byte, error)

	// ParseVisitPass decodes the text scanned from a pass
	ParseVisitPass(qrData string) (*VisitPass, error)
}

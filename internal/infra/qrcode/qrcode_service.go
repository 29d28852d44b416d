package qrcode

import (
	"encoding/json"
	"fmt"
	"strings"

	"elogbook/internal/domain/service"

	"github.com/skip2/go-qrcode"
)

const visitPassType = "visit_pass"

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
	baseURL              string
}

// NewQRCodeService creates a new QR code service instance. baseURL, when set,
// is used to build the check-out link printed on each pass.
func NewQRCodeService(size int, errorCorrectionLevel, baseURL string) service.QRCodeService {
	// Set error correction level
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	if size <= 0 {
		size = 256
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
		baseURL:              strings.TrimRight(baseURL, "/"),
	}
}

// GenerateVisitPass generates a QR code for a visitor pass
func (s *qrcodeService) GenerateVisitPass(pass *service.VisitPass) ([]byte, error) {
	if pass == nil || pass.VisitID <= 0 {
		return nil, fmt.Errorf("visit pass requires a visit id")
	}

	data := *pass
	data.Type = visitPassType
	if data.CheckoutURL == "" && s.baseURL != "" {
		data.CheckoutURL = fmt.Sprintf("%s/api/v1/visits/%d/checkout", s.baseURL, data.VisitID)
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal QR code data: %w", err)
	}

	qrCode, err := qrcode.New(string(jsonData), s.errorCorrectionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}

	return pngBytes, nil
}

// ParseVisitPass parses QR code data and returns the pass it encodes
func (s *qrcodeService) ParseVisitPass(qrData string) (*service.VisitPass, error) {
	var data service.VisitPass
	if err := json.Unmarshal([]byte(qrData), &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal QR code data: %w", err)
	}

	if data.Type != visitPassType {
		return nil, fmt.Errorf("invalid QR code type: %s", data.Type)
	}

	if data.VisitID <= 0 {
		return nil, fmt.Errorf("invalid visit id: %d", data.VisitID)
	}

	return &data, nil
}

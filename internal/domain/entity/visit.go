package entity

import "strings"

// Purpose is the reason a visitor came to the office.
type Purpose string

const (
	PurposeInquiry      Purpose = "Inquiry"
	PurposeComplaint    Purpose = "Complaint"
	PurposeRequest      Purpose = "Request"
	PurposeFollowUp     Purpose = "Follow-up"
	PurposeCourtesyCall Purpose = "Courtesy Call"
	PurposeOther        Purpose = "Other"
)

// Purposes lists every valid purpose in display order.
func Purposes() []Purpose {
	return []Purpose{
		PurposeInquiry,
		PurposeComplaint,
		PurposeRequest,
		PurposeFollowUp,
		PurposeCourtesyCall,
		PurposeOther,
	}
}

// IsValid checks if the Purpose is a valid value.
func (p Purpose) IsValid() bool {
	switch p {
	case PurposeInquiry, PurposeComplaint, PurposeRequest, PurposeFollowUp, PurposeCourtesyCall, PurposeOther:
		return true
	default:
		return false
	}
}

// VisitEntry records one visitor's check-in and check-out.
// Dates are "YYYY-MM-DD" and times "HH:MM"; both sort lexically in calendar order.
type VisitEntry struct {
	ID            int     `json:"id"`
	FirstName     string  `json:"firstName"`
	LastName      string  `json:"lastName"`
	Address       string  `json:"address"`
	ContactNumber string  `json:"contactNumber"`
	Purpose       Purpose `json:"purpose"`
	Date          string  `json:"date"`
	TimeIn        string  `json:"timeIn"`
	TimeOut       string  `json:"timeOut"` // Empty while the visitor is still inside.
	LoggedBy      int     `json:"loggedBy"` // Account ID of the staff member who recorded the entry.
}

// VisitorName returns "First Last".
func (v *VisitEntry) VisitorName() string {
	return strings.TrimSpace(v.FirstName + " " + v.LastName)
}

// CheckedOut reports whether the visitor has left.
func (v *VisitEntry) CheckedOut() bool {
	return v.TimeOut != ""
}

// VisitPatch is a partial update of a VisitEntry. Nil fields are retained.
type VisitPatch struct {
	FirstName     *string
	LastName      *string
	Address       *string
	ContactNumber *string
	Purpose       *Purpose
	Date          *string
	TimeIn        *string
	TimeOut       *string
	LoggedBy      *int
}

// IsEmpty reports whether the patch changes nothing.
func (p *VisitPatch) IsEmpty() bool {
	return p == nil || (p.FirstName == nil && p.LastName == nil && p.Address == nil &&
		p.ContactNumber == nil && p.Purpose == nil && p.Date == nil &&
		p.TimeIn == nil && p.TimeOut == nil && p.LoggedBy == nil)
}

// ApplyTo overwrites the supplied fields of v.
func (p *VisitPatch) ApplyTo(v *VisitEntry) {
	if p == nil {
		return
	}
	if p.FirstName != nil {
		v.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		v.LastName = *p.LastName
	}
	if p.Address != nil {
		v.Address = *p.Address
	}
	if p.ContactNumber != nil {
		v.ContactNumber = *p.ContactNumber
	}
	if p.Purpose != nil {
		v.Purpose = *p.Purpose
	}
	if p.Date != nil {
		v.Date = *p.Date
	}
	if p.TimeIn != nil {
		v.TimeIn = *p.TimeIn
	}
	if p.TimeOut != nil {
		v.TimeOut = *p.TimeOut
	}
	if p.LoggedBy != nil {
		v.LoggedBy = *p.LoggedBy
	}
}

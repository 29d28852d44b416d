package usecase

import (
	"context"

	"elogbook/internal/domain/entity"
)

// LogVisitInput is the check-in form. Date and TimeIn default to now.
type LogVisitInput struct {
	FirstName     string
	LastName      string
	Address       string
	ContactNumber string
	Purpose       entity.Purpose
	Date          string
	TimeIn        string
}

// VisitFilter narrows ListVisits. Date wins over From/To; an open range end
// is unbounded. StaffID zero means every staff member.
type VisitFilter struct {
	Date    string
	From    string
	To      string
	StaffID int
}

// Summary holds the dashboard totals.
type Summary struct {
	Today       int `json:"today"`
	ThisMonth   int `json:"thisMonth"`
	CheckedIn   int `json:"checkedIn"`
	ActiveStaff int `json:"activeStaff"`
}

// VisitUsecase records and reports visitor check-ins and check-outs.
type VisitUsecase interface {
	// LogVisit records a check-in by the current account.
	LogVisit(ctx context.Context, input LogVisitInput) (*entity.VisitEntry, error)

	// CheckOut stamps the time out. A visit can be checked out once. For a
	// visit dated today the time out may not precede the time in.
	CheckOut(ctx context.Context, id int) (*entity.VisitEntry, error)

	// UpdateVisit applies a partial update and keeps time out not earlier than time in.
	UpdateVisit(ctx context.Context, id int, patch *entity.VisitPatch) (*entity.VisitEntry, error)

	DeleteVisit(ctx context.Context, id int) error
	GetVisit(ctx context.Context, id int) (*entity.VisitEntry, error)
	ListVisits(ctx context.Context, filter VisitFilter) ([]*entity.VisitEntry, error)
	ListToday(ctx context.Context) ([]*entity.VisitEntry, error)

	// ListMineToday lists today's entries logged by the current account.
	ListMineToday(ctx context.Context) ([]*entity.VisitEntry, error)

	MonthCount(ctx context.Context) (int, error)
	Summary(ctx context.Context) (*Summary, error)

	// VisitPass renders the visitor pass QR code as PNG.
	VisitPass(ctx context.Context, id int) ([]byte, error)
}

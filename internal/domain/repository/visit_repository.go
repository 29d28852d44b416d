package repository

import (
	"context"
	"errors"

	"elogbook/internal/domain/entity"
)

// ErrVisitNotFound is a domain-specific error returned when a visit entry is not found.
var ErrVisitNotFound = errors.New("visit entry not found")

// VisitRepository defines the operations on one scope's visit entries.
// Dates are "YYYY-MM-DD"; "today" is evaluated at call time.
type VisitRepository interface {
	List(ctx context.Context) ([]*entity.VisitEntry, error)
	FindByID(ctx context.Context, id int) (*entity.VisitEntry, error)
	Create(ctx context.Context, visit *entity.VisitEntry) (*entity.VisitEntry, error)
	Update(ctx context.Context, id int, patch *entity.VisitPatch) (*entity.VisitEntry, error)
	Delete(ctx context.Context, id int) error

	// ListByDate returns entries whose date equals date exactly.
	ListByDate(ctx context.Context, date string) ([]*entity.VisitEntry, error)

	// ListToday returns entries dated today.
	ListToday(ctx context.Context) ([]*entity.VisitEntry, error)

	// ListByDateRange returns entries with from <= date <= to.
	ListByDateRange(ctx context.Context, from, to string) ([]*entity.VisitEntry, error)

	// ListByStaff returns entries logged by the given account.
	ListByStaff(ctx context.Context, staffID int) ([]*entity.VisitEntry, error)

	// ListTodayByStaff returns entries dated today and logged by the given account.
	ListTodayByStaff(ctx context.Context, staffID int) ([]*entity.VisitEntry, error)

	// CountThisMonth counts entries dated in the current calendar month.
	CountThisMonth(ctx context.Context) (int, error)
}

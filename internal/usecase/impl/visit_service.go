package impl

import (
	"context"
	"log/slog"
	"strings"

	"elogbook/config"
	deliverycontext "elogbook/internal/delivery/context"
	"elogbook/internal/domain/entity"
	domainerrors "elogbook/internal/domain/errors"
	"elogbook/internal/domain/repository"
	"elogbook/internal/domain/service"
	"elogbook/internal/usecase"
	"elogbook/internal/util"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Bounds used when a range filter leaves one end open.
const (
	minDate = "0000-01-01"
	maxDate = "9999-12-31"
)

// VisitParams holds dependencies for VisitService, injected by Fx.
type VisitParams struct {
	fx.In

	Config    *config.Config
	Provider  repository.WorkspaceProvider
	Publisher service.EventPublisher
	QRCode    service.QRCodeService
	Logger    *slog.Logger
}

type visitService struct {
	provider  repository.WorkspaceProvider
	publisher service.EventPublisher
	qrcode    service.QRCodeService
	clock     clock
	logger    *slog.Logger
}

// NewVisitService is the constructor for visitService.
func NewVisitService(params VisitParams) (usecase.VisitUsecase, error) {
	c, err := newClock(params.Config)
	if err != nil {
		return nil, err
	}

	return &visitService{
		provider:  params.Provider,
		publisher: params.Publisher,
		qrcode:    params.QRCode,
		clock:     c,
		logger:    params.Logger,
	}, nil
}

func (srv *visitService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *visitService) LogVisit(ctx context.Context, input usecase.LogVisitInput) (*entity.VisitEntry, error) {
	ws, err := openWorkspace(ctx, srv.provider)
	if err != nil {
		return nil, err
	}

	staff, err := currentAccount(ctx, ws)
	if err != nil {
		return nil, err
	}

	now := srv.clock.now()
	visit := &entity.VisitEntry{
		FirstName:     strings.TrimSpace(input.FirstName),
		LastName:      strings.TrimSpace(input.LastName),
		Address:       strings.TrimSpace(input.Address),
		ContactNumber: strings.TrimSpace(input.ContactNumber),
		Purpose:       input.Purpose,
		Date:          input.Date,
		TimeIn:        input.TimeIn,
		LoggedBy:      staff.ID,
	}
	if visit.Date == "" {
		visit.Date = util.DateString(now, nil)
	}
	if visit.TimeIn == "" {
		visit.TimeIn = util.ClockString(now, nil)
	}
	if err := validateNewVisit(visit); err != nil {
		return nil, err
	}

	created, err := ws.Visits().Create(ctx, visit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to log visit")
	}

	srv.log(ctx).Info("Visitor checked in",
		slog.Int("visit_id", created.ID),
		slog.Int("logged_by", created.LoggedBy),
	)
	srv.publish(ctx, service.VisitEventCheckedIn, created, created.TimeIn)

	return created, nil
}

func (srv *visitService) CheckOut(ctx context.Context, id int) (*entity.VisitEntry, error) {
	ws, err := openWorkspace(ctx, srv.provider)
	if err != nil {
		return nil, err
	}
	if _, err := currentAccount(ctx, ws); err != nil {
		return nil, err
	}

	visit, err := ws.Visits().FindByID(ctx, id)
	if err != nil {
		return nil, mapVisitError(err)
	}
	if visit.CheckedOut() {
		return nil, errors.WithStack(domainerrors.ErrAlreadyCheckedOut)
	}

	// HH:MM strings order correctly within one day. An entry from an earlier
	// day may be checked out at any time.
	now := srv.clock.now()
	timeOut := util.ClockString(now, nil)
	if visit.Date == util.DateString(now, nil) && timeOut < visit.TimeIn {
		return nil, errors.WithStack(domainerrors.ErrInvalidVisitTimes.WithDetails(visit.TimeIn + " > " + timeOut))
	}

	updated, err := ws.Visits().Update(ctx, id, &entity.VisitPatch{TimeOut: &timeOut})
	if err != nil {
		return nil, mapVisitError(err)
	}

	srv.log(ctx).Info("Visitor checked out", slog.Int("visit_id", id))
	srv.publish(ctx, service.VisitEventCheckedOut, updated, timeOut)

	return updated, nil
}

func (srv *visitService) UpdateVisit(ctx context.Context, id int, patch *entity.VisitPatch) (*entity.VisitEntry, error) {
	if err := validateVisitPatch(patch); err != nil {
		return nil, err
	}

	ws, err := openWorkspace(ctx, srv.provider)
	if err != nil {
		return nil, err
	}

	current, err := ws.Visits().FindByID(ctx, id)
	if err != nil {
		return nil, mapVisitError(err)
	}
	if patch.IsEmpty() {
		return current, nil
	}

	merged := *current
	patch.ApplyTo(&merged)
	if merged.TimeOut != "" && merged.TimeOut < merged.TimeIn {
		return nil, errors.WithStack(domainerrors.ErrInvalidVisitTimes.WithDetails(merged.TimeIn + " > " + merged.TimeOut))
	}

	updated, err := ws.Visits().Update(ctx, id, patch)
	if err != nil {
		return nil, mapVisitError(err)
	}

	return updated, nil
}

func (srv *visitService) DeleteVisit(ctx context.Context, id int) error {
	ws, err := openWorkspace(ctx, srv.provider)
	if err != nil {
		return err
	}

	if err := ws.Visits().Delete(ctx, id); err != nil {
		return errors.Wrap(err, "failed to delete visit")
	}

	srv.log(ctx).Info("Visit deleted", slog.Int("visit_id", id))

	return nil
}

func (srv *visitService) GetVisit(ctx context.Context, id int) (*entity.VisitEntry, error) {
	ws, err := openWorkspace(ctx, srv.provider)
	if err != nil {
		return nil, err
	}

	visit, err := ws.Visits().FindByID(ctx, id)
	if err != nil {
		return nil, mapVisitError(err)
	}

	return visit, nil
}

func (srv *visitService) ListVisits(ctx context.Context, filter usecase.VisitFilter) ([]*entity.VisitEntry, error) {
	for _, d := range []string{filter.Date, filter.From, filter.To} {
		if d != "" && !util.ValidDate(d) {
			return nil, invalid("dates must be YYYY-MM-DD")
		}
	}

	ws, err := openWorkspace(ctx, srv.provider)
	if err != nil {
		return nil, err
	}
	visits := ws.Visits()

	var result []*entity.VisitEntry
	switch {
	case filter.Date != "":
		result, err = visits.ListByDate(ctx, filter.Date)
	case filter.From != "" || filter.To != "":
		from, to := filter.From, filter.To
		if from == "" {
			from = minDate
		}
		if to == "" {
			to = maxDate
		}
		result, err = visits.ListByDateRange(ctx, from, to)
	case filter.StaffID != 0:
		return listOrWrap(visits.ListByStaff(ctx, filter.StaffID))
	default:
		result, err = visits.List(ctx)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to list visits")
	}

	if filter.StaffID != 0 {
		result = byStaff(result, filter.StaffID)
	}

	return result, nil
}

func (srv *visitService) ListToday(ctx context.Context) ([]*entity.VisitEntry, error) {
	ws, err := openWorkspace(ctx, srv.provider)
	if err != nil {
		return nil, err
	}

	return listOrWrap(ws.Visits().ListToday(ctx))
}

func (srv *visitService) ListMineToday(ctx context.Context) ([]*entity.VisitEntry, error) {
	ws, err := openWorkspace(ctx, srv.provider)
	if err != nil {
		return nil, err
	}

	staff, err := currentAccount(ctx, ws)
	if err != nil {
		return nil, err
	}

	return listOrWrap(ws.Visits().ListTodayByStaff(ctx, staff.ID))
}

func (srv *visitService) MonthCount(ctx context.Context) (int, error) {
	ws, err := openWorkspace(ctx, srv.provider)
	if err != nil {
		return 0, err
	}

	n, err := ws.Visits().CountThisMonth(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count visits")
	}

	return n, nil
}

func (srv *visitService) Summary(ctx context.Context) (*usecase.Summary, error) {
	ws, err := openWorkspace(ctx, srv.provider)
	if err != nil {
		return nil, err
	}

	today, err := ws.Visits().ListToday(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list today's visits")
	}
	month, err := ws.Visits().CountThisMonth(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count visits")
	}
	staff, err := ws.Accounts().ListStaff(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list staff")
	}

	summary := &usecase.Summary{Today: len(today), ThisMonth: month}
	for _, v := range today {
		if !v.CheckedOut() {
			summary.CheckedIn++
		}
	}
	for _, a := range staff {
		if a.IsActive() {
			summary.ActiveStaff++
		}
	}

	return summary, nil
}

func (srv *visitService) VisitPass(ctx context.Context, id int) ([]byte, error) {
	visit, err := srv.GetVisit(ctx, id)
	if err != nil {
		return nil, err
	}

	png, err := srv.qrcode.GenerateVisitPass(&service.VisitPass{
		VisitID: visit.ID,
		Visitor: visit.VisitorName(),
		Date:    visit.Date,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to render visit pass")
	}

	return png, nil
}

// publish logs publisher failures and carries on.
func (srv *visitService) publish(ctx context.Context, eventType string, visit *entity.VisitEntry, at string) {
	event := &service.VisitEvent{
		RequestID: deliverycontext.GetRequestIDFromContext(ctx),
		Type:      eventType,
		Scope:     deliverycontext.GetScope(ctx),
		VisitID:   visit.ID,
		Visitor:   visit.VisitorName(),
		Purpose:   string(visit.Purpose),
		Date:      visit.Date,
		Time:      at,
		LoggedBy:  visit.LoggedBy,
	}

	if err := srv.publisher.PublishVisitEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish visit event",
			slog.String("type", eventType),
			slog.Int("visit_id", visit.ID),
			slog.Any("error", err),
		)
	}
}

func validateNewVisit(v *entity.VisitEntry) error {
	switch {
	case v.FirstName == "" || v.LastName == "":
		return invalid("visitor first and last name are required")
	case !v.Purpose.IsValid():
		return invalid("purpose is not one of the listed purposes")
	case !util.ValidDate(v.Date):
		return invalid("date must be YYYY-MM-DD")
	case !util.ValidClock(v.TimeIn):
		return invalid("time in must be HH:MM")
	}

	return nil
}

func validateVisitPatch(p *entity.VisitPatch) error {
	if p == nil {
		return nil
	}
	if p.FirstName != nil && strings.TrimSpace(*p.FirstName) == "" {
		return invalid("first name cannot be empty")
	}
	if p.LastName != nil && strings.TrimSpace(*p.LastName) == "" {
		return invalid("last name cannot be empty")
	}
	if p.Purpose != nil && !p.Purpose.IsValid() {
		return invalid("purpose is not one of the listed purposes")
	}
	if p.Date != nil && !util.ValidDate(*p.Date) {
		return invalid("date must be YYYY-MM-DD")
	}
	if p.TimeIn != nil && !util.ValidClock(*p.TimeIn) {
		return invalid("time in must be HH:MM")
	}
	if p.TimeOut != nil && *p.TimeOut != "" && !util.ValidClock(*p.TimeOut) {
		return invalid("time out must be HH:MM or empty")
	}

	return nil
}

func byStaff(visits []*entity.VisitEntry, staffID int) []*entity.VisitEntry {
	out := make([]*entity.VisitEntry, 0, len(visits))
	for _, v := range visits {
		if v.LoggedBy == staffID {
			out = append(out, v)
		}
	}

	return out
}

func listOrWrap(visits []*entity.VisitEntry, err error) ([]*entity.VisitEntry, error) {
	if err != nil {
		return nil, errors.Wrap(err, "failed to list visits")
	}

	return visits, nil
}

func mapVisitError(err error) error {
	if errors.Is(err, repository.ErrVisitNotFound) {
		return errors.Wrap(domainerrors.ErrVisitNotFound, "visit lookup")
	}

	return errors.Wrap(err, "visit repository")
}

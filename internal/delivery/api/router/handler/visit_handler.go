package handler

import (
	"log/slog"
	"net/http"

	"elogbook/internal/delivery/api/response"
	"elogbook/internal/domain/entity"
	"elogbook/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// VisitHandlerParams holds dependencies for VisitHandler, injected by Fx.
type VisitHandlerParams struct {
	fx.In

	VisitUC usecase.VisitUsecase
	Logger  *slog.Logger
}

// VisitHandler serves the check-in, check-out and visit listing routes
type VisitHandler struct {
	visitUC usecase.VisitUsecase
	logger  *slog.Logger
}

// NewVisitHandler is the constructor for VisitHandler
func NewVisitHandler(params VisitHandlerParams) *VisitHandler {
	return &VisitHandler{
		visitUC: params.VisitUC,
		logger:  params.Logger,
	}
}

// LogVisitRequest represents the check-in form. Date and timeIn default to now.
type LogVisitRequest struct {
	FirstName     string `json:"firstName" validate:"required"`
	LastName      string `json:"lastName" validate:"required"`
	Address       string `json:"address"`
	ContactNumber string `json:"contactNumber"`
	Purpose       string `json:"purpose" validate:"required,purpose"`
	Date          string `json:"date" validate:"omitempty,yyyymmdd"`
	TimeIn        string `json:"timeIn" validate:"omitempty,hhmm"`
}

// UpdateVisitRequest represents a partial visit update. An empty timeOut
// marks the visitor as still inside.
type UpdateVisitRequest struct {
	FirstName     *string `json:"firstName" validate:"omitempty,min=1"`
	LastName      *string `json:"lastName" validate:"omitempty,min=1"`
	Address       *string `json:"address"`
	ContactNumber *string `json:"contactNumber"`
	Purpose       *string `json:"purpose" validate:"omitempty,purpose"`
	Date          *string `json:"date" validate:"omitempty,yyyymmdd"`
	TimeIn        *string `json:"timeIn" validate:"omitempty,hhmm"`
	TimeOut       *string `json:"timeOut" validate:"omitempty,hhmm"`
	LoggedBy      *int    `json:"loggedBy" validate:"omitempty,min=1"`
}

func (r *UpdateVisitRequest) patch() *entity.VisitPatch {
	p := &entity.VisitPatch{
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		Address:       r.Address,
		ContactNumber: r.ContactNumber,
		Date:          r.Date,
		TimeIn:        r.TimeIn,
		TimeOut:       r.TimeOut,
		LoggedBy:      r.LoggedBy,
	}
	if r.Purpose != nil {
		purpose := entity.Purpose(*r.Purpose)
		p.Purpose = &purpose
	}

	return p
}

// ListVisitsQuery holds the filters of GET /api/v1/visits
type ListVisitsQuery struct {
	Date  string `query:"date" json:"date" validate:"omitempty,yyyymmdd"`
	From  string `query:"from" json:"from" validate:"omitempty,yyyymmdd"`
	To    string `query:"to" json:"to" validate:"omitempty,yyyymmdd"`
	Staff int    `query:"staff" json:"staff" validate:"gte=0"`
}

// LogVisit handles POST /api/v1/visits
func (h *VisitHandler) LogVisit(c echo.Context) error {
	var req LogVisitRequest
	if ok, err := bind(c, &req, "visit"); !ok {
		return err
	}

	visit, err := h.visitUC.LogVisit(c.Request().Context(), usecase.LogVisitInput{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Address:       req.Address,
		ContactNumber: req.ContactNumber,
		Purpose:       entity.Purpose(req.Purpose),
		Date:          req.Date,
		TimeIn:        req.TimeIn,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, visit)
}

// CheckOut handles POST /api/v1/visits/:id/checkout
func (h *VisitHandler) CheckOut(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}

	visit, err := h.visitUC.CheckOut(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, visit)
}

// UpdateVisit handles PATCH /api/v1/visits/:id
func (h *VisitHandler) UpdateVisit(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}

	var req UpdateVisitRequest
	if ok, err := bind(c, &req, "visit"); !ok {
		return err
	}

	visit, err := h.visitUC.UpdateVisit(c.Request().Context(), id, req.patch())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, visit)
}

// DeleteVisit handles DELETE /api/v1/visits/:id
func (h *VisitHandler) DeleteVisit(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}

	if err := h.visitUC.DeleteVisit(c.Request().Context(), id); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, message("Visit deleted"))
}

// GetVisit handles GET /api/v1/visits/:id
func (h *VisitHandler) GetVisit(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}

	visit, err := h.visitUC.GetVisit(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, visit)
}

// ListVisits handles GET /api/v1/visits
func (h *VisitHandler) ListVisits(c echo.Context) error {
	var q ListVisitsQuery
	if ok, err := bind(c, &q, "filter"); !ok {
		return err
	}

	visits, err := h.visitUC.ListVisits(c.Request().Context(), usecase.VisitFilter{
		Date:    q.Date,
		From:    q.From,
		To:      q.To,
		StaffID: q.Staff,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, visits)
}

// ListToday handles GET /api/v1/visits/today
func (h *VisitHandler) ListToday(c echo.Context) error {
	visits, err := h.visitUC.ListToday(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, visits)
}

// ListMineToday handles GET /api/v1/visits/mine/today
func (h *VisitHandler) ListMineToday(c echo.Context) error {
	visits, err := h.visitUC.ListMineToday(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, visits)
}

// VisitPass handles GET /api/v1/visits/:id/pass and returns the QR code as PNG
func (h *VisitHandler) VisitPass(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}

	png, err := h.visitUC.VisitPass(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

package handler

import (
	"net/http"

	"elogbook/internal/delivery/api/response"
	"elogbook/internal/usecase"

	"github.com/labstack/echo/v4"
)

// ReportHandler serves the dashboard figures
type ReportHandler struct {
	visitUC usecase.VisitUsecase
}

// NewReportHandler is the constructor for ReportHandler
func NewReportHandler(visitUC usecase.VisitUsecase) *ReportHandler {
	return &ReportHandler{visitUC: visitUC}
}

// Summary handles GET /api/v1/reports/summary
func (h *ReportHandler) Summary(c echo.Context) error {
	summary, err := h.visitUC.Summary(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, summary)
}

// MonthCount handles GET /api/v1/reports/month-count
func (h *ReportHandler) MonthCount(c echo.Context) error {
	count, err := h.visitUC.MonthCount(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]int{"count": count})
}

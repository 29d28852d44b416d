// Package handler holds the echo handlers of the logbook API.
package handler

import (
	"net/http"
	"strconv"

	"elogbook/internal/delivery/api/response"
	"elogbook/internal/delivery/api/validator"

	"github.com/labstack/echo/v4"
)

// HealthCheck handles the health check endpoint.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"})
}

// bind decodes and validates req. On failure it writes the 400 response and
// returns ok=false; err is the write error, if any.
func bind(c echo.Context, req any, what string) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, response.BindingError(c, "Invalid "+what+" input")
	}
	if err := c.Validate(req); err != nil {
		return false, response.ValidationError(c, validator.FieldErrors(err))
	}

	return true, nil
}

// pathID parses the positive integer :id path parameter.
func pathID(c echo.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}

func invalidID(c echo.Context) error {
	return response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid record ID", nil)
}

func message(text string) map[string]string {
	return map[string]string{"message": text}
}

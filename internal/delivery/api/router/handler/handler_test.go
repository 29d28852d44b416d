package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"elogbook/internal/delivery/api/validator"
	"elogbook/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathID(t *testing.T) {
	tests := []struct {
		param  string
		want   int
		wantOK bool
	}{
		{param: "7", want: 7, wantOK: true},
		{param: "0"},
		{param: "-3"},
		{param: "abc"},
	}

	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
			c.SetParamNames("id")
			c.SetParamValues(tt.param)

			got, ok := pathID(c)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBind_ValidationDetails(t *testing.T) {
	e := echo.New()
	e.Validator = validator.New()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"firstName":"Jose","purpose":"Party","timeIn":"25:00"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	var body LogVisitRequest
	ok, err := bind(e.NewContext(req, rec), &body, "visit")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"lastName":"required"`)
	assert.Contains(t, rec.Body.String(), `"purpose":"purpose"`)
	assert.Contains(t, rec.Body.String(), `"timeIn":"hhmm"`)
}

func TestBind_MalformedBody(t *testing.T) {
	e := echo.New()
	e.Validator = validator.New()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	var body LoginRequest
	ok, err := bind(e.NewContext(req, rec), &body, "login")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, rec.Body.String(), `"code":"INVALID_INPUT"`)
}

func TestUpdateRequests_Patch(t *testing.T) {
	role := "admin"
	name := "Maria S."
	ap := (&UpdateAccountRequest{FullName: &name, Role: &role}).patch()
	require.NotNil(t, ap.Role)
	assert.Equal(t, entity.RoleAdmin, *ap.Role)
	assert.Nil(t, ap.Status)
	assert.Equal(t, name, *ap.FullName)

	purpose := "Other"
	cleared := ""
	vp := (&UpdateVisitRequest{Purpose: &purpose, TimeOut: &cleared}).patch()
	require.NotNil(t, vp.Purpose)
	assert.Equal(t, entity.PurposeOther, *vp.Purpose)
	assert.Equal(t, "", *vp.TimeOut)
	assert.Nil(t, vp.TimeIn)

	assert.True(t, (&UpdateVisitRequest{}).patch().IsEmpty())
}

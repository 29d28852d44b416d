package handler

import (
	"log/slog"
	"net/http"

	"elogbook/internal/delivery/api/middleware"
	"elogbook/internal/delivery/api/response"
	"elogbook/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AuthHandlerParams holds dependencies for AuthHandler, injected by Fx.
type AuthHandlerParams struct {
	fx.In

	SessionUC usecase.SessionUsecase
	Scope     *middleware.ScopeMiddleware
	Logger    *slog.Logger
}

// AuthHandler serves the login form and the browser-session endpoints.
type AuthHandler struct {
	sessionUC usecase.SessionUsecase
	scope     *middleware.ScopeMiddleware
	logger    *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler
func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		sessionUC: params.SessionUC,
		scope:     params.Scope,
		logger:    params.Logger,
	}
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if ok, err := bind(c, &req, "login"); !ok {
		return err
	}

	account, err := h.sessionUC.Login(c.Request().Context(), usecase.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, usecase.NewAccountView(account))
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.sessionUC.Logout(c.Request().Context()); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, message("Logged out"))
}

// Session handles GET /auth/session
func (h *AuthHandler) Session(c echo.Context) error {
	account, err := h.sessionUC.CurrentSession(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, usecase.NewAccountView(account))
}

// EndScope handles DELETE /auth/scope. The logbook of the scope is discarded
// and the browser drops its cookie.
func (h *AuthHandler) EndScope(c echo.Context) error {
	if err := h.sessionUC.EndScope(c.Request().Context()); err != nil {
		return response.HandleAppError(c, err)
	}
	h.scope.ClearCookie(c)

	return response.Success(c, http.StatusOK, message("Browser session ended"))
}

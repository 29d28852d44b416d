package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"elogbook/config"
	deliverycontext "elogbook/internal/delivery/context"
	"elogbook/internal/domain/entity"
	"elogbook/internal/domain/service"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ScopeMiddleware binds every request to a browser-session scope through a signed cookie.
type ScopeMiddleware struct {
	tokens     service.ScopeTokenService
	cookieName string
	secure     bool
	logger     *slog.Logger
}

// NewScopeMiddleware is the constructor for ScopeMiddleware.
func NewScopeMiddleware(tokens service.ScopeTokenService, cfg *config.Config, logger *slog.Logger) *ScopeMiddleware {
	return &ScopeMiddleware{
		tokens:     tokens,
		cookieName: cfg.Session.CookieName,
		secure:     cfg.Session.CookieSecure,
		logger:     logger,
	}
}

// Bind validates the scope cookie, or starts a new scope when it is missing,
// tampered with or expired, and re-issues the cookie with a fresh deadline.
func (m *ScopeMiddleware) Bind(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		scopeID := ""
		if cookie, err := c.Cookie(m.cookieName); err == nil && cookie.Value != "" {
			scope, err := m.tokens.Validate(cookie.Value)
			if err != nil {
				deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger).
					Debug("Scope cookie rejected, starting a new scope", slog.Any("error", err))
			} else {
				scopeID = scope.ID
			}
		}

		token, scope, err := m.tokens.Issue(scopeID)
		if err != nil {
			return errors.Wrap(err, "issue scope token")
		}
		m.setCookie(c, token, scope)

		ctx := deliverycontext.WithScope(c.Request().Context(), scope.ID)
		if logger := deliverycontext.GetLogger(ctx); logger != nil {
			ctx = deliverycontext.WithLogger(ctx, logger.With(slog.String("scope", scope.ID)))
		}
		c.SetRequest(c.Request().WithContext(ctx))
		c.Set(string(deliverycontext.KeyScope), scope.ID)

		return next(c)
	}
}

// ClearCookie tells the browser to drop its scope cookie.
func (m *ScopeMiddleware) ClearCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *ScopeMiddleware) setCookie(c echo.Context, token string, scope *entity.Scope) {
	c.SetCookie(&http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  scope.ExpiresAt,
		MaxAge:   int(m.tokens.IdleTimeout().Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

package middleware

import (
	deliverycontext "elogbook/internal/delivery/context"
	"elogbook/internal/domain/entity"
	"elogbook/internal/usecase"

	"github.com/labstack/echo/v4"
)

// SessionGuard rejects requests whose scope has no logged-in account, or one
// without the required role. It must run after ScopeMiddleware.Bind.
type SessionGuard struct {
	sessions usecase.SessionUsecase
}

// NewSessionGuard is the constructor for SessionGuard.
func NewSessionGuard(sessions usecase.SessionUsecase) *SessionGuard {
	return &SessionGuard{sessions: sessions}
}

// RequireSession admits any logged-in account.
func (g *SessionGuard) RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return g.RequireRole()(next)
}

// RequireRole admits accounts holding one of roles and stores the account on the context.
func (g *SessionGuard) RequireRole(roles ...entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account, err := g.sessions.RequireRole(c.Request().Context(), roles...)
			if err != nil {
				return err
			}
			deliverycontext.SetAccount(c, account)

			return next(c)
		}
	}
}

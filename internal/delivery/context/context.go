// Package context carries per-request values of the logbook servers: the
// request ID, the request logger, the browser-session scope and the
// logged-in account.
package context

import (
	"context"
	"log/slog"

	"elogbook/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	KeyRequestID ContextKey = "request_id"
	KeyLogger    ContextKey = "logger"

	// KeyScope is the key for the browser-session scope ID.
	KeyScope ContextKey = "scope"

	// KeyAccount is the key for the logged-in account of the request. It is
	// only set on the echo context, after the session guard has run.
	KeyAccount ContextKey = "account"

	// HeaderXRequestID is the HTTP header name for request ID.
	HeaderXRequestID = "X-Request-Id"
)

func value[T any](ctx context.Context, key ContextKey) T {
	v, _ := ctx.Value(key).(T)

	return v
}

// GetRequestID returns the request ID set on c, or a fresh UUID.
func GetRequestID(c echo.Context) string {
	if id, ok := c.Get(string(KeyRequestID)).(string); ok && id != "" {
		return id
	}

	return uuid.NewString()
}

func SetRequestID(c echo.Context, requestID string) {
	c.Set(string(KeyRequestID), requestID)
}

// GetRequestIDFromContext returns "" when ctx carries no request ID.
func GetRequestIDFromContext(ctx context.Context) string {
	return value[string](ctx, KeyRequestID)
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, KeyRequestID, requestID)
}

// GetLogger returns the request logger, or nil.
func GetLogger(ctx context.Context) *slog.Logger {
	return value[*slog.Logger](ctx, KeyLogger)
}

// GetLoggerOrDefault returns the request logger, or fallback when there is none.
func GetLoggerOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger := GetLogger(ctx); logger != nil {
		return logger
	}

	return fallback
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, KeyLogger, logger)
}

// WithScope returns a new context carrying the scope ID.
func WithScope(ctx context.Context, scopeID string) context.Context {
	return context.WithValue(ctx, KeyScope, scopeID)
}

// GetScope returns the scope ID carried by ctx, or "" when there is none.
func GetScope(ctx context.Context) string {
	return value[string](ctx, KeyScope)
}

// SetAccount stores the authenticated account on the echo context.
func SetAccount(c echo.Context, account *entity.Account) {
	c.Set(string(KeyAccount), account)
}

// GetAccount returns the account stored by SetAccount.
func GetAccount(c echo.Context) (*entity.Account, bool) {
	account, ok := c.Get(string(KeyAccount)).(*entity.Account)

	return account, ok && account != nil
}

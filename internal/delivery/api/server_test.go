package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"elogbook/config"
	"elogbook/internal/delivery/api/middleware"
	"elogbook/internal/delivery/api/router"
	"elogbook/internal/delivery/api/router/handler"
	"elogbook/internal/domain/entity"
	"elogbook/internal/infra/auth"
	"elogbook/internal/infra/persistence/memory"
	"elogbook/internal/infra/persistence/recordstore"
	"elogbook/internal/infra/pubsub"
	"elogbook/internal/infra/qrcode"
	"elogbook/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cookieName = "elogbook_scope"

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

type client struct {
	t      *testing.T
	e      *echo.Echo
	cookie *http.Cookie
}

func newTestEcho(t *testing.T) *echo.Echo {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := &config.Config{Session: &config.SessionConfig{CookieName: cookieName, IdleTimeout: time.Hour}}
	cfg.Env.Timezone = "UTC"
	cfg.SecretKey.Scope = "api_server_test_scope_secret_of_sufficient_length"

	hasher := auth.NewPlainHasher()
	provider, err := recordstore.NewProvider(recordstore.Options{
		Storage:     memory.NewSessionStorage(time.Hour, time.Now),
		Hasher:      hasher,
		Location:    time.UTC,
		Logger:      logger,
		IdleTimeout: time.Hour,
	})
	require.NoError(t, err)

	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	sessions := impl.NewSessionService(impl.SessionParams{Provider: provider, Hasher: hasher, Logger: logger})
	accounts := impl.NewAccountService(impl.AccountParams{Provider: provider, Hasher: hasher, Logger: logger})
	visits, err := impl.NewVisitService(impl.VisitParams{
		Config:    cfg,
		Provider:  provider,
		Publisher: pubsub.NewNoopPublisher(logger),
		QRCode:    qrcode.NewQRCodeService(128, "M", "http://localhost:8080"),
		Logger:    logger,
	})
	require.NoError(t, err)

	scope := middleware.NewScopeMiddleware(tokens, cfg, logger)

	return newEcho(cfg, logger, router.RouterParams{
		AuthHandler:    handler.NewAuthHandler(handler.AuthHandlerParams{SessionUC: sessions, Scope: scope, Logger: logger}),
		AccountHandler: handler.NewAccountHandler(handler.AccountHandlerParams{AccountUC: accounts, Logger: logger}),
		VisitHandler:   handler.NewVisitHandler(handler.VisitHandlerParams{VisitUC: visits, Logger: logger}),
		ReportHandler:  handler.NewReportHandler(visits),
		Scope:          scope,
		Guard:          middleware.NewSessionGuard(sessions),
	})
}

func (c *client) do(method, path, body string) *httptest.ResponseRecorder {
	c.t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	rec := httptest.NewRecorder()
	c.e.ServeHTTP(rec, req)

	for _, ck := range rec.Result().Cookies() {
		if ck.Name == cookieName {
			if ck.MaxAge < 0 {
				c.cookie = nil
			} else {
				c.cookie = ck
			}
		}
	}

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))

	return out
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NotNil(t, env.Error, rec.Body.String())

	return env.Error.Code
}

func TestServer_HealthCheck(t *testing.T) {
	c := &client{t: t, e: newTestEcho(t)}

	rec := c.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, c.cookie)
}

func TestServer_StaffFlow(t *testing.T) {
	c := &client{t: t, e: newTestEcho(t)}

	rec := c.do(http.MethodGet, "/api/v1/visits/today", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, c.cookie)

	rec = c.do(http.MethodPost, "/auth/login", `{"username":"maria","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, rec))

	rec = c.do(http.MethodPost, "/auth/login", `{"username":"maria","password":"staff123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "staff123")
	me := decode[map[string]any](t, rec)
	assert.Equal(t, "staff", me["role"])

	rec = c.do(http.MethodPost, "/api/v1/visits", `{"firstName":"Jose","lastName":"Rizal","purpose":"Inquiry"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[entity.VisitEntry](t, rec)
	assert.Equal(t, 2, created.LoggedBy)
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), created.Date)

	rec = c.do(http.MethodGet, "/api/v1/visits/mine/today", "")
	require.Equal(t, http.StatusOK, rec.Code)
	mine := decode[[]entity.VisitEntry](t, rec)
	assert.Len(t, mine, 4)
	for _, v := range mine {
		assert.Equal(t, 2, v.LoggedBy)
	}

	rec = c.do(http.MethodGet, "/api/v1/visits?staff=3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]entity.VisitEntry](t, rec), 3)

	rec = c.do(http.MethodGet, "/api/v1/visits?date=15-01-2024", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, rec))

	rec = c.do(http.MethodPost, "/api/v1/visits/1/checkout", "")
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ALREADY_CHECKED_OUT", errorCode(t, rec))

	rec = c.do(http.MethodGet, "/api/v1/visits/3/pass", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.NotEmpty(t, rec.Body.Bytes())

	rec = c.do(http.MethodGet, "/api/v1/accounts", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = c.do(http.MethodDelete, "/api/v1/visits/1", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = c.do(http.MethodGet, "/api/v1/reports/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode[map[string]int](t, rec)
	assert.Equal(t, 5, summary["today"])
	assert.Equal(t, 2, summary["checkedIn"])
	assert.Equal(t, 2, summary["activeStaff"])
}

func TestServer_AdminAndScopeLifecycle(t *testing.T) {
	srv := newTestEcho(t)
	admin := &client{t: t, e: srv}
	other := &client{t: t, e: srv}

	rec := admin.do(http.MethodPost, "/auth/login", `{"username":"admin","password":"admin123"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = admin.do(http.MethodGet, "/api/v1/accounts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	assert.Len(t, decode[[]map[string]any](t, rec), 4)

	rec = admin.do(http.MethodPost, "/api/v1/accounts", `{"username":"maria","password":"x","fullName":"Dup","role":"staff"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "USERNAME_TAKEN", errorCode(t, rec))

	rec = admin.do(http.MethodPost, "/api/v1/accounts", `{"username":"lito","password":"x","fullName":"Lito Lapid","role":"staff"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 5, int(decode[map[string]any](t, rec)["id"].(float64)))

	rec = admin.do(http.MethodPatch, "/api/v1/accounts/5", `{"status":"inactive"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "inactive", decode[map[string]any](t, rec)["status"])

	rec = admin.do(http.MethodDelete, "/api/v1/visits/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	// A second browser session sees the untouched seed.
	rec = other.do(http.MethodPost, "/auth/login", `{"username":"admin","password":"admin123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = other.do(http.MethodGet, "/api/v1/accounts", "")
	assert.Len(t, decode[[]map[string]any](t, rec), 4)
	rec = other.do(http.MethodGet, "/api/v1/visits/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = admin.do(http.MethodPost, "/auth/logout", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = admin.do(http.MethodGet, "/auth/session", "")
	assert.Equal(t, "NO_SESSION", errorCode(t, rec))

	previous := admin.cookie
	rec = admin.do(http.MethodDelete, "/auth/scope", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, admin.cookie)

	// The ended scope is reseeded on next use.
	admin.cookie = previous
	rec = admin.do(http.MethodPost, "/auth/login", `{"username":"admin","password":"admin123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = admin.do(http.MethodGet, "/api/v1/accounts", "")
	assert.Len(t, decode[[]map[string]any](t, rec), 4)
}

package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Natalis/pkg/http/middleware"
)

type stubHandler struct{}

func (stubHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/boom", func(c echo.Context) error { panic("boom") })
	e.GET("/ok", func(c echo.Context) error { return SuccessResponse(c, "fine") })
	e.GET("/teapot", func(c echo.Context) error {
		return AppErrorResponse(c, TooManyRequestsError("slow down"))
	})
}

type denyAll struct{}

func (denyAll) Allow(string) bool { return false }

func serve(t *testing.T, s *Server, method, path string, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

func TestServer_Healthz(t *testing.T) {
	s := NewServer(nil)
	rec := serve(t, s, http.MethodGet, "/healthz", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusOK, body.Status)
	assert.Equal(t, "OK", body.Message)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestServer_RequestIDPropagated(t *testing.T) {
	s := NewServer([]Handler{stubHandler{}})
	rec := serve(t, s, http.MethodGet, "/ok", map[string]string{echo.HeaderXRequestID: "abc-123"})

	assert.Equal(t, "abc-123", rec.Header().Get(echo.HeaderXRequestID))
}

func TestServer_RecoversPanics(t *testing.T) {
	s := NewServer([]Handler{stubHandler{}})
	rec := serve(t, s, http.MethodGet, "/boom", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestServer_AppErrorStatus(t *testing.T) {
	s := NewServer([]Handler{stubHandler{}})
	rec := serve(t, s, http.MethodGet, "/teapot", nil)

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_RATE_LIMITED")
}

func TestServer_CORSPreflight(t *testing.T) {
	s := NewServer([]Handler{stubHandler{}}, WithCORS(true, "https://app.example"))

	rec := serve(t, s, http.MethodOptions, "/ok", map[string]string{echo.HeaderOrigin: "https://app.example"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://app.example", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.True(t, strings.Contains(rec.Header().Get(echo.HeaderAccessControlAllowHeaders), "Apikey"))

	rec = serve(t, s, http.MethodGet, "/ok", map[string]string{echo.HeaderOrigin: "https://evil.example"})
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestServer_RateLimitMiddleware(t *testing.T) {
	s := NewServer([]Handler{stubHandler{}}, WithMiddleware(middleware.RateLimit(denyAll{})))

	rec := serve(t, s, http.MethodGet, "/ok", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestServer_MetricsEndpoint(t *testing.T) {
	s := NewServer([]Handler{stubHandler{}})
	serve(t, s, http.MethodGet, "/ok", nil)

	rec := serve(t, s, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/darkkaiser/phone-price-server/internal/service/api/constants"
	applog "github.com/darkkaiser/phone-price-server/pkg/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// =============================================================================
// RequireAppKey
// =============================================================================

func TestRequireAppKey(t *testing.T) {
	tests := []struct {
		name       string
		appKey     string
		header     string
		wantStatus int
	}{
		{name: "키 미설정이면 통과", appKey: "", header: "", wantStatus: http.StatusOK},
		{name: "일치", appKey: "secret-key", header: "secret-key", wantStatus: http.StatusOK},
		{name: "헤더 누락", appKey: "secret-key", header: "", wantStatus: http.StatusUnauthorized},
		{name: "불일치", appKey: "secret-key", header: "wrong-key", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.GET("/api/v1/comparison", okHandler, RequireAppKey(tt.appKey))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/comparison", nil)
			if tt.header != "" {
				req.Header.Set(constants.HeaderAppKey, tt.header)
			}

			rec := serve(e, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRequireAppKey_MasksKeyInLog(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	e := echo.New()
	e.GET("/x", okHandler, RequireAppKey("secret-key"))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(constants.HeaderAppKey, "wrong-key-123456")
	serve(e, req)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "wron***3456", entry.Data["received_app_key"])
}

// =============================================================================
// RateLimiting
// =============================================================================

func TestRateLimiting(t *testing.T) {
	e := echo.New()
	e.GET("/x", okHandler, RateLimiting(1, 2))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		codes = append(codes, serve(e, req).Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// 다른 IP 는 독립적으로 제한됩니다.
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	assert.Equal(t, http.StatusOK, serve(e, req).Code)
}

func TestRateLimiting_Panics(t *testing.T) {
	assert.Panics(t, func() { RateLimiting(0, 1) })
	assert.Panics(t, func() { RateLimiting(1, 0) })
}

// =============================================================================
// PanicRecovery
// =============================================================================

func TestPanicRecovery(t *testing.T) {
	tests := []struct {
		name    string
		payload any
	}{
		{name: "문자열 패닉", payload: "치명적인 오류 발생"},
		{name: "에러 패닉", payload: errors.New("스냅샷 읽기 실패")},
		{name: "정수 패닉", payload: 12345},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hook := test.NewGlobal()
			defer hook.Reset()

			e := echo.New()
			e.Use(PanicRecovery())
			e.GET("/panic", func(c echo.Context) error { panic(tt.payload) })

			rec := serve(e, httptest.NewRequest(http.MethodGet, "/panic", nil))
			assert.Equal(t, http.StatusInternalServerError, rec.Code)

			var found bool
			for _, entry := range hook.AllEntries() {
				if entry.Data["component"] == constants.ComponentMiddlewarePanicRecovery {
					found = true
					assert.NotEmpty(t, entry.Data["stack"])
				}
			}
			assert.True(t, found, "패닉 복구 로그가 기록되어야 합니다")
		})
	}
}

// =============================================================================
// HTTPLogger
// =============================================================================

func TestHTTPLogger(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	e := echo.New()
	e.Use(HTTPLogger())
	e.GET("/api/v1/comparison", okHandler)

	serve(e, httptest.NewRequest(http.MethodGet, "/api/v1/comparison?app_key=secret123456&mode=full", nil))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "HTTP 요청", entry.Message)
	assert.Equal(t, http.StatusOK, entry.Data["status"])
	assert.Equal(t, "/api/v1/comparison", entry.Data["path"])

	uri, _ := entry.Data["uri"].(string)
	assert.NotContains(t, uri, "secret123456")
	assert.Contains(t, uri, "mode=full")
}

func TestMaskSensitiveQueryParams(t *testing.T) {
	tests := []struct {
		in   string
		keep string
		hide string
	}{
		{in: "/api/v1/runs?mode=full", keep: "/api/v1/runs?mode=full"},
		{in: "/x?token=abcdefghijklmnop", keep: "token=", hide: "abcdefghijklmnop"},
		{in: "/x?password=abc", keep: "password=", hide: "password=abc"},
	}

	for _, tt := range tests {
		got := maskSensitiveQueryParams(tt.in)
		assert.Contains(t, got, tt.keep)
		if tt.hide != "" {
			assert.False(t, strings.Contains(got, tt.hide), got)
		}
	}
}

// =============================================================================
// Logger adapter
// =============================================================================

func TestLogger_Level(t *testing.T) {
	l := Logger{Logger: logrus.New()}

	tests := []struct {
		lvl log.Lvl
		app applog.Level
	}{
		{log.DEBUG, applog.DebugLevel},
		{log.INFO, applog.InfoLevel},
		{log.WARN, applog.WarnLevel},
		{log.ERROR, applog.ErrorLevel},
	}

	for _, tt := range tests {
		l.SetLevel(tt.lvl)
		assert.Equal(t, tt.app, l.Logger.Level)
		assert.Equal(t, tt.lvl, l.Level())
	}

	l.Logger.SetLevel(applog.PanicLevel)
	assert.Equal(t, log.OFF, l.Level())
	assert.Empty(t, l.Prefix())
	assert.Equal(t, l.Logger.Out, l.Output())
}

func TestLogger_JSON(t *testing.T) {
	logger, hook := test.NewNullLogger()
	l := Logger{Logger: logger}

	l.Warnj(log.JSON{"path": "/health"})
	l.Infof("port %d", 2443)

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, applog.WarnLevel, entries[0].Level)
	assert.Equal(t, "/health", entries[0].Data["path"])
	assert.Equal(t, "port 2443", entries[1].Message)
}

package health

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v3"
)

type checkFunc func(ctx context.Context) error

func (f checkFunc) HealthCheck(ctx context.Context) error { return f(ctx) }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestChecker_Check(t *testing.T) {
	checker := NewChecker(testLogger())
	checker.AddCheck("store", checkFunc(func(context.Context) error { return nil }))
	checker.AddCheck("redis", checkFunc(func(context.Context) error { return errors.New("connection refused") }))
	checker.AddCheck("", checkFunc(func(context.Context) error { return nil }))
	checker.AddCheck("nil", nil)

	assert.Equal(t, map[string]string{
		"store": "OK",
		"redis": "connection refused",
	}, checker.Check(context.Background()))
}

func TestChecker_Handler(t *testing.T) {
	testCases := []struct {
		name     string
		failing  bool
		wantCode int
		wantBody string
	}{
		{name: "healthy", wantCode: http.StatusOK, wantBody: "ok"},
		{name: "degraded", failing: true, wantCode: http.StatusServiceUnavailable, wantBody: "degraded"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			checker := NewChecker(testLogger())
			checker.AddCheck("store", checkFunc(func(context.Context) error {
				if tc.failing {
					return errors.New("down")
				}
				return nil
			}))

			rec := httptest.NewRecorder()
			checker.Handler(time.Second).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			assert.Equal(t, tc.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body report
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.wantBody, body.Status)
			assert.Contains(t, body.Components, "store")
		})
	}
}

func TestTelegramChecker(t *testing.T) {
	assert.Error(t, NewTelegramChecker(nil).HealthCheck(context.Background()))

	tb, err := telebot.NewBot(telebot.Settings{Token: "test", Offline: true})
	require.NoError(t, err)
	assert.NoError(t, NewTelegramChecker(tb).HealthCheck(context.Background()))
}

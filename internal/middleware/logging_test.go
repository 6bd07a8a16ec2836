package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggingMiddleware_LevelFollowsStatus(t *testing.T) {
	cases := map[int]zapcore.Level{
		http.StatusOK:                  zapcore.InfoLevel,
		http.StatusNotFound:            zapcore.WarnLevel,
		http.StatusServiceUnavailable:  zapcore.ErrorLevel,
		http.StatusInternalServerError: zapcore.ErrorLevel,
	}

	for status, level := range cases {
		core, logs := observer.New(zapcore.DebugLevel)
		handler := LoggingMiddleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/products", nil))

		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, level, entries[0].Level)
		assert.EqualValues(t, status, entries[0].ContextMap()["status"])
	}
}

func TestLoggingMiddleware_IncludesCaller(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	userID := uuid.New()
	handler := LoggingMiddleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest("DELETE", "/api/saved-products/x", nil)
	req = req.WithContext(WithUserID(req.Context(), userID))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, userID.String(), logs.All()[0].ContextMap()["user_id"])
}

package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-leave/internal/health"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func serve(t *testing.T, checks map[string]health.Check) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	health.RegisterRoutes(r, health.NewHandler(checks, zap.NewNop()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	return w
}

func TestHealthz(t *testing.T) {
	up := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	t.Run("no checks", func(t *testing.T) {
		w := serve(t, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"ok"`)
	})

	t.Run("all up", func(t *testing.T) {
		w := serve(t, map[string]health.Check{"postgres": up, "redis": up})
		require.Equal(t, http.StatusOK, w.Code)

		var report health.Report
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
		assert.Equal(t, map[string]string{"postgres": "up", "redis": "up"}, report.Checks)
	})

	t.Run("one down", func(t *testing.T) {
		w := serve(t, map[string]health.Check{"postgres": up, "redis": down})
		require.Equal(t, http.StatusServiceUnavailable, w.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "SERVICE_UNAVAILABLE", body["code"])
		assert.Equal(t, map[string]any{"postgres": "up", "redis": "down"}, body["details"])
	})
}

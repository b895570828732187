// Package health exposes liveness and dependency checks.
package health

import (
	"context"
	"net/http"
	"time"

	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Check reports whether one dependency is reachable.
type Check func(ctx context.Context) error

type Handler struct {
	checks  map[string]Check
	timeout time.Duration
	logger  *zap.Logger
}

func NewHandler(checks map[string]Check, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("health.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	if checks == nil {
		checks = map[string]Check{}
	}
	return &Handler{checks: checks, timeout: 2 * time.Second, logger: l}
}

type Report struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	report := Report{Status: "ok", Checks: make(map[string]string, len(h.checks))}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.Warn("health check failed", zap.String("check", name), zap.Error(err))
			report.Status = "degraded"
			report.Checks[name] = "down"
			continue
		}
		report.Checks[name] = "up"
	}

	if report.Status != "ok" {
		response.Error(c, http.StatusServiceUnavailable, apperror.CodeServiceUnavailable, "Service unavailable", report.Checks)
		return
	}
	response.Success(c, http.StatusOK, report, nil)
}

func RegisterRoutes(r gin.IRoutes, handler *Handler) {
	r.GET("/healthz", handler.Healthz)
}

package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ReadinessCheck reports whether the proxy can currently serve upstream
// requests.
type ReadinessCheck func(ctx context.Context) error

// HealthHandler provides health and readiness endpoints.
type HealthHandler struct {
	ready ReadinessCheck
}

// NewHealthHandler creates a new HealthHandler. A nil check is always ready.
func NewHealthHandler(check ReadinessCheck) *HealthHandler {
	return &HealthHandler{ready: check}
}

// Healthz returns 200 if the process is running.
//
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} StatusResponse
// @Router /healthz [get]
func (*HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// Readyz returns 200 when the readiness check passes, 503 otherwise.
//
// @Summary Readiness check
// @Tags health
// @Produce json
// @Success 200 {object} StatusResponse
// @Failure 503 {object} StatusResponse
// @Router /readyz [get]
func (h *HealthHandler) Readyz(c echo.Context) error {
	if h.ready != nil {
		if err := h.ready(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, StatusResponse{Status: "unavailable"})
		}
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: "ready"})
}

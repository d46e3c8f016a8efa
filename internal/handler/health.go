package handler

import (
	"net/http"

	"github.com/WaghmarePravinn/ai-career-coach/internal/gateway"
	"github.com/WaghmarePravinn/ai-career-coach/internal/model"
)

// StatusReader exposes the monitor's cached backend reading.
type StatusReader interface {
	Status() model.HealthStatus
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	gateway *gateway.Gateway
	monitor StatusReader
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(gw *gateway.Gateway, monitor StatusReader) *HealthHandler {
	return &HealthHandler{
		gateway: gw,
		monitor: monitor,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Ready handles GET /ready. The gateway serves even when the backend is
// down (cloud fallback), so readiness reports the degraded mode instead of
// failing.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	mode := "full"
	if h.monitor.Status() != model.HealthOnline {
		mode = "cloud-only"
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
		"mode":   mode,
	})
}

// Backend handles GET /api/v1/backend/health, forcing a fresh probe.
func (h *HealthHandler) Backend(w http.ResponseWriter, r *http.Request) {
	status := h.gateway.CheckBackendHealth(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": status,
		"online": status == model.HealthOnline,
	})
}

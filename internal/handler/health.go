package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/awesomegusS/agentic-data-explorer/internal/models"
	"github.com/awesomegusS/agentic-data-explorer/internal/pipeline"
)

const version = "1.0.0"

// HealthHandler serves liveness, readiness and dependency health probes.
type HealthHandler struct {
	agent   *pipeline.Agent
	started time.Time
}

func NewHealthHandler(agent *pipeline.Agent) *HealthHandler {
	return &HealthHandler{agent: agent, started: time.Now()}
}

// Health handles GET /health: a cheap probe with no dependency calls.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	models.WriteJSON(w, http.StatusOK, models.HealthResponse{
		Status:        "healthy",
		Version:       version,
		UptimeSeconds: time.Since(h.started).Seconds(),
	})
}

// Detailed handles GET /health/detailed with actual dependency checks.
// Returns 503 when a dependency is unavailable.
func (h *HealthHandler) Detailed(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"server": "ok"}
	overallStatus := "healthy"

	// Short timeout so health checks don't block
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.agent.TestConnection(ctx); err != nil {
		checks["warehouse"] = "unavailable: " + err.Error()
		overallStatus = "degraded"
	} else {
		checks["warehouse"] = "ok"
	}

	if schema := h.agent.Schema(); schema != nil && len(schema.Tables) > 0 {
		checks["schema"] = "ok"
	} else {
		checks["schema"] = "unavailable: schema snapshot empty"
		overallStatus = "degraded"
	}

	statusCode := http.StatusOK
	if overallStatus == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}
	stats := h.agent.Stats()
	models.WriteJSON(w, statusCode, models.HealthResponse{
		Status:        overallStatus,
		Version:       version,
		UptimeSeconds: time.Since(h.started).Seconds(),
		Checks:        checks,
		Statistics:    &stats,
	})
}

// Ready handles GET /ready: the service is ready once the schema snapshot
// has been loaded.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if schema := h.agent.Schema(); schema == nil {
		models.WriteError(w, http.StatusServiceUnavailable, "not ready: schema snapshot not loaded")
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// Live handles GET /live.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	models.WriteJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

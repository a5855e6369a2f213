package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/staffmcp/staffmcp/internal/models"
)

const version = "1.0.0"

// HealthChecker is implemented by collaborators that can report connectivity
type HealthChecker interface {
	TestConnection(ctx context.Context) error
}

// HealthHandler handles GET /health with dependency checks
type HealthHandler struct {
	store    HealthChecker
	reasoner bool
}

func NewHealthHandler(store HealthChecker, reasonerEnabled bool) *HealthHandler {
	return &HealthHandler{store: store, reasoner: reasonerEnabled}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"server": "ok"}
	overallStatus := "healthy"

	// Use a short timeout for health checks so they don't block
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if h.store != nil {
		if err := h.store.TestConnection(ctx); err != nil {
			checks["store"] = "unavailable: " + err.Error()
			overallStatus = "degraded"
		} else {
			checks["store"] = "ok"
		}
	} else {
		checks["store"] = "disabled"
	}

	if h.reasoner {
		checks["assistant"] = "ok"
	} else {
		checks["assistant"] = "disabled"
	}

	statusCode := http.StatusOK
	if overallStatus == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}

	models.WriteJSON(w, statusCode, models.HealthResponse{
		Status:  overallStatus,
		Version: version,
		Checks:  checks,
	})
}

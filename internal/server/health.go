package server

import (
	"encoding/json"
	"net/http"

	"github.com/desertthunder/queued/internal/queue"
)

// HealthHandler reports service liveness and basic queue stats.
type HealthHandler struct {
	engine *queue.Engine
}

// NewHealthHandler creates a HealthHandler backed by the given engine.
func NewHealthHandler(engine *queue.Engine) *HealthHandler {
	return &HealthHandler{engine: engine}
}

// Routes returns the patterns this handler serves.
func (h *HealthHandler) Routes() []string {
	return []string{"GET /health"}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{
		"status":       "ok",
		"queue_length": h.engine.Len(),
	})
}

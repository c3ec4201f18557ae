// Package api provides HTTP handler plumbing shared across the opschat API.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/next-toks/opschat/internal/store"
)

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// Pinger reports reachability of the remote agent service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports database and agent-service health.
type HealthHandler struct {
	repo  store.Repository
	agent Pinger
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(repo store.Repository, agent Pinger) *HealthHandler {
	return &HealthHandler{repo: repo, agent: agent}
}

// RegisterRoutes mounts the health endpoint.
func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/health", h.handleHealth)
}

func (h *HealthHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := map[string]string{
		"status": "ok",
		"db":     "ok",
		"agent":  "ok",
	}
	code := http.StatusOK

	if err := h.repo.Ping(ctx); err != nil {
		status["db"] = err.Error()
		status["status"] = "degraded"
		code = http.StatusServiceUnavailable
	}
	if h.agent != nil {
		if err := h.agent.Ping(ctx); err != nil {
			status["agent"] = err.Error()
			status["status"] = "degraded"
			code = http.StatusServiceUnavailable
		}
	}

	JSON(w, code, status)
}

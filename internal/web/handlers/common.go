// Package handlers implements the HTTP endpoints of the browser preview.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// errInvalidRequestBody is a shared error message for invalid JSON request bodies.
const errInvalidRequestBody = "invalid request body"

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// HealthChecker probes a dependency.
type HealthChecker func(ctx context.Context) error

// HealthHandler reports the server status and, when configured, whether the
// pose service answers.
type HealthHandler struct {
	poseService HealthChecker
}

// NewHealthHandler creates a health handler. poseService may be nil.
func NewHealthHandler(poseService HealthChecker) *HealthHandler {
	return &HealthHandler{poseService: poseService}
}

// Get handles the health check endpoint. The server itself is healthy as
// long as it answers; a failing pose service is reported but not fatal.
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{
		"status":       "ok",
		"pose_service": "disabled",
	}
	if h.poseService != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.poseService(ctx); err != nil {
			resp["pose_service"] = "unavailable"
			resp["pose_service_error"] = err.Error()
		} else {
			resp["pose_service"] = "ok"
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

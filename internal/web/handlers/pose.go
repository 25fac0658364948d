package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kozaktomas/pose-detector/internal/constants"
	"github.com/kozaktomas/pose-detector/internal/display"
)

// PoseHandler serves the current classification and accepts the viewport
// size reported by the browser.
type PoseHandler struct {
	preview *display.Preview
}

// NewPoseHandler creates a pose handler
func NewPoseHandler(preview *display.Preview) *PoseHandler {
	return &PoseHandler{preview: preview}
}

// Get returns the latest label and frame counters.
func (h *PoseHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.preview.Snapshot())
}

// ViewportRequest is the browser's drawable area in pixels.
type ViewportRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// SetViewport records the viewport the frames are fitted to.
func (h *PoseHandler) SetViewport(w http.ResponseWriter, r *http.Request) {
	var req ViewportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.Width <= 0 || req.Height <= 0 {
		respondError(w, http.StatusBadRequest, "width and height must be positive")
		return
	}
	if req.Width > constants.MaxViewportSize || req.Height > constants.MaxViewportSize {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("width and height must not exceed %d", constants.MaxViewportSize))
		return
	}

	h.preview.SetSize(req.Width, req.Height)
	respondJSON(w, http.StatusOK, req)
}

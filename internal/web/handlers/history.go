package handlers

import (
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/kozaktomas/pose-detector/internal/constants"
	"github.com/kozaktomas/pose-detector/internal/database"
)

// HistoryHandler lists journal events.
type HistoryHandler struct {
	recorder database.Recorder
	log      *logrus.Logger
}

// NewHistoryHandler creates a history handler. recorder may be nil when the
// journal is disabled.
func NewHistoryHandler(recorder database.Recorder, log *logrus.Logger) *HistoryHandler {
	return &HistoryHandler{recorder: recorder, log: log}
}

// List returns the most recent label transitions, newest first.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.recorder == nil {
		respondError(w, http.StatusServiceUnavailable, "journal disabled")
		return
	}

	limit := constants.DefaultHistoryLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = min(n, constants.MaxHistoryLimit)
	}

	events, err := h.recorder.RecentEvents(r.Context(), limit)
	if err != nil {
		h.log.WithError(err).Error("Failed to list journal events")
		respondError(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	if events == nil {
		events = []database.Event{}
	}
	respondJSON(w, http.StatusOK, events)
}

package database

import (
	"time"

	"github.com/google/uuid"

	"github.com/kozaktomas/pose-detector/internal/pose"
)

// Session is one run of the frame loop.
type Session struct {
	ID        uuid.UUID `json:"id"`
	Source    string    `json:"source"`
	StartedAt time.Time `json:"started_at"`
}

// Event is a recorded label transition.
type Event struct {
	ID         int64      `json:"id"`
	SessionID  uuid.UUID  `json:"session_id"`
	Frame      int64      `json:"frame"`
	Label      pose.Label `json:"label"`
	OccurredAt time.Time  `json:"occurred_at"`
}

package database

import (
	"context"
)

// Recorder stores classification sessions and their label transitions.
type Recorder interface {
	// StartSession creates a session for the given capture source
	StartSession(ctx context.Context, source string) (Session, error)
	// RecordEvent stores an event of a started session
	RecordEvent(ctx context.Context, event Event) error
	// RecentEvents returns the latest events across all sessions, newest first
	RecentEvents(ctx context.Context, limit int) ([]Event, error)
	// Close releases the underlying storage
	Close() error
}

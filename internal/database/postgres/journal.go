package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kozaktomas/pose-detector/internal/constants"
	"github.com/kozaktomas/pose-detector/internal/database"
	"github.com/kozaktomas/pose-detector/internal/pose"
)

// JournalRepository provides PostgreSQL-backed classification journal storage
type JournalRepository struct {
	pool *Pool
}

// NewJournalRepository creates a new PostgreSQL journal repository
func NewJournalRepository(pool *Pool) *JournalRepository {
	return &JournalRepository{pool: pool}
}

// StartSession inserts a new session
func (r *JournalRepository) StartSession(ctx context.Context, source string) (database.Session, error) {
	s := database.Session{
		ID:        uuid.New(),
		Source:    source,
		StartedAt: time.Now().UTC(),
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO pose_sessions (id, source, started_at) VALUES ($1, $2, $3)`,
		s.ID, s.Source, s.StartedAt,
	)
	if err != nil {
		return database.Session{}, fmt.Errorf("start session: %w", err)
	}
	return s, nil
}

// RecordEvent inserts a label transition
func (r *JournalRepository) RecordEvent(ctx context.Context, event database.Event) error {
	query := `
		INSERT INTO pose_events (session_id, frame, label, occurred_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query, event.SessionID, event.Frame, event.Label.String(), event.OccurredAt)
	if err != nil {
		return fmt.Errorf("record event: %w", err)
	}
	return nil
}

// RecentEvents returns the latest events across all sessions, newest first
func (r *JournalRepository) RecentEvents(ctx context.Context, limit int) ([]database.Event, error) {
	if limit <= 0 {
		limit = constants.DefaultHistoryLimit
	}
	if limit > constants.MaxHistoryLimit {
		limit = constants.MaxHistoryLimit
	}

	query := `
		SELECT id, session_id, frame, label, occurred_at
		FROM pose_events
		ORDER BY occurred_at DESC, id DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []database.Event
	for rows.Next() {
		var (
			e     database.Event
			label string
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Frame, &label, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if e.Label, err = pose.ParseLabel(label); err != nil {
			return nil, fmt.Errorf("event %d: %w", e.ID, err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// Close closes the connection pool
func (r *JournalRepository) Close() error {
	return r.pool.Close()
}

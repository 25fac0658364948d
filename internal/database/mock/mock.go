// Package mock provides mock implementations of database interfaces for testing.
package mock

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kozaktomas/pose-detector/internal/database"
)

// MockRecorder is an in-memory implementation of database.Recorder
type MockRecorder struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]database.Session
	events   []database.Event
	nextID   int64
	closed   bool

	// Error injection
	StartSessionError error
	RecordEventError  error
	RecentEventsError error
}

// NewMockRecorder creates a new mock recorder
func NewMockRecorder() *MockRecorder {
	return &MockRecorder{
		sessions: make(map[uuid.UUID]database.Session),
	}
}

// StartSession creates a session
func (m *MockRecorder) StartSession(ctx context.Context, source string) (database.Session, error) {
	if m.StartSessionError != nil {
		return database.Session{}, m.StartSessionError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s := database.Session{ID: uuid.New(), Source: source, StartedAt: time.Now().UTC()}
	m.sessions[s.ID] = s
	return s, nil
}

// RecordEvent stores an event of a known session
func (m *MockRecorder) RecordEvent(ctx context.Context, event database.Event) error {
	if m.RecordEventError != nil {
		return m.RecordEventError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[event.SessionID]; !ok {
		return fmt.Errorf("unknown session %s", event.SessionID)
	}
	m.nextID++
	event.ID = m.nextID
	m.events = append(m.events, event)
	return nil
}

// RecentEvents returns the latest events, newest first
func (m *MockRecorder) RecentEvents(ctx context.Context, limit int) ([]database.Event, error) {
	if m.RecentEventsError != nil {
		return nil, m.RecentEventsError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]database.Event, len(m.events))
	copy(out, m.events)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close marks the recorder closed
func (m *MockRecorder) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Events returns all recorded events in insertion order
func (m *MockRecorder) Events() []database.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]database.Event, len(m.events))
	copy(out, m.events)
	return out
}

// Sessions returns the number of started sessions
func (m *MockRecorder) Sessions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// IsClosed reports whether Close was called
func (m *MockRecorder) IsClosed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}

package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kozaktomas/pose-detector/internal/pose"
)

// TransitionRecorder journals label changes of one session. Ticks without a
// detection are not stored but reset the previous label, so a pose that is
// lost and found again is recorded twice.
type TransitionRecorder struct {
	recorder Recorder
	session  Session
	last     pose.Label
	hasLast  bool
	now      func() time.Time
	mu       sync.Mutex
}

// NewTransitionRecorder starts a session on recorder.
func NewTransitionRecorder(ctx context.Context, recorder Recorder, source string) (*TransitionRecorder, error) {
	session, err := recorder.StartSession(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	return &TransitionRecorder{recorder: recorder, session: session, now: time.Now}, nil
}

// Session returns the journal session.
func (t *TransitionRecorder) Session() Session {
	return t.session
}

// Observe records label when it differs from the previously observed one.
// A failed write is reported once; the transition is not retried.
func (t *TransitionRecorder) Observe(ctx context.Context, frame int64, label pose.Label, detected bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !detected {
		t.hasLast = false
		return nil
	}
	if t.hasLast && t.last == label {
		return nil
	}
	t.last, t.hasLast = label, true

	event := Event{
		SessionID:  t.session.ID,
		Frame:      frame,
		Label:      label,
		OccurredAt: t.now().UTC(),
	}
	if err := t.recorder.RecordEvent(ctx, event); err != nil {
		return fmt.Errorf("record %s at frame %d: %w", label, frame, err)
	}
	return nil
}

// Close closes the underlying recorder.
func (t *TransitionRecorder) Close() error {
	return t.recorder.Close()
}

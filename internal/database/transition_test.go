package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kozaktomas/pose-detector/internal/database"
	"github.com/kozaktomas/pose-detector/internal/database/mock"
	"github.com/kozaktomas/pose-detector/internal/pose"
)

type tick struct {
	label    pose.Label
	detected bool
}

func labelsOf(events []database.Event) []pose.Label {
	out := make([]pose.Label, len(events))
	for i, e := range events {
		out[i] = e.Label
	}
	return out
}

func TestTransitionRecorder_RecordsChangesOnly(t *testing.T) {
	ctx := context.Background()
	rec := mock.NewMockRecorder()

	tr, err := database.NewTransitionRecorder(ctx, rec, "webcam:0")
	require.NoError(t, err)
	assert.Equal(t, "webcam:0", tr.Session().Source)

	ticks := []tick{
		{pose.Standing, true},
		{pose.Standing, true},
		{pose.HandsUp, true},
		{pose.HandsUp, true},
		{pose.Unknown, false},
		{pose.HandsUp, true},
		{pose.Unknown, true},
		{pose.Unknown, true},
	}
	for i, tk := range ticks {
		require.NoError(t, tr.Observe(ctx, int64(i+1), tk.label, tk.detected))
	}

	events := rec.Events()
	assert.Equal(t, []pose.Label{pose.Standing, pose.HandsUp, pose.HandsUp, pose.Unknown}, labelsOf(events))
	assert.Equal(t, []int64{1, 3, 6, 7}, []int64{events[0].Frame, events[1].Frame, events[2].Frame, events[3].Frame})
	for _, e := range events {
		assert.Equal(t, tr.Session().ID, e.SessionID)
		assert.False(t, e.OccurredAt.IsZero())
	}
}

func TestTransitionRecorder_Errors(t *testing.T) {
	ctx := context.Background()

	rec := mock.NewMockRecorder()
	rec.StartSessionError = errors.New("connection refused")
	_, err := database.NewTransitionRecorder(ctx, rec, "dir")
	require.Error(t, err)

	rec = mock.NewMockRecorder()
	tr, err := database.NewTransitionRecorder(ctx, rec, "dir")
	require.NoError(t, err)

	rec.RecordEventError = errors.New("disk full")
	err = tr.Observe(ctx, 1, pose.Sitting, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Sitting")

	rec.RecordEventError = nil
	require.NoError(t, tr.Observe(ctx, 2, pose.Sitting, true))
	assert.Empty(t, rec.Events(), "failed transition is not retried")

	require.NoError(t, tr.Close())
	assert.True(t, rec.IsClosed())
}

func TestMockRecorder_RecentEvents(t *testing.T) {
	ctx := context.Background()
	rec := mock.NewMockRecorder()
	s, err := rec.StartSession(ctx, "test")
	require.NoError(t, err)

	for i, l := range []pose.Label{pose.TPose, pose.Heart, pose.Waving} {
		require.NoError(t, rec.RecordEvent(ctx, database.Event{SessionID: s.ID, Frame: int64(i), Label: l}))
	}

	recent, err := rec.RecentEvents(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []pose.Label{pose.Waving, pose.Heart}, labelsOf(recent))

	err = rec.RecordEvent(ctx, database.Event{Label: pose.TPose})
	assert.Error(t, err, "unknown session")
}

func TestProvider(t *testing.T) {
	database.RegisterPostgresBackend(nil)
	_, err := database.GetRecorder()
	assert.ErrorIs(t, err, database.ErrNotInitialized)
	assert.False(t, database.IsInitialized())

	rec := mock.NewMockRecorder()
	database.RegisterPostgresBackend(func() database.Recorder { return rec })
	t.Cleanup(func() { database.RegisterPostgresBackend(nil) })

	got, err := database.GetRecorder()
	require.NoError(t, err)
	assert.Same(t, rec, got)
}

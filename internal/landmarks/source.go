// Package landmarks provides the landmark sources the detector reads body
// joints from: an HTTP pose estimation service, recorded landmark files and
// fixed fixtures.
package landmarks

import (
	"context"
	"image"
	"sync"

	"github.com/kozaktomas/pose-detector/internal/pose"
)

// Source extracts body landmarks from a frame. It returns (nil, nil) when no
// person is detected. Frames are decoded images; converting a camera's native
// channel order is done before calling Extract.
type Source interface {
	Extract(ctx context.Context, img image.Image) (*pose.LandmarkSet, error)
}

// Static returns the same landmark set for every frame.
type Static struct {
	Set *pose.LandmarkSet
}

func (s Static) Extract(ctx context.Context, img image.Image) (*pose.LandmarkSet, error) {
	return s.Set, nil
}

// Replay returns recorded frames in order, starting over after the last one.
// The frame image is ignored.
type Replay struct {
	frames []Frame
	next   int
	mu     sync.Mutex
}

// NewReplay creates a replay source over frames.
func NewReplay(frames []Frame) *Replay {
	return &Replay{frames: frames}
}

func (r *Replay) Extract(ctx context.Context, img image.Image) (*pose.LandmarkSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.frames) == 0 {
		return nil, nil
	}
	f := r.frames[r.next]
	r.next = (r.next + 1) % len(r.frames)
	return f.Landmarks, nil
}

package display

import (
	"image"
	"sync"
	"time"

	"github.com/kozaktomas/pose-detector/internal/constants"
	"github.com/kozaktomas/pose-detector/internal/frame"
	"github.com/kozaktomas/pose-detector/internal/pose"
)

// LabelEvent is published whenever the shown classification changes.
type LabelEvent struct {
	Type     string     `json:"type"`
	Label    pose.Label `json:"label"`
	Detected bool       `json:"detected"`
	Time     time.Time  `json:"time"`
}

// Snapshot is the latest state of a preview.
type Snapshot struct {
	Label    pose.Label `json:"label"`
	Detected bool       `json:"detected"`
	Frames   uint64     `json:"frames"`
	Width    int        `json:"width"`
	Height   int        `json:"height"`
	Updated  time.Time  `json:"updated"`
}

// Preview is a display rendered by a browser. It keeps the latest frame as
// JPEG; the browser reports its viewport through SetSize.
type Preview struct {
	width, height int
	jpeg          []byte
	frames        uint64
	label         pose.Label
	detected      bool
	updated       time.Time
	closed        bool
	mu            sync.RWMutex

	labels   *Broadcaster[LabelEvent]
	newFrame *Broadcaster[struct{}]
}

// NewPreview creates a preview with an initial viewport size.
func NewPreview(width, height int) *Preview {
	return &Preview{
		width:    width,
		height:   height,
		labels:   NewBroadcaster[LabelEvent](constants.EventChannelBuffer),
		newFrame: NewBroadcaster[struct{}](constants.FrameChannelBuffer),
	}
}

func (p *Preview) Size() (w, h int) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.width, p.height
}

// SetSize records the viewport reported by the browser.
func (p *Preview) SetSize(w, h int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.width, p.height = w, h
}

// Show encodes img and wakes stream listeners.
func (p *Preview) Show(img image.Image) error {
	data, err := frame.EncodeJPEG(img, constants.PreviewJPEGQuality)
	if err != nil {
		return err
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	p.jpeg = data
	p.frames++
	p.updated = time.Now()
	p.mu.Unlock()

	p.newFrame.Send(struct{}{})
	return nil
}

// SetLabel publishes a label event when the label or detection state changes.
func (p *Preview) SetLabel(label pose.Label, detected bool) {
	p.mu.Lock()
	changed := p.label != label || p.detected != detected
	p.label, p.detected = label, detected
	p.mu.Unlock()

	if changed {
		p.labels.Send(LabelEvent{Type: "pose", Label: label, Detected: detected, Time: time.Now()})
	}
}

// Frame returns the latest JPEG frame and its sequence number. The slice
// must not be modified.
func (p *Preview) Frame() ([]byte, uint64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.jpeg, p.frames
}

// Snapshot returns the current state.
func (p *Preview) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return Snapshot{
		Label:    p.label,
		Detected: p.detected,
		Frames:   p.frames,
		Width:    p.width,
		Height:   p.height,
		Updated:  p.updated,
	}
}

// Labels returns the label event broadcaster.
func (p *Preview) Labels() *Broadcaster[LabelEvent] {
	return p.labels
}

// Frames returns the broadcaster signalled on every shown frame.
func (p *Preview) Frames() *Broadcaster[struct{}] {
	return p.newFrame
}

// Close stops the preview and disconnects listeners.
func (p *Preview) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	p.labels.Close()
	p.newFrame.Close()
	return nil
}

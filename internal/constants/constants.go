// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

import "time"

// Frame loop constants
const (
	// DefaultTickInterval is the default period between frame loop iterations
	DefaultTickInterval = 10 * time.Millisecond

	// ReadFailureLogEvery limits how often consecutive capture failures are logged
	ReadFailureLogEvery = 100

	// ShowFailureLogEvery limits how often consecutive display failures are logged
	ShowFailureLogEvery = 100
)

// Encoding constants
const (
	// PoseServiceJPEGQuality is the JPEG quality of frames sent to the pose service
	PoseServiceJPEGQuality = 90

	// PreviewJPEGQuality is the JPEG quality of frames served to the browser preview
	PreviewJPEGQuality = 75
)

// Event channel constants
const (
	// EventChannelBuffer is the buffer size for event channels
	EventChannelBuffer = 100

	// FrameChannelBuffer is the buffer size for frame notification channels.
	// Slow stream clients skip frames instead of queueing them.
	FrameChannelBuffer = 1
)

// Journal constants
const (
	// DefaultHistoryLimit is the default number of journal events to list
	DefaultHistoryLimit = 50

	// MaxHistoryLimit caps the number of journal events returned by one query
	MaxHistoryLimit = 1000
)

// Request constants
const (
	// MaxViewportSize bounds the viewport dimensions a browser may report
	MaxViewportSize = 10000
)

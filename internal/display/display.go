// Package display provides the surfaces annotated frames are shown on.
package display

import (
	"errors"
	"image"

	"github.com/kozaktomas/pose-detector/internal/pose"
)

// ErrClosed is returned by Show after the user closed the display.
var ErrClosed = errors.New("display closed")

// ErrUnsupported is returned when a display type was not compiled in.
var ErrUnsupported = errors.New("display not supported in this build")

// Display shows frames. Size reports the current drawable area; a zero
// dimension means the size is not known yet.
type Display interface {
	Size() (w, h int)
	Show(img image.Image) error
	Close() error
}

// LabelSink is implemented by displays that publish the current
// classification alongside the frame.
type LabelSink interface {
	SetLabel(label pose.Label, detected bool)
}

// Discard is a headless display with a fixed size.
type Discard struct {
	Width, Height int
}

func (d Discard) Size() (w, h int) {
	return d.Width, d.Height
}

func (d Discard) Show(img image.Image) error {
	return nil
}

func (d Discard) Close() error {
	return nil
}

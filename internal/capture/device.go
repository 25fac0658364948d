// Package capture provides frame sources for the detector loop.
package capture

import (
	"errors"
	"image"
)

// ErrNoFrame reports a failed read. The caller may retry on the next tick.
var ErrNoFrame = errors.New("no frame available")

// ErrUnsupported is returned when a device type was not compiled in.
var ErrUnsupported = errors.New("capture device not supported in this build")

// Device produces frames.
type Device interface {
	Read() (image.Image, error)
	Close() error
}

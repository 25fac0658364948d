//go:build !gocv

package display

import "github.com/kozaktomas/pose-detector/internal/config"

// OpenWindow is only available when built with the gocv tag.
func OpenWindow(cfg config.WindowConfig) (Display, error) {
	return nil, ErrUnsupported
}

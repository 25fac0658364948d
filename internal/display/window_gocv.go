//go:build gocv

package display

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/kozaktomas/pose-detector/internal/config"
)

const keyEscape = 27

// Window is a native OpenCV window.
type Window struct {
	window        *gocv.Window
	width, height int
}

// OpenWindow creates the window with its initial size.
func OpenWindow(cfg config.WindowConfig) (Display, error) {
	w := gocv.NewWindow(cfg.Title)
	w.ResizeWindow(cfg.Width, cfg.Height)
	return &Window{window: w, width: cfg.Width, height: cfg.Height}, nil
}

func (w *Window) Size() (int, int) {
	return w.width, w.height
}

// Show draws img and pumps the window events. Closing the window or pressing
// ESC yields ErrClosed.
func (w *Window) Show(img image.Image) error {
	if !w.window.IsOpen() || w.window.GetWindowProperty(gocv.WindowPropertyVisible) < 1 {
		return ErrClosed
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return fmt.Errorf("failed to convert frame: %w", err)
	}
	defer mat.Close()

	if err := w.window.IMShow(mat); err != nil {
		return fmt.Errorf("failed to show frame: %w", err)
	}
	if w.window.WaitKey(1) == keyEscape {
		return ErrClosed
	}
	return nil
}

func (w *Window) Close() error {
	return w.window.Close()
}

//go:build gocv

package capture

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Webcam reads frames from a local camera through OpenCV.
type Webcam struct {
	id  int
	cam *gocv.VideoCapture
	mat gocv.Mat
}

// OpenWebcam opens camera id.
func OpenWebcam(id int) (Device, error) {
	cam, err := gocv.VideoCaptureDevice(id)
	if err != nil {
		return nil, fmt.Errorf("error opening video capture device %d: %w", id, err)
	}
	return &Webcam{id: id, cam: cam, mat: gocv.NewMat()}, nil
}

// Read grabs a frame and converts it from BGR to an RGBA image.
func (w *Webcam) Read() (image.Image, error) {
	if ok := w.cam.Read(&w.mat); !ok {
		return nil, fmt.Errorf("%w: cannot read device %d", ErrNoFrame, w.id)
	}
	if w.mat.Empty() {
		return nil, ErrNoFrame
	}

	img, err := w.mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoFrame, err)
	}
	return img, nil
}

func (w *Webcam) Close() error {
	w.mat.Close()
	return w.cam.Close()
}

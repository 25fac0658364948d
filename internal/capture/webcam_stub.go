//go:build !gocv

package capture

// OpenWebcam is only available when built with the gocv tag.
func OpenWebcam(id int) (Device, error) {
	return nil, ErrUnsupported
}

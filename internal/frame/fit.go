package frame

import (
	"image"

	"golang.org/x/image/draw"
)

// FitToBox returns the largest size with the aspect ratio of srcW x srcH that
// fits inside boxW x boxH. The limiting dimension of the box is used in full.
// ok is false when the box or the result has a zero dimension, in which case
// the frame should be shown unscaled.
func FitToBox(srcW, srcH, boxW, boxH int) (w, h int, ok bool) {
	if srcW <= 0 || srcH <= 0 || boxW <= 0 || boxH <= 0 {
		return 0, 0, false
	}

	aspect := float64(srcW) / float64(srcH)
	if float64(boxW)/float64(boxH) > aspect {
		h = boxH
		w = int(float64(h) * aspect)
	} else {
		w = boxW
		h = int(float64(w) / aspect)
	}

	if w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}

// Resize scales img to width x height.
func Resize(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

// Fit scales img to fit a boxW x boxH display area preserving its aspect
// ratio. The image is returned unchanged when no scaling is possible or needed.
func Fit(img image.Image, boxW, boxH int) image.Image {
	b := img.Bounds()
	w, h, ok := FitToBox(b.Dx(), b.Dy(), boxW, boxH)
	if !ok {
		return img
	}
	if w == b.Dx() && h == b.Dy() {
		return img
	}
	return Resize(img, w, h)
}

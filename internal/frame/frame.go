// Package frame holds the per-frame image operations of the detector:
// mirroring, fit-to-display scaling, encoding and the pose overlay.
package frame

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
)

// ToRGBA returns a copy of img as an RGBA image with its origin at (0, 0).
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Mirror returns img flipped horizontally, so the display behaves like a mirror.
func Mirror(img image.Image) *image.RGBA {
	src := ToRGBA(img)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	dst := image.NewRGBA(src.Bounds())
	for y := range h {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		out := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
		for x := range w {
			copy(out[(w-1-x)*4:(w-x)*4], row[x*4:(x+1)*4])
		}
	}
	return dst
}

// EncodeJPEG encodes img as JPEG.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

package frame

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
)

func createTestImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := range width {
		for y := range height {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestMirror(t *testing.T) {
	img := createTestImage(4, 2, color.Black)
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(3, 1, color.RGBA{G: 255, A: 255})

	mirrored := Mirror(img)

	if got := mirrored.RGBAAt(3, 0); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("expected red pixel at (3,0), got %v", got)
	}
	if got := mirrored.RGBAAt(0, 1); got != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("expected green pixel at (0,1), got %v", got)
	}
	if got := mirrored.RGBAAt(0, 0); got != (color.RGBA{A: 255}) {
		t.Errorf("expected black pixel at (0,0), got %v", got)
	}
	if img.RGBAAt(0, 0) != (color.RGBA{R: 255, A: 255}) {
		t.Error("Mirror must not modify its input")
	}
}

func TestMirror_NonZeroOrigin(t *testing.T) {
	img := createTestImage(6, 3, color.White)
	img.Set(1, 1, color.Black)
	sub := img.SubImage(image.Rect(1, 1, 4, 3))

	mirrored := Mirror(sub)

	if mirrored.Bounds() != image.Rect(0, 0, 3, 2) {
		t.Fatalf("expected bounds (0,0)-(3,2), got %v", mirrored.Bounds())
	}
	if got := mirrored.RGBAAt(2, 0); got != (color.RGBA{A: 255}) {
		t.Errorf("expected black pixel at (2,0), got %v", got)
	}
}

func TestEncodeJPEG(t *testing.T) {
	data, err := EncodeJPEG(createTestImage(20, 10, color.White), 80)
	if err != nil {
		t.Fatalf("EncodeJPEG failed: %v", err)
	}

	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if img.Bounds().Dx() != 20 || img.Bounds().Dy() != 10 {
		t.Errorf("expected 20x10, got %v", img.Bounds())
	}
}

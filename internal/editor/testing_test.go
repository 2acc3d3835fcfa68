package editor

import (
	"image"
	"image/color"
	"testing"

	"github.com/lewtec/drivescan/internal/domain"
)

// coordImage encodes each pixel's coordinates in its color so crops can be
// checked by sampling
func coordImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x % 256), G: uint8(y % 256), B: uint8((x / 256) + 16*(y/256)), A: 255})
		}
	}
	return img
}

func testRecord(t *testing.T, w, h int) domain.ImageRecord {
	t.Helper()
	return domain.NewImageRecord(coordImage(w, h))
}

func size(img image.Image) Size {
	b := img.Bounds()
	return Size{W: b.Dx(), H: b.Dy()}
}

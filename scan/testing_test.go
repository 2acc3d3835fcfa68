package scan

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/lewtec/drivescan/internal/composer"
	"github.com/lewtec/drivescan/internal/domain"
	"github.com/lewtec/drivescan/internal/repository"
	"github.com/lewtec/drivescan/internal/selection"
)

var testClock = time.Date(2024, 5, 1, 14, 30, 5, 0, time.UTC)

func newTestDrive(t *testing.T) *Drive {
	t.Helper()
	db := repository.SetupTestDB(t)
	t.Cleanup(func() { repository.CleanupTestDB(t, db) })
	d := NewDrive(repository.NewArtifactRepository(db), composer.NewPDFEncoder(80), composer.A4)
	d.Now = func() time.Time { return testClock }
	return d
}

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 90, A: 255})
		}
	}
	return img
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

func testList(t *testing.T, sizes ...image.Point) *selection.List {
	t.Helper()
	list, err := selection.New()
	if err != nil {
		t.Fatalf("selection.New() error = %v", err)
	}
	for _, s := range sizes {
		if err := list.Append(domain.NewImageRecord(testImage(s.X, s.Y))); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}
	return list
}

package editor

import (
	"fmt"
	"image"
	"math"

	"github.com/lewtec/drivescan/internal/domain"
)

const (
	// CropInset is the distance between the fitted image edge and the default crop
	CropInset = 20
	// CropMinSize is the smallest default crop side
	CropMinSize = 80
)

// Size is a pixel extent
type Size struct {
	W, H int
}

// Rect is a rectangle in preview surface units
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

func (r Rect) String() string {
	return fmt.Sprintf("{x:%g y:%g w:%g h:%g}", r.X, r.Y, r.W, r.H)
}

// RotatedSize swaps the sides for quarter turns
func RotatedSize(s Size, degrees int) Size {
	if degrees%180 != 0 {
		return Size{W: s.H, H: s.W}
	}
	return s
}

// FitRect scales content uniformly into surface and centers it.
// scale = min(surface.W/content.W, surface.H/content.H)
func FitRect(content, surface Size) Rect {
	if content.W <= 0 || content.H <= 0 {
		return Rect{}
	}
	ratio := math.Min(float64(surface.W)/float64(content.W), float64(surface.H)/float64(content.H))
	w := float64(content.W) * ratio
	h := float64(content.H) * ratio
	return Rect{
		X: (float64(surface.W) - w) / 2,
		Y: (float64(surface.H) - h) / 2,
		W: w,
		H: h,
	}
}

// DefaultCrop insets the fitted image bounds, keeping a minimum size, and
// keeps the result on the surface
func DefaultCrop(fitted Rect, surface Size) Rect {
	r := Rect{
		X: fitted.X + CropInset,
		Y: fitted.Y + CropInset,
		W: math.Max(CropMinSize, fitted.W-2*CropInset),
		H: math.Max(CropMinSize, fitted.H-2*CropInset),
	}
	return ClampRect(r, surface)
}

// ClampRect intersects r with the surface bounds
func ClampRect(r Rect, surface Size) Rect {
	x0 := clamp(r.X, 0, float64(surface.W))
	y0 := clamp(r.Y, 0, float64(surface.H))
	x1 := clamp(r.X+r.W, 0, float64(surface.W))
	y1 := clamp(r.Y+r.H, 0, float64(surface.H))
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// MapCrop converts a surface-space crop into native pixel coordinates of the
// rotated source. Offsets are taken relative to the fitted image, each value
// is scaled per axis by native/fitted and rounded, and the result is clamped
// to the native bounds.
func MapCrop(region, fitted Rect, native Size) (image.Rectangle, error) {
	if region.Empty() || fitted.Empty() {
		return image.Rectangle{}, fmt.Errorf("%w: %s", domain.ErrInvalidCrop, region)
	}
	sx := float64(native.W) / fitted.W
	sy := float64(native.H) / fitted.H

	x := int(math.Round((region.X - fitted.X) * sx))
	y := int(math.Round((region.Y - fitted.Y) * sy))
	w := int(math.Round(region.W * sx))
	h := int(math.Round(region.H * sy))

	out := image.Rect(
		clampInt(x, 0, native.W),
		clampInt(y, 0, native.H),
		clampInt(x+w, 0, native.W),
		clampInt(y+h, 0, native.H),
	)
	if out.Empty() {
		return image.Rectangle{}, fmt.Errorf("%w: %s maps outside the image", domain.ErrInvalidCrop, region)
	}
	return out, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package editor

import (
	"errors"
	"fmt"

	"github.com/lewtec/drivescan/internal/domain"
)

// ErrInvalidAdjustment is returned for non-positive brightness or contrast
var ErrInvalidAdjustment = errors.New("adjustment must be positive")

// State is the edit state of one image. Methods return an updated copy; a
// State is never shared between sessions.
type State struct {
	Source     domain.ImageRecord
	Surface    Size
	Rotation   int
	Filter     FilterKind
	Brightness float64
	Contrast   float64
	CropActive bool

	crop         *Rect
	cropRotation int
}

// NativeSize is the source size after rotation
func (s State) NativeSize() Size {
	w, h := s.Source.Size()
	return RotatedSize(Size{W: w, H: h}, s.Rotation)
}

// Fitted is where the rotated source lands on the preview surface
func (s State) Fitted() Rect {
	return FitRect(s.NativeSize(), s.Surface)
}

func (s State) Adjustment() Adjustment {
	return Adjustment{Filter: s.Filter, Brightness: s.Brightness, Contrast: s.Contrast}
}

// Crop returns the retained crop region, if any
func (s State) Crop() (Rect, bool) {
	if s.crop == nil {
		return Rect{}, false
	}
	return *s.crop, true
}

// cropStale reports whether the retained region was derived for another rotation
func (s State) cropStale() bool {
	return s.crop == nil || s.cropRotation != s.Rotation
}

func (s State) withDefaultCrop() State {
	r := DefaultCrop(s.Fitted(), s.Surface)
	s.crop = &r
	s.cropRotation = s.Rotation
	return s
}

// Rotate turns the image a quarter clockwise. A visible crop is re-derived
// for the new fitted bounds right away; a hidden one is re-derived when crop
// is next enabled.
func (s State) Rotate() State {
	s.Rotation = (s.Rotation + 90) % 360
	if s.CropActive {
		s = s.withDefaultCrop()
	}
	return s
}

// ToggleCrop flips crop mode. Turning it off keeps the region in memory.
func (s State) ToggleCrop() State {
	s.CropActive = !s.CropActive
	if s.CropActive && s.cropStale() {
		s = s.withDefaultCrop()
	}
	return s
}

// WithCrop places an explicit region, clamped to the surface, and enables crop
func (s State) WithCrop(r Rect) (State, error) {
	clamped := ClampRect(r, s.Surface)
	if clamped.Empty() {
		return s, fmt.Errorf("%w: %s on %dx%d surface", domain.ErrInvalidCrop, r, s.Surface.W, s.Surface.H)
	}
	s.crop = &clamped
	s.cropRotation = s.Rotation
	s.CropActive = true
	return s, nil
}

func (s State) WithFilter(f FilterKind) State {
	s.Filter = f
	return s
}

func (s State) WithBrightness(v float64) (State, error) {
	if v <= 0 {
		return s, fmt.Errorf("brightness %g: %w", v, ErrInvalidAdjustment)
	}
	s.Brightness = v
	return s, nil
}

func (s State) WithContrast(v float64) (State, error) {
	if v <= 0 {
		return s, fmt.Errorf("contrast %g: %w", v, ErrInvalidAdjustment)
	}
	s.Contrast = v
	return s, nil
}

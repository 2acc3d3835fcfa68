package editor

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/lewtec/drivescan/internal/domain"
)

// DefaultMaxPreview bounds the longer side of the preview surface
const DefaultMaxPreview = 1200

// Engine renders edit states. It holds no per-image state.
type Engine struct {
	MaxPreview int
}

func NewEngine(maxPreview int) *Engine {
	if maxPreview <= 0 {
		maxPreview = DefaultMaxPreview
	}
	return &Engine{MaxPreview: maxPreview}
}

// NewState opens a neutral edit state for record. The preview surface is the
// unrotated source scaled down to MaxPreview; it never grows past native size.
func (e *Engine) NewState(record domain.ImageRecord) (State, error) {
	if record.Raster == nil {
		return State{}, fmt.Errorf("%w: record %s has no raster", domain.ErrDecode, record.ID)
	}
	w, h := record.Size()
	if w == 0 || h == 0 {
		return State{}, fmt.Errorf("%w: record %s is empty", domain.ErrDecode, record.ID)
	}
	scale := math.Min(1, float64(e.MaxPreview)/float64(max(w, h)))
	return State{
		Source: record,
		Surface: Size{
			W: max(1, int(math.Round(float64(w)*scale))),
			H: max(1, int(math.Round(float64(h)*scale))),
		},
		Filter:     FilterNone,
		Brightness: 1,
		Contrast:   1,
	}, nil
}

// Preview draws the rotated, adjusted source fitted and centered on the
// state's surface. Areas outside the image stay transparent.
func (e *Engine) Preview(s State) (*image.NRGBA, error) {
	if err := validate(s); err != nil {
		return nil, err
	}
	rotated := Rotate(s.Source.Raster, s.Rotation)
	fitted := s.Fitted()
	w := max(1, int(math.Round(fitted.W)))
	h := max(1, int(math.Round(fitted.H)))

	scaled := imaging.Resize(rotated, w, h, imaging.Linear)
	adjusted := s.Adjustment().Apply(scaled)

	canvas := imaging.New(s.Surface.W, s.Surface.H, color.NRGBA{})
	at := image.Pt(int(math.Round(fitted.X)), int(math.Round(fitted.Y)))
	return imaging.Paste(canvas, adjusted, at), nil
}

// Export renders the same pipeline at native resolution and applies the crop
// when it is active.
func (e *Engine) Export(s State) (*image.NRGBA, error) {
	if err := validate(s); err != nil {
		return nil, err
	}
	out := s.Adjustment().Apply(Rotate(s.Source.Raster, s.Rotation))
	if !s.CropActive {
		return out, nil
	}
	region, ok := s.Crop()
	if !ok || s.cropStale() {
		region = DefaultCrop(s.Fitted(), s.Surface)
	}
	rect, err := MapCrop(region, s.Fitted(), s.NativeSize())
	if err != nil {
		return nil, err
	}
	return imaging.Crop(out, rect), nil
}

// Rotate turns img clockwise by a multiple of 90 degrees
func Rotate(img image.Image, degrees int) *image.NRGBA {
	switch ((degrees % 360) + 360) % 360 {
	case 90:
		return imaging.Rotate270(img)
	case 180:
		return imaging.Rotate180(img)
	case 270:
		return imaging.Rotate90(img)
	default:
		return imaging.Clone(img)
	}
}

func validate(s State) error {
	if s.Source.Raster == nil {
		return fmt.Errorf("%w: record %s has no raster", domain.ErrDecode, s.Source.ID)
	}
	if s.Rotation%90 != 0 {
		return fmt.Errorf("rotation %d is not a quarter turn", s.Rotation)
	}
	if s.Brightness <= 0 || s.Contrast <= 0 {
		return fmt.Errorf("brightness %g contrast %g: %w", s.Brightness, s.Contrast, ErrInvalidAdjustment)
	}
	return nil
}

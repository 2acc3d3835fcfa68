package editor

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/disintegration/imaging"
)

// FilterKind names a color preset
type FilterKind string

const (
	FilterNone      FilterKind = "none"
	FilterGrayscale FilterKind = "grayscale"
	FilterSepia     FilterKind = "sepia"
	FilterInvert    FilterKind = "invert"
	// FilterDocument is grayscale with a contrast boost, for paper scans
	FilterDocument FilterKind = "document"
)

const documentContrast = 1.5

// Filters lists the presets in menu order
var Filters = []FilterKind{FilterNone, FilterGrayscale, FilterSepia, FilterInvert, FilterDocument}

// ParseFilter resolves a preset name, empty meaning none
func ParseFilter(name string) (FilterKind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return FilterNone, nil
	}
	for _, f := range Filters {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown filter %q", name)
}

// Adjustment is the composed per-pixel color operation: preset, then
// brightness, then contrast. Every step clamps to the channel range.
type Adjustment struct {
	Filter     FilterKind
	Brightness float64
	Contrast   float64
}

func (a Adjustment) Identity() bool {
	return (a.Filter == FilterNone || a.Filter == "") && a.Brightness == 1 && a.Contrast == 1
}

// Apply runs the adjustment over img. The source is never modified.
func (a Adjustment) Apply(img image.Image) *image.NRGBA {
	if a.Identity() {
		return imaging.Clone(img)
	}
	return imaging.AdjustFunc(img, a.pixel)
}

func (a Adjustment) pixel(c color.NRGBA) color.NRGBA {
	r, g, b := float64(c.R), float64(c.G), float64(c.B)

	switch a.Filter {
	case FilterGrayscale:
		r, g, b = grayscale(r, g, b)
	case FilterSepia:
		r, g, b = clamp8(0.393*r+0.769*g+0.189*b), clamp8(0.349*r+0.686*g+0.168*b), clamp8(0.272*r+0.534*g+0.131*b)
	case FilterInvert:
		r, g, b = 255-r, 255-g, 255-b
	case FilterDocument:
		r, g, b = grayscale(r, g, b)
		r, g, b = contrast(r, documentContrast), contrast(g, documentContrast), contrast(b, documentContrast)
	}

	if a.Brightness != 1 {
		r, g, b = clamp8(r*a.Brightness), clamp8(g*a.Brightness), clamp8(b*a.Brightness)
	}
	if a.Contrast != 1 {
		r, g, b = contrast(r, a.Contrast), contrast(g, a.Contrast), contrast(b, a.Contrast)
	}

	return color.NRGBA{R: round8(r), G: round8(g), B: round8(b), A: c.A}
}

func grayscale(r, g, b float64) (float64, float64, float64) {
	y := clamp8(0.2126*r + 0.7152*g + 0.0722*b)
	return y, y, y
}

func contrast(v, amount float64) float64 {
	return clamp8((v-127.5)*amount + 127.5)
}

func clamp8(v float64) float64 {
	return math.Max(0, math.Min(255, v))
}

func round8(v float64) uint8 {
	return uint8(math.Round(clamp8(v)))
}

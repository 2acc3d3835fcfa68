package composer

import (
	"fmt"
	"strings"
)

// PageFormat describes a fixed PDF page. Dimensions are in `pt` (1" = 72pts).
type PageFormat struct {
	Name   string
	Width  float64
	Height float64
	Margin float64
}

var (
	A4     = PageFormat{Name: "A4", Width: 595.28, Height: 841.89} // 210mm x 297mm
	Letter = PageFormat{Name: "Letter", Width: 612, Height: 792}   // 8.5" x 11"
)

var formats = []PageFormat{A4, Letter}

// LookupFormat resolves a page format by name, case-insensitively
func LookupFormat(name string) (PageFormat, error) {
	for _, f := range formats {
		if strings.EqualFold(f.Name, name) {
			return f, nil
		}
	}
	return PageFormat{}, fmt.Errorf("unknown page format %q", name)
}

// WithMargin returns a copy of the format with the given margin on every side
func (f PageFormat) WithMargin(margin float64) PageFormat {
	f.Margin = margin
	return f
}

// ContentSize is the page area left after the margins
func (f PageFormat) ContentSize() (float64, float64) {
	return f.Width - 2*f.Margin, f.Height - 2*f.Margin
}

func (f PageFormat) validate() error {
	w, h := f.ContentSize()
	if f.Margin < 0 || w <= 0 || h <= 0 {
		return fmt.Errorf("page format %s: margin %g leaves no content area", f.Name, f.Margin)
	}
	return nil
}

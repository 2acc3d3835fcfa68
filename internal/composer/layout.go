package composer

import (
	"fmt"
	"image"
	"math"

	"github.com/lewtec/drivescan/internal/domain"
)

// Placement is where one image lands on its page, in points from the top
// left corner
type Placement struct {
	X, Y, W, H float64
}

// Page holds exactly one image
type Page struct {
	Image     image.Image
	Placement Placement
}

// Layout is the composed, not yet encoded, document
type Layout struct {
	Format PageFormat
	Pages  []Page
}

// Compose lays images out one per page in order, each scaled uniformly to
// fit the content area and centered on it
func Compose(images []image.Image, format PageFormat) (*Layout, error) {
	if len(images) == 0 {
		return nil, domain.ErrEmptyDocument
	}
	if err := format.validate(); err != nil {
		return nil, err
	}
	contentW, contentH := format.ContentSize()
	layout := &Layout{Format: format, Pages: make([]Page, 0, len(images))}
	for i, img := range images {
		if img == nil {
			return nil, fmt.Errorf("page %d: %w", i+1, domain.ErrDecode)
		}
		b := img.Bounds()
		if b.Empty() {
			return nil, fmt.Errorf("page %d: empty image: %w", i+1, domain.ErrDecode)
		}
		iw, ih := float64(b.Dx()), float64(b.Dy())
		scale := math.Min(contentW/iw, contentH/ih)
		w, h := iw*scale, ih*scale
		layout.Pages = append(layout.Pages, Page{
			Image: img,
			Placement: Placement{
				X: format.Margin + (contentW-w)/2,
				Y: format.Margin + (contentH-h)/2,
				W: w,
				H: h,
			},
		})
	}
	return layout, nil
}

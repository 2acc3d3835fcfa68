package composer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-pdf/fpdf"
)

// DefaultQuality is the JPEG quality pages are embedded with
const DefaultQuality = 90

// Encoder turns a layout into document bytes
type Encoder interface {
	Encode(w io.Writer, layout *Layout) error
}

// PDFEncoder writes one PDF page per layout page, embedding each image as JPEG
type PDFEncoder struct {
	Quality int
	// Now stamps the creation date; nil leaves fpdf's default
	Now func() time.Time
}

func NewPDFEncoder(quality int) *PDFEncoder {
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	return &PDFEncoder{Quality: quality}
}

func (e *PDFEncoder) Encode(w io.Writer, layout *Layout) error {
	if layout == nil || len(layout.Pages) == 0 {
		return fmt.Errorf("encode pdf: nothing to encode")
	}
	format := layout.Format
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: format.Width, Ht: format.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	if e.Now != nil {
		pdf.SetCreationDate(e.Now())
	}

	opts := fpdf.ImageOptions{ImageType: "JPG"}
	for i, page := range layout.Pages {
		var buf bytes.Buffer
		if err := e.jpeg(&buf, page.Image); err != nil {
			return fmt.Errorf("encode page %d: %w", i+1, err)
		}
		name := fmt.Sprintf("page-%d", i+1)
		pdf.AddPage()
		pdf.RegisterImageOptionsReader(name, opts, &buf)
		p := page.Placement
		pdf.ImageOptions(name, p.X, p.Y, p.W, p.H, false, opts, 0, "")
		if err := pdf.Error(); err != nil {
			return fmt.Errorf("encode page %d: %w", i+1, err)
		}
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("encode pdf: %w", err)
	}
	return nil
}

func (e *PDFEncoder) jpeg(w io.Writer, img image.Image) error {
	quality := e.Quality
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	// JPEG has no alpha, flatten onto white like a printed page
	b := img.Bounds()
	flat := imaging.New(b.Dx(), b.Dy(), color.White)
	flat = imaging.Overlay(flat, img, image.Pt(0, 0), 1.0)
	return imaging.Encode(w, flat, imaging.JPEG, imaging.JPEGQuality(quality))
}

// Render composes and encodes images in one step
func Render(images []image.Image, format PageFormat, enc Encoder) ([]byte, error) {
	layout, err := Compose(images, format)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := enc.Encode(&buf, layout); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

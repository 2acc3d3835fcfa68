package scan

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/disintegration/imaging"
	"github.com/go-git/go-billy/v6"
	"github.com/lewtec/drivescan/internal/domain"
)

// DecodeImage reads an uploaded image, honouring its EXIF orientation
func DecodeImage(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDecode, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: image has no pixels", domain.ErrDecode)
	}
	return img, nil
}

// DecodeFile decodes the file at filename into a new image record
func DecodeFile(fs billy.Filesystem, filename string) (domain.ImageRecord, error) {
	f, err := fs.Open(filename)
	if err != nil {
		return domain.ImageRecord{}, fmt.Errorf("while opening '%s': %w", filename, err)
	}
	defer f.Close()
	img, err := DecodeImage(f)
	if err != nil {
		return domain.ImageRecord{}, fmt.Errorf("while decoding '%s': %w", filename, err)
	}
	return domain.NewImageRecord(img), nil
}

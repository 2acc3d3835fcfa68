package domain

import (
	"image"

	"github.com/google/uuid"
)

// ImageRecord is a decoded page image waiting to be composed
type ImageRecord struct {
	ID     string
	Raster image.Image
}

// NewImageRecord wraps a raster with a fresh unique id
func NewImageRecord(raster image.Image) ImageRecord {
	return ImageRecord{
		ID:     uuid.NewString(),
		Raster: raster,
	}
}

// Size returns the native pixel dimensions of the record
func (r ImageRecord) Size() (int, int) {
	if r.Raster == nil {
		return 0, 0
	}
	b := r.Raster.Bounds()
	return b.Dx(), b.Dy()
}

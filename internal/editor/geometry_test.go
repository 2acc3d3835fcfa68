package editor

import (
	"errors"
	"image"
	"testing"

	"github.com/lewtec/drivescan/internal/domain"
)

func TestFitRect(t *testing.T) {
	tests := []struct {
		name    string
		content Size
		surface Size
		want    Rect
	}{
		{"same aspect fills surface", Size{1600, 1200}, Size{400, 300}, Rect{0, 0, 400, 300}},
		{"portrait in landscape is pillarboxed", Size{1200, 1600}, Size{400, 300}, Rect{87.5, 0, 225, 300}},
		{"wide in square is letterboxed", Size{200, 100}, Size{100, 100}, Rect{0, 25, 100, 50}},
		{"small content is upscaled", Size{10, 10}, Size{100, 50}, Rect{25, 0, 50, 50}},
		{"empty content", Size{0, 10}, Size{100, 50}, Rect{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FitRect(tt.content, tt.surface); got != tt.want {
				t.Errorf("FitRect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultCrop(t *testing.T) {
	tests := []struct {
		name    string
		fitted  Rect
		surface Size
		want    Rect
	}{
		{"inset by margin", Rect{0, 0, 400, 300}, Size{400, 300}, Rect{20, 20, 360, 260}},
		{"follows fitted offset", Rect{87.5, 0, 225, 300}, Size{400, 300}, Rect{107.5, 20, 185, 260}},
		{"minimum size floor", Rect{0, 0, 100, 100}, Size{100, 100}, Rect{20, 20, 80, 80}},
		{"floor clamped to surface", Rect{0, 0, 100, 60}, Size{100, 60}, Rect{20, 20, 80, 40}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultCrop(tt.fitted, tt.surface); got != tt.want {
				t.Errorf("DefaultCrop() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMapCrop(t *testing.T) {
	t.Run("scales preview crop to native resolution", func(t *testing.T) {
		got, err := MapCrop(Rect{20, 20, 200, 150}, Rect{0, 0, 400, 300}, Size{1600, 1200})
		if err != nil {
			t.Fatalf("MapCrop() error = %v", err)
		}
		want := image.Rect(80, 80, 880, 680)
		if got != want {
			t.Errorf("MapCrop() = %v, want %v", got, want)
		}
		if got.Dx() != 800 || got.Dy() != 600 {
			t.Errorf("MapCrop() size = %dx%d, want 800x600", got.Dx(), got.Dy())
		}
	})

	t.Run("subtracts fitted offset", func(t *testing.T) {
		got, err := MapCrop(Rect{87.5, 0, 225, 300}, Rect{87.5, 0, 225, 300}, Size{1200, 1600})
		if err != nil {
			t.Fatalf("MapCrop() error = %v", err)
		}
		if got != image.Rect(0, 0, 1200, 1600) {
			t.Errorf("MapCrop() = %v, want full image", got)
		}
	})

	t.Run("rounds to nearest pixel", func(t *testing.T) {
		got, err := MapCrop(Rect{10.2, 10.6, 33.3, 33.5}, Rect{0, 0, 100, 100}, Size{300, 300})
		if err != nil {
			t.Fatalf("MapCrop() error = %v", err)
		}
		if got != image.Rect(31, 32, 31+100, 32+101) {
			t.Errorf("MapCrop() = %v", got)
		}
	})

	t.Run("clamps to native bounds", func(t *testing.T) {
		got, err := MapCrop(Rect{-50, 250, 500, 500}, Rect{0, 0, 400, 300}, Size{1600, 1200})
		if err != nil {
			t.Fatalf("MapCrop() error = %v", err)
		}
		if got != image.Rect(0, 1000, 1600, 1200) {
			t.Errorf("MapCrop() = %v", got)
		}
	})

	t.Run("region outside image fails", func(t *testing.T) {
		_, err := MapCrop(Rect{10, 10, 50, 200}, Rect{87.5, 0, 225, 300}, Size{1200, 1600})
		if !errors.Is(err, domain.ErrInvalidCrop) {
			t.Errorf("MapCrop() error = %v, want ErrInvalidCrop", err)
		}
	})

	t.Run("empty region fails", func(t *testing.T) {
		_, err := MapCrop(Rect{10, 10, 0, 20}, Rect{0, 0, 100, 100}, Size{100, 100})
		if !errors.Is(err, domain.ErrInvalidCrop) {
			t.Errorf("MapCrop() error = %v, want ErrInvalidCrop", err)
		}
	})
}

package editor

import (
	"errors"
	"image"
	"testing"

	"github.com/lewtec/drivescan/internal/domain"
)

func TestEngine_NewState(t *testing.T) {
	engine := NewEngine(0)

	t.Run("large source is bounded by max preview", func(t *testing.T) {
		s, err := engine.NewState(testRecord(t, 2400, 1600))
		if err != nil {
			t.Fatalf("NewState() error = %v", err)
		}
		if s.Surface != (Size{1200, 800}) {
			t.Errorf("Surface = %v, want {1200 800}", s.Surface)
		}
		if s.Brightness != 1 || s.Contrast != 1 || s.Filter != FilterNone || s.Rotation != 0 {
			t.Errorf("state not neutral: %+v", s)
		}
	})

	t.Run("small source is not upscaled", func(t *testing.T) {
		s, err := engine.NewState(testRecord(t, 300, 200))
		if err != nil {
			t.Fatalf("NewState() error = %v", err)
		}
		if s.Surface != (Size{300, 200}) {
			t.Errorf("Surface = %v, want {300 200}", s.Surface)
		}
	})

	t.Run("missing raster is a decode error", func(t *testing.T) {
		_, err := engine.NewState(domain.ImageRecord{ID: "broken"})
		if !errors.Is(err, domain.ErrDecode) {
			t.Errorf("NewState() error = %v, want ErrDecode", err)
		}
	})
}

func TestRotate_FourQuarterTurnsRestoreSize(t *testing.T) {
	var img image.Image = coordImage(30, 20)
	want := []Size{{20, 30}, {30, 20}, {20, 30}, {30, 20}}
	for i, w := range want {
		img = Rotate(img, 90)
		if got := size(img); got != w {
			t.Errorf("after %d turns size = %v, want %v", i+1, got, w)
		}
	}
	if got, orig := img.(*image.NRGBA).NRGBAAt(0, 0), coordImage(30, 20).NRGBAAt(0, 0); got != orig {
		t.Errorf("pixel (0,0) after full turn = %v, want %v", got, orig)
	}
}

func TestRotate_Clockwise(t *testing.T) {
	src := coordImage(3, 2)
	out := Rotate(src, 90)
	// the bottom-left source pixel becomes the top-left one
	if got, want := out.NRGBAAt(0, 0), src.NRGBAAt(0, 1); got != want {
		t.Errorf("Rotate(90) top-left = %v, want %v", got, want)
	}
	out = Rotate(src, 270)
	// the top-right source pixel becomes the top-left one
	if got, want := out.NRGBAAt(0, 0), src.NRGBAAt(2, 0); got != want {
		t.Errorf("Rotate(270) top-left = %v, want %v", got, want)
	}
}

func TestEngine_ExportWithoutCropKeepsNativeSize(t *testing.T) {
	engine := NewEngine(100)
	s, err := engine.NewState(testRecord(t, 640, 480))
	if err != nil {
		t.Fatalf("NewState() error = %v", err)
	}
	want := []Size{{480, 640}, {640, 480}, {480, 640}, {640, 480}}
	s = s.WithFilter(FilterSepia)
	for i, w := range want {
		s = s.Rotate()
		out, err := engine.Export(s)
		if err != nil {
			t.Fatalf("Export() error = %v", err)
		}
		if got := size(out); got != w {
			t.Errorf("rotation %d: export size = %v, want %v", (i+1)*90, got, w)
		}
	}
}

func TestEngine_ExportCrop(t *testing.T) {
	engine := NewEngine(400)
	s, err := engine.NewState(testRecord(t, 1600, 1200))
	if err != nil {
		t.Fatalf("NewState() error = %v", err)
	}
	if s.Surface != (Size{400, 300}) {
		t.Fatalf("Surface = %v, want {400 300}", s.Surface)
	}
	s, err = s.WithCrop(Rect{20, 20, 200, 150})
	if err != nil {
		t.Fatalf("WithCrop() error = %v", err)
	}

	out, err := engine.Export(s)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if got := size(out); got != (Size{800, 600}) {
		t.Errorf("export size = %v, want {800 600}", got)
	}
	src := s.Source.Raster.(*image.NRGBA)
	if got, want := out.NRGBAAt(0, 0), src.NRGBAAt(80, 80); got != want {
		t.Errorf("crop origin pixel = %v, want %v", got, want)
	}

	t.Run("inactive crop is ignored", func(t *testing.T) {
		off := s.ToggleCrop()
		out, err := engine.Export(off)
		if err != nil {
			t.Fatalf("Export() error = %v", err)
		}
		if got := size(out); got != (Size{1600, 1200}) {
			t.Errorf("export size = %v, want native", got)
		}
	})
}

func TestEngine_Preview(t *testing.T) {
	engine := NewEngine(400)
	s, err := engine.NewState(testRecord(t, 1600, 1200))
	if err != nil {
		t.Fatalf("NewState() error = %v", err)
	}

	out, err := engine.Preview(s)
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	if got := size(out); got != (Size{400, 300}) {
		t.Errorf("preview size = %v, want {400 300}", got)
	}

	t.Run("rotated source is centered with transparent bars", func(t *testing.T) {
		out, err := engine.Preview(s.Rotate())
		if err != nil {
			t.Fatalf("Preview() error = %v", err)
		}
		if got := size(out); got != (Size{400, 300}) {
			t.Errorf("preview size = %v, want surface size", got)
		}
		if a := out.NRGBAAt(10, 150).A; a != 0 {
			t.Errorf("left bar alpha = %d, want 0", a)
		}
		if a := out.NRGBAAt(200, 150).A; a != 255 {
			t.Errorf("center alpha = %d, want 255", a)
		}
	})

	t.Run("filter is applied", func(t *testing.T) {
		out, err := engine.Preview(s.WithFilter(FilterGrayscale))
		if err != nil {
			t.Fatalf("Preview() error = %v", err)
		}
		c := out.NRGBAAt(200, 150)
		if c.R != c.G || c.G != c.B {
			t.Errorf("grayscale preview pixel = %v", c)
		}
	})

	t.Run("rejects non-positive adjustments", func(t *testing.T) {
		bad := s
		bad.Contrast = 0
		if _, err := engine.Preview(bad); !errors.Is(err, ErrInvalidAdjustment) {
			t.Errorf("Preview() error = %v, want ErrInvalidAdjustment", err)
		}
	})
}

func TestState_Crop(t *testing.T) {
	engine := NewEngine(400)
	base, err := engine.NewState(testRecord(t, 1600, 1200))
	if err != nil {
		t.Fatalf("NewState() error = %v", err)
	}

	t.Run("enabling crop derives the default region", func(t *testing.T) {
		s := base.ToggleCrop()
		r, ok := s.Crop()
		if !ok || !s.CropActive {
			t.Fatal("expected active crop region")
		}
		if r != (Rect{20, 20, 360, 260}) {
			t.Errorf("crop = %v, want {20 20 360 260}", r)
		}
	})

	t.Run("disabling keeps the region for re-enabling", func(t *testing.T) {
		s, err := base.WithCrop(Rect{50, 40, 100, 100})
		if err != nil {
			t.Fatalf("WithCrop() error = %v", err)
		}
		s = s.ToggleCrop()
		if s.CropActive {
			t.Fatal("crop should be inactive")
		}
		if _, ok := s.Crop(); !ok {
			t.Fatal("region should be retained")
		}
		s = s.ToggleCrop()
		if r, _ := s.Crop(); r != (Rect{50, 40, 100, 100}) {
			t.Errorf("crop = %v, want retained region", r)
		}
	})

	t.Run("rotation while hidden re-derives on enable", func(t *testing.T) {
		s, err := base.WithCrop(Rect{50, 40, 100, 100})
		if err != nil {
			t.Fatalf("WithCrop() error = %v", err)
		}
		s = s.ToggleCrop().Rotate().ToggleCrop()
		if r, _ := s.Crop(); r != (Rect{107.5, 20, 185, 260}) {
			t.Errorf("crop = %v, want region for rotated bounds", r)
		}
	})

	t.Run("rotation while visible re-derives immediately", func(t *testing.T) {
		s := base.ToggleCrop().Rotate()
		if r, _ := s.Crop(); r != (Rect{107.5, 20, 185, 260}) {
			t.Errorf("crop = %v, want region for rotated bounds", r)
		}
		out, err := engine.Export(s)
		if err != nil {
			t.Fatalf("Export() error = %v", err)
		}
		if got := size(out); got != (Size{987, 1387}) {
			t.Errorf("export size = %v, want {987 1387}", got)
		}
	})

	t.Run("explicit crop is clamped to the surface", func(t *testing.T) {
		s, err := base.WithCrop(Rect{350, 250, 200, 200})
		if err != nil {
			t.Fatalf("WithCrop() error = %v", err)
		}
		if r, _ := s.Crop(); r != (Rect{350, 250, 50, 50}) {
			t.Errorf("crop = %v, want clamped region", r)
		}
	})

	t.Run("crop off the surface is rejected", func(t *testing.T) {
		_, err := base.WithCrop(Rect{500, 10, 20, 20})
		if !errors.Is(err, domain.ErrInvalidCrop) {
			t.Errorf("WithCrop() error = %v, want ErrInvalidCrop", err)
		}
	})
}

func TestEngine_ExportKeepsSourceUntouched(t *testing.T) {
	engine := NewEngine(0)
	record := testRecord(t, 40, 30)
	before := record.Raster.(*image.NRGBA).NRGBAAt(5, 5)
	s, err := engine.NewState(record)
	if err != nil {
		t.Fatalf("NewState() error = %v", err)
	}
	s = s.WithFilter(FilterInvert)
	if _, err := engine.Export(s); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if after := record.Raster.(*image.NRGBA).NRGBAAt(5, 5); after != before {
		t.Errorf("source pixel changed from %v to %v", before, after)
	}
}

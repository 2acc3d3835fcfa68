package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-git/go-billy/v6/osfs"
	"github.com/lewtec/drivescan/capture"
	"github.com/lewtec/drivescan/internal/editor"
	"github.com/lewtec/drivescan/internal/selection"
	"github.com/spf13/cobra"
)

// editOptions are the edit flags shared by compose and edit
type editOptions struct {
	rotate     int
	filter     editor.FilterKind
	brightness float64
	contrast   float64
	crop       *editor.Rect
}

func addEditFlags(cmd *cobra.Command) {
	cmd.Flags().Int("rotate", 0, "Clockwise rotation in degrees, a multiple of 90")
	cmd.Flags().String("filter", "none", fmt.Sprintf("Color filter %v", editor.Filters))
	cmd.Flags().Float64("brightness", 1, "Brightness multiplier, 1 is unchanged")
	cmd.Flags().Float64("contrast", 1, "Contrast multiplier, 1 is unchanged")
	cmd.Flags().String("crop", "", "Crop region x,y,w,h on the preview surface")
}

func readEditOptions(cmd *cobra.Command) (editOptions, error) {
	var opts editOptions
	opts.rotate, _ = cmd.Flags().GetInt("rotate")
	if opts.rotate%90 != 0 {
		return opts, fmt.Errorf("rotation %d is not a multiple of 90", opts.rotate)
	}
	name, _ := cmd.Flags().GetString("filter")
	filter, err := editor.ParseFilter(name)
	if err != nil {
		return opts, err
	}
	opts.filter = filter
	opts.brightness, _ = cmd.Flags().GetFloat64("brightness")
	opts.contrast, _ = cmd.Flags().GetFloat64("contrast")
	if crop, _ := cmd.Flags().GetString("crop"); crop != "" {
		r, err := parseRect(crop)
		if err != nil {
			return opts, err
		}
		opts.crop = &r
	}
	return opts, nil
}

func (o editOptions) identity() bool {
	return o.rotate%360 == 0 && o.filter == editor.FilterNone &&
		o.brightness == 1 && o.contrast == 1 && o.crop == nil
}

// apply replays the options on a session. The crop goes last so it is laid
// on the rotated preview.
func (o editOptions) apply(s *editor.Session) error {
	turns := ((o.rotate/90)%4 + 4) % 4
	for i := 0; i < turns; i++ {
		if err := s.Rotate(); err != nil {
			return err
		}
	}
	if err := s.SetFilter(o.filter); err != nil {
		return err
	}
	if err := s.SetBrightness(o.brightness); err != nil {
		return err
	}
	if err := s.SetContrast(o.contrast); err != nil {
		return err
	}
	if o.crop != nil {
		return s.SetCrop(*o.crop)
	}
	return nil
}

func parseRect(s string) (editor.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return editor.Rect{}, fmt.Errorf("crop %q: want x,y,w,h", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return editor.Rect{}, fmt.Errorf("crop %q: %w", s, err)
		}
		v[i] = f
	}
	return editor.Rect{X: v[0], Y: v[1], W: v[2], H: v[3]}, nil
}

// captureFiles feeds the files through a camera backed by a file device, so
// the selection is filled the same way a live capture would fill it
func captureFiles(cmd *cobra.Command, files []string) (*selection.List, error) {
	paths := make([]string, len(files))
	for i, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, err
		}
		paths[i] = abs
	}
	camera := capture.NewCamera(&capture.FileDevice{FS: osfs.New("/"), Paths: paths})
	if err := camera.Start(cmd.Context()); err != nil {
		return nil, err
	}
	defer camera.Stop()

	list, err := selection.New()
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		record, err := camera.Capture(cmd.Context())
		if err != nil {
			return nil, fmt.Errorf("while reading '%s': %w", f, err)
		}
		if err := list.Append(record); err != nil {
			return nil, err
		}
	}
	return list, nil
}

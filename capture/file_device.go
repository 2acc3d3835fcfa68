package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/go-git/go-billy/v6"
)

// ErrNoMoreFrames is returned once a file stream has handed out every file
var ErrNoMoreFrames = errors.New("no more frames")

// FileDevice feeds image files as frames, one file per capture, like a sheet
// feeder. Both facings read the same files.
type FileDevice struct {
	FS    billy.Filesystem
	Paths []string

	mu   sync.Mutex
	next int
	open bool
}

func (d *FileDevice) Open(ctx context.Context, facing Facing) (Stream, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.open {
		return nil, fmt.Errorf("file device already in use")
	}
	d.open = true
	return &fileStream{device: d}, nil
}

type fileStream struct {
	device *FileDevice
	closed bool
}

func (s *fileStream) Frame(ctx context.Context) (image.Image, error) {
	d := s.device
	d.mu.Lock()
	defer d.mu.Unlock()
	if s.closed {
		return nil, io.ErrClosedPipe
	}
	if d.next >= len(d.Paths) {
		return nil, ErrNoMoreFrames
	}
	path := d.Paths[d.next]
	d.next++
	f, err := d.FS.Open(path)
	if err != nil {
		return nil, fmt.Errorf("while opening '%s': %w", path, err)
	}
	defer f.Close()
	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("while decoding '%s': %w", path, err)
	}
	return img, nil
}

func (s *fileStream) Close() error {
	d := s.device
	d.mu.Lock()
	defer d.mu.Unlock()
	if !s.closed {
		s.closed = true
		d.open = false
	}
	return nil
}

// Remaining is the number of files not captured yet
func (d *FileDevice) Remaining() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.Paths) - d.next
}

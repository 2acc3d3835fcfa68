package capture

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/lewtec/drivescan/internal/domain"
	"github.com/rs/zerolog/log"
)

// Facing selects which camera a device opens
type Facing string

const (
	FacingEnvironment Facing = "environment"
	FacingUser        Facing = "user"
)

// Flipped returns the opposite facing
func (f Facing) Flipped() Facing {
	if f == FacingUser {
		return FacingEnvironment
	}
	return FacingUser
}

// Device opens frame streams
type Device interface {
	Open(ctx context.Context, facing Facing) (Stream, error)
}

// Stream is an acquired camera. It must be closed to release the device.
type Stream interface {
	Frame(ctx context.Context) (image.Image, error)
	Close() error
}

// Camera holds at most one open stream at a time. Every call is serialized,
// so a new stream is never opened before the previous one is released.
type Camera struct {
	device Device

	mu     sync.Mutex
	facing Facing
	stream Stream
}

// NewCamera starts out facing the environment, like a document scanner
func NewCamera(device Device) *Camera {
	return &Camera{device: device, facing: FacingEnvironment}
}

func (c *Camera) Facing() Facing {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.facing
}

func (c *Camera) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stream != nil
}

// Start releases any held stream and opens a new one with the current facing
func (c *Camera) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.start(ctx)
}

func (c *Camera) start(ctx context.Context) error {
	if err := c.release(); err != nil {
		return err
	}
	stream, err := c.device.Open(ctx, c.facing)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrCaptureUnavailable, err)
	}
	c.stream = stream
	log.Ctx(ctx).Debug().Str("facing", string(c.facing)).Msg("camera started")
	return nil
}

func (c *Camera) release() error {
	if c.stream == nil {
		return nil
	}
	err := c.stream.Close()
	c.stream = nil
	if err != nil {
		return fmt.Errorf("while releasing camera: %w", err)
	}
	return nil
}

// Stop releases the stream; stopping a stopped camera is a no-op
func (c *Camera) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.release()
}

// Flip switches between the environment and user cameras and restarts
func (c *Camera) Flip(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.facing = c.facing.Flipped()
	return c.start(ctx)
}

// Capture grabs the current frame as a new image record
func (c *Camera) Capture(ctx context.Context) (domain.ImageRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stream == nil {
		return domain.ImageRecord{}, domain.ErrCaptureUnavailable
	}
	frame, err := c.stream.Frame(ctx)
	if err != nil {
		return domain.ImageRecord{}, fmt.Errorf("%w: %w", domain.ErrCaptureUnavailable, err)
	}
	if frame == nil || frame.Bounds().Empty() {
		return domain.ImageRecord{}, fmt.Errorf("%w: empty frame", domain.ErrCaptureUnavailable)
	}
	record := domain.NewImageRecord(frame)
	log.Ctx(ctx).Debug().Str("image_id", record.ID).Msg("frame captured")
	return record, nil
}

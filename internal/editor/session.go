package editor

import (
	"fmt"
	"image"

	"github.com/lewtec/drivescan/internal/domain"
	"github.com/lewtec/drivescan/internal/selection"
	"github.com/rs/zerolog/log"
)

// Session edits one record taken out of a selection list. Apply appends the
// edited copy to the list; Cancel puts the original back where it was.
type Session struct {
	list   *selection.List
	engine *Engine
	index  int
	state  State
	done   bool
}

// Begin moves the record at index out of list and opens an edit session on it
func Begin(list *selection.List, index int, engine *Engine) (*Session, error) {
	record, err := list.Take(index)
	if err != nil {
		return nil, err
	}
	state, err := engine.NewState(record)
	if err != nil {
		// the record cannot be edited, give it back untouched
		if insertErr := list.Insert(index, record); insertErr != nil {
			return nil, fmt.Errorf("%w (restoring record: %v)", err, insertErr)
		}
		return nil, err
	}
	log.Debug().Str("image_id", record.ID).Int("index", index).
		Int("surface_w", state.Surface.W).Int("surface_h", state.Surface.H).
		Msg("edit session started")
	return &Session{list: list, engine: engine, index: index, state: state}, nil
}

// State returns a copy of the current edit state
func (s *Session) State() State {
	return s.state
}

func (s *Session) update(fn func(State) (State, error)) error {
	if s.done {
		return domain.ErrSessionClosed
	}
	next, err := fn(s.state)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

func (s *Session) Rotate() error {
	return s.update(func(st State) (State, error) { return st.Rotate(), nil })
}

func (s *Session) ToggleCrop() error {
	return s.update(func(st State) (State, error) { return st.ToggleCrop(), nil })
}

func (s *Session) SetCrop(r Rect) error {
	return s.update(func(st State) (State, error) { return st.WithCrop(r) })
}

func (s *Session) SetFilter(f FilterKind) error {
	return s.update(func(st State) (State, error) { return st.WithFilter(f), nil })
}

func (s *Session) SetBrightness(v float64) error {
	return s.update(func(st State) (State, error) { return st.WithBrightness(v) })
}

func (s *Session) SetContrast(v float64) error {
	return s.update(func(st State) (State, error) { return st.WithContrast(v) })
}

// Preview renders the current state on the preview surface
func (s *Session) Preview() (*image.NRGBA, error) {
	if s.done {
		return nil, domain.ErrSessionClosed
	}
	return s.engine.Preview(s.state)
}

// Apply exports the edit at native resolution, appends it to the list as a new
// record and ends the session. On failure the session stays open.
func (s *Session) Apply() (domain.ImageRecord, error) {
	if s.done {
		return domain.ImageRecord{}, domain.ErrSessionClosed
	}
	out, err := s.engine.Export(s.state)
	if err != nil {
		return domain.ImageRecord{}, err
	}
	record := domain.NewImageRecord(out)
	if err := s.list.Append(record); err != nil {
		return domain.ImageRecord{}, err
	}
	s.done = true
	w, h := record.Size()
	log.Debug().Str("source_id", s.state.Source.ID).Str("image_id", record.ID).
		Int("rotation", s.state.Rotation).Str("filter", string(s.state.Filter)).
		Bool("crop", s.state.CropActive).Int("width", w).Int("height", h).
		Msg("edit applied")
	return record, nil
}

// Cancel discards the edit state and reinserts the original record at its
// old index, or at the end if the list has shrunk since.
func (s *Session) Cancel() error {
	if s.done {
		return domain.ErrSessionClosed
	}
	index := min(s.index, s.list.Len())
	if err := s.list.Insert(index, s.state.Source); err != nil {
		return err
	}
	s.done = true
	log.Debug().Str("image_id", s.state.Source.ID).Msg("edit session cancelled")
	return nil
}

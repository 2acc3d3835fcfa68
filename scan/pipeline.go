package scan

import (
	"fmt"

	"github.com/lewtec/drivescan/internal/editor"
	"github.com/lewtec/drivescan/internal/selection"
)

// EditAll runs edit over every record of list in turn. Each record goes
// through its own session, so after a full pass the list holds the edited
// copies in the original order. A failing edit cancels its session and stops.
func EditAll(list *selection.List, engine *editor.Engine, edit func(*editor.Session) error) error {
	n := list.Len()
	for i := 0; i < n; i++ {
		s, err := editor.Begin(list, 0, engine)
		if err != nil {
			return fmt.Errorf("while editing image %d: %w", i+1, err)
		}
		if err := edit(s); err != nil {
			if cancelErr := s.Cancel(); cancelErr != nil {
				return fmt.Errorf("while editing image %d: %w (cancel: %v)", i+1, err, cancelErr)
			}
			return fmt.Errorf("while editing image %d: %w", i+1, err)
		}
		if _, err := s.Apply(); err != nil {
			s.Cancel()
			return fmt.Errorf("while applying edit to image %d: %w", i+1, err)
		}
	}
	return nil
}

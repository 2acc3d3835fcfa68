package selection

import (
	"fmt"
	"image"
	"sync"

	"github.com/lewtec/drivescan/internal/domain"
)

// List is the ordered set of pending page images. Insertion order is page
// order. Every mutation holds the write lock for its whole splice so readers
// only see complete states.
type List struct {
	mu      sync.RWMutex
	records []domain.ImageRecord
}

// New creates a list seeded with records, in order
func New(records ...domain.ImageRecord) (*List, error) {
	l := &List{}
	for _, r := range records {
		if err := l.Append(r); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Append adds a record at the end of the list
func (l *List) Append(record domain.ImageRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, r := range l.records {
		if r.ID == record.ID {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateRecord, record.ID)
		}
	}
	l.records = append(l.records, record)
	return nil
}

// Insert puts a record at index, shifting the rest right. index == Len appends.
func (l *List) Insert(index int, record domain.ImageRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if index < 0 || index > len(l.records) {
		return outOfRange(index, len(l.records))
	}
	for _, r := range l.records {
		if r.ID == record.ID {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateRecord, record.ID)
		}
	}
	l.records = append(l.records, domain.ImageRecord{})
	copy(l.records[index+1:], l.records[index:])
	l.records[index] = record
	return nil
}

// RemoveAt drops the record at index
func (l *List) RemoveAt(index int) error {
	_, err := l.Take(index)
	return err
}

// Take moves the record at index out of the list and returns it
func (l *List) Take(index int) (domain.ImageRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if index < 0 || index >= len(l.records) {
		return domain.ImageRecord{}, outOfRange(index, len(l.records))
	}
	record := l.records[index]
	l.records = append(l.records[:index], l.records[index+1:]...)
	return record, nil
}

// Swap exchanges two neighbouring records
func (l *List) Swap(i, j int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := len(l.records)
	if i < 0 || i >= n {
		return outOfRange(i, n)
	}
	if j < 0 || j >= n {
		return outOfRange(j, n)
	}
	if i-j != 1 && j-i != 1 {
		return fmt.Errorf("%w: %d and %d are not adjacent", domain.ErrIndexOutOfRange, i, j)
	}
	l.records[i], l.records[j] = l.records[j], l.records[i]
	return nil
}

// MoveLeft swaps the record at index with its left neighbour
func (l *List) MoveLeft(index int) error {
	return l.Swap(index, index-1)
}

// MoveRight swaps the record at index with its right neighbour
func (l *List) MoveRight(index int) error {
	return l.Swap(index, index+1)
}

func (l *List) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = nil
}

// Snapshot returns a copy of the current order
func (l *List) Snapshot() []domain.ImageRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.ImageRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Images returns the rasters in page order
func (l *List) Images() []image.Image {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]image.Image, len(l.records))
	for i, r := range l.records {
		out[i] = r.Raster
	}
	return out
}

func outOfRange(index, length int) error {
	return fmt.Errorf("%w: index %d, length %d", domain.ErrIndexOutOfRange, index, length)
}

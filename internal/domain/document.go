package domain

import (
	"context"
	"time"
)

// Artifact is a finished PDF document kept in the drive
type Artifact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Content   []byte    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Meta returns the listing metadata of the artifact
func (a *Artifact) Meta() ArtifactMeta {
	return ArtifactMeta{
		ID:        a.ID,
		Name:      a.Name,
		CreatedAt: a.CreatedAt,
		Size:      int64(len(a.Content)),
	}
}

// ArtifactMeta is what the drive list shows without the PDF body
type ArtifactMeta struct {
	ID        string
	Name      string
	CreatedAt time.Time
	Size      int64
}

// ArtifactRepository defines the interface for artifact storage operations.
// Implementations keep an ordered index of ids (newest first) consistent with
// the stored artifacts.
type ArtifactRepository interface {
	// Save stores the artifact and prepends its id to the index atomically
	Save(ctx context.Context, artifact *Artifact) error

	// Get retrieves an artifact by id, nil if absent
	Get(ctx context.Context, id string) (*Artifact, error)

	// Delete removes the artifact and its index entry; absent ids are a no-op
	Delete(ctx context.Context, id string) error

	// Index returns the ordered list of stored ids, newest first
	Index(ctx context.Context) ([]string, error)

	// List returns metadata for every indexed artifact in index order
	List(ctx context.Context) ([]ArtifactMeta, error)

	// Clear removes every indexed artifact and empties the index
	Clear(ctx context.Context) error
}

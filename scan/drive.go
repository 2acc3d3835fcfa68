package scan

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/go-git/go-billy/v6"
	"github.com/go-git/go-billy/v6/util"
	"github.com/google/uuid"
	"github.com/lewtec/drivescan/internal/composer"
	"github.com/lewtec/drivescan/internal/domain"
	"github.com/lewtec/drivescan/internal/selection"
	"github.com/rs/zerolog/log"
)

// Drive is the local document store: it turns a selection into a PDF
// artifact and manages the stored artifacts
type Drive struct {
	Repo    domain.ArtifactRepository
	Encoder composer.Encoder
	Format  composer.PageFormat
	// Now is the clock used for default names and timestamps
	Now func() time.Time
}

func NewDrive(repo domain.ArtifactRepository, enc composer.Encoder, format composer.PageFormat) *Drive {
	return &Drive{Repo: repo, Encoder: enc, Format: format, Now: time.Now}
}

func (d *Drive) now() time.Time {
	if d.Now == nil {
		return time.Now().UTC()
	}
	return d.Now().UTC()
}

// DefaultName names a document after its creation time
func DefaultName(t time.Time) string {
	return "Scan_" + t.UTC().Format("2006-01-02_15-04-05")
}

// CreateDocument composes every image of list into one PDF, stores it and
// only then clears the list. Any failure leaves the list untouched.
func (d *Drive) CreateDocument(ctx context.Context, list *selection.List, name string) (*domain.Artifact, error) {
	images := list.Images()
	content, err := composer.Render(images, d.Format, d.Encoder)
	if err != nil {
		return nil, fmt.Errorf("while composing document: %w", err)
	}
	createdAt := d.now()
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName(createdAt)
	}
	artifact := &domain.Artifact{
		ID:        uuid.NewString(),
		Name:      name,
		Content:   content,
		CreatedAt: createdAt,
	}
	if err := d.Repo.Save(ctx, artifact); err != nil {
		return nil, fmt.Errorf("while storing document '%s': %w", name, err)
	}
	list.Clear()
	log.Ctx(ctx).Info().Str("artifact_id", artifact.ID).Str("name", name).
		Int("pages", len(images)).Int("bytes", len(content)).Msg("document created")
	return artifact, nil
}

// List returns every stored document, newest first
func (d *Drive) List(ctx context.Context) ([]domain.ArtifactMeta, error) {
	return d.Repo.List(ctx)
}

// Search filters the documents whose name contains query, ignoring case.
// An empty query matches everything.
func (d *Drive) Search(ctx context.Context, query string) ([]domain.ArtifactMeta, error) {
	metas, err := d.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return metas, nil
	}
	matches := make([]domain.ArtifactMeta, 0, len(metas))
	for _, m := range metas {
		if strings.Contains(strings.ToLower(m.Name), query) {
			matches = append(matches, m)
		}
	}
	return matches, nil
}

// Get returns the artifact with id, nil if absent
func (d *Drive) Get(ctx context.Context, id string) (*domain.Artifact, error) {
	return d.Repo.Get(ctx, id)
}

// Delete removes a document; unknown ids are ignored
func (d *Drive) Delete(ctx context.Context, id string) error {
	if err := d.Repo.Delete(ctx, id); err != nil {
		return err
	}
	log.Ctx(ctx).Info().Str("artifact_id", id).Msg("document deleted")
	return nil
}

// Clear removes every document
func (d *Drive) Clear(ctx context.Context) error {
	if err := d.Repo.Clear(ctx); err != nil {
		return err
	}
	log.Ctx(ctx).Info().Msg("drive cleared")
	return nil
}

// Count is the number of stored documents
func (d *Drive) Count(ctx context.Context) (int, error) {
	ids, err := d.Repo.Index(ctx)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// Export writes the document as <name>.pdf at the root of fs and returns the
// file name used
func (d *Drive) Export(ctx context.Context, id string, fs billy.Filesystem) (string, error) {
	artifact, err := d.Repo.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if artifact == nil {
		return "", fmt.Errorf("document %s not found", id)
	}
	filename := FileName(artifact.Name)
	if err := util.WriteFile(fs, filename, artifact.Content, 0o644); err != nil {
		return "", fmt.Errorf("while exporting '%s': %w", filename, err)
	}
	log.Ctx(ctx).Info().Str("artifact_id", id).Str("file", filename).Msg("document exported")
	return filename, nil
}

// FileName turns a document name into a safe PDF file name
func FileName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, strings.TrimSpace(name))
	name = path.Base(name)
	if name == "" || name == "." || name == "/" {
		name = "document"
	}
	return name + ".pdf"
}

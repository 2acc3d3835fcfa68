package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lewtec/drivescan/internal/domain"
)

const (
	indexKey       = "index"
	artifactPrefix = "artifact:"
)

func artifactKey(id string) string {
	return artifactPrefix + id
}

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ArtifactRepository implements domain.ArtifactRepository on a SQLite
// key-value table. The index key holds a JSON array of ids, newest first.
type ArtifactRepository struct {
	db *sql.DB
}

var _ domain.ArtifactRepository = (*ArtifactRepository)(nil)

// NewArtifactRepository creates a new ArtifactRepository
func NewArtifactRepository(db *sql.DB) *ArtifactRepository {
	return &ArtifactRepository{db: db}
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrStorage, op, err)
}

func getValue(ctx context.Context, q querier, key string) ([]byte, bool, error) {
	var value []byte
	err := q.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func putValue(ctx context.Context, q querier, key string, value []byte) error {
	_, err := q.ExecContext(ctx, `
INSERT INTO kv (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

func readIndex(ctx context.Context, q querier) ([]string, error) {
	raw, ok, err := getValue(ctx, q, indexKey)
	if err != nil || !ok {
		return []string{}, err
	}
	ids := []string{}
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("corrupt index: %w", err)
	}
	return ids, nil
}

func writeIndex(ctx context.Context, q querier, ids []string) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return putValue(ctx, q, indexKey, raw)
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func (r *ArtifactRepository) inTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr(op, err)
	}
	defer tx.Rollback()
	if err := fn(tx); err != nil {
		return storageErr(op, err)
	}
	if err := tx.Commit(); err != nil {
		return storageErr(op, err)
	}
	return nil
}

// Save stores the artifact and moves its id to the front of the index
func (r *ArtifactRepository) Save(ctx context.Context, artifact *domain.Artifact) error {
	raw, err := json.Marshal(artifact)
	if err != nil {
		return storageErr("save", err)
	}
	return r.inTx(ctx, "save", func(tx *sql.Tx) error {
		if err := putValue(ctx, tx, artifactKey(artifact.ID), raw); err != nil {
			return err
		}
		ids, err := readIndex(ctx, tx)
		if err != nil {
			return err
		}
		return writeIndex(ctx, tx, append([]string{artifact.ID}, without(ids, artifact.ID)...))
	})
}

// Get retrieves an artifact by id, nil if absent
func (r *ArtifactRepository) Get(ctx context.Context, id string) (*domain.Artifact, error) {
	raw, ok, err := getValue(ctx, r.db, artifactKey(id))
	if err != nil {
		return nil, storageErr("get", err)
	}
	if !ok {
		return nil, nil
	}
	var artifact domain.Artifact
	if err := json.Unmarshal(raw, &artifact); err != nil {
		return nil, storageErr("get", err)
	}
	return &artifact, nil
}

// Delete removes the artifact and its index entry; absent ids are a no-op
func (r *ArtifactRepository) Delete(ctx context.Context, id string) error {
	return r.inTx(ctx, "delete", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, artifactKey(id)); err != nil {
			return err
		}
		ids, err := readIndex(ctx, tx)
		if err != nil {
			return err
		}
		remaining := without(ids, id)
		if len(remaining) == len(ids) {
			return nil
		}
		return writeIndex(ctx, tx, remaining)
	})
}

// Index returns the stored ids, newest first
func (r *ArtifactRepository) Index(ctx context.Context) ([]string, error) {
	ids, err := readIndex(ctx, r.db)
	if err != nil {
		return nil, storageErr("index", err)
	}
	return ids, nil
}

// List returns metadata for every indexed artifact in index order. Ids whose
// artifact is missing are skipped.
func (r *ArtifactRepository) List(ctx context.Context) ([]domain.ArtifactMeta, error) {
	ids, err := r.Index(ctx)
	if err != nil {
		return nil, err
	}
	metas := make([]domain.ArtifactMeta, 0, len(ids))
	for _, id := range ids {
		artifact, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if artifact == nil {
			continue
		}
		metas = append(metas, artifact.Meta())
	}
	return metas, nil
}

// Clear removes every indexed artifact and empties the index
func (r *ArtifactRepository) Clear(ctx context.Context) error {
	return r.inTx(ctx, "clear", func(tx *sql.Tx) error {
		ids, err := readIndex(ctx, tx)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if _, err := tx.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, artifactKey(id)); err != nil {
				return err
			}
		}
		return writeIndex(ctx, tx, []string{})
	})
}

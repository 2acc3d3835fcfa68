package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/lewtec/drivescan/internal/domain"
)

func newArtifact(id, name string, at time.Time) *domain.Artifact {
	return &domain.Artifact{
		ID:        id,
		Name:      name,
		Content:   []byte("%PDF-1.3 " + name),
		CreatedAt: at,
	}
}

// runArtifactRepositoryContract exercises behaviour every backend shares
func runArtifactRepositoryContract(t *testing.T, repo domain.ArtifactRepository) {
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("empty repository", func(t *testing.T) {
		ids, err := repo.Index(ctx)
		if err != nil {
			t.Fatalf("Index() error = %v", err)
		}
		if len(ids) != 0 {
			t.Errorf("Index() = %v, want empty", ids)
		}
		got, err := repo.Get(ctx, "missing")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got != nil {
			t.Errorf("Get(missing) = %+v, want nil", got)
		}
	})

	t.Run("save prepends to the index", func(t *testing.T) {
		for i, name := range []string{"first", "second", "third"} {
			if err := repo.Save(ctx, newArtifact(name, "Scan "+name, base.Add(time.Duration(i)*time.Minute))); err != nil {
				t.Fatalf("Save(%s) error = %v", name, err)
			}
		}
		ids, err := repo.Index(ctx)
		if err != nil {
			t.Fatalf("Index() error = %v", err)
		}
		want := []string{"third", "second", "first"}
		if len(ids) != len(want) {
			t.Fatalf("Index() = %v, want %v", ids, want)
		}
		for i := range want {
			if ids[i] != want[i] {
				t.Errorf("Index()[%d] = %s, want %s", i, ids[i], want[i])
			}
		}
	})

	t.Run("get round trips the artifact", func(t *testing.T) {
		got, err := repo.Get(ctx, "second")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got == nil {
			t.Fatal("Get() = nil")
		}
		if got.Name != "Scan second" || string(got.Content) != "%PDF-1.3 Scan second" {
			t.Errorf("Get() = %+v", got)
		}
		if !got.CreatedAt.Equal(base.Add(time.Minute)) {
			t.Errorf("CreatedAt = %v", got.CreatedAt)
		}
	})

	t.Run("list follows index order", func(t *testing.T) {
		metas, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(metas) != 3 || metas[0].ID != "third" || metas[2].ID != "first" {
			t.Fatalf("List() = %+v", metas)
		}
		if metas[0].Size != int64(len("%PDF-1.3 Scan third")) {
			t.Errorf("Size = %d", metas[0].Size)
		}
	})

	t.Run("saving again moves the id to the front", func(t *testing.T) {
		if err := repo.Save(ctx, newArtifact("first", "Scan first renamed", base)); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		ids, _ := repo.Index(ctx)
		if len(ids) != 3 || ids[0] != "first" {
			t.Errorf("Index() = %v", ids)
		}
	})

	t.Run("delete removes exactly one id", func(t *testing.T) {
		if err := repo.Delete(ctx, "second"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		ids, _ := repo.Index(ctx)
		if len(ids) != 2 || ids[0] != "first" || ids[1] != "third" {
			t.Errorf("Index() = %v", ids)
		}
		got, _ := repo.Get(ctx, "second")
		if got != nil {
			t.Error("deleted artifact still readable")
		}
	})

	t.Run("deleting an absent id is a no-op", func(t *testing.T) {
		if err := repo.Delete(ctx, "never-existed"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		ids, _ := repo.Index(ctx)
		if len(ids) != 2 {
			t.Errorf("Index() = %v", ids)
		}
	})

	t.Run("clear empties everything", func(t *testing.T) {
		if err := repo.Clear(ctx); err != nil {
			t.Fatalf("Clear() error = %v", err)
		}
		ids, _ := repo.Index(ctx)
		if len(ids) != 0 {
			t.Errorf("Index() = %v", ids)
		}
		got, _ := repo.Get(ctx, "first")
		if got != nil {
			t.Error("cleared artifact still readable")
		}
	})
}

func TestArtifactRepository(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	runArtifactRepositoryContract(t, NewArtifactRepository(db))
}

func TestArtifactRepository_Layout(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	repo := NewArtifactRepository(db)
	ctx := context.Background()
	if err := repo.Save(ctx, newArtifact("abc", "Scan", time.Now())); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	var raw []byte
	if err := db.QueryRow(`SELECT value FROM kv WHERE key = 'index'`).Scan(&raw); err != nil {
		t.Fatalf("reading index: %v", err)
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		t.Fatalf("index is not a JSON array: %v", err)
	}
	if len(ids) != 1 || ids[0] != "abc" {
		t.Errorf("index = %v", ids)
	}

	if err := db.QueryRow(`SELECT value FROM kv WHERE key = 'artifact:abc'`).Scan(&raw); err != nil {
		t.Fatalf("reading artifact: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("artifact is not JSON: %v", err)
	}
	for _, key := range []string{"id", "name", "content", "createdAt"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("artifact JSON missing %q", key)
		}
	}
}

func TestArtifactRepository_CorruptIndex(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	MustExec(t, db, `INSERT INTO kv (key, value) VALUES ('index', 'not json')`)
	repo := NewArtifactRepository(db)
	ctx := context.Background()

	if _, err := repo.Index(ctx); !errors.Is(err, domain.ErrStorage) {
		t.Errorf("Index() error = %v, want ErrStorage", err)
	}
	err := repo.Save(ctx, newArtifact("abc", "Scan", time.Now()))
	if !errors.Is(err, domain.ErrStorage) {
		t.Errorf("Save() error = %v, want ErrStorage", err)
	}
	got, _ := repo.Get(ctx, "abc")
	if got != nil {
		t.Error("failed save left the artifact behind")
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	if err := Migrate(db); err != nil {
		t.Errorf("second Migrate() error = %v", err)
	}
}

package scan

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/lewtec/drivescan/internal/domain"
	"github.com/lewtec/drivescan/internal/repository"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// GetDatabase opens the SQLite file and brings its schema up to date
func GetDatabase(filename string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", filename)
	if err != nil {
		return nil, fmt.Errorf("while opening database '%s': %w", filename, err)
	}
	if filename == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := repository.Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("while preparing database '%s': %w", filename, err)
	}
	return db, nil
}

// OpenRepository builds the artifact repository selected by the storage
// backend. The returned closer releases the underlying connection.
func OpenRepository(ctx context.Context, cfg *Config) (domain.ArtifactRepository, io.Closer, error) {
	switch cfg.Storage.Backend {
	case BackendRedis:
		client, err := repository.NewRedisClient(ctx, repository.RedisConf{
			Addr:     cfg.Storage.Redis.Addr,
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		return repository.NewRedisArtifactRepository(client), client, nil
	case BackendSQLite, "":
		db, err := GetDatabase(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		log.Debug().Str("database", cfg.Database).Msg("sqlite storage ready")
		return repository.NewArtifactRepository(db), db, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

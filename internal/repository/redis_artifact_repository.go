package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/lewtec/drivescan/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisConf selects the redis server holding the drive
type RedisConf struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects to the configured server and pings it
func NewRedisClient(ctx context.Context, conf RedisConf) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, storageErr("connect", err)
	}
	log.Info().Str("addr", conf.Addr).Int("db", conf.DB).Msg("redis client initialized")
	return client, nil
}

// RedisArtifactRepository implements domain.ArtifactRepository on redis. The
// index is a list with the newest id at the head; artifact writes and index
// updates share one MULTI/EXEC.
type RedisArtifactRepository struct {
	client *redis.Client
}

var _ domain.ArtifactRepository = (*RedisArtifactRepository)(nil)

func NewRedisArtifactRepository(client *redis.Client) *RedisArtifactRepository {
	return &RedisArtifactRepository{client: client}
}

func (r *RedisArtifactRepository) Save(ctx context.Context, artifact *domain.Artifact) error {
	raw, err := json.Marshal(artifact)
	if err != nil {
		return storageErr("save", err)
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, artifactKey(artifact.ID), raw, 0)
		pipe.LRem(ctx, indexKey, 0, artifact.ID)
		pipe.LPush(ctx, indexKey, artifact.ID)
		return nil
	})
	if err != nil {
		return storageErr("save", err)
	}
	return nil
}

func (r *RedisArtifactRepository) Get(ctx context.Context, id string) (*domain.Artifact, error) {
	raw, err := r.client.Get(ctx, artifactKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get", err)
	}
	var artifact domain.Artifact
	if err := json.Unmarshal(raw, &artifact); err != nil {
		return nil, storageErr("get", err)
	}
	return &artifact, nil
}

func (r *RedisArtifactRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, artifactKey(id))
		pipe.LRem(ctx, indexKey, 0, id)
		return nil
	})
	if err != nil {
		return storageErr("delete", err)
	}
	return nil
}

func (r *RedisArtifactRepository) Index(ctx context.Context) ([]string, error) {
	ids, err := r.client.LRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, storageErr("index", err)
	}
	return ids, nil
}

func (r *RedisArtifactRepository) List(ctx context.Context) ([]domain.ArtifactMeta, error) {
	ids, err := r.Index(ctx)
	if err != nil {
		return nil, err
	}
	metas := make([]domain.ArtifactMeta, 0, len(ids))
	if len(ids) == 0 {
		return metas, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = artifactKey(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, storageErr("list", err)
	}
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			// index entry without artifact
			continue
		}
		var artifact domain.Artifact
		if err := json.Unmarshal([]byte(s), &artifact); err != nil {
			return nil, storageErr("list", err)
		}
		metas = append(metas, artifact.Meta())
	}
	return metas, nil
}

func (r *RedisArtifactRepository) Clear(ctx context.Context) error {
	ids, err := r.Index(ctx)
	if err != nil {
		return err
	}
	keys := []string{indexKey}
	for _, id := range ids {
		keys = append(keys, artifactKey(id))
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return storageErr("clear", err)
	}
	return nil
}

// internal/store/embedding.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"time"

	"brandscore-workers/internal/common/errors"
	"brandscore-workers/internal/common/logger"
	"brandscore-workers/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// EmbeddingStore persists content embeddings in postgres with a redis
// read-through cache in front. Writes are idempotent: concurrent requests may
// both compute and store an embedding for the same content, and the second
// write simply replaces the first.
type EmbeddingStore struct {
	db       *sql.DB
	redis    *redis.Client
	cacheTTL time.Duration
	logger   logger.Logger
}

func NewEmbeddingStore(db *sql.DB, rdb *redis.Client, cacheTTL time.Duration, log logger.Logger) *EmbeddingStore {
	return &EmbeddingStore{
		db:       db,
		redis:    rdb,
		cacheTTL: cacheTTL,
		logger:   log.WithFields(map[string]interface{}{"store": "embedding"}),
	}
}

func embeddingCacheKey(contentID string) string {
	return "embedding:content:" + contentID
}

// GetByContentID returns the stored vector for a content item, or nil when
// no embedding exists yet.
func (s *EmbeddingStore) GetByContentID(ctx context.Context, contentID string) ([]float64, error) {
	cacheKey := embeddingCacheKey(contentID)
	if s.redis != nil {
		if val, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var vector []float64
			if err := json.Unmarshal([]byte(val), &vector); err == nil {
				return vector, nil
			}
		}
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT vector FROM embeddings WHERE content_id = $1`, contentID)

	var raw []byte
	err := row.Scan(&raw)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewInternalError("embedding.GetByContentID", err)
	}

	var vector []float64
	if err := json.Unmarshal(raw, &vector); err != nil {
		return nil, errors.NewInternalError("embedding.decode", err)
	}

	s.cacheSet(ctx, cacheKey, raw)
	return vector, nil
}

// Create stores an embedding for a content item. Re-creating an embedding
// for the same content replaces the previous vector.
func (s *EmbeddingStore) Create(ctx context.Context, contentID string, vector []float64, sourceText string) error {
	rec := models.Embedding{
		ID:         uuid.NewString(),
		ContentID:  contentID,
		Vector:     vector,
		SourceText: sourceText,
	}
	raw, err := json.Marshal(rec.Vector)
	if err != nil {
		return errors.NewInternalError("embedding.encode", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO embeddings (id, content_id, vector, source_text, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (content_id)
		DO UPDATE SET vector = EXCLUDED.vector, source_text = EXCLUDED.source_text`,
		rec.ID, rec.ContentID, raw, rec.SourceText)
	if err != nil {
		return errors.NewInternalError("embedding.Create", err)
	}

	s.cacheSet(ctx, embeddingCacheKey(contentID), raw)
	return nil
}

// cacheSet is fire-and-forget: a cache failure never propagates.
func (s *EmbeddingStore) cacheSet(ctx context.Context, key string, raw []byte) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("embedding cache write failed", map[string]interface{}{
			"key":   key,
			"error": err,
		})
	}
}

package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"vidarc/logger"
	"vidarc/model"

	"github.com/redis/go-redis/v9"
)

// catalogKey is the fixed namespace the serialized catalog lives under.
// It matches the storage key the gallery has always used.
const catalogKey = "personal-video-archive-videos"

const mirrorTimeout = 5 * time.Second

// Mirror is the persistence boundary for the catalog: a whole-list snapshot
// read/write against a key-value store.
type Mirror interface {
	// Load returns the mirrored catalog, or nil on absence or corruption.
	Load() ([]*model.Video, error)
	Save(videos []*model.Video) error
}

// redisMirror stores the serialized catalog under a single Redis key.
type redisMirror struct {
	client *redis.Client
}

// NewRedisMirror creates a Mirror backed by the given Redis client.
func NewRedisMirror(client *redis.Client) Mirror {
	return &redisMirror{client: client}
}

func (m *redisMirror) Load() ([]*model.Video, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
	defer cancel()

	raw, err := m.client.Get(ctx, catalogKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog mirror: %w", err)
	}

	var videos []*model.Video
	if err := json.Unmarshal([]byte(raw), &videos); err != nil {
		// A corrupt mirror is treated as absent; the caller falls back to
		// seed data.
		logger.Warn("Catalog mirror is corrupt, ignoring it", logger.ErrorField(err))
		return nil, nil
	}
	return videos, nil
}

func (m *redisMirror) Save(videos []*model.Video) error {
	payload, err := json.Marshal(videos)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
	defer cancel()

	if err := m.client.Set(ctx, catalogKey, payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to write catalog mirror: %w", err)
	}
	return nil
}

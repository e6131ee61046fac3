package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"vidarc/model"

	"github.com/redis/go-redis/v9"
)

// SessionCache keeps the signed-in session marker in Redis so a session
// survives process reloads under the same namespace convention as the catalog.
type SessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionCache creates a session cache with the given marker lifetime.
func NewSessionCache(client *redis.Client, ttl time.Duration) *SessionCache {
	return &SessionCache{client: client, ttl: ttl}
}

func sessionKey(username string) string {
	return fmt.Sprintf("personal-video-archive-session:%s", username)
}

// Put stores the session marker for a user. A nil cache, from running without
// Redis, silently does nothing.
func (c *SessionCache) Put(ctx context.Context, user *model.User) error {
	if c == nil {
		return nil
	}
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal session marker: %w", err)
	}
	if err := c.client.Set(ctx, sessionKey(user.Username), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session marker: %w", err)
	}
	return nil
}

// Get returns the stored session marker, or nil when none exists.
func (c *SessionCache) Get(ctx context.Context, username string) (*model.User, error) {
	if c == nil {
		return nil, nil
	}
	raw, err := c.client.Get(ctx, sessionKey(username)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session marker: %w", err)
	}
	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session marker: %w", err)
	}
	return &user, nil
}

// Delete removes the session marker on logout.
func (c *SessionCache) Delete(ctx context.Context, username string) error {
	if c == nil {
		return nil
	}
	if err := c.client.Del(ctx, sessionKey(username)).Err(); err != nil {
		return fmt.Errorf("failed to delete session marker: %w", err)
	}
	return nil
}

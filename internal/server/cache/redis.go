package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vblinov/linkhub/internal/logging"
	"github.com/vblinov/linkhub/internal/server/models"
)

// DefaultTTL bounds staleness if an invalidation is ever lost.
const DefaultTTL = 15 * time.Minute

// RedisStore is a Redis-backed Store.
type RedisStore struct {
	client *redis.Client
	log    logging.Logger
	ttl    time.Duration
}

// NewRedisStore wraps an already-connected Redis client.
func NewRedisStore(client *redis.Client, log logging.Logger) *RedisStore {
	return &RedisStore{client: client, log: log, ttl: DefaultTTL}
}

// Connect dials Redis and verifies the connection with a ping.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

func categoryListKey(userID int64) string {
	return fmt.Sprintf("linkhub:categories:%d", userID)
}

func (s *RedisStore) GetCategoryList(ctx context.Context, userID int64) ([]*models.CategoryWithCount, bool) {
	data, err := s.client.Get(ctx, categoryListKey(userID)).Bytes()
	if err != nil {
		// redis.Nil is an ordinary miss; anything else is logged and treated
		// the same so the caller falls through to the database.
		if err != redis.Nil {
			s.log.Warn(ctx, "category cache get failed", "error", err)
		}
		return nil, false
	}

	var list []*models.CategoryWithCount
	if err := json.Unmarshal(data, &list); err != nil {
		s.log.Warn(ctx, "category cache payload corrupt, dropping", "error", err)
		s.InvalidateUser(ctx, userID)
		return nil, false
	}
	return list, true
}

func (s *RedisStore) SetCategoryList(ctx context.Context, userID int64, list []*models.CategoryWithCount) {
	data, err := json.Marshal(list)
	if err != nil {
		s.log.Warn(ctx, "category cache marshal failed", "error", err)
		return
	}
	if err := s.client.Set(ctx, categoryListKey(userID), data, s.ttl).Err(); err != nil {
		s.log.Warn(ctx, "category cache set failed", "error", err)
	}
}

func (s *RedisStore) InvalidateUser(ctx context.Context, userID int64) {
	if err := s.client.Del(ctx, categoryListKey(userID)).Err(); err != nil {
		s.log.Warn(ctx, "category cache invalidate failed", "error", err)
	}
}

package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"atlasbourse/pkg/common"
	redispkg "atlasbourse/pkg/redis"

	"github.com/redis/go-redis/v9"
)

// SessionStore persists session tokens with a TTL.
type SessionStore interface {
	Save(ctx context.Context, token string, userID uint, ttl time.Duration) error
	Lookup(ctx context.Context, token string) (uint, bool, error)
	Delete(ctx context.Context, token string) error
}

// NewRedisSessionStore creates a Redis-backed session store.
func NewRedisSessionStore(client *redispkg.Client) SessionStore {
	return &redisSessionStore{client: client}
}

type redisSessionStore struct {
	client *redispkg.Client
}

func (s *redisSessionStore) Save(ctx context.Context, token string, userID uint, ttl time.Duration) error {
	key := common.RedisSessionKeyPrefix + token
	return s.client.Set(ctx, key, strconv.FormatUint(uint64(userID), 10), ttl).Err()
}

func (s *redisSessionStore) Lookup(ctx context.Context, token string) (uint, bool, error) {
	key := common.RedisSessionKeyPrefix + token
	value, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	userID, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, false, err
	}
	return uint(userID), true, nil
}

func (s *redisSessionStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, common.RedisSessionKeyPrefix+token).Err()
}

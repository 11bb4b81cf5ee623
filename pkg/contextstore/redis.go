package contextstore

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const defaultRedisKey = "chatbot:context-id"

// RedisStore keeps the slot in Redis so several widget hosts can resume the
// same conversation. Plain GET/SET, no TTL; the backend expires stale
// contexts on its side.
type RedisStore struct {
	client *redis.Client
	key    string
}

var _ Store = &RedisStore{}

func NewRedisStore(client *redis.Client, key string) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("redis context store: client is nil")
	}
	if key == "" {
		key = defaultRedisKey
	}
	return &RedisStore{client: client, key: key}, nil
}

func (s *RedisStore) Get(ctx context.Context) (string, error) {
	id, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "redis context store: get")
	}
	return id, nil
}

func (s *RedisStore) Save(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.client.Set(ctx, s.key, id, 0).Err(); err != nil {
		return errors.Wrap(err, "redis context store: save")
	}
	return nil
}

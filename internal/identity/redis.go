package identity

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const defaultRedisKey = "slices:user_id"

// RedisStore keeps the identifier under one Redis key, for shared kiosks
// where several terminals play as the same user.
type RedisStore struct {
	client *redis.Client
	key    string
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = defaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Load(ctx context.Context) (string, error) {
	id, err := s.client.Get(ctx, s.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", err
	}
	return id, nil
}

func (s *RedisStore) Save(ctx context.Context, id string) error {
	return s.client.Set(ctx, s.key, id, 0).Err()
}

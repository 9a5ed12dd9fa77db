package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	redisContentTypeField = "ct"
	redisBodyField        = "b"
)

// RedisStore is a Store keeping each object in a Redis hash. Keys are
// namespaced with prefix so the database can be shared.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Put(ctx context.Context, key string, obj Object) error {
	err := s.client.HSet(ctx, s.prefix+key,
		redisContentTypeField, obj.ContentType,
		redisBodyField, obj.Body,
	).Err()
	if err != nil {
		return fmt.Errorf("could not put %.40q: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (obj Object, err error) {
	fields, err := s.client.HGetAll(ctx, s.prefix+key).Result()
	if err != nil {
		return Object{}, fmt.Errorf("could not get %.40q: %w", key, err)
	}
	body, ok := fields[redisBodyField]
	if !ok {
		return Object{}, fmt.Errorf("%.40q: %w", key, ErrNotFound)
	}
	return Object{
		ContentType: fields[redisContentTypeField],
		Body:        []byte(body),
	}, nil
}

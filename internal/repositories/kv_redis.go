package repositories

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RedisBackend stores the key space as the fields of one Redis hash.
type RedisBackend struct {
	client  *redis.Client
	hashKey string
}

func NewRedisBackend(client *redis.Client, hashKey string) *RedisBackend {
	return &RedisBackend{client: client, hashKey: hashKey}
}

func (b *RedisBackend) Name() string { return "redis" }

func (b *RedisBackend) Load(ctx context.Context) (map[string][]byte, error) {
	fields, err := b.client.HGetAll(ctx, b.hashKey).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: HGETALL %s: %v", ErrStorageError, b.hashKey, err)
	}
	out := make(map[string][]byte, len(fields))
	for k, v := range fields {
		out[k] = []byte(v)
	}
	return out, nil
}

// Save runs HSET and HDEL inside MULTI/EXEC.
func (b *RedisBackend) Save(ctx context.Context, puts map[string][]byte, deletes []string) error {
	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(puts) > 0 {
			values := make(map[string]interface{}, len(puts))
			for k, v := range puts {
				values[k] = string(v)
			}
			pipe.HSet(ctx, b.hashKey, values)
		}
		if len(deletes) > 0 {
			pipe.HDel(ctx, b.hashKey, deletes...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: saving to %s: %v", ErrStorageError, b.hashKey, err)
	}
	return nil
}

func (b *RedisBackend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

func (b *RedisBackend) Close() error {
	return b.client.Close()
}

package snapshot

import (
	"context"

	"github.com/redis/go-redis/v9"

	"mbb-tracker/internal/errors"
)

// RedisSlot stores the snapshot as a single Redis string key, giving the
// active-timer set write-through durability beyond the local machine.
type RedisSlot struct {
	client *redis.Client
	key    string
}

// NewRedisSlot creates a redis-backed slot using client and key.
func NewRedisSlot(client *redis.Client, key string) *RedisSlot {
	return &RedisSlot{client: client, key: key}
}

// Write replaces the snapshot key contents.
func (s *RedisSlot) Write(ctx context.Context, payload []byte) error {
	if err := s.client.Set(ctx, s.key, payload, 0).Err(); err != nil {
		return errors.NewSnapshotError("write snapshot key", err)
	}
	return nil
}

// Read returns the snapshot key contents.
func (s *RedisSlot) Read(ctx context.Context) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, errors.NewSnapshotError("read snapshot key", err)
	}
	return data, true, nil
}

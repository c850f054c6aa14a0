package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"food-marketplace/notify-svc/internal/service"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultBufferLimit = 50
	DefaultBufferTTL   = 24 * time.Hour
)

// RedisBuffer keeps the newest undelivered frames per restaurant in a
// capped Redis list.
type RedisBuffer struct {
	rdb   *redis.Client
	limit int64
	ttl   time.Duration
}

func NewRedisBuffer(rdb *redis.Client) *RedisBuffer {
	return &RedisBuffer{rdb: rdb, limit: DefaultBufferLimit, ttl: DefaultBufferTTL}
}

var _ service.Buffer = (*RedisBuffer)(nil)

func BufferKey(restaurantID int) string {
	return fmt.Sprintf("notifications:restaurant:%d", restaurantID)
}

func (b *RedisBuffer) Push(ctx context.Context, restaurantID int, frame []byte) error {
	key := BufferKey(restaurantID)
	_, err := b.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, key, frame)
		pipe.LTrim(ctx, key, 0, b.limit-1)
		pipe.Expire(ctx, key, b.ttl)
		return nil
	})
	return err
}

// Drain removes and returns the buffered frames, oldest first.
func (b *RedisBuffer) Drain(ctx context.Context, restaurantID int) ([]json.RawMessage, error) {
	key := BufferKey(restaurantID)
	var items *redis.StringSliceCmd
	_, err := b.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		items = pipe.LRange(ctx, key, 0, -1)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return nil, err
	}

	values := items.Val()
	frames := make([]json.RawMessage, 0, len(values))
	for i := len(values) - 1; i >= 0; i-- {
		frames = append(frames, json.RawMessage(values[i]))
	}
	return frames, nil
}

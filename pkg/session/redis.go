package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func sessionKey(sid string) string {
	return "session:" + sid
}

func (s *RedisStore) Save(ctx context.Context, sid string, id Identity, ttl time.Duration) error {
	key := sessionKey(sid)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			"role", string(id.Role),
			"id", id.ID,
			"username", id.Username,
		)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	return err
}

func (s *RedisStore) Load(ctx context.Context, sid string) (Identity, error) {
	fields, err := s.client.HGetAll(ctx, sessionKey(sid)).Result()
	if err != nil {
		return Identity{}, err
	}
	if len(fields) == 0 {
		return Identity{}, ErrNoSession
	}

	id, err := strconv.Atoi(fields["id"])
	if err != nil {
		return Identity{}, fmt.Errorf("corrupt session %s: %w", sid, err)
	}
	return Identity{
		Role:     Role(fields["role"]),
		ID:       id,
		Username: fields["username"],
	}, nil
}

func (s *RedisStore) Delete(ctx context.Context, sid string) error {
	return s.client.Del(ctx, sessionKey(sid)).Err()
}

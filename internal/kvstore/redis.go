package kvstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "prefcenter:"
	pingTimeout    = 5 * time.Second
)

// Redis stores one namespace as a hash at prefcenter:<namespace>.
type Redis struct {
	client *redis.Client
	key    string
}

var _ Store = (*Redis)(nil)

// OpenRedis connects to redisURL and verifies the connection.
func OpenRedis(ctx context.Context, redisURL, namespace string) (*Redis, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedis(client, namespace), nil
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client, namespace string) *Redis {
	return &Redis{client: client, key: redisKeyPrefix + namespace}
}

func (r *Redis) Bool(ctx context.Context, key string, def bool) (bool, error) {
	raw, ok, err := r.get(ctx, key)
	if err != nil || !ok {
		return def, err
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def, nil
	}
	return v, nil
}

func (r *Redis) String(ctx context.Context, key string, def string) (string, error) {
	raw, ok, err := r.get(ctx, key)
	if err != nil || !ok {
		return def, err
	}
	return raw, nil
}

func (r *Redis) Edit() Editor {
	return &batch{commit: r.commit}
}

// Clear removes the namespace hash.
func (r *Redis) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}

// Close releases the client.
func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) get(ctx context.Context, field string) (string, bool, error) {
	raw, err := r.client.HGet(ctx, r.key, field).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis hget %s: %w", field, err)
	}
	return raw, true, nil
}

func (r *Redis) commit(ctx context.Context, writes []write) error {
	values := make([]any, 0, len(writes)*2)
	for _, w := range writes {
		switch v := w.value.(type) {
		case bool:
			values = append(values, w.key, strconv.FormatBool(v))
		case string:
			values = append(values, w.key, v)
		}
	}
	if err := r.client.HSet(ctx, r.key, values...).Err(); err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

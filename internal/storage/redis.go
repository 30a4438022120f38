package storage

import (
	"context"
	"errors"
	"fmt"

	redis "github.com/redis/go-redis/v9"
)

// Redis stores each key as a plain string value.
type Redis struct {
	cli *redis.Client
}

// NewRedis connects using a redis:// URL.
func NewRedis(url string) (*Redis, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("storage: redis parse url: %w", err)
	}
	return &Redis{cli: redis.NewClient(opt)}, nil
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	v, err := r.cli.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return v, err
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.cli.Set(ctx, key, value, 0).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.cli.Del(ctx, key).Err()
}

// FetchStats reports the database size. Bytes is not tracked.
func (r *Redis) FetchStats(ctx context.Context) (Stats, error) {
	n, err := r.cli.DBSize(ctx).Result()
	if err != nil {
		return Stats{}, err
	}
	return Stats{Entries: n}, nil
}

func (r *Redis) Close() error { return r.cli.Close() }

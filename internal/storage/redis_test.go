package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func newRedisStore(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	r, err := NewRedis("redis://" + mr.Addr() + "/0")
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r, mr
}

func TestRedisStore(t *testing.T) {
	r, _ := newRedisStore(t)
	exerciseKV(t, r)
}

func TestRedisFetchStats(t *testing.T) {
	r, _ := newRedisStore(t)
	ctx := context.Background()
	_ = r.Set(ctx, "a", "1234")
	_ = r.Set(ctx, "b", "56")

	stats, err := r.FetchStats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Entries != 2 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestRedisErrorIsNotNotFound(t *testing.T) {
	r, mr := newRedisStore(t)
	mr.Close()

	_, err := r.Get(context.Background(), "games")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected a connection error distinct from ErrNotFound, got %v", err)
	}
}

func TestOpenRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	kv, err := Open("auto", "redis://"+mr.Addr())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	r, ok := kv.(*Redis)
	if !ok {
		t.Fatalf("expected redis backend, got %T", kv)
	}
	t.Cleanup(func() { _ = r.Close() })
	exerciseKV(t, kv)
}

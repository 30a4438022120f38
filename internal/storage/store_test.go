package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func newSQLiteStore(t *testing.T) *Store {
	t.Helper()
	db, err := New("sqlite", filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return NewStore(db)
}

func exerciseKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	if _, err := kv.Get(ctx, "games"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty store, got %v", err)
	}
	if err := kv.Set(ctx, "games", "[1]"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Set(ctx, "games", "[1,2]"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := kv.Get(ctx, "games")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "[1,2]" {
		t.Fatalf("expected overwritten value, got %q", got)
	}
	if err := kv.Delete(ctx, "games"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := kv.Get(ctx, "games"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := kv.Delete(ctx, "games"); err != nil {
		t.Fatalf("delete of missing key should succeed: %v", err)
	}
}

func TestSQLiteStore(t *testing.T) {
	exerciseKV(t, newSQLiteStore(t))
}

func TestMemoryStore(t *testing.T) {
	exerciseKV(t, NewMemory())
}

func TestFetchStats(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	_ = s.Set(ctx, "a", "1234")
	_ = s.Set(ctx, "b", "56")

	stats, err := s.FetchStats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Entries != 2 || stats.Bytes != 6 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestOpenDetectsDriver(t *testing.T) {
	kv, err := Open("auto", "memory")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := kv.(*Memory); !ok {
		t.Fatalf("expected memory backend, got %T", kv)
	}

	kv, err = Open("auto", filepath.Join(t.TempDir(), "nested", "kv.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if _, ok := kv.(*Store); !ok {
		t.Fatalf("expected gorm store, got %T", kv)
	}

	if _, err := Open("cassandra", ""); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestDetect(t *testing.T) {
	tests := map[string]string{
		"postgres://u@h/db": "postgres",
		"redis://h:6379/0":  "redis",
		"":                  "memory",
		"data/vibecade.db":  "sqlite",
		"file:x.db?_pragma": "sqlite",
	}
	for dsn, want := range tests {
		if got := detect(dsn); got != want {
			t.Fatalf("detect(%q) = %q, want %q", dsn, got, want)
		}
	}
}

package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a key has no value.
var ErrNotFound = errors.New("storage: key not found")

// KV is the durable single-key storage the game gallery is persisted in.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// StatsFetcher is implemented by every backend in this package.
type StatsFetcher interface {
	FetchStats(ctx context.Context) (Stats, error)
}

// Store wraps a gorm DB instance and implements KV on the kv_entries table.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new store helper from a gorm DB.
func NewStore(db *gorm.DB) *Store {
	if db == nil {
		return nil
	}
	return &Store{db: db}
}

// DB exposes the underlying gorm DB instance.
func (s *Store) DB() *gorm.DB {
	if s == nil {
		return nil
	}
	return s.db
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if s == nil {
		return "", ErrNotFound
	}
	var e Entry
	err := s.db.WithContext(ctx).First(&e, "name = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return e.Value, nil
}

// Set upserts the value for key in a single statement.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if s == nil {
		return errors.New("storage: nil store")
	}
	e := Entry{Name: key, Value: value}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if s == nil {
		return nil
	}
	return s.db.WithContext(ctx).Where("name = ?", key).Delete(&Entry{}).Error
}

// FetchStats aggregates counts for the health endpoint.
func (s *Store) FetchStats(ctx context.Context) (Stats, error) {
	var stats Stats
	if s == nil {
		return stats, nil
	}
	if err := s.db.WithContext(ctx).Model(&Entry{}).Count(&stats.Entries).Error; err != nil {
		return stats, err
	}
	row := s.db.WithContext(ctx).Model(&Entry{}).Select("COALESCE(SUM(LENGTH(value)), 0)").Row()
	if err := row.Scan(&stats.Bytes); err != nil {
		return stats, err
	}
	return stats, nil
}

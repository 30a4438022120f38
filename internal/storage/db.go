package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New initializes the database connection and performs migrations.
// driver is "postgres" or "sqlite".
func New(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		if err := ensureDir(dsn); err != nil {
			return nil, err
		}
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("storage: unsupported sql driver %q", driver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, err
	}
	return db, nil
}

// Open selects a KV backend for driver. "auto" picks postgres for postgres
// DSNs, redis for redis DSNs and sqlite otherwise.
func Open(driver, dsn string) (KV, error) {
	if driver == "" || driver == "auto" {
		driver = detect(dsn)
	}
	switch driver {
	case "memory":
		return NewMemory(), nil
	case "redis":
		return NewRedis(dsn)
	case "postgres", "sqlite":
		db, err := New(driver, dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open %s: %w", driver, err)
		}
		return NewStore(db), nil
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", driver)
	}
}

func detect(dsn string) string {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "postgres"
	case strings.HasPrefix(dsn, "redis://"), strings.HasPrefix(dsn, "rediss://"):
		return "redis"
	case dsn == "" || dsn == "memory":
		return "memory"
	default:
		return "sqlite"
	}
}

func ensureDir(dsn string) error {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || path == ":memory:" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

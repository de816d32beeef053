package migration

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteConfig holds SQLite-specific connection configuration.
type SQLiteConfig struct {
	// DSN is the database file path or connection string.
	DSN string

	// BusyTimeout sets how long to wait for database locks.
	BusyTimeout time.Duration

	// EnableForeignKeys enables foreign key constraint checking.
	EnableForeignKeys bool

	// MaxOpenConns limits concurrent connections. SQLite writes serialize on
	// a single file, so small values are appropriate.
	MaxOpenConns int
	MaxIdleConns int
}

// DefaultSQLiteConfig returns a configuration suitable for the scheduler.
func DefaultSQLiteConfig(dsn string) SQLiteConfig {
	return SQLiteConfig{
		DSN:               dsn,
		BusyTimeout:       5 * time.Second,
		EnableForeignKeys: true,
		MaxOpenConns:      4,
		MaxIdleConns:      2,
	}
}

// OpenDB opens and configures a database handle from the configuration.
// Pragmas travel in the DSN so that every pooled connection gets them.
func OpenDB(cfg SQLiteConfig) (*sql.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("migration: DSN is required")
	}

	db, err := sql.Open("sqlite", buildDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("migration: open database: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	maxIdle := cfg.MaxIdleConns
	// An in-memory database exists per connection, so the pool must not
	// grow beyond one.
	if strings.Contains(cfg.DSN, ":memory:") {
		maxOpen = 1
		maxIdle = 1
	}
	if maxOpen > 0 {
		db.SetMaxOpenConns(maxOpen)
	}
	if maxIdle > 0 {
		db.SetMaxIdleConns(maxIdle)
	}

	return db, nil
}

func buildDSN(cfg SQLiteConfig) string {
	params := make([]string, 0, 2)
	if cfg.EnableForeignKeys {
		params = append(params, "_pragma=foreign_keys(1)")
	}
	if cfg.BusyTimeout > 0 {
		params = append(params, fmt.Sprintf("_pragma=busy_timeout(%d)", cfg.BusyTimeout.Milliseconds()))
	}
	if len(params) == 0 {
		return cfg.DSN
	}

	sep := "?"
	if strings.Contains(cfg.DSN, "?") {
		sep = "&"
	}
	return cfg.DSN + sep + strings.Join(params, "&")
}

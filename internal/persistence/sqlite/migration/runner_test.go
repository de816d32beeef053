package migration

import (
	"context"
	"errors"
	"testing"
)

func testMigrations() []Migration {
	return []Migration{
		{
			Version:     "001",
			Description: "create widgets",
			SQL:         "CREATE TABLE widgets (id TEXT PRIMARY KEY, name TEXT NOT NULL)",
		},
		{
			Version:     "002",
			Description: "index widget names",
			SQL:         "CREATE INDEX idx_widgets_name ON widgets (name)",
		},
	}
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	t.Run("applies pending migrations in order", func(t *testing.T) {
		t.Parallel()

		db, err := OpenDB(DefaultSQLiteConfig(":memory:"))
		if err != nil {
			t.Fatalf("open database: %v", err)
		}
		defer db.Close()

		runner := NewRunner(db, testMigrations(), nil)
		if err := runner.Run(context.Background()); err != nil {
			t.Fatalf("run migrations: %v", err)
		}

		versions, err := runner.AppliedVersions(context.Background())
		if err != nil {
			t.Fatalf("applied versions: %v", err)
		}
		if len(versions) != 2 || versions[0] != "001" || versions[1] != "002" {
			t.Fatalf("unexpected applied versions: %v", versions)
		}

		if _, err := db.Exec("INSERT INTO widgets (id, name) VALUES ('w1', 'gear')"); err != nil {
			t.Fatalf("schema not usable after migration: %v", err)
		}
	})

	t.Run("running twice is a no-op", func(t *testing.T) {
		t.Parallel()

		db, err := OpenDB(DefaultSQLiteConfig(":memory:"))
		if err != nil {
			t.Fatalf("open database: %v", err)
		}
		defer db.Close()

		runner := NewRunner(db, testMigrations(), nil)
		if err := runner.Run(context.Background()); err != nil {
			t.Fatalf("first run: %v", err)
		}
		if err := runner.Run(context.Background()); err != nil {
			t.Fatalf("second run: %v", err)
		}
	})

	t.Run("rejects out-of-order versions", func(t *testing.T) {
		t.Parallel()

		db, err := OpenDB(DefaultSQLiteConfig(":memory:"))
		if err != nil {
			t.Fatalf("open database: %v", err)
		}
		defer db.Close()

		migrations := []Migration{
			{Version: "002", SQL: "CREATE TABLE a (id TEXT)"},
			{Version: "001", SQL: "CREATE TABLE b (id TEXT)"},
		}
		runner := NewRunner(db, migrations, nil)
		if err := runner.Run(context.Background()); !errors.Is(err, ErrOutOfOrder) {
			t.Fatalf("expected ErrOutOfOrder, got %v", err)
		}
	})

	t.Run("failed migration rolls back and reports its version", func(t *testing.T) {
		t.Parallel()

		db, err := OpenDB(DefaultSQLiteConfig(":memory:"))
		if err != nil {
			t.Fatalf("open database: %v", err)
		}
		defer db.Close()

		migrations := []Migration{
			{Version: "001", SQL: "CREATE TABLE a (id TEXT); NOT VALID SQL"},
		}
		runner := NewRunner(db, migrations, nil)

		err = runner.Run(context.Background())
		if err == nil {
			t.Fatal("expected migration failure")
		}
		var mErr *Error
		if !errors.As(err, &mErr) || mErr.Version != "001" {
			t.Fatalf("expected migration Error for version 001, got %v", err)
		}

		// The partial table from the failed migration must not exist.
		if _, execErr := db.Exec("INSERT INTO a (id) VALUES ('x')"); execErr == nil {
			t.Fatal("table from rolled-back migration should not exist")
		}
	})
}

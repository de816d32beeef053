package migration

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"
)

// Runner applies a static, ordered migration list against one database.
type Runner struct {
	db         *sql.DB
	migrations []Migration
	logger     *slog.Logger
}

// NewRunner constructs a runner for the provided migrations. The list must be
// sorted by strictly ascending version.
func NewRunner(db *sql.DB, migrations []Migration, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{db: db, migrations: migrations, logger: logger}
}

// Run applies every pending migration in order. Already applied versions are
// skipped; each pending migration executes in its own transaction and is
// recorded in schema_migrations on success.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.validateOrder(); err != nil {
		return err
	}
	if err := r.initializeVersionTable(ctx); err != nil {
		return err
	}

	applied, err := r.appliedVersions(ctx)
	if err != nil {
		return err
	}

	pending := 0
	for _, m := range r.migrations {
		if _, ok := applied[m.Version]; ok {
			continue
		}
		start := time.Now()
		if err := r.apply(ctx, m); err != nil {
			return err
		}
		if err := r.record(ctx, m.Version, time.Since(start)); err != nil {
			return err
		}
		r.logger.InfoContext(ctx, "migration applied",
			"version", m.Version,
			"description", m.Description,
			"duration", time.Since(start),
		)
		pending++
	}

	r.logger.InfoContext(ctx, "migrations up to date", "applied_now", pending, "total", len(r.migrations))
	return nil
}

// AppliedVersions lists the versions recorded in schema_migrations.
func (r *Runner) AppliedVersions(ctx context.Context) ([]string, error) {
	if err := r.initializeVersionTable(ctx); err != nil {
		return nil, err
	}
	applied, err := r.appliedVersions(ctx)
	if err != nil {
		return nil, err
	}
	versions := make([]string, 0, len(applied))
	for _, m := range r.migrations {
		if _, ok := applied[m.Version]; ok {
			versions = append(versions, m.Version)
		}
	}
	return versions, nil
}

func (r *Runner) validateOrder() error {
	for i := 1; i < len(r.migrations); i++ {
		if r.migrations[i-1].Version >= r.migrations[i].Version {
			return ErrOutOfOrder
		}
	}
	return nil
}

func (r *Runner) initializeVersionTable(ctx context.Context) error {
	const createTableSQL = `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
			execution_time_ms INTEGER
		)
	`
	if _, err := r.db.ExecContext(ctx, createTableSQL); err != nil {
		return newError("", "create schema_migrations table", err)
	}
	return nil
}

func (r *Runner) appliedVersions(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, newError("", "read applied versions", err)
	}
	defer rows.Close()

	applied := make(map[string]struct{})
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, newError("", "scan applied version", err)
		}
		applied[version] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, newError("", "iterate applied versions", err)
	}
	return applied, nil
}

func (r *Runner) apply(ctx context.Context, m Migration) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return newError(m.Version, "begin transaction", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.logger.ErrorContext(ctx, "migration rollback failed", "version", m.Version, "error", rbErr)
			}
		}
	}()

	for _, stmt := range splitStatements(m.SQL) {
		if _, execErr := tx.ExecContext(ctx, stmt); execErr != nil {
			err = newError(m.Version, "execute statement", execErr)
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		err = newError(m.Version, "commit transaction", err)
	}
	return err
}

func (r *Runner) record(ctx context.Context, version string, elapsed time.Duration) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, applied_at, execution_time_ms) VALUES (?, ?, ?)",
		version, time.Now().UTC().Format(time.RFC3339), elapsed.Milliseconds(),
	)
	if err != nil {
		return newError(version, "record migration", err)
	}
	return nil
}

func splitStatements(script string) []string {
	parts := strings.Split(script, ";")
	statements := make([]string, 0, len(parts))
	for _, part := range parts {
		if stmt := strings.TrimSpace(part); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}

package testfixtures

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/course-scheduler/internal/persistence"
	"github.com/example/course-scheduler/internal/persistence/sqlite"
	"github.com/example/course-scheduler/internal/persistence/sqlite/migration"
)

// SQLiteHarness provides repository access backed by a temporary SQLite
// database for integration-style persistence tests.
type SQLiteHarness struct {
	Courses     persistence.CourseRepository
	Occurrences persistence.OccurrenceRepository
	Rooms       persistence.RoomRepository
	Teachers    persistence.TeacherRepository
	Subjects    persistence.SubjectRepository
	Holidays    persistence.HolidayRepository
	Users       persistence.UserRepository
	Sessions    persistence.SessionRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness using a temporary file that is
// migrated automatically. Callers may optionally invoke Close, but the helper
// also registers a cleanup callback with the provided testing.TB.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	dir := tb.TempDir()
	path := filepath.Join(dir, "courses.db")

	store, err := sqlite.Open(migration.SQLiteConfig{
		DSN:               path,
		BusyTimeout:       5 * time.Second,
		EnableForeignKeys: true,
		MaxOpenConns:      1,
		MaxIdleConns:      1,
	}, nil)
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	harness := &SQLiteHarness{
		Courses:     store.Courses,
		Occurrences: store.Occurrences,
		Rooms:       store.Rooms,
		Teachers:    store.Teachers,
		Subjects:    store.Subjects,
		Holidays:    store.Holidays,
		Users:       store.Users,
		Sessions:    store.Sessions,
		cleanup: func() {
			_ = store.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}

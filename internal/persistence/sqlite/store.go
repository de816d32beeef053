package sqlite

import (
	"context"
	"log/slog"

	"github.com/example/course-scheduler/internal/persistence/sqlite/migration"
)

// Store bundles the SQLite-backed repositories over one connection pool.
type Store struct {
	pool   *ConnectionPool
	logger *slog.Logger

	Courses     *CourseRepository
	Occurrences *OccurrenceRepository
	Rooms       *RoomRepository
	Teachers    *TeacherRepository
	Subjects    *SubjectRepository
	Holidays    *HolidayRepository
	Users       *UserRepository
	Sessions    *SessionRepository
}

// Open opens the database described by config and wires every repository
// over a shared pool. Call Migrate before first use.
func Open(config migration.SQLiteConfig, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	pool, err := NewConnectionPool(config)
	if err != nil {
		return nil, err
	}

	return &Store{
		pool:        pool,
		logger:      logger,
		Courses:     NewCourseRepository(pool),
		Occurrences: NewOccurrenceRepository(pool),
		Rooms:       NewRoomRepository(pool),
		Teachers:    NewTeacherRepository(pool),
		Subjects:    NewSubjectRepository(pool),
		Holidays:    NewHolidayRepository(pool),
		Users:       NewUserRepository(pool),
		Sessions:    NewSessionRepository(pool),
	}, nil
}

// Migrate brings the schema up to date.
func (s *Store) Migrate(ctx context.Context) error {
	return migration.NewRunner(s.pool.DB(), SchemaMigrations(), s.logger).Run(ctx)
}

// Ping tests the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.pool.Close()
}

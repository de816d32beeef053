package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/course-scheduler/internal/persistence"
)

// CourseRepository implements persistence.CourseRepository using SQLite.
type CourseRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewCourseRepository creates a new SQLite course repository.
func NewCourseRepository(pool *ConnectionPool) *CourseRepository {
	return &CourseRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const courseColumns = `id, name, subject_id, teacher_id, room_id, start_time, duration_minutes,
	is_recurring, pattern_json, recurrence_end_date, exclude_holidays, recurrence_id,
	description, created_at, updated_at`

// CreateCourse inserts the course definition and its occurrence batch in one
// transaction.
func (r *CourseRepository) CreateCourse(ctx context.Context, course persistence.Course, occurrences []persistence.Occurrence) error {
	if course.ID == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := r.insertCourse(tx, course); err != nil {
			return err
		}
		return r.insertOccurrences(tx, course.ID, occurrences, now)
	})
}

// ReplaceCourse rewrites the definition and regenerates its occurrences in
// one transaction, keeping the course id stable.
func (r *CourseRepository) ReplaceCourse(ctx context.Context, course persistence.Course, occurrences []persistence.Occurrence) error {
	if course.ID == "" {
		return persistence.ErrNotFound
	}

	now := time.Now().UTC()
	course.UpdatedAt = now

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		var createdAtStr string
		err := tx.QueryRow("SELECT created_at FROM courses WHERE id = ?", course.ID).Scan(&createdAtStr)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return persistence.ErrNotFound
			}
			return r.mapper.MapError(err)
		}

		query := `
			UPDATE courses
			SET name = ?, subject_id = ?, teacher_id = ?, room_id = ?, start_time = ?,
				duration_minutes = ?, is_recurring = ?, pattern_json = ?,
				recurrence_end_date = ?, exclude_holidays = ?, recurrence_id = ?,
				description = ?, updated_at = ?
			WHERE id = ?
		`
		_, err = r.helper.ExecTx(tx, query,
			course.Name,
			course.SubjectID,
			course.TeacherID,
			course.RoomID,
			course.StartTime.UTC().Format(time.RFC3339),
			course.DurationMinutes,
			course.IsRecurring,
			nullString(course.PatternJSON),
			nullTime(course.RecurrenceEndDate),
			course.ExcludeHolidays,
			nullString(course.RecurrenceID),
			nullString(course.Description),
			course.UpdatedAt.Format(time.RFC3339),
			course.ID,
		)
		if err != nil {
			return r.mapper.MapError(err)
		}

		if _, err := r.helper.ExecTx(tx, "DELETE FROM occurrences WHERE course_id = ?", course.ID); err != nil {
			return r.mapper.MapError(err)
		}

		return r.insertOccurrences(tx, course.ID, occurrences, now)
	})
}

// GetCourse retrieves a course definition by id.
func (r *CourseRepository) GetCourse(ctx context.Context, id string) (persistence.Course, error) {
	if id == "" {
		return persistence.Course{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx, "SELECT "+courseColumns+" FROM courses WHERE id = ?", id)
	course, err := scanCourse(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Course{}, persistence.ErrNotFound
		}
		return persistence.Course{}, r.mapper.MapError(err)
	}
	return course, nil
}

// ListCourses lists every course definition ordered by start time.
func (r *CourseRepository) ListCourses(ctx context.Context) ([]persistence.Course, error) {
	rows, err := r.helper.Query(ctx, "SELECT "+courseColumns+" FROM courses ORDER BY start_time ASC, id ASC")
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var courses []persistence.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return courses, nil
}

// DeleteCourse removes the definition; occurrences follow through the
// ON DELETE CASCADE foreign key.
func (r *CourseRepository) DeleteCourse(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := r.helper.ExecTx(tx, "DELETE FROM courses WHERE id = ?", id)
		if err != nil {
			return r.mapper.MapError(err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return persistence.ErrNotFound
		}
		return nil
	})
}

// DeleteCourseWithSeries counts the occurrences belonging to the course and
// removes the definition in a single transaction. The ON DELETE CASCADE
// foreign key drops every counted occurrence together with the course row,
// so a failure leaves both tables untouched.
func (r *CourseRepository) DeleteCourseWithSeries(ctx context.Context, id string) (int, error) {
	if id == "" {
		return 0, persistence.ErrNotFound
	}

	var deleted int
	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := tx.QueryRow("SELECT COUNT(*) FROM occurrences WHERE course_id = ?", id).Scan(&deleted); err != nil {
			return r.mapper.MapError(err)
		}

		result, err := r.helper.ExecTx(tx, "DELETE FROM courses WHERE id = ?", id)
		if err != nil {
			return r.mapper.MapError(err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return persistence.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

func (r *CourseRepository) insertCourse(tx *sql.Tx, course persistence.Course) error {
	query := `
		INSERT INTO courses (` + courseColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.helper.ExecTx(tx, query,
		course.ID,
		course.Name,
		course.SubjectID,
		course.TeacherID,
		course.RoomID,
		course.StartTime.UTC().Format(time.RFC3339),
		course.DurationMinutes,
		course.IsRecurring,
		nullString(course.PatternJSON),
		nullTime(course.RecurrenceEndDate),
		course.ExcludeHolidays,
		nullString(course.RecurrenceID),
		nullString(course.Description),
		course.CreatedAt.Format(time.RFC3339),
		course.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

func (r *CourseRepository) insertOccurrences(tx *sql.Tx, courseID string, occurrences []persistence.Occurrence, createdAt time.Time) error {
	query := `
		INSERT INTO occurrences (id, course_id, recurrence_id, room_id, teacher_id, start_time, end_time, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, occ := range occurrences {
		_, err := r.helper.ExecTx(tx, query,
			occ.ID,
			courseID,
			nullString(occ.RecurrenceID),
			occ.RoomID,
			occ.TeacherID,
			occ.Start.UTC().Format(time.RFC3339),
			occ.End.UTC().Format(time.RFC3339),
			createdAt.Format(time.RFC3339),
		)
		if err != nil {
			return r.mapper.MapError(err)
		}
	}
	return nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCourse(row rowScanner) (persistence.Course, error) {
	var course persistence.Course
	var startTimeStr, createdAtStr, updatedAtStr string
	var patternJSON, recurrenceEndDate, recurrenceID, description sql.NullString

	err := row.Scan(
		&course.ID,
		&course.Name,
		&course.SubjectID,
		&course.TeacherID,
		&course.RoomID,
		&startTimeStr,
		&course.DurationMinutes,
		&course.IsRecurring,
		&patternJSON,
		&recurrenceEndDate,
		&course.ExcludeHolidays,
		&recurrenceID,
		&description,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return persistence.Course{}, err
	}

	if patternJSON.Valid {
		course.PatternJSON = &patternJSON.String
	}
	if recurrenceID.Valid {
		course.RecurrenceID = &recurrenceID.String
	}
	if description.Valid {
		course.Description = &description.String
	}
	if recurrenceEndDate.Valid {
		endDate, err := time.Parse(time.RFC3339, recurrenceEndDate.String)
		if err != nil {
			return persistence.Course{}, fmt.Errorf("failed to parse recurrence_end_date: %w", err)
		}
		course.RecurrenceEndDate = &endDate
	}

	if course.StartTime, err = time.Parse(time.RFC3339, startTimeStr); err != nil {
		return persistence.Course{}, fmt.Errorf("failed to parse start_time: %w", err)
	}
	if course.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.Course{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if course.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.Course{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return course, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339), Valid: true}
}

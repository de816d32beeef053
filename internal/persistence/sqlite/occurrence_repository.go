package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/course-scheduler/internal/persistence"
)

// OccurrenceRepository implements persistence.OccurrenceRepository using
// SQLite. Course names are joined in from the courses table so that callers
// get presentation-ready rows.
type OccurrenceRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewOccurrenceRepository creates a new SQLite occurrence repository.
func NewOccurrenceRepository(pool *ConnectionPool) *OccurrenceRepository {
	return &OccurrenceRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const occurrenceColumns = `o.id, o.course_id, c.name, o.recurrence_id, o.room_id, o.teacher_id,
	o.start_time, o.end_time, o.created_at`

const occurrenceBaseQuery = `
	SELECT ` + occurrenceColumns + `
	FROM occurrences o
	JOIN courses c ON c.id = o.course_id
`

// GetOccurrence retrieves one occurrence by id.
func (r *OccurrenceRepository) GetOccurrence(ctx context.Context, id string) (persistence.Occurrence, error) {
	if id == "" {
		return persistence.Occurrence{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx, occurrenceBaseQuery+" WHERE o.id = ?", id)
	occ, err := scanOccurrence(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Occurrence{}, persistence.ErrNotFound
		}
		return persistence.Occurrence{}, r.mapper.MapError(err)
	}
	return occ, nil
}

// ListOccurrences lists occurrences matching the filter, ordered by start
// time then id.
func (r *OccurrenceRepository) ListOccurrences(ctx context.Context, filter persistence.OccurrenceFilter) ([]persistence.Occurrence, error) {
	query, args := buildOccurrenceQuery(filter)

	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var occurrences []persistence.Occurrence
	for rows.Next() {
		occ, err := scanOccurrence(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		occurrences = append(occurrences, occ)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return occurrences, nil
}

// DeleteOccurrences removes the identified occurrences in one transaction.
// A missing id rolls the whole batch back with ErrNotFound.
func (r *OccurrenceRepository) DeleteOccurrences(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, id := range ids {
			result, err := r.helper.ExecTx(tx, "DELETE FROM occurrences WHERE id = ?", id)
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
		}
		return nil
	})
}

// DeleteSeries removes every occurrence sharing the recurrence id and
// reports how many rows were removed.
func (r *OccurrenceRepository) DeleteSeries(ctx context.Context, recurrenceID string) (int, error) {
	if recurrenceID == "" {
		return 0, persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, "DELETE FROM occurrences WHERE recurrence_id = ?", recurrenceID)
	if err != nil {
		return 0, r.mapper.MapError(err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(rowsAffected), nil
}

func buildOccurrenceQuery(filter persistence.OccurrenceFilter) (string, []interface{}) {
	query := occurrenceBaseQuery

	var conditions []string
	var args []interface{}

	if filter.RoomID != nil {
		conditions = append(conditions, "o.room_id = ?")
		args = append(args, *filter.RoomID)
	}
	if filter.TeacherID != nil {
		conditions = append(conditions, "o.teacher_id = ?")
		args = append(args, *filter.TeacherID)
	}
	if filter.RecurrenceID != nil {
		conditions = append(conditions, "o.recurrence_id = ?")
		args = append(args, *filter.RecurrenceID)
	}
	if filter.CourseID != nil {
		conditions = append(conditions, "o.course_id = ?")
		args = append(args, *filter.CourseID)
	}

	// Overlap with the half-open window [From, To).
	if filter.From != nil {
		conditions = append(conditions, "o.end_time > ?")
		args = append(args, filter.From.UTC().Format(time.RFC3339))
	}
	if filter.To != nil {
		conditions = append(conditions, "o.start_time < ?")
		args = append(args, filter.To.UTC().Format(time.RFC3339))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY o.start_time ASC, o.id ASC"

	return query, args
}

func scanOccurrence(row rowScanner) (persistence.Occurrence, error) {
	var occ persistence.Occurrence
	var startStr, endStr, createdAtStr string
	var recurrenceID sql.NullString

	err := row.Scan(
		&occ.ID,
		&occ.CourseID,
		&occ.CourseName,
		&recurrenceID,
		&occ.RoomID,
		&occ.TeacherID,
		&startStr,
		&endStr,
		&createdAtStr,
	)
	if err != nil {
		return persistence.Occurrence{}, err
	}

	if recurrenceID.Valid {
		occ.RecurrenceID = &recurrenceID.String
	}

	if occ.Start, err = time.Parse(time.RFC3339, startStr); err != nil {
		return persistence.Occurrence{}, fmt.Errorf("failed to parse start_time: %w", err)
	}
	if occ.End, err = time.Parse(time.RFC3339, endStr); err != nil {
		return persistence.Occurrence{}, fmt.Errorf("failed to parse end_time: %w", err)
	}
	if occ.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.Occurrence{}, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return occ, nil
}

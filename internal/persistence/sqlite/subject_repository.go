package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/course-scheduler/internal/persistence"
)

// SubjectRepository implements persistence.SubjectRepository using SQLite.
type SubjectRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewSubjectRepository creates a new SQLite subject repository.
func NewSubjectRepository(pool *ConnectionPool) *SubjectRepository {
	return &SubjectRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateSubject inserts a new subject.
func (r *SubjectRepository) CreateSubject(ctx context.Context, subject persistence.Subject) error {
	if subject.ID == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	_, err := r.helper.Exec(ctx,
		"INSERT INTO subjects (id, name, code, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		subject.ID, subject.Name, subject.Code,
		now.Format(time.RFC3339), now.Format(time.RFC3339),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

// UpdateSubject updates an existing subject.
func (r *SubjectRepository) UpdateSubject(ctx context.Context, subject persistence.Subject) error {
	if subject.ID == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx,
		"UPDATE subjects SET name = ?, code = ?, updated_at = ? WHERE id = ?",
		subject.Name, subject.Code, time.Now().UTC().Format(time.RFC3339), subject.ID,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireAffected(result)
}

// GetSubject retrieves a subject by id.
func (r *SubjectRepository) GetSubject(ctx context.Context, id string) (persistence.Subject, error) {
	if id == "" {
		return persistence.Subject{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx,
		"SELECT id, name, code, created_at, updated_at FROM subjects WHERE id = ?", id)
	subject, err := scanSubject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Subject{}, persistence.ErrNotFound
		}
		return persistence.Subject{}, r.mapper.MapError(err)
	}
	return subject, nil
}

// ListSubjects lists all subjects ordered by name.
func (r *SubjectRepository) ListSubjects(ctx context.Context) ([]persistence.Subject, error) {
	rows, err := r.helper.Query(ctx,
		"SELECT id, name, code, created_at, updated_at FROM subjects ORDER BY name ASC")
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var subjects []persistence.Subject
	for rows.Next() {
		subject, err := scanSubject(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		subjects = append(subjects, subject)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return subjects, nil
}

// DeleteSubject removes a subject by id.
func (r *SubjectRepository) DeleteSubject(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, "DELETE FROM subjects WHERE id = ?", id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireAffected(result)
}

func scanSubject(row rowScanner) (persistence.Subject, error) {
	var subject persistence.Subject
	var createdAtStr, updatedAtStr string

	err := row.Scan(&subject.ID, &subject.Name, &subject.Code, &createdAtStr, &updatedAtStr)
	if err != nil {
		return persistence.Subject{}, err
	}

	if subject.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.Subject{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if subject.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.Subject{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return subject, nil
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/course-scheduler/internal/persistence"
)

// TeacherRepository implements persistence.TeacherRepository using SQLite.
type TeacherRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewTeacherRepository creates a new SQLite teacher repository.
func NewTeacherRepository(pool *ConnectionPool) *TeacherRepository {
	return &TeacherRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateTeacher inserts a new teacher.
func (r *TeacherRepository) CreateTeacher(ctx context.Context, teacher persistence.Teacher) error {
	if teacher.ID == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	_, err := r.helper.Exec(ctx,
		"INSERT INTO teachers (id, name, email, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		teacher.ID, teacher.Name, teacher.Email,
		now.Format(time.RFC3339), now.Format(time.RFC3339),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

// UpdateTeacher updates an existing teacher.
func (r *TeacherRepository) UpdateTeacher(ctx context.Context, teacher persistence.Teacher) error {
	if teacher.ID == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx,
		"UPDATE teachers SET name = ?, email = ?, updated_at = ? WHERE id = ?",
		teacher.Name, teacher.Email, time.Now().UTC().Format(time.RFC3339), teacher.ID,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireAffected(result)
}

// GetTeacher retrieves a teacher by id.
func (r *TeacherRepository) GetTeacher(ctx context.Context, id string) (persistence.Teacher, error) {
	if id == "" {
		return persistence.Teacher{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx,
		"SELECT id, name, email, created_at, updated_at FROM teachers WHERE id = ?", id)
	teacher, err := scanTeacher(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Teacher{}, persistence.ErrNotFound
		}
		return persistence.Teacher{}, r.mapper.MapError(err)
	}
	return teacher, nil
}

// ListTeachers lists all teachers ordered by name.
func (r *TeacherRepository) ListTeachers(ctx context.Context) ([]persistence.Teacher, error) {
	rows, err := r.helper.Query(ctx,
		"SELECT id, name, email, created_at, updated_at FROM teachers ORDER BY name ASC")
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var teachers []persistence.Teacher
	for rows.Next() {
		teacher, err := scanTeacher(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		teachers = append(teachers, teacher)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return teachers, nil
}

// DeleteTeacher removes a teacher by id.
func (r *TeacherRepository) DeleteTeacher(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, "DELETE FROM teachers WHERE id = ?", id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireAffected(result)
}

func scanTeacher(row rowScanner) (persistence.Teacher, error) {
	var teacher persistence.Teacher
	var createdAtStr, updatedAtStr string

	err := row.Scan(&teacher.ID, &teacher.Name, &teacher.Email, &createdAtStr, &updatedAtStr)
	if err != nil {
		return persistence.Teacher{}, err
	}

	if teacher.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.Teacher{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if teacher.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.Teacher{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return teacher, nil
}

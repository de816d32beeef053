package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/course-scheduler/internal/persistence"
)

// UserRepository implements persistence.UserRepository using SQLite.
type UserRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewUserRepository creates a new SQLite user repository.
func NewUserRepository(pool *ConnectionPool) *UserRepository {
	return &UserRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const userColumns = `id, email, display_name, is_admin, teacher_id, password_hash, disabled,
	failed_attempts, last_failed_at, created_at, updated_at`

// CreateUser inserts a new user. Duplicate emails fail with ErrDuplicate.
func (r *UserRepository) CreateUser(ctx context.Context, user persistence.User) error {
	if user.ID == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.helper.Exec(ctx, query,
		user.ID,
		user.Email,
		user.DisplayName,
		user.IsAdmin,
		nullString(user.TeacherID),
		user.PasswordHash,
		user.Disabled,
		user.FailedAttempts,
		nullTime(user.LastFailedAt),
		now.Format(time.RFC3339),
		now.Format(time.RFC3339),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

// UpdateUser updates an existing user.
func (r *UserRepository) UpdateUser(ctx context.Context, user persistence.User) error {
	if user.ID == "" {
		return persistence.ErrNotFound
	}

	query := `
		UPDATE users
		SET email = ?, display_name = ?, is_admin = ?, teacher_id = ?, password_hash = ?, disabled = ?,
			failed_attempts = ?, last_failed_at = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.helper.Exec(ctx, query,
		user.Email,
		user.DisplayName,
		user.IsAdmin,
		nullString(user.TeacherID),
		user.PasswordHash,
		user.Disabled,
		user.FailedAttempts,
		nullTime(user.LastFailedAt),
		time.Now().UTC().Format(time.RFC3339),
		user.ID,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireAffected(result)
}

// GetUser retrieves a user by id.
func (r *UserRepository) GetUser(ctx context.Context, id string) (persistence.User, error) {
	if id == "" {
		return persistence.User{}, persistence.ErrNotFound
	}
	return r.getUserWhere(ctx, "id = ?", id)
}

// GetUserByEmail retrieves a user by email.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (persistence.User, error) {
	if email == "" {
		return persistence.User{}, persistence.ErrNotFound
	}
	return r.getUserWhere(ctx, "email = ?", email)
}

// ListUsers lists all users ordered by email.
func (r *UserRepository) ListUsers(ctx context.Context) ([]persistence.User, error) {
	rows, err := r.helper.Query(ctx, "SELECT "+userColumns+" FROM users ORDER BY email ASC")
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var users []persistence.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return users, nil
}

// DeleteUser removes a user by id; sessions cascade.
func (r *UserRepository) DeleteUser(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireAffected(result)
}

func (r *UserRepository) getUserWhere(ctx context.Context, condition string, arg interface{}) (persistence.User, error) {
	row := r.helper.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE "+condition, arg)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.User{}, persistence.ErrNotFound
		}
		return persistence.User{}, r.mapper.MapError(err)
	}
	return user, nil
}

func scanUser(row rowScanner) (persistence.User, error) {
	var user persistence.User
	var createdAtStr, updatedAtStr string
	var teacherID, lastFailedAt sql.NullString

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&user.IsAdmin,
		&teacherID,
		&user.PasswordHash,
		&user.Disabled,
		&user.FailedAttempts,
		&lastFailedAt,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return persistence.User{}, err
	}

	if teacherID.Valid {
		user.TeacherID = &teacherID.String
	}
	if lastFailedAt.Valid {
		t, err := time.Parse(time.RFC3339, lastFailedAt.String)
		if err != nil {
			return persistence.User{}, fmt.Errorf("failed to parse last_failed_at: %w", err)
		}
		user.LastFailedAt = &t
	}

	if user.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.User{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if user.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.User{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return user, nil
}

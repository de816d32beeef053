package application

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"time"
)

// UserRepository captures the persistence operations needed by the user service.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) (User, error)
	GetUser(ctx context.Context, id string) (User, error)
	UpdateUser(ctx context.Context, user User) (User, error)
	DeleteUser(ctx context.Context, id string) error
	ListUsers(ctx context.Context) ([]User, error)
}

// UserService manages staff accounts for the school. Accounts may be linked
// to an entry in the teacher directory so a teaching staff member shows up in
// both places under one identity. The service refuses changes that would
// leave the school without an administrator.
type UserService struct {
	users       UserRepository
	teachers    TeacherDirectory
	idGenerator func() string
	now         func() time.Time
}

// NewUserService wires dependencies for the user service. The teacher
// directory may be nil, in which case teacher links are accepted unchecked.
func NewUserService(users UserRepository, teachers TeacherDirectory, idGenerator func() string, now func() time.Time) *UserService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &UserService{users: users, teachers: teachers, idGenerator: idGenerator, now: now}
}

// CreateUser validates input and persists a new staff account for
// administrators.
func (s *UserService) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("UserService is nil")
	}
	if !params.Principal.IsAdmin {
		return User{}, ErrUnauthorized
	}

	normalized := normalizeUserInput(params.Input)
	vErr := validateUserInput(normalized)
	if vErr.HasErrors() {
		return User{}, vErr
	}
	if err := s.checkTeacherLink(ctx, normalized.TeacherID); err != nil {
		return User{}, err
	}

	user := User{
		ID:          s.idGenerator(),
		Email:       normalized.Email,
		DisplayName: normalized.DisplayName,
		IsAdmin:     normalized.IsAdmin,
		TeacherID:   normalized.TeacherID,
		CreatedAt:   s.now(),
	}
	user.UpdatedAt = user.CreatedAt

	if s.users == nil {
		return user, nil
	}

	persisted, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return User{}, err
	}

	return persisted, nil
}

// UpdateUser validates input and updates an existing staff account for
// administrators. Demoting the last remaining administrator is refused.
func (s *UserService) UpdateUser(ctx context.Context, params UpdateUserParams) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("UserService is nil")
	}
	if !params.Principal.IsAdmin {
		return User{}, ErrUnauthorized
	}
	if s.users == nil {
		return User{}, fmt.Errorf("user repository not configured")
	}

	existing, err := s.users.GetUser(ctx, params.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}

	normalized := normalizeUserInput(params.Input)
	vErr := validateUserInput(normalized)
	if vErr.HasErrors() {
		return User{}, vErr
	}
	if err := s.checkTeacherLink(ctx, normalized.TeacherID); err != nil {
		return User{}, err
	}

	if existing.IsAdmin && !normalized.IsAdmin {
		sole, err := s.isSoleAdmin(ctx, existing.ID)
		if err != nil {
			return User{}, err
		}
		if sole {
			vErr := &ValidationError{}
			vErr.add("is_admin", "the school must keep at least one administrator")
			return User{}, vErr
		}
	}

	updated := existing
	updated.Email = normalized.Email
	updated.DisplayName = normalized.DisplayName
	updated.IsAdmin = normalized.IsAdmin
	updated.TeacherID = normalized.TeacherID
	updated.UpdatedAt = s.now()

	persisted, err := s.users.UpdateUser(ctx, updated)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}

	return persisted, nil
}

// DeleteUser removes a staff account when requested by an administrator.
// Administrators cannot delete their own account, and the last remaining
// administrator cannot be deleted at all.
func (s *UserService) DeleteUser(ctx context.Context, principal Principal, userID string) error {
	if s == nil {
		return fmt.Errorf("UserService is nil")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}
	if s.users == nil {
		return fmt.Errorf("user repository not configured")
	}

	if principal.UserID != "" && principal.UserID == userID {
		vErr := &ValidationError{}
		vErr.add("user_id", "administrators cannot delete their own account")
		return vErr
	}

	target, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if target.IsAdmin {
		sole, err := s.isSoleAdmin(ctx, target.ID)
		if err != nil {
			return err
		}
		if sole {
			vErr := &ValidationError{}
			vErr.add("user_id", "the school must keep at least one administrator")
			return vErr
		}
	}

	if err := s.users.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	return nil
}

// ListUsers returns all staff accounts for administrators, ordered by email.
func (s *UserService) ListUsers(ctx context.Context, principal Principal) ([]User, error) {
	if s == nil {
		return nil, fmt.Errorf("UserService is nil")
	}
	if !principal.IsAdmin {
		return nil, ErrUnauthorized
	}
	if s.users == nil {
		return nil, nil
	}

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]User, len(users))
	copy(out, users)

	sort.Slice(out, func(i, j int) bool {
		if strings.EqualFold(out[i].Email, out[j].Email) {
			return out[i].ID < out[j].ID
		}
		return strings.ToLower(out[i].Email) < strings.ToLower(out[j].Email)
	})

	return out, nil
}

// checkTeacherLink verifies the linked teacher exists in the directory.
func (s *UserService) checkTeacherLink(ctx context.Context, teacherID *string) error {
	if teacherID == nil || s.teachers == nil {
		return nil
	}
	exists, err := s.teachers.TeacherExists(ctx, *teacherID)
	if err != nil {
		return err
	}
	if !exists {
		vErr := &ValidationError{}
		vErr.add("teacher_id", "teacher is not in the directory")
		return vErr
	}
	return nil
}

// isSoleAdmin reports whether no administrator other than userID remains.
func (s *UserService) isSoleAdmin(ctx context.Context, userID string) (bool, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return false, err
	}
	for _, user := range users {
		if user.IsAdmin && user.ID != userID {
			return false, nil
		}
	}
	return true, nil
}

func normalizeUserInput(input UserInput) UserInput {
	email := strings.TrimSpace(input.Email)
	email = strings.ToLower(email)

	displayName := strings.TrimSpace(input.DisplayName)

	var teacherID *string
	if input.TeacherID != nil {
		if trimmed := strings.TrimSpace(*input.TeacherID); trimmed != "" {
			teacherID = &trimmed
		}
	}

	return UserInput{
		Email:       email,
		DisplayName: displayName,
		IsAdmin:     input.IsAdmin,
		TeacherID:   teacherID,
	}
}

func validateUserInput(input UserInput) *ValidationError {
	vErr := &ValidationError{}

	if input.Email == "" {
		vErr.add("email", "email is required")
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		vErr.add("email", "email is invalid")
	}

	if input.DisplayName == "" {
		vErr.add("display_name", "display name is required")
	}

	return vErr
}

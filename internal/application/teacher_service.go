package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/example/course-scheduler/internal/persistence"
)

// TeacherRepository captures the persistence operations needed by the service.
type TeacherRepository interface {
	CreateTeacher(ctx context.Context, teacher Teacher) (Teacher, error)
	GetTeacher(ctx context.Context, id string) (Teacher, error)
	UpdateTeacher(ctx context.Context, teacher Teacher) (Teacher, error)
	DeleteTeacher(ctx context.Context, id string) error
	ListTeachers(ctx context.Context) ([]Teacher, error)
}

// TeacherService orchestrates validation, authorization, and persistence for teachers.
type TeacherService struct {
	teachers    TeacherRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewTeacherService constructs a teacher service with the provided dependencies.
func NewTeacherService(teachers TeacherRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *TeacherService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &TeacherService{teachers: teachers, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *TeacherService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "TeacherService", operation, attrs...)
}

// CreateTeacher validates input and persists a new teacher for administrators.
func (s *TeacherService) CreateTeacher(ctx context.Context, params CreateTeacherParams) (teacher Teacher, err error) {
	if s == nil {
		err = fmt.Errorf("TeacherService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateTeacher",
		"principal_id", params.Principal.UserID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create teacher", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("teacher_id", teacher.ID).InfoContext(ctx, "teacher created")
	}()

	if !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	normalized := normalizeTeacherInput(params.Input)
	vErr := validateTeacherInput(normalized)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	teacher = Teacher{
		ID:        s.idGenerator(),
		Name:      normalized.Name,
		Email:     normalized.Email,
		CreatedAt: s.now(),
	}
	teacher.UpdatedAt = teacher.CreatedAt

	if s.teachers == nil {
		return
	}

	var persisted Teacher
	persisted, err = s.teachers.CreateTeacher(ctx, teacher)
	if err != nil {
		err = mapTeacherRepoError(err)
		return
	}

	teacher = persisted
	return
}

// UpdateTeacher validates input and updates an existing teacher for administrators.
func (s *TeacherService) UpdateTeacher(ctx context.Context, params UpdateTeacherParams) (teacher Teacher, err error) {
	if s == nil {
		err = fmt.Errorf("TeacherService is nil")
		return
	}
	if !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}
	if s.teachers == nil {
		err = fmt.Errorf("teacher repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateTeacher",
		"principal_id", params.Principal.UserID,
		"teacher_id", params.TeacherID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update teacher", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("teacher_id", teacher.ID).InfoContext(ctx, "teacher updated")
	}()

	var existing Teacher
	existing, err = s.teachers.GetTeacher(ctx, params.TeacherID)
	if err != nil {
		err = mapTeacherRepoError(err)
		return
	}

	normalized := normalizeTeacherInput(params.Input)
	vErr := validateTeacherInput(normalized)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	updated := existing
	updated.Name = normalized.Name
	updated.Email = normalized.Email
	updated.UpdatedAt = s.now()

	teacher, err = s.teachers.UpdateTeacher(ctx, updated)
	if err != nil {
		err = mapTeacherRepoError(err)
		return
	}

	return
}

// GetTeacher returns one teacher for any authenticated user.
func (s *TeacherService) GetTeacher(ctx context.Context, principal Principal, teacherID string) (Teacher, error) {
	if s == nil {
		return Teacher{}, fmt.Errorf("TeacherService is nil")
	}
	if s.teachers == nil {
		return Teacher{}, fmt.Errorf("teacher repository not configured")
	}

	teacher, err := s.teachers.GetTeacher(ctx, teacherID)
	if err != nil {
		return Teacher{}, mapTeacherRepoError(err)
	}
	return teacher, nil
}

// DeleteTeacher removes an existing teacher when requested by an administrator.
func (s *TeacherService) DeleteTeacher(ctx context.Context, principal Principal, teacherID string) error {
	if s == nil {
		return fmt.Errorf("TeacherService is nil")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}
	if s.teachers == nil {
		return fmt.Errorf("teacher repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteTeacher",
		"principal_id", principal.UserID,
		"teacher_id", teacherID,
	)

	if err := s.teachers.DeleteTeacher(ctx, teacherID); err != nil {
		err = mapTeacherRepoError(err)
		logger.ErrorContext(ctx, "failed to delete teacher", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "teacher deleted")
	return nil
}

// ListTeachers returns the teacher directory for any authenticated user.
func (s *TeacherService) ListTeachers(ctx context.Context, principal Principal) ([]Teacher, error) {
	if s == nil {
		return nil, fmt.Errorf("TeacherService is nil")
	}
	if s.teachers == nil {
		return nil, nil
	}

	raw, err := s.teachers.ListTeachers(ctx)
	if err != nil {
		return nil, mapTeacherRepoError(err)
	}

	teachers := make([]Teacher, len(raw))
	copy(teachers, raw)

	sort.Slice(teachers, func(i, j int) bool {
		if strings.EqualFold(teachers[i].Name, teachers[j].Name) {
			return teachers[i].ID < teachers[j].ID
		}
		return strings.ToLower(teachers[i].Name) < strings.ToLower(teachers[j].Name)
	})

	return teachers, nil
}

func normalizeTeacherInput(input TeacherInput) TeacherInput {
	return TeacherInput{
		Name:  strings.TrimSpace(input.Name),
		Email: strings.ToLower(strings.TrimSpace(input.Email)),
	}
}

func validateTeacherInput(input TeacherInput) *ValidationError {
	vErr := &ValidationError{}

	if input.Name == "" {
		vErr.add("name", "name is required")
	}
	if input.Email == "" {
		vErr.add("email", "email is required")
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		vErr.add("email", "email is invalid")
	}

	return vErr
}

func mapTeacherRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	if errors.Is(err, persistence.ErrForeignKeyViolation) {
		vErr := &ValidationError{}
		vErr.add("teacher_id", "teacher is referenced by existing courses")
		return vErr
	}
	return err
}

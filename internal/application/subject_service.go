package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/example/course-scheduler/internal/persistence"
)

// SubjectRepository captures the persistence operations needed by the service.
type SubjectRepository interface {
	CreateSubject(ctx context.Context, subject Subject) (Subject, error)
	GetSubject(ctx context.Context, id string) (Subject, error)
	UpdateSubject(ctx context.Context, subject Subject) (Subject, error)
	DeleteSubject(ctx context.Context, id string) error
	ListSubjects(ctx context.Context) ([]Subject, error)
}

// SubjectService orchestrates validation, authorization, and persistence for subjects.
type SubjectService struct {
	subjects    SubjectRepository
	idGenerator func() string
	now         func() time.Time
}

// NewSubjectService wires dependencies for the subject service.
func NewSubjectService(subjects SubjectRepository, idGenerator func() string, now func() time.Time) *SubjectService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &SubjectService{subjects: subjects, idGenerator: idGenerator, now: now}
}

// CreateSubject validates input and persists a new subject for administrators.
func (s *SubjectService) CreateSubject(ctx context.Context, params CreateSubjectParams) (Subject, error) {
	if s == nil {
		return Subject{}, fmt.Errorf("SubjectService is nil")
	}
	if !params.Principal.IsAdmin {
		return Subject{}, ErrUnauthorized
	}

	normalized := normalizeSubjectInput(params.Input)
	vErr := validateSubjectInput(normalized)
	if vErr.HasErrors() {
		return Subject{}, vErr
	}

	subject := Subject{
		ID:        s.idGenerator(),
		Name:      normalized.Name,
		Code:      normalized.Code,
		CreatedAt: s.now(),
	}
	subject.UpdatedAt = subject.CreatedAt

	if s.subjects == nil {
		return subject, nil
	}

	persisted, err := s.subjects.CreateSubject(ctx, subject)
	if err != nil {
		return Subject{}, mapSubjectRepoError(err)
	}

	return persisted, nil
}

// UpdateSubject validates input and updates an existing subject for administrators.
func (s *SubjectService) UpdateSubject(ctx context.Context, params UpdateSubjectParams) (Subject, error) {
	if s == nil {
		return Subject{}, fmt.Errorf("SubjectService is nil")
	}
	if !params.Principal.IsAdmin {
		return Subject{}, ErrUnauthorized
	}
	if s.subjects == nil {
		return Subject{}, fmt.Errorf("subject repository not configured")
	}

	existing, err := s.subjects.GetSubject(ctx, params.SubjectID)
	if err != nil {
		return Subject{}, mapSubjectRepoError(err)
	}

	normalized := normalizeSubjectInput(params.Input)
	vErr := validateSubjectInput(normalized)
	if vErr.HasErrors() {
		return Subject{}, vErr
	}

	updated := existing
	updated.Name = normalized.Name
	updated.Code = normalized.Code
	updated.UpdatedAt = s.now()

	persisted, err := s.subjects.UpdateSubject(ctx, updated)
	if err != nil {
		return Subject{}, mapSubjectRepoError(err)
	}

	return persisted, nil
}

// GetSubject returns one subject for any authenticated user.
func (s *SubjectService) GetSubject(ctx context.Context, principal Principal, subjectID string) (Subject, error) {
	if s == nil {
		return Subject{}, fmt.Errorf("SubjectService is nil")
	}
	if s.subjects == nil {
		return Subject{}, fmt.Errorf("subject repository not configured")
	}

	subject, err := s.subjects.GetSubject(ctx, subjectID)
	if err != nil {
		return Subject{}, mapSubjectRepoError(err)
	}
	return subject, nil
}

// DeleteSubject removes a subject when requested by an administrator.
func (s *SubjectService) DeleteSubject(ctx context.Context, principal Principal, subjectID string) error {
	if s == nil {
		return fmt.Errorf("SubjectService is nil")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}
	if s.subjects == nil {
		return fmt.Errorf("subject repository not configured")
	}

	if err := s.subjects.DeleteSubject(ctx, subjectID); err != nil {
		return mapSubjectRepoError(err)
	}

	return nil
}

// ListSubjects returns the subject catalog for any authenticated user.
func (s *SubjectService) ListSubjects(ctx context.Context, principal Principal) ([]Subject, error) {
	if s == nil {
		return nil, fmt.Errorf("SubjectService is nil")
	}
	if s.subjects == nil {
		return nil, nil
	}

	raw, err := s.subjects.ListSubjects(ctx)
	if err != nil {
		return nil, mapSubjectRepoError(err)
	}

	subjects := make([]Subject, len(raw))
	copy(subjects, raw)

	sort.Slice(subjects, func(i, j int) bool {
		if subjects[i].Code == subjects[j].Code {
			return subjects[i].ID < subjects[j].ID
		}
		return subjects[i].Code < subjects[j].Code
	})

	return subjects, nil
}

func normalizeSubjectInput(input SubjectInput) SubjectInput {
	return SubjectInput{
		Name: strings.TrimSpace(input.Name),
		Code: strings.ToUpper(strings.TrimSpace(input.Code)),
	}
}

func validateSubjectInput(input SubjectInput) *ValidationError {
	vErr := &ValidationError{}

	if input.Name == "" {
		vErr.add("name", "name is required")
	}
	if input.Code == "" {
		vErr.add("code", "code is required")
	}

	return vErr
}

func mapSubjectRepoError(err error) error {
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
		vErr.add("subject_id", "subject is referenced by existing courses")
		return vErr
	}
	return err
}

package application

import (
	"context"
	"errors"
	"testing"

	"github.com/example/course-scheduler/internal/persistence"
)

type teacherRepoStub struct {
	teachers  map[string]Teacher
	createErr error
	deleteErr error
}

func newTeacherRepoStub() *teacherRepoStub {
	return &teacherRepoStub{teachers: make(map[string]Teacher)}
}

func (s *teacherRepoStub) CreateTeacher(ctx context.Context, teacher Teacher) (Teacher, error) {
	if s.createErr != nil {
		return Teacher{}, s.createErr
	}
	s.teachers[teacher.ID] = teacher
	return teacher, nil
}

func (s *teacherRepoStub) GetTeacher(ctx context.Context, id string) (Teacher, error) {
	teacher, ok := s.teachers[id]
	if !ok {
		return Teacher{}, ErrNotFound
	}
	return teacher, nil
}

func (s *teacherRepoStub) UpdateTeacher(ctx context.Context, teacher Teacher) (Teacher, error) {
	s.teachers[teacher.ID] = teacher
	return teacher, nil
}

func (s *teacherRepoStub) DeleteTeacher(ctx context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if _, ok := s.teachers[id]; !ok {
		return ErrNotFound
	}
	delete(s.teachers, id)
	return nil
}

func (s *teacherRepoStub) ListTeachers(ctx context.Context) ([]Teacher, error) {
	out := make([]Teacher, 0, len(s.teachers))
	for _, teacher := range s.teachers {
		out = append(out, teacher)
	}
	return out, nil
}

func TestTeacherService_CreateTeacher(t *testing.T) {
	t.Parallel()

	t.Run("persists valid teachers for administrators", func(t *testing.T) {
		t.Parallel()

		repo := newTeacherRepoStub()
		svc := NewTeacherService(repo, func() string { return "teacher-1" }, fixedClock, nil)

		teacher, err := svc.CreateTeacher(context.Background(), CreateTeacherParams{
			Principal: Principal{UserID: "admin-1", IsAdmin: true},
			Input:     TeacherInput{Name: " A. Turing ", Email: " Turing@School.example "},
		})
		if err != nil {
			t.Fatalf("CreateTeacher failed: %v", err)
		}

		if teacher.Name != "A. Turing" {
			t.Fatalf("expected trimmed name, got %q", teacher.Name)
		}
		if teacher.Email != "turing@school.example" {
			t.Fatalf("expected normalized email, got %q", teacher.Email)
		}
	})

	t.Run("rejects non-administrators", func(t *testing.T) {
		t.Parallel()

		svc := NewTeacherService(newTeacherRepoStub(), nil, nil, nil)

		_, err := svc.CreateTeacher(context.Background(), CreateTeacherParams{
			Principal: Principal{UserID: "user-1"},
			Input:     TeacherInput{Name: "A. Turing", Email: "turing@school.example"},
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("rejects malformed email addresses", func(t *testing.T) {
		t.Parallel()

		svc := NewTeacherService(newTeacherRepoStub(), nil, nil, nil)

		_, err := svc.CreateTeacher(context.Background(), CreateTeacherParams{
			Principal: Principal{UserID: "admin-1", IsAdmin: true},
			Input:     TeacherInput{Name: "A. Turing", Email: "not-an-email"},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["email"]; !ok {
			t.Fatalf("expected email validation error, got %v", vErr.FieldErrors)
		}
	})

	t.Run("maps duplicate emails to ErrAlreadyExists", func(t *testing.T) {
		t.Parallel()

		repo := newTeacherRepoStub()
		repo.createErr = persistence.ErrDuplicate
		svc := NewTeacherService(repo, func() string { return "teacher-1" }, fixedClock, nil)

		_, err := svc.CreateTeacher(context.Background(), CreateTeacherParams{
			Principal: Principal{UserID: "admin-1", IsAdmin: true},
			Input:     TeacherInput{Name: "A. Turing", Email: "turing@school.example"},
		})
		if !errors.Is(err, ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})
}

func TestTeacherService_DeleteTeacher(t *testing.T) {
	t.Parallel()

	t.Run("maps referenced teachers to a validation error", func(t *testing.T) {
		t.Parallel()

		repo := newTeacherRepoStub()
		repo.deleteErr = persistence.ErrForeignKeyViolation
		svc := NewTeacherService(repo, nil, nil, nil)

		err := svc.DeleteTeacher(context.Background(), Principal{UserID: "admin-1", IsAdmin: true}, "teacher-1")

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("returns ErrNotFound for unknown teachers", func(t *testing.T) {
		t.Parallel()

		svc := NewTeacherService(newTeacherRepoStub(), nil, nil, nil)

		err := svc.DeleteTeacher(context.Background(), Principal{UserID: "admin-1", IsAdmin: true}, "teacher-missing")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestTeacherService_ListTeachers_SortsByName(t *testing.T) {
	t.Parallel()

	repo := newTeacherRepoStub()
	repo.teachers["teacher-2"] = Teacher{ID: "teacher-2", Name: "G. Hopper"}
	repo.teachers["teacher-1"] = Teacher{ID: "teacher-1", Name: "A. Turing"}
	svc := NewTeacherService(repo, nil, nil, nil)

	teachers, err := svc.ListTeachers(context.Background(), Principal{UserID: "user-1"})
	if err != nil {
		t.Fatalf("ListTeachers failed: %v", err)
	}

	if len(teachers) != 2 || teachers[0].Name != "A. Turing" || teachers[1].Name != "G. Hopper" {
		t.Fatalf("unexpected ordering: %+v", teachers)
	}
}

package application

import (
	"context"
	"errors"
	"testing"
)

type userRepoStub struct {
	users     map[string]User
	createErr error
}

func newUserRepoStub() *userRepoStub {
	return &userRepoStub{users: make(map[string]User)}
}

func (s *userRepoStub) CreateUser(ctx context.Context, user User) (User, error) {
	if s.createErr != nil {
		return User{}, s.createErr
	}
	s.users[user.ID] = user
	return user, nil
}

func (s *userRepoStub) GetUser(ctx context.Context, id string) (User, error) {
	user, ok := s.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (s *userRepoStub) UpdateUser(ctx context.Context, user User) (User, error) {
	s.users[user.ID] = user
	return user, nil
}

func (s *userRepoStub) DeleteUser(ctx context.Context, id string) error {
	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *userRepoStub) ListUsers(ctx context.Context) ([]User, error) {
	out := make([]User, 0, len(s.users))
	for _, user := range s.users {
		out = append(out, user)
	}
	return out, nil
}

func TestUserService_CreateUser(t *testing.T) {
	t.Parallel()

	t.Run("normalizes email and trims display name", func(t *testing.T) {
		t.Parallel()

		repo := newUserRepoStub()
		svc := NewUserService(repo, nil, func() string { return "user-1" }, fixedClock)

		user, err := svc.CreateUser(context.Background(), CreateUserParams{
			Principal: Principal{UserID: "admin-1", IsAdmin: true},
			Input:     UserInput{Email: " Staff@School.example ", DisplayName: " Pat Doe "},
		})
		if err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}

		if user.Email != "staff@school.example" {
			t.Fatalf("expected normalized email, got %q", user.Email)
		}
		if user.DisplayName != "Pat Doe" {
			t.Fatalf("expected trimmed display name, got %q", user.DisplayName)
		}
	})

	t.Run("rejects non-administrators", func(t *testing.T) {
		t.Parallel()

		svc := NewUserService(newUserRepoStub(), nil, nil, nil)

		_, err := svc.CreateUser(context.Background(), CreateUserParams{
			Principal: Principal{UserID: "user-1"},
			Input:     UserInput{Email: "staff@school.example", DisplayName: "Pat Doe"},
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("accepts a teacher link when the directory knows the teacher", func(t *testing.T) {
		t.Parallel()

		repo := newUserRepoStub()
		svc := NewUserService(repo, &teacherDirectoryStub{exists: true}, func() string { return "user-1" }, fixedClock)

		teacherID := "teacher-1"
		user, err := svc.CreateUser(context.Background(), CreateUserParams{
			Principal: Principal{UserID: "admin-1", IsAdmin: true},
			Input:     UserInput{Email: "staff@school.example", DisplayName: "Pat Doe", TeacherID: &teacherID},
		})
		if err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if user.TeacherID == nil || *user.TeacherID != "teacher-1" {
			t.Fatalf("expected teacher link to be kept, got %v", user.TeacherID)
		}
	})

	t.Run("rejects a teacher link the directory does not know", func(t *testing.T) {
		t.Parallel()

		svc := NewUserService(newUserRepoStub(), &teacherDirectoryStub{exists: false}, nil, nil)

		teacherID := "teacher-missing"
		_, err := svc.CreateUser(context.Background(), CreateUserParams{
			Principal: Principal{UserID: "admin-1", IsAdmin: true},
			Input:     UserInput{Email: "staff@school.example", DisplayName: "Pat Doe", TeacherID: &teacherID},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["teacher_id"]; !ok {
			t.Fatalf("expected teacher_id validation error, got %v", vErr.FieldErrors)
		}
	})

	t.Run("rejects malformed email addresses", func(t *testing.T) {
		t.Parallel()

		svc := NewUserService(newUserRepoStub(), nil, nil, nil)

		_, err := svc.CreateUser(context.Background(), CreateUserParams{
			Principal: Principal{UserID: "admin-1", IsAdmin: true},
			Input:     UserInput{Email: "nope", DisplayName: "Pat Doe"},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["email"]; !ok {
			t.Fatalf("expected email validation error, got %v", vErr.FieldErrors)
		}
	})
}

func TestUserService_UpdateUser_KeepsLastAdministrator(t *testing.T) {
	t.Parallel()

	repo := newUserRepoStub()
	repo.users["admin-1"] = User{ID: "admin-1", Email: "head@school.example", DisplayName: "Head", IsAdmin: true}
	svc := NewUserService(repo, nil, nil, nil)

	_, err := svc.UpdateUser(context.Background(), UpdateUserParams{
		Principal: Principal{UserID: "admin-1", IsAdmin: true},
		UserID:    "admin-1",
		Input:     UserInput{Email: "head@school.example", DisplayName: "Head", IsAdmin: false},
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.FieldErrors["is_admin"]; !ok {
		t.Fatalf("expected is_admin validation error, got %v", vErr.FieldErrors)
	}
}

func TestUserService_UpdateUser_DemotesWhenAnotherAdminRemains(t *testing.T) {
	t.Parallel()

	repo := newUserRepoStub()
	repo.users["admin-1"] = User{ID: "admin-1", Email: "head@school.example", DisplayName: "Head", IsAdmin: true}
	repo.users["admin-2"] = User{ID: "admin-2", Email: "deputy@school.example", DisplayName: "Deputy", IsAdmin: true}
	svc := NewUserService(repo, nil, nil, nil)

	user, err := svc.UpdateUser(context.Background(), UpdateUserParams{
		Principal: Principal{UserID: "admin-2", IsAdmin: true},
		UserID:    "admin-1",
		Input:     UserInput{Email: "head@school.example", DisplayName: "Head", IsAdmin: false},
	})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if user.IsAdmin {
		t.Fatal("expected the account to be demoted")
	}
}

func TestUserService_DeleteUser_RejectsSelfDeletion(t *testing.T) {
	t.Parallel()

	repo := newUserRepoStub()
	repo.users["admin-1"] = User{ID: "admin-1", Email: "head@school.example", IsAdmin: true}
	repo.users["admin-2"] = User{ID: "admin-2", Email: "deputy@school.example", IsAdmin: true}
	svc := NewUserService(repo, nil, nil, nil)

	err := svc.DeleteUser(context.Background(), Principal{UserID: "admin-1", IsAdmin: true}, "admin-1")

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.FieldErrors["user_id"]; !ok {
		t.Fatalf("expected user_id validation error, got %v", vErr.FieldErrors)
	}
	if _, ok := repo.users["admin-1"]; !ok {
		t.Fatal("expected the account to survive")
	}
}

func TestUserService_DeleteUser_KeepsLastAdministrator(t *testing.T) {
	t.Parallel()

	repo := newUserRepoStub()
	repo.users["admin-1"] = User{ID: "admin-1", Email: "head@school.example", IsAdmin: true}
	repo.users["user-1"] = User{ID: "user-1", Email: "staff@school.example"}
	svc := NewUserService(repo, nil, nil, nil)

	err := svc.DeleteUser(context.Background(), Principal{UserID: "admin-2", IsAdmin: true}, "admin-1")

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := repo.users["admin-1"]; !ok {
		t.Fatal("expected the last administrator to survive")
	}

	if err := svc.DeleteUser(context.Background(), Principal{UserID: "admin-1", IsAdmin: true}, "user-1"); err != nil {
		t.Fatalf("expected plain staff deletion to succeed, got %v", err)
	}
}

func TestUserService_ListUsers_RequiresAdmin(t *testing.T) {
	t.Parallel()

	svc := NewUserService(newUserRepoStub(), nil, nil, nil)

	if _, err := svc.ListUsers(context.Background(), Principal{UserID: "user-1"}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestUserService_ListUsers_SortsByEmail(t *testing.T) {
	t.Parallel()

	repo := newUserRepoStub()
	repo.users["user-2"] = User{ID: "user-2", Email: "zoe@school.example"}
	repo.users["user-1"] = User{ID: "user-1", Email: "amy@school.example"}
	svc := NewUserService(repo, nil, nil, nil)

	users, err := svc.ListUsers(context.Background(), Principal{UserID: "admin-1", IsAdmin: true})
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 2 || users[0].Email != "amy@school.example" || users[1].Email != "zoe@school.example" {
		t.Fatalf("unexpected ordering: %+v", users)
	}
}

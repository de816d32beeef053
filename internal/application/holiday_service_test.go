package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/course-scheduler/internal/persistence"
)

type holidayRepoStub struct {
	holidays  map[string]Holiday
	createErr error
}

func newHolidayRepoStub() *holidayRepoStub {
	return &holidayRepoStub{holidays: make(map[string]Holiday)}
}

func (s *holidayRepoStub) CreateHoliday(ctx context.Context, holiday Holiday) (Holiday, error) {
	if s.createErr != nil {
		return Holiday{}, s.createErr
	}
	s.holidays[holiday.ID] = holiday
	return holiday, nil
}

func (s *holidayRepoStub) UpdateHoliday(ctx context.Context, holiday Holiday) (Holiday, error) {
	if _, ok := s.holidays[holiday.ID]; !ok {
		return Holiday{}, persistence.ErrNotFound
	}
	s.holidays[holiday.ID] = holiday
	return holiday, nil
}

func (s *holidayRepoStub) ListHolidays(ctx context.Context, from, to time.Time) ([]Holiday, error) {
	out := make([]Holiday, 0, len(s.holidays))
	for _, holiday := range s.holidays {
		if holiday.Date.Before(from) || holiday.Date.After(to) {
			continue
		}
		out = append(out, holiday)
	}
	return out, nil
}

func (s *holidayRepoStub) DeleteHoliday(ctx context.Context, id string) error {
	if _, ok := s.holidays[id]; !ok {
		return ErrNotFound
	}
	delete(s.holidays, id)
	return nil
}

func TestHolidayService_CreateHoliday(t *testing.T) {
	t.Parallel()

	t.Run("persists valid holidays for administrators", func(t *testing.T) {
		t.Parallel()

		repo := newHolidayRepoStub()
		svc := NewHolidayService(repo, func() string { return "holiday-1" }, fixedClock, nil)

		holiday, err := svc.CreateHoliday(context.Background(), CreateHolidayParams{
			Principal: Principal{UserID: "admin-1", IsAdmin: true},
			Input:     HolidayInput{Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), Name: " May Day "},
		})
		if err != nil {
			t.Fatalf("CreateHoliday failed: %v", err)
		}

		if holiday.Name != "May Day" {
			t.Fatalf("expected trimmed name, got %q", holiday.Name)
		}
		if _, ok := repo.holidays["holiday-1"]; !ok {
			t.Fatal("expected holiday to be persisted")
		}
	})

	t.Run("rejects non-administrators", func(t *testing.T) {
		t.Parallel()

		svc := NewHolidayService(newHolidayRepoStub(), nil, nil, nil)

		_, err := svc.CreateHoliday(context.Background(), CreateHolidayParams{
			Principal: Principal{UserID: "user-1"},
			Input:     HolidayInput{Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), Name: "May Day"},
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("requires date and name", func(t *testing.T) {
		t.Parallel()

		svc := NewHolidayService(newHolidayRepoStub(), nil, nil, nil)

		_, err := svc.CreateHoliday(context.Background(), CreateHolidayParams{
			Principal: Principal{UserID: "admin-1", IsAdmin: true},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		for _, field := range []string{"date", "name"} {
			if _, ok := vErr.FieldErrors[field]; !ok {
				t.Errorf("expected %s validation error, got %v", field, vErr.FieldErrors)
			}
		}
	})

	t.Run("maps duplicate dates to ErrAlreadyExists", func(t *testing.T) {
		t.Parallel()

		repo := newHolidayRepoStub()
		repo.createErr = persistence.ErrDuplicate
		svc := NewHolidayService(repo, func() string { return "holiday-1" }, fixedClock, nil)

		_, err := svc.CreateHoliday(context.Background(), CreateHolidayParams{
			Principal: Principal{UserID: "admin-1", IsAdmin: true},
			Input:     HolidayInput{Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), Name: "May Day"},
		})
		if !errors.Is(err, ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})
}

func TestHolidayService_UpdateHoliday(t *testing.T) {
	t.Parallel()

	t.Run("rewrites an existing holiday for administrators", func(t *testing.T) {
		t.Parallel()

		repo := newHolidayRepoStub()
		repo.holidays["holiday-1"] = Holiday{ID: "holiday-1", Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), Name: "May Day"}
		svc := NewHolidayService(repo, nil, fixedClock, nil)

		holiday, err := svc.UpdateHoliday(context.Background(), UpdateHolidayParams{
			Principal: Principal{UserID: "admin-1", IsAdmin: true},
			HolidayID: "holiday-1",
			Input:     HolidayInput{Date: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), Name: " Spring Break "},
		})
		if err != nil {
			t.Fatalf("UpdateHoliday failed: %v", err)
		}
		if holiday.Name != "Spring Break" {
			t.Fatalf("expected trimmed name, got %q", holiday.Name)
		}
		if got := repo.holidays["holiday-1"].Date; !got.Equal(time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)) {
			t.Fatalf("unexpected persisted date: %v", got)
		}
	})

	t.Run("rejects non-administrators", func(t *testing.T) {
		t.Parallel()

		svc := NewHolidayService(newHolidayRepoStub(), nil, nil, nil)

		_, err := svc.UpdateHoliday(context.Background(), UpdateHolidayParams{
			Principal: Principal{UserID: "user-1"},
			HolidayID: "holiday-1",
			Input:     HolidayInput{Date: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), Name: "Spring Break"},
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("maps missing holidays to ErrNotFound", func(t *testing.T) {
		t.Parallel()

		svc := NewHolidayService(newHolidayRepoStub(), nil, nil, nil)

		_, err := svc.UpdateHoliday(context.Background(), UpdateHolidayParams{
			Principal: Principal{UserID: "admin-1", IsAdmin: true},
			HolidayID: "holiday-9",
			Input:     HolidayInput{Date: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), Name: "Spring Break"},
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestHolidayService_ListHolidays(t *testing.T) {
	t.Parallel()

	t.Run("requires a bounded window", func(t *testing.T) {
		t.Parallel()

		svc := NewHolidayService(newHolidayRepoStub(), nil, nil, nil)

		_, err := svc.ListHolidays(context.Background(), ListHolidaysParams{
			Principal: Principal{UserID: "user-1"},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("rejects inverted windows", func(t *testing.T) {
		t.Parallel()

		svc := NewHolidayService(newHolidayRepoStub(), nil, nil, nil)

		_, err := svc.ListHolidays(context.Background(), ListHolidaysParams{
			Principal: Principal{UserID: "user-1"},
			From:      time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			To:        time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["to"]; !ok {
			t.Fatalf("expected to validation error, got %v", vErr.FieldErrors)
		}
	})

	t.Run("returns holidays inside the window", func(t *testing.T) {
		t.Parallel()

		repo := newHolidayRepoStub()
		repo.holidays["holiday-1"] = Holiday{ID: "holiday-1", Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), Name: "May Day"}
		repo.holidays["holiday-2"] = Holiday{ID: "holiday-2", Date: time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC), Name: "Christmas"}
		svc := NewHolidayService(repo, nil, nil, nil)

		holidays, err := svc.ListHolidays(context.Background(), ListHolidaysParams{
			Principal: Principal{UserID: "user-1"},
			From:      time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
			To:        time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("ListHolidays failed: %v", err)
		}
		if len(holidays) != 1 || holidays[0].ID != "holiday-1" {
			t.Fatalf("unexpected holidays: %+v", holidays)
		}
	})
}

func TestHolidayService_DeleteHoliday(t *testing.T) {
	t.Parallel()

	repo := newHolidayRepoStub()
	repo.holidays["holiday-1"] = Holiday{ID: "holiday-1", Name: "May Day"}
	svc := NewHolidayService(repo, nil, nil, nil)

	if err := svc.DeleteHoliday(context.Background(), Principal{UserID: "user-1"}, "holiday-1"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for non-admin, got %v", err)
	}

	if err := svc.DeleteHoliday(context.Background(), Principal{UserID: "admin-1", IsAdmin: true}, "holiday-1"); err != nil {
		t.Fatalf("DeleteHoliday failed: %v", err)
	}
	if _, ok := repo.holidays["holiday-1"]; ok {
		t.Fatal("expected holiday to be removed")
	}
}

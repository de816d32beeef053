package main

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/course-scheduler/internal/application"
	"github.com/example/course-scheduler/internal/persistence"
	"github.com/example/course-scheduler/internal/persistence/sqlite"
	"github.com/example/course-scheduler/internal/persistence/sqlite/migration"
	"github.com/example/course-scheduler/internal/recurrence"
)

func openTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "scheduler.db")
	store, err := sqlite.Open(migration.DefaultSQLiteConfig(path), nil)
	if err != nil {
		t.Fatalf("failed to open storage: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}
	return store
}

func TestCourseConversionRoundTrip(t *testing.T) {
	endDate := time.Date(2024, time.March, 29, 0, 0, 0, 0, time.UTC)
	recurrenceID := "rec-1"
	course := application.Course{
		ID:                "course-1",
		Name:              "Algebra I",
		SubjectID:         "subject-1",
		TeacherID:         "teacher-1",
		RoomID:            "room-1",
		StartTime:         time.Date(2024, time.January, 8, 9, 0, 0, 0, time.UTC),
		DurationMinutes:   50,
		IsRecurring:       true,
		Pattern:           recurrence.NewPattern(time.Monday, time.Wednesday),
		RecurrenceEndDate: &endDate,
		ExcludeHolidays:   true,
		RecurrenceID:      &recurrenceID,
		CreatedAt:         time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC),
		UpdatedAt:         time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC),
	}

	stored, err := toPersistenceCourse(course)
	if err != nil {
		t.Fatalf("toPersistenceCourse returned error: %v", err)
	}
	if stored.PatternJSON == nil {
		t.Fatal("expected stored pattern JSON for a recurring course")
	}

	restored, err := toApplicationCourse(stored)
	if err != nil {
		t.Fatalf("toApplicationCourse returned error: %v", err)
	}
	if len(restored.Pattern.Days) != 2 {
		t.Fatalf("expected 2 pattern days, got %d", len(restored.Pattern.Days))
	}
	if restored.Pattern.Days[0] != time.Monday || restored.Pattern.Days[1] != time.Wednesday {
		t.Fatalf("unexpected pattern days: %v", restored.Pattern.Days)
	}
	if restored.RecurrenceID == nil || *restored.RecurrenceID != recurrenceID {
		t.Fatalf("recurrence id lost in conversion: %v", restored.RecurrenceID)
	}
}

func TestCourseConversionOneOff(t *testing.T) {
	course := application.Course{
		ID:        "course-2",
		Name:      "Tutoring",
		SubjectID: "subject-1",
		TeacherID: "teacher-1",
		RoomID:    "room-1",
	}

	stored, err := toPersistenceCourse(course)
	if err != nil {
		t.Fatalf("toPersistenceCourse returned error: %v", err)
	}
	if stored.PatternJSON != nil {
		t.Fatalf("expected no pattern JSON for a one-off course, got %q", *stored.PatternJSON)
	}
}

func TestCatalogAdaptersAgainstStore(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)

	if err := store.Rooms.CreateRoom(ctx, persistence.Room{
		ID: "room-1", Name: "Room 101", Location: "North Wing", Capacity: 30,
		CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("failed to seed room: %v", err)
	}

	rooms := &roomCatalogAdapter{repo: store.Rooms}
	exists, err := rooms.RoomExists(ctx, "room-1")
	if err != nil {
		t.Fatalf("RoomExists returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected seeded room to exist")
	}

	exists, err = rooms.RoomExists(ctx, "room-missing")
	if err != nil {
		t.Fatalf("RoomExists returned error for missing room: %v", err)
	}
	if exists {
		t.Fatal("expected missing room to report false")
	}
}

func TestHolidayCalendarAdapter(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	newYear := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	if err := store.Holidays.CreateHoliday(ctx, persistence.Holiday{
		ID: "holiday-1", Date: newYear, Name: "New Year's Day",
	}); err != nil {
		t.Fatalf("failed to seed holiday: %v", err)
	}

	calendar := &holidayCalendarAdapter{repo: store.Holidays}
	dates, err := calendar.HolidayDates(ctx, newYear.AddDate(0, 0, -7), newYear.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("HolidayDates returned error: %v", err)
	}
	if len(dates) != 1 || !dates[0].Equal(newYear) {
		t.Fatalf("unexpected holiday dates: %v", dates)
	}

	dates, err = calendar.HolidayDates(ctx, newYear.AddDate(0, 1, 0), newYear.AddDate(0, 2, 0))
	if err != nil {
		t.Fatalf("HolidayDates returned error for empty window: %v", err)
	}
	if len(dates) != 0 {
		t.Fatalf("expected no dates outside the window, got %v", dates)
	}
}

func TestUserRepositoryAdapterSetsInitialCredentials(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	users := newUserRepositoryAdapter(store.Users)
	now := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)
	created, err := users.CreateUser(ctx, application.User{
		ID:          "user-1",
		Email:       "staff@example.com",
		DisplayName: "Staff",
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if created.Email != "staff@example.com" {
		t.Fatalf("unexpected stored email: %q", created.Email)
	}

	credentials := newCredentialStoreAdapter(store.Users)
	stored, err := credentials.GetUserCredentialsByEmail(ctx, "staff@example.com")
	if err != nil {
		t.Fatalf("GetUserCredentialsByEmail returned error: %v", err)
	}
	if err := application.VerifyPassword(stored.PasswordHash, "user-1"); err != nil {
		t.Fatalf("expected initial password to match the account id: %v", err)
	}

	if _, err := credentials.GetUserCredentialsByEmail(ctx, "ghost@example.com"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown email, got %v", err)
	}
}

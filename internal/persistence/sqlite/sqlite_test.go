package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/course-scheduler/internal/persistence"
	"github.com/example/course-scheduler/internal/persistence/sqlite/migration"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(migration.DefaultSQLiteConfig(":memory:"), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

// seedCatalog inserts the rooms, teachers and subject that course fixtures
// reference.
func seedCatalog(t *testing.T, store *Store) {
	t.Helper()
	ctx := context.Background()

	rooms := []persistence.Room{
		{ID: "room-1", Name: "Room 101", Location: "Main building", Capacity: 30},
		{ID: "room-2", Name: "Room 102", Location: "Main building", Capacity: 25},
	}
	for _, room := range rooms {
		if err := store.Rooms.CreateRoom(ctx, room); err != nil {
			t.Fatalf("seed room %s: %v", room.ID, err)
		}
	}

	teachers := []persistence.Teacher{
		{ID: "teacher-1", Name: "A. Turing", Email: "turing@school.example"},
		{ID: "teacher-2", Name: "G. Hopper", Email: "hopper@school.example"},
	}
	for _, teacher := range teachers {
		if err := store.Teachers.CreateTeacher(ctx, teacher); err != nil {
			t.Fatalf("seed teacher %s: %v", teacher.ID, err)
		}
	}

	if err := store.Subjects.CreateSubject(ctx, persistence.Subject{
		ID: "subject-1", Name: "Mathematics", Code: "MATH",
	}); err != nil {
		t.Fatalf("seed subject: %v", err)
	}
}

func testCourse(id string) persistence.Course {
	return persistence.Course{
		ID:              id,
		Name:            "Algebra I",
		SubjectID:       "subject-1",
		TeacherID:       "teacher-1",
		RoomID:          "room-1",
		StartTime:       time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
	}
}

func testOccurrence(id, courseID string, start time.Time) persistence.Occurrence {
	return persistence.Occurrence{
		ID:        id,
		CourseID:  courseID,
		RoomID:    "room-1",
		TeacherID: "teacher-1",
		Start:     start,
		End:       start.Add(time.Hour),
	}
}

func TestStore_MigrateTwice(t *testing.T) {
	store := openTestStore(t)

	// Migrate must be idempotent.
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestRoomRepository_CRUD(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	room := persistence.Room{ID: "room-1", Name: "Room 101", Location: "West wing", Capacity: 28}
	if err := store.Rooms.CreateRoom(ctx, room); err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}

	retrieved, err := store.Rooms.GetRoom(ctx, "room-1")
	if err != nil {
		t.Fatalf("GetRoom failed: %v", err)
	}
	if retrieved.Name != "Room 101" || retrieved.Capacity != 28 {
		t.Errorf("unexpected room: %+v", retrieved)
	}

	room.Capacity = 35
	if err := store.Rooms.UpdateRoom(ctx, room); err != nil {
		t.Fatalf("UpdateRoom failed: %v", err)
	}
	retrieved, err = store.Rooms.GetRoom(ctx, "room-1")
	if err != nil {
		t.Fatalf("GetRoom after update failed: %v", err)
	}
	if retrieved.Capacity != 35 {
		t.Errorf("expected capacity 35, got %d", retrieved.Capacity)
	}

	if err := store.Rooms.DeleteRoom(ctx, "room-1"); err != nil {
		t.Fatalf("DeleteRoom failed: %v", err)
	}
	if _, err := store.Rooms.GetRoom(ctx, "room-1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestRoomRepository_DuplicateName(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Rooms.CreateRoom(ctx, persistence.Room{ID: "room-1", Name: "Room 101"}); err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	err := store.Rooms.CreateRoom(ctx, persistence.Room{ID: "room-2", Name: "Room 101"})
	if !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestHolidayRepository_ListWindow(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	holidays := []persistence.Holiday{
		{ID: "hol-1", Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Name: "New Year"},
		{ID: "hol-2", Date: time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), Name: "Spring Day"},
		{ID: "hol-3", Date: time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC), Name: "Christmas"},
	}
	for _, holiday := range holidays {
		if err := store.Holidays.CreateHoliday(ctx, holiday); err != nil {
			t.Fatalf("CreateHoliday %s: %v", holiday.ID, err)
		}
	}

	listed, err := store.Holidays.ListHolidays(ctx,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("ListHolidays failed: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 holidays in window, got %d", len(listed))
	}
	if listed[0].Name != "New Year" || listed[1].Name != "Spring Day" {
		t.Errorf("unexpected order: %+v", listed)
	}

	// A second holiday on the same date violates the unique calendar.
	err = store.Holidays.CreateHoliday(ctx, persistence.Holiday{
		ID: "hol-4", Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Name: "Duplicate",
	})
	if !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for same date, got %v", err)
	}
}

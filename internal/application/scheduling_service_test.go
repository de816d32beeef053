package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/example/course-scheduler/internal/recurrence"
	"github.com/example/course-scheduler/internal/scheduler"
	"github.com/example/course-scheduler/internal/timetable"
)

type courseRepoStub struct {
	course          Course
	list            []Course
	created         Course
	createdOccs     []Occurrence
	replaced        Course
	replacedOccs    []Occurrence
	deletedCourseID string
	seriesDeleted   int
	deleteErr       error
	err             error
}

func (s *courseRepoStub) CreateCourse(ctx context.Context, course Course, occurrences []Occurrence) error {
	if s.err != nil {
		return s.err
	}
	s.created = course
	s.createdOccs = occurrences
	return nil
}

func (s *courseRepoStub) ReplaceCourse(ctx context.Context, course Course, occurrences []Occurrence) error {
	if s.err != nil {
		return s.err
	}
	s.replaced = course
	s.replacedOccs = occurrences
	return nil
}

func (s *courseRepoStub) GetCourse(ctx context.Context, id string) (Course, error) {
	if s.err != nil {
		return Course{}, s.err
	}
	if s.course.ID == "" || s.course.ID != id {
		return Course{}, ErrNotFound
	}
	return s.course, nil
}

func (s *courseRepoStub) ListCourses(ctx context.Context) ([]Course, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.list) > 0 {
		return append([]Course(nil), s.list...), nil
	}
	if s.course.ID == "" {
		return nil, nil
	}
	return []Course{s.course}, nil
}

func (s *courseRepoStub) DeleteCourseWithSeries(ctx context.Context, id string) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	if s.deleteErr != nil {
		return 0, s.deleteErr
	}
	s.deletedCourseID = id
	return s.seriesDeleted, nil
}

type occurrenceRepoStub struct {
	occurrences []Occurrence
	deletedIDs  []string
	listCalls   int
	err         error
}

func (s *occurrenceRepoStub) GetOccurrence(ctx context.Context, id string) (Occurrence, error) {
	if s.err != nil {
		return Occurrence{}, s.err
	}
	for _, occurrence := range s.occurrences {
		if occurrence.ID == id {
			return occurrence, nil
		}
	}
	return Occurrence{}, ErrNotFound
}

func (s *occurrenceRepoStub) ListOccurrences(ctx context.Context, filter OccurrenceFilter) ([]Occurrence, error) {
	s.listCalls++
	if s.err != nil {
		return nil, s.err
	}
	matched := make([]Occurrence, 0)
	for _, occurrence := range s.occurrences {
		if filter.RoomID != nil && occurrence.RoomID != *filter.RoomID {
			continue
		}
		if filter.TeacherID != nil && occurrence.TeacherID != *filter.TeacherID {
			continue
		}
		if filter.RecurrenceID != nil && (occurrence.RecurrenceID == nil || *occurrence.RecurrenceID != *filter.RecurrenceID) {
			continue
		}
		if filter.CourseID != nil && occurrence.CourseID != *filter.CourseID {
			continue
		}
		if filter.From != nil && !occurrence.End.After(*filter.From) {
			continue
		}
		if filter.To != nil && !occurrence.Start.Before(*filter.To) {
			continue
		}
		matched = append(matched, occurrence)
	}
	return matched, nil
}

func (s *occurrenceRepoStub) DeleteOccurrences(ctx context.Context, ids []string) error {
	if s.err != nil {
		return s.err
	}
	s.deletedIDs = append(s.deletedIDs, ids...)
	return nil
}

type roomCatalogStub struct {
	exists bool
	err    error
}

func (r *roomCatalogStub) RoomExists(ctx context.Context, id string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	return r.exists, nil
}

type teacherDirectoryStub struct {
	exists bool
	err    error
}

func (d *teacherDirectoryStub) TeacherExists(ctx context.Context, id string) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	return d.exists, nil
}

type subjectCatalogStub struct {
	exists bool
	err    error
}

func (c *subjectCatalogStub) SubjectExists(ctx context.Context, id string) (bool, error) {
	if c.err != nil {
		return false, c.err
	}
	return c.exists, nil
}

type holidayCalendarStub struct {
	dates []time.Time
	err   error
}

func (h *holidayCalendarStub) HolidayDates(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	if h.err != nil {
		return nil, h.err
	}
	return h.dates, nil
}

func sequenceIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// jan returns day at hour:00 UTC in January 2024. The 1st is a Monday.
func jan(day, hour int) time.Time {
	return time.Date(2024, time.January, day, hour, 0, 0, 0, time.UTC)
}

type schedulingFixture struct {
	courses     *courseRepoStub
	occurrences *occurrenceRepoStub
	holidays    *holidayCalendarStub
	service     *SchedulingService
}

func newSchedulingFixture() *schedulingFixture {
	courses := &courseRepoStub{}
	occurrences := &occurrenceRepoStub{}
	holidays := &holidayCalendarStub{}
	service := NewSchedulingService(SchedulingServiceConfig{
		Courses:     courses,
		Occurrences: occurrences,
		Rooms:       &roomCatalogStub{exists: true},
		Teachers:    &teacherDirectoryStub{exists: true},
		Subjects:    &subjectCatalogStub{exists: true},
		Holidays:    holidays,
		IDGenerator: sequenceIDs("id"),
		Now:         func() time.Time { return jan(1, 8) },
	})
	return &schedulingFixture{
		courses:     courses,
		occurrences: occurrences,
		holidays:    holidays,
		service:     service,
	}
}

func validCourseInput() CourseInput {
	return CourseInput{
		Name:            "Algebra I",
		SubjectID:       "subject-1",
		TeacherID:       "teacher-1",
		RoomID:          "room-1",
		StartTime:       jan(1, 9),
		DurationMinutes: 60,
	}
}

func recurringCourseInput(endDay int, days ...time.Weekday) CourseInput {
	input := validCourseInput()
	input.IsRecurring = true
	input.Pattern = recurrence.NewPattern(days...)
	end := jan(endDay, 9)
	input.RecurrenceEndDate = &end
	return input
}

func TestSchedulingService_CreateCourse_ValidatesRequiredFields(t *testing.T) {
	t.Parallel()

	f := newSchedulingFixture()

	_, err := f.service.CreateCourse(context.Background(), CreateCourseParams{
		Principal: Principal{UserID: "user-1"},
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"name", "subject_id", "teacher_id", "room_id", "start_time", "duration_minutes"} {
		if _, ok := vErr.FieldErrors[field]; !ok {
			t.Errorf("expected %s validation error, got %v", field, vErr.FieldErrors)
		}
	}
}

func TestSchedulingService_CreateCourse_ValidatesDurationBounds(t *testing.T) {
	t.Parallel()

	f := newSchedulingFixture()

	for _, minutes := range []int{14, 481, 0, -30} {
		input := validCourseInput()
		input.DurationMinutes = minutes

		_, err := f.service.CreateCourse(context.Background(), CreateCourseParams{
			Principal: Principal{UserID: "user-1"},
			Input:     input,
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("duration %d: expected ValidationError, got %v", minutes, err)
		}
		if _, ok := vErr.FieldErrors["duration_minutes"]; !ok {
			t.Errorf("duration %d: expected duration_minutes error, got %v", minutes, vErr.FieldErrors)
		}
	}
}

func TestSchedulingService_CreateCourse_ValidatesRecurringFields(t *testing.T) {
	t.Parallel()

	f := newSchedulingFixture()

	input := validCourseInput()
	input.IsRecurring = true

	_, err := f.service.CreateCourse(context.Background(), CreateCourseParams{
		Principal: Principal{UserID: "user-1"},
		Input:     input,
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.FieldErrors["pattern"]; !ok {
		t.Errorf("expected pattern validation error, got %v", vErr.FieldErrors)
	}
	if _, ok := vErr.FieldErrors["recurrence_end_date"]; !ok {
		t.Errorf("expected recurrence_end_date validation error, got %v", vErr.FieldErrors)
	}
}

func TestSchedulingService_CreateCourse_RejectsEndDateAtStartTime(t *testing.T) {
	t.Parallel()

	f := newSchedulingFixture()

	input := recurringCourseInput(15, time.Monday)
	end := input.StartTime
	input.RecurrenceEndDate = &end

	_, err := f.service.CreateCourse(context.Background(), CreateCourseParams{
		Principal: Principal{UserID: "user-1"},
		Input:     input,
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.FieldErrors["recurrence_end_date"]; !ok {
		t.Errorf("expected recurrence_end_date validation error, got %v", vErr.FieldErrors)
	}
}

func TestSchedulingService_CreateCourse_UnknownReferences(t *testing.T) {
	t.Parallel()

	service := NewSchedulingService(SchedulingServiceConfig{
		Courses:     &courseRepoStub{},
		Occurrences: &occurrenceRepoStub{},
		Rooms:       &roomCatalogStub{exists: false},
		Teachers:    &teacherDirectoryStub{exists: false},
		Subjects:    &subjectCatalogStub{exists: false},
		IDGenerator: sequenceIDs("id"),
	})

	_, err := service.CreateCourse(context.Background(), CreateCourseParams{
		Principal: Principal{UserID: "user-1"},
		Input:     validCourseInput(),
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"subject_id", "teacher_id", "room_id"} {
		if _, ok := vErr.FieldErrors[field]; !ok {
			t.Errorf("expected %s validation error, got %v", field, vErr.FieldErrors)
		}
	}
}

func TestSchedulingService_CreateCourse_SingleOccurrence(t *testing.T) {
	t.Parallel()

	f := newSchedulingFixture()

	result, err := f.service.CreateCourse(context.Background(), CreateCourseParams{
		Principal: Principal{UserID: "user-1"},
		Input:     validCourseInput(),
	})
	if err != nil {
		t.Fatalf("CreateCourse returned error: %v", err)
	}

	if !result.Persisted {
		t.Fatal("expected result to be persisted")
	}
	if result.Course.ID == "" {
		t.Fatal("expected course id to be assigned")
	}
	if result.Course.RecurrenceID != nil {
		t.Fatalf("expected no recurrence id for a one-off course, got %q", *result.Course.RecurrenceID)
	}
	if len(result.Occurrences) != 1 {
		t.Fatalf("expected 1 occurrence, got %d", len(result.Occurrences))
	}

	occurrence := result.Occurrences[0]
	if !occurrence.Start.Equal(jan(1, 9)) || !occurrence.End.Equal(jan(1, 10)) {
		t.Fatalf("unexpected occurrence window: %v - %v", occurrence.Start, occurrence.End)
	}
	if len(f.courses.createdOccs) != 1 {
		t.Fatalf("expected repository to receive 1 occurrence, got %d", len(f.courses.createdOccs))
	}
}

func TestSchedulingService_CreateCourse_RecurringExpandsPattern(t *testing.T) {
	t.Parallel()

	f := newSchedulingFixture()

	result, err := f.service.CreateCourse(context.Background(), CreateCourseParams{
		Principal: Principal{UserID: "user-1"},
		Input:     recurringCourseInput(10, time.Monday, time.Wednesday),
	})
	if err != nil {
		t.Fatalf("CreateCourse returned error: %v", err)
	}

	if result.Course.RecurrenceID == nil {
		t.Fatal("expected a recurrence id for a recurring course")
	}

	wantStarts := []time.Time{jan(1, 9), jan(3, 9), jan(8, 9), jan(10, 9)}
	if len(result.Occurrences) != len(wantStarts) {
		t.Fatalf("expected %d occurrences, got %d", len(wantStarts), len(result.Occurrences))
	}
	for i, want := range wantStarts {
		if !result.Occurrences[i].Start.Equal(want) {
			t.Errorf("occurrence %d: expected start %v, got %v", i, want, result.Occurrences[i].Start)
		}
		if result.Occurrences[i].RecurrenceID == nil || *result.Occurrences[i].RecurrenceID != *result.Course.RecurrenceID {
			t.Errorf("occurrence %d: expected recurrence id %q", i, *result.Course.RecurrenceID)
		}
	}
}

func TestSchedulingService_CreateCourse_SkipsHolidays(t *testing.T) {
	t.Parallel()

	f := newSchedulingFixture()
	f.holidays.dates = []time.Time{jan(3, 0)}

	input := recurringCourseInput(10, time.Monday, time.Wednesday)
	input.ExcludeHolidays = true

	result, err := f.service.CreateCourse(context.Background(), CreateCourseParams{
		Principal: Principal{UserID: "user-1"},
		Input:     input,
	})
	if err != nil {
		t.Fatalf("CreateCourse returned error: %v", err)
	}

	wantStarts := []time.Time{jan(1, 9), jan(8, 9), jan(10, 9)}
	if len(result.Occurrences) != len(wantStarts) {
		t.Fatalf("expected %d occurrences, got %d", len(wantStarts), len(result.Occurrences))
	}
	for i, want := range wantStarts {
		if !result.Occurrences[i].Start.Equal(want) {
			t.Errorf("occurrence %d: expected start %v, got %v", i, want, result.Occurrences[i].Start)
		}
	}
}

func TestSchedulingService_CreateCourse_EmptyExpansionFails(t *testing.T) {
	t.Parallel()

	f := newSchedulingFixture()

	// Window runs Monday through Friday; the pattern selects Saturdays.
	_, err := f.service.CreateCourse(context.Background(), CreateCourseParams{
		Principal: Principal{UserID: "user-1"},
		Input:     recurringCourseInput(5, time.Saturday),
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.FieldErrors["recurrence"]; !ok {
		t.Fatalf("expected recurrence validation error, got %v", vErr.FieldErrors)
	}
	if f.courses.created.ID != "" {
		t.Fatal("expected nothing to be persisted")
	}
}

func TestSchedulingService_CreateCourse_RoomConflict(t *testing.T) {
	t.Parallel()

	f := newSchedulingFixture()
	f.occurrences.occurrences = []Occurrence{{
		ID:         "existing-1",
		CourseID:   "course-existing",
		CourseName: "Physics",
		RoomID:     "room-1",
		TeacherID:  "teacher-2",
		Start:      jan(1, 9),
		End:        jan(1, 10),
	}}

	_, err := f.service.CreateCourse(context.Background(), CreateCourseParams{
		Principal: Principal{UserID: "user-1"},
		Input:     validCourseInput(),
	})

	var cErr *ConflictError
	if !errors.As(err, &cErr) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if len(cErr.Report.Conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(cErr.Report.Conflicts))
	}

	conflict := cErr.Report.Conflicts[0]
	if conflict.Kind != scheduler.ConflictKindRoom {
		t.Fatalf("expected room conflict, got %q", conflict.Kind)
	}
	if conflict.ConflictingOccurrenceID != "existing-1" {
		t.Fatalf("expected conflict with existing-1, got %q", conflict.ConflictingOccurrenceID)
	}
	if f.courses.created.ID != "" {
		t.Fatal("expected nothing to be persisted")
	}
}

func TestSchedulingService_CreateCourse_TeacherConflictAcrossRooms(t *testing.T) {
	t.Parallel()

	f := newSchedulingFixture()
	f.occurrences.occurrences = []Occurrence{{
		ID:         "existing-1",
		CourseID:   "course-existing",
		CourseName: "Physics",
		RoomID:     "room-2",
		TeacherID:  "teacher-1",
		Start:      jan(1, 9).Add(30 * time.Minute),
		End:        jan(1, 10).Add(30 * time.Minute),
	}}

	_, err := f.service.CreateCourse(context.Background(), CreateCourseParams{
		Principal: Principal{UserID: "user-1"},
		Input:     validCourseInput(),
	})

	var cErr *ConflictError
	if !errors.As(err, &cErr) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if cErr.Report.Conflicts[0].Kind != scheduler.ConflictKindTeacher {
		t.Fatalf("expected teacher conflict, got %q", cErr.Report.Conflicts[0].Kind)
	}
}

func TestSchedulingService_CreateCourse_AdjacentSlotsDoNotConflict(t *testing.T) {
	t.Parallel()

	f := newSchedulingFixture()
	f.occurrences.occurrences = []Occurrence{{
		ID:        "existing-1",
		CourseID:  "course-existing",
		RoomID:    "room-1",
		TeacherID: "teacher-1",
		Start:     jan(1, 8),
		End:       jan(1, 9),
	}}

	result, err := f.service.CreateCourse(context.Background(), CreateCourseParams{
		Principal: Principal{UserID: "user-1"},
		Input:     validCourseInput(),
	})
	if err != nil {
		t.Fatalf("CreateCourse returned error: %v", err)
	}
	if !result.Persisted {
		t.Fatal("expected result to be persisted")
	}
	if result.Report.HasConflicts() {
		t.Fatalf("expected no conflicts, got %v", result.Report.Conflicts)
	}
}

func TestSchedulingService_CreateCourse_OverrideRequiresAdmin(t *testing.T) {
	t.Parallel()

	f := newSchedulingFixture()

	_, err := f.service.CreateCourse(context.Background(), CreateCourseParams{
		Principal: Principal{UserID: "user-1"},
		Input:     validCourseInput(),
		Override:  true,
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestSchedulingService_CreateCourse_OverridePersistsDespiteConflicts(t *testing.T) {
	t.Parallel()

	f := newSchedulingFixture()
	f.occurrences.occurrences = []Occurrence{{
		ID:        "existing-1",
		CourseID:  "course-existing",
		RoomID:    "room-1",
		TeacherID: "teacher-2",
		Start:     jan(1, 9),
		End:       jan(1, 10),
	}}

	result, err := f.service.CreateCourse(context.Background(), CreateCourseParams{
		Principal: Principal{UserID: "admin-1", IsAdmin: true},
		Input:     validCourseInput(),
		Override:  true,
	})
	if err != nil {
		t.Fatalf("CreateCourse returned error: %v", err)
	}
	if !result.Persisted {
		t.Fatal("expected result to be persisted")
	}
	if !result.Report.HasConflicts() {
		t.Fatal("expected the report to record the overridden conflicts")
	}
	if f.courses.created.ID == "" {
		t.Fatal("expected the course to reach the repository")
	}
}

func TestSchedulingService_CreateCourse_DryRunDoesNotPersist(t *testing.T) {
	t.Parallel()

	f := newSchedulingFixture()
	f.occurrences.occurrences = []Occurrence{{
		ID:        "existing-1",
		CourseID:  "course-existing",
		RoomID:    "room-1",
		TeacherID: "teacher-2",
		Start:     jan(1, 9),
		End:       jan(1, 10),
	}}

	result, err := f.service.CreateCourse(context.Background(), CreateCourseParams{
		Principal: Principal{UserID: "user-1"},
		Input:     validCourseInput(),
		DryRun:    true,
	})
	if err != nil {
		t.Fatalf("CreateCourse returned error: %v", err)
	}
	if result.Persisted {
		t.Fatal("expected a dry run to leave nothing persisted")
	}
	if !result.Report.HasConflicts() {
		t.Fatal("expected conflicts in the dry-run report")
	}
	if f.courses.created.ID != "" {
		t.Fatal("expected the repository to stay untouched")
	}
}

func TestSchedulingService_UpdateCourse_KeepsRecurrenceID(t *testing.T) {
	t.Parallel()

	f := newSchedulingFixture()
	recurrenceID := "rec-1"
	f.courses.course = Course{
		ID:           "course-1",
		Name:         "Algebra I",
		SubjectID:    "subject-1",
		TeacherID:    "teacher-1",
		RoomID:       "room-1",
		RecurrenceID: &recurrenceID,
		CreatedAt:    jan(1, 0),
	}

	result, err := f.service.UpdateCourse(context.Background(), UpdateCourseParams{
		Principal: Principal{UserID: "user-1"},
		CourseID:  "course-1",
		Input:     recurringCourseInput(10, time.Monday),
	})
	if err != nil {
		t.Fatalf("UpdateCourse returned error: %v", err)
	}

	if result.Course.RecurrenceID == nil || *result.Course.RecurrenceID != recurrenceID {
		t.Fatalf("expected recurrence id %q to survive the update, got %v", recurrenceID, result.Course.RecurrenceID)
	}
	if !result.Course.CreatedAt.Equal(jan(1, 0)) {
		t.Fatalf("expected created_at to be preserved, got %v", result.Course.CreatedAt)
	}
	if f.courses.replaced.ID != "course-1" {
		t.Fatalf("expected ReplaceCourse to receive course-1, got %q", f.courses.replaced.ID)
	}
}

func TestSchedulingService_UpdateCourse_IgnoresOwnOccurrences(t *testing.T) {
	t.Parallel()

	f := newSchedulingFixture()
	f.courses.course = Course{
		ID:        "course-1",
		Name:      "Algebra I",
		SubjectID: "subject-1",
		TeacherID: "teacher-1",
		RoomID:    "room-1",
		CreatedAt: jan(1, 0),
	}
	f.occurrences.occurrences = []Occurrence{{
		ID:        "occ-1",
		CourseID:  "course-1",
		RoomID:    "room-1",
		TeacherID: "teacher-1",
		Start:     jan(1, 9),
		End:       jan(1, 10),
	}}

	result, err := f.service.UpdateCourse(context.Background(), UpdateCourseParams{
		Principal: Principal{UserID: "user-1"},
		CourseID:  "course-1",
		Input:     validCourseInput(),
	})
	if err != nil {
		t.Fatalf("UpdateCourse returned error: %v", err)
	}
	if result.Report.HasConflicts() {
		t.Fatalf("expected the course's own occurrences to be skipped, got %v", result.Report.Conflicts)
	}
}

func TestSchedulingService_UpdateCourse_MissingCourse(t *testing.T) {
	t.Parallel()

	f := newSchedulingFixture()

	_, err := f.service.UpdateCourse(context.Background(), UpdateCourseParams{
		Principal: Principal{UserID: "user-1"},
		CourseID:  "course-missing",
		Input:     validCourseInput(),
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSchedulingService_DeleteOccurrence_SingleByDefault(t *testing.T) {
	t.Parallel()

	f := newSchedulingFixture()
	recurrenceID := "rec-1"
	f.occurrences.occurrences = []Occurrence{{
		ID:           "occ-2",
		CourseID:     "course-1",
		RecurrenceID: &recurrenceID,
		RoomID:       "room-1",
		TeacherID:    "teacher-1",
		Start:        jan(3, 9),
		End:          jan(3, 10),
	}}

	result, err := f.service.DeleteOccurrence(context.Background(), DeleteOccurrenceParams{
		Principal:    Principal{UserID: "user-1"},
		OccurrenceID: "occ-2",
	})
	if err != nil {
		t.Fatalf("DeleteOccurrence returned error: %v", err)
	}

	if result.CourseDeleted {
		t.Fatal("expected the course definition to survive a single deletion")
	}
	if result.DeletedOccurrences != 1 {
		t.Fatalf("expected 1 deleted occurrence, got %d", result.DeletedOccurrences)
	}
	if len(f.occurrences.deletedIDs) != 1 || f.occurrences.deletedIDs[0] != "occ-2" {
		t.Fatalf("expected occ-2 to be deleted, got %v", f.occurrences.deletedIDs)
	}
	if f.courses.deletedCourseID != "" {
		t.Fatal("expected the course row to survive a single deletion")
	}
}

func TestSchedulingService_DeleteOccurrence_WholeSeries(t *testing.T) {
	t.Parallel()

	f := newSchedulingFixture()
	recurrenceID := "rec-1"
	f.occurrences.occurrences = []Occurrence{{
		ID:           "occ-2",
		CourseID:     "course-1",
		RecurrenceID: &recurrenceID,
		RoomID:       "room-1",
		TeacherID:    "teacher-1",
		Start:        jan(3, 9),
		End:          jan(3, 10),
	}}
	f.courses.seriesDeleted = 5

	result, err := f.service.DeleteOccurrence(context.Background(), DeleteOccurrenceParams{
		Principal:    Principal{UserID: "user-1"},
		OccurrenceID: "occ-2",
		WholeSeries:  true,
	})
	if err != nil {
		t.Fatalf("DeleteOccurrence returned error: %v", err)
	}

	if !result.CourseDeleted {
		t.Fatal("expected the course definition to be deleted")
	}
	if result.DeletedOccurrences != 5 {
		t.Fatalf("expected 5 deleted occurrences, got %d", result.DeletedOccurrences)
	}
	if f.courses.deletedCourseID != "course-1" {
		t.Fatalf("expected course-1 to be deleted, got %q", f.courses.deletedCourseID)
	}
}

func TestSchedulingService_DeleteOccurrence_WholeSeriesStorageFailure(t *testing.T) {
	t.Parallel()

	f := newSchedulingFixture()
	recurrenceID := "rec-1"
	f.occurrences.occurrences = []Occurrence{{
		ID:           "occ-2",
		CourseID:     "course-1",
		RecurrenceID: &recurrenceID,
		RoomID:       "room-1",
		TeacherID:    "teacher-1",
		Start:        jan(3, 9),
		End:          jan(3, 10),
	}}
	f.courses.deleteErr = errors.New("disk full")

	_, err := f.service.DeleteOccurrence(context.Background(), DeleteOccurrenceParams{
		Principal:    Principal{UserID: "user-1"},
		OccurrenceID: "occ-2",
		WholeSeries:  true,
	})

	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("expected a StorageError, got %v", err)
	}
	if f.courses.deletedCourseID != "" {
		t.Fatal("expected the failed delete to record nothing")
	}
	if len(f.occurrences.deletedIDs) != 0 {
		t.Fatalf("expected no occurrences deleted outside the course delete, got %v", f.occurrences.deletedIDs)
	}
}

func TestSchedulingService_DeleteOccurrence_Missing(t *testing.T) {
	t.Parallel()

	f := newSchedulingFixture()

	_, err := f.service.DeleteOccurrence(context.Background(), DeleteOccurrenceParams{
		Principal:    Principal{UserID: "user-1"},
		OccurrenceID: "occ-missing",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSchedulingService_ListTimetable_GroupsSeries(t *testing.T) {
	t.Parallel()

	f := newSchedulingFixture()
	recurrenceID := "rec-1"
	f.occurrences.occurrences = []Occurrence{
		{ID: "occ-1", CourseID: "course-1", CourseName: "Algebra I", RecurrenceID: &recurrenceID, RoomID: "room-1", TeacherID: "teacher-1", Start: jan(1, 9), End: jan(1, 10)},
		{ID: "occ-2", CourseID: "course-1", CourseName: "Algebra I", RecurrenceID: &recurrenceID, RoomID: "room-1", TeacherID: "teacher-1", Start: jan(8, 9), End: jan(8, 10)},
		{ID: "occ-3", CourseID: "course-2", CourseName: "Physics", RoomID: "room-2", TeacherID: "teacher-2", Start: jan(2, 10), End: jan(2, 11)},
	}

	rows, err := f.service.ListTimetable(context.Background(), ListTimetableParams{
		Principal: Principal{UserID: "user-1"},
	})
	if err != nil {
		t.Fatalf("ListTimetable returned error: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	var series *timetable.SeriesSummary
	for _, row := range rows {
		if row.Kind == timetable.RowKindSeries {
			series = row.Series
		}
	}
	if series == nil {
		t.Fatal("expected a series row")
	}
	if series.OccurrenceCount != 2 {
		t.Fatalf("expected 2 occurrences in the series, got %d", series.OccurrenceCount)
	}
}

func TestSchedulingService_ListTimetable_FiltersByRoom(t *testing.T) {
	t.Parallel()

	f := newSchedulingFixture()
	f.occurrences.occurrences = []Occurrence{
		{ID: "occ-1", CourseID: "course-1", RoomID: "room-1", TeacherID: "teacher-1", Start: jan(1, 9), End: jan(1, 10)},
		{ID: "occ-2", CourseID: "course-2", RoomID: "room-2", TeacherID: "teacher-2", Start: jan(2, 10), End: jan(2, 11)},
	}

	roomID := "room-2"
	rows, err := f.service.ListTimetable(context.Background(), ListTimetableParams{
		Principal: Principal{UserID: "user-1"},
		RoomID:    &roomID,
	})
	if err != nil {
		t.Fatalf("ListTimetable returned error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Occurrence.ID != "occ-2" {
		t.Fatalf("expected occ-2, got %+v", rows[0])
	}
}

func TestSchedulingService_ListTimetable_WeekPeriod(t *testing.T) {
	t.Parallel()

	f := newSchedulingFixture()
	f.occurrences.occurrences = []Occurrence{
		{ID: "occ-1", CourseID: "course-1", RoomID: "room-1", TeacherID: "teacher-1", Start: jan(3, 9), End: jan(3, 10)},
		{ID: "occ-2", CourseID: "course-1", RoomID: "room-1", TeacherID: "teacher-1", Start: jan(10, 9), End: jan(10, 10)},
	}

	// The week containing Wednesday the 3rd runs Monday the 1st through
	// Sunday the 7th.
	rows, err := f.service.ListTimetable(context.Background(), ListTimetableParams{
		Principal:       Principal{UserID: "user-1"},
		Period:          TimetablePeriodWeek,
		PeriodReference: jan(3, 12),
	})
	if err != nil {
		t.Fatalf("ListTimetable returned error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Occurrence.ID != "occ-1" {
		t.Fatalf("expected occ-1, got %+v", rows[0])
	}
}

func TestSchedulingService_CheckCourse_ReportsWithoutPersisting(t *testing.T) {
	t.Parallel()

	f := newSchedulingFixture()
	f.occurrences.occurrences = []Occurrence{{
		ID:        "existing-1",
		CourseID:  "course-existing",
		RoomID:    "room-1",
		TeacherID: "teacher-2",
		Start:     jan(1, 9),
		End:       jan(1, 10),
	}}

	report, err := f.service.CheckCourse(context.Background(), CheckCourseParams{
		Principal: Principal{UserID: "user-1"},
		Input:     validCourseInput(),
	})
	if err != nil {
		t.Fatalf("CheckCourse returned error: %v", err)
	}
	if !report.HasConflicts() {
		t.Fatal("expected conflicts to be reported")
	}
	if f.courses.created.ID != "" {
		t.Fatal("expected nothing to be persisted")
	}
}

func TestSchedulingService_CheckCourse_CachesRepeatedChecks(t *testing.T) {
	t.Parallel()

	f := newSchedulingFixture()

	input := validCourseInput()
	if _, err := f.service.CheckCourse(context.Background(), CheckCourseParams{Principal: Principal{UserID: "user-1"}, Input: input}); err != nil {
		t.Fatalf("first CheckCourse returned error: %v", err)
	}

	calls := f.occurrences.listCalls
	if _, err := f.service.CheckCourse(context.Background(), CheckCourseParams{Principal: Principal{UserID: "user-1"}, Input: input}); err != nil {
		t.Fatalf("second CheckCourse returned error: %v", err)
	}
	if f.occurrences.listCalls != calls {
		t.Fatalf("expected the second check to be served from cache, got %d extra repository calls", f.occurrences.listCalls-calls)
	}
}

func TestSchedulingService_ListCourses_SortsByName(t *testing.T) {
	t.Parallel()

	f := newSchedulingFixture()
	f.courses.list = []Course{
		{ID: "course-2", Name: "geometry"},
		{ID: "course-3", Name: "Algebra I"},
		{ID: "course-1", Name: "Biology"},
	}

	courses, err := f.service.ListCourses(context.Background(), Principal{UserID: "user-1"})
	if err != nil {
		t.Fatalf("ListCourses returned error: %v", err)
	}

	got := make([]string, 0, len(courses))
	for _, course := range courses {
		got = append(got, course.Name)
	}
	want := []string{"Algebra I", "Biology", "geometry"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected order: got %v, want %v", got, want)
		}
	}
}

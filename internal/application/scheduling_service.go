package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/example/course-scheduler/internal/persistence"
	"github.com/example/course-scheduler/internal/recurrence"
	"github.com/example/course-scheduler/internal/scheduler"
	"github.com/example/course-scheduler/internal/timetable"
)

// CourseRepository captures the persistence interactions needed by the service.
// Writes that carry occurrences are atomic: the definition and every
// occurrence land together or not at all.
type CourseRepository interface {
	CreateCourse(ctx context.Context, course Course, occurrences []Occurrence) error
	ReplaceCourse(ctx context.Context, course Course, occurrences []Occurrence) error
	GetCourse(ctx context.Context, id string) (Course, error)
	ListCourses(ctx context.Context) ([]Course, error)
	// DeleteCourseWithSeries removes the definition and all of its
	// occurrences atomically, reporting how many occurrences went with it.
	DeleteCourseWithSeries(ctx context.Context, id string) (int, error)
}

// OccurrenceFilter narrows occurrence queries. Set fields are ANDed together;
// From/To select occurrences overlapping the half-open window [From, To).
type OccurrenceFilter struct {
	RoomID       *string
	TeacherID    *string
	RecurrenceID *string
	CourseID     *string
	From         *time.Time
	To           *time.Time
}

// OccurrenceRepository reads and removes materialized occurrences.
type OccurrenceRepository interface {
	GetOccurrence(ctx context.Context, id string) (Occurrence, error)
	ListOccurrences(ctx context.Context, filter OccurrenceFilter) ([]Occurrence, error)
	DeleteOccurrences(ctx context.Context, ids []string) error
}

// RoomCatalog exposes room lookup operations.
type RoomCatalog interface {
	RoomExists(ctx context.Context, id string) (bool, error)
}

// TeacherDirectory exposes teacher lookup operations.
type TeacherDirectory interface {
	TeacherExists(ctx context.Context, id string) (bool, error)
}

// SubjectCatalog exposes subject lookup operations.
type SubjectCatalog interface {
	SubjectExists(ctx context.Context, id string) (bool, error)
}

// HolidayCalendar supplies holiday dates for a closed date range.
type HolidayCalendar interface {
	HolidayDates(ctx context.Context, from, to time.Time) ([]time.Time, error)
}

// SchedulingService orchestrates validation, expansion, conflict detection
// and persistence for course operations.
type SchedulingService struct {
	courses     CourseRepository
	occurrences OccurrenceRepository
	rooms       RoomCatalog
	teachers    TeacherDirectory
	subjects    SubjectCatalog
	holidays    HolidayCalendar
	expander    *recurrence.Expander
	locks       *resourceLocks
	reports     *reportCache
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// SchedulingServiceConfig bundles the dependencies of a SchedulingService.
type SchedulingServiceConfig struct {
	Courses     CourseRepository
	Occurrences OccurrenceRepository
	Rooms       RoomCatalog
	Teachers    TeacherDirectory
	Subjects    SubjectCatalog
	Holidays    HolidayCalendar
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewSchedulingService wires dependencies for course operations.
func NewSchedulingService(cfg SchedulingServiceConfig) *SchedulingService {
	idGenerator := cfg.IDGenerator
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &SchedulingService{
		courses:     cfg.Courses,
		occurrences: cfg.Occurrences,
		rooms:       cfg.Rooms,
		teachers:    cfg.Teachers,
		subjects:    cfg.Subjects,
		holidays:    cfg.Holidays,
		expander:    recurrence.NewExpander(nil),
		locks:       newResourceLocks(),
		reports:     newReportCache(0, 0),
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(cfg.Logger),
	}
}

func (s *SchedulingService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "SchedulingService", operation, attrs...)
}

// CreateCourse validates the request, expands its occurrences, checks them
// for conflicts and persists the result. With DryRun set nothing is
// persisted; with Override set (administrators only) conflicts are recorded
// but do not block persistence.
func (s *SchedulingService) CreateCourse(ctx context.Context, params CreateCourseParams) (result CreateCourseResult, err error) {
	if s == nil {
		err = fmt.Errorf("SchedulingService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateCourse",
		"principal_id", params.Principal.UserID,
		"dry_run", params.DryRun,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create course", "error", err, "error_kind", ErrorKind(err))
			return
		}
		if params.DryRun {
			logger.InfoContext(ctx, "course checked", "conflicts", len(result.Report.Conflicts))
			return
		}
		logger.With("course_id", result.Course.ID).InfoContext(ctx, "course created",
			"occurrences", len(result.Occurrences), "conflicts", len(result.Report.Conflicts))
	}()

	if params.Override && !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	input := params.Input

	vErr := &ValidationError{}
	validateCourseCore(input, vErr)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	if err = s.ensureReferencesExist(ctx, input); err != nil {
		return
	}

	if !params.DryRun {
		release := s.locks.acquire(roomLockKey(input.RoomID), teacherLockKey(input.TeacherID))
		defer release()
	}

	course := s.buildCourse(s.idGenerator(), input)
	if input.IsRecurring {
		recurrenceID := s.idGenerator()
		course.RecurrenceID = &recurrenceID
	}

	occurrences, err := s.planOccurrences(ctx, course)
	if err != nil {
		return
	}

	report, err := s.detectConflicts(ctx, occurrences)
	if err != nil {
		return
	}

	result = CreateCourseResult{Course: course, Occurrences: occurrences, Report: report}

	if params.DryRun {
		return
	}

	if report.HasConflicts() && !params.Override {
		result = CreateCourseResult{}
		err = &ConflictError{Report: report}
		return
	}

	if err = s.courses.CreateCourse(ctx, course, occurrences); err != nil {
		result = CreateCourseResult{}
		err = mapCourseRepoError("create course", err)
		return
	}

	s.reports.Invalidate()
	result.Persisted = true
	return
}

// UpdateCourse reschedules an existing course. The definition and its
// occurrence set are replaced as a unit; the course and recurrence identity
// survive the rewrite so series membership stays stable.
func (s *SchedulingService) UpdateCourse(ctx context.Context, params UpdateCourseParams) (result CreateCourseResult, err error) {
	if s == nil {
		err = fmt.Errorf("SchedulingService is nil")
		return
	}

	logger := s.loggerWith(ctx, "UpdateCourse",
		"principal_id", params.Principal.UserID,
		"course_id", params.CourseID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update course", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "course updated",
			"occurrences", len(result.Occurrences), "conflicts", len(result.Report.Conflicts))
	}()

	if params.Override && !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	existing, err := s.courses.GetCourse(ctx, params.CourseID)
	if err != nil {
		err = mapCourseRepoError("load course", err)
		return
	}

	input := params.Input

	vErr := &ValidationError{}
	validateCourseCore(input, vErr)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	if err = s.ensureReferencesExist(ctx, input); err != nil {
		return
	}

	release := s.locks.acquire(roomLockKey(input.RoomID), teacherLockKey(input.TeacherID))
	defer release()

	course := s.buildCourse(existing.ID, input)
	course.CreatedAt = existing.CreatedAt
	if input.IsRecurring {
		if existing.RecurrenceID != nil {
			course.RecurrenceID = existing.RecurrenceID
		} else {
			recurrenceID := s.idGenerator()
			course.RecurrenceID = &recurrenceID
		}
	}

	occurrences, err := s.planOccurrences(ctx, course)
	if err != nil {
		return
	}

	// The detector skips occurrences of the course being edited, so the old
	// occurrence set never conflicts with its own replacement.
	report, err := s.detectConflicts(ctx, occurrences)
	if err != nil {
		return
	}

	if report.HasConflicts() && !params.Override {
		err = &ConflictError{Report: report}
		return
	}

	if err = s.courses.ReplaceCourse(ctx, course, occurrences); err != nil {
		err = mapCourseRepoError("replace course", err)
		return
	}

	s.reports.Invalidate()
	result = CreateCourseResult{Course: course, Occurrences: occurrences, Report: report, Persisted: true}
	return
}

// DeleteOccurrence removes a single occurrence, or the whole series plus its
// course definition when WholeSeries is set.
func (s *SchedulingService) DeleteOccurrence(ctx context.Context, params DeleteOccurrenceParams) (result DeleteOccurrenceResult, err error) {
	if s == nil {
		err = fmt.Errorf("SchedulingService is nil")
		return
	}

	logger := s.loggerWith(ctx, "DeleteOccurrence",
		"principal_id", params.Principal.UserID,
		"occurrence_id", params.OccurrenceID,
		"whole_series", params.WholeSeries,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to delete occurrence", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "occurrence deleted",
			"deleted", result.DeletedOccurrences, "course_deleted", result.CourseDeleted)
	}()

	occurrence, err := s.occurrences.GetOccurrence(ctx, params.OccurrenceID)
	if err != nil {
		err = mapCourseRepoError("load occurrence", err)
		return
	}

	release := s.locks.acquire(roomLockKey(occurrence.RoomID), teacherLockKey(occurrence.TeacherID))
	defer release()

	if params.WholeSeries {
		var deleted int
		deleted, err = s.courses.DeleteCourseWithSeries(ctx, occurrence.CourseID)
		if err != nil {
			err = mapCourseRepoError("delete course", err)
			return
		}
		s.reports.Invalidate()
		result = DeleteOccurrenceResult{DeletedOccurrences: deleted, CourseDeleted: true}
		return
	}

	if err = s.occurrences.DeleteOccurrences(ctx, []string{params.OccurrenceID}); err != nil {
		err = mapCourseRepoError("delete occurrence", err)
		return
	}

	s.reports.Invalidate()
	result = DeleteOccurrenceResult{DeletedOccurrences: 1}
	return
}

// ListCourses returns every course definition sorted by name for any
// authenticated user.
func (s *SchedulingService) ListCourses(ctx context.Context, principal Principal) ([]Course, error) {
	if s == nil {
		return nil, fmt.Errorf("SchedulingService is nil")
	}
	if s.courses == nil {
		return nil, fmt.Errorf("course repository not configured")
	}

	courses, err := s.courses.ListCourses(ctx)
	if err != nil {
		return nil, mapCourseRepoError("list courses", err)
	}

	sort.Slice(courses, func(i, j int) bool {
		left := strings.ToLower(courses[i].Name)
		right := strings.ToLower(courses[j].Name)
		if left == right {
			return courses[i].ID < courses[j].ID
		}
		return left < right
	})
	return courses, nil
}

// ListTimetable lists occurrences matching the requested filters, grouped so
// each recurring series collapses into a single summary row.
func (s *SchedulingService) ListTimetable(ctx context.Context, params ListTimetableParams) ([]timetable.DisplayRow, error) {
	if s == nil {
		return nil, fmt.Errorf("SchedulingService is nil")
	}
	if s.occurrences == nil {
		return nil, fmt.Errorf("occurrence repository not configured")
	}

	filter := buildTimetableFilter(params)

	occurrences, err := s.occurrences.ListOccurrences(ctx, filter)
	if err != nil {
		if isNotFoundError(err) {
			return nil, nil
		}
		return nil, mapCourseRepoError("list occurrences", err)
	}

	return timetable.Group(toSchedulerOccurrences(occurrences)), nil
}

// CheckCourse runs the full scheduling pipeline without persisting anything
// and reports the conflicts the course would create. Identical back-to-back
// checks are served from a short-lived cache.
func (s *SchedulingService) CheckCourse(ctx context.Context, params CheckCourseParams) (scheduler.Report, error) {
	if s == nil {
		return scheduler.Report{}, fmt.Errorf("SchedulingService is nil")
	}

	key := buildReportCacheKey("", params.Input)
	if report, ok := s.reports.Get(key); ok {
		return report, nil
	}

	result, err := s.CreateCourse(ctx, CreateCourseParams{
		Principal: params.Principal,
		Input:     params.Input,
		DryRun:    true,
	})
	if err != nil {
		return scheduler.Report{}, err
	}

	s.reports.Store(key, result.Report)
	return result.Report, nil
}

func (s *SchedulingService) buildCourse(id string, input CourseInput) Course {
	now := s.now()
	return Course{
		ID:                id,
		Name:              strings.TrimSpace(input.Name),
		SubjectID:         input.SubjectID,
		TeacherID:         input.TeacherID,
		RoomID:            input.RoomID,
		StartTime:         input.StartTime,
		DurationMinutes:   input.DurationMinutes,
		IsRecurring:       input.IsRecurring,
		Pattern:           input.Pattern.Normalize(),
		RecurrenceEndDate: input.RecurrenceEndDate,
		ExcludeHolidays:   input.ExcludeHolidays,
		Description:       input.Description,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// planOccurrences materializes the course definition into concrete
// occurrences with generated ids.
func (s *SchedulingService) planOccurrences(ctx context.Context, course Course) ([]Occurrence, error) {
	def := recurrence.Definition{
		Start:           course.StartTime,
		Duration:        time.Duration(course.DurationMinutes) * time.Minute,
		Recurring:       course.IsRecurring,
		Pattern:         course.Pattern,
		ExcludeHolidays: course.ExcludeHolidays,
	}
	if course.RecurrenceEndDate != nil {
		def.EndDate = *course.RecurrenceEndDate
	}

	var holidays recurrence.HolidaySet
	if course.ExcludeHolidays && s.holidays != nil && course.IsRecurring && course.RecurrenceEndDate != nil {
		dates, err := s.holidays.HolidayDates(ctx, course.StartTime, *course.RecurrenceEndDate)
		if err != nil {
			return nil, mapCourseRepoError("load holidays", err)
		}
		holidays = recurrence.NewHolidaySet(dates...)
	}

	slots, err := s.expander.Expand(def, holidays)
	if err != nil {
		return nil, mapExpansionError(err)
	}
	if len(slots) == 0 {
		vErr := &ValidationError{}
		vErr.add("recurrence", "no occurrences fall inside the recurrence window")
		return nil, vErr
	}

	occurrences := make([]Occurrence, 0, len(slots))
	for _, slot := range slots {
		occurrences = append(occurrences, Occurrence{
			ID:           s.idGenerator(),
			CourseID:     course.ID,
			CourseName:   course.Name,
			RecurrenceID: course.RecurrenceID,
			RoomID:       course.RoomID,
			TeacherID:    course.TeacherID,
			Start:        slot.Start,
			End:          slot.End,
		})
	}
	return occurrences, nil
}

// detectConflicts loads every persisted occurrence sharing the candidates'
// room or teacher inside the candidates' overall window and runs the
// detector against them.
func (s *SchedulingService) detectConflicts(ctx context.Context, candidates []Occurrence) (scheduler.Report, error) {
	if len(candidates) == 0 || s.occurrences == nil {
		return scheduler.Report{}, nil
	}

	from := candidates[0].Start
	to := candidates[0].End
	for _, candidate := range candidates[1:] {
		if candidate.Start.Before(from) {
			from = candidate.Start
		}
		if candidate.End.After(to) {
			to = candidate.End
		}
	}

	roomID := candidates[0].RoomID
	teacherID := candidates[0].TeacherID

	byRoom, err := s.occurrences.ListOccurrences(ctx, OccurrenceFilter{
		RoomID: &roomID,
		From:   &from,
		To:     &to,
	})
	if err != nil && !isNotFoundError(err) {
		return scheduler.Report{}, mapCourseRepoError("list occurrences", err)
	}

	byTeacher, err := s.occurrences.ListOccurrences(ctx, OccurrenceFilter{
		TeacherID: &teacherID,
		From:      &from,
		To:        &to,
	})
	if err != nil && !isNotFoundError(err) {
		return scheduler.Report{}, mapCourseRepoError("list occurrences", err)
	}

	existing := mergeOccurrences(byRoom, byTeacher)
	return scheduler.Check(toSchedulerOccurrences(candidates), toSchedulerOccurrences(existing)), nil
}

func (s *SchedulingService) ensureReferencesExist(ctx context.Context, input CourseInput) error {
	vErr := &ValidationError{}

	if s.subjects != nil {
		exists, err := s.subjects.SubjectExists(ctx, input.SubjectID)
		if err != nil {
			return mapCourseRepoError("check subject", err)
		}
		if !exists {
			vErr.add("subject_id", "subject does not exist")
		}
	}
	if s.teachers != nil {
		exists, err := s.teachers.TeacherExists(ctx, input.TeacherID)
		if err != nil {
			return mapCourseRepoError("check teacher", err)
		}
		if !exists {
			vErr.add("teacher_id", "teacher does not exist")
		}
	}
	if s.rooms != nil {
		exists, err := s.rooms.RoomExists(ctx, input.RoomID)
		if err != nil {
			return mapCourseRepoError("check room", err)
		}
		if !exists {
			vErr.add("room_id", "room does not exist")
		}
	}

	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

func validateCourseCore(input CourseInput, vErr *ValidationError) {
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if input.SubjectID == "" {
		vErr.add("subject_id", "subject is required")
	}
	if input.TeacherID == "" {
		vErr.add("teacher_id", "teacher is required")
	}
	if input.RoomID == "" {
		vErr.add("room_id", "room is required")
	}
	if input.StartTime.IsZero() {
		vErr.add("start_time", "start time is required")
	}
	if input.DurationMinutes < 15 || input.DurationMinutes > 480 {
		vErr.add("duration_minutes", "must be between 15 and 480 minutes")
	}

	if !input.IsRecurring {
		return
	}

	if input.Pattern.IsEmpty() {
		vErr.add("pattern", "at least one weekday is required")
	}
	if input.RecurrenceEndDate == nil {
		vErr.add("recurrence_end_date", "end date is required for recurring courses")
		return
	}
	if !input.StartTime.IsZero() && !input.RecurrenceEndDate.After(input.StartTime) {
		vErr.add("recurrence_end_date", "end date must be after the start time")
	}
}

func buildTimetableFilter(params ListTimetableParams) OccurrenceFilter {
	from := params.From
	to := params.To

	if params.Period != TimetablePeriodNone {
		start, end := computePeriodRange(params.Period, params.PeriodReference)
		if from == nil {
			from = &start
		}
		if to == nil {
			to = &end
		}
	}

	return OccurrenceFilter{
		RoomID:    params.RoomID,
		TeacherID: params.TeacherID,
		From:      from,
		To:        to,
	}
}

func computePeriodRange(period TimetablePeriod, reference time.Time) (time.Time, time.Time) {
	switch period {
	case TimetablePeriodDay:
		start := startOfDay(reference)
		return start, start.AddDate(0, 0, 1)
	case TimetablePeriodWeek:
		start := startOfWeek(reference)
		return start, start.AddDate(0, 0, 7)
	case TimetablePeriodMonth:
		start := startOfMonth(reference)
		return start, start.AddDate(0, 1, 0)
	default:
		return time.Time{}, time.Time{}
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func startOfWeek(t time.Time) time.Time {
	start := startOfDay(t)
	weekday := int(start.Weekday())
	// Adjust so Monday is start of week. In Go, Monday == 1, Sunday == 0.
	offset := (weekday + 6) % 7
	return start.AddDate(0, 0, -offset)
}

func startOfMonth(t time.Time) time.Time {
	start := startOfDay(t)
	return time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location())
}

func toSchedulerOccurrences(occurrences []Occurrence) []scheduler.Occurrence {
	if len(occurrences) == 0 {
		return nil
	}
	converted := make([]scheduler.Occurrence, 0, len(occurrences))
	for _, occurrence := range occurrences {
		recurrenceID := ""
		if occurrence.RecurrenceID != nil {
			recurrenceID = *occurrence.RecurrenceID
		}
		converted = append(converted, scheduler.Occurrence{
			ID:           occurrence.ID,
			CourseID:     occurrence.CourseID,
			CourseName:   occurrence.CourseName,
			RecurrenceID: recurrenceID,
			RoomID:       occurrence.RoomID,
			TeacherID:    occurrence.TeacherID,
			Start:        occurrence.Start,
			End:          occurrence.End,
		})
	}
	return converted
}

func mergeOccurrences(groups ...[]Occurrence) []Occurrence {
	seen := make(map[string]struct{})
	merged := make([]Occurrence, 0)
	for _, group := range groups {
		for _, occurrence := range group {
			if _, ok := seen[occurrence.ID]; ok {
				continue
			}
			seen[occurrence.ID] = struct{}{}
			merged = append(merged, occurrence)
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Start.Equal(merged[j].Start) {
			return merged[i].ID < merged[j].ID
		}
		return merged[i].Start.Before(merged[j].Start)
	})
	return merged
}

func mapExpansionError(err error) error {
	vErr := &ValidationError{}
	switch {
	case errors.Is(err, recurrence.ErrInvalidDuration):
		vErr.add("duration_minutes", "must be between 15 and 480 minutes")
	case errors.Is(err, recurrence.ErrEmptyPattern):
		vErr.add("pattern", "at least one weekday is required")
	case errors.Is(err, recurrence.ErrUnboundedWindow):
		vErr.add("recurrence_end_date", "end date is required for recurring courses")
	default:
		return err
	}
	return vErr
}

func mapCourseRepoError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	if errors.Is(err, persistence.ErrConstraintViolation) {
		vErr := &ValidationError{}
		vErr.add("duration_minutes", "must be between 15 and 480 minutes")
		return vErr
	}
	if errors.Is(err, persistence.ErrForeignKeyViolation) {
		vErr := &ValidationError{}
		vErr.add("references", "related records are missing")
		return vErr
	}
	return &StorageError{Op: op, Err: err}
}

func isNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound)
}

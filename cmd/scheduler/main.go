package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/course-scheduler/internal/application"
	"github.com/example/course-scheduler/internal/config"
	httptransport "github.com/example/course-scheduler/internal/http"
	"github.com/example/course-scheduler/internal/persistence"
	"github.com/example/course-scheduler/internal/persistence/sqlite"
	"github.com/example/course-scheduler/internal/persistence/sqlite/migration"
	"github.com/example/course-scheduler/internal/recurrence"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.Open(migration.DefaultSQLiteConfig(cfg.SQLiteDSN), logger)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := store.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	tokenGenerator := func() string { return randomHex(32) }
	now := time.Now

	schedulingService := application.NewSchedulingService(application.SchedulingServiceConfig{
		Courses:     newCourseRepositoryAdapter(store.Courses),
		Occurrences: newOccurrenceRepositoryAdapter(store.Occurrences),
		Rooms:       &roomCatalogAdapter{repo: store.Rooms},
		Teachers:    &teacherDirectoryAdapter{repo: store.Teachers},
		Subjects:    &subjectCatalogAdapter{repo: store.Subjects},
		Holidays:    &holidayCalendarAdapter{repo: store.Holidays},
		IDGenerator: idGenerator,
		Now:         now,
		Logger:      logger,
	})
	roomService := application.NewRoomServiceWithLogger(newRoomRepositoryAdapter(store.Rooms), idGenerator, now, logger)
	teacherService := application.NewTeacherService(newTeacherRepositoryAdapter(store.Teachers), idGenerator, now, logger)
	subjectService := application.NewSubjectService(newSubjectRepositoryAdapter(store.Subjects), idGenerator, now)
	holidayService := application.NewHolidayService(newHolidayRepositoryAdapter(store.Holidays), idGenerator, now, logger)
	userService := application.NewUserService(newUserRepositoryAdapter(store.Users), &teacherDirectoryAdapter{repo: store.Teachers}, idGenerator, now)
	authService := application.NewAuthServiceWithLogger(
		newCredentialStoreAdapter(store.Users),
		newSessionRepositoryAdapter(store.Sessions),
		nil,
		tokenGenerator,
		now,
		cfg.SessionTTL,
		logger,
	)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:      httptransport.NewAuthHandler(authService, logger),
		Courses:   httptransport.NewCourseHandler(schedulingService, logger),
		Timetable: httptransport.NewTimetableHandler(schedulingService, logger),
		Rooms:     httptransport.NewRoomHandler(roomService, logger),
		Teachers:  httptransport.NewTeacherHandler(teacherService, logger),
		Subjects:  httptransport.NewSubjectHandler(subjectService, logger),
		Holidays:  httptransport.NewHolidayHandler(holidayService, logger),
		Users:     httptransport.NewUserHandler(userService, logger),
	})

	protected := httptransport.RequireSession(authService, logger)(router)
	handler := httptransport.RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Login and logout manage their own credentials.
		if strings.EqualFold(r.URL.Path, "/login") || strings.EqualFold(r.URL.Path, "/logout") {
			router.ServeHTTP(w, r)
			return
		}
		protected.ServeHTTP(w, r)
	}))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("course scheduler API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

func randomHex(bytes int) string {
	if bytes <= 0 {
		bytes = 16
	}
	buf := make([]byte, bytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}

type courseRepositoryAdapter struct {
	repo persistence.CourseRepository
}

func newCourseRepositoryAdapter(repo persistence.CourseRepository) *courseRepositoryAdapter {
	return &courseRepositoryAdapter{repo: repo}
}

func (a *courseRepositoryAdapter) CreateCourse(ctx context.Context, course application.Course, occurrences []application.Occurrence) error {
	stored, err := toPersistenceCourse(course)
	if err != nil {
		return err
	}
	return a.repo.CreateCourse(ctx, stored, toPersistenceOccurrences(course, occurrences))
}

func (a *courseRepositoryAdapter) ReplaceCourse(ctx context.Context, course application.Course, occurrences []application.Occurrence) error {
	stored, err := toPersistenceCourse(course)
	if err != nil {
		return err
	}
	return a.repo.ReplaceCourse(ctx, stored, toPersistenceOccurrences(course, occurrences))
}

func (a *courseRepositoryAdapter) GetCourse(ctx context.Context, id string) (application.Course, error) {
	stored, err := a.repo.GetCourse(ctx, id)
	if err != nil {
		return application.Course{}, err
	}
	return toApplicationCourse(stored)
}

func (a *courseRepositoryAdapter) ListCourses(ctx context.Context) ([]application.Course, error) {
	models, err := a.repo.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	courses := make([]application.Course, 0, len(models))
	for _, model := range models {
		course, err := toApplicationCourse(model)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, nil
}

func (a *courseRepositoryAdapter) DeleteCourseWithSeries(ctx context.Context, id string) (int, error) {
	return a.repo.DeleteCourseWithSeries(ctx, id)
}

type occurrenceRepositoryAdapter struct {
	repo persistence.OccurrenceRepository
}

func newOccurrenceRepositoryAdapter(repo persistence.OccurrenceRepository) *occurrenceRepositoryAdapter {
	return &occurrenceRepositoryAdapter{repo: repo}
}

func (a *occurrenceRepositoryAdapter) GetOccurrence(ctx context.Context, id string) (application.Occurrence, error) {
	stored, err := a.repo.GetOccurrence(ctx, id)
	if err != nil {
		return application.Occurrence{}, err
	}
	return toApplicationOccurrence(stored), nil
}

func (a *occurrenceRepositoryAdapter) ListOccurrences(ctx context.Context, filter application.OccurrenceFilter) ([]application.Occurrence, error) {
	models, err := a.repo.ListOccurrences(ctx, persistence.OccurrenceFilter{
		RoomID:       cloneString(filter.RoomID),
		TeacherID:    cloneString(filter.TeacherID),
		RecurrenceID: cloneString(filter.RecurrenceID),
		CourseID:     cloneString(filter.CourseID),
		From:         cloneTime(filter.From),
		To:           cloneTime(filter.To),
	})
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	occurrences := make([]application.Occurrence, 0, len(models))
	for _, model := range models {
		occurrences = append(occurrences, toApplicationOccurrence(model))
	}
	return occurrences, nil
}

func (a *occurrenceRepositoryAdapter) DeleteOccurrences(ctx context.Context, ids []string) error {
	return a.repo.DeleteOccurrences(ctx, ids)
}

type roomCatalogAdapter struct {
	repo persistence.RoomRepository
}

func (a *roomCatalogAdapter) RoomExists(ctx context.Context, id string) (bool, error) {
	if _, err := a.repo.GetRoom(ctx, id); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

type teacherDirectoryAdapter struct {
	repo persistence.TeacherRepository
}

func (a *teacherDirectoryAdapter) TeacherExists(ctx context.Context, id string) (bool, error) {
	if _, err := a.repo.GetTeacher(ctx, id); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

type subjectCatalogAdapter struct {
	repo persistence.SubjectRepository
}

func (a *subjectCatalogAdapter) SubjectExists(ctx context.Context, id string) (bool, error) {
	if _, err := a.repo.GetSubject(ctx, id); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

type holidayCalendarAdapter struct {
	repo persistence.HolidayRepository
}

func (a *holidayCalendarAdapter) HolidayDates(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	holidays, err := a.repo.ListHolidays(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if len(holidays) == 0 {
		return nil, nil
	}
	dates := make([]time.Time, 0, len(holidays))
	for _, holiday := range holidays {
		dates = append(dates, holiday.Date)
	}
	return dates, nil
}

type roomRepositoryAdapter struct {
	repo persistence.RoomRepository
}

func newRoomRepositoryAdapter(repo persistence.RoomRepository) *roomRepositoryAdapter {
	return &roomRepositoryAdapter{repo: repo}
}

func (a *roomRepositoryAdapter) CreateRoom(ctx context.Context, room application.Room) (application.Room, error) {
	if err := a.repo.CreateRoom(ctx, toPersistenceRoom(room)); err != nil {
		return application.Room{}, err
	}
	stored, err := a.repo.GetRoom(ctx, room.ID)
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(stored), nil
}

func (a *roomRepositoryAdapter) GetRoom(ctx context.Context, id string) (application.Room, error) {
	stored, err := a.repo.GetRoom(ctx, id)
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(stored), nil
}

func (a *roomRepositoryAdapter) UpdateRoom(ctx context.Context, room application.Room) (application.Room, error) {
	if err := a.repo.UpdateRoom(ctx, toPersistenceRoom(room)); err != nil {
		return application.Room{}, err
	}
	stored, err := a.repo.GetRoom(ctx, room.ID)
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(stored), nil
}

func (a *roomRepositoryAdapter) DeleteRoom(ctx context.Context, id string) error {
	return a.repo.DeleteRoom(ctx, id)
}

func (a *roomRepositoryAdapter) ListRooms(ctx context.Context) ([]application.Room, error) {
	models, err := a.repo.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	rooms := make([]application.Room, 0, len(models))
	for _, model := range models {
		rooms = append(rooms, toApplicationRoom(model))
	}
	return rooms, nil
}

type teacherRepositoryAdapter struct {
	repo persistence.TeacherRepository
}

func newTeacherRepositoryAdapter(repo persistence.TeacherRepository) *teacherRepositoryAdapter {
	return &teacherRepositoryAdapter{repo: repo}
}

func (a *teacherRepositoryAdapter) CreateTeacher(ctx context.Context, teacher application.Teacher) (application.Teacher, error) {
	if err := a.repo.CreateTeacher(ctx, toPersistenceTeacher(teacher)); err != nil {
		return application.Teacher{}, err
	}
	stored, err := a.repo.GetTeacher(ctx, teacher.ID)
	if err != nil {
		return application.Teacher{}, err
	}
	return toApplicationTeacher(stored), nil
}

func (a *teacherRepositoryAdapter) GetTeacher(ctx context.Context, id string) (application.Teacher, error) {
	stored, err := a.repo.GetTeacher(ctx, id)
	if err != nil {
		return application.Teacher{}, err
	}
	return toApplicationTeacher(stored), nil
}

func (a *teacherRepositoryAdapter) UpdateTeacher(ctx context.Context, teacher application.Teacher) (application.Teacher, error) {
	if err := a.repo.UpdateTeacher(ctx, toPersistenceTeacher(teacher)); err != nil {
		return application.Teacher{}, err
	}
	stored, err := a.repo.GetTeacher(ctx, teacher.ID)
	if err != nil {
		return application.Teacher{}, err
	}
	return toApplicationTeacher(stored), nil
}

func (a *teacherRepositoryAdapter) DeleteTeacher(ctx context.Context, id string) error {
	return a.repo.DeleteTeacher(ctx, id)
}

func (a *teacherRepositoryAdapter) ListTeachers(ctx context.Context) ([]application.Teacher, error) {
	models, err := a.repo.ListTeachers(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	teachers := make([]application.Teacher, 0, len(models))
	for _, model := range models {
		teachers = append(teachers, toApplicationTeacher(model))
	}
	return teachers, nil
}

type subjectRepositoryAdapter struct {
	repo persistence.SubjectRepository
}

func newSubjectRepositoryAdapter(repo persistence.SubjectRepository) *subjectRepositoryAdapter {
	return &subjectRepositoryAdapter{repo: repo}
}

func (a *subjectRepositoryAdapter) CreateSubject(ctx context.Context, subject application.Subject) (application.Subject, error) {
	if err := a.repo.CreateSubject(ctx, toPersistenceSubject(subject)); err != nil {
		return application.Subject{}, err
	}
	stored, err := a.repo.GetSubject(ctx, subject.ID)
	if err != nil {
		return application.Subject{}, err
	}
	return toApplicationSubject(stored), nil
}

func (a *subjectRepositoryAdapter) GetSubject(ctx context.Context, id string) (application.Subject, error) {
	stored, err := a.repo.GetSubject(ctx, id)
	if err != nil {
		return application.Subject{}, err
	}
	return toApplicationSubject(stored), nil
}

func (a *subjectRepositoryAdapter) UpdateSubject(ctx context.Context, subject application.Subject) (application.Subject, error) {
	if err := a.repo.UpdateSubject(ctx, toPersistenceSubject(subject)); err != nil {
		return application.Subject{}, err
	}
	stored, err := a.repo.GetSubject(ctx, subject.ID)
	if err != nil {
		return application.Subject{}, err
	}
	return toApplicationSubject(stored), nil
}

func (a *subjectRepositoryAdapter) DeleteSubject(ctx context.Context, id string) error {
	return a.repo.DeleteSubject(ctx, id)
}

func (a *subjectRepositoryAdapter) ListSubjects(ctx context.Context) ([]application.Subject, error) {
	models, err := a.repo.ListSubjects(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	subjects := make([]application.Subject, 0, len(models))
	for _, model := range models {
		subjects = append(subjects, toApplicationSubject(model))
	}
	return subjects, nil
}

type holidayRepositoryAdapter struct {
	repo persistence.HolidayRepository
}

func newHolidayRepositoryAdapter(repo persistence.HolidayRepository) *holidayRepositoryAdapter {
	return &holidayRepositoryAdapter{repo: repo}
}

func (a *holidayRepositoryAdapter) CreateHoliday(ctx context.Context, holiday application.Holiday) (application.Holiday, error) {
	if err := a.repo.CreateHoliday(ctx, toPersistenceHoliday(holiday)); err != nil {
		return application.Holiday{}, err
	}
	return holiday, nil
}

func (a *holidayRepositoryAdapter) UpdateHoliday(ctx context.Context, holiday application.Holiday) (application.Holiday, error) {
	if err := a.repo.UpdateHoliday(ctx, toPersistenceHoliday(holiday)); err != nil {
		return application.Holiday{}, err
	}
	return holiday, nil
}

func (a *holidayRepositoryAdapter) ListHolidays(ctx context.Context, from, to time.Time) ([]application.Holiday, error) {
	models, err := a.repo.ListHolidays(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	holidays := make([]application.Holiday, 0, len(models))
	for _, model := range models {
		holidays = append(holidays, application.Holiday{ID: model.ID, Date: model.Date, Name: model.Name})
	}
	return holidays, nil
}

func (a *holidayRepositoryAdapter) DeleteHoliday(ctx context.Context, id string) error {
	return a.repo.DeleteHoliday(ctx, id)
}

type userRepositoryAdapter struct {
	repo persistence.UserRepository
}

func newUserRepositoryAdapter(repo persistence.UserRepository) *userRepositoryAdapter {
	return &userRepositoryAdapter{repo: repo}
}

func (a *userRepositoryAdapter) CreateUser(ctx context.Context, user application.User) (application.User, error) {
	// New accounts start with their id as the password until it is reset.
	hash, err := application.CreatePasswordHash(user.ID, application.DefaultArgon2idParams)
	if err != nil {
		return application.User{}, err
	}
	if err := a.repo.CreateUser(ctx, toPersistenceUser(user, hash)); err != nil {
		return application.User{}, err
	}
	stored, err := a.repo.GetUser(ctx, user.ID)
	if err != nil {
		return application.User{}, err
	}
	return toApplicationUser(stored), nil
}

func (a *userRepositoryAdapter) GetUser(ctx context.Context, id string) (application.User, error) {
	stored, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return application.User{}, err
	}
	return toApplicationUser(stored), nil
}

func (a *userRepositoryAdapter) UpdateUser(ctx context.Context, user application.User) (application.User, error) {
	current, err := a.repo.GetUser(ctx, user.ID)
	if err != nil {
		return application.User{}, err
	}
	if err := a.repo.UpdateUser(ctx, toPersistenceUser(user, current.PasswordHash)); err != nil {
		return application.User{}, err
	}
	stored, err := a.repo.GetUser(ctx, user.ID)
	if err != nil {
		return application.User{}, err
	}
	return toApplicationUser(stored), nil
}

func (a *userRepositoryAdapter) DeleteUser(ctx context.Context, id string) error {
	return a.repo.DeleteUser(ctx, id)
}

func (a *userRepositoryAdapter) ListUsers(ctx context.Context) ([]application.User, error) {
	models, err := a.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	users := make([]application.User, 0, len(models))
	for _, model := range models {
		users = append(users, toApplicationUser(model))
	}
	return users, nil
}

type credentialStoreAdapter struct {
	repo persistence.UserRepository
}

func newCredentialStoreAdapter(repo persistence.UserRepository) *credentialStoreAdapter {
	return &credentialStoreAdapter{repo: repo}
}

func (a *credentialStoreAdapter) GetUserCredentialsByEmail(ctx context.Context, email string) (application.UserCredentials, error) {
	stored, err := a.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return application.UserCredentials{}, err
	}
	return application.UserCredentials{
		User:           toApplicationUser(stored),
		PasswordHash:   stored.PasswordHash,
		Disabled:       stored.Disabled,
		FailedAttempts: stored.FailedAttempts,
		LastFailedAt:   cloneTime(stored.LastFailedAt),
	}, nil
}

func (a *credentialStoreAdapter) GetUser(ctx context.Context, id string) (application.User, error) {
	stored, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return application.User{}, err
	}
	return toApplicationUser(stored), nil
}

type sessionRepositoryAdapter struct {
	repo persistence.SessionRepository
}

func newSessionRepositoryAdapter(repo persistence.SessionRepository) *sessionRepositoryAdapter {
	return &sessionRepositoryAdapter{repo: repo}
}

func (a *sessionRepositoryAdapter) CreateSession(ctx context.Context, session application.Session) (application.Session, error) {
	stored, err := a.repo.CreateSession(ctx, toPersistenceSession(session))
	if err != nil {
		return application.Session{}, err
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) GetSession(ctx context.Context, token string) (application.Session, error) {
	stored, err := a.repo.GetSession(ctx, token)
	if err != nil {
		return application.Session{}, err
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (application.Session, error) {
	stored, err := a.repo.RevokeSession(ctx, token, revokedAt)
	if err != nil {
		return application.Session{}, err
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	return a.repo.DeleteExpiredSessions(ctx, reference)
}

func toPersistenceCourse(course application.Course) (persistence.Course, error) {
	var patternJSON *string
	if course.IsRecurring && !course.Pattern.IsEmpty() {
		encoded, err := json.Marshal(course.Pattern)
		if err != nil {
			return persistence.Course{}, fmt.Errorf("encode recurrence pattern: %w", err)
		}
		value := string(encoded)
		patternJSON = &value
	}
	return persistence.Course{
		ID:                course.ID,
		Name:              course.Name,
		SubjectID:         course.SubjectID,
		TeacherID:         course.TeacherID,
		RoomID:            course.RoomID,
		StartTime:         course.StartTime,
		DurationMinutes:   course.DurationMinutes,
		IsRecurring:       course.IsRecurring,
		PatternJSON:       patternJSON,
		RecurrenceEndDate: cloneTime(course.RecurrenceEndDate),
		ExcludeHolidays:   course.ExcludeHolidays,
		RecurrenceID:      cloneString(course.RecurrenceID),
		Description:       cloneString(course.Description),
		CreatedAt:         course.CreatedAt,
		UpdatedAt:         course.UpdatedAt,
	}, nil
}

func toApplicationCourse(model persistence.Course) (application.Course, error) {
	var pattern recurrence.Pattern
	if model.PatternJSON != nil && *model.PatternJSON != "" {
		if err := json.Unmarshal([]byte(*model.PatternJSON), &pattern); err != nil {
			return application.Course{}, fmt.Errorf("decode recurrence pattern for course %s: %w", model.ID, err)
		}
	}
	return application.Course{
		ID:                model.ID,
		Name:              model.Name,
		SubjectID:         model.SubjectID,
		TeacherID:         model.TeacherID,
		RoomID:            model.RoomID,
		StartTime:         model.StartTime,
		DurationMinutes:   model.DurationMinutes,
		IsRecurring:       model.IsRecurring,
		Pattern:           pattern,
		RecurrenceEndDate: cloneTime(model.RecurrenceEndDate),
		ExcludeHolidays:   model.ExcludeHolidays,
		RecurrenceID:      cloneString(model.RecurrenceID),
		Description:       cloneString(model.Description),
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}, nil
}

func toPersistenceOccurrences(course application.Course, occurrences []application.Occurrence) []persistence.Occurrence {
	out := make([]persistence.Occurrence, 0, len(occurrences))
	for _, occ := range occurrences {
		out = append(out, persistence.Occurrence{
			ID:           occ.ID,
			CourseID:     occ.CourseID,
			CourseName:   course.Name,
			RecurrenceID: cloneString(occ.RecurrenceID),
			RoomID:       occ.RoomID,
			TeacherID:    occ.TeacherID,
			Start:        occ.Start,
			End:          occ.End,
			CreatedAt:    course.UpdatedAt,
		})
	}
	return out
}

func toApplicationOccurrence(model persistence.Occurrence) application.Occurrence {
	return application.Occurrence{
		ID:           model.ID,
		CourseID:     model.CourseID,
		CourseName:   model.CourseName,
		RecurrenceID: cloneString(model.RecurrenceID),
		RoomID:       model.RoomID,
		TeacherID:    model.TeacherID,
		Start:        model.Start,
		End:          model.End,
	}
}

func toApplicationRoom(model persistence.Room) application.Room {
	return application.Room{
		ID:        model.ID,
		Name:      model.Name,
		Location:  model.Location,
		Capacity:  model.Capacity,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func toPersistenceRoom(room application.Room) persistence.Room {
	return persistence.Room{
		ID:        room.ID,
		Name:      room.Name,
		Location:  room.Location,
		Capacity:  room.Capacity,
		CreatedAt: room.CreatedAt,
		UpdatedAt: room.UpdatedAt,
	}
}

func toApplicationTeacher(model persistence.Teacher) application.Teacher {
	return application.Teacher{
		ID:        model.ID,
		Name:      model.Name,
		Email:     model.Email,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func toPersistenceTeacher(teacher application.Teacher) persistence.Teacher {
	return persistence.Teacher{
		ID:        teacher.ID,
		Name:      teacher.Name,
		Email:     teacher.Email,
		CreatedAt: teacher.CreatedAt,
		UpdatedAt: teacher.UpdatedAt,
	}
}

func toApplicationSubject(model persistence.Subject) application.Subject {
	return application.Subject{
		ID:        model.ID,
		Name:      model.Name,
		Code:      model.Code,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func toPersistenceSubject(subject application.Subject) persistence.Subject {
	return persistence.Subject{
		ID:        subject.ID,
		Name:      subject.Name,
		Code:      subject.Code,
		CreatedAt: subject.CreatedAt,
		UpdatedAt: subject.UpdatedAt,
	}
}

func toPersistenceHoliday(holiday application.Holiday) persistence.Holiday {
	return persistence.Holiday{ID: holiday.ID, Date: holiday.Date, Name: holiday.Name}
}

func toApplicationUser(model persistence.User) application.User {
	return application.User{
		ID:          model.ID,
		Email:       model.Email,
		DisplayName: model.DisplayName,
		IsAdmin:     model.IsAdmin,
		TeacherID:   cloneString(model.TeacherID),
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func toPersistenceUser(user application.User, passwordHash string) persistence.User {
	return persistence.User{
		ID:           user.ID,
		Email:        user.Email,
		DisplayName:  user.DisplayName,
		PasswordHash: passwordHash,
		IsAdmin:      user.IsAdmin,
		TeacherID:    cloneString(user.TeacherID),
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

func toApplicationSession(model persistence.Session) application.Session {
	return application.Session{
		ID:          model.ID,
		UserID:      model.UserID,
		Token:       model.Token,
		Fingerprint: model.Fingerprint,
		ExpiresAt:   model.ExpiresAt,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
		RevokedAt:   cloneTime(model.RevokedAt),
	}
}

func toPersistenceSession(session application.Session) persistence.Session {
	return persistence.Session{
		ID:          session.ID,
		UserID:      session.UserID,
		Token:       session.Token,
		Fingerprint: session.Fingerprint,
		ExpiresAt:   session.ExpiresAt,
		CreatedAt:   session.CreatedAt,
		UpdatedAt:   session.UpdatedAt,
		RevokedAt:   cloneTime(session.RevokedAt),
	}
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}

func cloneTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}

package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/course-scheduler/internal/application"
)

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// SchedulingServiceDeps captures dependencies for constructing a scheduling service.
type SchedulingServiceDeps struct {
	Courses     application.CourseRepository
	Occurrences application.OccurrenceRepository
	Rooms       application.RoomCatalog
	Teachers    application.TeacherDirectory
	Subjects    application.SubjectCatalog
	Holidays    application.HolidayCalendar
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewSchedulingService builds a scheduling service using the supplied
// dependencies combined with the factory defaults.
func (f *ServiceFactory) NewSchedulingService(deps SchedulingServiceDeps) *application.SchedulingService {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewSchedulingService(application.SchedulingServiceConfig{
		Courses:     deps.Courses,
		Occurrences: deps.Occurrences,
		Rooms:       deps.Rooms,
		Teachers:    deps.Teachers,
		Subjects:    deps.Subjects,
		Holidays:    deps.Holidays,
		IDGenerator: idGen,
		Now:         now,
		Logger:      deps.Logger,
	})
}

// RoomServiceDeps captures dependencies for constructing a room service.
type RoomServiceDeps struct {
	Rooms       application.RoomRepository
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewRoomService builds a room service using the supplied dependencies.
func (f *ServiceFactory) NewRoomService(deps RoomServiceDeps) *application.RoomService {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewRoomServiceWithLogger(
		deps.Rooms,
		idGen,
		now,
		deps.Logger,
	)
}

// TeacherServiceDeps captures dependencies for constructing a teacher service.
type TeacherServiceDeps struct {
	Teachers    application.TeacherRepository
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewTeacherService builds a teacher service using the supplied dependencies.
func (f *ServiceFactory) NewTeacherService(deps TeacherServiceDeps) *application.TeacherService {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewTeacherService(
		deps.Teachers,
		idGen,
		now,
		deps.Logger,
	)
}

// SubjectServiceDeps captures dependencies for constructing a subject service.
type SubjectServiceDeps struct {
	Subjects    application.SubjectRepository
	IDGenerator func() string
	Now         func() time.Time
}

// NewSubjectService builds a subject service using the supplied dependencies.
func (f *ServiceFactory) NewSubjectService(deps SubjectServiceDeps) *application.SubjectService {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewSubjectService(
		deps.Subjects,
		idGen,
		now,
	)
}

// HolidayServiceDeps captures dependencies for constructing a holiday service.
type HolidayServiceDeps struct {
	Holidays    application.HolidayRepository
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewHolidayService builds a holiday service using the supplied dependencies.
func (f *ServiceFactory) NewHolidayService(deps HolidayServiceDeps) *application.HolidayService {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewHolidayService(
		deps.Holidays,
		idGen,
		now,
		deps.Logger,
	)
}

// UserServiceDeps captures dependencies for constructing a user service.
type UserServiceDeps struct {
	Users       application.UserRepository
	Teachers    application.TeacherDirectory
	IDGenerator func() string
	Now         func() time.Time
}

// NewUserService builds a user service using the supplied dependencies.
func (f *ServiceFactory) NewUserService(deps UserServiceDeps) *application.UserService {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewUserService(
		deps.Users,
		deps.Teachers,
		idGen,
		now,
	)
}

// AuthServiceDeps captures dependencies for constructing an auth service.
type AuthServiceDeps struct {
	Credentials    application.CredentialStore
	Sessions       application.SessionRepository
	PasswordVerify application.PasswordVerifier
	TokenGenerator func() string
	Now            func() time.Time
	SessionTTL     time.Duration
	Logger         *slog.Logger
}

// NewAuthService builds an auth service using the supplied dependencies.
func (f *ServiceFactory) NewAuthService(deps AuthServiceDeps) *application.AuthService {
	token := deps.TokenGenerator
	if token == nil {
		token = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewAuthServiceWithLogger(
		deps.Credentials,
		deps.Sessions,
		deps.PasswordVerify,
		token,
		now,
		deps.SessionTTL,
		deps.Logger,
	)
}

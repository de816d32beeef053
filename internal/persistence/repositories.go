package persistence

import (
	"context"
	"time"
)

// OccurrenceFilter narrows occurrence queries. Set fields are ANDed together.
// From/To select occurrences overlapping the half-open window [From, To).
type OccurrenceFilter struct {
	RoomID       *string
	TeacherID    *string
	RecurrenceID *string
	CourseID     *string
	From         *time.Time
	To           *time.Time
}

// CourseRepository stores course definitions together with their materialized
/// occurrences. Writes that touch both are atomic: either the definition and
// every occurrence land, or nothing does.
type CourseRepository interface {
	// CreateCourse persists the definition and its occurrence batch in one
	// transaction.
	CreateCourse(ctx context.Context, course Course, occurrences []Occurrence) error
	// ReplaceCourse rewrites the definition and regenerates its occurrences
	// in one transaction, preserving the course and recurrence identity.
	ReplaceCourse(ctx context.Context, course Course, occurrences []Occurrence) error
	GetCourse(ctx context.Context, id string) (Course, error)
	ListCourses(ctx context.Context) ([]Course, error)
	// DeleteCourse removes the definition and, through cascade, all of its
	// occurrences.
	DeleteCourse(ctx context.Context, id string) error
	// DeleteCourseWithSeries removes the definition and its occurrences in
	// one transaction, reporting how many occurrences were dropped.
	DeleteCourseWithSeries(ctx context.Context, id string) (int, error)
}

// OccurrenceRepository reads and removes materialized occurrences.
type OccurrenceRepository interface {
	GetOccurrence(ctx context.Context, id string) (Occurrence, error)
	ListOccurrences(ctx context.Context, filter OccurrenceFilter) ([]Occurrence, error)
	// DeleteOccurrences removes the identified occurrences atomically; a
	// missing id fails the whole batch.
	DeleteOccurrences(ctx context.Context, ids []string) error
	// DeleteSeries removes every occurrence sharing the recurrence id and
	// returns how many were removed.
	DeleteSeries(ctx context.Context, recurrenceID string) (int, error)
}

// RoomRepository exposes CRUD operations for rooms.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) error
	UpdateRoom(ctx context.Context, room Room) error
	GetRoom(ctx context.Context, id string) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	DeleteRoom(ctx context.Context, id string) error
}

// TeacherRepository exposes CRUD operations for teachers.
type TeacherRepository interface {
	CreateTeacher(ctx context.Context, teacher Teacher) error
	UpdateTeacher(ctx context.Context, teacher Teacher) error
	GetTeacher(ctx context.Context, id string) (Teacher, error)
	ListTeachers(ctx context.Context) ([]Teacher, error)
	DeleteTeacher(ctx context.Context, id string) error
}

// SubjectRepository exposes CRUD operations for subjects.
type SubjectRepository interface {
	CreateSubject(ctx context.Context, subject Subject) error
	UpdateSubject(ctx context.Context, subject Subject) error
	GetSubject(ctx context.Context, id string) (Subject, error)
	ListSubjects(ctx context.Context) ([]Subject, error)
	DeleteSubject(ctx context.Context, id string) error
}

// HolidayRepository stores the school's non-teaching dates.
type HolidayRepository interface {
	CreateHoliday(ctx context.Context, holiday Holiday) error
	UpdateHoliday(ctx context.Context, holiday Holiday) error
	ListHolidays(ctx context.Context, from, to time.Time) ([]Holiday, error)
	DeleteHoliday(ctx context.Context, id string) error
}

// UserRepository exposes CRUD operations for staff accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	UpdateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	DeleteUser(ctx context.Context, id string) error
}

// SessionRepository stores authentication session state.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSession(ctx context.Context, token string) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error)
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}

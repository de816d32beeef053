package application

import (
	"time"

	"github.com/example/course-scheduler/internal/recurrence"
	"github.com/example/course-scheduler/internal/scheduler"
)

// Principal represents the authenticated user invoking a service method.
type Principal struct {
	UserID  string
	IsAdmin bool
}

// CourseInput captures caller provided course fields.
type CourseInput struct {
	Name              string
	SubjectID         string
	TeacherID         string
	RoomID            string
	StartTime         time.Time
	DurationMinutes   int
	IsRecurring       bool
	Pattern           recurrence.Pattern
	RecurrenceEndDate *time.Time
	ExcludeHolidays   bool
	Description       *string
}

// Course represents a persisted course definition.
type Course struct {
	ID                string
	Name              string
	SubjectID         string
	TeacherID         string
	RoomID            string
	StartTime         time.Time
	DurationMinutes   int
	IsRecurring       bool
	Pattern           recurrence.Pattern
	RecurrenceEndDate *time.Time
	ExcludeHolidays   bool
	RecurrenceID      *string
	Description       *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Occurrence is one concrete timetable slot belonging to a course.
type Occurrence struct {
	ID           string
	CourseID     string
	CourseName   string
	RecurrenceID *string
	RoomID       string
	TeacherID    string
	Start        time.Time
	End          time.Time
}

// CreateCourseParams wraps the data required to schedule a course.
type CreateCourseParams struct {
	Principal Principal
	Input     CourseInput
	// DryRun runs validation, expansion and conflict detection without
	// persisting anything.
	DryRun bool
	// Override persists the course even when conflicts were detected.
	// Admin only.
	Override bool
}

// CreateCourseResult carries the outcome of scheduling or checking a course.
type CreateCourseResult struct {
	Course      Course
	Occurrences []Occurrence
	Report      scheduler.Report
	// Persisted is false for dry runs.
	Persisted bool
}

// UpdateCourseParams wraps the data required to reschedule an existing course.
type UpdateCourseParams struct {
	Principal Principal
	CourseID  string
	Input     CourseInput
	Override  bool
}

// DeleteOccurrenceParams identifies an occurrence to remove. WholeSeries
// widens the deletion to every occurrence sharing the recurrence id plus the
// course definition; the default removes exactly the one occurrence.
type DeleteOccurrenceParams struct {
	Principal    Principal
	OccurrenceID string
	WholeSeries  bool
}

// DeleteOccurrenceResult reports what a deletion removed.
type DeleteOccurrenceResult struct {
	DeletedOccurrences int
	CourseDeleted      bool
}

// TimetablePeriod identifies the range preset requested for timetable listings.
type TimetablePeriod string

const (
	// TimetablePeriodNone indicates no preset; caller supplied explicit bounds.
	TimetablePeriodNone TimetablePeriod = ""
	// TimetablePeriodDay constrains results to a single day.
	TimetablePeriodDay TimetablePeriod = "day"
	// TimetablePeriodWeek constrains results to the Monday-start week containing the reference time.
	TimetablePeriodWeek TimetablePeriod = "week"
	// TimetablePeriodMonth constrains results to the month containing the reference time.
	TimetablePeriodMonth TimetablePeriod = "month"
)

// ListTimetableParams wraps the data required to list grouped timetable rows.
type ListTimetableParams struct {
	Principal       Principal
	RoomID          *string
	TeacherID       *string
	From            *time.Time
	To              *time.Time
	Period          TimetablePeriod
	PeriodReference time.Time
}

// CheckCourseParams wraps the data for a conflict check without persistence.
type CheckCourseParams struct {
	Principal Principal
	Input     CourseInput
}

// RoomInput captures caller provided room fields.
type RoomInput struct {
	Name     string
	Location string
	Capacity int
}

// Room represents a catalog entry for a physical classroom.
type Room struct {
	ID        string
	Name      string
	Location  string
	Capacity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateRoomParams wraps the data required to create a room.
type CreateRoomParams struct {
	Principal Principal
	Input     RoomInput
}

// UpdateRoomParams wraps the data required to update a room.
type UpdateRoomParams struct {
	Principal Principal
	RoomID    string
	Input     RoomInput
}

// TeacherInput captures caller provided teacher fields.
type TeacherInput struct {
	Name  string
	Email string
}

// Teacher represents a catalog entry for teaching staff.
type Teacher struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateTeacherParams wraps the data required to create a teacher.
type CreateTeacherParams struct {
	Principal Principal
	Input     TeacherInput
}

// UpdateTeacherParams wraps the data required to update a teacher.
type UpdateTeacherParams struct {
	Principal Principal
	TeacherID string
	Input     TeacherInput
}

// SubjectInput captures caller provided subject fields.
type SubjectInput struct {
	Name string
	Code string
}

// Subject represents a catalog entry for a taught subject.
type Subject struct {
	ID        string
	Name      string
	Code      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateSubjectParams wraps the data required to create a subject.
type CreateSubjectParams struct {
	Principal Principal
	Input     SubjectInput
}

// UpdateSubjectParams wraps the data required to update a subject.
type UpdateSubjectParams struct {
	Principal Principal
	SubjectID string
	Input     SubjectInput
}

// HolidayInput captures caller provided holiday fields.
type HolidayInput struct {
	Date time.Time
	Name string
}

// Holiday represents one non-teaching calendar date.
type Holiday struct {
	ID   string
	Date time.Time
	Name string
}

// CreateHolidayParams wraps the data required to create a holiday.
type CreateHolidayParams struct {
	Principal Principal
	Input     HolidayInput
}

// UpdateHolidayParams wraps the data required to update a holiday.
type UpdateHolidayParams struct {
	Principal Principal
	HolidayID string
	Input     HolidayInput
}

// ListHolidaysParams wraps the bounds for a holiday listing.
type ListHolidaysParams struct {
	Principal Principal
	From      time.Time
	To        time.Time
}

// UserInput captures caller provided user attributes.
type UserInput struct {
	Email       string
	DisplayName string
	IsAdmin     bool
	TeacherID   *string
}

// User represents a staff account exposed by the application services.
// TeacherID links the account to an entry in the teacher directory when the
// staff member also teaches.
type User struct {
	ID          string
	Email       string
	DisplayName string
	IsAdmin     bool
	TeacherID   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateUserParams wraps the data required to create a user.
type CreateUserParams struct {
	Principal Principal
	Input     UserInput
}

// UpdateUserParams wraps the data required to update a user.
type UpdateUserParams struct {
	Principal Principal
	UserID    string
	Input     UserInput
}

// UserCredentials models the authentication attributes persisted for a user.
type UserCredentials struct {
	User           User
	PasswordHash   string
	Disabled       bool
	FailedAttempts int
	LastFailedAt   *time.Time
}

// Session represents an authenticated session issued to a user.
type Session struct {
	ID          string
	UserID      string
	Token       string
	Fingerprint string
	ExpiresAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	RevokedAt   *time.Time
}

// AuthenticateParams captures the data required to authenticate a user.
type AuthenticateParams struct {
	Email       string
	Password    string
	Fingerprint string
}

// AuthenticateResult captures the outcome of a successful authentication attempt.
type AuthenticateResult struct {
	User    User
	Session Session
}

package persistence

import "time"

// Course is the stored form of an authored course definition.
//
// PatternJSON keeps the recurrence pattern in its wire form
// ({"days":["Monday",...]}) for compatibility with previously stored data;
// callers decode it into the typed pattern at the boundary.
type Course struct {
	ID                string
	Name              string
	SubjectID         string
	TeacherID         string
	RoomID            string
	StartTime         time.Time
	DurationMinutes   int
	IsRecurring       bool
	PatternJSON       *string
	RecurrenceEndDate *time.Time
	ExcludeHolidays   bool
	RecurrenceID      *string
	Description       *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Occurrence is one stored timetable slot materialized from a course.
// CourseName is denormalized into query results for presentation and
// conflict reporting; it is not a column of the occurrences table.
type Occurrence struct {
	ID           string
	CourseID     string
	CourseName   string
	RecurrenceID *string
	RoomID       string
	TeacherID    string
	Start        time.Time
	End          time.Time
	CreatedAt    time.Time
}

// Room is a catalog entry for a physical classroom.
type Room struct {
	ID        string
	Name      string
	Location  string
	Capacity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Teacher is a catalog entry for teaching staff that can be booked.
type Teacher struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Subject is a catalog entry for a taught subject.
type Subject struct {
	ID        string
	Name      string
	Code      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Holiday is one non-teaching calendar date.
type Holiday struct {
	ID   string
	Date time.Time
	Name string
}

// User is a staff account that operates the dashboard.
type User struct {
	ID             string
	Email          string
	DisplayName    string
	IsAdmin        bool
	TeacherID      *string
	PasswordHash   string
	Disabled       bool
	FailedAttempts int
	LastFailedAt   *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Session is an authentication session persisted for a user.
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

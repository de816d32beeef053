package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/course-scheduler/internal/application"
	"github.com/example/course-scheduler/internal/persistence"
	"github.com/example/course-scheduler/internal/recurrence"
	"github.com/example/course-scheduler/internal/scheduler"
)

var (
	userCounter    uint64
	roomCounter    uint64
	teacherCounter uint64
	subjectCounter uint64
	courseCounter  uint64
	holidayCounter uint64
	sessionCounter uint64
)

var referenceTime = time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- User fixtures -----------------------------

// UserFixture represents a deterministic staff account that can be
// materialised for application or persistence tests.
type UserFixture struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	IsAdmin      bool
	TeacherID    *string
	Disabled     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserOption configures the generated user fixture.
type UserOption func(*UserFixture)

// NewUserFixture returns a deterministic user fixture with optional overrides.
func NewUserFixture(opts ...UserOption) UserFixture {
	idx := atomic.AddUint64(&userCounter, 1)
	id := fmt.Sprintf("user-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := UserFixture{
		ID:           id,
		Email:        fmt.Sprintf("%s@example.com", id),
		DisplayName:  fmt.Sprintf("User %03d", idx),
		PasswordHash: fmt.Sprintf("hash-%03d", idx),
		IsAdmin:      false,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithUserID overrides the generated user ID.
func WithUserID(id string) UserOption {
	return func(f *UserFixture) {
		f.ID = id
	}
}

// WithUserEmail overrides the generated email address.
func WithUserEmail(email string) UserOption {
	return func(f *UserFixture) {
		f.Email = email
	}
}

// WithUserDisplayName overrides the generated display name.
func WithUserDisplayName(name string) UserOption {
	return func(f *UserFixture) {
		f.DisplayName = name
	}
}

// WithUserPasswordHash overrides the generated password hash.
func WithUserPasswordHash(hash string) UserOption {
	return func(f *UserFixture) {
		f.PasswordHash = hash
	}
}

// WithUserAdmin sets the admin flag on the generated fixture.
func WithUserAdmin(isAdmin bool) UserOption {
	return func(f *UserFixture) {
		f.IsAdmin = isAdmin
	}
}

// WithUserTeacher links the account to a teacher directory entry.
func WithUserTeacher(teacherID string) UserOption {
	return func(f *UserFixture) {
		f.TeacherID = &teacherID
	}
}

// WithUserDisabled marks the account as disabled.
func WithUserDisabled() UserOption {
	return func(f *UserFixture) {
		f.Disabled = true
	}
}

// WithUserTimestamps sets both created and updated timestamps on the fixture.
func WithUserTimestamps(created, updated time.Time) UserOption {
	return func(f *UserFixture) {
		f.CreatedAt = created
		f.UpdatedAt = updated
	}
}

// Application returns the fixture as an application.User value.
func (f UserFixture) Application() application.User {
	return application.User{
		ID:          f.ID,
		Email:       f.Email,
		DisplayName: f.DisplayName,
		IsAdmin:     f.IsAdmin,
		TeacherID:   copyStringPtr(f.TeacherID),
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// Credentials returns the fixture as application.UserCredentials.
func (f UserFixture) Credentials() application.UserCredentials {
	return application.UserCredentials{
		User:         f.Application(),
		PasswordHash: f.PasswordHash,
		Disabled:     f.Disabled,
	}
}

// Principal returns an application.Principal derived from the fixture.
func (f UserFixture) Principal() application.Principal {
	return application.Principal{UserID: f.ID, IsAdmin: f.IsAdmin}
}

// Persistence returns the fixture as a persistence.User value.
func (f UserFixture) Persistence() persistence.User {
	return persistence.User{
		ID:           f.ID,
		Email:        f.Email,
		DisplayName:  f.DisplayName,
		PasswordHash: f.PasswordHash,
		IsAdmin:      f.IsAdmin,
		TeacherID:    copyStringPtr(f.TeacherID),
		Disabled:     f.Disabled,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

// Input returns the fixture as an application.UserInput.
func (f UserFixture) Input() application.UserInput {
	return application.UserInput{
		Email:       f.Email,
		DisplayName: f.DisplayName,
		IsAdmin:     f.IsAdmin,
		TeacherID:   copyStringPtr(f.TeacherID),
	}
}

// ----------------------------- Room fixtures -----------------------------

// RoomFixture represents a deterministic classroom record.
type RoomFixture struct {
	ID        string
	Name      string
	Location  string
	Capacity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RoomOption configures the generated room fixture.
type RoomOption func(*RoomFixture)

// NewRoomFixture returns a deterministic room fixture with optional overrides.
func NewRoomFixture(opts ...RoomOption) RoomFixture {
	idx := atomic.AddUint64(&roomCounter, 1)
	id := fmt.Sprintf("room-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Hour)
	fixture := RoomFixture{
		ID:        id,
		Name:      fmt.Sprintf("Room %03d", idx),
		Location:  "Main Building",
		Capacity:  int(20 + idx%10),
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithRoomID overrides the generated room ID.
func WithRoomID(id string) RoomOption {
	return func(f *RoomFixture) {
		f.ID = id
	}
}

// WithRoomName overrides the generated room name.
func WithRoomName(name string) RoomOption {
	return func(f *RoomFixture) {
		f.Name = name
	}
}

// WithRoomLocation overrides the generated location.
func WithRoomLocation(location string) RoomOption {
	return func(f *RoomFixture) {
		f.Location = location
	}
}

// WithRoomCapacity overrides the generated capacity.
func WithRoomCapacity(capacity int) RoomOption {
	return func(f *RoomFixture) {
		f.Capacity = capacity
	}
}

// WithRoomTimestamps sets both created and updated timestamps.
func WithRoomTimestamps(created, updated time.Time) RoomOption {
	return func(f *RoomFixture) {
		f.CreatedAt = created
		f.UpdatedAt = updated
	}
}

// Application returns the fixture as an application.Room value.
func (f RoomFixture) Application() application.Room {
	return application.Room{
		ID:        f.ID,
		Name:      f.Name,
		Location:  f.Location,
		Capacity:  f.Capacity,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// Persistence returns the fixture as a persistence.Room value.
func (f RoomFixture) Persistence() persistence.Room {
	return persistence.Room{
		ID:        f.ID,
		Name:      f.Name,
		Location:  f.Location,
		Capacity:  f.Capacity,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// Input returns the fixture as an application.RoomInput.
func (f RoomFixture) Input() application.RoomInput {
	return application.RoomInput{
		Name:     f.Name,
		Location: f.Location,
		Capacity: f.Capacity,
	}
}

// ---------------------------- Teacher fixtures ---------------------------

// TeacherFixture represents a deterministic teacher record.
type TeacherFixture struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TeacherOption configures the generated teacher fixture.
type TeacherOption func(*TeacherFixture)

// NewTeacherFixture returns a deterministic teacher fixture with optional overrides.
func NewTeacherFixture(opts ...TeacherOption) TeacherFixture {
	idx := atomic.AddUint64(&teacherCounter, 1)
	id := fmt.Sprintf("teacher-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := TeacherFixture{
		ID:        id,
		Name:      fmt.Sprintf("Teacher %03d", idx),
		Email:     fmt.Sprintf("%s@school.example.com", id),
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithTeacherID overrides the generated teacher ID.
func WithTeacherID(id string) TeacherOption {
	return func(f *TeacherFixture) {
		f.ID = id
	}
}

// WithTeacherName overrides the generated name.
func WithTeacherName(name string) TeacherOption {
	return func(f *TeacherFixture) {
		f.Name = name
	}
}

// WithTeacherEmail overrides the generated email address.
func WithTeacherEmail(email string) TeacherOption {
	return func(f *TeacherFixture) {
		f.Email = email
	}
}

// Application returns the fixture as an application.Teacher value.
func (f TeacherFixture) Application() application.Teacher {
	return application.Teacher{
		ID:        f.ID,
		Name:      f.Name,
		Email:     f.Email,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// Persistence returns the fixture as a persistence.Teacher value.
func (f TeacherFixture) Persistence() persistence.Teacher {
	return persistence.Teacher{
		ID:        f.ID,
		Name:      f.Name,
		Email:     f.Email,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// Input returns the fixture as an application.TeacherInput.
func (f TeacherFixture) Input() application.TeacherInput {
	return application.TeacherInput{Name: f.Name, Email: f.Email}
}

// ---------------------------- Subject fixtures ---------------------------

// SubjectFixture represents a deterministic subject record.
type SubjectFixture struct {
	ID        string
	Name      string
	Code      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SubjectOption configures the generated subject fixture.
type SubjectOption func(*SubjectFixture)

// NewSubjectFixture returns a deterministic subject fixture with optional overrides.
func NewSubjectFixture(opts ...SubjectOption) SubjectFixture {
	idx := atomic.AddUint64(&subjectCounter, 1)
	id := fmt.Sprintf("subject-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := SubjectFixture{
		ID:        id,
		Name:      fmt.Sprintf("Subject %03d", idx),
		Code:      fmt.Sprintf("SUB%03d", idx),
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithSubjectID overrides the generated subject ID.
func WithSubjectID(id string) SubjectOption {
	return func(f *SubjectFixture) {
		f.ID = id
	}
}

// WithSubjectName overrides the generated name.
func WithSubjectName(name string) SubjectOption {
	return func(f *SubjectFixture) {
		f.Name = name
	}
}

// WithSubjectCode overrides the generated code.
func WithSubjectCode(code string) SubjectOption {
	return func(f *SubjectFixture) {
		f.Code = code
	}
}

// Application returns the fixture as an application.Subject value.
func (f SubjectFixture) Application() application.Subject {
	return application.Subject{
		ID:        f.ID,
		Name:      f.Name,
		Code:      f.Code,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// Persistence returns the fixture as a persistence.Subject value.
func (f SubjectFixture) Persistence() persistence.Subject {
	return persistence.Subject{
		ID:        f.ID,
		Name:      f.Name,
		Code:      f.Code,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// Input returns the fixture as an application.SubjectInput.
func (f SubjectFixture) Input() application.SubjectInput {
	return application.SubjectInput{Name: f.Name, Code: f.Code}
}

// ---------------------------- Course fixtures ----------------------------

// CourseFixture represents a deterministic course definition together with
// its materialised occurrences.
type CourseFixture struct {
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
	Occurrences       []application.Occurrence
}

// CourseOption configures the generated course fixture.
type CourseOption func(*CourseFixture)

// NewCourseFixture returns a deterministic one-off course fixture with a
// single occurrence. Options may turn it into a recurring series.
func NewCourseFixture(opts ...CourseOption) CourseFixture {
	idx := atomic.AddUint64(&courseCounter, 1)
	id := fmt.Sprintf("course-%03d", idx)
	start := referenceTime.Add(time.Duration(idx) * time.Hour)
	fixture := CourseFixture{
		ID:              id,
		Name:            fmt.Sprintf("Course %03d", idx),
		SubjectID:       fmt.Sprintf("subject-%03d", idx),
		TeacherID:       fmt.Sprintf("teacher-%03d", idx),
		RoomID:          fmt.Sprintf("room-%03d", idx),
		StartTime:       start,
		DurationMinutes: 60,
		CreatedAt:       referenceTime,
		UpdatedAt:       referenceTime,
		Occurrences: []application.Occurrence{{
			ID:        fmt.Sprintf("occurrence-%03d", idx),
			CourseID:  id,
			RoomID:    fmt.Sprintf("room-%03d", idx),
			TeacherID: fmt.Sprintf("teacher-%03d", idx),
			Start:     start,
			End:       start.Add(time.Hour),
		}},
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithCourseID overrides the course ID.
func WithCourseID(id string) CourseOption {
	return func(f *CourseFixture) {
		f.ID = id
	}
}

// WithCourseName overrides the course name.
func WithCourseName(name string) CourseOption {
	return func(f *CourseFixture) {
		f.Name = name
	}
}

// WithCourseSubject sets the subject ID.
func WithCourseSubject(id string) CourseOption {
	return func(f *CourseFixture) {
		f.SubjectID = id
	}
}

// WithCourseTeacher sets the teacher ID on the course and its occurrences.
func WithCourseTeacher(id string) CourseOption {
	return func(f *CourseFixture) {
		f.TeacherID = id
		for i := range f.Occurrences {
			f.Occurrences[i].TeacherID = id
		}
	}
}

// WithCourseRoom sets the room ID on the course and its occurrences.
func WithCourseRoom(id string) CourseOption {
	return func(f *CourseFixture) {
		f.RoomID = id
		for i := range f.Occurrences {
			f.Occurrences[i].RoomID = id
		}
	}
}

// WithCourseStart sets the first start time and duration.
func WithCourseStart(start time.Time, durationMinutes int) CourseOption {
	return func(f *CourseFixture) {
		f.StartTime = start
		f.DurationMinutes = durationMinutes
	}
}

// WithCourseRecurrence turns the fixture into a weekly series. The supplied
// occurrences replace the generated single slot.
func WithCourseRecurrence(recurrenceID string, pattern recurrence.Pattern, endDate time.Time, occurrences []application.Occurrence) CourseOption {
	return func(f *CourseFixture) {
		id := recurrenceID
		end := endDate
		f.IsRecurring = true
		f.RecurrenceID = &id
		f.Pattern = pattern
		f.RecurrenceEndDate = &end
		f.Occurrences = append([]application.Occurrence(nil), occurrences...)
		for i := range f.Occurrences {
			f.Occurrences[i].RecurrenceID = &id
		}
	}
}

// WithCourseExcludeHolidays marks the series as skipping holidays.
func WithCourseExcludeHolidays() CourseOption {
	return func(f *CourseFixture) {
		f.ExcludeHolidays = true
	}
}

// WithCourseDescription sets the optional description.
func WithCourseDescription(description string) CourseOption {
	return func(f *CourseFixture) {
		value := description
		f.Description = &value
	}
}

// WithCourseTimestamps sets both created and updated timestamps.
func WithCourseTimestamps(created, updated time.Time) CourseOption {
	return func(f *CourseFixture) {
		f.CreatedAt = created
		f.UpdatedAt = updated
	}
}

// Application returns the fixture as an application.Course value.
func (f CourseFixture) Application() application.Course {
	return application.Course{
		ID:                f.ID,
		Name:              f.Name,
		SubjectID:         f.SubjectID,
		TeacherID:         f.TeacherID,
		RoomID:            f.RoomID,
		StartTime:         f.StartTime,
		DurationMinutes:   f.DurationMinutes,
		IsRecurring:       f.IsRecurring,
		Pattern:           f.Pattern,
		RecurrenceEndDate: copyTimePtr(f.RecurrenceEndDate),
		ExcludeHolidays:   f.ExcludeHolidays,
		RecurrenceID:      copyStringPtr(f.RecurrenceID),
		Description:       copyStringPtr(f.Description),
		CreatedAt:         f.CreatedAt,
		UpdatedAt:         f.UpdatedAt,
	}
}

// Input returns the fixture as an application.CourseInput.
func (f CourseFixture) Input() application.CourseInput {
	return application.CourseInput{
		Name:              f.Name,
		SubjectID:         f.SubjectID,
		TeacherID:         f.TeacherID,
		RoomID:            f.RoomID,
		StartTime:         f.StartTime,
		DurationMinutes:   f.DurationMinutes,
		IsRecurring:       f.IsRecurring,
		Pattern:           f.Pattern,
		RecurrenceEndDate: copyTimePtr(f.RecurrenceEndDate),
		ExcludeHolidays:   f.ExcludeHolidays,
		Description:       copyStringPtr(f.Description),
	}
}

// ApplicationOccurrences returns copies of the materialised occurrences.
func (f CourseFixture) ApplicationOccurrences() []application.Occurrence {
	out := make([]application.Occurrence, len(f.Occurrences))
	for i, occ := range f.Occurrences {
		occ.RecurrenceID = copyStringPtr(occ.RecurrenceID)
		out[i] = occ
	}
	return out
}

// SchedulerOccurrences returns the occurrences as scheduler values suitable
// for conflict checks.
func (f CourseFixture) SchedulerOccurrences() []scheduler.Occurrence {
	out := make([]scheduler.Occurrence, len(f.Occurrences))
	for i, occ := range f.Occurrences {
		recurrenceID := ""
		if occ.RecurrenceID != nil {
			recurrenceID = *occ.RecurrenceID
		}
		out[i] = scheduler.Occurrence{
			ID:           occ.ID,
			CourseID:     occ.CourseID,
			CourseName:   f.Name,
			RecurrenceID: recurrenceID,
			RoomID:       occ.RoomID,
			TeacherID:    occ.TeacherID,
			Start:        occ.Start,
			End:          occ.End,
		}
	}
	return out
}

// Persistence returns the fixture as a persistence.Course value. The
// recurrence pattern is carried in its stored JSON form.
func (f CourseFixture) Persistence() persistence.Course {
	var patternJSON *string
	if f.IsRecurring && !f.Pattern.IsEmpty() {
		if encoded, err := f.Pattern.MarshalJSON(); err == nil {
			value := string(encoded)
			patternJSON = &value
		}
	}
	return persistence.Course{
		ID:                f.ID,
		Name:              f.Name,
		SubjectID:         f.SubjectID,
		TeacherID:         f.TeacherID,
		RoomID:            f.RoomID,
		StartTime:         f.StartTime,
		DurationMinutes:   f.DurationMinutes,
		IsRecurring:       f.IsRecurring,
		PatternJSON:       patternJSON,
		RecurrenceEndDate: copyTimePtr(f.RecurrenceEndDate),
		ExcludeHolidays:   f.ExcludeHolidays,
		RecurrenceID:      copyStringPtr(f.RecurrenceID),
		Description:       copyStringPtr(f.Description),
		CreatedAt:         f.CreatedAt,
		UpdatedAt:         f.UpdatedAt,
	}
}

// PersistenceOccurrences returns the occurrences as persistence values.
func (f CourseFixture) PersistenceOccurrences() []persistence.Occurrence {
	out := make([]persistence.Occurrence, len(f.Occurrences))
	for i, occ := range f.Occurrences {
		out[i] = persistence.Occurrence{
			ID:           occ.ID,
			CourseID:     occ.CourseID,
			CourseName:   f.Name,
			RecurrenceID: copyStringPtr(occ.RecurrenceID),
			RoomID:       occ.RoomID,
			TeacherID:    occ.TeacherID,
			Start:        occ.Start,
			End:          occ.End,
			CreatedAt:    f.CreatedAt,
		}
	}
	return out
}

// ---------------------------- Holiday fixtures ---------------------------

// HolidayFixture represents a deterministic non-teaching date.
type HolidayFixture struct {
	ID   string
	Date time.Time
	Name string
}

// HolidayOption configures the generated holiday fixture.
type HolidayOption func(*HolidayFixture)

// NewHolidayFixture returns a deterministic holiday fixture with optional overrides.
func NewHolidayFixture(opts ...HolidayOption) HolidayFixture {
	idx := atomic.AddUint64(&holidayCounter, 1)
	fixture := HolidayFixture{
		ID:   fmt.Sprintf("holiday-%03d", idx),
		Date: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, int(idx)),
		Name: fmt.Sprintf("Holiday %03d", idx),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithHolidayID overrides the generated holiday ID.
func WithHolidayID(id string) HolidayOption {
	return func(f *HolidayFixture) {
		f.ID = id
	}
}

// WithHolidayDate sets the calendar date.
func WithHolidayDate(date time.Time) HolidayOption {
	return func(f *HolidayFixture) {
		f.Date = date
	}
}

// WithHolidayName overrides the generated name.
func WithHolidayName(name string) HolidayOption {
	return func(f *HolidayFixture) {
		f.Name = name
	}
}

// Application returns the fixture as an application.Holiday value.
func (f HolidayFixture) Application() application.Holiday {
	return application.Holiday{ID: f.ID, Date: f.Date, Name: f.Name}
}

// Persistence returns the fixture as a persistence.Holiday value.
func (f HolidayFixture) Persistence() persistence.Holiday {
	return persistence.Holiday{ID: f.ID, Date: f.Date, Name: f.Name}
}

// Input returns the fixture as an application.HolidayInput.
func (f HolidayFixture) Input() application.HolidayInput {
	return application.HolidayInput{Date: f.Date, Name: f.Name}
}

// ----------------------------- Session fixtures -------------------------

// SessionFixture represents a deterministic session record.
type SessionFixture struct {
	ID          string
	UserID      string
	Token       string
	Fingerprint string
	ExpiresAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	RevokedAt   *time.Time
}

// SessionOption configures the generated session fixture.
type SessionOption func(*SessionFixture)

// NewSessionFixture returns a deterministic session fixture with optional overrides.
func NewSessionFixture(opts ...SessionOption) SessionFixture {
	idx := atomic.AddUint64(&sessionCounter, 1)
	id := fmt.Sprintf("session-%03d", idx)
	userID := fmt.Sprintf("user-%03d", idx)
	created := referenceTime
	fixture := SessionFixture{
		ID:          id,
		UserID:      userID,
		Token:       fmt.Sprintf("token-%03d", idx),
		Fingerprint: fmt.Sprintf("fingerprint-%03d", idx),
		ExpiresAt:   created.Add(24 * time.Hour),
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithSessionID overrides the session ID.
func WithSessionID(id string) SessionOption {
	return func(f *SessionFixture) {
		f.ID = id
	}
}

// WithSessionUserID sets the user ID.
func WithSessionUserID(id string) SessionOption {
	return func(f *SessionFixture) {
		f.UserID = id
	}
}

// WithSessionToken overrides the token value.
func WithSessionToken(token string) SessionOption {
	return func(f *SessionFixture) {
		f.Token = token
	}
}

// WithSessionFingerprint sets the session fingerprint.
func WithSessionFingerprint(fp string) SessionOption {
	return func(f *SessionFixture) {
		f.Fingerprint = fp
	}
}

// WithSessionExpiresAt sets the expiration timestamp.
func WithSessionExpiresAt(t time.Time) SessionOption {
	return func(f *SessionFixture) {
		f.ExpiresAt = t
	}
}

// WithSessionRevokedAt sets the optional revoked timestamp.
func WithSessionRevokedAt(t time.Time) SessionOption {
	return func(f *SessionFixture) {
		revoked := t
		f.RevokedAt = &revoked
	}
}

// Application returns the fixture as an application.Session value.
func (f SessionFixture) Application() application.Session {
	return application.Session{
		ID:          f.ID,
		UserID:      f.UserID,
		Token:       f.Token,
		Fingerprint: f.Fingerprint,
		ExpiresAt:   f.ExpiresAt,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
		RevokedAt:   copyTimePtr(f.RevokedAt),
	}
}

// Persistence returns the fixture as a persistence.Session value.
func (f SessionFixture) Persistence() persistence.Session {
	return persistence.Session{
		ID:          f.ID,
		UserID:      f.UserID,
		Token:       f.Token,
		Fingerprint: f.Fingerprint,
		ExpiresAt:   f.ExpiresAt,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
		RevokedAt:   copyTimePtr(f.RevokedAt),
	}
}

// helpers to deep copy optional fields.
func copyStringPtr(src *string) *string {
	if src == nil {
		return nil
	}
	value := *src
	return &value
}

func copyTimePtr(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	value := *src
	return &value
}

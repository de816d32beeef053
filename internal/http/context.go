package http

import (
	"context"
	"log/slog"

	"github.com/example/course-scheduler/internal/application"
	"github.com/example/course-scheduler/internal/logging"
)

type contextKey string

const (
	principalContextKey    contextKey = "principal"
	courseIDContextKey     contextKey = "course_id"
	occurrenceIDContextKey contextKey = "occurrence_id"
	roomIDContextKey       contextKey = "room_id"
	teacherIDContextKey    contextKey = "teacher_id"
	subjectIDContextKey    contextKey = "subject_id"
	holidayIDContextKey    contextKey = "holiday_id"
	userIDContextKey       contextKey = "user_id"
)

// ContextWithPrincipal returns a derived context containing the authenticated principal.
func ContextWithPrincipal(ctx context.Context, principal application.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// PrincipalFromContext extracts the authenticated principal from context if available.
func PrincipalFromContext(ctx context.Context) (application.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(application.Principal)
	return principal, ok
}

// ContextWithLogger returns a derived context carrying a request scoped logger.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return logging.ContextWithLogger(ctx, logger)
}

// LoggerFromContext extracts a logger previously attached to the context.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}

// ContextWithCourseID injects the course identifier resolved from the request path.
func ContextWithCourseID(ctx context.Context, courseID string) context.Context {
	return context.WithValue(ctx, courseIDContextKey, courseID)
}

// CourseIDFromContext extracts a course identifier previously associated with the context.
func CourseIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(courseIDContextKey).(string)
	return id, ok
}

// ContextWithOccurrenceID injects the occurrence identifier resolved from the request path.
func ContextWithOccurrenceID(ctx context.Context, occurrenceID string) context.Context {
	return context.WithValue(ctx, occurrenceIDContextKey, occurrenceID)
}

// OccurrenceIDFromContext extracts an occurrence identifier previously associated with the context.
func OccurrenceIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(occurrenceIDContextKey).(string)
	return id, ok
}

// ContextWithRoomID injects the room identifier resolved from the request path.
func ContextWithRoomID(ctx context.Context, roomID string) context.Context {
	return context.WithValue(ctx, roomIDContextKey, roomID)
}

// RoomIDFromContext extracts a room identifier previously associated with the context.
func RoomIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(roomIDContextKey).(string)
	return id, ok
}

// ContextWithTeacherID injects the teacher identifier resolved from the request path.
func ContextWithTeacherID(ctx context.Context, teacherID string) context.Context {
	return context.WithValue(ctx, teacherIDContextKey, teacherID)
}

// TeacherIDFromContext extracts a teacher identifier previously associated with the context.
func TeacherIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(teacherIDContextKey).(string)
	return id, ok
}

// ContextWithSubjectID injects the subject identifier resolved from the request path.
func ContextWithSubjectID(ctx context.Context, subjectID string) context.Context {
	return context.WithValue(ctx, subjectIDContextKey, subjectID)
}

// SubjectIDFromContext extracts a subject identifier previously associated with the context.
func SubjectIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(subjectIDContextKey).(string)
	return id, ok
}

// ContextWithHolidayID injects the holiday identifier resolved from the request path.
func ContextWithHolidayID(ctx context.Context, holidayID string) context.Context {
	return context.WithValue(ctx, holidayIDContextKey, holidayID)
}

// HolidayIDFromContext extracts a holiday identifier previously associated with the context.
func HolidayIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(holidayIDContextKey).(string)
	return id, ok
}

// ContextWithUserID injects the user identifier resolved from the request path.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// UserIDFromContext extracts a user identifier previously associated with the context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDContextKey).(string)
	return id, ok
}

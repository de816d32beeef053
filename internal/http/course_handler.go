package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/course-scheduler/internal/application"
	"github.com/example/course-scheduler/internal/recurrence"
	"github.com/example/course-scheduler/internal/scheduler"
)

const dateLayout = "2006-01-02"

type courseService interface {
	CreateCourse(ctx context.Context, params application.CreateCourseParams) (application.CreateCourseResult, error)
	UpdateCourse(ctx context.Context, params application.UpdateCourseParams) (application.CreateCourseResult, error)
	DeleteOccurrence(ctx context.Context, params application.DeleteOccurrenceParams) (application.DeleteOccurrenceResult, error)
	ListCourses(ctx context.Context, principal application.Principal) ([]application.Course, error)
	CheckCourse(ctx context.Context, params application.CheckCourseParams) (scheduler.Report, error)
}

type CourseHandler struct {
	service   courseService
	responder responder
	logger    *slog.Logger
}

func NewCourseHandler(service courseService, logger *slog.Logger) *CourseHandler {
	base := defaultLogger(logger)
	return &CourseHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *CourseHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "CourseHandler", operation, attrs...)
}

func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req courseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode course request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, details := req.toInput()
	if details != nil {
		h.responder.writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{
			Message: statusMessage(http.StatusBadRequest),
			Errors:  details,
		})
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID)

	result, err := h.service.CreateCourse(r.Context(), application.CreateCourseParams{
		Principal: principal,
		Input:     input,
		Override:  req.Override,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "course creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("course_id", result.Course.ID, "occurrence_count", len(result.Occurrences)).InfoContext(r.Context(), "course created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toCourseResponse(result))
}

func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	courseID, ok := CourseIDFromContext(r.Context())
	if !ok || strings.TrimSpace(courseID) == "" {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "missing course id for update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidCourseID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req courseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "principal_id", principal.UserID, "course_id", courseID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode course update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, details := req.toInput()
	if details != nil {
		h.responder.writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{
			Message: statusMessage(http.StatusBadRequest),
			Errors:  details,
		})
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.UserID, "course_id", courseID)

	result, err := h.service.UpdateCourse(r.Context(), application.UpdateCourseParams{
		Principal: principal,
		CourseID:  courseID,
		Input:     input,
		Override:  req.Override,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "course update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("occurrence_count", len(result.Occurrences)).InfoContext(r.Context(), "course updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toCourseResponse(result))
}

// Delete removes one occurrence, or with whole_series=true the entire series
// plus its course definition. The path identifier names the occurrence.
func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	occurrenceID, ok := OccurrenceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(occurrenceID) == "" {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "missing occurrence id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidOccurrenceID)
		return
	}

	wholeSeries := false
	if raw := strings.TrimSpace(r.URL.Query().Get("whole_series")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			h.responder.writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{
				Message: statusMessage(http.StatusBadRequest),
				Errors:  map[string]string{"whole_series": "must be a boolean"},
			})
			return
		}
		wholeSeries = parsed
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.UserID, "occurrence_id", occurrenceID, "whole_series", wholeSeries)

	result, err := h.service.DeleteOccurrence(r.Context(), application.DeleteOccurrenceParams{
		Principal:    principal,
		OccurrenceID: occurrenceID,
		WholeSeries:  wholeSeries,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "occurrence delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("deleted_occurrences", result.DeletedOccurrences, "course_deleted", result.CourseDeleted).InfoContext(r.Context(), "occurrence deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, deleteOccurrenceResponse{
		DeletedOccurrences: result.DeletedOccurrences,
		CourseDeleted:      result.CourseDeleted,
	})
}

func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "List", "principal_id", principal.UserID)

	courses, err := h.service.ListCourses(r.Context(), principal)
	if err != nil {
		logger.ErrorContext(r.Context(), "course list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(courses)).InfoContext(r.Context(), "courses listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listCoursesResponse{Courses: toCourseDTOs(courses)})
}

// Check runs the scheduling pipeline without persisting and reports the
// conflicts the submitted course would create.
func (h *CourseHandler) Check(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req courseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Check", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode conflict check request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, details := req.toInput()
	if details != nil {
		h.responder.writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{
			Message: statusMessage(http.StatusBadRequest),
			Errors:  details,
		})
		return
	}

	logger := h.log(r.Context(), "Check", "principal_id", principal.UserID)

	report, err := h.service.CheckCourse(r.Context(), application.CheckCourseParams{
		Principal: principal,
		Input:     input,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "conflict check failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("conflict_count", len(report.Conflicts)).InfoContext(r.Context(), "conflict check completed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toConflictReportDTO(report))
}

type courseRequest struct {
	Name              string   `json:"name" validate:"required"`
	SubjectID         string   `json:"subject_id" validate:"required"`
	TeacherID         string   `json:"teacher_id" validate:"required"`
	RoomID            string   `json:"room_id" validate:"required"`
	StartTime         string   `json:"start_time" validate:"required"`
	DurationMinutes   int      `json:"duration_minutes" validate:"required"`
	Recurring         bool     `json:"recurring"`
	Days              []string `json:"days"`
	RecurrenceEndDate string   `json:"recurrence_end_date"`
	ExcludeHolidays   bool     `json:"exclude_holidays"`
	Description       *string  `json:"description"`
	Override          bool     `json:"override"`
}

// toInput converts the wire payload into a service input. Shape problems are
// returned as a field keyed map; empty fields pass through so the service can
// report its own validation errors.
func (r courseRequest) toInput() (application.CourseInput, map[string]string) {
	details := validateRequest(r)
	if details == nil {
		details = make(map[string]string)
	}

	input := application.CourseInput{
		Name:            strings.TrimSpace(r.Name),
		SubjectID:       strings.TrimSpace(r.SubjectID),
		TeacherID:       strings.TrimSpace(r.TeacherID),
		RoomID:          strings.TrimSpace(r.RoomID),
		DurationMinutes: r.DurationMinutes,
		IsRecurring:     r.Recurring,
		ExcludeHolidays: r.ExcludeHolidays,
		Description:     r.Description,
	}

	if raw := strings.TrimSpace(r.StartTime); raw != "" {
		ts, err := parseTimestamp(raw)
		if err != nil {
			details["start_time"] = "must be an RFC 3339 timestamp"
		} else {
			input.StartTime = ts
		}
	}

	if len(r.Days) > 0 {
		days := make([]time.Weekday, 0, len(r.Days))
		for _, name := range r.Days {
			day, err := recurrence.ParseWeekday(strings.TrimSpace(name))
			if err != nil {
				details["days"] = "contains an unknown weekday name"
				break
			}
			days = append(days, day)
		}
		if _, bad := details["days"]; !bad {
			input.Pattern = recurrence.NewPattern(days...)
		}
	}

	if raw := strings.TrimSpace(r.RecurrenceEndDate); raw != "" {
		date, err := time.ParseInLocation(dateLayout, raw, time.UTC)
		if err != nil {
			details["recurrence_end_date"] = "must be a calendar date in YYYY-MM-DD form"
		} else {
			input.RecurrenceEndDate = &date
		}
	}

	if len(details) == 0 {
		return input, nil
	}
	return application.CourseInput{}, details
}

func parseTimestamp(value string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts, nil
	}
	return time.Parse(time.RFC3339, value)
}

type courseResponse struct {
	Course       courseDTO       `json:"course"`
	Occurrences  []occurrenceDTO `json:"occurrences,omitempty"`
	HasConflicts bool            `json:"has_conflicts"`
	Conflicts    []conflictDTO   `json:"conflicts,omitempty"`
}

func toCourseResponse(result application.CreateCourseResult) courseResponse {
	report := toConflictReportDTO(result.Report)
	return courseResponse{
		Course:       toCourseDTO(result.Course),
		Occurrences:  toOccurrenceDTOs(result.Occurrences),
		HasConflicts: report.HasConflicts,
		Conflicts:    report.Conflicts,
	}
}

type listCoursesResponse struct {
	Courses []courseDTO `json:"courses"`
}

type deleteOccurrenceResponse struct {
	DeletedOccurrences int  `json:"deleted_occurrences"`
	CourseDeleted      bool `json:"course_deleted"`
}

type courseDTO struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	SubjectID         string   `json:"subject_id"`
	TeacherID         string   `json:"teacher_id"`
	RoomID            string   `json:"room_id"`
	StartTime         string   `json:"start_time"`
	DurationMinutes   int      `json:"duration_minutes"`
	Recurring         bool     `json:"recurring"`
	Days              []string `json:"days,omitempty"`
	RecurrenceEndDate string   `json:"recurrence_end_date,omitempty"`
	ExcludeHolidays   bool     `json:"exclude_holidays"`
	RecurrenceID      *string  `json:"recurrence_id,omitempty"`
	Description       *string  `json:"description,omitempty"`
	CreatedAt         string   `json:"created_at"`
	UpdatedAt         string   `json:"updated_at"`
}

func toCourseDTO(course application.Course) courseDTO {
	dto := courseDTO{
		ID:              course.ID,
		Name:            course.Name,
		SubjectID:       course.SubjectID,
		TeacherID:       course.TeacherID,
		RoomID:          course.RoomID,
		StartTime:       course.StartTime.UTC().Format(time.RFC3339Nano),
		DurationMinutes: course.DurationMinutes,
		Recurring:       course.IsRecurring,
		ExcludeHolidays: course.ExcludeHolidays,
		RecurrenceID:    course.RecurrenceID,
		Description:     course.Description,
		CreatedAt:       course.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:       course.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	for _, day := range course.Pattern.Normalize().Days {
		dto.Days = append(dto.Days, day.String())
	}
	if course.RecurrenceEndDate != nil {
		dto.RecurrenceEndDate = course.RecurrenceEndDate.UTC().Format(dateLayout)
	}
	return dto
}

func toCourseDTOs(courses []application.Course) []courseDTO {
	if len(courses) == 0 {
		return nil
	}
	out := make([]courseDTO, 0, len(courses))
	for _, course := range courses {
		out = append(out, toCourseDTO(course))
	}
	return out
}

type occurrenceDTO struct {
	ID           string  `json:"id"`
	CourseID     string  `json:"course_id"`
	CourseName   string  `json:"course_name,omitempty"`
	RecurrenceID *string `json:"recurrence_id,omitempty"`
	RoomID       string  `json:"room_id"`
	TeacherID    string  `json:"teacher_id"`
	Start        string  `json:"start"`
	End          string  `json:"end"`
}

func toOccurrenceDTO(occurrence application.Occurrence) occurrenceDTO {
	return occurrenceDTO{
		ID:           occurrence.ID,
		CourseID:     occurrence.CourseID,
		CourseName:   occurrence.CourseName,
		RecurrenceID: occurrence.RecurrenceID,
		RoomID:       occurrence.RoomID,
		TeacherID:    occurrence.TeacherID,
		Start:        occurrence.Start.UTC().Format(time.RFC3339Nano),
		End:          occurrence.End.UTC().Format(time.RFC3339Nano),
	}
}

func toOccurrenceDTOs(occurrences []application.Occurrence) []occurrenceDTO {
	if len(occurrences) == 0 {
		return nil
	}
	out := make([]occurrenceDTO, 0, len(occurrences))
	for _, occurrence := range occurrences {
		out = append(out, toOccurrenceDTO(occurrence))
	}
	return out
}

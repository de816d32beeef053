package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/course-scheduler/internal/application"
	"github.com/example/course-scheduler/internal/scheduler"
)

var (
	errBadRequestBody      = errors.New("invalid request body")
	errInvalidCourseID     = errors.New("invalid course id")
	errInvalidOccurrenceID = errors.New("invalid occurrence id")
	errInvalidRoomID       = errors.New("invalid room id")
	errInvalidTeacherID    = errors.New("invalid teacher id")
	errInvalidSubjectID    = errors.New("invalid subject id")
	errInvalidHolidayID    = errors.New("invalid holiday id")
	errInvalidUserID       = errors.New("invalid user id")
	errMissingSessionToken = errors.New("session token is required")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := statusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

// handleServiceError translates application layer errors into HTTP responses.
// Conflict reports get a dedicated 409 payload so clients can render each
// collision; validation errors surface field-by-field.
func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	switch {
	case errors.Is(err, application.ErrUnauthorized):
		r.writeJSON(ctx, w, http.StatusForbidden, errorResponse{
			ErrorCode: "AUTH_FORBIDDEN",
			Message:   "you are not allowed to perform this operation",
		})
	case errors.Is(err, application.ErrInvalidCredentials),
		errors.Is(err, application.ErrAccountDisabled),
		errors.Is(err, application.ErrSessionExpired),
		errors.Is(err, application.ErrSessionRevoked):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{
			ErrorCode: "AUTH_UNAUTHENTICATED",
			Message:   "authentication is required",
		})
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: "the requested resource was not found"})
	case errors.Is(err, application.ErrAlreadyExists):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{Message: "a resource with the same identity already exists"})
	default:
		var conflictErr *application.ConflictError
		if errors.As(err, &conflictErr) {
			r.writeJSON(ctx, w, http.StatusConflict, toConflictReportDTO(conflictErr.Report))
			return
		}

		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
				Message: "the request contains invalid fields",
				Errors:  vErr.FieldErrors,
			})
			return
		}

		var storageErr *application.StorageError
		if errors.As(err, &storageErr) {
			r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: "a storage error occurred"})
			return
		}

		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: "an internal error occurred"})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func statusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "the request is malformed"
	case http.StatusUnauthorized:
		return "authentication is required"
	case http.StatusForbidden:
		return "you are not allowed to perform this operation"
	case http.StatusNotFound:
		return "the requested resource was not found"
	case http.StatusConflict:
		return "the request conflicts with the current state of the resource"
	case http.StatusUnprocessableEntity:
		return "the request contains invalid fields"
	default:
		return "an internal error occurred"
	}
}

type errorResponse struct {
	ErrorCode string            `json:"error_code,omitempty"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
}

type conflictReportDTO struct {
	HasConflicts bool          `json:"has_conflicts"`
	Conflicts    []conflictDTO `json:"conflicts"`
}

type conflictDTO struct {
	Kind                    string `json:"kind"`
	ResourceID              string `json:"resource_id"`
	CandidateStart          string `json:"candidate_start"`
	ConflictingOccurrenceID string `json:"conflicting_occurrence_id"`
	CourseName              string `json:"course_name"`
	OverlapStart            string `json:"overlap_start"`
	OverlapEnd              string `json:"overlap_end"`
}

func toConflictReportDTO(report scheduler.Report) conflictReportDTO {
	dto := conflictReportDTO{
		HasConflicts: report.HasConflicts(),
		Conflicts:    make([]conflictDTO, 0, len(report.Conflicts)),
	}
	for _, conflict := range report.Conflicts {
		dto.Conflicts = append(dto.Conflicts, conflictDTO{
			Kind:                    string(conflict.Kind),
			ResourceID:              conflict.ResourceID,
			CandidateStart:          conflict.CandidateStart.UTC().Format(time.RFC3339Nano),
			ConflictingOccurrenceID: conflict.ConflictingOccurrenceID,
			CourseName:              conflict.CourseName,
			OverlapStart:            conflict.OverlapStart.UTC().Format(time.RFC3339Nano),
			OverlapEnd:              conflict.OverlapEnd.UTC().Format(time.RFC3339Nano),
		})
	}
	return dto
}

package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/course-scheduler/internal/application"
)

type teacherService interface {
	CreateTeacher(ctx context.Context, params application.CreateTeacherParams) (application.Teacher, error)
	UpdateTeacher(ctx context.Context, params application.UpdateTeacherParams) (application.Teacher, error)
	GetTeacher(ctx context.Context, principal application.Principal, teacherID string) (application.Teacher, error)
	DeleteTeacher(ctx context.Context, principal application.Principal, teacherID string) error
	ListTeachers(ctx context.Context, principal application.Principal) ([]application.Teacher, error)
}

type TeacherHandler struct {
	service   teacherService
	responder responder
	logger    *slog.Logger
}

func NewTeacherHandler(service teacherService, logger *slog.Logger) *TeacherHandler {
	base := defaultLogger(logger)
	return &TeacherHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *TeacherHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "TeacherHandler", operation, attrs...)
}

func (h *TeacherHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req teacherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode teacher request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID)

	teacher, err := h.service.CreateTeacher(r.Context(), application.CreateTeacherParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "teacher creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("teacher_id", teacher.ID).InfoContext(r.Context(), "teacher created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, teacherResponse{Teacher: toTeacherDTO(teacher)})
}

func (h *TeacherHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	teacherID, ok := TeacherIDFromContext(r.Context())
	if !ok || strings.TrimSpace(teacherID) == "" {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "missing teacher id for update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidTeacherID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req teacherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "principal_id", principal.UserID, "teacher_id", teacherID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode teacher update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.UserID, "teacher_id", teacherID)

	teacher, err := h.service.UpdateTeacher(r.Context(), application.UpdateTeacherParams{
		Principal: principal,
		TeacherID: teacherID,
		Input:     req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "teacher update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "teacher updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, teacherResponse{Teacher: toTeacherDTO(teacher)})
}

func (h *TeacherHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	teacherID, ok := TeacherIDFromContext(r.Context())
	if !ok || strings.TrimSpace(teacherID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidTeacherID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	teacher, err := h.service.GetTeacher(r.Context(), principal, teacherID)
	if err != nil {
		h.log(r.Context(), "Get", "teacher_id", teacherID).ErrorContext(r.Context(), "teacher fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, teacherResponse{Teacher: toTeacherDTO(teacher)})
}

func (h *TeacherHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	teacherID, ok := TeacherIDFromContext(r.Context())
	if !ok || strings.TrimSpace(teacherID) == "" {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "missing teacher id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidTeacherID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.UserID, "teacher_id", teacherID)
	if err := h.service.DeleteTeacher(r.Context(), principal, teacherID); err != nil {
		logger.ErrorContext(r.Context(), "teacher delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "teacher deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *TeacherHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "List", "principal_id", principal.UserID)
	teachers, err := h.service.ListTeachers(r.Context(), principal)
	if err != nil {
		logger.ErrorContext(r.Context(), "teacher list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(teachers)).InfoContext(r.Context(), "teachers listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listTeachersResponse{Teachers: toTeacherDTOs(teachers)})
}

type teacherRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (r teacherRequest) toInput() application.TeacherInput {
	return application.TeacherInput{
		Name:  strings.TrimSpace(r.Name),
		Email: strings.TrimSpace(r.Email),
	}
}

type teacherResponse struct {
	Teacher teacherDTO `json:"teacher"`
}

type listTeachersResponse struct {
	Teachers []teacherDTO `json:"teachers"`
}

type teacherDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toTeacherDTO(teacher application.Teacher) teacherDTO {
	return teacherDTO{
		ID:        teacher.ID,
		Name:      teacher.Name,
		Email:     teacher.Email,
		CreatedAt: teacher.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: teacher.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toTeacherDTOs(teachers []application.Teacher) []teacherDTO {
	if len(teachers) == 0 {
		return nil
	}
	out := make([]teacherDTO, 0, len(teachers))
	for _, teacher := range teachers {
		out = append(out, toTeacherDTO(teacher))
	}
	return out
}

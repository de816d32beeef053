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

type subjectService interface {
	CreateSubject(ctx context.Context, params application.CreateSubjectParams) (application.Subject, error)
	UpdateSubject(ctx context.Context, params application.UpdateSubjectParams) (application.Subject, error)
	GetSubject(ctx context.Context, principal application.Principal, subjectID string) (application.Subject, error)
	DeleteSubject(ctx context.Context, principal application.Principal, subjectID string) error
	ListSubjects(ctx context.Context, principal application.Principal) ([]application.Subject, error)
}

type SubjectHandler struct {
	service   subjectService
	responder responder
}

func NewSubjectHandler(service subjectService, logger *slog.Logger) *SubjectHandler {
	return &SubjectHandler{service: service, responder: newResponder(logger)}
}

func (h *SubjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req subjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	subject, err := h.service.CreateSubject(r.Context(), application.CreateSubjectParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, subjectResponse{Subject: toSubjectDTO(subject)})
}

func (h *SubjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	subjectID, ok := SubjectIDFromContext(r.Context())
	if !ok || strings.TrimSpace(subjectID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidSubjectID)
		return
	}

	var req subjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	subject, err := h.service.UpdateSubject(r.Context(), application.UpdateSubjectParams{
		Principal: principal,
		SubjectID: subjectID,
		Input:     req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, subjectResponse{Subject: toSubjectDTO(subject)})
}

func (h *SubjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	subjectID, ok := SubjectIDFromContext(r.Context())
	if !ok || strings.TrimSpace(subjectID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidSubjectID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	subject, err := h.service.GetSubject(r.Context(), principal, subjectID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, subjectResponse{Subject: toSubjectDTO(subject)})
}

func (h *SubjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	subjectID, ok := SubjectIDFromContext(r.Context())
	if !ok || strings.TrimSpace(subjectID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidSubjectID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	if err := h.service.DeleteSubject(r.Context(), principal, subjectID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *SubjectHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	subjects, err := h.service.ListSubjects(r.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listSubjectsResponse{Subjects: toSubjectDTOs(subjects)})
}

type subjectRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

func (r subjectRequest) toInput() application.SubjectInput {
	return application.SubjectInput{
		Name: strings.TrimSpace(r.Name),
		Code: strings.TrimSpace(r.Code),
	}
}

type subjectResponse struct {
	Subject subjectDTO `json:"subject"`
}

type listSubjectsResponse struct {
	Subjects []subjectDTO `json:"subjects"`
}

type subjectDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toSubjectDTO(subject application.Subject) subjectDTO {
	return subjectDTO{
		ID:        subject.ID,
		Name:      subject.Name,
		Code:      subject.Code,
		CreatedAt: subject.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: subject.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toSubjectDTOs(subjects []application.Subject) []subjectDTO {
	if len(subjects) == 0 {
		return nil
	}
	out := make([]subjectDTO, 0, len(subjects))
	for _, subject := range subjects {
		out = append(out, toSubjectDTO(subject))
	}
	return out
}

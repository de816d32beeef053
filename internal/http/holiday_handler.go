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

type holidayService interface {
	CreateHoliday(ctx context.Context, params application.CreateHolidayParams) (application.Holiday, error)
	UpdateHoliday(ctx context.Context, params application.UpdateHolidayParams) (application.Holiday, error)
	ListHolidays(ctx context.Context, params application.ListHolidaysParams) ([]application.Holiday, error)
	DeleteHoliday(ctx context.Context, principal application.Principal, holidayID string) error
}

type HolidayHandler struct {
	service   holidayService
	responder responder
}

func NewHolidayHandler(service holidayService, logger *slog.Logger) *HolidayHandler {
	return &HolidayHandler{service: service, responder: newResponder(logger)}
}

func (h *HolidayHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req holidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
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

	principal, _ := PrincipalFromContext(r.Context())

	holiday, err := h.service.CreateHoliday(r.Context(), application.CreateHolidayParams{
		Principal: principal,
		Input:     input,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, holidayResponse{Holiday: toHolidayDTO(holiday)})
}

func (h *HolidayHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	holidayID, ok := HolidayIDFromContext(r.Context())
	if !ok || strings.TrimSpace(holidayID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidHolidayID)
		return
	}

	var req holidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
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

	principal, _ := PrincipalFromContext(r.Context())

	holiday, err := h.service.UpdateHoliday(r.Context(), application.UpdateHolidayParams{
		Principal: principal,
		HolidayID: holidayID,
		Input:     input,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, holidayResponse{Holiday: toHolidayDTO(holiday)})
}

// List returns holidays inside the [from, to] window taken from query
// parameters in YYYY-MM-DD form.
func (h *HolidayHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	params := application.ListHolidaysParams{Principal: principal}

	if raw := strings.TrimSpace(r.URL.Query().Get("from")); raw != "" {
		if date, err := time.ParseInLocation(dateLayout, raw, time.UTC); err == nil {
			params.From = date
		}
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("to")); raw != "" {
		if date, err := time.ParseInLocation(dateLayout, raw, time.UTC); err == nil {
			params.To = date
		}
	}

	holidays, err := h.service.ListHolidays(r.Context(), params)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listHolidaysResponse{Holidays: toHolidayDTOs(holidays)})
}

func (h *HolidayHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	holidayID, ok := HolidayIDFromContext(r.Context())
	if !ok || strings.TrimSpace(holidayID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidHolidayID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	if err := h.service.DeleteHoliday(r.Context(), principal, holidayID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type holidayRequest struct {
	Date string `json:"date" validate:"required"`
	Name string `json:"name" validate:"required"`
}

func (r holidayRequest) toInput() (application.HolidayInput, map[string]string) {
	details := validateRequest(r)
	if details == nil {
		details = make(map[string]string)
	}

	input := application.HolidayInput{Name: strings.TrimSpace(r.Name)}
	if raw := strings.TrimSpace(r.Date); raw != "" {
		date, err := time.ParseInLocation(dateLayout, raw, time.UTC)
		if err != nil {
			details["date"] = "must be a calendar date in YYYY-MM-DD form"
		} else {
			input.Date = date
		}
	}

	if len(details) == 0 {
		return input, nil
	}
	return application.HolidayInput{}, details
}

type holidayResponse struct {
	Holiday holidayDTO `json:"holiday"`
}

type listHolidaysResponse struct {
	Holidays []holidayDTO `json:"holidays"`
}

type holidayDTO struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Name string `json:"name"`
}

func toHolidayDTO(holiday application.Holiday) holidayDTO {
	return holidayDTO{
		ID:   holiday.ID,
		Date: holiday.Date.UTC().Format(dateLayout),
		Name: holiday.Name,
	}
}

func toHolidayDTOs(holidays []application.Holiday) []holidayDTO {
	if len(holidays) == 0 {
		return nil
	}
	out := make([]holidayDTO, 0, len(holidays))
	for _, holiday := range holidays {
		out = append(out, toHolidayDTO(holiday))
	}
	return out
}

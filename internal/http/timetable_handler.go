package http

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/example/course-scheduler/internal/application"
	"github.com/example/course-scheduler/internal/scheduler"
	"github.com/example/course-scheduler/internal/timetable"
)

type timetableService interface {
	ListTimetable(ctx context.Context, params application.ListTimetableParams) ([]timetable.DisplayRow, error)
}

type TimetableHandler struct {
	service   timetableService
	responder responder
	logger    *slog.Logger
}

func NewTimetableHandler(service timetableService, logger *slog.Logger) *TimetableHandler {
	base := defaultLogger(logger)
	return &TimetableHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *TimetableHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "TimetableHandler", operation, attrs...)
}

func (h *TimetableHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	params := buildTimetableParams(r.URL.Query(), principal)
	logger := h.log(r.Context(), "List", "principal_id", principal.UserID)

	rows, err := h.service.ListTimetable(r.Context(), params)
	if err != nil {
		logger.ErrorContext(r.Context(), "timetable list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(rows)).InfoContext(r.Context(), "timetable listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, timetableResponse{Rows: toTimetableRowDTOs(rows)})
}

func buildTimetableParams(values url.Values, principal application.Principal) application.ListTimetableParams {
	params := application.ListTimetableParams{Principal: principal}

	if roomID := strings.TrimSpace(values.Get("room_id")); roomID != "" {
		params.RoomID = &roomID
	}
	if teacherID := strings.TrimSpace(values.Get("teacher_id")); teacherID != "" {
		params.TeacherID = &teacherID
	}

	if from := strings.TrimSpace(values.Get("from")); from != "" {
		if ts, err := parseTimestamp(from); err == nil {
			params.From = &ts
		}
	}
	if to := strings.TrimSpace(values.Get("to")); to != "" {
		if ts, err := parseTimestamp(to); err == nil {
			params.To = &ts
		}
	}

	if day := strings.TrimSpace(values.Get("day")); day != "" {
		if ts, err := time.Parse(dateLayout, day); err == nil {
			params.Period = application.TimetablePeriodDay
			params.PeriodReference = ts
		}
	} else if week := strings.TrimSpace(values.Get("week")); week != "" {
		if ts, err := time.Parse(dateLayout, week); err == nil {
			params.Period = application.TimetablePeriodWeek
			params.PeriodReference = ts
		}
	} else if month := strings.TrimSpace(values.Get("month")); month != "" {
		if ts, err := time.Parse("2006-01", month); err == nil {
			params.Period = application.TimetablePeriodMonth
			params.PeriodReference = ts
		}
	}

	return params
}

type timetableResponse struct {
	Rows []timetableRowDTO `json:"rows"`
}

type timetableRowDTO struct {
	Kind       string            `json:"kind"`
	Occurrence *occurrenceDTO    `json:"occurrence,omitempty"`
	Series     *seriesSummaryDTO `json:"series,omitempty"`
}

type seriesSummaryDTO struct {
	RecurrenceID    string   `json:"recurrence_id"`
	CourseID        string   `json:"course_id"`
	CourseName      string   `json:"course_name"`
	RoomID          string   `json:"room_id"`
	TeacherID       string   `json:"teacher_id"`
	Start           string   `json:"start"`
	OccurrenceCount int      `json:"occurrence_count"`
	Dates           []string `json:"dates"`
	EndDate         string   `json:"end_date"`
	Weekdays        []string `json:"weekdays"`
}

func toTimetableRowDTOs(rows []timetable.DisplayRow) []timetableRowDTO {
	if len(rows) == 0 {
		return nil
	}

	out := make([]timetableRowDTO, 0, len(rows))
	for _, row := range rows {
		dto := timetableRowDTO{Kind: string(row.Kind)}
		switch row.Kind {
		case timetable.RowKindSeries:
			if row.Series != nil {
				dto.Series = toSeriesSummaryDTO(row.Series)
			}
		default:
			occurrence := fromSchedulerOccurrence(row.Occurrence)
			dto.Occurrence = &occurrence
		}
		out = append(out, dto)
	}
	return out
}

func toSeriesSummaryDTO(series *timetable.SeriesSummary) *seriesSummaryDTO {
	dto := &seriesSummaryDTO{
		RecurrenceID:    series.RecurrenceID,
		CourseID:        series.CourseID,
		CourseName:      series.CourseName,
		RoomID:          series.RoomID,
		TeacherID:       series.TeacherID,
		Start:           series.Representative.Start.UTC().Format(time.RFC3339Nano),
		OccurrenceCount: series.OccurrenceCount,
		EndDate:         series.EndDate.UTC().Format(dateLayout),
	}
	for _, date := range series.Dates {
		dto.Dates = append(dto.Dates, date.UTC().Format(dateLayout))
	}
	for _, day := range series.Weekdays {
		dto.Weekdays = append(dto.Weekdays, day.String())
	}
	return dto
}

func fromSchedulerOccurrence(occurrence scheduler.Occurrence) occurrenceDTO {
	dto := occurrenceDTO{
		ID:         occurrence.ID,
		CourseID:   occurrence.CourseID,
		CourseName: occurrence.CourseName,
		RoomID:     occurrence.RoomID,
		TeacherID:  occurrence.TeacherID,
		Start:      occurrence.Start.UTC().Format(time.RFC3339Nano),
		End:        occurrence.End.UTC().Format(time.RFC3339Nano),
	}
	if occurrence.RecurrenceID != "" {
		recurrenceID := occurrence.RecurrenceID
		dto.RecurrenceID = &recurrenceID
	}
	return dto
}

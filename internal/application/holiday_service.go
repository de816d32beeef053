package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/course-scheduler/internal/persistence"
)

// HolidayRepository captures the persistence operations needed by the service.
type HolidayRepository interface {
	CreateHoliday(ctx context.Context, holiday Holiday) (Holiday, error)
	UpdateHoliday(ctx context.Context, holiday Holiday) (Holiday, error)
	ListHolidays(ctx context.Context, from, to time.Time) ([]Holiday, error)
	DeleteHoliday(ctx context.Context, id string) error
}

// HolidayService orchestrates validation, authorization, and persistence for
// the school's non-teaching dates.
type HolidayService struct {
	holidays    HolidayRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewHolidayService constructs a holiday service with the provided dependencies.
func NewHolidayService(holidays HolidayRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *HolidayService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &HolidayService{holidays: holidays, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *HolidayService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "HolidayService", operation, attrs...)
}

// CreateHoliday validates input and persists a new holiday for administrators.
func (s *HolidayService) CreateHoliday(ctx context.Context, params CreateHolidayParams) (holiday Holiday, err error) {
	if s == nil {
		err = fmt.Errorf("HolidayService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateHoliday",
		"principal_id", params.Principal.UserID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create holiday", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("holiday_id", holiday.ID).InfoContext(ctx, "holiday created")
	}()

	if !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	vErr := &ValidationError{}
	if params.Input.Date.IsZero() {
		vErr.add("date", "date is required")
	}
	if strings.TrimSpace(params.Input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	holiday = Holiday{
		ID:   s.idGenerator(),
		Date: params.Input.Date,
		Name: strings.TrimSpace(params.Input.Name),
	}

	if s.holidays == nil {
		return
	}

	var persisted Holiday
	persisted, err = s.holidays.CreateHoliday(ctx, holiday)
	if err != nil {
		err = mapHolidayRepoError(err)
		return
	}

	holiday = persisted
	return
}

// UpdateHoliday rewrites the date and name of an existing holiday for
// administrators.
func (s *HolidayService) UpdateHoliday(ctx context.Context, params UpdateHolidayParams) (holiday Holiday, err error) {
	if s == nil {
		err = fmt.Errorf("HolidayService is nil")
		return
	}

	logger := s.loggerWith(ctx, "UpdateHoliday",
		"principal_id", params.Principal.UserID,
		"holiday_id", params.HolidayID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update holiday", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "holiday updated")
	}()

	if !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}
	if strings.TrimSpace(params.HolidayID) == "" {
		err = ErrNotFound
		return
	}

	vErr := &ValidationError{}
	if params.Input.Date.IsZero() {
		vErr.add("date", "date is required")
	}
	if strings.TrimSpace(params.Input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	holiday = Holiday{
		ID:   params.HolidayID,
		Date: params.Input.Date,
		Name: strings.TrimSpace(params.Input.Name),
	}

	if s.holidays == nil {
		return
	}

	var persisted Holiday
	persisted, err = s.holidays.UpdateHoliday(ctx, holiday)
	if err != nil {
		err = mapHolidayRepoError(err)
		return
	}

	holiday = persisted
	return
}

// ListHolidays returns holidays falling inside [from, to] for any
// authenticated user.
func (s *HolidayService) ListHolidays(ctx context.Context, params ListHolidaysParams) ([]Holiday, error) {
	if s == nil {
		return nil, fmt.Errorf("HolidayService is nil")
	}
	if s.holidays == nil {
		return nil, nil
	}

	vErr := &ValidationError{}
	if params.From.IsZero() {
		vErr.add("from", "from is required")
	}
	if params.To.IsZero() {
		vErr.add("to", "to is required")
	}
	if !params.From.IsZero() && !params.To.IsZero() && params.To.Before(params.From) {
		vErr.add("to", "to must not be before from")
	}
	if vErr.HasErrors() {
		return nil, vErr
	}

	holidays, err := s.holidays.ListHolidays(ctx, params.From, params.To)
	if err != nil {
		return nil, mapHolidayRepoError(err)
	}
	return holidays, nil
}

// DeleteHoliday removes a holiday when requested by an administrator.
func (s *HolidayService) DeleteHoliday(ctx context.Context, principal Principal, holidayID string) error {
	if s == nil {
		return fmt.Errorf("HolidayService is nil")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}
	if s.holidays == nil {
		return fmt.Errorf("holiday repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteHoliday",
		"principal_id", principal.UserID,
		"holiday_id", holidayID,
	)

	if err := s.holidays.DeleteHoliday(ctx, holidayID); err != nil {
		err = mapHolidayRepoError(err)
		logger.ErrorContext(ctx, "failed to delete holiday", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "holiday deleted")
	return nil
}

func mapHolidayRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	return err
}

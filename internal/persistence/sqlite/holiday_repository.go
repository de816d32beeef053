package sqlite

import (
	"context"
	"time"

	"github.com/example/course-scheduler/internal/persistence"
)

const holidayDateLayout = "2006-01-02"

// HolidayRepository implements persistence.HolidayRepository using SQLite.
// Dates are stored as bare ISO dates; holidays exclude whole days, not
// instants.
type HolidayRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewHolidayRepository creates a new SQLite holiday repository.
func NewHolidayRepository(pool *ConnectionPool) *HolidayRepository {
	return &HolidayRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateHoliday inserts a new holiday. Duplicate dates fail with
// ErrDuplicate.
func (r *HolidayRepository) CreateHoliday(ctx context.Context, holiday persistence.Holiday) error {
	if holiday.ID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.helper.Exec(ctx,
		"INSERT INTO holidays (id, date, name) VALUES (?, ?, ?)",
		holiday.ID, holiday.Date.UTC().Format(holidayDateLayout), holiday.Name,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

// UpdateHoliday rewrites the date and name of an existing holiday. Missing
// rows fail with ErrNotFound, duplicate dates with ErrDuplicate.
func (r *HolidayRepository) UpdateHoliday(ctx context.Context, holiday persistence.Holiday) error {
	if holiday.ID == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx,
		"UPDATE holidays SET date = ?, name = ? WHERE id = ?",
		holiday.Date.UTC().Format(holidayDateLayout), holiday.Name, holiday.ID,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireAffected(result)
}

// ListHolidays lists holidays whose date falls within [from, to], ordered by
// date.
func (r *HolidayRepository) ListHolidays(ctx context.Context, from, to time.Time) ([]persistence.Holiday, error) {
	rows, err := r.helper.Query(ctx,
		"SELECT id, date, name FROM holidays WHERE date >= ? AND date <= ? ORDER BY date ASC",
		from.UTC().Format(holidayDateLayout), to.UTC().Format(holidayDateLayout),
	)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var holidays []persistence.Holiday
	for rows.Next() {
		var holiday persistence.Holiday
		var dateStr string
		if err := rows.Scan(&holiday.ID, &dateStr, &holiday.Name); err != nil {
			return nil, r.mapper.MapError(err)
		}
		if holiday.Date, err = time.ParseInLocation(holidayDateLayout, dateStr, time.UTC); err != nil {
			return nil, r.mapper.MapError(err)
		}
		holidays = append(holidays, holiday)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return holidays, nil
}

// DeleteHoliday removes a holiday by id.
func (r *HolidayRepository) DeleteHoliday(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, "DELETE FROM holidays WHERE id = ?", id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireAffected(result)
}

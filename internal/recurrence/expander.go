package recurrence

import (
	"errors"
	"time"
)

// Definition carries the scheduling parameters the expander needs from a
// course definition. The application layer converts its own course model into
// this shape so the expander stays free of persistence concerns.
type Definition struct {
	Start           time.Time
	Duration        time.Duration
	Recurring       bool
	Pattern         Pattern
	EndDate         time.Time
	ExcludeHolidays bool
}

// Slot is one concrete [start, end) interval produced by expansion.
type Slot struct {
	Start time.Time
	End   time.Time
}

// HolidaySet is a caller-supplied set of holiday dates. The expander never
// performs holiday lookups of its own.
type HolidaySet map[string]struct{}

const holidayKeyLayout = "2006-01-02"

// NewHolidaySet builds a holiday set from concrete dates. Time-of-day and
// timezone offsets of the inputs are ignored; membership is by calendar date.
func NewHolidaySet(dates ...time.Time) HolidaySet {
	set := make(HolidaySet, len(dates))
	for _, date := range dates {
		set[date.Format(holidayKeyLayout)] = struct{}{}
	}
	return set
}

// Contains reports whether the calendar date of t is a holiday.
func (s HolidaySet) Contains(t time.Time) bool {
	if len(s) == 0 {
		return false
	}
	_, ok := s[t.Format(holidayKeyLayout)]
	return ok
}

var (
	// ErrInvalidDuration indicates the definition's duration is not positive.
	ErrInvalidDuration = errors.New("recurrence: duration must be positive")
	// ErrEmptyPattern indicates a recurring definition selects no weekdays.
	ErrEmptyPattern = errors.New("recurrence: recurring definition requires at least one weekday")
	// ErrUnboundedWindow indicates a recurring definition has no end date.
	ErrUnboundedWindow = errors.New("recurrence: recurring definition requires an end date")
)

// Expander materializes course definitions into concrete slots.
type Expander struct {
	location *time.Location
}

// NewExpander constructs an Expander that performs calendar arithmetic in the
// provided location. If loc is nil, each definition's own start location is
// used.
func NewExpander(loc *time.Location) *Expander {
	return &Expander{location: loc}
}

// Expand produces the ordered, finite slot sequence for a definition.
//
// Semantics:
//   - Non-recurring definitions yield exactly one slot at [Start, Start+Duration).
//   - Recurring definitions walk calendar dates from Start's date through
//     EndDate's date inclusive, emitting a slot on every date whose weekday is
//     in the pattern, at Start's time-of-day.
//   - When ExcludeHolidays is set, dates present in holidays are skipped.
//   - An end date preceding the first matching weekday yields an empty, valid
//     result; rejecting that state is the caller's policy decision.
//
// Expansion is pure: identical inputs always produce the identical ordered
// sequence.
func (e *Expander) Expand(def Definition, holidays HolidaySet) ([]Slot, error) {
	if def.Duration <= 0 {
		return nil, ErrInvalidDuration
	}

	loc := e.location
	if loc == nil {
		loc = def.Start.Location()
	}
	start := def.Start.In(loc)

	if !def.Recurring {
		return []Slot{{Start: start, End: start.Add(def.Duration)}}, nil
	}

	if def.Pattern.IsEmpty() {
		return nil, ErrEmptyPattern
	}
	if def.EndDate.IsZero() {
		return nil, ErrUnboundedWindow
	}

	lastDate := dateOnly(def.EndDate.In(loc))
	slots := make([]Slot, 0)

	for date := dateOnly(start); !date.After(lastDate); date = date.AddDate(0, 0, 1) {
		if !def.Pattern.Contains(date.Weekday()) {
			continue
		}
		if def.ExcludeHolidays && holidays.Contains(date) {
			continue
		}
		begin := time.Date(date.Year(), date.Month(), date.Day(),
			start.Hour(), start.Minute(), start.Second(), start.Nanosecond(), loc)
		slots = append(slots, Slot{Start: begin, End: begin.Add(def.Duration)})
	}

	return slots, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

package recurrence

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Pattern describes which weekdays a recurring course occupies.
//
// The wire form is {"days":["Monday","Wednesday"]} with English weekday
// names; this shape is shared with previously stored data and must round-trip
// exactly.
type Pattern struct {
	Days []time.Weekday
}

type patternJSON struct {
	Days []string `json:"days"`
}

// ErrUnknownWeekday indicates a serialized weekday name is not recognised.
var ErrUnknownWeekday = fmt.Errorf("recurrence: unknown weekday name")

var weekdayNames = map[string]time.Weekday{
	"Sunday":    time.Sunday,
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
}

// ParseWeekday resolves an English weekday name to its time.Weekday value.
func ParseWeekday(name string) (time.Weekday, error) {
	day, ok := weekdayNames[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownWeekday, name)
	}
	return day, nil
}

// NewPattern builds a normalized pattern from the provided weekdays.
func NewPattern(days ...time.Weekday) Pattern {
	return Pattern{Days: normalizeWeekdays(days)}
}

// IsEmpty reports whether the pattern selects no weekdays.
func (p Pattern) IsEmpty() bool {
	return len(p.Days) == 0
}

// Contains reports whether the given weekday is part of the pattern.
func (p Pattern) Contains(day time.Weekday) bool {
	for _, d := range p.Days {
		if d == day {
			return true
		}
	}
	return false
}

// Normalize returns a copy of the pattern with duplicate weekdays removed and
// the remainder sorted Sunday-first, matching time.Weekday ordering.
func (p Pattern) Normalize() Pattern {
	return Pattern{Days: normalizeWeekdays(p.Days)}
}

// MarshalJSON emits the {"days":[...]} wire shape with English weekday names.
func (p Pattern) MarshalJSON() ([]byte, error) {
	names := make([]string, 0, len(p.Days))
	for _, day := range normalizeWeekdays(p.Days) {
		names = append(names, day.String())
	}
	return json.Marshal(patternJSON{Days: names})
}

// UnmarshalJSON decodes the {"days":[...]} wire shape.
func (p *Pattern) UnmarshalJSON(data []byte) error {
	var wire patternJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	days := make([]time.Weekday, 0, len(wire.Days))
	for _, name := range wire.Days {
		day, err := ParseWeekday(name)
		if err != nil {
			return err
		}
		days = append(days, day)
	}
	p.Days = normalizeWeekdays(days)
	return nil
}

func normalizeWeekdays(days []time.Weekday) []time.Weekday {
	seen := make(map[time.Weekday]struct{}, len(days))
	result := make([]time.Weekday, 0, len(days))
	for _, day := range days {
		if day < time.Sunday || day > time.Saturday {
			continue
		}
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		result = append(result, day)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

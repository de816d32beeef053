// Package timetable contains the read-side projection that turns flat stored
// occurrences into the rows list views render: standalone occurrences stay as
// they are, while occurrences sharing a recurrence identity collapse into one
// series summary.
package timetable

import (
	"sort"
	"time"

	"github.com/example/course-scheduler/internal/scheduler"
)

// RowKind discriminates the two display row variants.
type RowKind string

const (
	// RowKindStandalone is a single non-recurring occurrence.
	RowKindStandalone RowKind = "standalone"
	// RowKindSeries is a collapsed recurring series.
	RowKindSeries RowKind = "series"
)

// SeriesSummary describes one recurring series for list views.
type SeriesSummary struct {
	RecurrenceID    string
	CourseID        string
	CourseName      string
	RoomID          string
	TeacherID       string
	Representative  scheduler.Occurrence
	OccurrenceCount int
	Dates           []time.Time
	EndDate         time.Time
	Weekdays        []time.Weekday

	members []scheduler.Occurrence
}

// DisplayRow is either a standalone occurrence or a series summary.
type DisplayRow struct {
	Kind       RowKind
	Occurrence scheduler.Occurrence
	Series     *SeriesSummary
}

// Start returns the row's representative start time.
func (r DisplayRow) Start() time.Time {
	if r.Kind == RowKindSeries && r.Series != nil {
		return r.Series.Representative.Start
	}
	return r.Occurrence.Start
}

// Group partitions occurrences by recurrence identity and emits one row per
// standalone occurrence and exactly one summary per series.
//
// Input order is irrelevant; output rows are sorted by representative start
// time ascending. Grouping is idempotent: flattening the result and grouping
// again yields the same rows.
func Group(occurrences []scheduler.Occurrence) []DisplayRow {
	if len(occurrences) == 0 {
		return nil
	}

	standalone := make([]scheduler.Occurrence, 0)
	series := make(map[string][]scheduler.Occurrence)

	for _, occurrence := range occurrences {
		if occurrence.RecurrenceID == "" {
			standalone = append(standalone, occurrence)
			continue
		}
		series[occurrence.RecurrenceID] = append(series[occurrence.RecurrenceID], occurrence)
	}

	rows := make([]DisplayRow, 0, len(standalone)+len(series))
	for _, occurrence := range standalone {
		rows = append(rows, DisplayRow{Kind: RowKindStandalone, Occurrence: occurrence})
	}
	for recurrenceID, members := range series {
		rows = append(rows, DisplayRow{Kind: RowKindSeries, Series: summarize(recurrenceID, members)})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		left, right := rows[i].Start(), rows[j].Start()
		if left.Equal(right) {
			return rowID(rows[i]) < rowID(rows[j])
		}
		return left.Before(right)
	})

	return rows
}

// Flatten expands rows back into the occurrence list they were built from.
// Useful for callers that interleave grouped and raw views of the same data.
func Flatten(rows []DisplayRow) []scheduler.Occurrence {
	out := make([]scheduler.Occurrence, 0, len(rows))
	for _, row := range rows {
		if row.Kind == RowKindSeries && row.Series != nil {
			out = append(out, row.Series.members...)
			continue
		}
		out = append(out, row.Occurrence)
	}
	return out
}

func summarize(recurrenceID string, members []scheduler.Occurrence) *SeriesSummary {
	sorted := make([]scheduler.Occurrence, len(members))
	copy(sorted, members)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start.Equal(sorted[j].Start) {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].Start.Before(sorted[j].Start)
	})

	dates := make([]time.Time, 0, len(sorted))
	weekdaySet := make(map[time.Weekday]struct{})
	for _, occurrence := range sorted {
		dates = append(dates, dateOf(occurrence.Start))
		weekdaySet[occurrence.Start.Weekday()] = struct{}{}
	}

	weekdays := make([]time.Weekday, 0, len(weekdaySet))
	for day := range weekdaySet {
		weekdays = append(weekdays, day)
	}
	sort.Slice(weekdays, func(i, j int) bool { return weekdays[i] < weekdays[j] })

	representative := sorted[0]
	return &SeriesSummary{
		RecurrenceID:    recurrenceID,
		CourseID:        representative.CourseID,
		CourseName:      representative.CourseName,
		RoomID:          representative.RoomID,
		TeacherID:       representative.TeacherID,
		Representative:  representative,
		OccurrenceCount: len(sorted),
		Dates:           dates,
		EndDate:         dateOf(sorted[len(sorted)-1].Start),
		Weekdays:        weekdays,
		members:         sorted,
	}
}

func rowID(row DisplayRow) string {
	if row.Kind == RowKindSeries && row.Series != nil {
		return row.Series.RecurrenceID
	}
	return row.Occurrence.ID
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

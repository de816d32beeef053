package scheduler

import (
	"sort"
	"time"
)

// Occurrence is one concrete bookable slot as seen by the conflict detector.
type Occurrence struct {
	ID           string
	CourseID     string
	CourseName   string
	RecurrenceID string
	RoomID       string
	TeacherID    string
	Start        time.Time
	End          time.Time
}

// ConflictKind describes which shared resource was double-booked.
type ConflictKind string

const (
	// ConflictKindRoom indicates the room is double-booked.
	ConflictKindRoom ConflictKind = "room"
	// ConflictKindTeacher indicates the teacher is double-booked.
	ConflictKindTeacher ConflictKind = "teacher"
)

// Conflict details one overlap between a candidate occurrence and an existing
// one, with enough context for a caller to reschedule or override.
type Conflict struct {
	CandidateStart          time.Time
	ConflictingOccurrenceID string
	CourseName              string
	Kind                    ConflictKind
	ResourceID              string
	OverlapStart            time.Time
	OverlapEnd              time.Time
}

// Report is the complete outcome of a conflict check.
type Report struct {
	Conflicts []Conflict
}

// HasConflicts reports whether any conflict was detected. It is true iff
// Conflicts is non-empty.
func (r Report) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// Check compares every candidate occurrence against every existing occurrence
// and reports overlaps on a shared room or teacher.
//
// Two occurrences conflict iff they share a room or a teacher and their
// half-open intervals overlap: a.Start < b.End && b.Start < a.End. Touching
// endpoints do not conflict. Existing occurrences belonging to the same
// course as the candidate are skipped, so a series being edited never
// conflicts with itself.
//
// Conflicts are ordered by candidate start time, then by existing occurrence
// start time; the ordering is stable across runs.
func Check(candidates, existing []Occurrence) Report {
	if len(candidates) == 0 || len(existing) == 0 {
		return Report{}
	}

	ordered := sortedByStart(candidates)
	others := sortedByStart(existing)

	conflicts := make([]Conflict, 0)
	for _, candidate := range ordered {
		for _, other := range others {
			if other.CourseID != "" && other.CourseID == candidate.CourseID {
				continue
			}
			if !intervalsOverlap(candidate, other) {
				continue
			}

			overlapStart := laterOf(candidate.Start, other.Start)
			overlapEnd := earlierOf(candidate.End, other.End)

			if candidate.RoomID != "" && candidate.RoomID == other.RoomID {
				conflicts = append(conflicts, Conflict{
					CandidateStart:          candidate.Start,
					ConflictingOccurrenceID: other.ID,
					CourseName:              other.CourseName,
					Kind:                    ConflictKindRoom,
					ResourceID:              other.RoomID,
					OverlapStart:            overlapStart,
					OverlapEnd:              overlapEnd,
				})
			}
			if candidate.TeacherID != "" && candidate.TeacherID == other.TeacherID {
				conflicts = append(conflicts, Conflict{
					CandidateStart:          candidate.Start,
					ConflictingOccurrenceID: other.ID,
					CourseName:              other.CourseName,
					Kind:                    ConflictKindTeacher,
					ResourceID:              other.TeacherID,
					OverlapStart:            overlapStart,
					OverlapEnd:              overlapEnd,
				})
			}
		}
	}

	if len(conflicts) == 0 {
		return Report{}
	}
	return Report{Conflicts: conflicts}
}

func intervalsOverlap(a, b Occurrence) bool {
	if a.RoomID != b.RoomID && a.TeacherID != b.TeacherID {
		return false
	}
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

func sortedByStart(occurrences []Occurrence) []Occurrence {
	out := make([]Occurrence, len(occurrences))
	copy(out, occurrences)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Start.Equal(out[j].Start) {
			return out[i].ID < out[j].ID
		}
		return out[i].Start.Before(out[j].Start)
	})
	return out
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlierOf(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

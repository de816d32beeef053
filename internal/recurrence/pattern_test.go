package recurrence

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestPattern_MarshalJSON(t *testing.T) {
	t.Parallel()

	t.Run("emits english weekday names under the days key", func(t *testing.T) {
		t.Parallel()

		pattern := NewPattern(time.Wednesday, time.Monday)
		data, err := json.Marshal(pattern)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := `{"days":["Monday","Wednesday"]}`
		if string(data) != want {
			t.Fatalf("wire shape mismatch: got %s want %s", data, want)
		}
	})

	t.Run("round-trips through the wire form", func(t *testing.T) {
		t.Parallel()

		original := NewPattern(time.Monday, time.Wednesday, time.Friday)
		data, err := json.Marshal(original)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}

		var decoded Pattern
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}

		if len(decoded.Days) != len(original.Days) {
			t.Fatalf("day count mismatch: got %d want %d", len(decoded.Days), len(original.Days))
		}
		for i, day := range original.Days {
			if decoded.Days[i] != day {
				t.Fatalf("day %d mismatch: got %v want %v", i, decoded.Days[i], day)
			}
		}
	})

	t.Run("empty pattern serializes an empty list", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(Pattern{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != `{"days":[]}` {
			t.Fatalf("unexpected wire form: %s", data)
		}
	})
}

func TestPattern_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	t.Run("rejects unknown weekday names", func(t *testing.T) {
		t.Parallel()

		var pattern Pattern
		err := json.Unmarshal([]byte(`{"days":["Mondayy"]}`), &pattern)
		if !errors.Is(err, ErrUnknownWeekday) {
			t.Fatalf("expected ErrUnknownWeekday, got %v", err)
		}
	})

	t.Run("deduplicates and sorts incoming days", func(t *testing.T) {
		t.Parallel()

		var pattern Pattern
		if err := json.Unmarshal([]byte(`{"days":["Friday","Monday","Friday"]}`), &pattern); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(pattern.Days) != 2 {
			t.Fatalf("expected 2 days, got %d", len(pattern.Days))
		}
		if pattern.Days[0] != time.Monday || pattern.Days[1] != time.Friday {
			t.Fatalf("unexpected order: %v", pattern.Days)
		}
	})
}

func TestPattern_Contains(t *testing.T) {
	t.Parallel()

	pattern := NewPattern(time.Tuesday, time.Thursday)

	if !pattern.Contains(time.Tuesday) {
		t.Fatal("expected Tuesday to be contained")
	}
	if pattern.Contains(time.Sunday) {
		t.Fatal("did not expect Sunday to be contained")
	}
	if pattern.IsEmpty() {
		t.Fatal("pattern should not be empty")
	}
	if !(Pattern{}).IsEmpty() {
		t.Fatal("zero pattern should be empty")
	}
}

package scheduling

import (
	"testing"
	"time"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 9, 7, hour, min, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
	}{
		{"partial overlap", at(10, 0), at(11, 0), at(10, 30), at(11, 30), true},
		{"contained", at(10, 0), at(12, 0), at(10, 30), at(11, 0), true},
		{"identical", at(10, 0), at(11, 0), at(10, 0), at(11, 0), true},
		{"back to back", at(10, 0), at(11, 0), at(11, 0), at(12, 0), false},
		{"back to back reversed", at(11, 0), at(12, 0), at(10, 0), at(11, 0), false},
		{"disjoint", at(8, 0), at(9, 0), at(10, 0), at(11, 0), false},
	}
	for _, tc := range cases {
		if got := Overlaps(tc.s1, tc.e1, tc.s2, tc.e2); got != tc.want {
			t.Errorf("%s: Overlaps = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestOverlapsMinutes(t *testing.T) {
	if !OverlapsMinutes(600, 660, 630, 690) {
		t.Error("expected 10:00-11:00 to overlap 10:30-11:30")
	}
	if OverlapsMinutes(600, 660, 660, 720) {
		t.Error("expected 10:00-11:00 not to overlap 11:00-12:00")
	}
}

func TestParseClock(t *testing.T) {
	min, err := ParseClock("09:30")
	if err != nil {
		t.Fatalf("ParseClock(09:30) returned error: %v", err)
	}
	if min != 570 {
		t.Fatalf("ParseClock(09:30) = %d, want 570", min)
	}

	for _, bad := range []string{"25:00", "12:75", "noon", ""} {
		if _, err := ParseClock(bad); err == nil {
			t.Errorf("ParseClock(%q) expected error", bad)
		}
	}
}

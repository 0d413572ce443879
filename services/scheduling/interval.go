package scheduling

import (
	"fmt"
	"time"
)

// Overlaps reports whether the half-open intervals [s1, e1) and [s2, e2)
// intersect. Touching boundaries do not overlap, so back-to-back bookings
// are allowed.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// OverlapsMinutes is the minutes-from-midnight form used for weekly
// availability windows.
func OverlapsMinutes(s1, e1, s2, e2 int) bool {
	return s1 < e2 && s2 < e1
}

// ParseClock converts an "HH:MM" wall-clock string to minutes from midnight.
func ParseClock(v string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(v, "%d:%d", &h, &m); err != nil {
		return 0, &ValidationError{Field: "time", Message: fmt.Sprintf("%q is not HH:MM", v)}
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, &ValidationError{Field: "time", Message: fmt.Sprintf("%q is out of range", v)}
	}
	return h*60 + m, nil
}

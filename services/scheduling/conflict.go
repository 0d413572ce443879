package scheduling

import (
	"context"
	"fmt"
	"time"

	sessionRepo "mentorhub/database/repository/session"
)

// ConflictDetector answers whether a candidate interval collides with a
// mentor's existing blocking-status sessions.
type ConflictDetector interface {
	// HasConflict reports whether [start, end) overlaps any SCHEDULED or
	// IN_PROGRESS session of the mentor. excludeSessionID, when non-empty,
	// is ignored in the check (used when moving an existing session).
	HasConflict(ctx context.Context, mentorID string, start, end time.Time, excludeSessionID string) (bool, error)
}

// DefaultConflictDetector implements ConflictDetector over the session store.
type DefaultConflictDetector struct {
	Repo sessionRepo.SessionRepository
}

func (d *DefaultConflictDetector) HasConflict(ctx context.Context, mentorID string, start, end time.Time, excludeSessionID string) (bool, error) {
	if !start.Before(end) {
		return false, &ValidationError{Field: "interval", Message: "start must precede end"}
	}
	overlapping, err := d.Repo.FindOverlapping(ctx, mentorID, start, end, excludeSessionID)
	if err != nil {
		return false, fmt.Errorf("conflict check failed: %w", err)
	}
	return len(overlapping) > 0, nil
}

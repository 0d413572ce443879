package sessionRepo

import (
	"context"
	"time"

	"mentorhub/models"
)

// SessionRepository persists sessions and answers the conflict queries the
// scheduling engine needs.
type SessionRepository interface {
	// FindOverlapping returns the mentor's blocking-status sessions whose
	// [start_time, scheduled_end) interval overlaps [start, end). A non-empty
	// excludeSessionID is left out of the result.
	FindOverlapping(ctx context.Context, mentorID string, start, end time.Time, excludeSessionID string) ([]models.Session, error)

	// CreateSessionIfFree inserts the session after re-checking the overlap
	// predicate inside a storage transaction, so two concurrent bookings
	// cannot both pass the conflict check and both insert.
	CreateSessionIfFree(ctx context.Context, session *models.Session) error

	GetByID(ctx context.Context, sessionID string) (*models.Session, error)
	UpdateStatus(ctx context.Context, sessionID, status string) error

	// UpdateOnComplete persists the terminal COMPLETED state together with
	// the derived end time and actual duration.
	UpdateOnComplete(ctx context.Context, sessionID string, endTime time.Time, actualDuration int) error

	// FindActiveSubscription returns a MONTHLY_SUBSCRIPTION session between
	// the pair that is still running (subscription_end after now, status not
	// cancelled), or nil when none exists.
	FindActiveSubscription(ctx context.Context, mentorID, menteeID string, now time.Time) (*models.Session, error)

	ListByMentor(ctx context.Context, mentorID string) ([]models.Session, error)
	ListByMentee(ctx context.Context, menteeID string) ([]models.Session, error)
}

package availabilityRepo

import (
	"context"

	"mentorhub/models"
)

// AvailabilityRepository persists mentor weekly availability slots. Start and
// end are minutes from midnight, converted from "HH:MM" by the service layer
// so overlap comparison stays numeric.
type AvailabilityRepository interface {
	// FindOverlappingActive returns active slots for the mentor on the given
	// weekday whose [start, end) window overlaps the candidate interval.
	FindOverlappingActive(ctx context.Context, mentorID string, dayOfWeek, startMin, endMin int, excludeSlotID string) ([]models.AvailabilitySlot, error)

	// CreateSlotIfFree inserts the slot after re-checking the overlap
	// predicate inside a storage transaction.
	CreateSlotIfFree(ctx context.Context, slot *models.AvailabilitySlot, startMin, endMin int) error

	GetByID(ctx context.Context, slotID string) (*models.AvailabilitySlot, error)
	ListByMentor(ctx context.Context, mentorID string) ([]models.AvailabilitySlot, error)
	SetActive(ctx context.Context, slotID string, active bool) error
	Delete(ctx context.Context, slotID string) error
}

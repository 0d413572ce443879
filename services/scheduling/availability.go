package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	availabilityRepo "mentorhub/database/repository/availability"
	"mentorhub/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AvailabilityService manages a mentor's weekly recurring availability.
type AvailabilityService interface {
	CreateSlot(ctx context.Context, mentorID string, req models.CreateAvailabilityRequest) (*models.AvailabilitySlot, error)
	ListSlots(ctx context.Context, mentorID string) ([]models.AvailabilitySlot, error)
	SetSlotActive(ctx context.Context, mentorID, slotID string, active bool) (*models.AvailabilitySlot, error)
	DeleteSlot(ctx context.Context, mentorID, slotID string) error
}

// DefaultAvailabilityService implements AvailabilityService.
type DefaultAvailabilityService struct {
	Repo   availabilityRepo.AvailabilityRepository
	Logger *zap.Logger
}

// CreateSlot validates the window and inserts it, rejecting overlaps with the
// mentor's existing active slots on the same weekday.
func (s *DefaultAvailabilityService) CreateSlot(ctx context.Context, mentorID string, req models.CreateAvailabilityRequest) (*models.AvailabilitySlot, error) {
	if req.DayOfWeek == nil || *req.DayOfWeek < 0 || *req.DayOfWeek > 6 {
		return nil, &ValidationError{Field: "dayOfWeek", Message: "must be between 0 (Sunday) and 6 (Saturday)"}
	}
	startMin, err := ParseClock(req.StartTime)
	if err != nil {
		return nil, err
	}
	endMin, err := ParseClock(req.EndTime)
	if err != nil {
		return nil, err
	}
	if startMin >= endMin {
		return nil, &ValidationError{Field: "startTime", Message: "must be before endTime"}
	}

	now := time.Now()
	slot := &models.AvailabilitySlot{
		ID:        uuid.New().String(),
		MentorID:  mentorID,
		DayOfWeek: *req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Repo.CreateSlotIfFree(ctx, slot, startMin, endMin); err != nil {
		if errors.Is(err, availabilityRepo.ErrOverlap) {
			return nil, &ConflictError{Resource: "availability", Message: "overlaps an existing active slot on this day"}
		}
		return nil, fmt.Errorf("failed to create availability slot: %w", err)
	}

	s.Logger.Info("availability slot created",
		zap.String("mentorId", mentorID),
		zap.Int("dayOfWeek", slot.DayOfWeek),
		zap.String("window", slot.StartTime+"-"+slot.EndTime))
	return slot, nil
}

// ListSlots returns all of the mentor's slots.
func (s *DefaultAvailabilityService) ListSlots(ctx context.Context, mentorID string) ([]models.AvailabilitySlot, error) {
	return s.Repo.ListByMentor(ctx, mentorID)
}

// SetSlotActive toggles a slot. Reactivating re-checks the overlap invariant:
// an inactive slot may have been eclipsed by a newer active one.
func (s *DefaultAvailabilityService) SetSlotActive(ctx context.Context, mentorID, slotID string, active bool) (*models.AvailabilitySlot, error) {
	slot, err := s.Repo.GetByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot.MentorID != mentorID {
		return nil, &ValidationError{Field: "slotId", Message: "slot does not belong to this mentor"}
	}

	if active && !slot.IsActive {
		startMin, err := ParseClock(slot.StartTime)
		if err != nil {
			return nil, err
		}
		endMin, err := ParseClock(slot.EndTime)
		if err != nil {
			return nil, err
		}
		overlapping, err := s.Repo.FindOverlappingActive(ctx, mentorID, slot.DayOfWeek, startMin, endMin, slot.ID)
		if err != nil {
			return nil, fmt.Errorf("overlap check failed: %w", err)
		}
		if len(overlapping) > 0 {
			return nil, &ConflictError{Resource: "availability", Message: "reactivation would overlap an existing active slot"}
		}
	}

	if err := s.Repo.SetActive(ctx, slotID, active); err != nil {
		return nil, err
	}
	slot.IsActive = active
	return slot, nil
}

// DeleteSlot removes a slot owned by the mentor.
func (s *DefaultAvailabilityService) DeleteSlot(ctx context.Context, mentorID, slotID string) error {
	slot, err := s.Repo.GetByID(ctx, slotID)
	if err != nil {
		return err
	}
	if slot.MentorID != mentorID {
		return &ValidationError{Field: "slotId", Message: "slot does not belong to this mentor"}
	}
	return s.Repo.Delete(ctx, slotID)
}

package pricing

import (
	"context"
	"fmt"
	"math"

	"mentorhub/models"
	"mentorhub/services/scheduling"
)

// durationToleranceMin is how far (in minutes) a requested ONE_TIME window may
// deviate from the model's configured duration.
const durationToleranceMin = 5

// OneTimeHandler prices flat, fixed-duration sessions.
type OneTimeHandler struct {
	Conflicts scheduling.ConflictDetector
	MinAmount float64
}

func (h *OneTimeHandler) ValidateBooking(ctx context.Context, model models.PricingModel, req models.BookingRequest) error {
	if req.EndTime == nil {
		return &ValidationError{Field: "endTime", Message: "required for one-time bookings"}
	}
	if !req.StartTime.Before(*req.EndTime) {
		return &ValidationError{Field: "endTime", Message: "must be after startTime"}
	}

	if model.Duration != nil {
		requested := req.EndTime.Sub(req.StartTime).Minutes()
		if math.Abs(requested-float64(*model.Duration)) > durationToleranceMin {
			return &ValidationError{
				Field:   "endTime",
				Message: fmt.Sprintf("requested %.0f minutes, model is configured for %d", requested, *model.Duration),
			}
		}
	}

	conflict, err := h.Conflicts.HasConflict(ctx, req.MentorID, req.StartTime, *req.EndTime, "")
	if err != nil {
		return err
	}
	if conflict {
		return &scheduling.ConflictError{Resource: "session", Message: "mentor is already booked in this window"}
	}
	return nil
}

func (h *OneTimeHandler) ComputePrice(model models.PricingModel, req models.BookingRequest) (models.PricingDecision, error) {
	amount := RoundToCents(model.Price)
	if amount < h.MinAmount {
		return models.PricingDecision{}, &AmountTooLowError{Amount: amount, Minimum: h.MinAmount}
	}
	return models.PricingDecision{
		ModelID:     model.ID,
		PricingType: models.PricingOneTime,
		Amount:      amount,
	}, nil
}

var _ Handler = (*OneTimeHandler)(nil)

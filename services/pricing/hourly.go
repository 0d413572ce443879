package pricing

import (
	"context"
	"fmt"
	"time"

	"mentorhub/models"
	"mentorhub/services/scheduling"
)

// Hourly bookings must estimate between 15 minutes and 8 hours.
const (
	MinHourlyMinutes = 15
	MaxHourlyMinutes = 480
)

// HourlyHandler prices sessions by the hour. The booking charge is an
// estimate; completion recomputes from actual minutes (see RecomputeAmount).
type HourlyHandler struct {
	Conflicts scheduling.ConflictDetector
	MinAmount float64
}

func (h *HourlyHandler) ValidateBooking(ctx context.Context, model models.PricingModel, req models.BookingRequest) error {
	if req.EstimatedDuration < MinHourlyMinutes || req.EstimatedDuration > MaxHourlyMinutes {
		return &ValidationError{
			Field:   "estimatedDuration",
			Message: fmt.Sprintf("must be between %d and %d minutes", MinHourlyMinutes, MaxHourlyMinutes),
		}
	}

	end := req.StartTime.Add(time.Duration(req.EstimatedDuration) * time.Minute)
	conflict, err := h.Conflicts.HasConflict(ctx, req.MentorID, req.StartTime, end, "")
	if err != nil {
		return err
	}
	if conflict {
		return &scheduling.ConflictError{Resource: "session", Message: "mentor is already booked at the requested start"}
	}
	return nil
}

func (h *HourlyHandler) ComputePrice(model models.PricingModel, req models.BookingRequest) (models.PricingDecision, error) {
	amount := HourlyAmount(model.Price, req.EstimatedDuration)
	if amount < h.MinAmount {
		return models.PricingDecision{}, &AmountTooLowError{Amount: amount, Minimum: h.MinAmount}
	}
	return models.PricingDecision{
		ModelID:     model.ID,
		PricingType: models.PricingHourly,
		Amount:      amount,
	}, nil
}

// HourlyAmount computes rate × (minutes / 60) rounded to cents. Completion of
// an hourly session calls this with actual minutes to produce the corrected
// charge; the difference against the estimate is reported as an explicit
// delta, never silently absorbed.
func HourlyAmount(hourlyRate float64, minutes int) float64 {
	return RoundToCents(hourlyRate * float64(minutes) / 60)
}

var _ Handler = (*HourlyHandler)(nil)

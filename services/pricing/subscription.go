package pricing

import (
	"context"
	"fmt"
	"time"

	sessionRepo "mentorhub/database/repository/session"
	"mentorhub/models"
)

// SubscriptionPeriod is the billing period of a monthly subscription.
const SubscriptionPeriod = 30 * 24 * time.Hour

// SubscriptionHandler prices monthly mentor subscriptions: a flat charge
// covering 30 days from booking.
type SubscriptionHandler struct {
	Sessions  sessionRepo.SessionRepository
	MinAmount float64
	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

func (h *SubscriptionHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *SubscriptionHandler) ValidateBooking(ctx context.Context, model models.PricingModel, req models.BookingRequest) error {
	existing, err := h.Sessions.FindActiveSubscription(ctx, req.MentorID, req.MenteeID, h.now())
	if err != nil {
		return fmt.Errorf("subscription check failed: %w", err)
	}
	if existing != nil {
		return ErrActiveSubscriptionExists
	}
	return nil
}

func (h *SubscriptionHandler) ComputePrice(model models.PricingModel, req models.BookingRequest) (models.PricingDecision, error) {
	amount := RoundToCents(model.Price)
	if amount < h.MinAmount {
		return models.PricingDecision{}, &AmountTooLowError{Amount: amount, Minimum: h.MinAmount}
	}
	endDate := h.now().Add(SubscriptionPeriod)
	return models.PricingDecision{
		ModelID:         model.ID,
		PricingType:     models.PricingSubscription,
		Amount:          amount,
		SubscriptionEnd: &endDate,
	}, nil
}

var _ Handler = (*SubscriptionHandler)(nil)

package pricing

import (
	"context"

	"mentorhub/models"
)

// Handler is one pricing strategy: it validates a booking request against its
// own rules and computes the charge. Selection happens by pricing-type tag in
// the Registry, never by string branching at call sites.
type Handler interface {
	ValidateBooking(ctx context.Context, model models.PricingModel, req models.BookingRequest) error
	ComputePrice(model models.PricingModel, req models.BookingRequest) (models.PricingDecision, error)
}

// Registry maps pricing-type tags to handlers.
type Registry struct {
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

func (r *Registry) Register(pricingType string, h Handler) {
	r.handlers[pricingType] = h
}

// Get returns the handler for the tag or an UnsupportedPricingTypeError.
func (r *Registry) Get(pricingType string) (Handler, error) {
	h, ok := r.handlers[pricingType]
	if !ok {
		return nil, &UnsupportedPricingTypeError{Type: pricingType}
	}
	return h, nil
}

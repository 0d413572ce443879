package models

import "time"

// Pricing model types.
const (
	PricingOneTime      = "ONE_TIME"
	PricingHourly       = "HOURLY"
	PricingSubscription = "MONTHLY_SUBSCRIPTION"
)

// PricingModel is mentor-authored pricing configuration. Inactive models
// cannot be selected for new bookings; sessions already referencing them
// remain valid.
type PricingModel struct {
	ID       string `bson:"id" json:"id"`
	MentorID string `bson:"mentor_id" json:"mentorId"`
	Type     string `bson:"type" json:"type"`
	Price    float64 `bson:"price" json:"price"`
	// Duration in minutes; required for ONE_TIME and HOURLY.
	Duration    *int      `bson:"duration,omitempty" json:"duration,omitempty"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	IsActive    bool      `bson:"is_active" json:"isActive"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updatedAt"`
}

// PricingDecision is the computed charge for a validated booking request.
type PricingDecision struct {
	ModelID     string     `json:"modelId"`
	PricingType string     `json:"pricingType"`
	Amount      float64    `json:"amount"`
	// SubscriptionEnd is derived for MONTHLY_SUBSCRIPTION (now + 30 days).
	SubscriptionEnd *time.Time `json:"subscriptionEnd,omitempty"`
}

// CreatePricingModelRequest is the payload for publishing a pricing model.
type CreatePricingModelRequest struct {
	Type        string  `json:"type" binding:"required"`
	Price       float64 `json:"price" binding:"required"`
	Duration    *int    `json:"duration,omitempty"`
	Description string  `json:"description,omitempty"`
}

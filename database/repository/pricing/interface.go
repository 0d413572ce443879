package pricingRepo

import (
	"context"

	"mentorhub/models"
)

// PricingRepository persists mentor pricing models.
type PricingRepository interface {
	Create(ctx context.Context, model *models.PricingModel) error
	GetByID(ctx context.Context, modelID string) (*models.PricingModel, error)
	ListByMentor(ctx context.Context, mentorID string, activeOnly bool) ([]models.PricingModel, error)
	SetActive(ctx context.Context, modelID string, active bool) error
}

package userRepo

import (
	"context"

	"mentorhub/models"
)

// UserRepository persists the minimal account records the identity service needs.
type UserRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, accountID string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	UpdateFCMToken(ctx context.Context, accountID, token string) error
}

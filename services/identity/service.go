package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	userRepo "mentorhub/database/repository/user"
	"mentorhub/models"
	"mentorhub/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 72 * time.Hour

// ErrInvalidCredentials signals a failed signin without disclosing whether
// the email exists.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrEmailTaken signals a signup with an already-registered email.
var ErrEmailTaken = errors.New("email already registered")

var validRoles = map[string]bool{
	models.RoleMentor: true,
	models.RoleMentee: true,
}

// IdentityService registers and authenticates accounts.
type IdentityService interface {
	Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error)
	Signin(ctx context.Context, req models.SigninRequest) (*models.AuthResponse, error)
	GetAccount(ctx context.Context, accountID string) (*models.Account, error)
	RegisterDeviceToken(ctx context.Context, accountID, fcmToken string) error
}

// DefaultIdentityService is the production implementation.
type DefaultIdentityService struct {
	Users  userRepo.UserRepository
	Logger *zap.Logger
}

func (s *DefaultIdentityService) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error) {
	for _, role := range req.Roles {
		if !validRoles[role] {
			return nil, fmt.Errorf("unknown role: %s", role)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	account := &models.Account{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Roles:        req.Roles,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Users.Create(ctx, account); err != nil {
		if errors.Is(err, userRepo.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	token, err := utils.GenerateToken(account.ID, account.Email, tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.Logger.Info("account created",
		zap.String("accountId", account.ID),
		zap.Strings("roles", account.Roles))
	return &models.AuthResponse{Token: token, Account: account}, nil
}

func (s *DefaultIdentityService) Signin(ctx context.Context, req models.SigninRequest) (*models.AuthResponse, error) {
	account, err := s.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("account lookup failed: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(account.ID, account.Email, tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.Logger.Info("account signed in", zap.String("accountId", account.ID))
	return &models.AuthResponse{Token: token, Account: account}, nil
}

func (s *DefaultIdentityService) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	return s.Users.GetByID(ctx, accountID)
}

func (s *DefaultIdentityService) RegisterDeviceToken(ctx context.Context, accountID, fcmToken string) error {
	return s.Users.UpdateFCMToken(ctx, accountID, fcmToken)
}

var _ IdentityService = (*DefaultIdentityService)(nil)

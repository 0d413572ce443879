package notification

import (
	"context"
	"fmt"

	userRepo "mentorhub/database/repository/user"
	"mentorhub/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// NotificationService delivers push notifications to accounts.
type NotificationService interface {
	SendPushNotification(ctx context.Context, accountID, title, body string, data map[string]string) error
}

// DefaultNotificationService sends FCM pushes using the account's registered
// device token.
type DefaultNotificationService struct {
	Users  userRepo.UserRepository
	Logger *zap.Logger
}

func NewDefaultNotificationService(users userRepo.UserRepository, logger *zap.Logger) (*DefaultNotificationService, error) {
	if users == nil {
		return nil, fmt.Errorf("notification service initialization error: user repository is nil")
	}
	return &DefaultNotificationService{Users: users, Logger: logger}, nil
}

func (s *DefaultNotificationService) SendPushNotification(ctx context.Context, accountID, title, body string, data map[string]string) error {
	account, err := s.Users.GetByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("could not find account %s: %w", accountID, err)
	}
	if account.FCMToken == "" {
		s.Logger.Debug("account has no push token, skipping", zap.String("accountId", accountID))
		return nil
	}
	if utils.FCMClient == nil {
		s.Logger.Debug("push delivery disabled, skipping", zap.String("accountId", accountID))
		return nil
	}

	msg := &messaging.Message{
		Token: account.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	response, err := utils.FCMClient.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to send FCM message to %s: %w", accountID, err)
	}
	s.Logger.Debug("push sent", zap.String("accountId", accountID), zap.String("messageId", response))
	return nil
}

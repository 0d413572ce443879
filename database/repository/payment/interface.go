package paymentRepo

import (
	"context"
	"time"

	"mentorhub/models"
)

// PaymentRepository persists transactions and mentor payouts.
type PaymentRepository interface {
	CreateTransaction(ctx context.Context, txn *models.Transaction) error
	GetTransactionByID(ctx context.Context, txnID string) (*models.Transaction, error)
	GetTransactionBySessionID(ctx context.Context, sessionID string) (*models.Transaction, error)
	UpdateTransactionStatus(ctx context.Context, txnID, status string, completedAt *time.Time) error

	// Reprice rewrites the money figures of a transaction. Used only for the
	// HOURLY completion correction.
	Reprice(ctx context.Context, txnID string, amount, platformFee, mentorEarnings float64) error

	// FindUnsettledByMentor returns the mentor's COMPLETED transactions not
	// referenced by any payout, oldest first.
	FindUnsettledByMentor(ctx context.Context, mentorID string) ([]models.Transaction, error)

	// CreatePayoutSettling inserts the payout after re-verifying, inside a
	// storage transaction, that none of its transaction ids are already
	// claimed by another payout.
	CreatePayoutSettling(ctx context.Context, payout *models.MentorPayout) error

	// PayoutReferencingTransaction returns the payout whose membership set
	// contains the transaction id, or nil when none does.
	PayoutReferencingTransaction(ctx context.Context, mentorID, txnID string) (*models.MentorPayout, error)

	GetPayoutByID(ctx context.Context, payoutID string) (*models.MentorPayout, error)
	UpdatePayoutStatus(ctx context.Context, payoutID, status string, processedAt *time.Time) error
	ListPayoutsByMentor(ctx context.Context, mentorID string) ([]models.MentorPayout, error)
}

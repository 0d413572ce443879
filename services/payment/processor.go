package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	paymentRepo "mentorhub/database/repository/payment"
	"mentorhub/models"
	"mentorhub/services/pricing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IntentGateway creates external payment intents for card-style methods.
type IntentGateway interface {
	CreatePaymentIntent(amount float64, currency, sessionID string) (string, error)
}

// Processor turns a pricing decision into an immutable transaction record
// with the platform-fee split captured at creation time.
type Processor struct {
	Repo    paymentRepo.PaymentRepository
	Gateway IntentGateway
	// FeeRate is the platform's cut, e.g. 0.15. Injected so fee-rate changes
	// are testable and never rewrite historical transactions.
	FeeRate float64
	Logger  *zap.Logger
}

// SplitFee computes the platform fee and mentor earnings for an amount.
// Both sides are rounded to cents and always sum back to the amount.
func SplitFee(amount, feeRate float64) (platformFee, mentorEarnings float64) {
	platformFee = pricing.RoundToCents(amount * feeRate)
	mentorEarnings = pricing.RoundToCents(amount - platformFee)
	return platformFee, mentorEarnings
}

// ProcessPayment creates the session's transaction (1:1). Platform-credit
// payments complete synchronously; gateway methods stay PENDING until the
// webhook confirms them. Re-processing a completed session fails with
// ErrAlreadyPaid; an existing pending transaction is returned as-is.
func (p *Processor) ProcessPayment(ctx context.Context, session *models.Session, decision models.PricingDecision, method string) (*models.Transaction, error) {
	existing, err := p.Repo.GetTransactionBySessionID(ctx, session.ID)
	if err != nil && !errors.Is(err, paymentRepo.ErrTxnNotFound) {
		return nil, fmt.Errorf("transaction lookup failed: %w", err)
	}
	if existing != nil {
		if existing.Status == models.TxnCompleted {
			return nil, ErrAlreadyPaid
		}
		return existing, nil
	}

	fee, earnings := SplitFee(decision.Amount, p.FeeRate)
	now := time.Now()
	txn := &models.Transaction{
		ID:             uuid.New().String(),
		SessionID:      session.ID,
		MentorID:       session.MentorID,
		MenteeID:       session.MenteeID,
		Amount:         decision.Amount,
		PlatformFee:    fee,
		MentorEarnings: earnings,
		Status:         models.TxnPending,
		PaymentMethod:  method,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	switch method {
	case models.PayPlatformCredit:
		// Fully synchronous mode: completion is immediate on successful validation.
		txn.Status = models.TxnCompleted
		txn.CompletedAt = &now
	case models.PayCard, models.PayStripe:
		if p.Gateway != nil {
			ref, err := p.Gateway.CreatePaymentIntent(decision.Amount, "usd", session.ID)
			if err != nil {
				return nil, fmt.Errorf("payment intent creation failed: %w", err)
			}
			txn.GatewayRef = ref
		}
	case models.PayBankTransfer, models.PayPayPal:
		// Stays PENDING until the gateway webhook reports the outcome.
	default:
		return nil, ErrUnsupportedMethod
	}

	if err := p.Repo.CreateTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to persist transaction: %w", err)
	}

	p.Logger.Info("payment processed",
		zap.String("sessionId", session.ID),
		zap.String("transactionId", txn.ID),
		zap.Float64("amount", txn.Amount),
		zap.Float64("platformFee", txn.PlatformFee),
		zap.String("status", txn.Status))
	return txn, nil
}

// Reprice rewrites a transaction's money figures from a corrected amount,
// keeping the fee split consistent. Used when an HOURLY session completes
// with actual minutes differing from the estimate. Returns the delta between
// the new and old amounts.
func (p *Processor) Reprice(ctx context.Context, txnID string, newAmount float64) (float64, error) {
	txn, err := p.Repo.GetTransactionByID(ctx, txnID)
	if err != nil {
		if errors.Is(err, paymentRepo.ErrTxnNotFound) {
			return 0, ErrTransactionNotFound
		}
		return 0, err
	}

	delta := pricing.RoundToCents(newAmount - txn.Amount)
	if delta == 0 {
		return 0, nil
	}

	fee, earnings := SplitFee(newAmount, p.FeeRate)
	if err := p.Repo.Reprice(ctx, txnID, newAmount, fee, earnings); err != nil {
		return 0, fmt.Errorf("failed to reprice transaction %s: %w", txnID, err)
	}

	p.Logger.Info("transaction repriced",
		zap.String("transactionId", txnID),
		zap.Float64("oldAmount", txn.Amount),
		zap.Float64("newAmount", newAmount),
		zap.Float64("delta", delta))
	return delta, nil
}

package payout

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

const lockTTL = 10 * time.Second

// TransferGateway initiates external transfers for gateway-mediated payouts.
type TransferGateway interface {
	CreateTransfer(amount float64, destination, payoutID string) (string, error)
}

// FinalizeEnqueuer schedules deferred confirmation of a PENDING payout.
type FinalizeEnqueuer interface {
	EnqueuePayoutFinalize(payoutID string, delay time.Duration) error
}

// Engine settles mentor earnings into payouts.
type Engine struct {
	Repo      paymentRepo.PaymentRepository
	Ledger    *Ledger
	Locks     Locker
	Transfers TransferGateway
	Finalize  FinalizeEnqueuer
	Logger    *zap.Logger
}

func gatewayMediated(method string) bool {
	switch method {
	case models.PayBankTransfer, models.PayPayPal, models.PayStripe:
		return true
	}
	return false
}

// RequestPayout settles enough of the mentor's oldest unsettled transactions
// to cover the requested amount. The last transaction selected may overshoot;
// partial-transaction splitting is not supported, so the payout amount is the
// earnings sum of the selection ("at least amount, minimum transactions").
func (e *Engine) RequestPayout(ctx context.Context, mentorID string, amount float64, method, triggerType string) (*models.MentorPayout, error) {
	if amount <= 0 {
		return nil, &ValidationError{Field: "amount", Message: "must be positive"}
	}

	lockKey := "payout:" + mentorID
	ok, err := e.Locks.Acquire(ctx, lockKey, lockTTL)
	if err != nil {
		return nil, fmt.Errorf("payout lock failed: %w", err)
	}
	if !ok {
		return nil, ErrSettlementBusy
	}
	defer func() {
		if err := e.Locks.Release(context.Background(), lockKey); err != nil {
			e.Logger.Warn("failed to release payout lock", zap.String("mentorId", mentorID), zap.Error(err))
		}
	}()

	unsettled, err := e.Ledger.GetUnsettledEarnings(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	if unsettled.TotalAvailable < amount {
		return nil, &InsufficientEarningsError{Requested: amount, Available: unsettled.TotalAvailable}
	}

	// Oldest first, accumulate until the running sum covers the request.
	var selected []string
	accumulated := 0.0
	for _, txn := range unsettled.Transactions {
		selected = append(selected, txn.ID)
		accumulated += txn.MentorEarnings
		if accumulated >= amount {
			break
		}
	}
	accumulated = pricing.RoundToCents(accumulated)

	payout := &models.MentorPayout{
		ID:             uuid.New().String(),
		MentorID:       mentorID,
		Amount:         accumulated,
		Status:         models.PayoutCompleted,
		Method:         method,
		TriggerType:    triggerType,
		TransactionIDs: selected,
		CreatedAt:      time.Now(),
	}

	if gatewayMediated(method) {
		payout.Status = models.PayoutPending
		if method == models.PayStripe && e.Transfers != nil {
			ref, err := e.Transfers.CreateTransfer(accumulated, mentorID, payout.ID)
			if err != nil {
				return nil, fmt.Errorf("payout transfer failed: %w", err)
			}
			payout.GatewayRef = ref
		}
	} else {
		now := time.Now()
		payout.ProcessedAt = &now
	}

	if err := e.Repo.CreatePayoutSettling(ctx, payout); err != nil {
		if errors.Is(err, paymentRepo.ErrAlreadySettled) {
			return nil, ErrSettlementBusy
		}
		return nil, fmt.Errorf("failed to persist payout: %w", err)
	}

	if payout.Status == models.PayoutPending && e.Finalize != nil {
		if err := e.Finalize.EnqueuePayoutFinalize(payout.ID, 30*time.Second); err != nil {
			e.Logger.Warn("failed to enqueue payout finalize task",
				zap.String("payoutId", payout.ID), zap.Error(err))
		}
	}

	e.Logger.Info("payout created",
		zap.String("mentorId", mentorID),
		zap.String("payoutId", payout.ID),
		zap.Float64("amount", payout.Amount),
		zap.Int("transactions", len(selected)),
		zap.String("status", payout.Status))
	return payout, nil
}

// TriggerAutomaticPayout settles exactly one completed transaction when its
// session completes. Idempotent by membership check: if any payout already
// references the transaction, the trigger is a no-op and returns that payout.
func (e *Engine) TriggerAutomaticPayout(ctx context.Context, txn *models.Transaction) (*models.MentorPayout, error) {
	if txn.Status != models.TxnCompleted {
		return nil, nil
	}

	existing, err := e.Repo.PayoutReferencingTransaction(ctx, txn.MentorID, txn.ID)
	if err != nil {
		return nil, fmt.Errorf("automatic payout membership check failed: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	now := time.Now()
	payout := &models.MentorPayout{
		ID:             uuid.New().String(),
		MentorID:       txn.MentorID,
		Amount:         txn.MentorEarnings,
		Status:         models.PayoutCompleted,
		Method:         models.PayPlatformCredit,
		TriggerType:    models.TriggerSessionCompleted,
		TransactionIDs: []string{txn.ID},
		ProcessedAt:    &now,
		CreatedAt:      now,
	}

	if err := e.Repo.CreatePayoutSettling(ctx, payout); err != nil {
		if errors.Is(err, paymentRepo.ErrAlreadySettled) {
			// Lost the race to a concurrent trigger; the earlier payout wins.
			return e.Repo.PayoutReferencingTransaction(ctx, txn.MentorID, txn.ID)
		}
		return nil, fmt.Errorf("failed to persist automatic payout: %w", err)
	}

	e.Logger.Info("automatic payout triggered",
		zap.String("mentorId", txn.MentorID),
		zap.String("transactionId", txn.ID),
		zap.Float64("amount", payout.Amount))
	return payout, nil
}

// FinalizePayout confirms a gateway-mediated payout. Called by the async
// worker once the external transfer settles.
func (e *Engine) FinalizePayout(ctx context.Context, payoutID string) error {
	payout, err := e.Repo.GetPayoutByID(ctx, payoutID)
	if err != nil {
		return err
	}
	if payout.Status != models.PayoutPending {
		return nil
	}
	now := time.Now()
	if err := e.Repo.UpdatePayoutStatus(ctx, payoutID, models.PayoutCompleted, &now); err != nil {
		return fmt.Errorf("failed to finalize payout %s: %w", payoutID, err)
	}
	e.Logger.Info("payout finalized", zap.String("payoutId", payoutID))
	return nil
}

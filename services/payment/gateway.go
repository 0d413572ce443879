package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	paymentRepo "mentorhub/database/repository/payment"
	"mentorhub/models"

	"go.uber.org/zap"
)

// ApplyGatewayEvent applies an asynchronous payment outcome delivered by the
// gateway webhook. Only the webhook moves a gateway-mediated transaction out
// of PENDING. Success and failure events on an already-settled transaction
// are idempotent no-ops.
func (p *Processor) ApplyGatewayEvent(ctx context.Context, event models.GatewayEvent) (*models.Transaction, error) {
	txn, err := p.Repo.GetTransactionByID(ctx, event.TransactionID)
	if err != nil {
		if errors.Is(err, paymentRepo.ErrTxnNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("transaction lookup failed: %w", err)
	}

	switch event.Outcome {
	case models.GatewayPaymentSuccess:
		if txn.Status == models.TxnCompleted {
			return txn, nil
		}
		now := time.Now()
		if err := p.Repo.UpdateTransactionStatus(ctx, txn.ID, models.TxnCompleted, &now); err != nil {
			return nil, fmt.Errorf("failed to complete transaction %s: %w", txn.ID, err)
		}
		txn.Status = models.TxnCompleted
		txn.CompletedAt = &now
	case models.GatewayPaymentFailed:
		if txn.Status == models.TxnFailed {
			return txn, nil
		}
		// The session is left untouched; only the transaction records failure.
		if err := p.Repo.UpdateTransactionStatus(ctx, txn.ID, models.TxnFailed, nil); err != nil {
			return nil, fmt.Errorf("failed to mark transaction %s failed: %w", txn.ID, err)
		}
		txn.Status = models.TxnFailed
	case models.GatewayPaymentPending:
		// Informational only.
		return txn, nil
	default:
		return nil, ErrUnknownOutcome
	}

	p.Logger.Info("gateway event applied",
		zap.String("transactionId", txn.ID),
		zap.String("outcome", event.Outcome),
		zap.String("status", txn.Status))
	return txn, nil
}

package payout

import (
	"context"
	"fmt"

	paymentRepo "mentorhub/database/repository/payment"
	"mentorhub/models"
	"mentorhub/services/pricing"
)

// Ledger exposes the mentor's withdrawable earnings. The view is recomputed
// from transaction facts on every read; no stored balance exists to drift.
type Ledger struct {
	Repo paymentRepo.PaymentRepository
}

// GetUnsettledEarnings returns the mentor's completed transactions not yet
// claimed by any payout, oldest first, with their earnings total.
func (l *Ledger) GetUnsettledEarnings(ctx context.Context, mentorID string) (*models.UnsettledEarnings, error) {
	txns, err := l.Repo.FindUnsettledByMentor(ctx, mentorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load unsettled transactions: %w", err)
	}

	total := 0.0
	for _, t := range txns {
		total += t.MentorEarnings
	}
	return &models.UnsettledEarnings{
		Transactions:   txns,
		TotalAvailable: pricing.RoundToCents(total),
	}, nil
}

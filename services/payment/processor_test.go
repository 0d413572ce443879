package payment

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	paymentRepo "mentorhub/database/repository/payment"
	"mentorhub/models"

	"go.uber.org/zap"
)

type fakePaymentRepo struct {
	txns    map[string]*models.Transaction
	payouts map[string]*models.MentorPayout
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{
		txns:    make(map[string]*models.Transaction),
		payouts: make(map[string]*models.MentorPayout),
	}
}

func (f *fakePaymentRepo) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	cp := *txn
	f.txns[txn.ID] = &cp
	return nil
}

func (f *fakePaymentRepo) GetTransactionByID(ctx context.Context, txnID string) (*models.Transaction, error) {
	t, ok := f.txns[txnID]
	if !ok {
		return nil, paymentRepo.ErrTxnNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakePaymentRepo) GetTransactionBySessionID(ctx context.Context, sessionID string) (*models.Transaction, error) {
	for _, t := range f.txns {
		if t.SessionID == sessionID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, paymentRepo.ErrTxnNotFound
}

func (f *fakePaymentRepo) UpdateTransactionStatus(ctx context.Context, txnID, status string, completedAt *time.Time) error {
	t, ok := f.txns[txnID]
	if !ok {
		return paymentRepo.ErrTxnNotFound
	}
	t.Status = status
	if completedAt != nil {
		t.CompletedAt = completedAt
	}
	return nil
}

func (f *fakePaymentRepo) Reprice(ctx context.Context, txnID string, amount, platformFee, mentorEarnings float64) error {
	t, ok := f.txns[txnID]
	if !ok {
		return paymentRepo.ErrTxnNotFound
	}
	t.Amount = amount
	t.PlatformFee = platformFee
	t.MentorEarnings = mentorEarnings
	return nil
}

func (f *fakePaymentRepo) FindUnsettledByMentor(ctx context.Context, mentorID string) ([]models.Transaction, error) {
	claimed := make(map[string]bool)
	for _, p := range f.payouts {
		if p.Status == models.PayoutFailed {
			continue
		}
		for _, id := range p.TransactionIDs {
			claimed[id] = true
		}
	}
	var out []models.Transaction
	for _, t := range f.txns {
		if t.MentorID == mentorID && t.Status == models.TxnCompleted && !claimed[t.ID] {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakePaymentRepo) CreatePayoutSettling(ctx context.Context, payout *models.MentorPayout) error {
	for _, existing := range f.payouts {
		if existing.Status == models.PayoutFailed {
			continue
		}
		for _, claimed := range existing.TransactionIDs {
			for _, id := range payout.TransactionIDs {
				if claimed == id {
					return paymentRepo.ErrAlreadySettled
				}
			}
		}
	}
	cp := *payout
	f.payouts[payout.ID] = &cp
	return nil
}

func (f *fakePaymentRepo) PayoutReferencingTransaction(ctx context.Context, mentorID, txnID string) (*models.MentorPayout, error) {
	for _, p := range f.payouts {
		if p.MentorID != mentorID || p.Status == models.PayoutFailed {
			continue
		}
		for _, id := range p.TransactionIDs {
			if id == txnID {
				cp := *p
				return &cp, nil
			}
		}
	}
	return nil, nil
}

func (f *fakePaymentRepo) GetPayoutByID(ctx context.Context, payoutID string) (*models.MentorPayout, error) {
	p, ok := f.payouts[payoutID]
	if !ok {
		return nil, paymentRepo.ErrPayoutNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePaymentRepo) UpdatePayoutStatus(ctx context.Context, payoutID, status string, processedAt *time.Time) error {
	p, ok := f.payouts[payoutID]
	if !ok {
		return paymentRepo.ErrPayoutNotFound
	}
	p.Status = status
	if processedAt != nil {
		p.ProcessedAt = processedAt
	}
	return nil
}

func (f *fakePaymentRepo) ListPayoutsByMentor(ctx context.Context, mentorID string) ([]models.MentorPayout, error) {
	var out []models.MentorPayout
	for _, p := range f.payouts {
		if p.MentorID == mentorID {
			out = append(out, *p)
		}
	}
	return out, nil
}

var _ paymentRepo.PaymentRepository = (*fakePaymentRepo)(nil)

func newProcessor(repo *fakePaymentRepo) *Processor {
	return &Processor{Repo: repo, FeeRate: 0.15, Logger: zap.NewNop()}
}

func testSession() *models.Session {
	return &models.Session{
		ID:       "sess-1",
		MentorID: "mentor-1",
		MenteeID: "mentee-1",
		Status:   models.SessionScheduled,
	}
}

func TestSplitFee(t *testing.T) {
	cases := []struct {
		amount, rate, fee, earnings float64
	}{
		{100, 0.15, 15.00, 85.00},
		{99.99, 0.15, 15.00, 84.99},
		{10, 0.15, 1.50, 8.50},
		{0.01, 0.15, 0.00, 0.01},
	}
	for _, tc := range cases {
		fee, earnings := SplitFee(tc.amount, tc.rate)
		if fee != tc.fee || earnings != tc.earnings {
			t.Errorf("SplitFee(%v, %v) = (%v, %v), want (%v, %v)",
				tc.amount, tc.rate, fee, earnings, tc.fee, tc.earnings)
		}
		if fee+earnings != tc.amount {
			t.Errorf("SplitFee(%v, %v): fee+earnings = %v, does not sum back",
				tc.amount, tc.rate, fee+earnings)
		}
	}
}

func TestProcessPaymentPlatformCredit(t *testing.T) {
	repo := newFakePaymentRepo()
	p := newProcessor(repo)
	decision := models.PricingDecision{ModelID: "pm-1", PricingType: models.PricingOneTime, Amount: 100}

	txn, err := p.ProcessPayment(context.Background(), testSession(), decision, models.PayPlatformCredit)
	if err != nil {
		t.Fatalf("ProcessPayment failed: %v", err)
	}
	if txn.Status != models.TxnCompleted {
		t.Fatalf("platform credit should complete synchronously, got %s", txn.Status)
	}
	if txn.CompletedAt == nil {
		t.Fatal("expected CompletedAt to be set")
	}
	if txn.PlatformFee != 15.00 || txn.MentorEarnings != 85.00 {
		t.Fatalf("fee split = (%v, %v), want (15, 85)", txn.PlatformFee, txn.MentorEarnings)
	}
}

func TestProcessPaymentRejectsRepeat(t *testing.T) {
	repo := newFakePaymentRepo()
	p := newProcessor(repo)
	decision := models.PricingDecision{ModelID: "pm-1", PricingType: models.PricingOneTime, Amount: 100}
	s := testSession()

	if _, err := p.ProcessPayment(context.Background(), s, decision, models.PayPlatformCredit); err != nil {
		t.Fatalf("first payment failed: %v", err)
	}
	if _, err := p.ProcessPayment(context.Background(), s, decision, models.PayPlatformCredit); !errors.Is(err, ErrAlreadyPaid) {
		t.Fatalf("expected ErrAlreadyPaid, got %v", err)
	}
}

func TestProcessPaymentPendingReturnedAsIs(t *testing.T) {
	repo := newFakePaymentRepo()
	p := newProcessor(repo)
	decision := models.PricingDecision{ModelID: "pm-1", PricingType: models.PricingOneTime, Amount: 100}
	s := testSession()

	first, err := p.ProcessPayment(context.Background(), s, decision, models.PayBankTransfer)
	if err != nil {
		t.Fatalf("first payment failed: %v", err)
	}
	if first.Status != models.TxnPending {
		t.Fatalf("bank transfer should stay pending, got %s", first.Status)
	}

	second, err := p.ProcessPayment(context.Background(), s, decision, models.PayBankTransfer)
	if err != nil {
		t.Fatalf("repeat on pending failed: %v", err)
	}
	if second.ID != first.ID {
		t.Fatal("expected the existing pending transaction back")
	}
}

func TestProcessPaymentUnsupportedMethod(t *testing.T) {
	repo := newFakePaymentRepo()
	p := newProcessor(repo)
	decision := models.PricingDecision{Amount: 100}

	if _, err := p.ProcessPayment(context.Background(), testSession(), decision, "barter"); !errors.Is(err, ErrUnsupportedMethod) {
		t.Fatalf("expected ErrUnsupportedMethod, got %v", err)
	}
}

func TestApplyGatewayEvent(t *testing.T) {
	repo := newFakePaymentRepo()
	p := newProcessor(repo)
	decision := models.PricingDecision{Amount: 100}

	txn, err := p.ProcessPayment(context.Background(), testSession(), decision, models.PayBankTransfer)
	if err != nil {
		t.Fatalf("setup payment failed: %v", err)
	}

	// Pending event is informational.
	got, err := p.ApplyGatewayEvent(context.Background(), models.GatewayEvent{TransactionID: txn.ID, Outcome: models.GatewayPaymentPending})
	if err != nil || got.Status != models.TxnPending {
		t.Fatalf("pending event: status %s, err %v", got.Status, err)
	}

	got, err = p.ApplyGatewayEvent(context.Background(), models.GatewayEvent{TransactionID: txn.ID, Outcome: models.GatewayPaymentSuccess})
	if err != nil {
		t.Fatalf("success event failed: %v", err)
	}
	if got.Status != models.TxnCompleted || got.CompletedAt == nil {
		t.Fatalf("success event: status %s, completedAt %v", got.Status, got.CompletedAt)
	}

	// Redelivery is an idempotent no-op.
	again, err := p.ApplyGatewayEvent(context.Background(), models.GatewayEvent{TransactionID: txn.ID, Outcome: models.GatewayPaymentSuccess})
	if err != nil || again.Status != models.TxnCompleted {
		t.Fatalf("redelivered success: status %s, err %v", again.Status, err)
	}

	if _, err := p.ApplyGatewayEvent(context.Background(), models.GatewayEvent{TransactionID: txn.ID, Outcome: "payment.exploded"}); !errors.Is(err, ErrUnknownOutcome) {
		t.Fatalf("expected ErrUnknownOutcome, got %v", err)
	}
	if _, err := p.ApplyGatewayEvent(context.Background(), models.GatewayEvent{TransactionID: "nope", Outcome: models.GatewayPaymentSuccess}); !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestReprice(t *testing.T) {
	repo := newFakePaymentRepo()
	p := newProcessor(repo)
	decision := models.PricingDecision{Amount: 90}

	txn, err := p.ProcessPayment(context.Background(), testSession(), decision, models.PayPlatformCredit)
	if err != nil {
		t.Fatalf("setup payment failed: %v", err)
	}

	delta, err := p.Reprice(context.Background(), txn.ID, 120)
	if err != nil {
		t.Fatalf("Reprice failed: %v", err)
	}
	if delta != 30 {
		t.Fatalf("delta = %v, want 30", delta)
	}

	updated, _ := repo.GetTransactionByID(context.Background(), txn.ID)
	if updated.Amount != 120 || updated.PlatformFee != 18 || updated.MentorEarnings != 102 {
		t.Fatalf("repriced figures = (%v, %v, %v)", updated.Amount, updated.PlatformFee, updated.MentorEarnings)
	}

	// Unchanged amount is a no-op.
	delta, err = p.Reprice(context.Background(), txn.ID, 120)
	if err != nil || delta != 0 {
		t.Fatalf("no-op reprice: delta %v, err %v", delta, err)
	}
}

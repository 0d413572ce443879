package session

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	paymentRepo "mentorhub/database/repository/payment"
	pricingRepo "mentorhub/database/repository/pricing"
	sessionRepo "mentorhub/database/repository/session"
	"mentorhub/models"
	"mentorhub/services/payment"
	"mentorhub/services/payout"
	"mentorhub/services/pricing"
	"mentorhub/services/scheduling"

	"go.uber.org/zap"
)

// --- in-memory stores ---

type fakeSessionStore struct {
	sessions map[string]*models.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*models.Session)}
}

func (f *fakeSessionStore) FindOverlapping(ctx context.Context, mentorID string, start, end time.Time, excludeSessionID string) ([]models.Session, error) {
	var out []models.Session
	for _, s := range f.sessions {
		if s.MentorID != mentorID || !s.IsBlocking() || s.ID == excludeSessionID {
			continue
		}
		if scheduling.Overlaps(s.StartTime, s.ScheduledEnd, start, end) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSessionStore) CreateSessionIfFree(ctx context.Context, s *models.Session) error {
	overlapping, _ := f.FindOverlapping(ctx, s.MentorID, s.StartTime, s.ScheduledEnd, "")
	if len(overlapping) > 0 {
		return sessionRepo.ErrOverlap
	}
	cp := *s
	f.sessions[s.ID] = &cp
	return nil
}

func (f *fakeSessionStore) GetByID(ctx context.Context, sessionID string) (*models.Session, error) {
	s, ok := f.sessions[sessionID]
	if !ok {
		return nil, sessionRepo.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessionStore) UpdateStatus(ctx context.Context, sessionID, status string) error {
	s, ok := f.sessions[sessionID]
	if !ok {
		return sessionRepo.ErrNotFound
	}
	s.Status = status
	return nil
}

func (f *fakeSessionStore) UpdateOnComplete(ctx context.Context, sessionID string, endTime time.Time, actualDuration int) error {
	s, ok := f.sessions[sessionID]
	if !ok {
		return sessionRepo.ErrNotFound
	}
	s.Status = models.SessionCompleted
	s.EndTime = &endTime
	s.ActualDuration = &actualDuration
	return nil
}

func (f *fakeSessionStore) FindActiveSubscription(ctx context.Context, mentorID, menteeID string, now time.Time) (*models.Session, error) {
	for _, s := range f.sessions {
		if s.MentorID != mentorID || s.MenteeID != menteeID || s.Status == models.SessionCancelled {
			continue
		}
		if s.PricingType == models.PricingSubscription && s.SubscriptionEnd != nil && s.SubscriptionEnd.After(now) {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeSessionStore) ListByMentor(ctx context.Context, mentorID string) ([]models.Session, error) {
	var out []models.Session
	for _, s := range f.sessions {
		if s.MentorID == mentorID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSessionStore) ListByMentee(ctx context.Context, menteeID string) ([]models.Session, error) {
	var out []models.Session
	for _, s := range f.sessions {
		if s.MenteeID == menteeID {
			out = append(out, *s)
		}
	}
	return out, nil
}

type fakePricingStore struct {
	pricingModels map[string]*models.PricingModel
}

func newFakePricingStore() *fakePricingStore {
	return &fakePricingStore{pricingModels: make(map[string]*models.PricingModel)}
}

func (f *fakePricingStore) Create(ctx context.Context, model *models.PricingModel) error {
	cp := *model
	f.pricingModels[model.ID] = &cp
	return nil
}

func (f *fakePricingStore) GetByID(ctx context.Context, modelID string) (*models.PricingModel, error) {
	m, ok := f.pricingModels[modelID]
	if !ok {
		return nil, pricingRepo.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakePricingStore) ListByMentor(ctx context.Context, mentorID string, activeOnly bool) ([]models.PricingModel, error) {
	var out []models.PricingModel
	for _, m := range f.pricingModels {
		if m.MentorID == mentorID && (!activeOnly || m.IsActive) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakePricingStore) SetActive(ctx context.Context, modelID string, active bool) error {
	m, ok := f.pricingModels[modelID]
	if !ok {
		return pricingRepo.ErrNotFound
	}
	m.IsActive = active
	return nil
}

type fakeMoneyStore struct {
	txns    map[string]*models.Transaction
	payouts map[string]*models.MentorPayout
}

func newFakeMoneyStore() *fakeMoneyStore {
	return &fakeMoneyStore{
		txns:    make(map[string]*models.Transaction),
		payouts: make(map[string]*models.MentorPayout),
	}
}

func (f *fakeMoneyStore) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	cp := *txn
	f.txns[txn.ID] = &cp
	return nil
}

func (f *fakeMoneyStore) GetTransactionByID(ctx context.Context, txnID string) (*models.Transaction, error) {
	t, ok := f.txns[txnID]
	if !ok {
		return nil, paymentRepo.ErrTxnNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeMoneyStore) GetTransactionBySessionID(ctx context.Context, sessionID string) (*models.Transaction, error) {
	for _, t := range f.txns {
		if t.SessionID == sessionID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, paymentRepo.ErrTxnNotFound
}

func (f *fakeMoneyStore) UpdateTransactionStatus(ctx context.Context, txnID, status string, completedAt *time.Time) error {
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

func (f *fakeMoneyStore) Reprice(ctx context.Context, txnID string, amount, platformFee, mentorEarnings float64) error {
	t, ok := f.txns[txnID]
	if !ok {
		return paymentRepo.ErrTxnNotFound
	}
	t.Amount = amount
	t.PlatformFee = platformFee
	t.MentorEarnings = mentorEarnings
	return nil
}

func (f *fakeMoneyStore) FindUnsettledByMentor(ctx context.Context, mentorID string) ([]models.Transaction, error) {
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

func (f *fakeMoneyStore) CreatePayoutSettling(ctx context.Context, p *models.MentorPayout) error {
	for _, existing := range f.payouts {
		if existing.Status == models.PayoutFailed {
			continue
		}
		for _, claimed := range existing.TransactionIDs {
			for _, id := range p.TransactionIDs {
				if claimed == id {
					return paymentRepo.ErrAlreadySettled
				}
			}
		}
	}
	cp := *p
	f.payouts[p.ID] = &cp
	return nil
}

func (f *fakeMoneyStore) PayoutReferencingTransaction(ctx context.Context, mentorID, txnID string) (*models.MentorPayout, error) {
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

func (f *fakeMoneyStore) GetPayoutByID(ctx context.Context, payoutID string) (*models.MentorPayout, error) {
	p, ok := f.payouts[payoutID]
	if !ok {
		return nil, paymentRepo.ErrPayoutNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeMoneyStore) UpdatePayoutStatus(ctx context.Context, payoutID, status string, processedAt *time.Time) error {
	p, ok := f.payouts[payoutID]
	if !ok {
		return paymentRepo.ErrPayoutNotFound
	}
	p.Status = status
	p.ProcessedAt = processedAt
	return nil
}

func (f *fakeMoneyStore) ListPayoutsByMentor(ctx context.Context, mentorID string) ([]models.MentorPayout, error) {
	var out []models.MentorPayout
	for _, p := range f.payouts {
		if p.MentorID == mentorID {
			out = append(out, *p)
		}
	}
	return out, nil
}

type noopLocker struct{}

func (noopLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return true, nil
}
func (noopLocker) Release(ctx context.Context, key string) error { return nil }

// --- fixture ---

type fixture struct {
	svc      *DefaultSessionService
	sessions *fakeSessionStore
	models   *fakePricingStore
	money    *fakeMoneyStore
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	sessions := newFakeSessionStore()
	pricingModels := newFakePricingStore()
	money := newFakeMoneyStore()

	conflicts := &scheduling.DefaultConflictDetector{Repo: sessions}
	registry := pricing.NewRegistry()
	registry.Register(models.PricingOneTime, &pricing.OneTimeHandler{Conflicts: conflicts, MinAmount: 1})
	registry.Register(models.PricingHourly, &pricing.HourlyHandler{Conflicts: conflicts, MinAmount: 1})
	registry.Register(models.PricingSubscription, &pricing.SubscriptionHandler{Sessions: sessions, MinAmount: 1, Now: clock})

	processor := &payment.Processor{Repo: money, FeeRate: 0.15, Logger: zap.NewNop()}
	engine := &payout.Engine{
		Repo:   money,
		Ledger: &payout.Ledger{Repo: money},
		Locks:  noopLocker{},
		Logger: zap.NewNop(),
	}

	svc := &DefaultSessionService{
		Sessions:           sessions,
		PricingModels:      pricingModels,
		Registry:           registry,
		Payments:           processor,
		Payouts:            engine,
		CancellationWindow: 2 * time.Hour,
		AutoPayout:         true,
		Logger:             zap.NewNop(),
		Now:                clock,
	}
	return &fixture{svc: svc, sessions: sessions, models: pricingModels, money: money, now: now}
}

func (fx *fixture) addModel(t *testing.T, id, pricingType string, price float64, duration *int) {
	t.Helper()
	err := fx.models.Create(context.Background(), &models.PricingModel{
		ID:       id,
		MentorID: "mentor-1",
		Type:     pricingType,
		Price:    price,
		Duration: duration,
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("failed to add pricing model: %v", err)
	}
}

func intPtr(v int) *int { return &v }

func oneTimeBooking(fx *fixture) models.BookingRequest {
	start := fx.now.Add(24 * time.Hour)
	end := start.Add(time.Hour)
	return models.BookingRequest{
		MentorID:       "mentor-1",
		MenteeID:       "mentee-1",
		PricingModelID: "pm-onetime",
		StartTime:      start,
		EndTime:        &end,
		PaymentMethod:  models.PayPlatformCredit,
	}
}

// --- booking ---

func TestBookOneTimeSession(t *testing.T) {
	fx := newFixture(t)
	fx.addModel(t, "pm-onetime", models.PricingOneTime, 100, intPtr(60))

	s, txn, err := fx.svc.Book(context.Background(), oneTimeBooking(fx))
	if err != nil {
		t.Fatalf("Book failed: %v", err)
	}
	if s.Status != models.SessionScheduled {
		t.Fatalf("session status = %s, want SCHEDULED", s.Status)
	}
	if s.AgreedPrice != 100 {
		t.Fatalf("agreed price = %v, want 100", s.AgreedPrice)
	}
	if s.SessionLink == "" {
		t.Fatal("expected a session link")
	}
	if txn.Status != models.TxnCompleted || txn.SessionID != s.ID {
		t.Fatalf("transaction = (%s, %s)", txn.Status, txn.SessionID)
	}
	if txn.PlatformFee != 15 || txn.MentorEarnings != 85 {
		t.Fatalf("fee split = (%v, %v)", txn.PlatformFee, txn.MentorEarnings)
	}
}

func TestBookRejectsSelfAndPastStart(t *testing.T) {
	fx := newFixture(t)
	fx.addModel(t, "pm-onetime", models.PricingOneTime, 100, intPtr(60))

	req := oneTimeBooking(fx)
	req.MenteeID = "mentor-1"
	if _, _, err := fx.svc.Book(context.Background(), req); !scheduling.IsValidation(err) {
		t.Fatalf("self-booking: expected validation error, got %v", err)
	}

	req = oneTimeBooking(fx)
	req.StartTime = fx.now.Add(-time.Hour)
	if _, _, err := fx.svc.Book(context.Background(), req); !scheduling.IsValidation(err) {
		t.Fatalf("past start: expected validation error, got %v", err)
	}
}

func TestBookRejectsMissingOrInactiveModel(t *testing.T) {
	fx := newFixture(t)

	req := oneTimeBooking(fx)
	if _, _, err := fx.svc.Book(context.Background(), req); !errors.Is(err, pricing.ErrPricingModelNotFound) {
		t.Fatalf("missing model: expected ErrPricingModelNotFound, got %v", err)
	}

	fx.addModel(t, "pm-onetime", models.PricingOneTime, 100, intPtr(60))
	fx.models.SetActive(context.Background(), "pm-onetime", false)
	if _, _, err := fx.svc.Book(context.Background(), req); !errors.Is(err, pricing.ErrPricingModelNotFound) {
		t.Fatalf("inactive model: expected ErrPricingModelNotFound, got %v", err)
	}
}

func TestBookRejectsDoubleBooking(t *testing.T) {
	fx := newFixture(t)
	fx.addModel(t, "pm-onetime", models.PricingOneTime, 100, intPtr(60))

	if _, _, err := fx.svc.Book(context.Background(), oneTimeBooking(fx)); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	// Second mentee, half-hour shifted window with the same mentor.
	req := oneTimeBooking(fx)
	req.MenteeID = "mentee-2"
	shifted := req.StartTime.Add(30 * time.Minute)
	end := shifted.Add(time.Hour)
	req.StartTime = shifted
	req.EndTime = &end
	if _, _, err := fx.svc.Book(context.Background(), req); !scheduling.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}

	// Back-to-back booking is allowed.
	req = oneTimeBooking(fx)
	req.MenteeID = "mentee-2"
	backToBack := req.StartTime.Add(time.Hour)
	end2 := backToBack.Add(time.Hour)
	req.StartTime = backToBack
	req.EndTime = &end2
	if _, _, err := fx.svc.Book(context.Background(), req); err != nil {
		t.Fatalf("back-to-back booking failed: %v", err)
	}
}

func TestBookRollsBackOnPaymentFailure(t *testing.T) {
	fx := newFixture(t)
	fx.addModel(t, "pm-onetime", models.PricingOneTime, 100, intPtr(60))

	req := oneTimeBooking(fx)
	req.PaymentMethod = "barter"
	if _, _, err := fx.svc.Book(context.Background(), req); err == nil {
		t.Fatal("expected payment failure")
	}

	// The window must be free again.
	if _, _, err := fx.svc.Book(context.Background(), oneTimeBooking(fx)); err != nil {
		t.Fatalf("window should be free after rollback: %v", err)
	}
}

func TestBookSubscriptionSetsEndDate(t *testing.T) {
	fx := newFixture(t)
	fx.addModel(t, "pm-sub", models.PricingSubscription, 200, nil)

	req := oneTimeBooking(fx)
	req.PricingModelID = "pm-sub"
	req.EndTime = nil

	s, _, err := fx.svc.Book(context.Background(), req)
	if err != nil {
		t.Fatalf("subscription booking failed: %v", err)
	}
	if s.SubscriptionEnd == nil {
		t.Fatal("expected subscription end date")
	}
	want := fx.now.Add(pricing.SubscriptionPeriod)
	if !s.SubscriptionEnd.Equal(want) {
		t.Fatalf("subscription end = %v, want %v", s.SubscriptionEnd, want)
	}

	// A second subscription between the same pair is rejected.
	req2 := req
	start := req.StartTime.Add(48 * time.Hour)
	req2.StartTime = start
	if _, _, err := fx.svc.Book(context.Background(), req2); !errors.Is(err, pricing.ErrActiveSubscriptionExists) {
		t.Fatalf("expected ErrActiveSubscriptionExists, got %v", err)
	}
}

// --- lifecycle ---

func mustBook(t *testing.T, fx *fixture, req models.BookingRequest) *models.Session {
	t.Helper()
	s, _, err := fx.svc.Book(context.Background(), req)
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}
	return s
}

func TestTransitionRejectsInvalidEdge(t *testing.T) {
	fx := newFixture(t)
	fx.addModel(t, "pm-onetime", models.PricingOneTime, 100, intPtr(60))
	s := mustBook(t, fx, oneTimeBooking(fx))

	var ite *InvalidTransitionError
	_, err := fx.svc.Transition(context.Background(), s.ID, "mentor-1", models.TransitionRequest{Status: models.SessionCompleted})
	if !errors.As(err, &ite) {
		t.Fatalf("SCHEDULED -> COMPLETED should be invalid, got %v", err)
	}
}

func TestTransitionRejectsOutsiders(t *testing.T) {
	fx := newFixture(t)
	fx.addModel(t, "pm-onetime", models.PricingOneTime, 100, intPtr(60))
	s := mustBook(t, fx, oneTimeBooking(fx))

	_, err := fx.svc.Transition(context.Background(), s.ID, "stranger", models.TransitionRequest{Status: models.SessionInProgress})
	if !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}
}

func TestCancellationWindow(t *testing.T) {
	fx := newFixture(t)
	fx.addModel(t, "pm-onetime", models.PricingOneTime, 100, intPtr(60))

	// Start 2h01m out: cancellable with a 2h window.
	req := oneTimeBooking(fx)
	start := fx.now.Add(2*time.Hour + time.Minute)
	end := start.Add(time.Hour)
	req.StartTime = start
	req.EndTime = &end
	s := mustBook(t, fx, req)

	result, err := fx.svc.Transition(context.Background(), s.ID, "mentee-1", models.TransitionRequest{Status: models.SessionCancelled})
	if err != nil {
		t.Fatalf("cancel outside window failed: %v", err)
	}
	if result.Session.Status != models.SessionCancelled {
		t.Fatalf("status = %s, want CANCELLED", result.Session.Status)
	}

	// Start 1h59m out: inside the window.
	req2 := oneTimeBooking(fx)
	req2.MenteeID = "mentee-2"
	start2 := fx.now.Add(2*time.Hour - time.Minute)
	end2 := start2.Add(time.Hour)
	req2.StartTime = start2
	req2.EndTime = &end2
	s2 := mustBook(t, fx, req2)

	_, err = fx.svc.Transition(context.Background(), s2.ID, "mentee-2", models.TransitionRequest{Status: models.SessionCancelled})
	if !errors.Is(err, ErrCancellationWindowExpired) {
		t.Fatalf("expected ErrCancellationWindowExpired, got %v", err)
	}
}

func TestNoShowFromScheduled(t *testing.T) {
	fx := newFixture(t)
	fx.addModel(t, "pm-onetime", models.PricingOneTime, 100, intPtr(60))
	s := mustBook(t, fx, oneTimeBooking(fx))

	result, err := fx.svc.Transition(context.Background(), s.ID, "mentor-1", models.TransitionRequest{Status: models.SessionNoShow})
	if err != nil {
		t.Fatalf("no-show failed: %v", err)
	}
	if result.Session.Status != models.SessionNoShow {
		t.Fatalf("status = %s, want NO_SHOW", result.Session.Status)
	}

	// Terminal: nothing transitions out.
	var ite *InvalidTransitionError
	_, err = fx.svc.Transition(context.Background(), s.ID, "mentor-1", models.TransitionRequest{Status: models.SessionInProgress})
	if !errors.As(err, &ite) {
		t.Fatalf("expected InvalidTransitionError on terminal session, got %v", err)
	}
}

func TestCompleteHourlyRepricesAndSettles(t *testing.T) {
	fx := newFixture(t)
	fx.addModel(t, "pm-hourly", models.PricingHourly, 60, intPtr(60))

	req := oneTimeBooking(fx)
	req.PricingModelID = "pm-hourly"
	req.EndTime = nil
	req.EstimatedDuration = 60
	s := mustBook(t, fx, req)

	if _, err := fx.svc.Transition(context.Background(), s.ID, "mentor-1", models.TransitionRequest{Status: models.SessionInProgress}); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	// Actually ran 90 minutes: 60/h -> 90.00, a +30 delta over the estimate.
	end := s.StartTime.Add(90 * time.Minute)
	result, err := fx.svc.Transition(context.Background(), s.ID, "mentor-1", models.TransitionRequest{Status: models.SessionCompleted, EndTime: &end})
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if result.Session.Status != models.SessionCompleted {
		t.Fatalf("status = %s, want COMPLETED", result.Session.Status)
	}
	if result.Session.ActualDuration == nil || *result.Session.ActualDuration != 90 {
		t.Fatalf("actual duration = %v, want 90", result.Session.ActualDuration)
	}
	if result.PriceDelta == nil || *result.PriceDelta != 30 {
		t.Fatalf("price delta = %v, want 30", result.PriceDelta)
	}

	txn, err := fx.money.GetTransactionBySessionID(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("transaction lookup failed: %v", err)
	}
	if txn.Amount != 90 {
		t.Fatalf("repriced amount = %v, want 90", txn.Amount)
	}

	// Auto payout settled the corrected earnings.
	p, err := fx.money.PayoutReferencingTransaction(context.Background(), "mentor-1", txn.ID)
	if err != nil || p == nil {
		t.Fatalf("expected an automatic payout, got (%v, %v)", p, err)
	}
	if p.Amount != txn.MentorEarnings || p.TriggerType != models.TriggerSessionCompleted {
		t.Fatalf("payout = (%v, %s)", p.Amount, p.TriggerType)
	}
}

func TestCompletePendingTransactionSkipsPayout(t *testing.T) {
	fx := newFixture(t)
	fx.addModel(t, "pm-onetime", models.PricingOneTime, 100, intPtr(60))

	req := oneTimeBooking(fx)
	req.PaymentMethod = models.PayBankTransfer
	s := mustBook(t, fx, req)

	if _, err := fx.svc.Transition(context.Background(), s.ID, "mentor-1", models.TransitionRequest{Status: models.SessionInProgress}); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	end := s.StartTime.Add(time.Hour)
	if _, err := fx.svc.Transition(context.Background(), s.ID, "mentor-1", models.TransitionRequest{Status: models.SessionCompleted, EndTime: &end}); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	// No payout while the charge is still pending at the gateway.
	if len(fx.money.payouts) != 0 {
		t.Fatalf("expected no payouts, have %d", len(fx.money.payouts))
	}
}

package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	pricingRepo "mentorhub/database/repository/pricing"
	sessionRepo "mentorhub/database/repository/session"
	"mentorhub/models"
	"mentorhub/services/payment"
	"mentorhub/services/payout"
	"mentorhub/services/pricing"
	"mentorhub/services/scheduling"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// defaultSubscriptionSlotMin sizes the calendar hold for a subscription's
// kickoff session when the pricing model carries no duration.
const defaultSubscriptionSlotMin = 60

// Auditor records lifecycle events out of band. Failures never block the
// request path.
type Auditor interface {
	Record(ctx context.Context, record models.AuditRecord)
}

// Notifier pushes session events to the affected users.
type Notifier interface {
	Notify(ctx context.Context, userID string, payload models.PushPayload)
}

// SessionService books sessions and drives their lifecycle.
type SessionService interface {
	Book(ctx context.Context, req models.BookingRequest) (*models.Session, *models.Transaction, error)
	Transition(ctx context.Context, sessionID, callerID string, req models.TransitionRequest) (*models.TransitionResult, error)
	GetByID(ctx context.Context, sessionID string) (*models.Session, error)
	ListByMentor(ctx context.Context, mentorID string) ([]models.Session, error)
	ListByMentee(ctx context.Context, menteeID string) ([]models.Session, error)
}

// DefaultSessionService orchestrates booking across pricing, conflict
// detection, and payment, and enforces the lifecycle state machine.
type DefaultSessionService struct {
	Sessions      sessionRepo.SessionRepository
	PricingModels pricingRepo.PricingRepository
	Registry      *pricing.Registry
	Payments      *payment.Processor
	Payouts       *payout.Engine

	// CancellationWindow is how far before start a mentee may still cancel.
	CancellationWindow time.Duration
	AutoPayout         bool

	Audit  Auditor
	Notify Notifier
	Logger *zap.Logger

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

func (s *DefaultSessionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Book validates the request against the selected pricing model, inserts the
// session with the overlap predicate re-checked transactionally, then charges
// the mentee. A hard payment failure rolls the session back to CANCELLED so
// the calendar window is released.
func (s *DefaultSessionService) Book(ctx context.Context, req models.BookingRequest) (*models.Session, *models.Transaction, error) {
	if req.MentorID == req.MenteeID {
		return nil, nil, &scheduling.ValidationError{Field: "mentorId", Message: "cannot book a session with yourself"}
	}
	if !req.StartTime.After(s.now()) {
		return nil, nil, &scheduling.ValidationError{Field: "startTime", Message: "must be in the future"}
	}

	model, err := s.PricingModels.GetByID(ctx, req.PricingModelID)
	if err != nil {
		if errors.Is(err, pricingRepo.ErrNotFound) {
			return nil, nil, pricing.ErrPricingModelNotFound
		}
		return nil, nil, fmt.Errorf("pricing model lookup failed: %w", err)
	}
	if !model.IsActive || model.MentorID != req.MentorID {
		return nil, nil, pricing.ErrPricingModelNotFound
	}

	handler, err := s.Registry.Get(model.Type)
	if err != nil {
		return nil, nil, err
	}
	if err := handler.ValidateBooking(ctx, *model, req); err != nil {
		return nil, nil, err
	}
	decision, err := handler.ComputePrice(*model, req)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	session := &models.Session{
		ID:              uuid.New().String(),
		MentorID:        req.MentorID,
		MenteeID:        req.MenteeID,
		StartTime:       req.StartTime,
		ScheduledEnd:    s.scheduledEnd(req, model),
		Status:          models.SessionScheduled,
		PricingType:     model.Type,
		PricingModelID:  model.ID,
		AgreedPrice:     decision.Amount,
		SessionLink:     "https://meet.mentorhub.io/" + uuid.New().String(),
		SubscriptionEnd: decision.SubscriptionEnd,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.Sessions.CreateSessionIfFree(ctx, session); err != nil {
		if errors.Is(err, sessionRepo.ErrOverlap) {
			return nil, nil, &scheduling.ConflictError{Resource: "session", Message: "mentor is already booked in this window"}
		}
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	txn, err := s.Payments.ProcessPayment(ctx, session, decision, req.PaymentMethod)
	if err != nil {
		// Release the calendar window; the booking never happened.
		if rbErr := s.Sessions.UpdateStatus(ctx, session.ID, models.SessionCancelled); rbErr != nil {
			s.Logger.Error("failed to roll back session after payment failure",
				zap.String("sessionId", session.ID), zap.Error(rbErr))
		}
		return nil, nil, fmt.Errorf("payment failed: %w", err)
	}

	s.audit(ctx, "session.booked", session.ID, req.MenteeID)
	s.push(ctx, req.MentorID, "New session booked",
		fmt.Sprintf("A session was booked for %s", session.StartTime.Format(time.RFC1123)))

	s.Logger.Info("session booked",
		zap.String("sessionId", session.ID),
		zap.String("mentorId", req.MentorID),
		zap.String("menteeId", req.MenteeID),
		zap.String("pricingType", model.Type),
		zap.Float64("agreedPrice", session.AgreedPrice))
	return session, txn, nil
}

func (s *DefaultSessionService) scheduledEnd(req models.BookingRequest, model *models.PricingModel) time.Time {
	switch model.Type {
	case models.PricingOneTime:
		return *req.EndTime
	case models.PricingHourly:
		return req.StartTime.Add(time.Duration(req.EstimatedDuration) * time.Minute)
	default:
		// Subscription kickoff session holds a fixed calendar window.
		minutes := defaultSubscriptionSlotMin
		if model.Duration != nil {
			minutes = *model.Duration
		}
		return req.StartTime.Add(time.Duration(minutes) * time.Minute)
	}
}

// Transition moves the session along the lifecycle graph. Completion derives
// the actual duration and, for hourly sessions, reprices the transaction and
// reports the delta. When auto-payout is enabled, a completed session with a
// completed transaction settles the mentor's earnings immediately.
func (s *DefaultSessionService) Transition(ctx context.Context, sessionID, callerID string, req models.TransitionRequest) (*models.TransitionResult, error) {
	session, err := s.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if callerID != "" && callerID != session.MentorID && callerID != session.MenteeID {
		return nil, ErrNotParticipant
	}
	if err := ValidateTransition(session.Status, req.Status); err != nil {
		return nil, err
	}

	switch req.Status {
	case models.SessionCancelled:
		if s.now().Add(s.CancellationWindow).After(session.StartTime) {
			return nil, ErrCancellationWindowExpired
		}
	case models.SessionCompleted:
		return s.complete(ctx, session, req.EndTime)
	}

	if err := s.Sessions.UpdateStatus(ctx, sessionID, req.Status); err != nil {
		return nil, fmt.Errorf("failed to update session status: %w", err)
	}
	session.Status = req.Status

	s.audit(ctx, "session."+req.Status, sessionID, callerID)
	s.push(ctx, otherParty(session, callerID), "Session update",
		fmt.Sprintf("Your session is now %s", req.Status))

	s.Logger.Info("session transitioned",
		zap.String("sessionId", sessionID),
		zap.String("status", req.Status))
	return &models.TransitionResult{Session: session}, nil
}

func (s *DefaultSessionService) complete(ctx context.Context, session *models.Session, endTime *time.Time) (*models.TransitionResult, error) {
	end := s.now()
	if endTime != nil {
		end = *endTime
	}
	if !end.After(session.StartTime) {
		return nil, &scheduling.ValidationError{Field: "endTime", Message: "must be after the session start"}
	}
	actualMinutes := int(math.Round(end.Sub(session.StartTime).Minutes()))

	if err := s.Sessions.UpdateOnComplete(ctx, session.ID, end, actualMinutes); err != nil {
		return nil, fmt.Errorf("failed to complete session: %w", err)
	}
	session.Status = models.SessionCompleted
	session.EndTime = &end
	session.ActualDuration = &actualMinutes

	result := &models.TransitionResult{Session: session}

	txn, err := s.Payments.Repo.GetTransactionBySessionID(ctx, session.ID)
	if err != nil {
		s.Logger.Error("completed session has no resolvable transaction",
			zap.String("sessionId", session.ID), zap.Error(err))
		return result, nil
	}

	if session.PricingType == models.PricingHourly {
		model, err := s.PricingModels.GetByID(ctx, session.PricingModelID)
		if err != nil {
			return nil, fmt.Errorf("pricing model lookup failed on completion: %w", err)
		}
		corrected := pricing.HourlyAmount(model.Price, actualMinutes)
		delta, err := s.Payments.Reprice(ctx, txn.ID, corrected)
		if err != nil {
			return nil, fmt.Errorf("hourly repricing failed: %w", err)
		}
		if delta != 0 {
			session.AgreedPrice = corrected
			result.PriceDelta = &delta
			// Reload so settlement sees the corrected fee split.
			txn, err = s.Payments.Repo.GetTransactionByID(ctx, txn.ID)
			if err != nil {
				return nil, fmt.Errorf("transaction reload failed: %w", err)
			}
		}
	}

	if s.AutoPayout && txn.Status == models.TxnCompleted {
		if _, err := s.Payouts.TriggerAutomaticPayout(ctx, txn); err != nil {
			// Settlement is retryable; completion itself already succeeded.
			s.Logger.Error("automatic payout trigger failed",
				zap.String("sessionId", session.ID),
				zap.String("transactionId", txn.ID),
				zap.Error(err))
		}
	}

	s.audit(ctx, "session.COMPLETED", session.ID, session.MentorID)
	s.push(ctx, session.MenteeID, "Session completed",
		fmt.Sprintf("Your session lasted %d minutes", actualMinutes))

	s.Logger.Info("session completed",
		zap.String("sessionId", session.ID),
		zap.Int("actualDuration", actualMinutes))
	return result, nil
}

func (s *DefaultSessionService) GetByID(ctx context.Context, sessionID string) (*models.Session, error) {
	session, err := s.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

func (s *DefaultSessionService) ListByMentor(ctx context.Context, mentorID string) ([]models.Session, error) {
	return s.Sessions.ListByMentor(ctx, mentorID)
}

func (s *DefaultSessionService) ListByMentee(ctx context.Context, menteeID string) ([]models.Session, error) {
	return s.Sessions.ListByMentee(ctx, menteeID)
}

func (s *DefaultSessionService) audit(ctx context.Context, action, sessionID, actorID string) {
	if s.Audit == nil {
		return
	}
	s.Audit.Record(ctx, models.AuditRecord{
		Actor:     actorID,
		Action:    action,
		Resource:  "session",
		Details:   map[string]string{"sessionId": sessionID},
		Timestamp: s.now(),
	})
}

func (s *DefaultSessionService) push(ctx context.Context, userID, title, body string) {
	if s.Notify == nil || userID == "" {
		return
	}
	s.Notify.Notify(ctx, userID, models.PushPayload{Title: title, Body: body})
}

func otherParty(session *models.Session, callerID string) string {
	if callerID == session.MentorID {
		return session.MenteeID
	}
	return session.MentorID
}

var _ SessionService = (*DefaultSessionService)(nil)

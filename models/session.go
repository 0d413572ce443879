package models

import "time"

// Session statuses. SCHEDULED and IN_PROGRESS block the mentor's calendar;
// the other three are terminal and retained for history.
const (
	SessionScheduled  = "SCHEDULED"
	SessionInProgress = "IN_PROGRESS"
	SessionCompleted  = "COMPLETED"
	SessionCancelled  = "CANCELLED"
	SessionNoShow     = "NO_SHOW"
)

// BlockingStatuses are the session statuses that count toward conflict detection.
var BlockingStatuses = []string{SessionScheduled, SessionInProgress}

// Session represents a booked mentoring session.
type Session struct {
	ID             string     `bson:"id" json:"id"`
	MentorID       string     `bson:"mentor_id" json:"mentorId"`
	MenteeID       string     `bson:"mentee_id" json:"menteeId"`
	StartTime      time.Time  `bson:"start_time" json:"startTime"`
	ScheduledEnd   time.Time  `bson:"scheduled_end" json:"scheduledEnd"`
	Status         string     `bson:"status" json:"status"`
	PricingType    string     `bson:"pricing_type" json:"pricingType"`
	PricingModelID string     `bson:"pricing_model_id" json:"pricingModelId"`
	AgreedPrice    float64    `bson:"agreed_price" json:"agreedPrice"`
	SessionLink    string     `bson:"session_link" json:"sessionLink"`
	ActualDuration *int       `bson:"actual_duration,omitempty" json:"actualDuration,omitempty"` // minutes
	EndTime        *time.Time `bson:"end_time,omitempty" json:"endTime,omitempty"`
	// SubscriptionEnd is set for MONTHLY_SUBSCRIPTION sessions (start + 30 days).
	SubscriptionEnd *time.Time `bson:"subscription_end,omitempty" json:"subscriptionEnd,omitempty"`
	CreatedAt       time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time  `bson:"updated_at" json:"updatedAt"`
}

// IsBlocking reports whether the session occupies the mentor's calendar.
func (s *Session) IsBlocking() bool {
	return s.Status == SessionScheduled || s.Status == SessionInProgress
}

// IsTerminal reports whether the session has reached a final state.
func (s *Session) IsTerminal() bool {
	switch s.Status {
	case SessionCompleted, SessionCancelled, SessionNoShow:
		return true
	}
	return false
}

// PublicSessionData is the calendar-safe view of a session: enough to show a
// busy window without exposing the mentee, the price, or the meeting link.
type PublicSessionData struct {
	ID           string    `json:"id"`
	MentorID     string    `json:"mentorId"`
	StartTime    time.Time `json:"startTime"`
	ScheduledEnd time.Time `json:"scheduledEnd"`
	Status       string    `json:"status"`
	PricingType  string    `json:"pricingType"`
}

// Public returns the calendar-safe view of the session.
func (s *Session) Public() PublicSessionData {
	return PublicSessionData{
		ID:           s.ID,
		MentorID:     s.MentorID,
		StartTime:    s.StartTime,
		ScheduledEnd: s.ScheduledEnd,
		Status:       s.Status,
		PricingType:  s.PricingType,
	}
}

// BookingRequest is the mentee's booking payload after transport binding.
type BookingRequest struct {
	MentorID       string    `json:"mentorId" binding:"required"`
	MenteeID       string    `json:"-"`
	PricingModelID string    `json:"pricingModelId" binding:"required"`
	StartTime      time.Time `json:"startTime" binding:"required"`
	// EndTime is required for ONE_TIME bookings.
	EndTime *time.Time `json:"endTime,omitempty"`
	// EstimatedDuration (minutes) is required for HOURLY bookings.
	EstimatedDuration int    `json:"estimatedDuration,omitempty"`
	PaymentMethod     string `json:"paymentMethod" binding:"required"`
}

// TransitionRequest asks for a session status change.
type TransitionRequest struct {
	Status  string     `json:"status" binding:"required"`
	EndTime *time.Time `json:"endTime,omitempty"`
}

// TransitionResult reports the outcome of a status change, including the
// explicit repricing delta when an HOURLY session completes.
type TransitionResult struct {
	Session    *Session `json:"session"`
	PriceDelta *float64 `json:"priceDelta,omitempty"`
}

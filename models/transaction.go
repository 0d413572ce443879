package models

import "time"

// Transaction statuses.
const (
	TxnPending   = "PENDING"
	TxnCompleted = "COMPLETED"
	TxnFailed    = "FAILED"
)

// Payment methods.
const (
	PayPlatformCredit = "platform_credit"
	PayCard           = "card"
	PayBankTransfer   = "bank_transfer"
	PayPayPal         = "paypal"
	PayStripe         = "stripe"
)

// Transaction is the immutable money record for a session (1:1). The fee
// split is captured at creation so later fee-rate changes never rewrite
// historical figures. MentorID is denormalized for settlement queries.
type Transaction struct {
	ID             string     `bson:"id" json:"id"`
	SessionID      string     `bson:"session_id" json:"sessionId"`
	MentorID       string     `bson:"mentor_id" json:"mentorId"`
	MenteeID       string     `bson:"mentee_id" json:"menteeId"`
	Amount         float64    `bson:"amount" json:"amount"`
	PlatformFee    float64    `bson:"platform_fee" json:"platformFee"`
	MentorEarnings float64    `bson:"mentor_earnings" json:"mentorEarnings"`
	Status         string     `bson:"status" json:"status"`
	PaymentMethod  string     `bson:"payment_method" json:"paymentMethod"`
	GatewayRef     string     `bson:"gateway_ref,omitempty" json:"gatewayRef,omitempty"`
	CompletedAt    *time.Time `bson:"completed_at,omitempty" json:"completedAt,omitempty"`
	CreatedAt      time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time  `bson:"updated_at" json:"updatedAt"`
}

// Gateway event outcomes delivered by the payment webhook.
const (
	GatewayPaymentSuccess = "payment.success"
	GatewayPaymentFailed  = "payment.failed"
	GatewayPaymentPending = "payment.pending"
)

// GatewayEvent is the webhook payload keyed by transaction id.
type GatewayEvent struct {
	TransactionID string `json:"transactionId" binding:"required"`
	Outcome       string `json:"outcome" binding:"required"`
	GatewayRef    string `json:"gatewayRef,omitempty"`
}

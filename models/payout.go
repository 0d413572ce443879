package models

import "time"

// Payout statuses reuse the transaction vocabulary.
const (
	PayoutPending   = "PENDING"
	PayoutCompleted = "COMPLETED"
	PayoutFailed    = "FAILED"
)

// Payout trigger types.
const (
	TriggerManual           = "manual"
	TriggerSessionCompleted = "session_completed"
)

// MentorPayout settles a disjoint subset of a mentor's completed, unassigned
// transactions. TransactionIDs is the membership set; a transaction belongs
// to at most one payout. Once COMPLETED the record is immutable.
type MentorPayout struct {
	ID             string     `bson:"id" json:"id"`
	MentorID       string     `bson:"mentor_id" json:"mentorId"`
	Amount         float64    `bson:"amount" json:"amount"`
	Status         string     `bson:"status" json:"status"`
	Method         string     `bson:"method" json:"method"`
	TriggerType    string     `bson:"trigger_type" json:"triggerType"`
	TransactionIDs []string   `bson:"transaction_ids" json:"transactionIds"`
	GatewayRef     string     `bson:"gateway_ref,omitempty" json:"gatewayRef,omitempty"`
	ProcessedAt    *time.Time `bson:"processed_at,omitempty" json:"processedAt,omitempty"`
	CreatedAt      time.Time  `bson:"created_at" json:"createdAt"`
}

// UnsettledEarnings is the recomputed-on-read view of what a mentor can
// withdraw: completed transactions not yet claimed by any payout.
type UnsettledEarnings struct {
	Transactions   []Transaction `json:"transactions"`
	TotalAvailable float64       `json:"totalAvailable"`
}

// PayoutRequest is the mentor's withdrawal payload.
type PayoutRequest struct {
	Amount float64 `json:"amount" binding:"required"`
	Method string  `json:"method" binding:"required"`
}

package models

import "time"

// PushPayload is the async push-notification task body.
type PushPayload struct {
	Target string            `json:"target"` // "mentor" or "mentee"
	ID     string            `json:"id"`
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Data   map[string]string `json:"data,omitempty"`
}

// AuditRecord is the fire-and-forget audit task body, persisted verbatim to
// the append-only audit log.
type AuditRecord struct {
	Actor     string            `bson:"actor" json:"actor"`
	Action    string            `bson:"action" json:"action"`
	Resource  string            `bson:"resource" json:"resource"`
	Details   map[string]string `bson:"details,omitempty" json:"details,omitempty"`
	Timestamp time.Time         `bson:"timestamp" json:"timestamp"`
}

// PayoutFinalizePayload asks the worker to confirm a gateway-mediated payout.
type PayoutFinalizePayload struct {
	PayoutID string `json:"payoutId"`
}

package models

import "time"

// WebhookEvent is the archived raw form of a provider callback.
type WebhookEvent struct {
	ID             string    `json:"id" bson:"_id"`
	Provider       string    `json:"provider" bson:"provider"`
	Payload        string    `json:"payload" bson:"payload"`
	SignatureValid bool      `json:"signature_valid" bson:"signature_valid"`
	EventID        string    `json:"event_id,omitempty" bson:"event_id,omitempty"`
	IntentID       string    `json:"intent_id,omitempty" bson:"intent_id,omitempty"`
	Outcome        string    `json:"outcome" bson:"outcome"`
	Error          string    `json:"error,omitempty" bson:"error,omitempty"`
	ReceivedAt     time.Time `json:"received_at" bson:"received_at"`
}

const (
	WebhookOutcomeApplied   = "applied"
	WebhookOutcomeDuplicate = "duplicate"
	WebhookOutcomeRejected  = "rejected"
	WebhookOutcomeFailed    = "failed"
)

// WebhookRetryMessage is a verified webhook whose processing failed and will be replayed.
type WebhookRetryMessage struct {
	ID          string `json:"id"`
	Provider    string `json:"provider"`
	Signature   string `json:"signature"`
	Payload     []byte `json:"payload"`
	FailedCount int    `json:"failed_count"`
	LastError   string `json:"last_error,omitempty"`
}

// QueuedWebhook is a fetched retry message with its broker delivery tag.
type QueuedWebhook struct {
	DeliveryTag uint64
	Message     WebhookRetryMessage
}

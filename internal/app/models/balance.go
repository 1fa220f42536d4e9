package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type MentorBalance struct {
	MentorID         string          `json:"mentor_id"`
	PendingBalance   decimal.Decimal `json:"pending_balance"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
	TotalEarnings    decimal.Decimal `json:"total_earnings"`
	TimeModel
}

type PayoutStatus string

const (
	PayoutStatusPending    PayoutStatus = "pending"
	PayoutStatusProcessing PayoutStatus = "processing"
	PayoutStatusCompleted  PayoutStatus = "completed"
	PayoutStatusFailed     PayoutStatus = "failed"
	PayoutStatusCancelled  PayoutStatus = "cancelled"
)

type Payout struct {
	ID                string          `json:"id"`
	MentorID          string          `json:"mentor_id"`
	Amount            decimal.Decimal `json:"amount"`
	Status            PayoutStatus    `json:"status"`
	ProviderReference string          `json:"provider_reference,omitempty"`
	FailureReason     string          `json:"failure_reason,omitempty"`
	ProcessedAt       *time.Time      `json:"processed_at,omitempty"`
	TimeModel
}

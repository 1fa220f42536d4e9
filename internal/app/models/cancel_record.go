package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type RefundStatus string

const (
	RefundStatusNone      RefundStatus = "none"
	RefundStatusProcessed RefundStatus = "processed"
)

type CancelRecord struct {
	ID               string          `json:"id"`
	SessionID        string          `json:"session_id"`
	CancelledBy      ActorRole       `json:"cancelled_by"`
	CancelledByID    string          `json:"cancelled_by_id"`
	Reason           string          `json:"reason"`
	HoursUntilStart  decimal.Decimal `json:"hours_until_start"`
	RefundPercentage decimal.Decimal `json:"refund_percentage"`
	RefundAmount     decimal.Decimal `json:"refund_amount"`
	RefundStatus     RefundStatus    `json:"refund_status"`
	CreatedAt        time.Time       `json:"created_at"`
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type DisputeStatus string

const (
	DisputeStatusPending  DisputeStatus = "pending"
	DisputeStatusResolved DisputeStatus = "resolved"
	DisputeStatusRejected DisputeStatus = "rejected"
)

type DisputeDecision string

const (
	DisputeDecisionRefund DisputeDecision = "refund"
	DisputeDecisionReject DisputeDecision = "reject"
)

type BalanceBucket string

const (
	BalanceBucketNone      BalanceBucket = "none"
	BalanceBucketPending   BalanceBucket = "pending"
	BalanceBucketAvailable BalanceBucket = "available"
)

type Dispute struct {
	ID               string          `json:"id"`
	SessionID        string          `json:"session_id"`
	MenteeID         string          `json:"mentee_id"`
	Reason           string          `json:"reason"`
	Status           DisputeStatus   `json:"status"`
	Resolution       string          `json:"resolution,omitempty"`
	RefundAmount     decimal.Decimal `json:"refund_amount"`
	BalanceDeduction decimal.Decimal `json:"balance_deduction"`
	DeductedFrom     BalanceBucket   `json:"deducted_from"`
	EvidenceKeys     []string        `json:"evidence_keys,omitempty"`
	ResolvedByID     *string         `json:"resolved_by_id,omitempty"`
	ResolvedAt       *time.Time      `json:"resolved_at,omitempty"`
	TimeModel
}

func (d *Dispute) IsFinal() bool {
	return d.Status == DisputeStatusResolved || d.Status == DisputeStatusRejected
}

type EvidenceFile struct {
	FileName    string
	ContentType string
	Size        int64
	Content     []byte
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusCaptured PaymentStatus = "captured"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
	PaymentStatusCanceled PaymentStatus = "canceled"
)

type PaymentProvider string

const (
	PaymentProviderCard   PaymentProvider = "card"
	PaymentProviderWallet PaymentProvider = "wallet"
)

var hundred = decimal.NewFromInt(100)

type Payment struct {
	ID                    string          `json:"id"`
	SessionID             string          `json:"session_id"`
	Provider              PaymentProvider `json:"provider"`
	ProviderIntentID      string          `json:"provider_intent_id"`
	ProviderTransactionID string          `json:"provider_transaction_id,omitempty"`
	// CapturedAmount and CapturedCurrency are what the provider reported, in the provider's currency.
	CapturedAmount   decimal.Decimal `json:"captured_amount"`
	CapturedCurrency string          `json:"captured_currency,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	Status           PaymentStatus   `json:"status"`
	CommissionRate   decimal.Decimal `json:"commission_rate"`
	MentorAmount     decimal.Decimal `json:"mentor_amount"`
	MentorDeduction  decimal.Decimal `json:"mentor_deduction"`
	RefundAmount     decimal.Decimal `json:"refund_amount"`
	RefundPercentage decimal.Decimal `json:"refund_percentage"`
	FailureReason    string          `json:"failure_reason,omitempty"`
	PaidAt           *time.Time      `json:"paid_at,omitempty"`
	ReleaseAt        *time.Time      `json:"release_at,omitempty"`
	ReleasedAt       *time.Time      `json:"released_at,omitempty"`
	RefundedAt       *time.Time      `json:"refunded_at,omitempty"`
	CancelledAt      *time.Time      `json:"cancelled_at,omitempty"`
	TimeModel
}

// IsReleasedToMentor reports whether the mentor's share already moved to the available balance.
func (p *Payment) IsReleasedToMentor() bool {
	return p.ReleasedAt != nil
}

func (p *Payment) IsAwaitingCapture() bool {
	return p.Status == PaymentStatusPending || p.Status == PaymentStatusFailed
}

// RemainingRefundablePercentage is how much of the payment can still be refunded.
func (p *Payment) RemainingRefundablePercentage() decimal.Decimal {
	return hundred.Sub(p.RefundPercentage)
}

// MentorShare is the commission-adjusted portion of amount owed to the mentor.
func (p *Payment) MentorShare(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(1).Sub(p.CommissionRate)).Round(2)
}

// UnreleasedMentorAmount is what a release would still move from pending to available.
func (p *Payment) UnreleasedMentorAmount() decimal.Decimal {
	remaining := p.MentorAmount.Sub(p.MentorDeduction)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// MarkCaptured records a provider-confirmed capture.
func (p *Payment) MarkCaptured(transactionID string, amount decimal.Decimal, currency string, now time.Time) {
	p.Status = PaymentStatusCaptured
	p.ProviderTransactionID = transactionID
	p.CapturedAmount = amount
	p.CapturedCurrency = currency
	p.FailureReason = ""
	p.PaidAt = &now
	p.SetUpdatedAt(now)
}

// IsRefundable reports whether some of a captured payment can still be returned.
func (p *Payment) IsRefundable() bool {
	switch p.Status {
	case PaymentStatusCaptured:
		return true
	case PaymentStatusRefunded:
		return p.RefundPercentage.LessThan(hundred)
	default:
		return false
	}
}

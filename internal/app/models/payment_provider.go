package models

import "github.com/shopspring/decimal"

type IntentResult struct {
	IntentID     string
	ClientSecret string
	CheckoutURL  string
}

type CallbackResult struct {
	Success       bool
	EventID       string
	IntentID      string
	TransactionID string
	Status        PaymentStatus
	Amount        decimal.Decimal
	Currency      string
	FailureReason string
}

type ProviderStatus struct {
	Status        PaymentStatus
	TransactionID string
	Amount        decimal.Decimal
	Currency      string
}

type RefundResult struct {
	Success        bool
	RefundedAmount decimal.Decimal
	RefundID       string
}

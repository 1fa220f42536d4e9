package requests

import "github.com/shopspring/decimal"

type CreatePaymentIntent struct {
	SessionID string `json:"session_id" validate:"required,uuid"`
	Provider  string `json:"provider" validate:"required,oneof=card wallet"`
}

type ConfirmPayment struct {
	Provider string `json:"provider" validate:"required,oneof=card wallet"`
	IntentID string `json:"intent_id" validate:"required"`
}

type RefundPayment struct {
	Percentage decimal.Decimal `json:"percentage" validate:"percent"`
}

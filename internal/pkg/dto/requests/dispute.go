package requests

import "github.com/shopspring/decimal"

type CreateDispute struct {
	SessionID string `json:"session_id" validate:"required,uuid"`
	Reason    string `json:"reason" validate:"required,max=2000"`
}

type ResolveDispute struct {
	Decision     string          `json:"decision" validate:"required,oneof=refund reject"`
	Resolution   string          `json:"resolution" validate:"required,max=2000"`
	RefundAmount decimal.Decimal `json:"refund_amount"`
}

package requests

import "github.com/shopspring/decimal"

type RequestPayout struct {
	Amount decimal.Decimal `json:"amount" validate:"money"`
}

package models

import "github.com/shopspring/decimal"

const (
	SessionDurationShort = 30
	SessionDurationLong  = 60
)

type Mentor struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Rate30   decimal.Decimal `json:"rate_30"`
	Rate60   decimal.Decimal `json:"rate_60"`
	Currency string          `json:"currency"`
	TimeModel
}

// RateFor returns the mentor's fixed price for a session length.
func (m *Mentor) RateFor(durationMinutes int) (decimal.Decimal, bool) {
	switch durationMinutes {
	case SessionDurationShort:
		return m.Rate30, true
	case SessionDurationLong:
		return m.Rate60, true
	default:
		return decimal.Zero, false
	}
}

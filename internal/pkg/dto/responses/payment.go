package responses

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentIntent struct {
	PaymentID    string          `json:"payment_id"`
	SessionID    string          `json:"session_id"`
	Provider     string          `json:"provider"`
	IntentID     string          `json:"intent_id"`
	ClientSecret string          `json:"client_secret,omitempty"`
	CheckoutURL  string          `json:"checkout_url,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	ExpiresAt    time.Time       `json:"expires_at"`
}

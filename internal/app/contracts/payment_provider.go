package contracts

import (
	"context"
	"mentorship-service/internal/app/models"

	"github.com/shopspring/decimal"
)

// PaymentProvider is the capability set every provider adapter offers.
type PaymentProvider interface {
	Name() models.PaymentProvider
	Currency() string
	// ConversionRate is how many provider currency units equal one unit of the session currency.
	ConversionRate() decimal.Decimal
	CaptureTimeoutMinutes() int
	CreateIntent(ctx context.Context, amount decimal.Decimal, currency string, metadata map[string]string) (*models.IntentResult, error)
	HandleCallback(ctx context.Context, payload []byte, signature string) (*models.CallbackResult, error)
	GetStatus(ctx context.Context, intentID string) (*models.ProviderStatus, error)
	Refund(ctx context.Context, intentID string, amount decimal.Decimal, transactionID string) (*models.RefundResult, error)
	// Cancel returns ErrCancelNotSupported when the provider has no void operation.
	Cancel(ctx context.Context, intentID string) error
}

type PaymentProviderRegistry interface {
	Get(provider models.PaymentProvider) (PaymentProvider, error)
}

// PayoutGateway disburses mentor payouts to their bank or wallet.
type PayoutGateway interface {
	Disburse(ctx context.Context, payout *models.Payout) (string, error)
}

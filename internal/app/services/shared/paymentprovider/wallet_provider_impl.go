package paymentprovider

import (
	"context"
	"crypto/subtle"
	"fmt"
	"mentorship-service/internal/app/config"
	"mentorship-service/internal/app/contracts"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/pkg/constvars"
	"mentorship-service/internal/pkg/exceptions"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const walletCaptureEvent = "ewallet.capture"

type walletProvider struct {
	client        *providerClient
	WebhookSecret string
	currency      string
	rate          decimal.Decimal
	captureMins   int
	Log           *zap.Logger
}

// NewWalletProvider adapts an e-wallet gateway that charges in its own currency and
// authenticates callbacks with a shared token.
func NewWalletProvider(cfg config.AppPaymentProvider, logger *zap.Logger) contracts.PaymentProvider {
	secretKey := cfg.SecretKey
	return &walletProvider{
		client: newProviderClient(models.PaymentProviderWallet, cfg.BaseUrl, cfg.RequestTimeoutInSeconds, cfg.RequestsPerSecond, func(req *http.Request) {
			req.SetBasicAuth(secretKey, "")
		}),
		WebhookSecret: cfg.WebhookSecret,
		currency:      cfg.Currency,
		rate:          cfg.Rate(),
		captureMins:   cfg.CaptureTimeoutInMinutes,
		Log:           logger,
	}
}

func (p *walletProvider) Name() models.PaymentProvider    { return models.PaymentProviderWallet }
func (p *walletProvider) Currency() string                { return p.currency }
func (p *walletProvider) ConversionRate() decimal.Decimal { return p.rate }
func (p *walletProvider) CaptureTimeoutMinutes() int      { return p.captureMins }

func (p *walletProvider) CreateIntent(ctx context.Context, amount decimal.Decimal, currency string, metadata map[string]string) (*models.IntentResult, error) {
	body, err := p.client.do(ctx, constvars.MethodPost, "/ewallets/charges", map[string]interface{}{
		"reference_id":    metadata["payment_id"],
		"currency":        currency,
		"charge_amount":   amount.StringFixed(0),
		"checkout_method": "ONE_TIME_PAYMENT",
		"metadata":        metadata,
	})
	if err != nil {
		return nil, err
	}

	result := gjson.ParseBytes(body)
	chargeID := result.Get("id").String()
	if chargeID == "" {
		return nil, exceptions.ErrPaymentProvider(exceptions.ErrDecodeResponse(nil, "wallet charge"), string(p.Name()))
	}
	return &models.IntentResult{
		IntentID:    chargeID,
		CheckoutURL: result.Get("actions.desktop_web_checkout_url").String(),
	}, nil
}

func (p *walletProvider) HandleCallback(ctx context.Context, payload []byte, signature string) (*models.CallbackResult, error) {
	if p.WebhookSecret == "" || subtle.ConstantTimeCompare([]byte(p.WebhookSecret), []byte(signature)) != 1 {
		return nil, exceptions.ErrWebhookSignature(string(p.Name()))
	}
	if !gjson.ValidBytes(payload) {
		return nil, exceptions.ErrWebhookPayload(string(p.Name()), "invalid json")
	}

	event := gjson.ParseBytes(payload)
	if eventType := event.Get("event").String(); eventType != walletCaptureEvent {
		return nil, exceptions.ErrWebhookPayload(string(p.Name()), fmt.Sprintf("unsupported event %q", eventType))
	}

	data := event.Get("data")
	result := &models.CallbackResult{
		EventID:       event.Get("id").String(),
		IntentID:      data.Get("id").String(),
		TransactionID: data.Get("id").String(),
		Status:        walletStatus(data.Get("status").String()),
		Currency:      data.Get("currency").String(),
		FailureReason: data.Get("failure_code").String(),
	}
	if result.IntentID == "" {
		return nil, exceptions.ErrWebhookPayload(string(p.Name()), "missing charge id")
	}
	result.Amount, _ = decimal.NewFromString(data.Get("capture_amount").String())
	if result.Amount.IsZero() {
		result.Amount, _ = decimal.NewFromString(data.Get("charge_amount").String())
	}
	result.Success = result.Status == models.PaymentStatusCaptured
	return result, nil
}

func (p *walletProvider) GetStatus(ctx context.Context, intentID string) (*models.ProviderStatus, error) {
	body, err := p.client.do(ctx, constvars.MethodGet, "/ewallets/charges/"+intentID, nil)
	if err != nil {
		return nil, err
	}

	result := gjson.ParseBytes(body)
	amount, _ := decimal.NewFromString(result.Get("charge_amount").String())
	return &models.ProviderStatus{
		Status:        walletStatus(result.Get("status").String()),
		TransactionID: result.Get("id").String(),
		Amount:        amount,
		Currency:      result.Get("currency").String(),
	}, nil
}

func (p *walletProvider) Refund(ctx context.Context, intentID string, amount decimal.Decimal, transactionID string) (*models.RefundResult, error) {
	body, err := p.client.do(ctx, constvars.MethodPost, "/ewallets/charges/"+intentID+"/refunds", map[string]interface{}{
		"amount": amount.StringFixed(0),
		"reason": "REQUESTED_BY_CUSTOMER",
	})
	if err != nil {
		return nil, err
	}

	result := gjson.ParseBytes(body)
	refunded, _ := decimal.NewFromString(result.Get("refund_amount").String())
	status := result.Get("status").String()
	return &models.RefundResult{
		Success:        status == "SUCCEEDED" || status == "PENDING",
		RefundedAmount: refunded,
		RefundID:       result.Get("id").String(),
	}, nil
}

// Cancel is unsupported; uncaptured wallet charges expire on the provider side.
func (p *walletProvider) Cancel(ctx context.Context, intentID string) error {
	return ErrCancelNotSupported
}

func walletStatus(status string) models.PaymentStatus {
	switch status {
	case "SUCCEEDED":
		return models.PaymentStatusCaptured
	case "FAILED":
		return models.PaymentStatusFailed
	case "VOIDED":
		return models.PaymentStatusCanceled
	default:
		return models.PaymentStatusPending
	}
}

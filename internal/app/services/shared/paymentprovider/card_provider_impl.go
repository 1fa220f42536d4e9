package paymentprovider

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
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

const (
	cardEventSucceeded = "payment_intent.succeeded"
	cardEventFailed    = "payment_intent.payment_failed"
	cardEventCanceled  = "payment_intent.canceled"
)

type cardProvider struct {
	client        *providerClient
	WebhookSecret string
	currency      string
	rate          decimal.Decimal
	captureMins   int
	Log           *zap.Logger
}

// NewCardProvider adapts a card-network gateway whose webhooks are signed with HMAC-SHA256.
func NewCardProvider(cfg config.AppPaymentProvider, logger *zap.Logger) contracts.PaymentProvider {
	secretKey := cfg.SecretKey
	return &cardProvider{
		client: newProviderClient(models.PaymentProviderCard, cfg.BaseUrl, cfg.RequestTimeoutInSeconds, cfg.RequestsPerSecond, func(req *http.Request) {
			req.Header.Set(constvars.HeaderAuthorization, "Bearer "+secretKey)
		}),
		WebhookSecret: cfg.WebhookSecret,
		currency:      cfg.Currency,
		rate:          cfg.Rate(),
		captureMins:   cfg.CaptureTimeoutInMinutes,
		Log:           logger,
	}
}

func (p *cardProvider) Name() models.PaymentProvider    { return models.PaymentProviderCard }
func (p *cardProvider) Currency() string                { return p.currency }
func (p *cardProvider) ConversionRate() decimal.Decimal { return p.rate }
func (p *cardProvider) CaptureTimeoutMinutes() int      { return p.captureMins }

func (p *cardProvider) CreateIntent(ctx context.Context, amount decimal.Decimal, currency string, metadata map[string]string) (*models.IntentResult, error) {
	body, err := p.client.do(ctx, constvars.MethodPost, "/v1/payment_intents", map[string]interface{}{
		"amount":   amount.StringFixed(2),
		"currency": currency,
		"metadata": metadata,
	})
	if err != nil {
		return nil, err
	}

	result := gjson.ParseBytes(body)
	intentID := result.Get("id").String()
	if intentID == "" {
		return nil, exceptions.ErrPaymentProvider(exceptions.ErrDecodeResponse(nil, "card intent"), string(p.Name()))
	}
	return &models.IntentResult{
		IntentID:     intentID,
		ClientSecret: result.Get("client_secret").String(),
		CheckoutURL:  result.Get("next_action.redirect_url").String(),
	}, nil
}

func (p *cardProvider) HandleCallback(ctx context.Context, payload []byte, signature string) (*models.CallbackResult, error) {
	if !p.validSignature(payload, signature) {
		return nil, exceptions.ErrWebhookSignature(string(p.Name()))
	}
	if !gjson.ValidBytes(payload) {
		return nil, exceptions.ErrWebhookPayload(string(p.Name()), "invalid json")
	}

	event := gjson.ParseBytes(payload)
	object := event.Get("data.object")
	result := &models.CallbackResult{
		EventID:       event.Get("id").String(),
		IntentID:      object.Get("id").String(),
		TransactionID: object.Get("latest_charge").String(),
		Currency:      object.Get("currency").String(),
		FailureReason: object.Get("last_payment_error.message").String(),
	}
	if result.IntentID == "" {
		return nil, exceptions.ErrWebhookPayload(string(p.Name()), "missing intent id")
	}
	result.Amount, _ = decimal.NewFromString(object.Get("amount").String())

	switch eventType := event.Get("type").String(); eventType {
	case cardEventSucceeded:
		result.Success = true
		result.Status = models.PaymentStatusCaptured
	case cardEventFailed:
		result.Status = models.PaymentStatusFailed
	case cardEventCanceled:
		result.Status = models.PaymentStatusCanceled
	default:
		return nil, exceptions.ErrWebhookPayload(string(p.Name()), fmt.Sprintf("unsupported event type %q", eventType))
	}
	return result, nil
}

func (p *cardProvider) GetStatus(ctx context.Context, intentID string) (*models.ProviderStatus, error) {
	body, err := p.client.do(ctx, constvars.MethodGet, "/v1/payment_intents/"+intentID, nil)
	if err != nil {
		return nil, err
	}

	result := gjson.ParseBytes(body)
	amount, _ := decimal.NewFromString(result.Get("amount").String())
	return &models.ProviderStatus{
		Status:        cardStatus(result.Get("status").String()),
		TransactionID: result.Get("latest_charge").String(),
		Amount:        amount,
		Currency:      result.Get("currency").String(),
	}, nil
}

func (p *cardProvider) Refund(ctx context.Context, intentID string, amount decimal.Decimal, transactionID string) (*models.RefundResult, error) {
	body, err := p.client.do(ctx, constvars.MethodPost, "/v1/refunds", map[string]interface{}{
		"payment_intent": intentID,
		"charge":         transactionID,
		"amount":         amount.StringFixed(2),
	})
	if err != nil {
		return nil, err
	}

	result := gjson.ParseBytes(body)
	refunded, _ := decimal.NewFromString(result.Get("amount").String())
	status := result.Get("status").String()
	return &models.RefundResult{
		Success:        status == "succeeded" || status == "pending",
		RefundedAmount: refunded,
		RefundID:       result.Get("id").String(),
	}, nil
}

func (p *cardProvider) Cancel(ctx context.Context, intentID string) error {
	_, err := p.client.do(ctx, constvars.MethodPost, "/v1/payment_intents/"+intentID+"/cancel", nil)
	return err
}

func (p *cardProvider) validSignature(payload []byte, signature string) bool {
	if p.WebhookSecret == "" || signature == "" {
		return false
	}
	expected := SignCardPayload(p.WebhookSecret, payload)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// SignCardPayload returns the hex HMAC-SHA256 the card gateway sends in its signature header.
func SignCardPayload(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func cardStatus(status string) models.PaymentStatus {
	switch status {
	case "succeeded":
		return models.PaymentStatusCaptured
	case "canceled":
		return models.PaymentStatusCanceled
	case "requires_payment_method":
		return models.PaymentStatusFailed
	default:
		return models.PaymentStatusPending
	}
}

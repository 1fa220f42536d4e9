package paymentprovider

import (
	"context"
	"io"
	"mentorship-service/internal/app/config"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/pkg/exceptions"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func providerConfig(baseUrl string) config.AppPaymentProvider {
	return config.AppPaymentProvider{
		Enabled:                 true,
		BaseUrl:                 baseUrl,
		SecretKey:               "sk_test",
		WebhookSecret:           "whsec",
		Currency:                "USD",
		CaptureTimeoutInMinutes: 30,
		RequestTimeoutInSeconds: 2,
	}
}

func TestCardProvider_CreateIntent(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.Write([]byte(`{"id":"pi_123","client_secret":"pi_123_secret","status":"requires_payment_method"}`))
	}))
	defer server.Close()

	provider := NewCardProvider(providerConfig(server.URL), zap.NewNop())
	intent, err := provider.CreateIntent(context.Background(), decimal.RequireFromString("42.5"), "USD", map[string]string{"session_id": "s-1"})
	require.NoError(t, err)

	assert.Equal(t, "pi_123", intent.IntentID)
	assert.Equal(t, "pi_123_secret", intent.ClientSecret)
	assert.Equal(t, "Bearer sk_test", gotAuth)
	assert.Equal(t, "/v1/payment_intents", gotPath)
	assert.Equal(t, "42.50", gotBody["amount"])
}

func TestCardProvider_UpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"boom"}`))
	}))
	defer server.Close()

	provider := NewCardProvider(providerConfig(server.URL), zap.NewNop())
	_, err := provider.GetStatus(context.Background(), "pi_123")
	require.Error(t, err)
	assert.True(t, exceptions.IsKind(err, exceptions.KindPaymentProvider))
}

func TestCardProvider_GetStatusAndRefund(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/payment_intents/pi_1":
			w.Write([]byte(`{"id":"pi_1","status":"succeeded","amount":"50.00","currency":"usd","latest_charge":"ch_1"}`))
		case "/v1/refunds":
			w.Write([]byte(`{"id":"re_1","status":"succeeded","amount":"25.00"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	provider := NewCardProvider(providerConfig(server.URL), zap.NewNop())

	status, err := provider.GetStatus(context.Background(), "pi_1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCaptured, status.Status)
	assert.Equal(t, "ch_1", status.TransactionID)
	assert.True(t, status.Amount.Equal(decimal.NewFromInt(50)))

	refund, err := provider.Refund(context.Background(), "pi_1", decimal.NewFromInt(25), "ch_1")
	require.NoError(t, err)
	assert.True(t, refund.Success)
	assert.Equal(t, "re_1", refund.RefundID)
	assert.True(t, refund.RefundedAmount.Equal(decimal.NewFromInt(25)))
}

func TestCardProvider_HandleCallback(t *testing.T) {
	provider := NewCardProvider(providerConfig("http://unused"), zap.NewNop())
	event := func(eventType string) []byte {
		return []byte(`{"id":"evt_1","type":"` + eventType + `","data":{"object":{"id":"pi_1","amount":"50.00","currency":"usd","latest_charge":"ch_1"}}}`)
	}

	tests := []struct {
		name      string
		payload   []byte
		signature string
		status    models.PaymentStatus
		kind      exceptions.Kind
	}{
		{"captured", event(cardEventSucceeded), "", models.PaymentStatusCaptured, ""},
		{"failed", event(cardEventFailed), "", models.PaymentStatusFailed, ""},
		{"canceled", event(cardEventCanceled), "", models.PaymentStatusCanceled, ""},
		{"forged signature", event(cardEventSucceeded), "deadbeef", "", exceptions.KindUnauthorized},
		{"unknown event", event("charge.dispute.created"), "", "", exceptions.KindValidation},
		{"missing intent", []byte(`{"id":"evt_2","type":"payment_intent.succeeded","data":{"object":{}}}`), "", "", exceptions.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signature := tt.signature
			if signature == "" {
				signature = SignCardPayload("whsec", tt.payload)
			}
			result, err := provider.HandleCallback(context.Background(), tt.payload, signature)
			if tt.kind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.kind, exceptions.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.status, result.Status)
			assert.Equal(t, "evt_1", result.EventID)
			assert.Equal(t, "pi_1", result.IntentID)
			assert.Equal(t, tt.status == models.PaymentStatusCaptured, result.Success)
		})
	}
}

func TestWalletProvider(t *testing.T) {
	var gotUser string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _, _ = r.BasicAuth()
		w.Write([]byte(`{"id":"ewc_1","status":"PENDING","actions":{"desktop_web_checkout_url":"https://pay.test/ewc_1"}}`))
	}))
	defer server.Close()

	cfg := providerConfig(server.URL)
	cfg.Currency = "IDR"
	cfg.ConversionRate = "15000"
	provider := NewWalletProvider(cfg, zap.NewNop())

	assert.True(t, provider.ConversionRate().Equal(decimal.NewFromInt(15000)))

	intent, err := provider.CreateIntent(context.Background(), decimal.NewFromInt(750000), "IDR", map[string]string{"payment_id": "p-1"})
	require.NoError(t, err)
	assert.Equal(t, "ewc_1", intent.IntentID)
	assert.Equal(t, "https://pay.test/ewc_1", intent.CheckoutURL)
	assert.Equal(t, "sk_test", gotUser)

	assert.ErrorIs(t, provider.Cancel(context.Background(), "ewc_1"), ErrCancelNotSupported)

	payload := []byte(`{"id":"evt_w1","event":"ewallet.capture","data":{"id":"ewc_1","status":"SUCCEEDED","currency":"IDR","charge_amount":"750000"}}`)
	_, err = provider.HandleCallback(context.Background(), payload, "wrong-token")
	assert.True(t, exceptions.IsKind(err, exceptions.KindUnauthorized))

	result, err := provider.HandleCallback(context.Background(), payload, "whsec")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, result.Amount.Equal(decimal.NewFromInt(750000)))
}

func TestRegistry(t *testing.T) {
	cfg := &config.InternalConfig{Payment: config.AppPayment{
		Card:   providerConfig("http://card"),
		Wallet: config.AppPaymentProvider{Enabled: false},
	}}
	registry := NewRegistryFromConfig(cfg, zap.NewNop())

	card, err := registry.Get(models.PaymentProviderCard)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentProviderCard, card.Name())

	_, err = registry.Get(models.PaymentProviderWallet)
	assert.Error(t, err)
}

package payout

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mentorship-service/internal/app/config"
	"mentorship-service/internal/app/contracts"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/pkg/constvars"
	"mentorship-service/internal/pkg/exceptions"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

type payoutGateway struct {
	BaseUrl    string
	ApiKey     string
	HTTPClient *http.Client
}

func NewPayoutGateway(internalConfig *config.InternalConfig) contracts.PayoutGateway {
	timeout := internalConfig.Payout.RequestTimeoutInSeconds
	if timeout <= 0 {
		timeout = 15
	}
	return &payoutGateway{
		BaseUrl:    internalConfig.Payout.BaseUrl,
		ApiKey:     internalConfig.Payout.ApiKey,
		HTTPClient: &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}
}

// Disburse sends the payout and returns the gateway's reference. The payout id is
// the idempotency key so a retried call cannot pay twice.
func (g *payoutGateway) Disburse(ctx context.Context, payout *models.Payout) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"reference_id": payout.ID,
		"recipient_id": payout.MentorID,
		"amount":       payout.Amount.StringFixed(2),
	})
	if err != nil {
		return "", exceptions.ErrCannotMarshalJSON(err)
	}

	req, err := http.NewRequestWithContext(ctx, constvars.MethodPost, g.BaseUrl+"/disbursements", bytes.NewReader(payload))
	if err != nil {
		return "", exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	req.Header.Set(constvars.HeaderAuthorization, "Bearer "+g.ApiKey)
	req.Header.Set("Idempotency-Key", payout.ID)

	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return "", exceptions.ErrPayoutGateway(exceptions.ErrSendHTTPRequest(err), payout.ID)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", exceptions.ErrPayoutGateway(exceptions.ErrDecodeResponse(err, "payout"), payout.ID)
	}
	if resp.StatusCode < constvars.StatusOK || resp.StatusCode >= 300 {
		return "", exceptions.ErrPayoutGateway(exceptions.ErrUnexpectedHTTPStatus("payout gateway", resp.StatusCode, string(body)), payout.ID)
	}

	result := gjson.ParseBytes(body)
	if status := result.Get("status").String(); status == "FAILED" {
		return "", exceptions.ErrPayoutGateway(fmt.Errorf("%s", result.Get("failure_reason").String()), payout.ID)
	}
	return result.Get("id").String(), nil
}

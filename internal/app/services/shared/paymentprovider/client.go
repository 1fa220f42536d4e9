package paymentprovider

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/pkg/constvars"
	"mentorship-service/internal/pkg/exceptions"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

// ErrCancelNotSupported is returned by providers that cannot void an open intent.
var ErrCancelNotSupported = errors.New("payment provider does not support cancel")

// providerClient is the HTTP transport shared by the provider adapters.
type providerClient struct {
	Name       models.PaymentProvider
	BaseUrl    string
	HTTPClient *http.Client
	Limiter    *rate.Limiter
	authorize  func(req *http.Request)
}

func newProviderClient(name models.PaymentProvider, baseUrl string, timeoutInSeconds, requestsPerSecond int, authorize func(req *http.Request)) *providerClient {
	if timeoutInSeconds <= 0 {
		timeoutInSeconds = 10
	}
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &providerClient{
		Name:       name,
		BaseUrl:    baseUrl,
		HTTPClient: &http.Client{Timeout: time.Duration(timeoutInSeconds) * time.Second},
		Limiter:    rate.NewLimiter(limit, max(requestsPerSecond, 1)),
		authorize:  authorize,
	}
}

// do sends body as JSON and returns the raw response payload for 2xx responses.
func (c *providerClient) do(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	if err := c.Limiter.Wait(ctx); err != nil {
		return nil, exceptions.ErrPaymentProvider(err, string(c.Name))
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, exceptions.ErrCannotMarshalJSON(err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseUrl+path, reader)
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	if c.authorize != nil {
		c.authorize(req)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, exceptions.ErrPaymentProvider(exceptions.ErrSendHTTPRequest(err), string(c.Name))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, exceptions.ErrPaymentProvider(exceptions.ErrDecodeResponse(err, string(c.Name)), string(c.Name))
	}

	if resp.StatusCode < constvars.StatusOK || resp.StatusCode >= 300 {
		return nil, exceptions.ErrPaymentProvider(
			exceptions.ErrUnexpectedHTTPStatus(fmt.Sprintf("%s %s", method, path), resp.StatusCode, string(respBody)),
			string(c.Name),
		)
	}
	return respBody, nil
}

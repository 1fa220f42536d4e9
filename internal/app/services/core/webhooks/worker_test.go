package webhooks_test

import (
	"context"
	"errors"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/app/services/core/coretest"
	"mentorship-service/internal/app/services/core/webhooks"
	"mentorship-service/internal/pkg/testutil"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newWorker(h *coretest.Harness, locker *testutil.FakeLocker) *webhooks.Worker {
	return webhooks.NewWorker(zap.NewNop(), h.Config, locker, h.RetryQueue, h.Payments)
}

func TestWorkerReplaysFailedCallback(t *testing.T) {
	h := coretest.New(t)
	session := h.Book(t, 72*time.Hour)
	intent, err := h.Payments.CreateIntent(coretest.Ctx(), coretest.Mentee(), session.ID, models.PaymentProviderCard)
	require.NoError(t, err)

	h.Store.FailCommit = errors.New("deadlock detected")
	payload := h.Card.CallbackPayload("evt-1", intent.IntentID, models.PaymentStatusCaptured)
	require.Error(t, h.Payments.HandleWebhook(coretest.Ctx(), models.PaymentProviderCard, payload, testutil.FakeWebhookSignature))
	require.Len(t, h.RetryQueue.Ready, 1)

	newWorker(h, &testutil.FakeLocker{}).RunOnce(context.Background(), time.Minute)

	assert.Equal(t, models.SessionStatusConfirmed, h.Store.Session(session.ID).Status)
	assert.Equal(t, []uint64{1}, h.RetryQueue.Acked)
	assert.Empty(t, h.RetryQueue.Ready)
	assert.Empty(t, h.RetryQueue.Dead)
}

func TestWorkerMovesExhaustedCallbackToDeadQueue(t *testing.T) {
	h := coretest.New(t)
	payload := h.Card.CallbackPayloadWithAmount("evt-2", "card-intent-missing", models.PaymentStatusCaptured, decimal.NewFromInt(50), "USD")
	require.Error(t, h.Payments.HandleWebhook(coretest.Ctx(), models.PaymentProviderCard, payload, testutil.FakeWebhookSignature))

	worker := newWorker(h, &testutil.FakeLocker{})
	worker.RunOnce(context.Background(), time.Minute)
	require.Len(t, h.RetryQueue.Reenqueued, 1)
	assert.Equal(t, 1, h.RetryQueue.Reenqueued[0].FailedCount)
	assert.NotEmpty(t, h.RetryQueue.Reenqueued[0].LastError)

	worker.RunOnce(context.Background(), time.Minute)
	worker.RunOnce(context.Background(), time.Minute)

	require.Len(t, h.RetryQueue.Dead, 1)
	assert.Equal(t, h.Config.Webhook.ThrottleRetry, h.RetryQueue.Dead[0].FailedCount)
	assert.Len(t, h.RetryQueue.Reenqueued, 2)
	assert.Len(t, h.RetryQueue.Acked, 3)
	assert.Empty(t, h.RetryQueue.Ready)
}

func TestWorkerDeadLettersRejectedCallback(t *testing.T) {
	h := coretest.New(t)
	require.NoError(t, h.RetryQueue.Enqueue(context.Background(), models.WebhookRetryMessage{
		ID:        "msg-1",
		Provider:  string(models.PaymentProviderCard),
		Signature: "forged",
		Payload:   []byte(`{}`),
	}))

	newWorker(h, &testutil.FakeLocker{}).RunOnce(context.Background(), time.Minute)

	require.Len(t, h.RetryQueue.Dead, 1)
	assert.Equal(t, 1, h.RetryQueue.Dead[0].FailedCount)
	assert.Empty(t, h.RetryQueue.Reenqueued)
}

func TestWorkerSkipsWithoutLock(t *testing.T) {
	h := coretest.New(t)
	require.NoError(t, h.RetryQueue.Enqueue(context.Background(), models.WebhookRetryMessage{ID: "msg-1", Provider: "card"}))

	newWorker(h, &testutil.FakeLocker{Busy: true}).RunOnce(context.Background(), time.Minute)

	assert.Len(t, h.RetryQueue.Ready, 1)
	assert.Empty(t, h.RetryQueue.Acked)
}

func TestWorkerStartStop(t *testing.T) {
	h := coretest.New(t)
	stop := newWorker(h, &testutil.FakeLocker{}).Start(context.Background())
	stop()
	stop()
}

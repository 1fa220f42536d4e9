package payments_test

import (
	"errors"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/app/services/core/coretest"
	"mentorship-service/internal/app/services/shared/paymentprovider"
	"mentorship-service/internal/pkg/constvars"
	"mentorship-service/internal/pkg/exceptions"
	"mentorship-service/internal/pkg/testutil"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateIntent(t *testing.T) {
	t.Run("converts the price into the provider currency", func(t *testing.T) {
		h := coretest.New(t)
		session := h.Book(t, 72*time.Hour)

		intent, err := h.Payments.CreateIntent(coretest.Ctx(), coretest.Mentee(), session.ID, models.PaymentProviderWallet)
		require.NoError(t, err)
		testutil.AssertMoney(t, "750000", intent.Amount)
		assert.Equal(t, "IDR", intent.Currency)
		assert.Equal(t, coretest.Epoch.Add(60*time.Minute), intent.ExpiresAt)

		providerIntent := h.Wallet.Intent(intent.IntentID)
		testutil.AssertMoney(t, "750000", providerIntent.Amount)
		assert.Equal(t, session.ID, providerIntent.Metadata["session_id"])
		assert.Equal(t, intent.PaymentID, providerIntent.Metadata["payment_id"])

		payment := h.Store.Payment(intent.PaymentID)
		testutil.AssertMoney(t, "50", payment.Amount)
		assert.Equal(t, "USD", payment.Currency)
		assert.Equal(t, models.PaymentStatusPending, payment.Status)
		testutil.AssertMoney(t, "0.15", payment.CommissionRate)
		require.NotNil(t, h.Store.Session(session.ID).PaymentID)

		job, ok := h.Store.PendingJob(models.JobPaymentCaptureTimeout, payment.ID)
		require.True(t, ok)
		assert.Equal(t, coretest.Epoch.Add(60*time.Minute), job.RunAt)
	})

	t.Run("refuses a second intent for the same session", func(t *testing.T) {
		h := coretest.New(t)
		session := h.Book(t, 72*time.Hour)
		_, err := h.Payments.CreateIntent(coretest.Ctx(), coretest.Mentee(), session.ID, models.PaymentProviderCard)
		require.NoError(t, err)

		_, err = h.Payments.CreateIntent(coretest.Ctx(), coretest.Mentee(), session.ID, models.PaymentProviderCard)
		assert.True(t, exceptions.IsKind(err, exceptions.KindConflict))
	})

	t.Run("only the mentee pays", func(t *testing.T) {
		h := coretest.New(t)
		session := h.Book(t, 72*time.Hour)

		_, err := h.Payments.CreateIntent(coretest.Ctx(), coretest.Other(), session.ID, models.PaymentProviderCard)
		assert.True(t, exceptions.IsKind(err, exceptions.KindUnauthorized))
	})

	t.Run("leaves no payment behind when the provider fails", func(t *testing.T) {
		h := coretest.New(t)
		session := h.Book(t, 72*time.Hour)
		h.Card.CreateErr = errors.New("gateway timeout")

		_, err := h.Payments.CreateIntent(coretest.Ctx(), coretest.Mentee(), session.ID, models.PaymentProviderCard)
		assert.True(t, exceptions.IsKind(err, exceptions.KindPaymentProvider))
		assert.Nil(t, h.Store.Session(session.ID).PaymentID)
		assert.Empty(t, h.Store.Jobs(models.JobPaymentCaptureTimeout))
	})

	t.Run("rejects an unknown provider", func(t *testing.T) {
		h := coretest.New(t)
		session := h.Book(t, 72*time.Hour)

		_, err := h.Payments.CreateIntent(coretest.Ctx(), coretest.Mentee(), session.ID, models.PaymentProvider("barter"))
		assert.True(t, exceptions.IsKind(err, exceptions.KindValidation))
	})
}

func TestHandleWebhook(t *testing.T) {
	t.Run("a capture confirms the session", func(t *testing.T) {
		h := coretest.New(t)
		session, payment := h.Confirmed(t, 72*time.Hour)

		assert.Equal(t, "https://meet.test/"+session.ID, session.VideoLink)
		assert.Equal(t, models.PaymentStatusCaptured, payment.Status)
		testutil.AssertMoney(t, "50", payment.CapturedAmount)
		assert.Equal(t, "txn-"+payment.ProviderIntentID, payment.ProviderTransactionID)
		require.NotNil(t, payment.PaidAt)

		job, ok := h.Store.PendingJob(models.JobSessionAutoComplete, session.ID)
		require.True(t, ok)
		assert.Equal(t, session.EndTime.Add(60*time.Minute), job.RunAt)

		assert.Equal(t, []string{models.WebhookOutcomeApplied}, h.Archive.Outcomes())
		assert.Equal(t, []string{constvars.EmailSubjectSessionConfirmed}, h.Notifications.Subjects())
		assert.ElementsMatch(t, []string{coretest.MenteeID, coretest.MentorID}, h.Notifications.Sent[0].UserIDs)
	})

	t.Run("a redelivered event is ignored", func(t *testing.T) {
		h := coretest.New(t)
		session, payment := h.Confirmed(t, 72*time.Hour)

		payload := h.Card.CallbackPayload("evt-"+payment.ProviderIntentID, payment.ProviderIntentID, models.PaymentStatusCaptured)
		err := h.Payments.HandleWebhook(coretest.Ctx(), models.PaymentProviderCard, payload, testutil.FakeWebhookSignature)
		require.NoError(t, err)

		assert.Equal(t, []string{models.WebhookOutcomeApplied, models.WebhookOutcomeDuplicate}, h.Archive.Outcomes())
		assert.Len(t, h.Notifications.Sent, 1)
		assert.Equal(t, models.SessionStatusConfirmed, h.Store.Session(session.ID).Status)
	})

	t.Run("a fresh event for a confirmed payment is a no-op", func(t *testing.T) {
		h := coretest.New(t)
		session, payment := h.Confirmed(t, 72*time.Hour)

		payload := h.Card.CallbackPayload("evt-other", payment.ProviderIntentID, models.PaymentStatusCaptured)
		require.NoError(t, h.Payments.HandleWebhook(coretest.Ctx(), models.PaymentProviderCard, payload, testutil.FakeWebhookSignature))
		assert.Len(t, h.Notifications.Sent, 1)
		assert.Equal(t, models.SessionStatusConfirmed, h.Store.Session(session.ID).Status)
	})

	t.Run("a bad signature is rejected without retry", func(t *testing.T) {
		h := coretest.New(t)
		session := h.Book(t, 72*time.Hour)
		intent, err := h.Payments.CreateIntent(coretest.Ctx(), coretest.Mentee(), session.ID, models.PaymentProviderCard)
		require.NoError(t, err)

		payload := h.Card.CallbackPayload("evt-1", intent.IntentID, models.PaymentStatusCaptured)
		err = h.Payments.HandleWebhook(coretest.Ctx(), models.PaymentProviderCard, payload, "forged")
		assert.True(t, exceptions.IsKind(err, exceptions.KindUnauthorized))
		assert.Equal(t, []string{models.WebhookOutcomeRejected}, h.Archive.Outcomes())
		assert.Empty(t, h.RetryQueue.Enqueued)
		assert.Equal(t, models.PaymentStatusPending, h.Store.Payment(intent.PaymentID).Status)
	})

	t.Run("a wallet capture in the converted amount confirms", func(t *testing.T) {
		h := coretest.New(t)
		session := h.Book(t, 72*time.Hour)
		intent, err := h.Payments.CreateIntent(coretest.Ctx(), coretest.Mentee(), session.ID, models.PaymentProviderWallet)
		require.NoError(t, err)

		payload := h.Wallet.CallbackPayload("evt-w1", intent.IntentID, models.PaymentStatusCaptured)
		require.NoError(t, h.Payments.HandleWebhook(coretest.Ctx(), models.PaymentProviderWallet, payload, testutil.FakeWebhookSignature))
		assert.Equal(t, models.SessionStatusConfirmed, h.Store.Session(session.ID).Status)
	})

	t.Run("a capture for the wrong amount leaves the session pending", func(t *testing.T) {
		h := coretest.New(t)
		session := h.Book(t, 72*time.Hour)
		intent, err := h.Payments.CreateIntent(coretest.Ctx(), coretest.Mentee(), session.ID, models.PaymentProviderWallet)
		require.NoError(t, err)

		payload := h.Wallet.CallbackPayloadWithAmount("evt-w2", intent.IntentID, models.PaymentStatusCaptured, decimal.NewFromInt(700000), "IDR")
		require.NoError(t, h.Payments.HandleWebhook(coretest.Ctx(), models.PaymentProviderWallet, payload, testutil.FakeWebhookSignature))

		assert.Equal(t, models.SessionStatusPending, h.Store.Session(session.ID).Status)
		payment := h.Store.Payment(intent.PaymentID)
		assert.Equal(t, models.PaymentStatusCaptured, payment.Status)
		testutil.AssertMoney(t, "700000", payment.CapturedAmount)
		assert.Empty(t, h.Notifications.Sent)
	})

	t.Run("a failure is recorded and a later capture still confirms", func(t *testing.T) {
		h := coretest.New(t)
		session := h.Book(t, 72*time.Hour)
		intent, err := h.Payments.CreateIntent(coretest.Ctx(), coretest.Mentee(), session.ID, models.PaymentProviderCard)
		require.NoError(t, err)

		failed := h.Card.CallbackPayload("evt-f", intent.IntentID, models.PaymentStatusFailed)
		require.NoError(t, h.Payments.HandleWebhook(coretest.Ctx(), models.PaymentProviderCard, failed, testutil.FakeWebhookSignature))
		payment := h.Store.Payment(intent.PaymentID)
		assert.Equal(t, models.PaymentStatusFailed, payment.Status)
		assert.Equal(t, "card declined", payment.FailureReason)
		assert.Equal(t, models.SessionStatusPending, h.Store.Session(session.ID).Status)

		captured := h.Card.CallbackPayload("evt-c", intent.IntentID, models.PaymentStatusCaptured)
		require.NoError(t, h.Payments.HandleWebhook(coretest.Ctx(), models.PaymentProviderCard, captured, testutil.FakeWebhookSignature))
		assert.Equal(t, models.SessionStatusConfirmed, h.Store.Session(session.ID).Status)
		assert.Empty(t, h.Store.Payment(intent.PaymentID).FailureReason)
	})

	t.Run("a provider cancel cancels the pending session", func(t *testing.T) {
		h := coretest.New(t)
		session := h.Book(t, 72*time.Hour)
		intent, err := h.Payments.CreateIntent(coretest.Ctx(), coretest.Mentee(), session.ID, models.PaymentProviderCard)
		require.NoError(t, err)

		payload := h.Card.CallbackPayload("evt-x", intent.IntentID, models.PaymentStatusCanceled)
		require.NoError(t, h.Payments.HandleWebhook(coretest.Ctx(), models.PaymentProviderCard, payload, testutil.FakeWebhookSignature))

		assert.Equal(t, models.PaymentStatusCanceled, h.Store.Payment(intent.PaymentID).Status)
		assert.Equal(t, models.SessionStatusCancelled, h.Store.Session(session.ID).Status)
		assert.False(t, h.Store.Slot(*session.TimeSlotID).IsBooked)
	})

	t.Run("an unknown intent is queued for retry and its dedupe key released", func(t *testing.T) {
		h := coretest.New(t)
		payload := h.Card.CallbackPayloadWithAmount("evt-u", "card-intent-404", models.PaymentStatusCaptured, decimal.NewFromInt(50), "USD")

		err := h.Payments.HandleWebhook(coretest.Ctx(), models.PaymentProviderCard, payload, testutil.FakeWebhookSignature)
		assert.True(t, exceptions.IsKind(err, exceptions.KindNotFound))
		require.Len(t, h.RetryQueue.Enqueued, 1)
		assert.Equal(t, string(models.PaymentProviderCard), h.RetryQueue.Enqueued[0].Provider)
		assert.Equal(t, payload, h.RetryQueue.Enqueued[0].Payload)
		assert.Equal(t, []string{models.WebhookOutcomeFailed}, h.Archive.Outcomes())
		assert.False(t, h.Redis.Has("webhook:dedupe:card:evt-u"))
	})
}

func TestReplayWebhook(t *testing.T) {
	h := coretest.New(t)
	session := h.Book(t, 72*time.Hour)
	intent, err := h.Payments.CreateIntent(coretest.Ctx(), coretest.Mentee(), session.ID, models.PaymentProviderCard)
	require.NoError(t, err)

	h.Store.FailCommit = errors.New("connection reset")
	payload := h.Card.CallbackPayload("evt-r", intent.IntentID, models.PaymentStatusCaptured)
	err = h.Payments.HandleWebhook(coretest.Ctx(), models.PaymentProviderCard, payload, testutil.FakeWebhookSignature)
	assert.True(t, exceptions.IsKind(err, exceptions.KindInternal))
	require.Len(t, h.RetryQueue.Enqueued, 1)
	assert.Equal(t, models.PaymentStatusPending, h.Store.Payment(intent.PaymentID).Status)

	require.NoError(t, h.Payments.ReplayWebhook(coretest.Ctx(), h.RetryQueue.Enqueued[0]))
	assert.Equal(t, models.SessionStatusConfirmed, h.Store.Session(session.ID).Status)
	assert.Len(t, h.Archive.Events, 1)
	assert.Len(t, h.RetryQueue.Enqueued, 1)
}

func TestConfirmPayment(t *testing.T) {
	t.Run("requires a capture at the provider", func(t *testing.T) {
		h := coretest.New(t)
		session := h.Book(t, 72*time.Hour)
		intent, err := h.Payments.CreateIntent(coretest.Ctx(), coretest.Mentee(), session.ID, models.PaymentProviderCard)
		require.NoError(t, err)

		_, err = h.Payments.ConfirmPayment(coretest.Ctx(), models.PaymentProviderCard, intent.IntentID)
		assert.True(t, exceptions.IsKind(err, exceptions.KindPaymentNotCaptured))
		assert.Equal(t, models.SessionStatusPending, h.Store.Session(session.ID).Status)
	})

	t.Run("confirms from the provider status when no webhook arrived", func(t *testing.T) {
		h := coretest.New(t)
		session := h.Book(t, 72*time.Hour)
		intent, err := h.Payments.CreateIntent(coretest.Ctx(), coretest.Mentee(), session.ID, models.PaymentProviderCard)
		require.NoError(t, err)
		h.Card.Capture(intent.IntentID)

		confirmed, err := h.Payments.ConfirmPayment(coretest.Ctx(), models.PaymentProviderCard, intent.IntentID)
		require.NoError(t, err)
		assert.Equal(t, models.SessionStatusConfirmed, confirmed.Status)
		payment := h.Store.Payment(intent.PaymentID)
		assert.Equal(t, models.PaymentStatusCaptured, payment.Status)
		require.NotNil(t, payment.ReleaseAt)
		assert.Equal(t, coretest.Epoch.Add(72*time.Hour), *payment.ReleaseAt)
	})

	t.Run("the intent is only matched under its own provider", func(t *testing.T) {
		h := coretest.New(t)
		session := h.Book(t, 72*time.Hour)
		intent, err := h.Payments.CreateIntent(coretest.Ctx(), coretest.Mentee(), session.ID, models.PaymentProviderCard)
		require.NoError(t, err)
		h.Card.Capture(intent.IntentID)

		_, err = h.Payments.ConfirmPayment(coretest.Ctx(), models.PaymentProviderWallet, intent.IntentID)
		assert.True(t, exceptions.IsKind(err, exceptions.KindNotFound))
		assert.Equal(t, models.SessionStatusPending, h.Store.Session(session.ID).Status)
		assert.Equal(t, models.PaymentStatusPending, h.Store.Payment(intent.PaymentID).Status)
	})

	t.Run("a second confirmation conflicts", func(t *testing.T) {
		h := coretest.New(t)
		_, payment := h.Confirmed(t, 72*time.Hour)

		_, err := h.Payments.ConfirmPayment(coretest.Ctx(), payment.Provider, payment.ProviderIntentID)
		assert.True(t, exceptions.IsKind(err, exceptions.KindConflict))
	})
}

func TestCheckAndCancelPayment(t *testing.T) {
	t.Run("a capture that raced the deadline confirms instead of cancelling", func(t *testing.T) {
		h := coretest.New(t)
		session := h.Book(t, 72*time.Hour)
		intent, err := h.Payments.CreateIntent(coretest.Ctx(), coretest.Mentee(), session.ID, models.PaymentProviderCard)
		require.NoError(t, err)
		h.Card.Capture(intent.IntentID)

		h.RunJobsAt(coretest.Epoch.Add(30 * time.Minute))

		assert.Equal(t, models.SessionStatusConfirmed, h.Store.Session(session.ID).Status)
		assert.Equal(t, models.PaymentStatusCaptured, h.Store.Payment(intent.PaymentID).Status)
		assert.Empty(t, h.Card.Cancels)
	})

	t.Run("a webhook delivered during the deadline check waits for it and confirms once", func(t *testing.T) {
		h := coretest.New(t)
		session := h.Book(t, 72*time.Hour)
		intent, err := h.Payments.CreateIntent(coretest.Ctx(), coretest.Mentee(), session.ID, models.PaymentProviderCard)
		require.NoError(t, err)
		h.Card.Capture(intent.IntentID)
		payload := h.Card.CallbackPayload("evt-in-flight", intent.IntentID, models.PaymentStatusCaptured)

		var (
			wg         sync.WaitGroup
			once       sync.Once
			webhookErr error
		)
		h.Card.BeforeStatus = func(string) {
			once.Do(func() {
				wg.Add(1)
				go func() {
					defer wg.Done()
					webhookErr = h.Payments.HandleWebhook(coretest.Ctx(), models.PaymentProviderCard, payload, testutil.FakeWebhookSignature)
				}()
			})
		}

		require.NoError(t, h.Payments.CheckAndCancelPayment(coretest.Ctx(), intent.PaymentID))
		wg.Wait()
		require.NoError(t, webhookErr)

		assert.Equal(t, models.SessionStatusConfirmed, h.Store.Session(session.ID).Status)
		assert.Equal(t, models.PaymentStatusCaptured, h.Store.Payment(intent.PaymentID).Status)
		assert.Empty(t, h.Card.Cancels)
		assert.Len(t, h.Store.Jobs(models.JobSessionAutoComplete), 1)
	})

	t.Run("webhook and deadline racing in either order leave the session confirmed", func(t *testing.T) {
		for i := 0; i < 20; i++ {
			h := coretest.New(t)
			session := h.Book(t, 72*time.Hour)
			intent, err := h.Payments.CreateIntent(coretest.Ctx(), coretest.Mentee(), session.ID, models.PaymentProviderCard)
			require.NoError(t, err)
			h.Card.Capture(intent.IntentID)
			payload := h.Card.CallbackPayload("evt-race", intent.IntentID, models.PaymentStatusCaptured)

			start := make(chan struct{})
			errs := make([]error, 2)
			var wg sync.WaitGroup
			wg.Add(2)
			go func() {
				defer wg.Done()
				<-start
				errs[0] = h.Payments.HandleWebhook(coretest.Ctx(), models.PaymentProviderCard, payload, testutil.FakeWebhookSignature)
			}()
			go func() {
				defer wg.Done()
				<-start
				errs[1] = h.Payments.CheckAndCancelPayment(coretest.Ctx(), intent.PaymentID)
			}()
			close(start)
			wg.Wait()

			require.NoError(t, errs[0])
			require.NoError(t, errs[1])
			assert.Equal(t, models.SessionStatusConfirmed, h.Store.Session(session.ID).Status)
			assert.Equal(t, models.PaymentStatusCaptured, h.Store.Payment(intent.PaymentID).Status)
			assert.Empty(t, h.Card.Cancels)
		}
	})

	t.Run("a provider without void support still cancels locally", func(t *testing.T) {
		h := coretest.New(t)
		h.Wallet.CancelErr = paymentprovider.ErrCancelNotSupported
		session := h.Book(t, 72*time.Hour)
		intent, err := h.Payments.CreateIntent(coretest.Ctx(), coretest.Mentee(), session.ID, models.PaymentProviderWallet)
		require.NoError(t, err)

		require.NoError(t, h.Payments.CheckAndCancelPayment(coretest.Ctx(), intent.PaymentID))
		assert.Equal(t, models.PaymentStatusCanceled, h.Store.Payment(intent.PaymentID).Status)
		assert.Equal(t, models.SessionStatusCancelled, h.Store.Session(session.ID).Status)
	})

	t.Run("a provider outage is retried by the scheduler", func(t *testing.T) {
		h := coretest.New(t)
		session := h.Book(t, 72*time.Hour)
		intent, err := h.Payments.CreateIntent(coretest.Ctx(), coretest.Mentee(), session.ID, models.PaymentProviderCard)
		require.NoError(t, err)
		h.Card.StatusErr = errors.New("provider unavailable")

		deadline := coretest.Epoch.Add(30 * time.Minute)
		h.Clock.Set(deadline)
		h.Worker.RunDue(coretest.Ctx())

		assert.Equal(t, models.SessionStatusPending, h.Store.Session(session.ID).Status)
		job, ok := h.Store.PendingJob(models.JobPaymentCaptureTimeout, intent.PaymentID)
		require.True(t, ok)
		assert.Equal(t, 1, job.Attempts)
		assert.Equal(t, deadline.Add(60*time.Second), job.RunAt)
		assert.Contains(t, job.LastError, "provider unavailable")
	})
}

func TestRefundPayment(t *testing.T) {
	t.Run("partial refunds accumulate up to the full amount", func(t *testing.T) {
		h := coretest.New(t)
		_, payment := h.Confirmed(t, 72*time.Hour)

		refunded, err := h.Payments.RefundPayment(coretest.Ctx(), payment.ID, decimal.NewFromInt(30))
		require.NoError(t, err)
		testutil.AssertMoney(t, "15", refunded.RefundAmount)
		assert.Equal(t, models.PaymentStatusRefunded, refunded.Status)

		refunded, err = h.Payments.RefundPayment(coretest.Ctx(), payment.ID, decimal.NewFromInt(70))
		require.NoError(t, err)
		testutil.AssertMoney(t, "50", refunded.RefundAmount)
		testutil.AssertMoney(t, "100", refunded.RefundPercentage)
		assert.Equal(t, 2, h.Card.RefundCount())
		testutil.AssertMoney(t, "50", h.Card.RefundedTotal())

		_, err = h.Payments.RefundPayment(coretest.Ctx(), payment.ID, decimal.NewFromInt(10))
		assert.True(t, exceptions.IsKind(err, exceptions.KindConflict))
	})

	t.Run("a refund beyond what remains is refused", func(t *testing.T) {
		h := coretest.New(t)
		_, payment := h.Confirmed(t, 72*time.Hour)
		_, err := h.Payments.RefundPayment(coretest.Ctx(), payment.ID, decimal.NewFromInt(60))
		require.NoError(t, err)

		_, err = h.Payments.RefundPayment(coretest.Ctx(), payment.ID, decimal.NewFromInt(50))
		assert.True(t, exceptions.IsKind(err, exceptions.KindBusinessRule))
		testutil.AssertMoney(t, "30", h.Store.Payment(payment.ID).RefundAmount)
	})

	t.Run("percentages outside (0, 100] are invalid", func(t *testing.T) {
		h := coretest.New(t)
		_, payment := h.Confirmed(t, 72*time.Hour)

		for _, percentage := range []int64{0, -5, 101} {
			_, err := h.Payments.RefundPayment(coretest.Ctx(), payment.ID, decimal.NewFromInt(percentage))
			assert.True(t, exceptions.IsKind(err, exceptions.KindValidation), "percentage %d", percentage)
		}
	})

	t.Run("a provider failure rolls the refund back", func(t *testing.T) {
		h := coretest.New(t)
		_, payment := h.Confirmed(t, 72*time.Hour)
		h.Card.RefundErr = errors.New("refund rejected")

		_, err := h.Payments.RefundPayment(coretest.Ctx(), payment.ID, decimal.NewFromInt(100))
		assert.True(t, exceptions.IsKind(err, exceptions.KindPaymentProvider))
		stored := h.Store.Payment(payment.ID)
		assert.Equal(t, models.PaymentStatusCaptured, stored.Status)
		testutil.AssertMoney(t, "0", stored.RefundAmount)
	})

	t.Run("an uncaptured payment is not refundable", func(t *testing.T) {
		h := coretest.New(t)
		session := h.Book(t, 72*time.Hour)
		intent, err := h.Payments.CreateIntent(coretest.Ctx(), coretest.Mentee(), session.ID, models.PaymentProviderCard)
		require.NoError(t, err)

		_, err = h.Payments.RefundPayment(coretest.Ctx(), intent.PaymentID, decimal.NewFromInt(100))
		assert.True(t, exceptions.IsKind(err, exceptions.KindConflict))
	})
}

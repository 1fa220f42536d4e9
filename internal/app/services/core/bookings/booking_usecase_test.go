package bookings_test

import (
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/app/services/core/coretest"
	"mentorship-service/internal/pkg/dto/requests"
	"mentorship-service/internal/pkg/exceptions"
	"mentorship-service/internal/pkg/testutil"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookSession(t *testing.T) {
	t.Run("books a free slot and schedules the payment timeout", func(t *testing.T) {
		h := coretest.New(t)
		session := h.Book(t, 72*time.Hour)

		assert.Equal(t, models.SessionStatusPending, session.Status)
		testutil.AssertMoney(t, "50", session.Price)
		assert.Equal(t, "USD", session.Currency)
		assert.Equal(t, 30*time.Minute, session.EndTime.Sub(session.StartTime))

		slot := h.Store.Slot(*session.TimeSlotID)
		assert.True(t, slot.IsBooked)
		require.NotNil(t, slot.SessionID)
		assert.Equal(t, session.ID, *slot.SessionID)

		job, ok := h.Store.PendingJob(models.JobSessionPaymentTimeout, session.ID)
		require.True(t, ok)
		assert.Equal(t, coretest.Epoch.Add(15*time.Minute), job.RunAt)
	})

	t.Run("rejects a slot that is already booked", func(t *testing.T) {
		h := coretest.New(t)
		session := h.Book(t, 72*time.Hour)

		_, err := h.Bookings.BookSession(coretest.Ctx(), coretest.OtherID, *session.TimeSlotID)
		assert.True(t, exceptions.IsKind(err, exceptions.KindConflict))
	})

	t.Run("accepts a slot exactly at the advance notice and rejects one just inside it", func(t *testing.T) {
		h := coretest.New(t)
		atNotice := h.PublishSlot(t, 24*time.Hour)
		_, err := h.Bookings.BookSession(coretest.Ctx(), coretest.MenteeID, atNotice.ID)
		assert.NoError(t, err)

		tooSoon := h.PublishSlot(t, 23*time.Hour)
		_, err = h.Bookings.BookSession(coretest.Ctx(), coretest.OtherID, tooSoon.ID)
		assert.True(t, exceptions.IsKind(err, exceptions.KindConflict))
		assert.False(t, h.Store.Slot(tooSoon.ID).IsBooked)
	})

	t.Run("rejects a mentor booking their own slot", func(t *testing.T) {
		h := coretest.New(t)
		slot := h.PublishSlot(t, 72*time.Hour)

		_, err := h.Bookings.BookSession(coretest.Ctx(), coretest.MentorID, slot.ID)
		assert.True(t, exceptions.IsKind(err, exceptions.KindBusinessRule))
	})

	t.Run("rejects a mentee booking two overlapping sessions", func(t *testing.T) {
		h := coretest.New(t)
		first := h.Book(t, 72*time.Hour)

		secondMentor := "3e5a7c9b-2d4f-4a6b-8c0d-1e2f3a4b5c06"
		h.Store.SeedMentor(models.Mentor{ID: secondMentor, Rate30: decimal.NewFromInt(40), Rate60: decimal.NewFromInt(70), Currency: "USD"})
		slot, err := h.Slots.CreateSlot(coretest.Ctx(), coretest.Admin(), &requests.CreateSlot{
			MentorID:        secondMentor,
			StartTime:       first.StartTime.Add(15 * time.Minute),
			DurationMinutes: 30,
		})
		require.NoError(t, err)

		_, err = h.Bookings.BookSession(coretest.Ctx(), coretest.MenteeID, slot.ID)
		assert.True(t, exceptions.IsKind(err, exceptions.KindConflict))
		assert.False(t, h.Store.Slot(slot.ID).IsBooked)
	})

	t.Run("reports an unknown slot as not found", func(t *testing.T) {
		h := coretest.New(t)
		_, err := h.Bookings.BookSession(coretest.Ctx(), coretest.MenteeID, "6a1b2c3d-0000-4000-8000-000000000000")
		assert.True(t, exceptions.IsKind(err, exceptions.KindNotFound))
	})
}

func TestGetSession(t *testing.T) {
	h := coretest.New(t)
	session := h.Book(t, 72*time.Hour)

	got, err := h.Bookings.GetSession(coretest.Ctx(), coretest.Mentor(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)

	_, err = h.Bookings.GetSession(coretest.Ctx(), coretest.Other(), session.ID)
	assert.True(t, exceptions.IsKind(err, exceptions.KindUnauthorized))
}

func TestHandlePaymentTimeout(t *testing.T) {
	t.Run("cancels an unpaid session and frees its slot", func(t *testing.T) {
		h := coretest.New(t)
		session := h.Book(t, 72*time.Hour)
		slotID := *session.TimeSlotID

		h.RunJobsAt(coretest.Epoch.Add(15 * time.Minute))

		cancelled := h.Store.Session(session.ID)
		assert.Equal(t, models.SessionStatusCancelled, cancelled.Status)
		assert.Equal(t, models.CancellationReasonPaymentTimeout, cancelled.CancellationReason)
		assert.Nil(t, cancelled.TimeSlotID)
		assert.False(t, h.Store.Slot(slotID).IsBooked)
	})

	t.Run("leaves a session with an attached payment to the capture timeout", func(t *testing.T) {
		h := coretest.New(t)
		session := h.Book(t, 72*time.Hour)
		intent, err := h.Payments.CreateIntent(coretest.Ctx(), coretest.Mentee(), session.ID, models.PaymentProviderCard)
		require.NoError(t, err)

		h.RunJobsAt(coretest.Epoch.Add(15 * time.Minute))
		assert.Equal(t, models.SessionStatusPending, h.Store.Session(session.ID).Status)

		h.RunJobsAt(coretest.Epoch.Add(30 * time.Minute))
		assert.Equal(t, models.SessionStatusCancelled, h.Store.Session(session.ID).Status)
		assert.Equal(t, models.PaymentStatusCanceled, h.Store.Payment(intent.PaymentID).Status)
		assert.Equal(t, []string{intent.IntentID}, h.Card.Cancels)
		assert.False(t, h.Store.Slot(*session.TimeSlotID).IsBooked)
	})
}

func TestCompleteSession(t *testing.T) {
	t.Run("requires the session to have ended", func(t *testing.T) {
		h := coretest.New(t)
		session, _ := h.Confirmed(t, 72*time.Hour)

		_, err := h.Bookings.CompleteSession(coretest.Ctx(), coretest.Mentor(), session.ID)
		assert.True(t, exceptions.IsKind(err, exceptions.KindBusinessRule))
	})

	t.Run("only the mentor or an admin may complete", func(t *testing.T) {
		h := coretest.New(t)
		session, _ := h.Confirmed(t, 72*time.Hour)
		h.Clock.Set(session.EndTime)

		_, err := h.Bookings.CompleteSession(coretest.Ctx(), coretest.Mentee(), session.ID)
		assert.True(t, exceptions.IsKind(err, exceptions.KindUnauthorized))
	})

	t.Run("credits the mentor share to pending and schedules its release", func(t *testing.T) {
		h := coretest.New(t)
		session, payment := h.Confirmed(t, 72*time.Hour)
		h.Clock.Set(session.EndTime)

		completed, err := h.Bookings.CompleteSession(coretest.Ctx(), coretest.Mentor(), session.ID)
		require.NoError(t, err)
		assert.Equal(t, models.SessionStatusCompleted, completed.Status)
		require.NotNil(t, completed.CompletedAt)

		balance := h.Store.Balance(coretest.MentorID)
		testutil.AssertMoney(t, "42.50", balance.PendingBalance)
		testutil.AssertMoney(t, "0", balance.AvailableBalance)
		testutil.AssertMoney(t, "42.50", balance.TotalEarnings)

		job, ok := h.Store.PendingJob(models.JobBalanceRelease, payment.ID)
		require.True(t, ok)
		assert.Equal(t, session.EndTime.Add(72*time.Hour), job.RunAt)
	})

	t.Run("rejects a session that was never confirmed", func(t *testing.T) {
		h := coretest.New(t)
		session := h.Book(t, 72*time.Hour)
		h.Clock.Set(session.EndTime)

		_, err := h.Bookings.CompleteSession(coretest.Ctx(), coretest.Admin(), session.ID)
		assert.True(t, exceptions.IsKind(err, exceptions.KindConflict))
	})
}

func TestHandleAutoComplete(t *testing.T) {
	t.Run("completes a confirmed session after the grace period", func(t *testing.T) {
		h := coretest.New(t)
		session, _ := h.Completed(t)
		assert.Equal(t, models.SessionStatusCompleted, session.Status)
	})

	t.Run("defers while a reschedule is pending", func(t *testing.T) {
		h := coretest.New(t)
		session, _ := h.Confirmed(t, 72*time.Hour)
		_, err := h.Reschedules.RequestReschedule(coretest.Ctx(), coretest.Mentee(), session.ID, session.StartTime.Add(48*time.Hour), "travel")
		require.NoError(t, err)

		// Run only the auto-complete job at its original time.
		err = h.Bookings.HandleAutoComplete(coretest.Ctx(), session.ID)
		require.NoError(t, err)

		assert.Equal(t, models.SessionStatusPendingReschedule, h.Store.Session(session.ID).Status)
		deferred := 0
		for _, job := range h.Store.Jobs(models.JobSessionAutoComplete) {
			if job.EntityID == session.ID && job.Status == models.JobStatusPending {
				deferred++
			}
		}
		assert.Equal(t, 2, deferred)
	})
}

package cancellations_test

import (
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/app/services/core/coretest"
	"mentorship-service/internal/pkg/constvars"
	"mentorship-service/internal/pkg/exceptions"
	"mentorship-service/internal/pkg/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCancelSessionRefundTiers(t *testing.T) {
	tests := []struct {
		name           string
		untilStart     time.Duration
		percentage     string
		amount         string
		hours          string
		status         models.RefundStatus
		providerRefund bool
	}{
		{"full refund at 48 hours", 48 * time.Hour, "100", "50", "48", models.RefundStatusProcessed, true},
		{"partial refund at 24 hours", 24 * time.Hour, "50", "25", "24", models.RefundStatusProcessed, true},
		{"no refund inside 24 hours", 23*time.Hour + 59*time.Minute, "0", "0", "23.98", models.RefundStatusNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := coretest.New(t)
			session, payment := h.Confirmed(t, 72*time.Hour)
			h.Clock.Set(session.StartTime.Add(-tt.untilStart))

			record, err := h.Cancellations.CancelSession(coretest.Ctx(), coretest.Mentee(), session.ID, "schedule clash")
			require.NoError(t, err)

			testutil.AssertMoney(t, tt.percentage, record.RefundPercentage)
			testutil.AssertMoney(t, tt.amount, record.RefundAmount)
			testutil.AssertMoney(t, tt.hours, record.HoursUntilStart)
			assert.Equal(t, tt.status, record.RefundStatus)
			assert.Equal(t, models.ActorRoleMentee, record.CancelledBy)

			stored := h.Store.Payment(payment.ID)
			if tt.providerRefund {
				assert.Equal(t, 1, h.Card.RefundCount())
				testutil.AssertMoney(t, tt.amount, h.Card.RefundedTotal())
				assert.Equal(t, models.PaymentStatusRefunded, stored.Status)
				testutil.AssertMoney(t, tt.amount, stored.RefundAmount)
			} else {
				assert.Zero(t, h.Card.RefundCount())
				assert.Equal(t, models.PaymentStatusCaptured, stored.Status)
			}

			cancelled := h.Store.Session(session.ID)
			assert.Equal(t, models.SessionStatusCancelled, cancelled.Status)
			assert.Equal(t, "schedule clash", cancelled.CancellationReason)
			assert.False(t, h.Store.Slot(*session.TimeSlotID).IsBooked)
			assert.Len(t, h.Store.CancelRecords(), 1)
			assert.True(t, testutil.HasSubject(h.Notifications.Subjects(), constvars.EmailSubjectSessionCancelled))
		})
	}
}

func TestCancelSession(t *testing.T) {
	t.Run("an unpaid session cancels without a refund", func(t *testing.T) {
		h := coretest.New(t)
		session := h.Book(t, 72*time.Hour)

		record, err := h.Cancellations.CancelSession(coretest.Ctx(), coretest.Mentor(), session.ID, "unavailable")
		require.NoError(t, err)
		assert.Equal(t, models.RefundStatusNone, record.RefundStatus)
		testutil.AssertMoney(t, "0", record.RefundAmount)
		assert.Equal(t, models.ActorRoleMentor, record.CancelledBy)
		assert.False(t, h.Store.Slot(*session.TimeSlotID).IsBooked)
	})

	t.Run("the freed slot can be booked again", func(t *testing.T) {
		h := coretest.New(t)
		session, _ := h.Confirmed(t, 72*time.Hour)
		_, err := h.Cancellations.CancelSession(coretest.Ctx(), coretest.Mentee(), session.ID, "")
		require.NoError(t, err)

		rebooked, err := h.Bookings.BookSession(coretest.Ctx(), coretest.OtherID, *session.TimeSlotID)
		require.NoError(t, err)
		assert.Equal(t, models.SessionStatusPending, rebooked.Status)
	})

	t.Run("a completed session cannot be cancelled", func(t *testing.T) {
		h := coretest.New(t)
		session, _ := h.Completed(t)

		_, err := h.Cancellations.CancelSession(coretest.Ctx(), coretest.Mentee(), session.ID, "")
		assert.True(t, exceptions.IsKind(err, exceptions.KindBusinessRule))
	})

	t.Run("a cancelled session cannot be cancelled twice", func(t *testing.T) {
		h := coretest.New(t)
		session := h.Book(t, 72*time.Hour)
		_, err := h.Cancellations.CancelSession(coretest.Ctx(), coretest.Mentee(), session.ID, "")
		require.NoError(t, err)

		_, err = h.Cancellations.CancelSession(coretest.Ctx(), coretest.Mentee(), session.ID, "")
		assert.True(t, exceptions.IsKind(err, exceptions.KindConflict))
		assert.Len(t, h.Store.CancelRecords(), 1)
	})

	t.Run("outsiders cannot cancel", func(t *testing.T) {
		h := coretest.New(t)
		session := h.Book(t, 72*time.Hour)

		_, err := h.Cancellations.CancelSession(coretest.Ctx(), coretest.Other(), session.ID, "")
		assert.True(t, exceptions.IsKind(err, exceptions.KindUnauthorized))
		assert.Equal(t, models.SessionStatusPending, h.Store.Session(session.ID).Status)
	})

	t.Run("a pending reschedule is withdrawn", func(t *testing.T) {
		h := coretest.New(t)
		session, _ := h.Confirmed(t, 72*time.Hour)
		request, err := h.Reschedules.RequestReschedule(coretest.Ctx(), coretest.Mentee(), session.ID, session.StartTime.Add(24*time.Hour), "")
		require.NoError(t, err)

		_, err = h.Cancellations.CancelSession(coretest.Ctx(), coretest.Mentor(), session.ID, "leaving")
		require.NoError(t, err)

		withdrawn := h.Store.Reschedule(request.ID)
		assert.Equal(t, models.RescheduleStatusRejected, withdrawn.Status)
		require.NotNil(t, withdrawn.ResolvedByID)
		assert.Equal(t, coretest.MentorID, *withdrawn.ResolvedByID)
		assert.Equal(t, models.SessionStatusCancelled, h.Store.Session(session.ID).Status)
	})

	t.Run("a provider refund failure rolls the cancellation back", func(t *testing.T) {
		h := coretest.New(t)
		session, _ := h.Confirmed(t, 72*time.Hour)
		h.Card.RefundFail = true

		_, err := h.Cancellations.CancelSession(coretest.Ctx(), coretest.Mentee(), session.ID, "")
		assert.True(t, exceptions.IsKind(err, exceptions.KindPaymentProvider))
		assert.Equal(t, models.SessionStatusConfirmed, h.Store.Session(session.ID).Status)
		assert.True(t, h.Store.Slot(*session.TimeSlotID).IsBooked)
		assert.Empty(t, h.Store.CancelRecords())
	})
}

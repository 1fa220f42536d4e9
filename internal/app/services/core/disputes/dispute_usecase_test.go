package disputes_test

import (
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/app/services/core/coretest"
	"mentorship-service/internal/pkg/constvars"
	"mentorship-service/internal/pkg/exceptions"
	"mentorship-service/internal/pkg/testutil"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var receipt = models.EvidenceFile{
	FileName:    "receipt.png",
	ContentType: "image/png",
	Content:     []byte("png-bytes"),
}

func TestCreateDispute(t *testing.T) {
	t.Run("opens a dispute and uploads its evidence", func(t *testing.T) {
		h := coretest.New(t)
		session, _ := h.Completed(t)

		dispute, err := h.Disputes.CreateDispute(coretest.Ctx(), coretest.Mentee(), session.ID, "mentor left early", []models.EvidenceFile{receipt})
		require.NoError(t, err)
		assert.Equal(t, models.DisputeStatusPending, dispute.Status)
		assert.Equal(t, []string{"disputes/" + dispute.ID + "/receipt.png"}, dispute.EvidenceKeys)
		assert.Contains(t, h.Evidence.Objects, dispute.EvidenceKeys[0])
		assert.True(t, testutil.HasSubject(h.Notifications.Subjects(), constvars.EmailSubjectDisputeOpened))
	})

	t.Run("the window closes days after completion", func(t *testing.T) {
		h := coretest.New(t)
		session, _ := h.Completed(t)

		h.Clock.Set(session.CompletedAt.Add(72 * time.Hour))
		_, err := h.Disputes.CreateDispute(coretest.Ctx(), coretest.Mentee(), session.ID, "late", nil)
		require.NoError(t, err)

		other, _ := h.Completed(t)
		h.Clock.Set(other.CompletedAt.Add(72*time.Hour + time.Second))
		_, err = h.Disputes.CreateDispute(coretest.Ctx(), coretest.Mentee(), other.ID, "too late", nil)
		assert.True(t, exceptions.IsKind(err, exceptions.KindBusinessRule))
	})

	t.Run("only completed sessions can be disputed", func(t *testing.T) {
		h := coretest.New(t)
		session, _ := h.Confirmed(t, 72*time.Hour)

		_, err := h.Disputes.CreateDispute(coretest.Ctx(), coretest.Mentee(), session.ID, "no show", nil)
		assert.True(t, exceptions.IsKind(err, exceptions.KindBusinessRule))
	})

	t.Run("one dispute per session", func(t *testing.T) {
		h := coretest.New(t)
		session, _ := h.Completed(t)
		_, err := h.Disputes.CreateDispute(coretest.Ctx(), coretest.Mentee(), session.ID, "first", nil)
		require.NoError(t, err)

		_, err = h.Disputes.CreateDispute(coretest.Ctx(), coretest.Mentee(), session.ID, "second", nil)
		assert.True(t, exceptions.IsKind(err, exceptions.KindConflict))
	})

	t.Run("only the mentee may dispute", func(t *testing.T) {
		h := coretest.New(t)
		session, _ := h.Completed(t)

		_, err := h.Disputes.CreateDispute(coretest.Ctx(), coretest.Mentor(), session.ID, "", nil)
		assert.True(t, exceptions.IsKind(err, exceptions.KindUnauthorized))
	})

	t.Run("rejects oversized evidence before touching storage", func(t *testing.T) {
		h := coretest.New(t)
		session, _ := h.Completed(t)
		large := models.EvidenceFile{FileName: "call.mp4", ContentType: "video/mp4", Size: 2 * 1024 * 1024}

		_, err := h.Disputes.CreateDispute(coretest.Ctx(), coretest.Mentee(), session.ID, "", []models.EvidenceFile{large})
		assert.True(t, exceptions.IsKind(err, exceptions.KindValidation))
		assert.Empty(t, h.Evidence.Objects)
	})
}

func TestResolveDispute(t *testing.T) {
	t.Run("a refund before release comes out of pending", func(t *testing.T) {
		h := coretest.New(t)
		session, payment := h.Completed(t)
		dispute, err := h.Disputes.CreateDispute(coretest.Ctx(), coretest.Mentee(), session.ID, "half the session", nil)
		require.NoError(t, err)

		resolved, err := h.Disputes.ResolveDispute(coretest.Ctx(), coretest.AdminID, dispute.ID, models.DisputeDecisionRefund, "partial refund", decimal.NewFromInt(20))
		require.NoError(t, err)
		assert.Equal(t, models.DisputeStatusResolved, resolved.Status)
		assert.Equal(t, models.BalanceBucketPending, resolved.DeductedFrom)
		testutil.AssertMoney(t, "17", resolved.BalanceDeduction)

		balance := h.Store.Balance(coretest.MentorID)
		testutil.AssertMoney(t, "25.50", balance.PendingBalance)
		testutil.AssertMoney(t, "25.50", balance.TotalEarnings)

		refunded := h.Store.Payment(payment.ID)
		assert.Equal(t, models.PaymentStatusRefunded, refunded.Status)
		testutil.AssertMoney(t, "20", refunded.RefundAmount)
		testutil.AssertMoney(t, "40", refunded.RefundPercentage)
		testutil.AssertMoney(t, "20", h.Card.RefundedTotal())

		h.RunJobsAt(session.CompletedAt.Add(72 * time.Hour))
		balance = h.Store.Balance(coretest.MentorID)
		testutil.AssertMoney(t, "0", balance.PendingBalance)
		testutil.AssertMoney(t, "25.50", balance.AvailableBalance)
	})

	t.Run("a refund after release comes out of available", func(t *testing.T) {
		h := coretest.New(t)
		session, _ := h.Completed(t)
		h.RunJobsAt(session.CompletedAt.Add(72 * time.Hour))
		dispute, err := h.Disputes.CreateDispute(coretest.Ctx(), coretest.Mentee(), session.ID, "poor audio", nil)
		require.NoError(t, err)

		resolved, err := h.Disputes.ResolveDispute(coretest.Ctx(), coretest.AdminID, dispute.ID, models.DisputeDecisionRefund, "", decimal.NewFromInt(20))
		require.NoError(t, err)
		assert.Equal(t, models.BalanceBucketAvailable, resolved.DeductedFrom)
		testutil.AssertMoney(t, "25.50", h.Store.Balance(coretest.MentorID).AvailableBalance)
	})

	t.Run("an available balance that cannot cover the share is left alone", func(t *testing.T) {
		h := coretest.New(t)
		session, payment := h.Completed(t)
		h.RunJobsAt(session.CompletedAt.Add(72 * time.Hour))
		_, err := h.Balances.RequestPayout(coretest.Ctx(), coretest.MentorID, decimal.NewFromInt(40))
		require.NoError(t, err)
		dispute, err := h.Disputes.CreateDispute(coretest.Ctx(), coretest.Mentee(), session.ID, "", nil)
		require.NoError(t, err)

		resolved, err := h.Disputes.ResolveDispute(coretest.Ctx(), coretest.AdminID, dispute.ID, models.DisputeDecisionRefund, "", decimal.NewFromInt(20))
		require.NoError(t, err)
		assert.Equal(t, models.BalanceBucketNone, resolved.DeductedFrom)
		testutil.AssertMoney(t, "0", resolved.BalanceDeduction)
		testutil.AssertMoney(t, "2.50", h.Store.Balance(coretest.MentorID).AvailableBalance)
		testutil.AssertMoney(t, "20", h.Store.Payment(payment.ID).RefundAmount)
	})

	t.Run("a rejection refunds nothing", func(t *testing.T) {
		h := coretest.New(t)
		session, _ := h.Completed(t)
		dispute, err := h.Disputes.CreateDispute(coretest.Ctx(), coretest.Mentee(), session.ID, "", nil)
		require.NoError(t, err)

		resolved, err := h.Disputes.ResolveDispute(coretest.Ctx(), coretest.AdminID, dispute.ID, models.DisputeDecisionReject, "no evidence", decimal.NewFromInt(20))
		require.NoError(t, err)
		assert.Equal(t, models.DisputeStatusRejected, resolved.Status)
		assert.Zero(t, h.Card.RefundCount())
		testutil.AssertMoney(t, "42.50", h.Store.Balance(coretest.MentorID).PendingBalance)
		assert.True(t, testutil.HasSubject(h.Notifications.Subjects(), constvars.EmailSubjectDisputeResolved))

		_, err = h.Disputes.ResolveDispute(coretest.Ctx(), coretest.AdminID, dispute.ID, models.DisputeDecisionRefund, "", decimal.NewFromInt(20))
		assert.True(t, exceptions.IsKind(err, exceptions.KindBusinessRule))
	})

	t.Run("a refund decision with no amount resolves without a refund", func(t *testing.T) {
		h := coretest.New(t)
		session, _ := h.Completed(t)
		dispute, err := h.Disputes.CreateDispute(coretest.Ctx(), coretest.Mentee(), session.ID, "", nil)
		require.NoError(t, err)

		resolved, err := h.Disputes.ResolveDispute(coretest.Ctx(), coretest.AdminID, dispute.ID, models.DisputeDecisionRefund, "apology sent", decimal.Zero)
		require.NoError(t, err)
		assert.Equal(t, models.DisputeStatusResolved, resolved.Status)
		assert.Zero(t, h.Card.RefundCount())
	})

	t.Run("the refund cannot exceed the payment", func(t *testing.T) {
		h := coretest.New(t)
		session, _ := h.Completed(t)
		dispute, err := h.Disputes.CreateDispute(coretest.Ctx(), coretest.Mentee(), session.ID, "", nil)
		require.NoError(t, err)

		_, err = h.Disputes.ResolveDispute(coretest.Ctx(), coretest.AdminID, dispute.ID, models.DisputeDecisionRefund, "", decimal.NewFromInt(60))
		assert.True(t, exceptions.IsKind(err, exceptions.KindBusinessRule))
		assert.Equal(t, models.DisputeStatusPending, h.Store.Dispute(dispute.ID).Status)
		testutil.AssertMoney(t, "42.50", h.Store.Balance(coretest.MentorID).PendingBalance)
	})
}

func TestGetEvidenceURL(t *testing.T) {
	h := coretest.New(t)
	session, _ := h.Completed(t)
	dispute, err := h.Disputes.CreateDispute(coretest.Ctx(), coretest.Mentee(), session.ID, "", []models.EvidenceFile{receipt})
	require.NoError(t, err)
	key := dispute.EvidenceKeys[0]

	url, err := h.Disputes.GetEvidenceURL(coretest.Ctx(), coretest.Mentor(), dispute.ID, key)
	require.NoError(t, err)
	assert.Equal(t, "https://evidence.test/"+key+"?expires=1800", url)

	_, err = h.Disputes.GetEvidenceURL(coretest.Ctx(), coretest.Other(), dispute.ID, key)
	assert.True(t, exceptions.IsKind(err, exceptions.KindUnauthorized))

	_, err = h.Disputes.GetEvidenceURL(coretest.Ctx(), coretest.Admin(), dispute.ID, "disputes/other/file.png")
	assert.True(t, exceptions.IsKind(err, exceptions.KindNotFound))
}

package balances

import (
	"context"
	"fmt"
	"mentorship-service/internal/app/config"
	"mentorship-service/internal/app/contracts"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/pkg/constvars"
	"mentorship-service/internal/pkg/exceptions"
	"mentorship-service/internal/pkg/utils"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type balanceUsecase struct {
	UnitOfWork          contracts.UnitOfWork
	Scheduler           contracts.Scheduler
	PayoutGateway       contracts.PayoutGateway
	NotificationService contracts.NotificationService
	Clock               contracts.Clock
	InternalConfig      *config.InternalConfig
	Log                 *zap.Logger
}

func NewBalanceUsecase(
	unitOfWork contracts.UnitOfWork,
	scheduler contracts.Scheduler,
	payoutGateway contracts.PayoutGateway,
	notificationService contracts.NotificationService,
	clock contracts.Clock,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.BalanceUsecase {
	return &balanceUsecase{
		UnitOfWork:          unitOfWork,
		Scheduler:           scheduler,
		PayoutGateway:       payoutGateway,
		NotificationService: notificationService,
		Clock:               clock,
		InternalConfig:      internalConfig,
		Log:                 logger,
	}
}

func (uc *balanceUsecase) InitializeBalance(ctx context.Context, mentorID string) error {
	requestID := utils.RequestIDFromContext(ctx)
	created, err := uc.UnitOfWork.Store().Balances().CreateIfAbsent(ctx, mentorID, uc.Clock.Now())
	if err != nil {
		uc.Log.Error("balanceUsecase.InitializeBalance failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingMentorIDKey, mentorID),
			zap.Error(err),
		)
		return err
	}
	uc.Log.Info("balanceUsecase.InitializeBalance succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingMentorIDKey, mentorID),
		zap.Bool("created", created),
	)
	return nil
}

func (uc *balanceUsecase) GetBalance(ctx context.Context, mentorID string) (*models.MentorBalance, error) {
	balance, err := uc.UnitOfWork.Store().Balances().FindByMentorID(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	if balance == nil {
		return nil, exceptions.ErrBalanceNotFound(mentorID)
	}
	return balance, nil
}

// OnSessionCompleted credits the mentor's share of what the mentee kept paid to pending and
// schedules its release after the holding period. Crediting twice is a no-op.
func (uc *balanceUsecase) OnSessionCompleted(ctx context.Context, tx contracts.Store, sessionID string) error {
	requestID := utils.RequestIDFromContext(ctx)
	session, err := tx.Sessions().FindByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return exceptions.ErrSessionNotFound(sessionID)
	}
	if session.PaymentID == nil {
		return exceptions.ErrPaymentNotFound("")
	}
	payment, err := tx.Payments().FindByIDForUpdate(ctx, *session.PaymentID)
	if err != nil {
		return err
	}
	if payment == nil {
		return exceptions.ErrPaymentNotFound(*session.PaymentID)
	}
	if payment.MentorAmount.IsPositive() {
		return nil
	}
	kept := payment.Amount.Sub(payment.RefundAmount)
	if !kept.IsPositive() {
		uc.Log.Info("balanceUsecase.OnSessionCompleted payment fully refunded, nothing to credit",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, payment.ID),
		)
		return nil
	}

	now := uc.Clock.Now()
	balance, err := uc.lockBalance(ctx, tx, session.MentorID, now, true)
	if err != nil {
		return err
	}

	amount := payment.MentorShare(kept)
	balance.PendingBalance = balance.PendingBalance.Add(amount)
	balance.TotalEarnings = balance.TotalEarnings.Add(amount)
	balance.SetUpdatedAt(now)
	if err := tx.Balances().Update(ctx, balance); err != nil {
		return err
	}

	holding := time.Duration(uc.InternalConfig.Balance.HoldingPeriodInDays) * 24 * time.Hour
	releaseAt := now.Add(holding)
	payment.MentorAmount = amount
	payment.ReleaseAt = &releaseAt
	payment.SetUpdatedAt(now)
	if err := tx.Payments().Update(ctx, payment); err != nil {
		return err
	}

	utils.LogBusinessEvent(uc.Log, "mentor_earnings_pending", requestID,
		zap.String(constvars.LoggingMentorIDKey, session.MentorID),
		zap.String(constvars.LoggingPaymentIDKey, payment.ID),
		zap.String(constvars.LoggingAmountKey, amount.String()),
	)
	return uc.Scheduler.ScheduleOnce(ctx, tx, models.JobBalanceRelease, payment.ID, holding)
}

// DeductForRefund takes the mentor's share of refundAmount back from the balance. Unreleased
// earnings come out of pending. Released earnings come out of available only when it covers
// the whole share; otherwise nothing is deducted.
func (uc *balanceUsecase) DeductForRefund(ctx context.Context, tx contracts.Store, payment *models.Payment, refundAmount decimal.Decimal) (decimal.Decimal, models.BalanceBucket, error) {
	requestID := utils.RequestIDFromContext(ctx)
	if !payment.MentorAmount.IsPositive() || !refundAmount.IsPositive() {
		return decimal.Zero, models.BalanceBucketNone, nil
	}

	session, err := tx.Sessions().FindByID(ctx, payment.SessionID)
	if err != nil {
		return decimal.Zero, models.BalanceBucketNone, err
	}
	if session == nil {
		return decimal.Zero, models.BalanceBucketNone, exceptions.ErrSessionNotFound(payment.SessionID)
	}

	now := uc.Clock.Now()
	balance, err := uc.lockBalance(ctx, tx, session.MentorID, now, false)
	if err != nil {
		return decimal.Zero, models.BalanceBucketNone, err
	}

	share := payment.MentorShare(refundAmount)
	bucket := models.BalanceBucketPending
	if payment.IsReleasedToMentor() {
		if balance.AvailableBalance.LessThan(share) {
			uc.Log.Warn("balanceUsecase.DeductForRefund available balance cannot cover refund",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingMentorIDKey, session.MentorID),
				zap.String(constvars.LoggingAmountKey, share.String()),
			)
			return decimal.Zero, models.BalanceBucketNone, nil
		}
		bucket = models.BalanceBucketAvailable
		balance.AvailableBalance = balance.AvailableBalance.Sub(share)
	} else {
		if unreleased := payment.UnreleasedMentorAmount(); share.GreaterThan(unreleased) {
			share = unreleased
		}
		if share.GreaterThan(balance.PendingBalance) {
			share = balance.PendingBalance
		}
		if !share.IsPositive() {
			return decimal.Zero, models.BalanceBucketNone, nil
		}
		balance.PendingBalance = balance.PendingBalance.Sub(share)
	}
	balance.TotalEarnings = balance.TotalEarnings.Sub(share)
	balance.SetUpdatedAt(now)
	if err := tx.Balances().Update(ctx, balance); err != nil {
		return decimal.Zero, models.BalanceBucketNone, err
	}

	// The caller persists the payment together with its refund.
	payment.MentorDeduction = payment.MentorDeduction.Add(share)

	utils.LogBusinessEvent(uc.Log, "mentor_balance_deducted", requestID,
		zap.String(constvars.LoggingMentorIDKey, session.MentorID),
		zap.String(constvars.LoggingPaymentIDKey, payment.ID),
		zap.String(constvars.LoggingAmountKey, share.String()),
		zap.String(constvars.LoggingBalanceBucketKey, string(bucket)),
	)
	return share, bucket, nil
}

// ReleaseFunds moves a payment's remaining mentor share from pending to available. While a
// dispute on the session is open the release is postponed.
func (uc *balanceUsecase) ReleaseFunds(ctx context.Context, paymentID string) error {
	requestID := utils.RequestIDFromContext(ctx)
	uc.Log.Info("balanceUsecase.ReleaseFunds called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentIDKey, paymentID),
	)

	retry := time.Duration(uc.InternalConfig.Balance.ReleaseRetryInHours) * time.Hour
	return uc.UnitOfWork.WithinTransaction(ctx, func(ctx context.Context, tx contracts.Store) error {
		payment, err := tx.Payments().FindByIDForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if payment == nil || payment.IsReleasedToMentor() || !payment.MentorAmount.IsPositive() {
			return nil
		}

		now := uc.Clock.Now()
		if payment.ReleaseAt != nil && now.Before(*payment.ReleaseAt) {
			return uc.Scheduler.ScheduleOnce(ctx, tx, models.JobBalanceRelease, paymentID, payment.ReleaseAt.Sub(now))
		}

		dispute, err := tx.Disputes().FindBySessionID(ctx, payment.SessionID)
		if err != nil {
			return err
		}
		if dispute != nil && dispute.Status == models.DisputeStatusPending {
			uc.Log.Info("balanceUsecase.ReleaseFunds postponed by open dispute",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingDisputeIDKey, dispute.ID),
			)
			return uc.Scheduler.ScheduleOnce(ctx, tx, models.JobBalanceRelease, paymentID, retry)
		}

		session, err := tx.Sessions().FindByID(ctx, payment.SessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return exceptions.ErrSessionNotFound(payment.SessionID)
		}
		balance, err := uc.lockBalance(ctx, tx, session.MentorID, now, false)
		if err != nil {
			return err
		}

		amount := payment.UnreleasedMentorAmount()
		if amount.GreaterThan(balance.PendingBalance) {
			amount = balance.PendingBalance
		}
		balance.PendingBalance = balance.PendingBalance.Sub(amount)
		balance.AvailableBalance = balance.AvailableBalance.Add(amount)
		balance.SetUpdatedAt(now)
		if err := tx.Balances().Update(ctx, balance); err != nil {
			return err
		}

		payment.ReleasedAt = &now
		payment.SetUpdatedAt(now)
		if err := tx.Payments().Update(ctx, payment); err != nil {
			return err
		}

		utils.LogBusinessEvent(uc.Log, "mentor_funds_released", requestID,
			zap.String(constvars.LoggingMentorIDKey, session.MentorID),
			zap.String(constvars.LoggingPaymentIDKey, paymentID),
			zap.String(constvars.LoggingAmountKey, amount.String()),
		)
		return nil
	})
}

func (uc *balanceUsecase) RequestPayout(ctx context.Context, mentorID string, amount decimal.Decimal) (*models.Payout, error) {
	requestID := utils.RequestIDFromContext(ctx)
	uc.Log.Info("balanceUsecase.RequestPayout called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingMentorIDKey, mentorID),
		zap.String(constvars.LoggingAmountKey, amount.String()),
	)

	if !amount.IsPositive() {
		return nil, exceptions.ErrInvalidAmount("payout amount", amount.String())
	}
	amount = utils.RoundMoney(amount)

	var payout *models.Payout
	err := uc.UnitOfWork.WithinTransaction(ctx, func(ctx context.Context, tx contracts.Store) error {
		balance, err := tx.Balances().FindByMentorIDForUpdate(ctx, mentorID)
		if err != nil {
			return err
		}
		if balance == nil {
			return exceptions.ErrBalanceNotFound(mentorID)
		}
		if amount.GreaterThan(balance.AvailableBalance) {
			return exceptions.ErrInsufficientBalance(mentorID, amount.String(), balance.AvailableBalance.String())
		}

		now := uc.Clock.Now()
		balance.AvailableBalance = balance.AvailableBalance.Sub(amount)
		balance.SetUpdatedAt(now)
		if err := tx.Balances().Update(ctx, balance); err != nil {
			return err
		}

		payout = &models.Payout{
			ID:       utils.GenerateID(),
			MentorID: mentorID,
			Amount:   amount,
			Status:   models.PayoutStatusPending,
		}
		payout.SetCreatedAtUpdatedAt(now)
		return tx.Payouts().Create(ctx, payout)
	})
	if err != nil {
		uc.Log.Error("balanceUsecase.RequestPayout failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingMentorIDKey, mentorID),
			zap.Error(err),
		)
		return nil, err
	}

	utils.LogBusinessEvent(uc.Log, "payout_requested", requestID,
		zap.String(constvars.LoggingPayoutIDKey, payout.ID),
		zap.String(constvars.LoggingAmountKey, amount.String()),
	)
	return payout, nil
}

func (uc *balanceUsecase) ListPayouts(ctx context.Context, mentorID string) ([]models.Payout, error) {
	return uc.UnitOfWork.Store().Payouts().FindByMentorID(ctx, mentorID)
}

// ProcessPayout disburses a pending payout. The gateway call happens between two commits:
// the payout is marked processing first, then settled as completed or failed. A failed
// payout returns its amount to the available balance in the same commit.
func (uc *balanceUsecase) ProcessPayout(ctx context.Context, payoutID string) (*models.Payout, error) {
	requestID := utils.RequestIDFromContext(ctx)
	uc.Log.Info("balanceUsecase.ProcessPayout called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPayoutIDKey, payoutID),
	)

	var payout *models.Payout
	err := uc.UnitOfWork.WithinTransaction(ctx, func(ctx context.Context, tx contracts.Store) error {
		var err error
		payout, err = tx.Payouts().FindByIDForUpdate(ctx, payoutID)
		if err != nil {
			return err
		}
		if payout == nil {
			return exceptions.ErrPayoutNotFound(payoutID)
		}
		if payout.Status != models.PayoutStatusPending {
			return exceptions.ErrPayoutState(payoutID, string(payout.Status))
		}
		payout.Status = models.PayoutStatusProcessing
		payout.SetUpdatedAt(uc.Clock.Now())
		return tx.Payouts().Update(ctx, payout)
	})
	if err != nil {
		uc.Log.Error("balanceUsecase.ProcessPayout failed to claim payout",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPayoutIDKey, payoutID),
			zap.Error(err),
		)
		return nil, err
	}

	reference, disburseErr := uc.PayoutGateway.Disburse(ctx, payout)
	if disburseErr != nil {
		uc.Log.Error("balanceUsecase.ProcessPayout disbursement failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPayoutIDKey, payoutID),
			zap.Error(disburseErr),
		)
	}

	err = uc.UnitOfWork.WithinTransaction(ctx, func(ctx context.Context, tx contracts.Store) error {
		var err error
		payout, err = tx.Payouts().FindByIDForUpdate(ctx, payoutID)
		if err != nil {
			return err
		}
		if payout == nil {
			return exceptions.ErrPayoutNotFound(payoutID)
		}
		if payout.Status != models.PayoutStatusProcessing {
			return exceptions.ErrPayoutState(payoutID, string(payout.Status))
		}

		now := uc.Clock.Now()
		payout.ProcessedAt = &now
		payout.SetUpdatedAt(now)
		if disburseErr == nil {
			payout.Status = models.PayoutStatusCompleted
			payout.ProviderReference = reference
			return tx.Payouts().Update(ctx, payout)
		}

		payout.Status = models.PayoutStatusFailed
		payout.FailureReason = disburseErr.Error()
		if err := tx.Payouts().Update(ctx, payout); err != nil {
			return err
		}
		return uc.restore(ctx, tx, payout, now)
	})
	if err != nil {
		uc.Log.Error("balanceUsecase.ProcessPayout failed to settle payout",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPayoutIDKey, payoutID),
			zap.Error(err),
		)
		return nil, err
	}

	subject, body := constvars.EmailSubjectPayoutCompleted, constvars.EmailBodyPayoutCompleted
	if payout.Status == models.PayoutStatusFailed {
		subject, body = constvars.EmailSubjectPayoutFailed, constvars.EmailBodyPayoutFailed
	}
	utils.LogBusinessEvent(uc.Log, "payout_processed", requestID,
		zap.String(constvars.LoggingPayoutIDKey, payoutID),
		zap.String("payout_status", string(payout.Status)),
	)
	uc.NotificationService.NotifyUsers(ctx, []string{payout.MentorID}, subject,
		fmt.Sprintf(body, payout.ID, payout.Amount.StringFixed(2)),
	)
	return payout, nil
}

func (uc *balanceUsecase) CancelPayout(ctx context.Context, actor models.Actor, payoutID string) (*models.Payout, error) {
	requestID := utils.RequestIDFromContext(ctx)
	uc.Log.Info("balanceUsecase.CancelPayout called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPayoutIDKey, payoutID),
	)

	var payout *models.Payout
	err := uc.UnitOfWork.WithinTransaction(ctx, func(ctx context.Context, tx contracts.Store) error {
		var err error
		payout, err = tx.Payouts().FindByIDForUpdate(ctx, payoutID)
		if err != nil {
			return err
		}
		if payout == nil {
			return exceptions.ErrPayoutNotFound(payoutID)
		}
		if !actor.IsAdmin() && payout.MentorID != actor.ID {
			return exceptions.ErrAccessDenied(nil)
		}
		if payout.Status != models.PayoutStatusPending {
			return exceptions.ErrPayoutState(payoutID, string(payout.Status))
		}

		now := uc.Clock.Now()
		payout.Status = models.PayoutStatusCancelled
		payout.SetUpdatedAt(now)
		if err := tx.Payouts().Update(ctx, payout); err != nil {
			return err
		}
		return uc.restore(ctx, tx, payout, now)
	})
	if err != nil {
		uc.Log.Error("balanceUsecase.CancelPayout failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPayoutIDKey, payoutID),
			zap.Error(err),
		)
		return nil, err
	}
	return payout, nil
}

// restore returns a payout's amount to the mentor's available balance.
func (uc *balanceUsecase) restore(ctx context.Context, tx contracts.Store, payout *models.Payout, now time.Time) error {
	balance, err := uc.lockBalance(ctx, tx, payout.MentorID, now, false)
	if err != nil {
		return err
	}
	balance.AvailableBalance = balance.AvailableBalance.Add(payout.Amount)
	balance.SetUpdatedAt(now)
	return tx.Balances().Update(ctx, balance)
}

func (uc *balanceUsecase) lockBalance(ctx context.Context, tx contracts.Store, mentorID string, now time.Time, createIfAbsent bool) (*models.MentorBalance, error) {
	if createIfAbsent {
		if _, err := tx.Balances().CreateIfAbsent(ctx, mentorID, now); err != nil {
			return nil, err
		}
	}
	balance, err := tx.Balances().FindByMentorIDForUpdate(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	if balance == nil {
		return nil, exceptions.ErrBalanceNotFound(mentorID)
	}
	return balance, nil
}

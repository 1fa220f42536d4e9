package cancellations

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

type cancellationUsecase struct {
	UnitOfWork          contracts.UnitOfWork
	SlotUsecase         contracts.SlotUsecase
	PaymentUsecase      contracts.PaymentUsecase
	NotificationService contracts.NotificationService
	Clock               contracts.Clock
	Policy              RefundPolicy
	Log                 *zap.Logger
}

func NewCancellationUsecase(
	unitOfWork contracts.UnitOfWork,
	slotUsecase contracts.SlotUsecase,
	paymentUsecase contracts.PaymentUsecase,
	notificationService contracts.NotificationService,
	clock contracts.Clock,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.CancellationUsecase {
	return &cancellationUsecase{
		UnitOfWork:          unitOfWork,
		SlotUsecase:         slotUsecase,
		PaymentUsecase:      paymentUsecase,
		NotificationService: notificationService,
		Clock:               clock,
		Policy:              NewRefundPolicy(internalConfig.Cancellation),
		Log:                 logger,
	}
}

func (uc *cancellationUsecase) CancelSession(ctx context.Context, actor models.Actor, sessionID, reason string) (*models.CancelRecord, error) {
	requestID := utils.RequestIDFromContext(ctx)
	uc.Log.Info("cancellationUsecase.CancelSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
		zap.String(constvars.LoggingActorIDKey, actor.ID),
	)

	var (
		record  *models.CancelRecord
		session *models.Session
	)
	err := uc.UnitOfWork.WithinTransaction(ctx, func(ctx context.Context, tx contracts.Store) error {
		var err error
		session, err = tx.Sessions().FindByIDForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return exceptions.ErrSessionNotFound(sessionID)
		}
		if !session.CanAct(actor) {
			return exceptions.ErrNotParticipant(actor.ID, sessionID)
		}
		switch session.Status {
		case models.SessionStatusCompleted:
			return exceptions.ErrSessionCompleted(sessionID)
		case models.SessionStatusCancelled:
			return exceptions.ErrSessionState(sessionID, string(session.Status), "active")
		}

		now := uc.Clock.Now()
		untilStart := session.StartTime.Sub(now)
		percentage := uc.Policy.Percentage(untilStart)

		var payment *models.Payment
		if session.PaymentID != nil {
			payment, err = tx.Payments().FindByIDForUpdate(ctx, *session.PaymentID)
			if err != nil {
				return err
			}
		}
		if payment == nil || !payment.IsRefundable() {
			percentage = decimal.Zero
		} else if remaining := payment.RemainingRefundablePercentage(); percentage.GreaterThan(remaining) {
			percentage = remaining
		}

		record = &models.CancelRecord{
			ID:               utils.GenerateID(),
			SessionID:        sessionID,
			CancelledBy:      actor.Role,
			CancelledByID:    actor.ID,
			Reason:           reason,
			HoursUntilStart:  decimal.NewFromFloat(untilStart.Hours()).Round(2),
			RefundPercentage: percentage,
			RefundAmount:     utils.PercentOf(session.Price, percentage),
			RefundStatus:     models.RefundStatusNone,
			CreatedAt:        now,
		}
		if percentage.IsPositive() {
			record.RefundStatus = models.RefundStatusProcessed
		}

		if session.Status == models.SessionStatusPendingReschedule {
			if err := uc.withdrawReschedule(ctx, tx, sessionID, actor, now); err != nil {
				return err
			}
		}

		slotID := session.TimeSlotID
		session.Cancel(reason, now)
		if err := tx.Sessions().Update(ctx, session); err != nil {
			return err
		}
		if slotID != nil {
			if err := uc.SlotUsecase.Release(ctx, tx, *slotID); err != nil {
				return err
			}
		}
		if err := tx.CancelRecords().Create(ctx, record); err != nil {
			return err
		}

		if !percentage.IsPositive() {
			return nil
		}
		// Last: the provider refund only happens once every local write has succeeded.
		return uc.PaymentUsecase.ProcessRefund(ctx, tx, payment, percentage)
	})
	if err != nil {
		uc.Log.Error("cancellationUsecase.CancelSession failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, sessionID),
			zap.Error(err),
		)
		return nil, err
	}

	utils.LogBusinessEvent(uc.Log, "session_cancelled", requestID,
		zap.String(constvars.LoggingSessionIDKey, sessionID),
		zap.String(constvars.LoggingActorRoleKey, string(actor.Role)),
		zap.String(constvars.LoggingHoursUntilStartKey, record.HoursUntilStart.String()),
		zap.String(constvars.LoggingRefundPercentKey, record.RefundPercentage.String()),
	)
	uc.NotificationService.NotifyUsers(ctx, []string{session.MenteeID, session.MentorID},
		constvars.EmailSubjectSessionCancelled,
		fmt.Sprintf(constvars.EmailBodySessionCancelled,
			session.ID, session.StartTime.Format(time.RFC1123), actor.Role,
			record.RefundPercentage.String(), record.RefundAmount.StringFixed(2)+" "+session.Currency,
		),
	)
	return record, nil
}

// withdrawReschedule closes a pending reschedule of a session being cancelled.
func (uc *cancellationUsecase) withdrawReschedule(ctx context.Context, tx contracts.Store, sessionID string, actor models.Actor, now time.Time) error {
	request, err := tx.Reschedules().FindPendingBySessionID(ctx, sessionID)
	if err != nil || request == nil {
		return err
	}
	request.Status = models.RescheduleStatusRejected
	request.ResolvedByID = &actor.ID
	request.ResolvedAt = &now
	request.SetUpdatedAt(now)
	return tx.Reschedules().Update(ctx, request)
}

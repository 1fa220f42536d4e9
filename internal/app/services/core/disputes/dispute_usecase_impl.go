package disputes

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

type disputeUsecase struct {
	UnitOfWork          contracts.UnitOfWork
	PaymentUsecase      contracts.PaymentUsecase
	BalanceUsecase      contracts.BalanceUsecase
	EvidenceStorage     contracts.EvidenceStorage
	NotificationService contracts.NotificationService
	Clock               contracts.Clock
	InternalConfig      *config.InternalConfig
	Log                 *zap.Logger
}

func NewDisputeUsecase(
	unitOfWork contracts.UnitOfWork,
	paymentUsecase contracts.PaymentUsecase,
	balanceUsecase contracts.BalanceUsecase,
	evidenceStorage contracts.EvidenceStorage,
	notificationService contracts.NotificationService,
	clock contracts.Clock,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.DisputeUsecase {
	return &disputeUsecase{
		UnitOfWork:          unitOfWork,
		PaymentUsecase:      paymentUsecase,
		BalanceUsecase:      balanceUsecase,
		EvidenceStorage:     evidenceStorage,
		NotificationService: notificationService,
		Clock:               clock,
		InternalConfig:      internalConfig,
		Log:                 logger,
	}
}

func (uc *disputeUsecase) CreateDispute(ctx context.Context, actor models.Actor, sessionID, reason string, evidence []models.EvidenceFile) (*models.Dispute, error) {
	requestID := utils.RequestIDFromContext(ctx)
	uc.Log.Info("disputeUsecase.CreateDispute called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
		zap.Int("evidence_count", len(evidence)),
	)

	limit := uc.InternalConfig.Dispute.EvidenceMaxSizeInMB * 1024 * 1024
	for _, file := range evidence {
		size := file.Size
		if size < int64(len(file.Content)) {
			size = int64(len(file.Content))
		}
		if limit > 0 && size > limit {
			return nil, exceptions.ErrDisputeEvidenceTooLarge(file.FileName, size, limit)
		}
	}

	var (
		dispute *models.Dispute
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
		if session.MenteeID != actor.ID {
			return exceptions.ErrNotParticipant(actor.ID, sessionID)
		}
		if session.Status != models.SessionStatusCompleted || session.CompletedAt == nil {
			return exceptions.ErrDisputeNotCompleted(sessionID, string(session.Status))
		}

		now := uc.Clock.Now()
		window := time.Duration(uc.InternalConfig.Dispute.WindowInDays) * 24 * time.Hour
		if now.After(session.CompletedAt.Add(window)) {
			return exceptions.ErrDisputeWindowLapsed(sessionID, session.CompletedAt.Format(time.RFC3339))
		}

		existing, err := tx.Disputes().FindBySessionID(ctx, sessionID)
		if err != nil {
			return err
		}
		if existing != nil {
			return exceptions.ErrDisputeExists(sessionID, existing.ID)
		}

		dispute = &models.Dispute{
			ID:           utils.GenerateID(),
			SessionID:    sessionID,
			MenteeID:     actor.ID,
			Reason:       reason,
			Status:       models.DisputeStatusPending,
			DeductedFrom: models.BalanceBucketNone,
		}
		dispute.SetCreatedAtUpdatedAt(now)
		for _, file := range evidence {
			key, err := uc.EvidenceStorage.Upload(ctx, dispute.ID, file)
			if err != nil {
				return err
			}
			dispute.EvidenceKeys = append(dispute.EvidenceKeys, key)
		}
		return tx.Disputes().Create(ctx, dispute)
	})
	if err != nil {
		uc.Log.Error("disputeUsecase.CreateDispute failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, sessionID),
			zap.Error(err),
		)
		return nil, err
	}

	utils.LogBusinessEvent(uc.Log, "dispute_opened", requestID,
		zap.String(constvars.LoggingDisputeIDKey, dispute.ID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
	)
	uc.NotificationService.NotifyUsers(ctx, []string{session.MentorID, session.MenteeID},
		constvars.EmailSubjectDisputeOpened,
		fmt.Sprintf(constvars.EmailBodyDisputeOpened, sessionID, reason),
	)
	return dispute, nil
}

// ResolveDispute closes a pending dispute. A refund decision with a positive amount takes
// the mentor's share back from the balance and refunds the mentee through the provider.
func (uc *disputeUsecase) ResolveDispute(ctx context.Context, adminID, disputeID string, decision models.DisputeDecision, resolution string, refundAmount decimal.Decimal) (*models.Dispute, error) {
	requestID := utils.RequestIDFromContext(ctx)
	uc.Log.Info("disputeUsecase.ResolveDispute called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDisputeIDKey, disputeID),
		zap.String("decision", string(decision)),
		zap.String(constvars.LoggingAmountKey, refundAmount.String()),
	)

	if refundAmount.IsNegative() {
		return nil, exceptions.ErrInvalidAmount("refund amount", refundAmount.String())
	}

	var (
		dispute *models.Dispute
		session *models.Session
	)
	err := uc.UnitOfWork.WithinTransaction(ctx, func(ctx context.Context, tx contracts.Store) error {
		var err error
		dispute, err = tx.Disputes().FindByIDForUpdate(ctx, disputeID)
		if err != nil {
			return err
		}
		if dispute == nil {
			return exceptions.ErrDisputeNotFound(disputeID)
		}
		if dispute.IsFinal() {
			return exceptions.ErrDisputeResolved(disputeID, string(dispute.Status))
		}
		session, err = tx.Sessions().FindByID(ctx, dispute.SessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return exceptions.ErrSessionNotFound(dispute.SessionID)
		}

		now := uc.Clock.Now()
		dispute.Resolution = resolution
		dispute.ResolvedByID = &adminID
		dispute.ResolvedAt = &now
		dispute.SetUpdatedAt(now)

		if decision == models.DisputeDecisionReject || !refundAmount.IsPositive() {
			dispute.Status = models.DisputeStatusRejected
			if decision == models.DisputeDecisionRefund {
				dispute.Status = models.DisputeStatusResolved
			}
			return tx.Disputes().Update(ctx, dispute)
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
		if payment.RefundAmount.Add(refundAmount).GreaterThan(payment.Amount) {
			return exceptions.ErrRefundExceedsPayment(payment.ID, utils.PercentageOf(payment.RefundAmount.Add(refundAmount), payment.Amount).String())
		}

		deducted, bucket, err := uc.BalanceUsecase.DeductForRefund(ctx, tx, payment, refundAmount)
		if err != nil {
			return err
		}
		dispute.Status = models.DisputeStatusResolved
		dispute.RefundAmount = refundAmount
		dispute.BalanceDeduction = deducted
		dispute.DeductedFrom = bucket
		if err := tx.Disputes().Update(ctx, dispute); err != nil {
			return err
		}
		return uc.PaymentUsecase.ProcessRefundAmount(ctx, tx, payment, refundAmount)
	})
	if err != nil {
		uc.Log.Error("disputeUsecase.ResolveDispute failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDisputeIDKey, disputeID),
			zap.Error(err),
		)
		return nil, err
	}

	utils.LogBusinessEvent(uc.Log, "dispute_resolved", requestID,
		zap.String(constvars.LoggingDisputeIDKey, disputeID),
		zap.String("dispute_status", string(dispute.Status)),
		zap.String(constvars.LoggingAmountKey, dispute.RefundAmount.String()),
		zap.String(constvars.LoggingBalanceBucketKey, string(dispute.DeductedFrom)),
	)
	uc.NotificationService.NotifyUsers(ctx, []string{session.MenteeID, session.MentorID},
		constvars.EmailSubjectDisputeResolved,
		fmt.Sprintf(constvars.EmailBodyDisputeResolved, dispute.ID, dispute.Status, dispute.RefundAmount.StringFixed(2)),
	)
	return dispute, nil
}

// GetEvidenceURL returns a short-lived download link for one evidence file of a dispute.
func (uc *disputeUsecase) GetEvidenceURL(ctx context.Context, actor models.Actor, disputeID, objectKey string) (string, error) {
	requestID := utils.RequestIDFromContext(ctx)
	uc.Log.Info("disputeUsecase.GetEvidenceURL called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDisputeIDKey, disputeID),
		zap.String(constvars.LoggingObjectKey, objectKey),
	)

	store := uc.UnitOfWork.Store()
	dispute, err := store.Disputes().FindByID(ctx, disputeID)
	if err != nil {
		return "", err
	}
	if dispute == nil {
		return "", exceptions.ErrDisputeNotFound(disputeID)
	}
	if !actor.IsAdmin() && actor.ID != dispute.MenteeID {
		session, err := store.Sessions().FindByID(ctx, dispute.SessionID)
		if err != nil {
			return "", err
		}
		if session == nil || session.MentorID != actor.ID {
			return "", exceptions.ErrNotParticipant(actor.ID, dispute.SessionID)
		}
	}

	found := false
	for _, key := range dispute.EvidenceKeys {
		if key == objectKey {
			found = true
			break
		}
	}
	if !found {
		return "", exceptions.ErrDisputeNotFound(disputeID + "/" + objectKey)
	}

	expiry := time.Duration(uc.InternalConfig.Dispute.EvidenceURLExpiryInMinutes) * time.Minute
	return uc.EvidenceStorage.PresignedURL(ctx, objectKey, expiry)
}

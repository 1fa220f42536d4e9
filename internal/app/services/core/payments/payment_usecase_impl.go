package payments

import (
	"context"
	"errors"
	"fmt"
	"mentorship-service/internal/app/config"
	"mentorship-service/internal/app/contracts"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/app/services/shared/paymentprovider"
	"mentorship-service/internal/pkg/constvars"
	"mentorship-service/internal/pkg/dto/responses"
	"mentorship-service/internal/pkg/exceptions"
	"mentorship-service/internal/pkg/utils"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const webhookDedupeKeyPrefix = "webhook:dedupe:"

var hundred = decimal.NewFromInt(100)

type paymentUsecase struct {
	UnitOfWork          contracts.UnitOfWork
	Providers           contracts.PaymentProviderRegistry
	SlotUsecase         contracts.SlotUsecase
	BalanceUsecase      contracts.BalanceUsecase
	Scheduler           contracts.Scheduler
	VideoLinks          contracts.VideoLinkGenerator
	NotificationService contracts.NotificationService
	RedisRepository     contracts.RedisRepository
	WebhookArchive      contracts.WebhookArchive
	WebhookRetryQueue   contracts.WebhookRetryQueue
	Clock               contracts.Clock
	InternalConfig      *config.InternalConfig
	Log                 *zap.Logger
}

// NewPaymentUsecase builds the orchestrator. The redis repository, archive and retry
// queue are optional; a nil value disables webhook dedupe, archiving or retries.
func NewPaymentUsecase(
	unitOfWork contracts.UnitOfWork,
	providers contracts.PaymentProviderRegistry,
	slotUsecase contracts.SlotUsecase,
	balanceUsecase contracts.BalanceUsecase,
	scheduler contracts.Scheduler,
	videoLinks contracts.VideoLinkGenerator,
	notificationService contracts.NotificationService,
	redisRepository contracts.RedisRepository,
	webhookArchive contracts.WebhookArchive,
	webhookRetryQueue contracts.WebhookRetryQueue,
	clock contracts.Clock,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.PaymentUsecase {
	return &paymentUsecase{
		UnitOfWork:          unitOfWork,
		Providers:           providers,
		SlotUsecase:         slotUsecase,
		BalanceUsecase:      balanceUsecase,
		Scheduler:           scheduler,
		VideoLinks:          videoLinks,
		NotificationService: notificationService,
		RedisRepository:     redisRepository,
		WebhookArchive:      webhookArchive,
		WebhookRetryQueue:   webhookRetryQueue,
		Clock:               clock,
		InternalConfig:      internalConfig,
		Log:                 logger,
	}
}

func (uc *paymentUsecase) CreateIntent(ctx context.Context, actor models.Actor, sessionID string, providerName models.PaymentProvider) (*responses.PaymentIntent, error) {
	requestID := utils.RequestIDFromContext(ctx)
	uc.Log.Info("paymentUsecase.CreateIntent called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
		zap.String(constvars.LoggingProviderKey, string(providerName)),
	)

	provider, err := uc.Providers.Get(providerName)
	if err != nil {
		return nil, err
	}

	var (
		payment *models.Payment
		intent  *models.IntentResult
	)
	err = uc.UnitOfWork.WithinTransaction(ctx, func(ctx context.Context, tx contracts.Store) error {
		session, err := tx.Sessions().FindByIDForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return exceptions.ErrSessionNotFound(sessionID)
		}
		if !actor.IsAdmin() && session.MenteeID != actor.ID {
			return exceptions.ErrNotParticipant(actor.ID, sessionID)
		}
		if session.Status != models.SessionStatusPending {
			return exceptions.ErrSessionState(sessionID, string(session.Status), string(models.SessionStatusPending))
		}
		if session.PaymentID != nil {
			return exceptions.ErrPaymentAlreadyAttached(sessionID, *session.PaymentID)
		}

		now := uc.Clock.Now()
		paymentID := utils.GenerateID()
		intent, err = provider.CreateIntent(ctx,
			toProviderAmount(provider, session.Price),
			providerCurrency(provider, session.Currency),
			map[string]string{
				"payment_id": paymentID,
				"session_id": session.ID,
				"mentee_id":  session.MenteeID,
			},
		)
		if err != nil {
			return exceptions.ErrPaymentProvider(err, string(providerName))
		}

		payment = &models.Payment{
			ID:               paymentID,
			SessionID:        session.ID,
			Provider:         providerName,
			ProviderIntentID: intent.IntentID,
			Amount:           session.Price,
			Currency:         session.Currency,
			Status:           models.PaymentStatusPending,
			CommissionRate:   uc.InternalConfig.Payment.Commission(),
		}
		payment.SetCreatedAtUpdatedAt(now)
		if err := tx.Payments().Create(ctx, payment); err != nil {
			return err
		}

		session.PaymentID = &payment.ID
		session.SetUpdatedAt(now)
		if err := tx.Sessions().Update(ctx, session); err != nil {
			return err
		}

		captureTimeout := time.Duration(provider.CaptureTimeoutMinutes()) * time.Minute
		return uc.Scheduler.ScheduleOnce(ctx, tx, models.JobPaymentCaptureTimeout, payment.ID, captureTimeout)
	})
	if err != nil {
		uc.Log.Error("paymentUsecase.CreateIntent failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, sessionID),
			zap.Error(err),
		)
		return nil, err
	}

	utils.LogBusinessEvent(uc.Log, "payment_intent_created", requestID,
		zap.String(constvars.LoggingPaymentIDKey, payment.ID),
		zap.String(constvars.LoggingIntentIDKey, payment.ProviderIntentID),
		zap.String(constvars.LoggingProviderKey, string(providerName)),
	)

	return &responses.PaymentIntent{
		PaymentID:    payment.ID,
		SessionID:    payment.SessionID,
		Provider:     string(providerName),
		IntentID:     intent.IntentID,
		ClientSecret: intent.ClientSecret,
		CheckoutURL:  intent.CheckoutURL,
		Amount:       toProviderAmount(provider, payment.Amount),
		Currency:     providerCurrency(provider, payment.Currency),
		ExpiresAt:    payment.CreatedAt.Add(time.Duration(provider.CaptureTimeoutMinutes()) * time.Minute),
	}, nil
}

// HandleWebhook verifies and applies a provider callback. Verified callbacks that fail to
// apply are queued for replay; rejected ones are only archived.
func (uc *paymentUsecase) HandleWebhook(ctx context.Context, providerName models.PaymentProvider, payload []byte, signature string) error {
	requestID := utils.RequestIDFromContext(ctx)
	uc.Log.Info("paymentUsecase.HandleWebhook called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingProviderKey, string(providerName)),
	)

	event := &models.WebhookEvent{
		ID:         utils.GenerateID(),
		Provider:   string(providerName),
		Payload:    string(payload),
		ReceivedAt: uc.Clock.Now(),
	}
	defer uc.archive(ctx, event)

	err := uc.processWebhook(ctx, providerName, payload, signature, event)
	if err == nil {
		return nil
	}

	event.Error = err.Error()
	if exceptions.IsKind(err, exceptions.KindUnauthorized) || exceptions.IsKind(err, exceptions.KindValidation) {
		event.Outcome = models.WebhookOutcomeRejected
		uc.Log.Warn("paymentUsecase.HandleWebhook rejected callback",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingProviderKey, string(providerName)),
			zap.Error(err),
		)
		return err
	}

	event.Outcome = models.WebhookOutcomeFailed
	uc.Log.Error("paymentUsecase.HandleWebhook failed to apply callback",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingIntentIDKey, event.IntentID),
		zap.Error(err),
	)
	if uc.WebhookRetryQueue != nil {
		retryErr := uc.WebhookRetryQueue.Enqueue(ctx, models.WebhookRetryMessage{
			ID:        event.ID,
			Provider:  string(providerName),
			Signature: signature,
			Payload:   payload,
			LastError: err.Error(),
		})
		if retryErr != nil {
			uc.Log.Error("paymentUsecase.HandleWebhook failed to queue retry",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingMessageIDKey, event.ID),
				zap.Error(retryErr),
			)
		}
	}
	return err
}

// ReplayWebhook re-applies a queued callback without archiving or queueing it again.
func (uc *paymentUsecase) ReplayWebhook(ctx context.Context, message models.WebhookRetryMessage) error {
	requestID := utils.RequestIDFromContext(ctx)
	uc.Log.Info("paymentUsecase.ReplayWebhook called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingMessageIDKey, message.ID),
		zap.Int(constvars.LoggingFailedCountKey, message.FailedCount),
	)

	event := &models.WebhookEvent{ID: message.ID, Provider: message.Provider}
	return uc.processWebhook(ctx, models.PaymentProvider(message.Provider), message.Payload, message.Signature, event)
}

func (uc *paymentUsecase) processWebhook(ctx context.Context, providerName models.PaymentProvider, payload []byte, signature string, event *models.WebhookEvent) error {
	requestID := utils.RequestIDFromContext(ctx)
	provider, err := uc.Providers.Get(providerName)
	if err != nil {
		return err
	}

	result, err := provider.HandleCallback(ctx, payload, signature)
	if err != nil {
		return err
	}
	event.SignatureValid = true
	event.EventID = result.EventID
	event.IntentID = result.IntentID

	dedupeKey := ""
	if uc.RedisRepository != nil && result.EventID != "" {
		dedupeKey = webhookDedupeKeyPrefix + string(providerName) + ":" + result.EventID
		ttl := time.Duration(uc.InternalConfig.Webhook.DedupeTTLInHours) * time.Hour
		acquired, err := uc.RedisRepository.TrySetNX(ctx, dedupeKey, event.ID, ttl)
		switch {
		case err != nil:
			// Status guards below still make the callback idempotent.
			uc.Log.Warn("paymentUsecase.processWebhook dedupe unavailable",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			dedupeKey = ""
		case !acquired:
			event.Outcome = models.WebhookOutcomeDuplicate
			uc.Log.Info("paymentUsecase.processWebhook duplicate event ignored",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingEventIDKey, result.EventID),
			)
			return nil
		}
	}

	if err := uc.applyAndConfirm(ctx, provider, result); err != nil {
		if dedupeKey != "" {
			if delErr := uc.RedisRepository.Delete(ctx, dedupeKey); delErr != nil {
				uc.Log.Warn("paymentUsecase.processWebhook failed to clear dedupe key",
					zap.String(constvars.LoggingRequestIDKey, requestID),
					zap.Error(delErr),
				)
			}
		}
		return err
	}
	event.Outcome = models.WebhookOutcomeApplied
	return nil
}

func (uc *paymentUsecase) applyAndConfirm(ctx context.Context, provider contracts.PaymentProvider, result *models.CallbackResult) error {
	captured, err := uc.applyCallback(ctx, provider, result)
	if err != nil || !captured {
		return err
	}

	_, err = uc.ConfirmPayment(ctx, provider.Name(), result.IntentID)
	switch {
	case err == nil, exceptions.IsKind(err, exceptions.KindConflict):
		return nil
	case exceptions.IsKind(err, exceptions.KindBusinessRule):
		// Amount mismatch: the payment stays captured for manual follow-up.
		uc.Log.Error("paymentUsecase.applyAndConfirm captured payment cannot confirm session",
			zap.String(constvars.LoggingRequestIDKey, utils.RequestIDFromContext(ctx)),
			zap.String(constvars.LoggingIntentIDKey, result.IntentID),
			zap.Error(err),
		)
		return nil
	default:
		return err
	}
}

// applyCallback records the provider's verdict on the payment and reports whether the
// payment just became captured.
func (uc *paymentUsecase) applyCallback(ctx context.Context, provider contracts.PaymentProvider, result *models.CallbackResult) (bool, error) {
	requestID := utils.RequestIDFromContext(ctx)
	captured := false
	err := uc.UnitOfWork.WithinTransaction(ctx, func(ctx context.Context, tx contracts.Store) error {
		payment, err := tx.Payments().FindByIntentIDForUpdate(ctx, provider.Name(), result.IntentID)
		if err != nil {
			return err
		}
		if payment == nil {
			// The intent may not be committed yet; a retry will find it.
			return exceptions.ErrPaymentNotFound(result.IntentID)
		}
		if !payment.IsAwaitingCapture() {
			if payment.Status == models.PaymentStatusCaptured {
				// A previous delivery may have committed the capture but failed to confirm.
				captured = true
			} else if result.Status == models.PaymentStatusCaptured && payment.Status == models.PaymentStatusCanceled {
				uc.Log.Error("paymentUsecase.applyCallback capture arrived for a canceled payment",
					zap.String(constvars.LoggingRequestIDKey, requestID),
					zap.String(constvars.LoggingPaymentIDKey, payment.ID),
				)
			}
			return nil
		}

		now := uc.Clock.Now()
		switch result.Status {
		case models.PaymentStatusCaptured:
			payment.MarkCaptured(result.TransactionID, result.Amount, result.Currency, now)
			captured = true
		case models.PaymentStatusFailed:
			payment.Status = models.PaymentStatusFailed
			payment.FailureReason = result.FailureReason
			payment.SetUpdatedAt(now)
		case models.PaymentStatusCanceled:
			payment.Status = models.PaymentStatusCanceled
			payment.CancelledAt = &now
			payment.SetUpdatedAt(now)
			if err := uc.cancelPendingSession(ctx, tx, payment, now); err != nil {
				return err
			}
		default:
			return nil
		}

		uc.Log.Info("paymentUsecase.applyCallback payment updated",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, payment.ID),
			zap.String(constvars.LoggingPaymentStatusKey, string(payment.Status)),
		)
		return tx.Payments().Update(ctx, payment)
	})
	return captured, err
}

// ConfirmPayment confirms the session paid by the provider's intent once it has been captured.
func (uc *paymentUsecase) ConfirmPayment(ctx context.Context, providerName models.PaymentProvider, intentID string) (*models.Session, error) {
	requestID := utils.RequestIDFromContext(ctx)
	uc.Log.Info("paymentUsecase.ConfirmPayment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingProviderKey, string(providerName)),
		zap.String(constvars.LoggingIntentIDKey, intentID),
	)

	var session *models.Session
	err := uc.UnitOfWork.WithinTransaction(ctx, func(ctx context.Context, tx contracts.Store) error {
		payment, err := tx.Payments().FindByIntentIDForUpdate(ctx, providerName, intentID)
		if err != nil {
			return err
		}
		if payment == nil {
			return exceptions.ErrPaymentNotFound(intentID)
		}

		session, err = tx.Sessions().FindByIDForUpdate(ctx, payment.SessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return exceptions.ErrSessionNotFound(payment.SessionID)
		}
		switch session.Status {
		case models.SessionStatusPending:
		case models.SessionStatusConfirmed, models.SessionStatusPendingReschedule, models.SessionStatusCompleted:
			return exceptions.ErrPaymentAlreadyConfirmed(session.ID)
		default:
			return exceptions.ErrSessionState(session.ID, string(session.Status), string(models.SessionStatusPending))
		}

		provider, err := uc.Providers.Get(payment.Provider)
		if err != nil {
			return err
		}

		now := uc.Clock.Now()
		if payment.Status != models.PaymentStatusCaptured {
			status, err := provider.GetStatus(ctx, payment.ProviderIntentID)
			if err != nil {
				return exceptions.ErrPaymentProvider(err, string(payment.Provider))
			}
			if status.Status != models.PaymentStatusCaptured {
				return exceptions.ErrPaymentNotCaptured(payment.ID, string(payment.Status), string(status.Status))
			}
			payment.MarkCaptured(status.TransactionID, status.Amount, status.Currency, now)
		}

		if !capturedMatches(provider, payment.CapturedAmount, payment.CapturedCurrency, session.Price, session.Currency) {
			return exceptions.ErrPaymentAmountMismatch(payment.ID,
				payment.CapturedAmount.String(), payment.CapturedCurrency,
				toProviderAmount(provider, session.Price).String(), providerCurrency(provider, session.Currency),
			)
		}

		releaseAt := now.Add(time.Duration(uc.InternalConfig.Payment.ConfirmHoldInHours) * time.Hour)
		payment.ReleaseAt = &releaseAt
		payment.SetUpdatedAt(now)
		if err := tx.Payments().Update(ctx, payment); err != nil {
			return err
		}

		link, err := uc.VideoLinks.Generate(ctx, session)
		if err != nil {
			return err
		}
		session.Status = models.SessionStatusConfirmed
		session.VideoLink = link
		session.SetUpdatedAt(now)
		if err := tx.Sessions().Update(ctx, session); err != nil {
			return err
		}

		grace := time.Duration(uc.InternalConfig.Booking.AutoCompleteGraceInMinutes) * time.Minute
		return uc.Scheduler.ScheduleOnce(ctx, tx, models.JobSessionAutoComplete, session.ID, session.EndTime.Add(grace).Sub(now))
	})
	if err != nil {
		uc.Log.Error("paymentUsecase.ConfirmPayment failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingIntentIDKey, intentID),
			zap.Error(err),
		)
		return nil, err
	}

	utils.LogBusinessEvent(uc.Log, "session_confirmed", requestID,
		zap.String(constvars.LoggingSessionIDKey, session.ID),
		zap.String(constvars.LoggingIntentIDKey, intentID),
	)
	uc.NotificationService.NotifyUsers(ctx, []string{session.MenteeID, session.MentorID},
		constvars.EmailSubjectSessionConfirmed,
		fmt.Sprintf(constvars.EmailBodySessionConfirmed, session.ID, session.StartTime.Format(time.RFC1123), session.VideoLink),
	)
	return session, nil
}

func (uc *paymentUsecase) RefundPayment(ctx context.Context, paymentID string, percentage decimal.Decimal) (*models.Payment, error) {
	requestID := utils.RequestIDFromContext(ctx)
	uc.Log.Info("paymentUsecase.RefundPayment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentIDKey, paymentID),
		zap.String(constvars.LoggingPercentageKey, percentage.String()),
	)

	var payment *models.Payment
	err := uc.UnitOfWork.WithinTransaction(ctx, func(ctx context.Context, tx contracts.Store) error {
		var err error
		payment, err = tx.Payments().FindByIDForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if payment == nil {
			return exceptions.ErrPaymentNotFound(paymentID)
		}
		amount, err := refundAmountFor(payment, percentage)
		if err != nil {
			return err
		}
		// Earnings already credited to the mentor shrink with the refund.
		if _, _, err := uc.BalanceUsecase.DeductForRefund(ctx, tx, payment, amount); err != nil {
			return err
		}
		return uc.applyRefund(ctx, tx, payment, amount, percentage)
	})
	if err != nil {
		uc.Log.Error("paymentUsecase.RefundPayment failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, paymentID),
			zap.Error(err),
		)
		return nil, err
	}
	return payment, nil
}

// ProcessRefund refunds percentage of the original amount. Refunds accumulate until 100%.
func (uc *paymentUsecase) ProcessRefund(ctx context.Context, tx contracts.Store, payment *models.Payment, percentage decimal.Decimal) error {
	amount, err := refundAmountFor(payment, percentage)
	if err != nil {
		return err
	}
	return uc.applyRefund(ctx, tx, payment, amount, percentage)
}

// refundAmountFor validates a percentage refund and converts it to an amount in the
// session currency, capped at what is left of the payment.
func refundAmountFor(payment *models.Payment, percentage decimal.Decimal) (decimal.Decimal, error) {
	if !percentage.IsPositive() || percentage.GreaterThan(hundred) {
		return decimal.Zero, exceptions.ErrInvalidAmount("refund percentage", percentage.String())
	}
	if !payment.IsRefundable() {
		return decimal.Zero, exceptions.ErrPaymentNotRefundable(payment.ID, string(payment.Status), payment.RefundPercentage.String())
	}
	if percentage.GreaterThan(payment.RemainingRefundablePercentage()) {
		return decimal.Zero, exceptions.ErrRefundExceedsPayment(payment.ID, payment.RefundPercentage.Add(percentage).String())
	}

	amount := utils.PercentOf(payment.Amount, percentage)
	if remaining := payment.Amount.Sub(payment.RefundAmount); amount.GreaterThan(remaining) {
		amount = remaining
	}
	return amount, nil
}

// ProcessRefundAmount refunds a fixed amount in the session currency.
func (uc *paymentUsecase) ProcessRefundAmount(ctx context.Context, tx contracts.Store, payment *models.Payment, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return exceptions.ErrInvalidAmount("refund amount", amount.String())
	}
	if !payment.IsRefundable() {
		return exceptions.ErrPaymentNotRefundable(payment.ID, string(payment.Status), payment.RefundPercentage.String())
	}
	if payment.RefundAmount.Add(amount).GreaterThan(payment.Amount) {
		return exceptions.ErrRefundExceedsPayment(payment.ID, utils.PercentageOf(payment.RefundAmount.Add(amount), payment.Amount).String())
	}
	return uc.applyRefund(ctx, tx, payment, amount, utils.PercentageOf(amount, payment.Amount))
}

// applyRefund persists the refund and calls the provider last, so a provider failure
// rolls back the whole unit.
func (uc *paymentUsecase) applyRefund(ctx context.Context, tx contracts.Store, payment *models.Payment, amount, percentage decimal.Decimal) error {
	requestID := utils.RequestIDFromContext(ctx)
	provider, err := uc.Providers.Get(payment.Provider)
	if err != nil {
		return err
	}

	now := uc.Clock.Now()
	payment.RefundAmount = payment.RefundAmount.Add(amount)
	payment.RefundPercentage = payment.RefundPercentage.Add(percentage)
	if payment.RefundAmount.Equal(payment.Amount) || payment.RefundPercentage.GreaterThan(hundred) {
		payment.RefundPercentage = hundred
	}
	payment.Status = models.PaymentStatusRefunded
	payment.RefundedAt = &now
	payment.SetUpdatedAt(now)
	if err := tx.Payments().Update(ctx, payment); err != nil {
		return err
	}

	result, err := provider.Refund(ctx, payment.ProviderIntentID, toProviderAmount(provider, amount), payment.ProviderTransactionID)
	if err != nil {
		return exceptions.ErrPaymentProvider(err, string(payment.Provider))
	}
	if !result.Success {
		return exceptions.ErrPaymentProvider(errors.New("refund declined"), string(payment.Provider))
	}

	utils.LogBusinessEvent(uc.Log, "payment_refunded", requestID,
		zap.String(constvars.LoggingPaymentIDKey, payment.ID),
		zap.String(constvars.LoggingAmountKey, amount.String()),
		zap.String(constvars.LoggingPercentageKey, payment.RefundPercentage.String()),
	)
	return nil
}

// CheckAndCancelPayment runs at the capture deadline. It re-checks the provider so a
// capture that raced the deadline confirms the session instead of cancelling it.
func (uc *paymentUsecase) CheckAndCancelPayment(ctx context.Context, paymentID string) error {
	requestID := utils.RequestIDFromContext(ctx)
	uc.Log.Info("paymentUsecase.CheckAndCancelPayment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentIDKey, paymentID),
	)

	confirm := false
	intentID := ""
	var providerName models.PaymentProvider
	err := uc.UnitOfWork.WithinTransaction(ctx, func(ctx context.Context, tx contracts.Store) error {
		payment, err := tx.Payments().FindByIDForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if payment == nil {
			return nil
		}
		intentID = payment.ProviderIntentID
		providerName = payment.Provider
		if payment.Status == models.PaymentStatusCaptured {
			confirm = true
			return nil
		}
		if !payment.IsAwaitingCapture() {
			return nil
		}

		provider, err := uc.Providers.Get(payment.Provider)
		if err != nil {
			return err
		}
		status, err := provider.GetStatus(ctx, payment.ProviderIntentID)
		if err != nil {
			return exceptions.ErrPaymentProvider(err, string(payment.Provider))
		}

		now := uc.Clock.Now()
		if status.Status == models.PaymentStatusCaptured {
			payment.MarkCaptured(status.TransactionID, status.Amount, status.Currency, now)
			confirm = true
			return tx.Payments().Update(ctx, payment)
		}

		payment.Status = models.PaymentStatusCanceled
		payment.CancelledAt = &now
		payment.SetUpdatedAt(now)
		if err := tx.Payments().Update(ctx, payment); err != nil {
			return err
		}
		if err := uc.cancelPendingSession(ctx, tx, payment, now); err != nil {
			return err
		}

		if err := provider.Cancel(ctx, payment.ProviderIntentID); err != nil && !errors.Is(err, paymentprovider.ErrCancelNotSupported) {
			return exceptions.ErrPaymentProvider(err, string(payment.Provider))
		}
		utils.LogBusinessEvent(uc.Log, "payment_capture_timeout", requestID,
			zap.String(constvars.LoggingPaymentIDKey, payment.ID),
			zap.String(constvars.LoggingSessionIDKey, payment.SessionID),
		)
		return nil
	})
	if err != nil {
		uc.Log.Error("paymentUsecase.CheckAndCancelPayment failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, paymentID),
			zap.Error(err),
		)
		return err
	}

	if confirm {
		_, err := uc.ConfirmPayment(ctx, providerName, intentID)
		switch {
		case err == nil, exceptions.IsKind(err, exceptions.KindConflict):
		case exceptions.IsKind(err, exceptions.KindPaymentProvider), exceptions.IsKind(err, exceptions.KindInternal):
			return err
		default:
			uc.Log.Error("paymentUsecase.CheckAndCancelPayment captured payment cannot confirm session",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingPaymentIDKey, paymentID),
				zap.Error(err),
			)
		}
	}
	return nil
}

// cancelPendingSession cancels the session that payment was paying for, if it still awaits payment.
func (uc *paymentUsecase) cancelPendingSession(ctx context.Context, tx contracts.Store, payment *models.Payment, now time.Time) error {
	session, err := tx.Sessions().FindByIDForUpdate(ctx, payment.SessionID)
	if err != nil {
		return err
	}
	if session == nil || session.Status != models.SessionStatusPending {
		return nil
	}

	slotID := session.TimeSlotID
	session.Cancel(models.CancellationReasonPaymentTimeout, now)
	if err := tx.Sessions().Update(ctx, session); err != nil {
		return err
	}
	if slotID != nil {
		return uc.SlotUsecase.Release(ctx, tx, *slotID)
	}
	return nil
}

func (uc *paymentUsecase) archive(ctx context.Context, event *models.WebhookEvent) {
	if uc.WebhookArchive == nil {
		return
	}
	if event.Outcome == "" {
		event.Outcome = models.WebhookOutcomeApplied
	}
	if err := uc.WebhookArchive.Archive(ctx, event); err != nil {
		uc.Log.Warn("paymentUsecase.archive failed to archive webhook",
			zap.String(constvars.LoggingRequestIDKey, utils.RequestIDFromContext(ctx)),
			zap.String(constvars.LoggingMessageIDKey, event.ID),
			zap.Error(err),
		)
	}
}

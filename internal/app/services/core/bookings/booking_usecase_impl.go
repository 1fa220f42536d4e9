package bookings

import (
	"context"
	"mentorship-service/internal/app/config"
	"mentorship-service/internal/app/contracts"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/pkg/constvars"
	"mentorship-service/internal/pkg/exceptions"
	"mentorship-service/internal/pkg/utils"
	"time"

	"go.uber.org/zap"
)

type bookingUsecase struct {
	UnitOfWork     contracts.UnitOfWork
	SlotUsecase    contracts.SlotUsecase
	BalanceUsecase contracts.BalanceUsecase
	Scheduler      contracts.Scheduler
	Clock          contracts.Clock
	InternalConfig *config.InternalConfig
	Log            *zap.Logger
}

func NewBookingUsecase(
	unitOfWork contracts.UnitOfWork,
	slotUsecase contracts.SlotUsecase,
	balanceUsecase contracts.BalanceUsecase,
	scheduler contracts.Scheduler,
	clock contracts.Clock,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.BookingUsecase {
	return &bookingUsecase{
		UnitOfWork:     unitOfWork,
		SlotUsecase:    slotUsecase,
		BalanceUsecase: balanceUsecase,
		Scheduler:      scheduler,
		Clock:          clock,
		InternalConfig: internalConfig,
		Log:            logger,
	}
}

func (uc *bookingUsecase) BookSession(ctx context.Context, menteeID, slotID string) (*models.Session, error) {
	requestID := utils.RequestIDFromContext(ctx)
	uc.Log.Info("bookingUsecase.BookSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingMenteeIDKey, menteeID),
		zap.String(constvars.LoggingSlotIDKey, slotID),
	)

	notice := time.Duration(uc.InternalConfig.Booking.AdvanceNoticeInHours) * time.Hour
	paymentTimeout := time.Duration(uc.InternalConfig.Booking.PaymentTimeoutInMinutes) * time.Minute

	var session *models.Session
	err := uc.UnitOfWork.WithinTransaction(ctx, func(ctx context.Context, tx contracts.Store) error {
		slot, err := tx.Slots().FindByIDForUpdate(ctx, slotID)
		if err != nil {
			return err
		}
		if slot == nil {
			return exceptions.ErrSlotNotFound(slotID)
		}
		if slot.IsBooked {
			return exceptions.ErrSlotAlreadyBooked(slotID)
		}

		now := uc.Clock.Now()
		if slot.StartTime.Before(now.Add(notice)) {
			return exceptions.ErrSlotTooSoon(slotID, slot.StartTime.Format(time.RFC3339), uc.InternalConfig.Booking.AdvanceNoticeInHours)
		}
		if slot.MentorID == menteeID {
			return exceptions.ErrSelfBooking(menteeID)
		}

		mentor, err := tx.Mentors().FindByID(ctx, slot.MentorID)
		if err != nil {
			return err
		}
		if mentor == nil {
			return exceptions.ErrMentorNotFound(slot.MentorID)
		}
		price, ok := mentor.RateFor(slot.DurationMinutes)
		if !ok {
			return exceptions.ErrUnsupportedDuration(mentor.ID, slot.DurationMinutes)
		}

		// Two bookings by one mentee on different slots must see each other's session.
		if err := tx.AdvisoryLock(ctx, "mentee:"+menteeID); err != nil {
			return err
		}
		overlaps, err := tx.Sessions().HasMenteeOverlap(ctx, menteeID, slot.StartTime, slot.EndTime(), "")
		if err != nil {
			return err
		}
		if overlaps {
			return exceptions.ErrMenteeOverlap(menteeID)
		}

		session = &models.Session{
			ID:              utils.GenerateID(),
			MentorID:        slot.MentorID,
			MenteeID:        menteeID,
			StartTime:       slot.StartTime,
			EndTime:         slot.EndTime(),
			DurationMinutes: slot.DurationMinutes,
			Price:           price,
			Currency:        mentor.Currency,
			Status:          models.SessionStatusPending,
			TimeSlotID:      &slot.ID,
		}
		session.SetCreatedAtUpdatedAt(now)

		if err := tx.Sessions().Create(ctx, session); err != nil {
			return err
		}
		if err := uc.SlotUsecase.Reserve(ctx, tx, slot, session.ID); err != nil {
			return err
		}
		return uc.Scheduler.ScheduleOnce(ctx, tx, models.JobSessionPaymentTimeout, session.ID, paymentTimeout)
	})
	if err != nil {
		uc.Log.Error("bookingUsecase.BookSession failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSlotIDKey, slotID),
			zap.Error(err),
		)
		return nil, err
	}

	utils.LogBusinessEvent(uc.Log, "session_booked", requestID,
		zap.String(constvars.LoggingSessionIDKey, session.ID),
		zap.String(constvars.LoggingMentorIDKey, session.MentorID),
		zap.String(constvars.LoggingMenteeIDKey, menteeID),
		zap.String(constvars.LoggingAmountKey, session.Price.String()),
	)
	return session, nil
}

func (uc *bookingUsecase) GetSession(ctx context.Context, actor models.Actor, sessionID string) (*models.Session, error) {
	requestID := utils.RequestIDFromContext(ctx)
	uc.Log.Info("bookingUsecase.GetSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
	)

	session, err := uc.UnitOfWork.Store().Sessions().FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, exceptions.ErrSessionNotFound(sessionID)
	}
	if !session.CanAct(actor) {
		return nil, exceptions.ErrNotParticipant(actor.ID, sessionID)
	}
	return session, nil
}

// CompleteSession lets the mentor (or an admin) close a confirmed session once it has ended.
func (uc *bookingUsecase) CompleteSession(ctx context.Context, actor models.Actor, sessionID string) (*models.Session, error) {
	requestID := utils.RequestIDFromContext(ctx)
	uc.Log.Info("bookingUsecase.CompleteSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
	)

	var session *models.Session
	err := uc.UnitOfWork.WithinTransaction(ctx, func(ctx context.Context, tx contracts.Store) error {
		var err error
		session, err = tx.Sessions().FindByIDForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return exceptions.ErrSessionNotFound(sessionID)
		}
		if !actor.IsAdmin() && session.MentorID != actor.ID {
			return exceptions.ErrNotParticipant(actor.ID, sessionID)
		}
		if session.Status != models.SessionStatusConfirmed {
			return exceptions.ErrSessionState(sessionID, string(session.Status), string(models.SessionStatusConfirmed))
		}
		now := uc.Clock.Now()
		if now.Before(session.EndTime) {
			return exceptions.ErrSessionNotEnded(sessionID, session.EndTime.Format(time.RFC3339))
		}
		return uc.complete(ctx, tx, session, now)
	})
	if err != nil {
		uc.Log.Error("bookingUsecase.CompleteSession failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, sessionID),
			zap.Error(err),
		)
		return nil, err
	}
	return session, nil
}

// HandlePaymentTimeout cancels a session that still has no payment attached.
func (uc *bookingUsecase) HandlePaymentTimeout(ctx context.Context, sessionID string) error {
	requestID := utils.RequestIDFromContext(ctx)
	uc.Log.Info("bookingUsecase.HandlePaymentTimeout called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
	)

	return uc.UnitOfWork.WithinTransaction(ctx, func(ctx context.Context, tx contracts.Store) error {
		session, err := tx.Sessions().FindByIDForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		// A session with a payment is left to the capture timeout of that payment.
		if session == nil || session.Status != models.SessionStatusPending || session.PaymentID != nil {
			return nil
		}

		slotID := session.TimeSlotID
		session.Cancel(models.CancellationReasonPaymentTimeout, uc.Clock.Now())
		if err := tx.Sessions().Update(ctx, session); err != nil {
			return err
		}
		if slotID != nil {
			if err := uc.SlotUsecase.Release(ctx, tx, *slotID); err != nil {
				return err
			}
		}

		utils.LogBusinessEvent(uc.Log, "session_payment_timeout", requestID,
			zap.String(constvars.LoggingSessionIDKey, sessionID),
		)
		return nil
	})
}

func (uc *bookingUsecase) HandleAutoComplete(ctx context.Context, sessionID string) error {
	requestID := utils.RequestIDFromContext(ctx)
	uc.Log.Info("bookingUsecase.HandleAutoComplete called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
	)

	grace := time.Duration(uc.InternalConfig.Booking.AutoCompleteGraceInMinutes) * time.Minute
	return uc.UnitOfWork.WithinTransaction(ctx, func(ctx context.Context, tx contracts.Store) error {
		session, err := tx.Sessions().FindByIDForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return nil
		}

		now := uc.Clock.Now()
		switch session.Status {
		case models.SessionStatusPendingReschedule:
			// The request resolves within its own deadline; look again after it.
			autoReject := time.Duration(uc.InternalConfig.Reschedule.AutoRejectInHours) * time.Hour
			return uc.Scheduler.ScheduleOnce(ctx, tx, models.JobSessionAutoComplete, sessionID, autoReject+grace)
		case models.SessionStatusConfirmed:
		default:
			return nil
		}

		// An approved reschedule moved the session later and scheduled its own job.
		if now.Before(session.EndTime.Add(grace)) {
			return nil
		}
		return uc.complete(ctx, tx, session, now)
	})
}

func (uc *bookingUsecase) complete(ctx context.Context, tx contracts.Store, session *models.Session, now time.Time) error {
	session.Status = models.SessionStatusCompleted
	session.CompletedAt = &now
	session.SetUpdatedAt(now)
	if err := tx.Sessions().Update(ctx, session); err != nil {
		return err
	}
	if err := uc.BalanceUsecase.OnSessionCompleted(ctx, tx, session.ID); err != nil {
		return err
	}

	utils.LogBusinessEvent(uc.Log, "session_completed", utils.RequestIDFromContext(ctx),
		zap.String(constvars.LoggingSessionIDKey, session.ID),
		zap.String(constvars.LoggingMentorIDKey, session.MentorID),
	)
	return nil
}

package reschedules

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

	"go.uber.org/zap"
)

type rescheduleUsecase struct {
	UnitOfWork          contracts.UnitOfWork
	SlotUsecase         contracts.SlotUsecase
	Scheduler           contracts.Scheduler
	NotificationService contracts.NotificationService
	Clock               contracts.Clock
	InternalConfig      *config.InternalConfig
	Log                 *zap.Logger
}

func NewRescheduleUsecase(
	unitOfWork contracts.UnitOfWork,
	slotUsecase contracts.SlotUsecase,
	scheduler contracts.Scheduler,
	notificationService contracts.NotificationService,
	clock contracts.Clock,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.RescheduleUsecase {
	return &rescheduleUsecase{
		UnitOfWork:          unitOfWork,
		SlotUsecase:         slotUsecase,
		Scheduler:           scheduler,
		NotificationService: notificationService,
		Clock:               clock,
		InternalConfig:      internalConfig,
		Log:                 logger,
	}
}

func (uc *rescheduleUsecase) RequestReschedule(ctx context.Context, actor models.Actor, sessionID string, newStart time.Time, reason string) (*models.RescheduleRequest, error) {
	requestID := utils.RequestIDFromContext(ctx)
	uc.Log.Info("rescheduleUsecase.RequestReschedule called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
		zap.String(constvars.LoggingActorIDKey, actor.ID),
	)

	newStart = newStart.UTC()
	autoReject := time.Duration(uc.InternalConfig.Reschedule.AutoRejectInHours) * time.Hour
	notice := time.Duration(uc.InternalConfig.Booking.AdvanceNoticeInHours) * time.Hour

	var (
		request *models.RescheduleRequest
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
		if actor.IsAdmin() || !session.CanAct(actor) {
			return exceptions.ErrNotParticipant(actor.ID, sessionID)
		}

		switch session.Status {
		case models.SessionStatusConfirmed:
		case models.SessionStatusPendingReschedule:
			pending, err := tx.Reschedules().FindPendingBySessionID(ctx, sessionID)
			if err != nil {
				return err
			}
			pendingID := ""
			if pending != nil {
				pendingID = pending.ID
			}
			return exceptions.ErrReschedulePending(sessionID, pendingID)
		default:
			return exceptions.ErrSessionState(sessionID, string(session.Status), string(models.SessionStatusConfirmed))
		}

		now := uc.Clock.Now()
		if !now.Before(session.StartTime) {
			return exceptions.ErrSessionAlreadyStarted(sessionID, session.StartTime.Format(time.RFC3339))
		}
		if newStart.Before(now.Add(notice)) {
			return exceptions.ErrSlotTooSoon("", newStart.Format(time.RFC3339), uc.InternalConfig.Booking.AdvanceNoticeInHours)
		}
		if err := uc.ensureWindowFree(ctx, tx, session, newStart); err != nil {
			return err
		}

		request = &models.RescheduleRequest{
			ID:             utils.GenerateID(),
			SessionID:      sessionID,
			OriginalStart:  session.StartTime,
			RequestedStart: newStart,
			RequestedBy:    actor.Role,
			RequestedByID:  actor.ID,
			Reason:         reason,
			Status:         models.RescheduleStatusPending,
		}
		request.SetCreatedAtUpdatedAt(now)
		if err := tx.Reschedules().Create(ctx, request); err != nil {
			return err
		}

		session.Status = models.SessionStatusPendingReschedule
		session.SetUpdatedAt(now)
		if err := tx.Sessions().Update(ctx, session); err != nil {
			return err
		}
		return uc.Scheduler.ScheduleOnce(ctx, tx, models.JobRescheduleAutoResolve, request.ID, autoReject)
	})
	if err != nil {
		uc.Log.Error("rescheduleUsecase.RequestReschedule failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, sessionID),
			zap.Error(err),
		)
		return nil, err
	}

	utils.LogBusinessEvent(uc.Log, "reschedule_requested", requestID,
		zap.String(constvars.LoggingRescheduleIDKey, request.ID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
	)
	uc.NotificationService.NotifyUsers(ctx, []string{counterparty(session, actor.ID)},
		constvars.EmailSubjectRescheduleProposed,
		fmt.Sprintf(constvars.EmailBodyRescheduleProposed, actor.Role, sessionID,
			request.OriginalStart.Format(time.RFC1123), request.RequestedStart.Format(time.RFC1123)),
	)
	return request, nil
}

// Approve moves the session to the requested window on a fresh slot and frees the old one.
func (uc *rescheduleUsecase) Approve(ctx context.Context, actor models.Actor, rescheduleID string) (*models.RescheduleRequest, error) {
	requestID := utils.RequestIDFromContext(ctx)
	uc.Log.Info("rescheduleUsecase.Approve called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRescheduleIDKey, rescheduleID),
	)

	grace := time.Duration(uc.InternalConfig.Booking.AutoCompleteGraceInMinutes) * time.Minute

	var request *models.RescheduleRequest
	err := uc.UnitOfWork.WithinTransaction(ctx, func(ctx context.Context, tx contracts.Store) error {
		var (
			session *models.Session
			err     error
		)
		request, session, err = uc.loadForResolution(ctx, tx, actor, rescheduleID)
		if err != nil {
			return err
		}

		now := uc.Clock.Now()
		if !now.Before(request.RequestedStart) {
			return exceptions.ErrSessionAlreadyStarted(session.ID, request.RequestedStart.Format(time.RFC3339))
		}
		if err := uc.ensureWindowFree(ctx, tx, session, request.RequestedStart); err != nil {
			return err
		}

		slot := &models.TimeSlot{
			ID:              utils.GenerateID(),
			MentorID:        session.MentorID,
			StartTime:       request.RequestedStart,
			DurationMinutes: session.DurationMinutes,
		}
		slot.Book(session.ID)
		slot.SetCreatedAtUpdatedAt(now)
		if err := tx.Slots().Create(ctx, slot); err != nil {
			return err
		}
		if session.TimeSlotID != nil {
			if err := uc.SlotUsecase.Release(ctx, tx, *session.TimeSlotID); err != nil {
				return err
			}
		}

		session.StartTime = slot.StartTime
		session.EndTime = slot.EndTime()
		session.TimeSlotID = &slot.ID
		session.Status = models.SessionStatusConfirmed
		session.SetUpdatedAt(now)
		if err := tx.Sessions().Update(ctx, session); err != nil {
			return err
		}

		uc.resolve(request, models.RescheduleStatusApproved, &actor.ID, now)
		if err := tx.Reschedules().Update(ctx, request); err != nil {
			return err
		}
		return uc.Scheduler.ScheduleOnce(ctx, tx, models.JobSessionAutoComplete, session.ID, session.EndTime.Add(grace).Sub(now))
	})
	if err != nil {
		uc.Log.Error("rescheduleUsecase.Approve failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRescheduleIDKey, rescheduleID),
			zap.Error(err),
		)
		return nil, err
	}

	utils.LogBusinessEvent(uc.Log, "reschedule_approved", requestID,
		zap.String(constvars.LoggingRescheduleIDKey, rescheduleID),
		zap.String(constvars.LoggingSessionIDKey, request.SessionID),
	)
	uc.NotificationService.NotifyUsers(ctx, []string{request.RequestedByID},
		constvars.EmailSubjectRescheduleApproved,
		fmt.Sprintf(constvars.EmailBodyRescheduleApproved, request.SessionID, request.RequestedStart.Format(time.RFC1123)),
	)
	return request, nil
}

func (uc *rescheduleUsecase) Reject(ctx context.Context, actor models.Actor, rescheduleID string) (*models.RescheduleRequest, error) {
	requestID := utils.RequestIDFromContext(ctx)
	uc.Log.Info("rescheduleUsecase.Reject called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRescheduleIDKey, rescheduleID),
	)

	var request *models.RescheduleRequest
	err := uc.UnitOfWork.WithinTransaction(ctx, func(ctx context.Context, tx contracts.Store) error {
		var (
			session *models.Session
			err     error
		)
		request, session, err = uc.loadForResolution(ctx, tx, actor, rescheduleID)
		if err != nil {
			return err
		}
		return uc.reject(ctx, tx, request, session, &actor.ID)
	})
	if err != nil {
		uc.Log.Error("rescheduleUsecase.Reject failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRescheduleIDKey, rescheduleID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.notifyRejected(ctx, request)
	return request, nil
}

// HandleAutoResolve rejects a request nobody answered before its deadline.
func (uc *rescheduleUsecase) HandleAutoResolve(ctx context.Context, rescheduleID string) error {
	requestID := utils.RequestIDFromContext(ctx)
	uc.Log.Info("rescheduleUsecase.HandleAutoResolve called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRescheduleIDKey, rescheduleID),
	)

	var request *models.RescheduleRequest
	err := uc.UnitOfWork.WithinTransaction(ctx, func(ctx context.Context, tx contracts.Store) error {
		var err error
		request, err = tx.Reschedules().FindByIDForUpdate(ctx, rescheduleID)
		if err != nil {
			return err
		}
		if request == nil || request.Status != models.RescheduleStatusPending {
			request = nil
			return nil
		}
		session, err := tx.Sessions().FindByIDForUpdate(ctx, request.SessionID)
		if err != nil {
			return err
		}
		return uc.reject(ctx, tx, request, session, nil)
	})
	if err != nil {
		return err
	}
	if request != nil {
		uc.notifyRejected(ctx, request)
	}
	return nil
}

// loadForResolution locks a pending request and its session and checks the actor is the
// counter-party of the requester or an admin.
func (uc *rescheduleUsecase) loadForResolution(ctx context.Context, tx contracts.Store, actor models.Actor, rescheduleID string) (*models.RescheduleRequest, *models.Session, error) {
	request, err := tx.Reschedules().FindByIDForUpdate(ctx, rescheduleID)
	if err != nil {
		return nil, nil, err
	}
	if request == nil {
		return nil, nil, exceptions.ErrRescheduleNotFound(rescheduleID)
	}
	if request.Status != models.RescheduleStatusPending {
		return nil, nil, exceptions.ErrRescheduleResolved(rescheduleID, string(request.Status))
	}

	session, err := tx.Sessions().FindByIDForUpdate(ctx, request.SessionID)
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, exceptions.ErrSessionNotFound(request.SessionID)
	}
	if !actor.IsAdmin() && (!session.CanAct(actor) || actor.ID == request.RequestedByID) {
		return nil, nil, exceptions.ErrNotParticipant(actor.ID, session.ID)
	}
	return request, session, nil
}

func (uc *rescheduleUsecase) reject(ctx context.Context, tx contracts.Store, request *models.RescheduleRequest, session *models.Session, resolvedBy *string) error {
	now := uc.Clock.Now()
	if session != nil && session.Status == models.SessionStatusPendingReschedule {
		session.Status = models.SessionStatusConfirmed
		session.SetUpdatedAt(now)
		if err := tx.Sessions().Update(ctx, session); err != nil {
			return err
		}
	}

	uc.resolve(request, models.RescheduleStatusRejected, resolvedBy, now)
	if err := tx.Reschedules().Update(ctx, request); err != nil {
		return err
	}

	utils.LogBusinessEvent(uc.Log, "reschedule_rejected", utils.RequestIDFromContext(ctx),
		zap.String(constvars.LoggingRescheduleIDKey, request.ID),
		zap.Bool("automatic", resolvedBy == nil),
	)
	return nil
}

func (uc *rescheduleUsecase) resolve(request *models.RescheduleRequest, status models.RescheduleStatus, resolvedBy *string, now time.Time) {
	request.Status = status
	request.ResolvedByID = resolvedBy
	request.ResolvedAt = &now
	request.SetUpdatedAt(now)
}

// ensureWindowFree checks neither participant has anything else in the session's new window.
func (uc *rescheduleUsecase) ensureWindowFree(ctx context.Context, tx contracts.Store, session *models.Session, newStart time.Time) error {
	newEnd := newStart.Add(time.Duration(session.DurationMinutes) * time.Minute)
	ownSlotID := ""
	if session.TimeSlotID != nil {
		ownSlotID = *session.TimeSlotID
	}

	if err := tx.AdvisoryLock(ctx, "mentor:"+session.MentorID); err != nil {
		return err
	}
	slotTaken, err := tx.Slots().HasOverlap(ctx, session.MentorID, newStart, newEnd, ownSlotID)
	if err != nil {
		return err
	}
	mentorBusy, err := tx.Sessions().HasMentorOverlap(ctx, session.MentorID, newStart, newEnd, session.ID)
	if err != nil {
		return err
	}
	if slotTaken || mentorBusy {
		return exceptions.ErrMentorBusy(session.MentorID)
	}

	if err := tx.AdvisoryLock(ctx, "mentee:"+session.MenteeID); err != nil {
		return err
	}
	menteeBusy, err := tx.Sessions().HasMenteeOverlap(ctx, session.MenteeID, newStart, newEnd, session.ID)
	if err != nil {
		return err
	}
	if menteeBusy {
		return exceptions.ErrMenteeOverlap(session.MenteeID)
	}
	return nil
}

func (uc *rescheduleUsecase) notifyRejected(ctx context.Context, request *models.RescheduleRequest) {
	uc.NotificationService.NotifyUsers(ctx, []string{request.RequestedByID},
		constvars.EmailSubjectRescheduleRejected,
		fmt.Sprintf(constvars.EmailBodyRescheduleRejected, request.SessionID, request.OriginalStart.Format(time.RFC1123)),
	)
}

func counterparty(session *models.Session, actorID string) string {
	if session.MentorID == actorID {
		return session.MenteeID
	}
	return session.MentorID
}

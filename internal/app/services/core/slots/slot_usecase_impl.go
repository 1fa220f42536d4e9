package slots

import (
	"context"
	"mentorship-service/internal/app/contracts"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/pkg/constvars"
	"mentorship-service/internal/pkg/dto/requests"
	"mentorship-service/internal/pkg/exceptions"
	"mentorship-service/internal/pkg/utils"
	"time"

	"go.uber.org/zap"
)

type slotUsecase struct {
	UnitOfWork contracts.UnitOfWork
	Clock      contracts.Clock
	Log        *zap.Logger
}

func NewSlotUsecase(unitOfWork contracts.UnitOfWork, clock contracts.Clock, logger *zap.Logger) contracts.SlotUsecase {
	return &slotUsecase{
		UnitOfWork: unitOfWork,
		Clock:      clock,
		Log:        logger,
	}
}

func (uc *slotUsecase) CreateSlot(ctx context.Context, actor models.Actor, request *requests.CreateSlot) (*models.TimeSlot, error) {
	requestID := utils.RequestIDFromContext(ctx)
	uc.Log.Info("slotUsecase.CreateSlot called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingActorIDKey, actor.ID),
	)

	mentorID := request.MentorID
	switch {
	case actor.Role == models.ActorRoleMentor && (mentorID == "" || mentorID == actor.ID):
		mentorID = actor.ID
	case actor.IsAdmin() && mentorID != "":
	default:
		uc.Log.Error("slotUsecase.CreateSlot actor cannot publish for mentor",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingActorIDKey, actor.ID),
			zap.String(constvars.LoggingMentorIDKey, mentorID),
		)
		return nil, exceptions.ErrAccessDenied(nil)
	}

	now := uc.Clock.Now()
	slot := &models.TimeSlot{
		ID:              utils.GenerateID(),
		MentorID:        mentorID,
		StartTime:       request.StartTime.UTC(),
		DurationMinutes: request.DurationMinutes,
	}
	slot.SetCreatedAtUpdatedAt(now)

	err := uc.UnitOfWork.WithinTransaction(ctx, func(ctx context.Context, tx contracts.Store) error {
		mentor, err := tx.Mentors().FindByID(ctx, mentorID)
		if err != nil {
			return err
		}
		if mentor == nil {
			return exceptions.ErrMentorNotFound(mentorID)
		}

		// Serializes concurrent publishes by the same mentor so the overlap check holds.
		if err := tx.AdvisoryLock(ctx, "mentor:"+mentorID); err != nil {
			return err
		}

		overlaps, err := tx.Slots().HasOverlap(ctx, mentorID, slot.StartTime, slot.EndTime(), "")
		if err != nil {
			return err
		}
		if overlaps {
			return exceptions.ErrSlotOverlap(mentorID)
		}

		return tx.Slots().Create(ctx, slot)
	})
	if err != nil {
		uc.Log.Error("slotUsecase.CreateSlot failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingMentorIDKey, mentorID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("slotUsecase.CreateSlot succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSlotIDKey, slot.ID),
	)
	return slot, nil
}

func (uc *slotUsecase) ListAvailableSlots(ctx context.Context, mentorID string, from, to time.Time) ([]models.TimeSlot, error) {
	requestID := utils.RequestIDFromContext(ctx)
	uc.Log.Info("slotUsecase.ListAvailableSlots called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingMentorIDKey, mentorID),
	)

	now := uc.Clock.Now()
	if from.IsZero() || from.Before(now) {
		from = now
	}
	if to.IsZero() {
		to = from.AddDate(0, 0, 30)
	}

	slots, err := uc.UnitOfWork.Store().Slots().FindAvailableByMentorID(ctx, mentorID, from, to)
	if err != nil {
		uc.Log.Error("slotUsecase.ListAvailableSlots error fetching slots",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	return slots, nil
}

func (uc *slotUsecase) Reserve(ctx context.Context, tx contracts.Store, slot *models.TimeSlot, sessionID string) error {
	requestID := utils.RequestIDFromContext(ctx)
	if slot.IsBooked {
		uc.Log.Error("slotUsecase.Reserve slot already booked",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSlotIDKey, slot.ID),
		)
		return exceptions.ErrSlotAlreadyBooked(slot.ID)
	}

	slot.Book(sessionID)
	slot.SetUpdatedAt(uc.Clock.Now())
	if err := tx.Slots().Update(ctx, slot); err != nil {
		return err
	}

	uc.Log.Info("slotUsecase.Reserve succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSlotIDKey, slot.ID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
	)
	return nil
}

// Release is a no-op for a slot that no longer exists or is already free.
func (uc *slotUsecase) Release(ctx context.Context, tx contracts.Store, slotID string) error {
	requestID := utils.RequestIDFromContext(ctx)
	slot, err := tx.Slots().FindByIDForUpdate(ctx, slotID)
	if err != nil {
		return err
	}
	if slot == nil || !slot.IsBooked {
		return nil
	}

	slot.Free()
	slot.SetUpdatedAt(uc.Clock.Now())
	if err := tx.Slots().Update(ctx, slot); err != nil {
		return err
	}

	uc.Log.Info("slotUsecase.Release succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSlotIDKey, slotID),
	)
	return nil
}

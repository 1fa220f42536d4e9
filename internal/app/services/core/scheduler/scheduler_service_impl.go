package scheduler

import (
	"context"
	"mentorship-service/internal/app/contracts"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/pkg/constvars"
	"mentorship-service/internal/pkg/utils"
	"time"

	"go.uber.org/zap"
)

type schedulerService struct {
	Clock contracts.Clock
	Log   *zap.Logger
}

func NewSchedulerService(clock contracts.Clock, logger *zap.Logger) contracts.Scheduler {
	return &schedulerService{
		Clock: clock,
		Log:   logger,
	}
}

func (s *schedulerService) ScheduleOnce(ctx context.Context, tx contracts.Store, operation models.JobOperation, entityID string, delay time.Duration) error {
	if delay < 0 {
		delay = 0
	}

	now := s.Clock.Now()
	job := &models.ScheduledJob{
		ID:        utils.GenerateID(),
		Operation: operation,
		EntityID:  entityID,
		RunAt:     now.Add(delay),
		Status:    models.JobStatusPending,
	}
	job.SetCreatedAtUpdatedAt(now)

	if err := tx.Jobs().Create(ctx, job); err != nil {
		return err
	}

	s.Log.Info("schedulerService.ScheduleOnce job scheduled",
		zap.String(constvars.LoggingRequestIDKey, utils.RequestIDFromContext(ctx)),
		zap.String(constvars.LoggingJobIDKey, job.ID),
		zap.String(constvars.LoggingJobOperationKey, string(operation)),
		zap.Time("run_at", job.RunAt),
	)
	return nil
}

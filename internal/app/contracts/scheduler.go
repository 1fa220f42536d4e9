package contracts

import (
	"context"
	"mentorship-service/internal/app/models"
	"time"
)

// Scheduler records a one-shot invocation inside tx so it commits with the state that needs it.
type Scheduler interface {
	ScheduleOnce(ctx context.Context, tx Store, operation models.JobOperation, entityID string, delay time.Duration) error
}

type JobHandler func(ctx context.Context, entityID string) error

type JobDispatcher interface {
	Register(operation models.JobOperation, handler JobHandler)
	Dispatch(ctx context.Context, job models.ScheduledJob) error
}

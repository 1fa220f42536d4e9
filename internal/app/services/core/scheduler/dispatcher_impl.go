package scheduler

import (
	"context"
	"fmt"
	"mentorship-service/internal/app/contracts"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/pkg/exceptions"
	"sync"
)

type dispatcher struct {
	mu       sync.RWMutex
	handlers map[models.JobOperation]contracts.JobHandler
}

func NewDispatcher() contracts.JobDispatcher {
	return &dispatcher{
		handlers: make(map[models.JobOperation]contracts.JobHandler),
	}
}

func (d *dispatcher) Register(operation models.JobOperation, handler contracts.JobHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[operation] = handler
}

// Dispatch runs the handler registered for the job's operation. A panicking handler
// is reported as an error so the worker can retry it.
func (d *dispatcher) Dispatch(ctx context.Context, job models.ScheduledJob) (err error) {
	d.mu.RLock()
	handler, ok := d.handlers[job.Operation]
	d.mu.RUnlock()
	if !ok {
		return exceptions.ErrUnknownJobOperation(string(job.Operation))
	}

	defer func() {
		if r := recover(); r != nil {
			err = exceptions.ErrServerProcess(fmt.Errorf("job %s panicked: %v", job.ID, r))
		}
	}()
	return handler(ctx, job.EntityID)
}

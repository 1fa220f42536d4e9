package scheduler

import (
	"context"
	"mentorship-service/internal/app/config"
	"mentorship-service/internal/app/contracts"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/pkg/constvars"
	"mentorship-service/internal/pkg/utils"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// leaderLockKey keeps a single instance polling due jobs at a time.
const leaderLockKey = "scheduler:leader"

// Worker periodically claims due scheduled jobs and dispatches them.
type Worker struct {
	log        *zap.Logger
	cfg        *config.InternalConfig
	locker     contracts.LockerService
	unitOfWork contracts.UnitOfWork
	dispatcher contracts.JobDispatcher
	clock      contracts.Clock
	cron       *cron.Cron
	runCtx     context.Context
	cancel     context.CancelFunc
}

func NewWorker(log *zap.Logger, cfg *config.InternalConfig, lockerSvc contracts.LockerService, unitOfWork contracts.UnitOfWork, dispatcher contracts.JobDispatcher, clock contracts.Clock) *Worker {
	return &Worker{
		log:        log,
		cfg:        cfg,
		locker:     lockerSvc,
		unitOfWork: unitOfWork,
		dispatcher: dispatcher,
		clock:      clock,
	}
}

func (w *Worker) Start(ctx context.Context) {
	w.runCtx, w.cancel = context.WithCancel(ctx)
	c := cron.New()
	spec := w.cfg.Scheduler.CronSpec
	_, err := c.AddFunc(spec, func() { w.runOnce(w.runCtx) })
	if err != nil {
		w.log.Warn("scheduler.worker: invalid cron spec; falling back to @every 1m", zap.String("cron_spec", spec), zap.Error(err))
		c = cron.New()
		_, _ = c.AddFunc("@every 1m", func() { w.runOnce(w.runCtx) })
	}
	c.Start()
	w.cron = c
}

// Stop cancels the run context and waits for an in-flight poll to finish. It is safe to call twice.
func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	if w.cron != nil {
		ctx := w.cron.Stop()
		<-ctx.Done()
	}
}

func (w *Worker) runOnce(ctx context.Context) {
	ttl := 2 * time.Minute
	acquired, token, err := w.locker.TryLock(ctx, leaderLockKey, ttl)
	if err != nil {
		w.log.Warn("scheduler.worker: leader lock attempt failed", zap.Error(err))
		return
	}
	if !acquired {
		w.log.Debug("scheduler.worker: leader lock not acquired; another instance is polling")
		return
	}
	defer w.locker.Unlock(ctx, leaderLockKey, token)

	refreshCtx, cancelRefresh := context.WithCancel(ctx)
	defer cancelRefresh()
	go func() {
		tick := time.NewTicker(ttl / 2)
		defer tick.Stop()
		for {
			select {
			case <-refreshCtx.Done():
				return
			case <-tick.C:
				if err := w.locker.Refresh(ctx, leaderLockKey, token, ttl); err != nil {
					w.log.Warn("scheduler.worker: failed to refresh leader lock TTL", zap.Error(err))
				}
			}
		}
	}()

	w.RunDue(ctx)
}

// RunDue claims one batch of due jobs and runs each to completion. It returns how many ran.
func (w *Worker) RunDue(ctx context.Context) int {
	now := w.clock.Now()
	staleBefore := now.Add(-time.Duration(w.cfg.Scheduler.StaleAfterInMinutes) * time.Minute)
	batchSize := w.cfg.Scheduler.BatchSize
	if batchSize <= 0 {
		batchSize = 1
	}

	jobs, err := w.unitOfWork.Store().Jobs().ClaimDue(ctx, now, staleBefore, batchSize)
	if err != nil {
		w.log.Error("scheduler.worker: claim due jobs failed", zap.Error(err))
		return 0
	}

	for _, job := range jobs {
		select {
		case <-ctx.Done():
			return 0
		default:
		}
		w.runJob(ctx, job)
	}
	return len(jobs)
}

func (w *Worker) runJob(ctx context.Context, job models.ScheduledJob) {
	jobCtx := utils.ContextWithRequestID(ctx, "job-"+job.ID)
	fields := []zap.Field{
		zap.String(constvars.LoggingRequestIDKey, "job-"+job.ID),
		zap.String(constvars.LoggingJobIDKey, job.ID),
		zap.String(constvars.LoggingJobOperationKey, string(job.Operation)),
		zap.Int(constvars.LoggingJobAttemptsKey, job.Attempts),
	}

	err := w.dispatcher.Dispatch(jobCtx, job)
	now := w.clock.Now()
	job.SetUpdatedAt(now)
	switch {
	case err == nil:
		job.Status = models.JobStatusDone
		job.LastError = ""
		w.log.Info("scheduler.worker: job done", fields...)
	case job.Attempts >= w.cfg.Scheduler.MaxAttempts:
		job.Status = models.JobStatusDead
		job.LastError = err.Error()
		w.log.Error("scheduler.worker: job exhausted its attempts", append(fields, zap.Error(err))...)
	default:
		backoff := time.Duration(w.cfg.Scheduler.RetryBackoffInSeconds*job.Attempts) * time.Second
		job.Status = models.JobStatusPending
		job.RunAt = now.Add(backoff)
		job.LastError = err.Error()
		w.log.Warn("scheduler.worker: job failed; retrying", append(fields, zap.Duration("backoff", backoff), zap.Error(err))...)
	}

	if err := w.unitOfWork.Store().Jobs().Update(ctx, &job); err != nil {
		w.log.Error("scheduler.worker: failed to record job outcome", append(fields, zap.Error(err))...)
	}
}

package webhooks

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

const workerLockKey = "webhook:retry:lock"

// Worker replays provider callbacks whose first processing failed, with at-least-once semantics.
type Worker struct {
	log      *zap.Logger
	cfg      *config.InternalConfig
	locker   contracts.LockerService
	queue    contracts.WebhookRetryQueue
	payments contracts.PaymentUsecase
	stop     chan struct{}
}

func NewWorker(log *zap.Logger, cfg *config.InternalConfig, lockerSvc contracts.LockerService, queue contracts.WebhookRetryQueue, payments contracts.PaymentUsecase) *Worker {
	return &Worker{
		log:      log,
		cfg:      cfg,
		locker:   lockerSvc,
		queue:    queue,
		payments: payments,
		stop:     make(chan struct{}),
	}
}

// Start begins the ticker loop. It returns a stop function to halt execution.
func (w *Worker) Start(ctx context.Context) (stop func()) {
	interval := time.Duration(w.cfg.Webhook.TickIntervalInSeconds) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)

	w.log.Info("webhook.worker started", zap.Duration("interval", interval))

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.stop:
				return
			case <-ticker.C:
				w.RunOnce(ctx, interval)
			}
		}
	}()

	return func() {
		select {
		case <-w.stop:
		default:
			close(w.stop)
		}
	}
}

// RunOnce replays one batch from the retry queue while holding the worker lock.
func (w *Worker) RunOnce(ctx context.Context, ttl time.Duration) {
	if ttl < time.Second {
		ttl = time.Second
	}
	acquired, lockVal, err := w.locker.TryLock(ctx, workerLockKey, ttl)
	if err != nil {
		w.log.Warn("webhook.worker lock attempt failed", zap.Error(err))
		return
	}
	if !acquired {
		w.log.Debug("webhook.worker lock not acquired; another instance is running")
		return
	}
	defer func() {
		if err := w.locker.Unlock(ctx, workerLockKey, lockVal); err != nil {
			w.log.Error("webhook.worker unlock failed", zap.Error(err))
		}
	}()

	max := w.cfg.Webhook.MaxQueue
	if max <= 0 {
		max = 1
	}
	items, err := w.queue.FetchN(ctx, max)
	if err != nil {
		w.log.Error("webhook.worker fetch failed", zap.Error(err))
		return
	}

	for _, item := range items {
		w.processItem(ctx, item)
	}
}

func (w *Worker) processItem(ctx context.Context, item models.QueuedWebhook) {
	msg := item.Message
	ctx = utils.ContextWithRequestID(ctx, "webhook-retry-"+msg.ID)
	fields := []zap.Field{
		zap.String(constvars.LoggingMessageIDKey, msg.ID),
		zap.String(constvars.LoggingProviderKey, msg.Provider),
		zap.Int(constvars.LoggingFailedCountKey, msg.FailedCount),
	}

	err := w.payments.ReplayWebhook(ctx, msg)
	if err == nil {
		if ackErr := w.queue.Ack(ctx, item.DeliveryTag); ackErr != nil {
			w.log.Warn("webhook.worker ack failed after success", append(fields, zap.Error(ackErr))...)
		}
		w.log.Info("webhook.worker replayed callback", fields...)
		return
	}

	msg.FailedCount++
	msg.LastError = err.Error()
	rejected := exceptions.IsKind(err, exceptions.KindUnauthorized) || exceptions.IsKind(err, exceptions.KindValidation)
	if rejected || msg.FailedCount >= w.cfg.Webhook.ThrottleRetry {
		if dlqErr := w.queue.EnqueueToDeadQueue(ctx, msg); dlqErr != nil {
			w.log.Error("webhook.worker enqueue to DLQ failed", append(fields, zap.Error(dlqErr))...)
			return
		}
		_ = w.queue.Ack(ctx, item.DeliveryTag)
		w.log.Warn("webhook.worker moved callback to DLQ", append(fields, zap.Error(err))...)
		return
	}

	if requeueErr := w.queue.Reenqueue(ctx, msg); requeueErr != nil {
		w.log.Error("webhook.worker reenqueue failed", append(fields, zap.Error(requeueErr))...)
		return
	}
	_ = w.queue.Ack(ctx, item.DeliveryTag)
	w.log.Warn("webhook.worker replay failed; requeued", append(fields, zap.Error(err))...)
}

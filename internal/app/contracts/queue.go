package contracts

import (
	"context"
	"mentorship-service/internal/app/models"
)

type WebhookRetryQueue interface {
	Enqueue(ctx context.Context, message models.WebhookRetryMessage) error
	// Reenqueue publishes the message to the tail of the retry queue.
	Reenqueue(ctx context.Context, message models.WebhookRetryMessage) error
	EnqueueToDeadQueue(ctx context.Context, message models.WebhookRetryMessage) error
	FetchN(ctx context.Context, max int) ([]models.QueuedWebhook, error)
	Ack(ctx context.Context, deliveryTag uint64) error
}

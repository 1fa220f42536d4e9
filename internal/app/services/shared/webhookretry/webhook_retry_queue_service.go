package webhookretry

import (
	"context"
	"fmt"
	"mentorship-service/internal/app/contracts"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/pkg/constvars"
	"mentorship-service/internal/pkg/exceptions"
	"sync"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Service manages the webhook retry queue and its dead-letter queue.
type Service struct {
	ch              *amqp.Channel
	log             *zap.Logger
	queueName       string
	deadLetterQueue string
	confirms        chan amqp.Confirmation
	mu              sync.Mutex
}

// NewService declares both durable queues, sets QoS and enables publisher confirms.
func NewService(conn *amqp.Connection, log *zap.Logger, queueName, deadLetterQueue string, prefetch int) (contracts.WebhookRetryQueue, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	for _, name := range []string{queueName, deadLetterQueue} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return nil, err
		}
	}

	if prefetch <= 0 {
		prefetch = 1
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		return nil, err
	}

	return &Service{
		ch:              ch,
		log:             log,
		queueName:       queueName,
		deadLetterQueue: deadLetterQueue,
		confirms:        ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
	}, nil
}

func (s *Service) Enqueue(ctx context.Context, message models.WebhookRetryMessage) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("WebhookRetryQueue.Enqueue called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingMessageIDKey, message.ID),
		zap.String(constvars.LoggingProviderKey, message.Provider),
	)
	return s.publish(ctx, s.queueName, message)
}

func (s *Service) Reenqueue(ctx context.Context, message models.WebhookRetryMessage) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("WebhookRetryQueue.Reenqueue called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingMessageIDKey, message.ID),
		zap.Int(constvars.LoggingFailedCountKey, message.FailedCount),
	)
	return s.publish(ctx, s.queueName, message)
}

func (s *Service) EnqueueToDeadQueue(ctx context.Context, message models.WebhookRetryMessage) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Warn("WebhookRetryQueue.EnqueueToDeadQueue called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingMessageIDKey, message.ID),
		zap.Int(constvars.LoggingFailedCountKey, message.FailedCount),
	)
	return s.publish(ctx, s.deadLetterQueue, message)
}

// FetchN retrieves up to max messages using basic.get without auto-ack.
func (s *Service) FetchN(ctx context.Context, max int) ([]models.QueuedWebhook, error) {
	if max <= 0 {
		max = 1
	}
	items := make([]models.QueuedWebhook, 0, max)

	for i := 0; i < max; i++ {
		d, ok, err := s.ch.Get(s.queueName, false)
		if err != nil {
			return nil, exceptions.ErrRabbitMQFetchMessage(err, s.queueName)
		}
		if !ok {
			break
		}

		var message models.WebhookRetryMessage
		if err := json.Unmarshal(d.Body, &message); err != nil {
			// poison message: park it in the DLQ instead of looping on it
			_ = d.Ack(false)
			_ = s.publishRaw(ctx, s.deadLetterQueue, d.Body)
			continue
		}
		items = append(items, models.QueuedWebhook{DeliveryTag: d.DeliveryTag, Message: message})
	}
	return items, nil
}

func (s *Service) Ack(ctx context.Context, deliveryTag uint64) error {
	if err := s.ch.Ack(deliveryTag, false); err != nil {
		return exceptions.ErrRabbitMQFetchMessage(err, s.queueName)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, queue string, message models.WebhookRetryMessage) error {
	body, err := json.Marshal(message)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}
	return s.publishRaw(ctx, queue, body)
}

// publishRaw publishes a persistent message and waits for the broker confirm.
func (s *Service) publishRaw(ctx context.Context, queue string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := amqp.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp.Persistent,
	}
	if err := s.ch.PublishWithContext(ctx, "", queue, false, false, msg); err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, queue)
	}

	select {
	case confirmed := <-s.confirms:
		if !confirmed.Ack {
			return exceptions.ErrRabbitMQPublishMessage(fmt.Errorf("message not confirmed"), queue)
		}
	case <-ctx.Done():
		return exceptions.ErrRabbitMQPublishMessage(ctx.Err(), queue)
	}
	return nil
}

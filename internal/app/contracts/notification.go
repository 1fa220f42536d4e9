package contracts

import (
	"context"
	"mentorship-service/internal/app/models"
)

// Notifier delivers a single message. Callers treat failures as non-fatal.
type Notifier interface {
	Send(ctx context.Context, recipient, subject, text, html string) error
}

type UserDirectory interface {
	FindContact(ctx context.Context, userID string) (*models.Contact, error)
}

// NotificationService resolves user contacts and sends best-effort messages.
type NotificationService interface {
	NotifyUsers(ctx context.Context, userIDs []string, subject, text string)
}

type VideoLinkGenerator interface {
	Generate(ctx context.Context, session *models.Session) (string, error)
}

package notification

import (
	"context"
	"mentorship-service/internal/app/contracts"
	"mentorship-service/internal/pkg/constvars"

	"go.uber.org/zap"
)

type notificationService struct {
	Directory contracts.UserDirectory
	Notifier  contracts.Notifier
	Log       *zap.Logger
}

func NewNotificationService(directory contracts.UserDirectory, notifier contracts.Notifier, logger *zap.Logger) contracts.NotificationService {
	return &notificationService{
		Directory: directory,
		Notifier:  notifier,
		Log:       logger,
	}
}

// NotifyUsers never returns an error; delivery problems are logged per recipient.
func (s *notificationService) NotifyUsers(ctx context.Context, userIDs []string, subject, text string) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	for _, userID := range userIDs {
		contact, err := s.Directory.FindContact(ctx, userID)
		if err != nil {
			s.Log.Warn("notificationService.NotifyUsers error resolving contact",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingRecipientKey, userID),
				zap.Error(err),
			)
			continue
		}
		if contact == nil || contact.Email == "" {
			s.Log.Warn("notificationService.NotifyUsers no contact for user",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingRecipientKey, userID),
			)
			continue
		}

		if err := s.Notifier.Send(ctx, contact.Email, subject, text, ""); err != nil {
			s.Log.Warn("notificationService.NotifyUsers error sending notification",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingRecipientKey, userID),
				zap.Error(err),
			)
		}
	}
}

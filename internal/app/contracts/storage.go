package contracts

import (
	"context"
	"mentorship-service/internal/app/models"
	"time"
)

type EvidenceStorage interface {
	Upload(ctx context.Context, disputeID string, file models.EvidenceFile) (string, error)
	PresignedURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error)
}

type WebhookArchive interface {
	Archive(ctx context.Context, event *models.WebhookEvent) error
}

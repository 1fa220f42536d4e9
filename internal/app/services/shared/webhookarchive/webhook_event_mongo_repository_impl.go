package webhookarchive

import (
	"context"
	"mentorship-service/internal/app/contracts"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/mongo"
)

type WebhookEventMongoRepository struct {
	Collection *mongo.Collection
}

func NewWebhookEventMongoRepository(db *mongo.Client, dbName, collection string) contracts.WebhookArchive {
	return &WebhookEventMongoRepository{
		Collection: db.Database(dbName).Collection(collection),
	}
}

func (repo *WebhookEventMongoRepository) Archive(ctx context.Context, event *models.WebhookEvent) error {
	_, err := repo.Collection.InsertOne(ctx, event)
	if err != nil {
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}

package userdirectory

import (
	"context"
	"mentorship-service/internal/app/contracts"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserMongoRepository struct {
	Collection *mongo.Collection
}

func NewUserMongoRepository(db *mongo.Client, dbName, collection string) contracts.UserDirectory {
	return &UserMongoRepository{
		Collection: db.Database(dbName).Collection(collection),
	}
}

func (repo *UserMongoRepository) FindContact(ctx context.Context, userID string) (*models.Contact, error) {
	var contact models.Contact
	opts := options.FindOne().SetProjection(bson.M{"user_id": 1, "email": 1, "name": 1})
	err := repo.Collection.FindOne(ctx, bson.M{"user_id": userID}, opts).Decode(&contact)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &contact, nil
}

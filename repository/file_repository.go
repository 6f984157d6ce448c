package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ShehanaHewage/TheCloset/models"
)

// FileRepository records metadata for uploaded files.
type FileRepository interface {
	Create(ctx context.Context, file *models.StoredFile) (primitive.ObjectID, error)
}

// MongoFileRepository implements FileRepository on the files collection.
type MongoFileRepository struct {
	collection *mongo.Collection
}

// NewMongoFileRepository creates a FileRepository backed by db.
func NewMongoFileRepository(db *mongo.Database) *MongoFileRepository {
	return &MongoFileRepository{collection: db.Collection("files")}
}

func (r *MongoFileRepository) Create(ctx context.Context, file *models.StoredFile) (primitive.ObjectID, error) {
	res, err := r.collection.InsertOne(ctx, file)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

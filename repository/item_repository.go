package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ShehanaHewage/TheCloset/models"
)

// ErrInsufficientStock is returned when a conditional stock decrement does not
// match because the item holds fewer pieces than requested.
var ErrInsufficientStock = errors.New("insufficient stock")

// StockAdjustment is one signed stock delta applied to an item.
type StockAdjustment struct {
	ItemID primitive.ObjectID
	Delta  int
}

// ItemRepository defines data access for catalog items.
type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Item, error)
	FindByCode(ctx context.Context, code string) (*models.Item, error)
	Find(ctx context.Context, filter models.ItemFilter, page, limit int) ([]models.Item, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, updates bson.M) (int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	DecrementStockIfAvailable(ctx context.Context, id primitive.ObjectID, pieces int) error
	IncrementStock(ctx context.Context, id primitive.ObjectID, pieces int) error
	AdjustStockBulk(ctx context.Context, adjustments []StockAdjustment) error
}

// MongoItemRepository implements ItemRepository on the clothingItems collection.
type MongoItemRepository struct {
	collection *mongo.Collection
}

// NewMongoItemRepository creates an ItemRepository backed by db.
func NewMongoItemRepository(db *mongo.Database) *MongoItemRepository {
	return &MongoItemRepository{collection: db.Collection("clothingItems")}
}

func (r *MongoItemRepository) Create(ctx context.Context, item *models.Item) (primitive.ObjectID, error) {
	res, err := r.collection.InsertOne(ctx, item)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (r *MongoItemRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Item, error) {
	var item models.Item
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *MongoItemRepository) FindByCode(ctx context.Context, code string) (*models.Item, error) {
	var item models.Item
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Find returns one page of items matching filter, newest first, plus the total
// count of the matching set.
func (r *MongoItemRepository) Find(ctx context.Context, filter models.ItemFilter, page, limit int) ([]models.Item, int64, error) {
	query := buildItemQuery(filter)

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	items := []models.Item{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, err
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *MongoItemRepository) Update(ctx context.Context, id primitive.ObjectID, updates bson.M) (int64, error) {
	updates["updatedAt"] = time.Now().UTC()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func (r *MongoItemRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DecrementStockIfAvailable atomically decrements stock by pieces, guarded by
// a stock >= pieces match. Callers must have verified the item exists; a
// non-matching update therefore means the stock ran out.
func (r *MongoItemRepository) DecrementStockIfAvailable(ctx context.Context, id primitive.ObjectID, pieces int) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "stock": bson.M{"$gte": pieces}},
		bson.M{
			"$inc": bson.M{"stock": -pieces},
			"$set": bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// IncrementStock adds pieces back to an item's stock (rollback path).
func (r *MongoItemRepository) IncrementStock(ctx context.Context, id primitive.ObjectID, pieces int) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{"stock": pieces},
			"$set": bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	return err
}

// AdjustStockBulk applies all adjustments in a single unordered bulk write, so
// a cancel/un-cancel transition issues one store round trip instead of N
// independent updates.
func (r *MongoItemRepository) AdjustStockBulk(ctx context.Context, adjustments []StockAdjustment) error {
	if len(adjustments) == 0 {
		return nil
	}

	now := time.Now().UTC()
	writes := make([]mongo.WriteModel, 0, len(adjustments))
	for _, adj := range adjustments {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": adj.ItemID}).
			SetUpdate(bson.M{
				"$inc": bson.M{"stock": adj.Delta},
				"$set": bson.M{"updatedAt": now},
			}))
	}

	_, err := r.collection.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	return err
}

func buildItemQuery(filter models.ItemFilter) bson.M {
	query := bson.M{}
	if filter.Code != "" {
		query["code"] = filter.Code
	}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if filter.Size != "" {
		query["size"] = filter.Size
	}
	if filter.Title != "" {
		// Literal substring match; user input must not be a pattern.
		query["title"] = bson.M{"$regex": regexp.QuoteMeta(filter.Title), "$options": "i"}
	}
	if filter.StartPrice != nil || filter.EndPrice != nil {
		price := bson.M{}
		if filter.StartPrice != nil {
			price["$gte"] = *filter.StartPrice
		}
		if filter.EndPrice != nil {
			price["$lte"] = *filter.EndPrice
		}
		query["price"] = price
	}
	if filter.StockStatus != nil {
		if *filter.StockStatus {
			query["stock"] = bson.M{"$gt": 0}
		} else {
			query["stock"] = bson.M{"$lte": 0}
		}
	}
	return query
}

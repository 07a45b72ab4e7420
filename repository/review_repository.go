package repository

import (
	"context"

	"github.com/trahoangdev/kureno-sub000/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReviewRepository defines review data access, including the batched
// mutations behind the bulk admin actions.
type ReviewRepository interface {
	Find(ctx context.Context, filter bson.M, page, perPage int) ([]*models.Review, int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	BulkSetVerified(ctx context.Context, ids []primitive.ObjectID, verified bool) (int64, error)
	BulkDelete(ctx context.Context, ids []primitive.ObjectID) (int64, error)
}

type MongoReviewRepository struct {
	collection *mongo.Collection
}

func NewMongoReviewRepository(db *mongo.Database) ReviewRepository {
	return &MongoReviewRepository{collection: db.Collection("reviews")}
}

func (r *MongoReviewRepository) Find(ctx context.Context, filter bson.M, page, perPage int) ([]*models.Review, int64, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(perPage)).
		SetSkip(int64((page - 1) * perPage))

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var reviews []*models.Review
	if err = cursor.All(ctx, &reviews); err != nil {
		return nil, 0, err
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *MongoReviewRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// BulkSetVerified flips the verified flag on every matching review in a
// single batched update. Reviews already in the requested state are not
// counted as modified, which makes re-application a reported no-op.
func (r *MongoReviewRepository) BulkSetVerified(ctx context.Context, ids []primitive.ObjectID, verified bool) (int64, error) {
	filter := bson.M{"_id": bson.M{"$in": ids}}
	update := bson.M{"$set": bson.M{"verified": verified}}
	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// BulkDelete removes every matching review; unknown IDs are simply not
// counted.
func (r *MongoReviewRepository) BulkDelete(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

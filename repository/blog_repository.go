package repository

import (
	"context"
	"time"

	"github.com/trahoangdev/kureno-sub000/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BlogRepository struct {
	collection *mongo.Collection
}

func NewBlogRepository(db *mongo.Database) *BlogRepository {
	return &BlogRepository{collection: db.Collection("blog_posts")}
}

func (r *BlogRepository) Find(ctx context.Context, filter bson.M, page, perPage int) ([]*models.BlogPost, int64, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(perPage)).
		SetSkip(int64((page - 1) * perPage))

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var posts []*models.BlogPost
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, 0, err
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *BlogRepository) FindBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	err := r.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&post)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *BlogRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"slug": slug})
	return count > 0, err
}

func (r *BlogRepository) Create(ctx context.Context, post *models.BlogPost) (*mongo.InsertOneResult, error) {
	return r.collection.InsertOne(ctx, post)
}

func (r *BlogRepository) Update(ctx context.Context, id primitive.ObjectID, updates bson.M) (*mongo.UpdateResult, error) {
	updates["updated_at"] = time.Now().UTC()
	return r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
}

func (r *BlogRepository) Delete(ctx context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error) {
	return r.collection.DeleteOne(ctx, bson.M{"_id": id})
}

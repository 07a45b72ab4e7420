package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ImportTarget is the write surface the importer needs for one entity
// collection: a natural-key existence check, plain insert, and upsert.
type ImportTarget interface {
	Exists(ctx context.Context, key string) (bool, error)
	Insert(ctx context.Context, doc bson.M) error
	Upsert(ctx context.Context, key string, doc bson.M) error
}

// MongoImportTarget implements ImportTarget for a single collection
// keyed by one unique field (sku, slug, email).
type MongoImportTarget struct {
	collection *mongo.Collection
	keyField   string
}

func NewMongoImportTarget(db *mongo.Database, collection, keyField string) *MongoImportTarget {
	return &MongoImportTarget{
		collection: db.Collection(collection),
		keyField:   keyField,
	}
}

func (t *MongoImportTarget) Exists(ctx context.Context, key string) (bool, error) {
	count, err := t.collection.CountDocuments(ctx, bson.M{t.keyField: key})
	return count > 0, err
}

func (t *MongoImportTarget) Insert(ctx context.Context, doc bson.M) error {
	now := time.Now().UTC()
	doc["created_at"] = now
	doc["updated_at"] = now
	_, err := t.collection.InsertOne(ctx, doc)
	return err
}

// Upsert updates the record matching the natural key, creating it when
// absent. created_at is only written on insert.
func (t *MongoImportTarget) Upsert(ctx context.Context, key string, doc bson.M) error {
	doc["updated_at"] = time.Now().UTC()
	update := bson.M{
		"$set":         doc,
		"$setOnInsert": bson.M{"created_at": time.Now().UTC()},
	}
	_, err := t.collection.UpdateOne(ctx, bson.M{t.keyField: key}, update, options.Update().SetUpsert(true))
	return err
}

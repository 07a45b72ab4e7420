package repository

import (
	"context"
	"fmt"

	"github.com/trahoangdev/kureno-sub000/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// EntityRegistry resolves a concrete entity name to its export fetch.
// Fetched documents keep their stored field order (bson.D) so downstream
// flattening produces stable CSV columns.
type EntityRegistry interface {
	// Entities lists every concrete entity in canonical order.
	Entities() []string
	// Fetch returns the entity's records with declared relations inlined,
	// filtered to the inclusive created_at range when bounds are set.
	Fetch(ctx context.Context, entity string, dateRange models.DateRange) ([]bson.D, error)
}

var exportEntities = []string{
	models.EntityProducts,
	models.EntityCategories,
	models.EntityUsers,
	models.EntityBlog,
	models.EntityOrders,
	models.EntityComments,
	models.EntityNotifications,
}

// KnownEntity reports whether name is a concrete exportable entity.
func KnownEntity(name string) bool {
	for _, e := range exportEntities {
		if e == name {
			return true
		}
	}
	return false
}

type MongoEntityRegistry struct {
	db *mongo.Database
}

func NewMongoEntityRegistry(db *mongo.Database) *MongoEntityRegistry {
	return &MongoEntityRegistry{db: db}
}

func (r *MongoEntityRegistry) Entities() []string {
	out := make([]string, len(exportEntities))
	copy(out, exportEntities)
	return out
}

func (r *MongoEntityRegistry) Fetch(ctx context.Context, entity string, dateRange models.DateRange) ([]bson.D, error) {
	var coll string
	var pipeline mongo.Pipeline

	switch entity {
	case models.EntityProducts:
		coll = "products"
		pipeline = productPipeline()
	case models.EntityCategories:
		coll = "categories"
	case models.EntityUsers:
		coll = "users"
		pipeline = userPipeline()
	case models.EntityBlog:
		coll = "blog_posts"
		pipeline = authorPipeline()
	case models.EntityOrders:
		coll = "orders"
		pipeline = orderPipeline()
	case models.EntityComments:
		coll = "reviews"
		pipeline = commentPipeline()
	case models.EntityNotifications:
		coll = "notifications"
	default:
		return nil, fmt.Errorf("unknown entity %q", entity)
	}

	full := mongo.Pipeline{}
	if match := dateMatchStage(dateRange); match != nil {
		full = append(full, match)
	}
	full = append(full, bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}}})
	full = append(full, pipeline...)

	cursor, err := r.db.Collection(coll).Aggregate(ctx, full)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []bson.D
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// dateMatchStage builds the created_at range filter; nil when unset.
func dateMatchStage(dr models.DateRange) bson.D {
	if dr.IsZero() {
		return nil
	}
	bounds := bson.D{}
	if dr.Start != nil {
		bounds = append(bounds, bson.E{Key: "$gte", Value: *dr.Start})
	}
	if dr.End != nil {
		bounds = append(bounds, bson.E{Key: "$lte", Value: *dr.End})
	}
	return bson.D{{Key: "$match", Value: bson.D{{Key: "created_at", Value: bounds}}}}
}

// productPipeline inlines the category name next to the category id.
func productPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		lookupStage("categories", "category", "_id", "category_doc"),
		unwindStage("category_doc"),
		bson.D{{Key: "$set", Value: bson.D{{Key: "category_name", Value: "$category_doc.name"}}}},
		bson.D{{Key: "$unset", Value: "category_doc"}},
	}
}

// userPipeline strips credentials. The projection is unconditional: no
// export path may carry password hashes or reset tokens.
func userPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$unset", Value: bson.A{"password", "reset_token", "reset_token_expiry"}}},
	}
}

// authorPipeline inlines the author's name and email for blog posts.
func authorPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		lookupStage("users", "author", "_id", "author_doc"),
		unwindStage("author_doc"),
		bson.D{{Key: "$set", Value: bson.D{{Key: "author_info", Value: bson.D{
			{Key: "name", Value: "$author_doc.name"},
			{Key: "email", Value: "$author_doc.email"},
		}}}}},
		bson.D{{Key: "$unset", Value: "author_doc"}},
	}
}

// orderPipeline inlines the buyer's name and email; line items already
// embed product name and unit price at purchase time.
func orderPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		lookupStage("users", "user_id", "_id", "user_doc"),
		unwindStage("user_doc"),
		bson.D{{Key: "$set", Value: bson.D{{Key: "customer", Value: bson.D{
			{Key: "name", Value: "$user_doc.name"},
			{Key: "email", Value: "$user_doc.email"},
		}}}}},
		bson.D{{Key: "$unset", Value: "user_doc"}},
	}
}

// commentPipeline inlines the review author and the product name.
func commentPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		lookupStage("users", "user_id", "_id", "author_doc"),
		unwindStage("author_doc"),
		lookupStage("products", "product_id", "_id", "product_doc"),
		unwindStage("product_doc"),
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "author_info", Value: bson.D{
				{Key: "name", Value: "$author_doc.name"},
				{Key: "email", Value: "$author_doc.email"},
			}},
			{Key: "product_name", Value: "$product_doc.name"},
		}}},
		bson.D{{Key: "$unset", Value: bson.A{"author_doc", "product_doc"}}},
	}
}

func lookupStage(from, localField, foreignField, as string) bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: from},
		{Key: "localField", Value: localField},
		{Key: "foreignField", Value: foreignField},
		{Key: "as", Value: as},
	}}}
}

func unwindStage(path string) bson.D {
	return bson.D{{Key: "$unwind", Value: bson.D{
		{Key: "path", Value: "$" + path},
		{Key: "preserveNullAndEmptyArrays", Value: true},
	}}}
}

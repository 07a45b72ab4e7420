package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is a product comment left by a customer. Verified reviews are
// the only ones surfaced on the storefront.
type Review struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	ProductID primitive.ObjectID `json:"product_id" bson:"product_id"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user_id"`
	Rating    int                `json:"rating" bson:"rating"`
	Content   string             `json:"content" bson:"content"`
	Verified  bool               `json:"verified" bson:"verified"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// BulkActionResult reports the outcome of a bulk review mutation.
type BulkActionResult struct {
	Success       bool   `json:"success"`
	ModifiedCount int64  `json:"modifiedCount"`
	Message       string `json:"message"`
}

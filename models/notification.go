package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Notification struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Type      string             `json:"type" bson:"type"` // order, review, message, system
	Title     string             `json:"title" bson:"title"`
	Message   string             `json:"message" bson:"message"`
	Link      string             `json:"link,omitempty" bson:"link,omitempty"`
	Read      bool               `json:"read" bson:"read"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account record. Password and the reset-token pair are never
// serialized to JSON and are stripped by projection on every export path.
type User struct {
	ID               primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name             string             `json:"name" bson:"name"`
	Email            string             `json:"email" bson:"email"`
	Password         string             `json:"-" bson:"password,omitempty"`
	Role             string             `json:"role" bson:"role"`
	ResetToken       string             `json:"-" bson:"reset_token,omitempty"`
	ResetTokenExpiry *time.Time         `json:"-" bson:"reset_token_expiry,omitempty"`
	CreatedAt        time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at" bson:"updated_at"`
}

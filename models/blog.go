package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BlogPost struct {
	ID         primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Title      string             `json:"title" bson:"title"`
	Slug       string             `json:"slug" bson:"slug"`
	Content    string             `json:"content" bson:"content"` // markdown
	Excerpt    string             `json:"excerpt,omitempty" bson:"excerpt,omitempty"`
	Author     primitive.ObjectID `json:"author" bson:"author"`
	Tags       []string           `json:"tags" bson:"tags"`
	CoverImage string             `json:"cover_image,omitempty" bson:"cover_image,omitempty"`
	Published  bool               `json:"published" bson:"published"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
}

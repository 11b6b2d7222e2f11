// internal/domain/models/post.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post belongs to exactly one vacation and inherits that vacation's
// sharing policy. A post has no visibility fields of its own; every
// permission decision about a post walks to the parent vacation.
type Post struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VacationID primitive.ObjectID `bson:"vacation_id" json:"vacation_id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`

	Content  string `bson:"content" json:"content"`
	Location string `bson:"location,omitempty" json:"location,omitempty"`

	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	LastUpdateAt time.Time `bson:"last_update_at" json:"last_update_at"`
}

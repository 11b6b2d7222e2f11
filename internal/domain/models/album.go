// internal/domain/models/album.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Album is a titled collection of photos inside a vacation. Like a
// post, an album carries no sharing fields of its own; the parent
// vacation's policy governs every permission decision about it.
type Album struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VacationID primitive.ObjectID `bson:"vacation_id" json:"vacation_id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`

	Title string `bson:"title" json:"title"`

	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	LastUpdateAt time.Time `bson:"last_update_at" json:"last_update_at"`
}

// internal/domain/models/interaction.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is a polymorphic attachment keyed by (model_type, model_id).
type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ModelType string             `bson:"model_type" json:"model_type"`
	ModelID   primitive.ObjectID `bson:"model_id" json:"model_id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`

	Content string `bson:"content" json:"content"`

	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	LastUpdateAt time.Time `bson:"last_update_at" json:"last_update_at"`
}

// Like is a polymorphic attachment keyed by (model_type, model_id, user_id).
//
// Invariant: at most one Like document exists per triple at any instant.
// The likes collection carries a unique index on the triple (ensured at
// startup) as the correctness backstop for concurrent toggles.
type Like struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ModelType string             `bson:"model_type" json:"model_type"`
	ModelID   primitive.ObjectID `bson:"model_id" json:"model_id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Friendship is one row of the friendship relation. The relation is
// stored symmetrically: adding a friend writes both (a,b) and (b,a)
// so feed annotation needs a single equality lookup.
type Friendship struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	FriendID primitive.ObjectID `bson:"friend_id" json:"friend_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

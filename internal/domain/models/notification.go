// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification actions recorded after a successful authorized mutation.
const (
	ActionLike    = "like"
	ActionComment = "comment"
)

// Notification is the persisted form of a notification intent. The core
// produces intents; the dispatcher owns persistence and delivery.
type Notification struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ModelType  string             `bson:"model_type" json:"model_type"`
	ModelID    primitive.ObjectID `bson:"model_id" json:"model_id"`
	ReceiverID primitive.ObjectID `bson:"receiver_id" json:"receiver_id"`
	ActorID    primitive.ObjectID `bson:"actor_id" json:"actor_id"`
	Action     string             `bson:"action" json:"action"`
	Seen       bool               `bson:"seen" json:"seen"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

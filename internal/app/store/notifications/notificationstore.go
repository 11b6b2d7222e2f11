// internal/app/store/notifications/notificationstore.go
package notificationstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tripnest/tripnest/internal/app/system/notify"
	"github.com/tripnest/tripnest/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("notifications")}
}

// Dispatch persists an intent as a notification document.
// Self-notifications (actor == receiver) are dropped silently.
// Store implements notify.Dispatcher.
func (s *Store) Dispatch(ctx context.Context, in notify.Intent) error {
	if in.ReceiverID == in.ActorID || in.ReceiverID.IsZero() {
		return nil
	}
	n := models.Notification{
		ID:         primitive.NewObjectID(),
		ModelType:  in.ModelType,
		ModelID:    in.ModelID,
		ReceiverID: in.ReceiverID,
		ActorID:    in.ActorID,
		Action:     in.Action,
		CreatedAt:  time.Now().UTC(),
	}
	_, err := s.c.InsertOne(ctx, n)
	return err
}

// ListForUser returns the newest notifications for a receiver.
func (s *Store) ListForUser(ctx context.Context, receiverID primitive.ObjectID, limit int64) ([]models.Notification, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, bson.M{"receiver_id": receiverID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Notification
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkSeen flags all of a receiver's notifications as seen.
// Returns the number of documents updated.
func (s *Store) MarkSeen(ctx context.Context, receiverID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"receiver_id": receiverID, "seen": false},
		bson.M{"$set": bson.M{"seen": true}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

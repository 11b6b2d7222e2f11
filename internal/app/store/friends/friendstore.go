// internal/app/store/friends/friendstore.go

// Package friendstore answers "is B a friend of A?" and maintains the
// friendship relation. Rows are stored symmetrically ((a,b) and (b,a))
// so both direct checks and feed annotation use a single equality
// lookup; a unique index on (user_id, friend_id) keeps each direction
// to one row.
package friendstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tripnest/tripnest/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

// ErrSelfFriend is returned when a user tries to befriend themselves.
var ErrSelfFriend = errors.New("cannot add yourself as a friend")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("friendships")}
}

// IsFriend reports whether friendID is a friend of userID.
func (s *Store) IsFriend(ctx context.Context, userID, friendID primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"user_id": userID, "friend_id": friendID})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Add records a friendship in both directions. Adding an existing
// friend is a no-op (the unique pair index absorbs the duplicate).
func (s *Store) Add(ctx context.Context, userID, friendID primitive.ObjectID) error {
	if userID == friendID {
		return ErrSelfFriend
	}
	now := time.Now().UTC()
	rows := []any{
		models.Friendship{ID: primitive.NewObjectID(), UserID: userID, FriendID: friendID, CreatedAt: now},
		models.Friendship{ID: primitive.NewObjectID(), UserID: friendID, FriendID: userID, CreatedAt: now},
	}
	// Unordered so one duplicate doesn't block the reverse row.
	_, err := s.c.InsertMany(ctx, rows, options.InsertMany().SetOrdered(false))
	if err != nil && allDup(err) {
		return nil
	}
	return err
}

// Remove deletes both directions of a friendship.
// Returns the number of rows removed (0, 1, or 2).
func (s *Store) Remove(ctx context.Context, userID, friendID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"$or": bson.A{
		bson.M{"user_id": userID, "friend_id": friendID},
		bson.M{"user_id": friendID, "friend_id": userID},
	}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListFriendIDs returns the IDs of everyone userID has befriended.
func (s *Store) ListFriendIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []primitive.ObjectID
	for cur.Next(ctx) {
		var f models.Friendship
		if err := cur.Decode(&f); err != nil {
			return nil, err
		}
		out = append(out, f.FriendID)
	}
	return out, cur.Err()
}

// allDup reports whether every write error in a bulk result is a
// duplicate-key violation.
func allDup(err error) bool {
	var bulk mongo.BulkWriteException
	if errors.As(err, &bulk) {
		for _, we := range bulk.WriteErrors {
			if we.Code != 11000 {
				return false
			}
		}
		return len(bulk.WriteErrors) > 0
	}
	return wafflemongo.IsDup(err)
}

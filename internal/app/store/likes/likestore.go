// internal/app/store/likes/likestore.go

// Package likestore implements the idempotent like/unlike toggle.
//
// The likes collection carries a unique index on
// (model_type, model_id, user_id), ensured at startup. That index is the
// correctness backstop for the toggle race: two concurrent toggles that
// both observe "not liked" cannot both insert. The loser's duplicate-key
// error is converted into the Liked outcome, never surfaced as a
// conflict.
package likestore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tripnest/tripnest/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("likes")}
}

// Outcome is the resulting state of a toggle.
type Outcome int

const (
	Unliked Outcome = iota
	Liked
)

// Result reports what a toggle did. Created is false when the Liked
// outcome came from losing a create race (the like already existed), in
// which case no notification should be emitted.
type Result struct {
	Outcome Outcome
	Created bool
	Like    models.Like // the created or deleted document, when available
}

// Toggle flips the like state for (modelType, modelID, userID).
//
// If a like exists it is deleted (outcome Unliked). Otherwise one is
// created (outcome Liked). Callers must have resolved read/interact
// permission on the target before calling; Toggle itself performs no
// policy check.
func (s *Store) Toggle(ctx context.Context, modelType string, modelID, userID primitive.ObjectID) (Result, error) {
	key := bson.M{"model_type": modelType, "model_id": modelID, "user_id": userID}

	var existing models.Like
	err := s.c.FindOneAndDelete(ctx, key).Decode(&existing)
	if err == nil {
		return Result{Outcome: Unliked, Like: existing}, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return Result{}, err
	}

	like := models.Like{
		ID:        primitive.NewObjectID(),
		ModelType: modelType,
		ModelID:   modelID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, like); err != nil {
		if wafflemongo.IsDup(err) {
			// Lost a create race: a concurrent toggle inserted first.
			// The pair is in the Liked state, so report that rather
			// than surfacing a conflict.
			return Result{Outcome: Liked, Created: false}, nil
		}
		return Result{}, err
	}
	return Result{Outcome: Liked, Created: true, Like: like}, nil
}

// Count returns the number of likes on a target.
func (s *Store) Count(ctx context.Context, modelType string, modelID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"model_type": modelType, "model_id": modelID})
}

// DeleteByTargets removes all likes attached to the given targets of
// one model type. Used by the vacation delete cascade.
func (s *Store) DeleteByTargets(ctx context.Context, modelType string, modelIDs []primitive.ObjectID) (int64, error) {
	if len(modelIDs) == 0 {
		return 0, nil
	}
	res, err := s.c.DeleteMany(ctx, bson.M{
		"model_type": modelType,
		"model_id":   bson.M{"$in": modelIDs},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

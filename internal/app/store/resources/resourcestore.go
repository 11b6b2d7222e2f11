// internal/app/store/resources/resourcestore.go
package resourcestore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tripnest/tripnest/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

// Bind failure modes, distinguished so callers can report which
// precondition broke.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrNotOwner     = errors.New("resource is not owned by this user")
	ErrAlreadyBound = errors.New("resource is already bound")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("resources")}
}

// GetByID loads a resource by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Resource, error) {
	var r models.Resource
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Create records an uploaded asset with an empty ref list.
func (s *Store) Create(ctx context.Context, r models.Resource) (models.Resource, error) {
	r.ID = primitive.NewObjectID()
	r.Ref = []models.ResourceRef{}
	r.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.Resource{}, err
	}
	return r, nil
}

// Bind claims an unbound resource owned by owner for one entity field,
// e.g. Bind(ctx, coverID, owner, "vacations", "cover", vacationID).
// The filter requires an empty ref list, so a resource can be claimed
// exactly once. When the claim matches nothing, a follow-up read tells
// the caller which precondition broke: ErrNotFound, ErrNotOwner, or
// ErrAlreadyBound.
func (s *Store) Bind(ctx context.Context, id, owner primitive.ObjectID, model, field string, entityID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "user_id": owner, "ref": bson.M{"$size": 0}},
		bson.M{"$set": bson.M{"ref": []models.ResourceRef{{Model: model, Field: field, ID: entityID}}}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	r, err := s.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if r.UserID != owner {
		return ErrNotOwner
	}
	return ErrAlreadyBound
}

// ListByOwner returns all resources uploaded by a user.
func (s *Store) ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Resource, error) {
	cur, err := s.c.Find(ctx, bson.M{"user_id": owner})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Resource
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a resource by ID. Returns the number of documents
// deleted; the stored file is removed by the caller.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// UnbindByEntity clears refs pointing at deleted entities. Used by the
// vacation delete cascade so orphaned covers become re-bindable.
func (s *Store) UnbindByEntity(ctx context.Context, model string, entityIDs []primitive.ObjectID) (int64, error) {
	if len(entityIDs) == 0 {
		return 0, nil
	}
	res, err := s.c.UpdateMany(ctx,
		bson.M{"ref": bson.M{"$elemMatch": bson.M{"model": model, "_id": bson.M{"$in": entityIDs}}}},
		bson.M{"$set": bson.M{"ref": []models.ResourceRef{}}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// internal/app/store/posts/poststore.go
package poststore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tripnest/tripnest/internal/app/system/htmlsanitize"
	"github.com/tripnest/tripnest/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("posts")}
}

// GetByID loads a post by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var p models.Post
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a post into its vacation.
func (s *Store) Create(ctx context.Context, p models.Post) (models.Post, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.Content = htmlsanitize.Sanitize(p.Content)
	p.CreatedAt = now
	p.LastUpdateAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Post{}, err
	}
	return p, nil
}

// UpdateContent replaces a post's content and location.
func (s *Store) UpdateContent(ctx context.Context, id primitive.ObjectID, content, location string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"content":        htmlsanitize.Sanitize(content),
		"location":       location,
		"last_update_at": time.Now().UTC(),
	}})
	return err
}

// Delete removes a post by ID. Returns the number of documents deleted.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// IDsByVacation returns the IDs of all posts in a vacation.
// Used by the delete cascade to find attachment targets.
func (s *Store) IDsByVacation(ctx context.Context, vacationID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx, bson.M{"vacation_id": vacationID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []primitive.ObjectID
	for cur.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out = append(out, row.ID)
	}
	return out, cur.Err()
}

// DeleteByVacation removes all posts in a vacation.
// Returns the number of documents deleted.
func (s *Store) DeleteByVacation(ctx context.Context, vacationID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"vacation_id": vacationID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// internal/app/store/comments/commentstore.go
package commentstore

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
	return &Store{c: db.Collection("comments")}
}

// GetByID loads a comment by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var c models.Comment
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a comment. Content is stored as sanitized plain text.
func (s *Store) Create(ctx context.Context, c models.Comment) (models.Comment, error) {
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.Content = htmlsanitize.PlainText(c.Content)
	c.CreatedAt = now
	c.LastUpdateAt = now

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Comment{}, err
	}
	return c, nil
}

// UpdateContent replaces a comment's content and stamps last_update_at.
func (s *Store) UpdateContent(ctx context.Context, id primitive.ObjectID, content string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"content":        htmlsanitize.PlainText(content),
		"last_update_at": time.Now().UTC(),
	}})
	return err
}

// Delete removes a comment by ID. Returns the number of documents
// deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByTargets removes all comments attached to the given targets of
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

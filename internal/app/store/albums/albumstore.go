// internal/app/store/albums/albumstore.go
package albumstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tripnest/tripnest/internal/app/system/htmlsanitize"
	"github.com/tripnest/tripnest/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("albums")}
}

// GetByID loads an album by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Album, error) {
	var a models.Album
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts an album into its vacation.
func (s *Store) Create(ctx context.Context, a models.Album) (models.Album, error) {
	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	a.Title = htmlsanitize.PlainText(a.Title)
	a.CreatedAt = now
	a.LastUpdateAt = now

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Album{}, err
	}
	return a, nil
}

// UpdateTitle renames an album.
func (s *Store) UpdateTitle(ctx context.Context, id primitive.ObjectID, title string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"title":          htmlsanitize.PlainText(title),
		"last_update_at": time.Now().UTC(),
	}})
	return err
}

// ListByVacation returns the albums of a vacation, newest first.
func (s *Store) ListByVacation(ctx context.Context, vacationID primitive.ObjectID) ([]models.Album, error) {
	cur, err := s.c.Find(ctx, bson.M{"vacation_id": vacationID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Album
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes an album by ID. Returns the number of documents deleted.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// IDsByVacation returns the IDs of all albums in a vacation.
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

// DeleteByVacation removes all albums in a vacation.
// Returns the number of documents deleted.
func (s *Store) DeleteByVacation(ctx context.Context, vacationID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"vacation_id": vacationID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

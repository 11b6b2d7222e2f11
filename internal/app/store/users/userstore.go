// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tripnest/tripnest/internal/app/system/normalize"
	"github.com/tripnest/tripnest/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

// ErrDuplicateUsername is returned when creating a user whose username
// or email collides with an existing account.
var ErrDuplicateUsername = errors.New("a user with this username or email already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByUsername looks up a user by case-insensitive username.
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"username_ci": text.Fold(normalize.Username(username))}).Decode(&u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email.
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing identity fields.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.Username = normalize.Username(u.Username)
	u.UsernameCI = text.Fold(u.Username)
	u.Email = normalize.Email(u.Email)
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateUsername
		}
		return models.User{}, err
	}
	return u, nil
}

// UpsertByEmail finds a user by email or creates one; used by OAuth
// sign-in where the identity provider vouches for the address.
func (s *Store) UpsertByEmail(ctx context.Context, email, username, avatar, authMethod string) (*models.User, error) {
	if u, err := s.GetByEmail(ctx, email); err == nil {
		return u, nil
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	created, err := s.Create(ctx, models.User{
		Username:   username,
		Email:      email,
		Avatar:     avatar,
		AuthMethod: authMethod,
	})
	if errors.Is(err, ErrDuplicateUsername) {
		// Either a concurrent first sign-in won the race, or the derived
		// username is taken by another account. Re-fetch by email first;
		// if the address is still free, retry with the full address as
		// the username, which is unique by construction.
		if u, ferr := s.GetByEmail(ctx, email); ferr == nil {
			return u, nil
		} else if !errors.Is(ferr, mongo.ErrNoDocuments) {
			return nil, ferr
		}
		created, err = s.Create(ctx, models.User{
			Username:   email,
			Email:      email,
			Avatar:     avatar,
			AuthMethod: authMethod,
		})
	}
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateProfile patches mutable profile fields.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, firstName, lastName, avatar, description string) error {
	set := bson.M{
		"updated_at":  time.Now().UTC(),
		"first_name":  normalize.Name(firstName),
		"last_name":   normalize.Name(lastName),
		"description": description,
	}
	if avatar != "" {
		set["avatar"] = avatar
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// TouchActive stamps the user's last_active_at.
func (s *Store) TouchActive(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"last_active_at": time.Now().UTC()}})
	return err
}

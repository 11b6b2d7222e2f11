package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tripnest/tripnest/internal/domain/models"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given username and email.
func (f *Fixtures) CreateUser(ctx context.Context, username, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		Username:   username,
		UsernameCI: text.Fold(username),
		Email:      email,
		AuthMethod: "password",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateVacation creates a vacation owned by ownerID with the given
// share status. The member list contains only the owner; use
// CreateVacationWithLists when members or a share list matter.
func (f *Fixtures) CreateVacation(ctx context.Context, ownerID primitive.ObjectID, title, shareStatus string) models.Vacation {
	f.t.Helper()
	return f.CreateVacationWithLists(ctx, ownerID, title, shareStatus, nil, nil)
}

// CreateVacationWithLists creates a vacation with explicit member and
// share lists. The owner is always prepended to the member list, and
// the share list (protected status) always contains the members.
func (f *Fixtures) CreateVacationWithLists(ctx context.Context, ownerID primitive.ObjectID, title, shareStatus string, members, shared []primitive.ObjectID) models.Vacation {
	f.t.Helper()

	memberList := append([]primitive.ObjectID{ownerID}, members...)

	var shareList []primitive.ObjectID
	if shareStatus == models.ShareProtected {
		shareList = append(append([]primitive.ObjectID{}, memberList...), shared...)
	}

	now := time.Now().UTC()
	v := models.Vacation{
		ID:           primitive.NewObjectID(),
		UserID:       ownerID,
		Title:        title,
		ShareStatus:  shareStatus,
		MemberList:   memberList,
		ShareList:    shareList,
		CreatedAt:    now,
		LastUpdateAt: now,
	}

	_, err := f.db.Collection("vacations").InsertOne(ctx, v)
	if err != nil {
		f.t.Fatalf("failed to create test vacation: %v", err)
	}

	return v
}

// CreatePost creates a post in the given vacation authored by userID.
func (f *Fixtures) CreatePost(ctx context.Context, vacationID, userID primitive.ObjectID, content string) models.Post {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Post{
		ID:           primitive.NewObjectID(),
		VacationID:   vacationID,
		UserID:       userID,
		Content:      content,
		CreatedAt:    now,
		LastUpdateAt: now,
	}

	_, err := f.db.Collection("posts").InsertOne(ctx, p)
	if err != nil {
		f.t.Fatalf("failed to create test post: %v", err)
	}

	return p
}

// CreateAlbum creates an album in the given vacation owned by userID.
func (f *Fixtures) CreateAlbum(ctx context.Context, vacationID, userID primitive.ObjectID, title string) models.Album {
	f.t.Helper()

	now := time.Now().UTC()
	a := models.Album{
		ID:           primitive.NewObjectID(),
		VacationID:   vacationID,
		UserID:       userID,
		Title:        title,
		CreatedAt:    now,
		LastUpdateAt: now,
	}

	_, err := f.db.Collection("albums").InsertOne(ctx, a)
	if err != nil {
		f.t.Fatalf("failed to create test album: %v", err)
	}

	return a
}

// CreateComment attaches a comment to (modelType, modelID).
func (f *Fixtures) CreateComment(ctx context.Context, modelType string, modelID, userID primitive.ObjectID, content string) models.Comment {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Comment{
		ID:           primitive.NewObjectID(),
		ModelType:    modelType,
		ModelID:      modelID,
		UserID:       userID,
		Content:      content,
		CreatedAt:    now,
		LastUpdateAt: now,
	}

	_, err := f.db.Collection("comments").InsertOne(ctx, c)
	if err != nil {
		f.t.Fatalf("failed to create test comment: %v", err)
	}

	return c
}

// CreateLike attaches a like to (modelType, modelID) by userID.
func (f *Fixtures) CreateLike(ctx context.Context, modelType string, modelID, userID primitive.ObjectID) models.Like {
	f.t.Helper()

	l := models.Like{
		ID:        primitive.NewObjectID(),
		ModelType: modelType,
		ModelID:   modelID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}

	_, err := f.db.Collection("likes").InsertOne(ctx, l)
	if err != nil {
		f.t.Fatalf("failed to create test like: %v", err)
	}

	return l
}

// CreateFriendship records a symmetric friendship between a and b,
// writing both directed rows the way the friend store does.
func (f *Fixtures) CreateFriendship(ctx context.Context, a, b primitive.ObjectID) {
	f.t.Helper()

	now := time.Now().UTC()
	rows := []any{
		models.Friendship{ID: primitive.NewObjectID(), UserID: a, FriendID: b, CreatedAt: now},
		models.Friendship{ID: primitive.NewObjectID(), UserID: b, FriendID: a, CreatedAt: now},
	}

	_, err := f.db.Collection("friendships").InsertMany(ctx, rows)
	if err != nil {
		f.t.Fatalf("failed to create test friendship: %v", err)
	}
}

// CreateResource creates an unbound uploaded resource owned by userID.
func (f *Fixtures) CreateResource(ctx context.Context, userID primitive.ObjectID, name, path string) models.Resource {
	f.t.Helper()

	res := models.Resource{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Name:      name,
		Type:      "image/jpeg",
		Size:      1024,
		Path:      path,
		Ref:       []models.ResourceRef{},
		CreatedAt: time.Now().UTC(),
	}

	_, err := f.db.Collection("resources").InsertOne(ctx, res)
	if err != nil {
		f.t.Fatalf("failed to create test resource: %v", err)
	}

	return res
}

// CreateNotification inserts a notification for receiverID.
func (f *Fixtures) CreateNotification(ctx context.Context, receiverID, actorID, modelID primitive.ObjectID, modelType, action string) models.Notification {
	f.t.Helper()

	n := models.Notification{
		ID:         primitive.NewObjectID(),
		ModelType:  modelType,
		ModelID:    modelID,
		ReceiverID: receiverID,
		ActorID:    actorID,
		Action:     action,
		CreatedAt:  time.Now().UTC(),
	}

	_, err := f.db.Collection("notifications").InsertOne(ctx, n)
	if err != nil {
		f.t.Fatalf("failed to create test notification: %v", err)
	}

	return n
}

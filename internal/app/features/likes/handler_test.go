package likes_test

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/tripnest/tripnest/internal/app/features/likes"
	"github.com/tripnest/tripnest/internal/app/policy/accesspolicy"
	likestore "github.com/tripnest/tripnest/internal/app/store/likes"
	"github.com/tripnest/tripnest/internal/app/system/notify"
	"github.com/tripnest/tripnest/internal/domain/models"
	"github.com/tripnest/tripnest/internal/testutil"
)

// recordingDispatcher captures intents for assertions.
type recordingDispatcher struct {
	mu      sync.Mutex
	intents []notify.Intent
}

func (d *recordingDispatcher) Dispatch(_ context.Context, in notify.Intent) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.intents = append(d.intents, in)
	return nil
}

func newTestHandler(t *testing.T, db *mongo.Database, dispatcher notify.Dispatcher) *likes.Handler {
	t.Helper()
	if dispatcher == nil {
		dispatcher = notify.Nop{}
	}
	return likes.NewHandler(db, accesspolicy.NewDefault(db), likestore.New(db), dispatcher, zap.NewNop())
}

func toggleRequest(user models.User, modelType string, modelID primitive.ObjectID) *http.Request {
	req := testutil.NewAuthenticatedRequest("PUT", "/likes/"+modelType+"/"+modelID.Hex(), user)
	req = testutil.WithChiURLParam(req, "type", modelType)
	return testutil.WithChiURLParam(req, "id", modelID.Hex())
}

func TestServeToggle_LikeThenUnlike(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	handler := newTestHandler(t, db, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "owner", "owner@example.com")
	viewer := fixtures.CreateUser(ctx, "viewer", "viewer@example.com")
	v := fixtures.CreateVacation(ctx, owner.ID, "Open Trip", models.SharePublic)

	rec := testutil.NewRecorder()
	handler.ServeToggle(rec, toggleRequest(viewer, "vacations", v.ID))
	rec.AssertStatus(t, http.StatusCreated)
	rec.AssertContains(t, "user has liked this vacations")

	rec = testutil.NewRecorder()
	handler.ServeToggle(rec, toggleRequest(viewer, "vacations", v.ID))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "user has unliked this vacations")
}

func TestServeToggle_EmitsNotificationToOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	dispatcher := &recordingDispatcher{}
	handler := newTestHandler(t, db, dispatcher)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "owner", "owner@example.com")
	viewer := fixtures.CreateUser(ctx, "viewer", "viewer@example.com")
	v := fixtures.CreateVacation(ctx, owner.ID, "Open Trip", models.SharePublic)

	rec := testutil.NewRecorder()
	handler.ServeToggle(rec, toggleRequest(viewer, "vacations", v.ID))
	rec.AssertStatus(t, http.StatusCreated)

	if len(dispatcher.intents) != 1 {
		t.Fatalf("expected 1 intent, got %d", len(dispatcher.intents))
	}
	in := dispatcher.intents[0]
	if in.ReceiverID != owner.ID {
		t.Errorf("ReceiverID: got %s, want vacation owner", in.ReceiverID.Hex())
	}
	if in.ActorID != viewer.ID {
		t.Errorf("ActorID: got %s, want the liker", in.ActorID.Hex())
	}
	if in.Action != models.ActionLike {
		t.Errorf("Action: got %q", in.Action)
	}

	// Unlike emits nothing.
	rec = testutil.NewRecorder()
	handler.ServeToggle(rec, toggleRequest(viewer, "vacations", v.ID))
	rec.AssertStatus(t, http.StatusOK)
	if len(dispatcher.intents) != 1 {
		t.Errorf("unlike must not emit an intent, got %d total", len(dispatcher.intents))
	}
}

func TestServeToggle_PostNotifiesVacationOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	dispatcher := &recordingDispatcher{}
	handler := newTestHandler(t, db, dispatcher)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "owner", "owner@example.com")
	poster := fixtures.CreateUser(ctx, "poster", "poster@example.com")
	viewer := fixtures.CreateUser(ctx, "viewer", "viewer@example.com")
	v := fixtures.CreateVacation(ctx, owner.ID, "Open Trip", models.SharePublic)
	p := fixtures.CreatePost(ctx, v.ID, poster.ID, "day one")

	rec := testutil.NewRecorder()
	handler.ServeToggle(rec, toggleRequest(viewer, "posts", p.ID))
	rec.AssertStatus(t, http.StatusCreated)

	if len(dispatcher.intents) != 1 {
		t.Fatalf("expected 1 intent, got %d", len(dispatcher.intents))
	}
	// The authorizing document for a post is its vacation; its owner
	// receives the notification, not the post author.
	if dispatcher.intents[0].ReceiverID != owner.ID {
		t.Errorf("ReceiverID: got %s, want vacation owner %s",
			dispatcher.intents[0].ReceiverID.Hex(), owner.ID.Hex())
	}
}

func TestServeToggle_AlbumNotifiesVacationOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	dispatcher := &recordingDispatcher{}
	handler := newTestHandler(t, db, dispatcher)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "owner", "owner@example.com")
	viewer := fixtures.CreateUser(ctx, "viewer", "viewer@example.com")
	v := fixtures.CreateVacation(ctx, owner.ID, "Open Trip", models.SharePublic)
	a := fixtures.CreateAlbum(ctx, v.ID, owner.ID, "Beach Photos")

	rec := testutil.NewRecorder()
	handler.ServeToggle(rec, toggleRequest(viewer, "albums", a.ID))
	rec.AssertStatus(t, http.StatusCreated)
	rec.AssertContains(t, "user has liked this albums")

	if len(dispatcher.intents) != 1 {
		t.Fatalf("expected 1 intent, got %d", len(dispatcher.intents))
	}
	if dispatcher.intents[0].ReceiverID != owner.ID {
		t.Errorf("ReceiverID: got %s, want vacation owner %s",
			dispatcher.intents[0].ReceiverID.Hex(), owner.ID.Hex())
	}
}

func TestServeToggle_ForbiddenTarget(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	handler := newTestHandler(t, db, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "owner", "owner@example.com")
	stranger := fixtures.CreateUser(ctx, "stranger", "stranger@example.com")
	v := fixtures.CreateVacation(ctx, owner.ID, "Private Trip", models.ShareOnlyMe)

	rec := testutil.NewRecorder()
	handler.ServeToggle(rec, toggleRequest(stranger, "vacations", v.ID))
	rec.AssertStatus(t, http.StatusForbidden)

	// No like is written on a denied toggle.
	count, err := likestore.New(db).Count(ctx, "vacations", v.ID)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("denied toggle must not write, got %d likes", count)
	}
}

func TestServeToggle_UnknownType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	handler := newTestHandler(t, db, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateUser(ctx, "user", "user@example.com")

	rec := testutil.NewRecorder()
	handler.ServeToggle(rec, toggleRequest(user, "comments", primitive.NewObjectID()))
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestServeList_NoLikes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	handler := newTestHandler(t, db, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "owner", "owner@example.com")
	v := fixtures.CreateVacation(ctx, owner.ID, "Quiet Trip", models.SharePublic)

	req := testutil.NewAuthenticatedRequest("GET", "/likes/vacations/"+v.ID.Hex(), owner)
	req = testutil.WithChiURLParam(req, "type", "vacations")
	req = testutil.WithChiURLParam(req, "id", v.ID.Hex())

	rec := testutil.NewRecorder()
	handler.ServeList(rec, req)
	rec.AssertStatus(t, http.StatusNoContent)
}

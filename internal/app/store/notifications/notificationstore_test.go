package notificationstore_test

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	notificationstore "github.com/tripnest/tripnest/internal/app/store/notifications"
	"github.com/tripnest/tripnest/internal/app/system/notify"
	"github.com/tripnest/tripnest/internal/domain/models"
	"github.com/tripnest/tripnest/internal/testutil"
)

func TestStore_Dispatch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	receiver := primitive.NewObjectID()
	actor := primitive.NewObjectID()
	target := primitive.NewObjectID()

	err := store.Dispatch(ctx, notify.Intent{
		ModelType:  "vacations",
		ModelID:    target,
		ReceiverID: receiver,
		ActorID:    actor,
		Action:     models.ActionLike,
	})
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	got, err := store.ListForUser(ctx, receiver, 10)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(got))
	}
	if got[0].Action != models.ActionLike {
		t.Errorf("Action: got %q", got[0].Action)
	}
	if got[0].Seen {
		t.Error("new notification should be unseen")
	}
}

func TestStore_Dispatch_DropsSelfNotification(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	self := primitive.NewObjectID()

	err := store.Dispatch(ctx, notify.Intent{
		ModelType:  "posts",
		ModelID:    primitive.NewObjectID(),
		ReceiverID: self,
		ActorID:    self,
		Action:     models.ActionComment,
	})
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	got, err := store.ListForUser(ctx, self, 10)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("self-notification must be dropped, got %d", len(got))
	}
}

func TestStore_ListForUser_NewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	receiver := primitive.NewObjectID()
	actor := primitive.NewObjectID()

	first := fixtures.CreateNotification(ctx, receiver, actor, primitive.NewObjectID(), "vacations", models.ActionLike)

	// Later creation time.
	second := fixtures.CreateNotification(ctx, receiver, actor, primitive.NewObjectID(), "posts", models.ActionComment)
	_, err := db.Collection("notifications").UpdateByID(ctx, second.ID,
		bson.M{"$set": bson.M{"created_at": first.CreatedAt.Add(time.Second)}})
	if err != nil {
		t.Fatalf("UpdateByID failed: %v", err)
	}

	got, err := store.ListForUser(ctx, receiver, 10)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(got))
	}
	if got[0].ID != second.ID {
		t.Errorf("newest notification should come first")
	}
}

func TestStore_ListForUser_Limit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	receiver := primitive.NewObjectID()
	actor := primitive.NewObjectID()
	for i := 0; i < 5; i++ {
		fixtures.CreateNotification(ctx, receiver, actor, primitive.NewObjectID(), "vacations", models.ActionLike)
	}

	got, err := store.ListForUser(ctx, receiver, 3)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("expected 3 notifications with limit 3, got %d", len(got))
	}
}

func TestStore_MarkSeen(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	receiver := primitive.NewObjectID()
	other := primitive.NewObjectID()
	actor := primitive.NewObjectID()

	fixtures.CreateNotification(ctx, receiver, actor, primitive.NewObjectID(), "vacations", models.ActionLike)
	fixtures.CreateNotification(ctx, receiver, actor, primitive.NewObjectID(), "posts", models.ActionComment)
	fixtures.CreateNotification(ctx, other, actor, primitive.NewObjectID(), "vacations", models.ActionLike)

	updated, err := store.MarkSeen(ctx, receiver)
	if err != nil {
		t.Fatalf("MarkSeen failed: %v", err)
	}
	if updated != 2 {
		t.Errorf("updated: got %d, want 2", updated)
	}

	// Repeat marks nothing.
	updated, err = store.MarkSeen(ctx, receiver)
	if err != nil {
		t.Fatalf("second MarkSeen failed: %v", err)
	}
	if updated != 0 {
		t.Errorf("second MarkSeen updated: got %d, want 0", updated)
	}

	// The other receiver's notification stays unseen.
	got, err := store.ListForUser(ctx, other, 10)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(got) != 1 || got[0].Seen {
		t.Error("other receiver's notification must remain unseen")
	}
}

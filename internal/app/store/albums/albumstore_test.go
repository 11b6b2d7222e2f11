package albumstore_test

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	albumstore "github.com/tripnest/tripnest/internal/app/store/albums"
	"github.com/tripnest/tripnest/internal/domain/models"
	"github.com/tripnest/tripnest/internal/testutil"
)

func TestStore_Create_StripsMarkupFromTitle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := albumstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Album{
		VacationID: primitive.NewObjectID(),
		UserID:     primitive.NewObjectID(),
		Title:      `Beach <script>alert(1)</script><b>Photos</b>`,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Title != "Beach Photos" {
		t.Errorf("Title: got %q, want all markup stripped", created.Title)
	}
	if created.CreatedAt.IsZero() || created.LastUpdateAt.IsZero() {
		t.Error("timestamps must be stamped on create")
	}
}

func TestStore_UpdateTitle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := albumstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fixtures.CreateAlbum(ctx, primitive.NewObjectID(), primitive.NewObjectID(), "Before")

	// Mongo stores times at millisecond precision; make sure the
	// rename lands on a later timestamp.
	time.Sleep(5 * time.Millisecond)

	if err := store.UpdateTitle(ctx, a.ID, "<i>After</i>"); err != nil {
		t.Fatalf("UpdateTitle failed: %v", err)
	}

	got, err := store.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != "After" {
		t.Errorf("Title: got %q, want %q", got.Title, "After")
	}
	if !got.LastUpdateAt.After(a.LastUpdateAt) {
		t.Errorf("LastUpdateAt not bumped: %v -> %v", a.LastUpdateAt, got.LastUpdateAt)
	}
}

func TestStore_ListByVacation_NewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := albumstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	vacation := primitive.NewObjectID()
	user := primitive.NewObjectID()

	first, err := store.Create(ctx, models.Album{VacationID: vacation, UserID: user, Title: "First"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	second, err := store.Create(ctx, models.Album{VacationID: vacation, UserID: user, Title: "Second"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, models.Album{VacationID: primitive.NewObjectID(), UserID: user, Title: "Elsewhere"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	albums, err := store.ListByVacation(ctx, vacation)
	if err != nil {
		t.Fatalf("ListByVacation failed: %v", err)
	}
	if len(albums) != 2 {
		t.Fatalf("expected 2 albums, got %d", len(albums))
	}
	if albums[0].ID != second.ID || albums[1].ID != first.ID {
		t.Errorf("order: got [%s %s], want newest first", albums[0].Title, albums[1].Title)
	}
}

func TestStore_DeleteByVacation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := albumstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	vacation := primitive.NewObjectID()
	user := primitive.NewObjectID()
	fixtures.CreateAlbum(ctx, vacation, user, "One")
	fixtures.CreateAlbum(ctx, vacation, user, "Two")
	survivor := fixtures.CreateAlbum(ctx, primitive.NewObjectID(), user, "Keep")

	deleted, err := store.DeleteByVacation(ctx, vacation)
	if err != nil {
		t.Fatalf("DeleteByVacation failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted: got %d, want 2", deleted)
	}

	if _, err := store.GetByID(ctx, survivor.ID); err != nil {
		t.Errorf("album in another vacation must survive: %v", err)
	}
}

package userstore_test

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"

	userstore "github.com/tripnest/tripnest/internal/app/store/users"
	"github.com/tripnest/tripnest/internal/app/system/indexes"
	"github.com/tripnest/tripnest/internal/domain/models"
	"github.com/tripnest/tripnest/internal/testutil"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		Username: "  Wanderer ",
		Email:    "Wanderer@Example.COM",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID.IsZero() {
		t.Error("Create should assign an ID")
	}
	if created.Username != "Wanderer" {
		t.Errorf("Username: got %q, want trimmed %q", created.Username, "Wanderer")
	}
	if created.Email != "wanderer@example.com" {
		t.Errorf("Email: got %q, want lowercased", created.Email)
	}
}

func TestStore_Create_DuplicateUsername(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	store := userstore.New(db)

	if _, err := store.Create(ctx, models.User{Username: "traveler", Email: "a@example.com"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	// Same username, different case: username_ci collides.
	_, err := store.Create(ctx, models.User{Username: "Traveler", Email: "b@example.com"})
	if !errors.Is(err, userstore.ErrDuplicateUsername) {
		t.Errorf("err: got %v, want ErrDuplicateUsername", err)
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	store := userstore.New(db)

	if _, err := store.Create(ctx, models.User{Username: "one", Email: "same@example.com"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	_, err := store.Create(ctx, models.User{Username: "two", Email: "same@example.com"})
	if !errors.Is(err, userstore.ErrDuplicateUsername) {
		t.Errorf("err: got %v, want ErrDuplicateUsername", err)
	}
}

func TestStore_GetByUsername_CaseInsensitive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{Username: "SunChaser", Email: "sun@example.com"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.GetByUsername(ctx, "sunchaser")
	if err != nil {
		t.Fatalf("GetByUsername failed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("ID: got %s, want %s", got.ID.Hex(), created.ID.Hex())
	}
}

func TestStore_GetByUsername_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByUsername(ctx, "nobody")
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("err: got %v, want ErrNoDocuments", err)
	}
}

func TestStore_UpsertByEmail_ReturnsExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{Username: "pat", Email: "pat@example.com"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.UpsertByEmail(ctx, "pat@example.com", "pat", "", "google")
	if err != nil {
		t.Fatalf("UpsertByEmail failed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("should reuse existing account: got %s, want %s", got.ID.Hex(), created.ID.Hex())
	}
}

func TestStore_UpsertByEmail_CreatesNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	got, err := store.UpsertByEmail(ctx, "new@example.com", "newbie", "https://example.com/pic.jpg", "google")
	if err != nil {
		t.Fatalf("UpsertByEmail failed: %v", err)
	}
	if got.Username != "newbie" {
		t.Errorf("Username: got %q, want %q", got.Username, "newbie")
	}
	if got.AuthMethod != "google" {
		t.Errorf("AuthMethod: got %q, want %q", got.AuthMethod, "google")
	}
}

func TestStore_UpsertByEmail_UsernameTakenByOtherAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	store := userstore.New(db)

	// Someone else already holds the derived username.
	if _, err := store.Create(ctx, models.User{Username: "chris", Email: "other@example.com"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.UpsertByEmail(ctx, "chris@example.com", "chris", "", "google")
	if err != nil {
		t.Fatalf("UpsertByEmail failed: %v", err)
	}
	if got.Email != "chris@example.com" {
		t.Errorf("Email: got %q", got.Email)
	}
	if got.Username == "chris" {
		t.Error("new account must not steal the taken username")
	}
}

func TestStore_UpdateProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{Username: "morgan", Email: "morgan@example.com"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	err = store.UpdateProfile(ctx, created.ID, "Morgan", "Reyes", "", "Collector of sunsets")
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.FirstName != "Morgan" || got.LastName != "Reyes" {
		t.Errorf("name: got %q %q", got.FirstName, got.LastName)
	}
	if got.Description != "Collector of sunsets" {
		t.Errorf("Description: got %q", got.Description)
	}
}

func TestStore_TouchActive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{Username: "lee", Email: "lee@example.com"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.LastActiveAt != nil {
		t.Fatal("LastActiveAt should start unset")
	}

	if err := store.TouchActive(ctx, created.ID); err != nil {
		t.Fatalf("TouchActive failed: %v", err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.LastActiveAt == nil {
		t.Error("LastActiveAt should be set after TouchActive")
	}
}

package accesspolicy_test

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tripnest/tripnest/internal/app/policy/accesspolicy"
	"github.com/tripnest/tripnest/internal/app/system/apperr"
	"github.com/tripnest/tripnest/internal/domain/models"
	"github.com/tripnest/tripnest/internal/testutil"
)

func TestResolver_UnknownType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	resolver := accesspolicy.NewDefault(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := resolver.CheckPermission(ctx, primitive.NewObjectID(), "widgets", primitive.NewObjectID())
	if apperr.KindOf(err) != apperr.Validation {
		t.Errorf("kind: got %v, want Validation", apperr.KindOf(err))
	}

	_, err = resolver.CheckAuthor(ctx, "widgets", primitive.NewObjectID(), primitive.NewObjectID())
	if apperr.KindOf(err) != apperr.Validation {
		t.Errorf("kind: got %v, want Validation", apperr.KindOf(err))
	}
}

func TestResolver_CheckPermission_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	resolver := accesspolicy.NewDefault(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := resolver.CheckPermission(ctx, primitive.NewObjectID(), accesspolicy.TypeVacations, primitive.NewObjectID())
	if !apperr.IsNotFound(err) {
		t.Errorf("err: got %v, want NotFound", err)
	}
}

func TestResolver_CheckPermission_Public(t *testing.T) {
	db := testutil.SetupTestDB(t)
	resolver := accesspolicy.NewDefault(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()
	v := fixtures.CreateVacation(ctx, owner, "Open Trip", models.SharePublic)

	doc, err := resolver.CheckPermission(ctx, stranger, accesspolicy.TypeVacations, v.ID)
	if err != nil {
		t.Fatalf("CheckPermission failed: %v", err)
	}
	if doc.OwnerID != owner {
		t.Errorf("OwnerID: got %s, want %s", doc.OwnerID.Hex(), owner.Hex())
	}
}

func TestResolver_CheckPermission_OnlyMe(t *testing.T) {
	db := testutil.SetupTestDB(t)
	resolver := accesspolicy.NewDefault(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()
	v := fixtures.CreateVacation(ctx, owner, "Private Trip", models.ShareOnlyMe)

	if _, err := resolver.CheckPermission(ctx, owner, accesspolicy.TypeVacations, v.ID); err != nil {
		t.Errorf("owner should see an onlyme vacation: %v", err)
	}

	_, err := resolver.CheckPermission(ctx, stranger, accesspolicy.TypeVacations, v.ID)
	if !apperr.IsForbidden(err) {
		t.Errorf("err: got %v, want Forbidden", err)
	}
}

func TestResolver_CheckPermission_Protected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	resolver := accesspolicy.NewDefault(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	viewer := primitive.NewObjectID()
	stranger := primitive.NewObjectID()
	v := fixtures.CreateVacationWithLists(ctx, owner, "Shared Trip", models.ShareProtected,
		nil, []primitive.ObjectID{viewer})

	if _, err := resolver.CheckPermission(ctx, viewer, accesspolicy.TypeVacations, v.ID); err != nil {
		t.Errorf("share list member should be granted: %v", err)
	}
	// Members are in the share list too.
	if _, err := resolver.CheckPermission(ctx, owner, accesspolicy.TypeVacations, v.ID); err != nil {
		t.Errorf("owner should be granted: %v", err)
	}

	_, err := resolver.CheckPermission(ctx, stranger, accesspolicy.TypeVacations, v.ID)
	if !apperr.IsForbidden(err) {
		t.Errorf("err: got %v, want Forbidden", err)
	}
}

func TestResolver_CheckPermission_UnrecognizedPolicyDenies(t *testing.T) {
	db := testutil.SetupTestDB(t)
	resolver := accesspolicy.NewDefault(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	v := models.Vacation{
		ID:          primitive.NewObjectID(),
		UserID:      owner,
		Title:       "Corrupt",
		ShareStatus: "everyone",
		MemberList:  []primitive.ObjectID{owner},
	}
	if _, err := db.Collection("vacations").InsertOne(ctx, v); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	// Even the owner is denied under an unmodeled policy.
	_, err := resolver.CheckPermission(ctx, owner, accesspolicy.TypeVacations, v.ID)
	if !apperr.IsForbidden(err) {
		t.Errorf("err: got %v, want Forbidden", err)
	}
}

func TestResolver_CheckPermission_PostDelegatesToVacation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	resolver := accesspolicy.NewDefault(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()
	poster := primitive.NewObjectID()

	v := fixtures.CreateVacation(ctx, owner, "Locked Trip", models.ShareOnlyMe)
	p := fixtures.CreatePost(ctx, v.ID, poster, "a post")

	// The authorizing document is the vacation, never the post, so its
	// owner (not the post's author) is the notification receiver.
	doc, err := resolver.CheckPermission(ctx, owner, accesspolicy.TypePosts, p.ID)
	if err != nil {
		t.Fatalf("CheckPermission failed: %v", err)
	}
	if doc.ID != v.ID {
		t.Errorf("AuthDoc.ID: got %s, want vacation %s", doc.ID.Hex(), v.ID.Hex())
	}
	if doc.OwnerID != owner {
		t.Errorf("AuthDoc.OwnerID: got %s, want vacation owner", doc.OwnerID.Hex())
	}

	_, err = resolver.CheckPermission(ctx, stranger, accesspolicy.TypePosts, p.ID)
	if !apperr.IsForbidden(err) {
		t.Errorf("err: got %v, want Forbidden via parent policy", err)
	}
}

func TestResolver_CheckPermission_AlbumDelegatesToVacation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	resolver := accesspolicy.NewDefault(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	v := fixtures.CreateVacation(ctx, owner, "Locked Trip", models.ShareOnlyMe)
	a := fixtures.CreateAlbum(ctx, v.ID, owner, "Hidden Photos")

	doc, err := resolver.CheckPermission(ctx, owner, accesspolicy.TypeAlbums, a.ID)
	if err != nil {
		t.Fatalf("CheckPermission failed: %v", err)
	}
	if doc.ID != v.ID {
		t.Errorf("AuthDoc.ID: got %s, want vacation %s", doc.ID.Hex(), v.ID.Hex())
	}

	_, err = resolver.CheckPermission(ctx, stranger, accesspolicy.TypeAlbums, a.ID)
	if !apperr.IsForbidden(err) {
		t.Errorf("err: got %v, want Forbidden via parent policy", err)
	}

	orphan := fixtures.CreateAlbum(ctx, primitive.NewObjectID(), owner, "No Parent")
	_, err = resolver.CheckPermission(ctx, owner, accesspolicy.TypeAlbums, orphan.ID)
	if !apperr.IsNotFound(err) {
		t.Errorf("err: got %v, want NotFound for orphan album", err)
	}
}

func TestResolver_CheckPermission_OrphanPost(t *testing.T) {
	db := testutil.SetupTestDB(t)
	resolver := accesspolicy.NewDefault(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Parent vacation does not exist.
	p := fixtures.CreatePost(ctx, primitive.NewObjectID(), primitive.NewObjectID(), "orphan")

	_, err := resolver.CheckPermission(ctx, primitive.NewObjectID(), accesspolicy.TypePosts, p.ID)
	if !apperr.IsNotFound(err) {
		t.Errorf("err: got %v, want NotFound", err)
	}
}

func TestResolver_CheckAuthor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	resolver := accesspolicy.NewDefault(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := primitive.NewObjectID()
	other := primitive.NewObjectID()
	c := fixtures.CreateComment(ctx, "vacations", primitive.NewObjectID(), author, "nice trip")

	doc, err := resolver.CheckAuthor(ctx, accesspolicy.TypeComments, c.ID, author)
	if err != nil {
		t.Fatalf("CheckAuthor failed: %v", err)
	}
	if doc.OwnerID != author {
		t.Errorf("OwnerID: got %s, want %s", doc.OwnerID.Hex(), author.Hex())
	}

	_, err = resolver.CheckAuthor(ctx, accesspolicy.TypeComments, c.ID, other)
	if !apperr.IsForbidden(err) {
		t.Errorf("err: got %v, want Forbidden", err)
	}
}

func TestResolver_CheckAuthor_IgnoresVisibility(t *testing.T) {
	db := testutil.SetupTestDB(t)
	resolver := accesspolicy.NewDefault(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()
	v := fixtures.CreateVacation(ctx, owner, "Public But Not Yours", models.SharePublic)

	// Public visibility does not confer author rights.
	_, err := resolver.CheckAuthor(ctx, accesspolicy.TypeVacations, v.ID, stranger)
	if !apperr.IsForbidden(err) {
		t.Errorf("err: got %v, want Forbidden", err)
	}
}

func TestAuthDoc_IsMember(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	doc := accesspolicy.AuthDoc{MemberList: []primitive.ObjectID{a}}
	if !doc.IsMember(a) {
		t.Error("a should be a member")
	}
	if doc.IsMember(b) {
		t.Error("b should not be a member")
	}
}

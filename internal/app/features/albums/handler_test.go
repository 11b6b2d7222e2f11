package albums_test

import (
	"net/http"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/tripnest/tripnest/internal/app/features/albums"
	"github.com/tripnest/tripnest/internal/app/policy/accesspolicy"
	albumstore "github.com/tripnest/tripnest/internal/app/store/albums"
	vacationstore "github.com/tripnest/tripnest/internal/app/store/vacations"
	"github.com/tripnest/tripnest/internal/domain/models"
	"github.com/tripnest/tripnest/internal/testutil"
)

func newTestHandler(t *testing.T, db *mongo.Database) *albums.Handler {
	t.Helper()
	return albums.NewHandler(accesspolicy.NewDefault(db), albumstore.New(db), vacationstore.New(db), zap.NewNop())
}

func TestServeCreate_MemberOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	handler := newTestHandler(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "owner", "owner@example.com")
	viewer := fixtures.CreateUser(ctx, "viewer", "viewer@example.com")
	v := fixtures.CreateVacation(ctx, owner.ID, "Open Trip", models.SharePublic)

	req := testutil.NewJSONRequest("POST", "/vacations/"+v.ID.Hex()+"/albums", `{"title":"Beach Photos"}`)
	req = testutil.WithUser(req, owner)
	req = testutil.WithChiURLParam(req, "id", v.ID.Hex())

	rec := testutil.NewRecorder()
	handler.ServeCreate(rec, req)
	rec.AssertStatus(t, http.StatusCreated)
	rec.AssertContains(t, "Beach Photos")

	// The vacation is public, but a non-member still cannot add albums.
	req = testutil.NewJSONRequest("POST", "/vacations/"+v.ID.Hex()+"/albums", `{"title":"Drive-by"}`)
	req = testutil.WithUser(req, viewer)
	req = testutil.WithChiURLParam(req, "id", v.ID.Hex())

	rec = testutil.NewRecorder()
	handler.ServeCreate(rec, req)
	rec.AssertStatus(t, http.StatusForbidden)
}

func TestServeCreate_MissingTitle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	handler := newTestHandler(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "owner", "owner@example.com")
	v := fixtures.CreateVacation(ctx, owner.ID, "Open Trip", models.SharePublic)

	req := testutil.NewJSONRequest("POST", "/vacations/"+v.ID.Hex()+"/albums", `{}`)
	req = testutil.WithUser(req, owner)
	req = testutil.WithChiURLParam(req, "id", v.ID.Hex())

	rec := testutil.NewRecorder()
	handler.ServeCreate(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestServeList_GatedByVacation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	handler := newTestHandler(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "owner", "owner@example.com")
	stranger := fixtures.CreateUser(ctx, "stranger", "stranger@example.com")
	v := fixtures.CreateVacation(ctx, owner.ID, "Private Trip", models.ShareOnlyMe)
	fixtures.CreateAlbum(ctx, v.ID, owner.ID, "Hidden Photos")

	req := testutil.NewAuthenticatedRequest("GET", "/vacations/"+v.ID.Hex()+"/albums", owner)
	req = testutil.WithChiURLParam(req, "id", v.ID.Hex())

	rec := testutil.NewRecorder()
	handler.ServeList(rec, req)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Hidden Photos")

	req = testutil.NewAuthenticatedRequest("GET", "/vacations/"+v.ID.Hex()+"/albums", stranger)
	req = testutil.WithChiURLParam(req, "id", v.ID.Hex())

	rec = testutil.NewRecorder()
	handler.ServeList(rec, req)
	rec.AssertStatus(t, http.StatusForbidden)
}

func TestServeList_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	handler := newTestHandler(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "owner", "owner@example.com")
	v := fixtures.CreateVacation(ctx, owner.ID, "Open Trip", models.SharePublic)

	req := testutil.NewAuthenticatedRequest("GET", "/vacations/"+v.ID.Hex()+"/albums", owner)
	req = testutil.WithChiURLParam(req, "id", v.ID.Hex())

	rec := testutil.NewRecorder()
	handler.ServeList(rec, req)
	rec.AssertStatus(t, http.StatusNoContent)
}

func TestServeUpdate_AuthorOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	handler := newTestHandler(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "owner", "owner@example.com")
	other := fixtures.CreateUser(ctx, "other", "other@example.com")
	v := fixtures.CreateVacation(ctx, owner.ID, "Open Trip", models.SharePublic)
	a := fixtures.CreateAlbum(ctx, v.ID, owner.ID, "Old Name")

	req := testutil.NewJSONRequest("PUT", "/albums/"+a.ID.Hex(), `{"title":"Hijacked"}`)
	req = testutil.WithUser(req, other)
	req = testutil.WithChiURLParam(req, "id", a.ID.Hex())

	rec := testutil.NewRecorder()
	handler.ServeUpdate(rec, req)
	rec.AssertStatus(t, http.StatusForbidden)

	req = testutil.NewJSONRequest("PUT", "/albums/"+a.ID.Hex(), `{"title":"New Name"}`)
	req = testutil.WithUser(req, owner)
	req = testutil.WithChiURLParam(req, "id", a.ID.Hex())

	rec = testutil.NewRecorder()
	handler.ServeUpdate(rec, req)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "New Name")
}

func TestServeDelete_AuthorOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	handler := newTestHandler(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "owner", "owner@example.com")
	other := fixtures.CreateUser(ctx, "other", "other@example.com")
	v := fixtures.CreateVacation(ctx, owner.ID, "Open Trip", models.SharePublic)
	a := fixtures.CreateAlbum(ctx, v.ID, owner.ID, "Keep Out")

	req := testutil.NewAuthenticatedRequest("DELETE", "/albums/"+a.ID.Hex(), other)
	req = testutil.WithChiURLParam(req, "id", a.ID.Hex())

	rec := testutil.NewRecorder()
	handler.ServeDelete(rec, req)
	rec.AssertStatus(t, http.StatusForbidden)

	req = testutil.NewAuthenticatedRequest("DELETE", "/albums/"+a.ID.Hex(), owner)
	req = testutil.WithChiURLParam(req, "id", a.ID.Hex())

	rec = testutil.NewRecorder()
	handler.ServeDelete(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	if _, err := albumstore.New(db).GetByID(ctx, a.ID); err == nil {
		t.Error("album should be gone after delete")
	}
}

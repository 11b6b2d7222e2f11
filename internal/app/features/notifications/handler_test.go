package notifications_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"go.uber.org/zap"

	"github.com/tripnest/tripnest/internal/app/features/notifications"
	notificationstore "github.com/tripnest/tripnest/internal/app/store/notifications"
	"github.com/tripnest/tripnest/internal/domain/models"
	"github.com/tripnest/tripnest/internal/testutil"
)

func TestServeList_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	handler := notifications.NewHandler(notificationstore.New(db), zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateUser(ctx, "user", "user@example.com")

	rec := testutil.NewRecorder()
	handler.ServeList(rec, testutil.NewAuthenticatedRequest("GET", "/notifications", user))
	rec.AssertStatus(t, http.StatusNoContent)
}

func TestServeList_OnlyOwn(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	handler := notifications.NewHandler(notificationstore.New(db), zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "owner", "owner@example.com")
	actor := fixtures.CreateUser(ctx, "actor", "actor@example.com")
	other := fixtures.CreateUser(ctx, "other", "other@example.com")
	v := fixtures.CreateVacation(ctx, owner.ID, "Trip", models.SharePublic)

	fixtures.CreateNotification(ctx, owner.ID, actor.ID, v.ID, "vacations", models.ActionLike)
	fixtures.CreateNotification(ctx, other.ID, actor.ID, v.ID, "vacations", models.ActionComment)

	rec := testutil.NewRecorder()
	handler.ServeList(rec, testutil.NewAuthenticatedRequest("GET", "/notifications", owner))
	rec.AssertStatus(t, http.StatusOK)

	var resp struct {
		Data []models.Notification `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Data) != 1 {
		t.Fatalf("notifications: got %d, want 1", len(resp.Data))
	}
	if resp.Data[0].ReceiverID != owner.ID {
		t.Errorf("receiver: got %s, want owner", resp.Data[0].ReceiverID.Hex())
	}
}

func TestServeMarkSeen(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := notificationstore.New(db)
	handler := notifications.NewHandler(store, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "owner", "owner@example.com")
	actor := fixtures.CreateUser(ctx, "actor", "actor@example.com")
	v := fixtures.CreateVacation(ctx, owner.ID, "Trip", models.SharePublic)

	fixtures.CreateNotification(ctx, owner.ID, actor.ID, v.ID, "vacations", models.ActionLike)
	fixtures.CreateNotification(ctx, owner.ID, actor.ID, v.ID, "vacations", models.ActionComment)

	req := testutil.NewAuthenticatedRequest("PUT", "/notifications/seen", owner)
	rec := testutil.NewRecorder()
	handler.ServeMarkSeen(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	var resp struct {
		Data map[string]int64 `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Data["updated"] != 2 {
		t.Errorf("updated: got %d, want 2", resp.Data["updated"])
	}

	out, err := store.ListForUser(ctx, owner.ID, 10)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	for _, n := range out {
		if !n.Seen {
			t.Errorf("notification %s still unseen", n.ID.Hex())
		}
	}
}

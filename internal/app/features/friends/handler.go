// internal/app/features/friends/handler.go

// Package friends manages the friendship relation behind feed ordering.
package friends

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/tripnest/tripnest/internal/app/features/shared/respond"
	friendstore "github.com/tripnest/tripnest/internal/app/store/friends"
	userstore "github.com/tripnest/tripnest/internal/app/store/users"
	"github.com/tripnest/tripnest/internal/app/system/apperr"
	"github.com/tripnest/tripnest/internal/app/system/authz"
	"github.com/tripnest/tripnest/internal/app/system/timeouts"
)

// Handler holds the stores behind the friendship endpoints.
type Handler struct {
	Friends *friendstore.Store
	Users   *userstore.Store
	Log     *zap.Logger
}

func NewHandler(friends *friendstore.Store, users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Friends: friends, Users: users, Log: logger}
}

func friendParam(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, apperr.NotFoundf("user not found")
	}
	return id, nil
}

// ServeAdd handles PUT /friends/{id}: befriends the given user in both
// directions. Adding an existing friend is a no-op.
func (h *Handler) ServeAdd(w http.ResponseWriter, r *http.Request) {
	_, principal, ok := authz.Principal(r)
	if !ok {
		respond.Error(w, h.Log, apperr.Forbiddenf("not signed in"))
		return
	}
	friendID, err := friendParam(r)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	if _, err := h.Users.GetByID(ctx, friendID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, h.Log, apperr.NotFoundf("user not found"))
			return
		}
		respond.Error(w, h.Log, apperr.Wrap(err, "loading user"))
		return
	}

	if err := h.Friends.Add(ctx, principal, friendID); err != nil {
		if errors.Is(err, friendstore.ErrSelfFriend) {
			respond.Error(w, h.Log, apperr.Validationf(
				[]apperr.FieldError{{Field: "id", Message: "cannot add yourself as a friend"}},
				"invalid friend"))
			return
		}
		respond.Error(w, h.Log, apperr.Wrap(err, "adding friend"))
		return
	}
	respond.Data(w, http.StatusOK, nil, "friend added")
}

// ServeRemove handles DELETE /friends/{id}: removes both directions.
func (h *Handler) ServeRemove(w http.ResponseWriter, r *http.Request) {
	_, principal, ok := authz.Principal(r)
	if !ok {
		respond.Error(w, h.Log, apperr.Forbiddenf("not signed in"))
		return
	}
	friendID, err := friendParam(r)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	removed, err := h.Friends.Remove(ctx, principal, friendID)
	if err != nil {
		respond.Error(w, h.Log, apperr.Wrap(err, "removing friend"))
		return
	}
	if removed == 0 {
		respond.Error(w, h.Log, apperr.NotFoundf("friendship not found"))
		return
	}
	respond.Data(w, http.StatusOK, nil, "friend removed")
}

// ServeList handles GET /friends: the principal's friends with their
// public identities.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	_, principal, ok := authz.Principal(r)
	if !ok {
		respond.Error(w, h.Log, apperr.Forbiddenf("not signed in"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	ids, err := h.Friends.ListFriendIDs(ctx, principal)
	if err != nil {
		respond.Error(w, h.Log, apperr.Wrap(err, "listing friends"))
		return
	}

	type friendInfo struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Avatar   string `json:"avatar,omitempty"`
	}
	out := make([]friendInfo, 0, len(ids))
	for _, id := range ids {
		u, err := h.Users.GetByID(ctx, id)
		if err != nil {
			// A friend row pointing at a deleted account is skipped,
			// not fatal.
			if errors.Is(err, mongo.ErrNoDocuments) {
				continue
			}
			respond.Error(w, h.Log, apperr.Wrap(err, "loading friend"))
			return
		}
		out = append(out, friendInfo{ID: u.ID.Hex(), Username: u.Username, Avatar: u.Avatar})
	}

	respond.Data(w, http.StatusOK, out, "get friends successfully")
}

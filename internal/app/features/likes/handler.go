// internal/app/features/likes/handler.go

// Package likes serves the like list and the idempotent toggle.
// The toggle's permission check runs before every call; the store owns
// the flip and the duplicate-key race recovery.
package likes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/tripnest/tripnest/internal/app/features/shared/respond"
	"github.com/tripnest/tripnest/internal/app/policy/accesspolicy"
	likestore "github.com/tripnest/tripnest/internal/app/store/likes"
	"github.com/tripnest/tripnest/internal/app/store/queries/interactions"
	"github.com/tripnest/tripnest/internal/app/system/apperr"
	"github.com/tripnest/tripnest/internal/app/system/authz"
	"github.com/tripnest/tripnest/internal/app/system/notify"
	"github.com/tripnest/tripnest/internal/app/system/paging"
	"github.com/tripnest/tripnest/internal/app/system/timeouts"
	"github.com/tripnest/tripnest/internal/domain/models"
)

// Handler holds the stores and policies behind the like endpoints.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	Access *accesspolicy.Resolver
	Likes  *likestore.Store
	Notify notify.Dispatcher
}

func NewHandler(db *mongo.Database, access *accesspolicy.Resolver, likes *likestore.Store, dispatcher notify.Dispatcher, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger, Access: access, Likes: likes, Notify: dispatcher}
}

func likableType(t string) bool {
	switch t {
	case accesspolicy.TypeVacations, accesspolicy.TypePosts, accesspolicy.TypeAlbums:
		return true
	}
	return false
}

func target(r *http.Request) (string, primitive.ObjectID, error) {
	t := chi.URLParam(r, "type")
	if !likableType(t) {
		return "", primitive.NilObjectID, apperr.Validationf(
			[]apperr.FieldError{{Field: "type", Message: "unknown model type"}},
			"unknown model type %q", t)
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return "", primitive.NilObjectID, apperr.NotFoundf("%s not found", t)
	}
	return t, id, nil
}

// ServeList handles GET /likes/{type}/{id}?page=N.
// Responds 204 when the target has no likes.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	_, principal, ok := authz.Principal(r)
	if !ok {
		respond.Error(w, h.Log, apperr.Forbiddenf("not signed in"))
		return
	}
	modelType, modelID, err := target(r)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	if _, err := h.Access.CheckPermission(ctx, principal, modelType, modelID); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	env, found, err := interactions.ListLikes(ctx, h.DB, modelType, modelID, paging.ParsePage(r))
	if err != nil {
		respond.Error(w, h.Log, apperr.Wrap(err, "listing likes"))
		return
	}
	if !found {
		respond.NoContent(w)
		return
	}
	respond.JSON(w, http.StatusOK, env)
}

// ServeToggle handles PUT /likes/{type}/{id}: unlike if liked, like if
// not. A like that actually created a document emits a notification
// intent to the owner of the authorizing document; a like recovered
// from a lost race does not (the winner already notified).
func (h *Handler) ServeToggle(w http.ResponseWriter, r *http.Request) {
	_, principal, ok := authz.Principal(r)
	if !ok {
		respond.Error(w, h.Log, apperr.Forbiddenf("not signed in"))
		return
	}
	modelType, modelID, err := target(r)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	doc, err := h.Access.CheckPermission(ctx, principal, modelType, modelID)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	res, err := h.Likes.Toggle(ctx, modelType, modelID, principal)
	if err != nil {
		respond.Error(w, h.Log, apperr.Wrap(err, "toggling like"))
		return
	}

	if res.Outcome == likestore.Unliked {
		respond.Data(w, http.StatusOK, res.Like, "user has unliked this "+modelType)
		return
	}

	if res.Created {
		_ = h.Notify.Dispatch(ctx, notify.Intent{
			ModelType:  modelType,
			ModelID:    modelID,
			ReceiverID: doc.OwnerID,
			ActorID:    principal,
			Action:     models.ActionLike,
		})
	}
	respond.Data(w, http.StatusCreated, res.Like, "user has liked this "+modelType)
}

// internal/app/features/comments/handler.go

// Package comments serves the comments attached to vacations and posts.
// Commenting requires read permission on the target (delegated to the
// parent vacation for posts); editing and deleting require authorship
// of the comment itself.
package comments

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/tripnest/tripnest/internal/app/features/shared/respond"
	"github.com/tripnest/tripnest/internal/app/policy/accesspolicy"
	commentstore "github.com/tripnest/tripnest/internal/app/store/comments"
	"github.com/tripnest/tripnest/internal/app/store/queries/interactions"
	"github.com/tripnest/tripnest/internal/app/system/apperr"
	"github.com/tripnest/tripnest/internal/app/system/authz"
	"github.com/tripnest/tripnest/internal/app/system/notify"
	"github.com/tripnest/tripnest/internal/app/system/paging"
	"github.com/tripnest/tripnest/internal/app/system/timeouts"
	"github.com/tripnest/tripnest/internal/domain/models"
)

// Handler holds the stores and policies behind the comment endpoints.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	Access   *accesspolicy.Resolver
	Comments *commentstore.Store
	Notify   notify.Dispatcher
}

func NewHandler(db *mongo.Database, access *accesspolicy.Resolver, comments *commentstore.Store, dispatcher notify.Dispatcher, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger, Access: access, Comments: comments, Notify: dispatcher}
}

func commentableType(t string) bool {
	switch t {
	case accesspolicy.TypeVacations, accesspolicy.TypePosts, accesspolicy.TypeAlbums:
		return true
	}
	return false
}

func target(r *http.Request) (string, primitive.ObjectID, error) {
	t := chi.URLParam(r, "type")
	if !commentableType(t) {
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

// ServeList handles GET /comments/{type}/{id}?page=N.
// Responds 204 when the target has no comments.
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

	env, found, err := interactions.ListComments(ctx, h.DB, modelType, modelID, paging.ParsePage(r))
	if err != nil {
		respond.Error(w, h.Log, apperr.Wrap(err, "listing comments"))
		return
	}
	if !found {
		respond.NoContent(w)
		return
	}
	respond.JSON(w, http.StatusOK, env)
}

type commentRequest struct {
	Content string `json:"content"`
}

// ServeCreate handles POST /comments/{type}/{id}. A successful create
// emits a notification intent to the owner of the authorizing document.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
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

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, h.Log, apperr.Validationf(nil, "malformed JSON body"))
		return
	}
	if req.Content == "" {
		respond.Error(w, h.Log, apperr.Validationf(
			[]apperr.FieldError{{Field: "content", Message: "content is required"}},
			"invalid content"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	doc, err := h.Access.CheckPermission(ctx, principal, modelType, modelID)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	comment, err := h.Comments.Create(ctx, models.Comment{
		ModelType: modelType,
		ModelID:   modelID,
		UserID:    principal,
		Content:   req.Content,
	})
	if err != nil {
		respond.Error(w, h.Log, apperr.Wrap(err, "creating comment"))
		return
	}

	_ = h.Notify.Dispatch(ctx, notify.Intent{
		ModelType:  modelType,
		ModelID:    modelID,
		ReceiverID: doc.OwnerID,
		ActorID:    principal,
		Action:     models.ActionComment,
	})

	respond.Data(w, http.StatusCreated, comment, "add comment successfully")
}

// ServeUpdate handles PUT /comments/{id}. Only the author may edit.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	_, principal, ok := authz.Principal(r)
	if !ok {
		respond.Error(w, h.Log, apperr.Forbiddenf("not signed in"))
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, apperr.NotFoundf("comment not found"))
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, h.Log, apperr.Validationf(nil, "malformed JSON body"))
		return
	}
	if req.Content == "" {
		respond.Error(w, h.Log, apperr.Validationf(
			[]apperr.FieldError{{Field: "content", Message: "content is required"}},
			"invalid content"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	if _, err := h.Access.CheckAuthor(ctx, accesspolicy.TypeComments, id, principal); err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	if err := h.Comments.UpdateContent(ctx, id, req.Content); err != nil {
		respond.Error(w, h.Log, apperr.Wrap(err, "updating comment"))
		return
	}

	comment, err := h.Comments.GetByID(ctx, id)
	if err != nil {
		respond.Error(w, h.Log, apperr.Wrap(err, "reloading comment"))
		return
	}
	respond.Data(w, http.StatusOK, comment, "update comment successfully")
}

// ServeDelete handles DELETE /comments/{id}. Only the author may delete.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	_, principal, ok := authz.Principal(r)
	if !ok {
		respond.Error(w, h.Log, apperr.Forbiddenf("not signed in"))
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, apperr.NotFoundf("comment not found"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	if _, err := h.Access.CheckAuthor(ctx, accesspolicy.TypeComments, id, principal); err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	if _, err := h.Comments.Delete(ctx, id); err != nil {
		respond.Error(w, h.Log, apperr.Wrap(err, "deleting comment"))
		return
	}
	respond.Data(w, http.StatusOK, nil, "delete comment successfully")
}

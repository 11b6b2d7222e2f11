// internal/app/features/posts/handler.go

// Package posts serves the posts inside a vacation. Posts carry no
// sharing policy of their own; reads are gated by the parent vacation's
// policy and creation is restricted to vacation members.
package posts

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
	poststore "github.com/tripnest/tripnest/internal/app/store/posts"
	"github.com/tripnest/tripnest/internal/app/store/queries/postfeed"
	vacationstore "github.com/tripnest/tripnest/internal/app/store/vacations"
	"github.com/tripnest/tripnest/internal/app/system/apperr"
	"github.com/tripnest/tripnest/internal/app/system/authz"
	"github.com/tripnest/tripnest/internal/app/system/paging"
	"github.com/tripnest/tripnest/internal/app/system/timeouts"
	"github.com/tripnest/tripnest/internal/domain/models"
)

// Handler holds the stores and policies behind the post endpoints.
type Handler struct {
	DB        *mongo.Database
	Log       *zap.Logger
	Access    *accesspolicy.Resolver
	Posts     *poststore.Store
	Vacations *vacationstore.Store
}

func NewHandler(db *mongo.Database, access *accesspolicy.Resolver, posts *poststore.Store, vacations *vacationstore.Store, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger, Access: access, Posts: posts, Vacations: vacations}
}

// ServeList handles GET /vacations/{id}/posts?page=N.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	_, principal, ok := authz.Principal(r)
	if !ok {
		respond.Error(w, h.Log, apperr.Forbiddenf("not signed in"))
		return
	}
	vacationID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, apperr.NotFoundf("vacation not found"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	if _, err := h.Access.CheckPermission(ctx, principal, accesspolicy.TypeVacations, vacationID); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	env, found, err := postfeed.ListByVacation(ctx, h.DB, vacationID, paging.ParsePage(r))
	if err != nil {
		respond.Error(w, h.Log, apperr.Wrap(err, "listing posts"))
		return
	}
	if !found {
		respond.NoContent(w)
		return
	}
	respond.JSON(w, http.StatusOK, env)
}

// ServeDetail handles GET /posts/{id}.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	_, principal, ok := authz.Principal(r)
	if !ok {
		respond.Error(w, h.Log, apperr.Forbiddenf("not signed in"))
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, apperr.NotFoundf("post not found"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	// Delegates to the parent vacation's policy.
	if _, err := h.Access.CheckPermission(ctx, principal, accesspolicy.TypePosts, id); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	post, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		respond.Error(w, h.Log, apperr.NotFoundf("post not found"))
		return
	}
	respond.Data(w, http.StatusOK, post, "get post successfully")
}

type postRequest struct {
	Content  string `json:"content"`
	Location string `json:"location"`
}

// ServeCreate handles POST /vacations/{id}/posts. Only vacation members
// may post; a new post bumps the vacation's recency.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	_, principal, ok := authz.Principal(r)
	if !ok {
		respond.Error(w, h.Log, apperr.Forbiddenf("not signed in"))
		return
	}
	vacationID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, apperr.NotFoundf("vacation not found"))
		return
	}

	var req postRequest
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

	doc, err := h.Access.CheckPermission(ctx, principal, accesspolicy.TypeVacations, vacationID)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	if !doc.IsMember(principal) {
		respond.Error(w, h.Log, apperr.Forbiddenf("only vacation members can post"))
		return
	}

	post, err := h.Posts.Create(ctx, models.Post{
		VacationID: vacationID,
		UserID:     principal,
		Content:    req.Content,
		Location:   req.Location,
	})
	if err != nil {
		respond.Error(w, h.Log, apperr.Wrap(err, "creating post"))
		return
	}

	if err := h.Vacations.Touch(ctx, vacationID); err != nil {
		h.Log.Warn("failed to touch vacation", zap.String("vacation_id", vacationID.Hex()), zap.Error(err))
	}

	respond.Data(w, http.StatusCreated, post, "post created")
}

// ServeUpdate handles PUT /posts/{id}. Only the author may edit.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	_, principal, ok := authz.Principal(r)
	if !ok {
		respond.Error(w, h.Log, apperr.Forbiddenf("not signed in"))
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, apperr.NotFoundf("post not found"))
		return
	}

	var req postRequest
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

	if _, err := h.Access.CheckAuthor(ctx, accesspolicy.TypePosts, id, principal); err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	if err := h.Posts.UpdateContent(ctx, id, req.Content, req.Location); err != nil {
		respond.Error(w, h.Log, apperr.Wrap(err, "updating post"))
		return
	}

	post, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		respond.Error(w, h.Log, apperr.Wrap(err, "reloading post"))
		return
	}
	respond.Data(w, http.StatusOK, post, "update post successfully")
}

// ServeDelete handles DELETE /posts/{id}. Only the author may delete.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	_, principal, ok := authz.Principal(r)
	if !ok {
		respond.Error(w, h.Log, apperr.Forbiddenf("not signed in"))
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, apperr.NotFoundf("post not found"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	if _, err := h.Access.CheckAuthor(ctx, accesspolicy.TypePosts, id, principal); err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	if _, err := h.Posts.Delete(ctx, id); err != nil {
		respond.Error(w, h.Log, apperr.Wrap(err, "deleting post"))
		return
	}
	respond.Data(w, http.StatusOK, nil, "delete post successfully")
}

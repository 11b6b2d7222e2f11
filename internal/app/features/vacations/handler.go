// internal/app/features/vacations/handler.go

// Package vacations serves the vacation feed, detail, and lifecycle
// endpoints. Every read goes through the visibility predicate or an
// explicit permission check; every mutation through an author check.
package vacations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/tripnest/tripnest/internal/app/features/shared/respond"
	"github.com/tripnest/tripnest/internal/app/policy/accesspolicy"
	"github.com/tripnest/tripnest/internal/app/policy/visibility"
	albumstore "github.com/tripnest/tripnest/internal/app/store/albums"
	commentstore "github.com/tripnest/tripnest/internal/app/store/comments"
	likestore "github.com/tripnest/tripnest/internal/app/store/likes"
	poststore "github.com/tripnest/tripnest/internal/app/store/posts"
	"github.com/tripnest/tripnest/internal/app/store/queries/vacationfeed"
	resourcestore "github.com/tripnest/tripnest/internal/app/store/resources"
	vacationstore "github.com/tripnest/tripnest/internal/app/store/vacations"
	"github.com/tripnest/tripnest/internal/app/system/apperr"
	"github.com/tripnest/tripnest/internal/app/system/authz"
	"github.com/tripnest/tripnest/internal/app/system/paging"
	"github.com/tripnest/tripnest/internal/app/system/timeouts"
	"github.com/tripnest/tripnest/internal/domain/models"
)

// Handler holds the stores and policies behind the vacation endpoints.
type Handler struct {
	DB        *mongo.Database
	Log       *zap.Logger
	Access    *accesspolicy.Resolver
	Vacations *vacationstore.Store
	Posts     *poststore.Store
	Albums    *albumstore.Store
	Comments  *commentstore.Store
	Likes     *likestore.Store
	Resources *resourcestore.Store
}

func NewHandler(db *mongo.Database, access *accesspolicy.Resolver, vacations *vacationstore.Store, posts *poststore.Store, albums *albumstore.Store, comments *commentstore.Store, likes *likestore.Store, resources *resourcestore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		DB:        db,
		Log:       logger,
		Access:    access,
		Vacations: vacations,
		Posts:     posts,
		Albums:    albums,
		Comments:  comments,
		Likes:     likes,
		Resources: resources,
	}
}

// ServeList handles GET /vacations?type=newFeed|userProfile&page=N.
// Responds 204 when nothing is visible to the principal.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	_, principal, ok := authz.Principal(r)
	if !ok {
		respond.Error(w, h.Log, apperr.Forbiddenf("not signed in"))
		return
	}
	feed := visibility.ParseFeedType(query.Get(r, "type"))
	page := paging.ParsePage(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	env, found, err := vacationfeed.Feed(ctx, h.DB, principal, feed, page)
	if err != nil {
		respond.Error(w, h.Log, apperr.Wrap(err, "running vacation feed"))
		return
	}
	if !found {
		respond.NoContent(w)
		return
	}
	respond.JSON(w, http.StatusOK, env)
}

// ServeDetail handles GET /vacations/{id}. The permission check runs
// first; a successful read counts one view.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	_, principal, ok := authz.Principal(r)
	if !ok {
		respond.Error(w, h.Log, apperr.Forbiddenf("not signed in"))
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, apperr.NotFoundf("vacation not found"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	if _, err := h.Access.CheckPermission(ctx, principal, accesspolicy.TypeVacations, id); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	detail, err := vacationfeed.Detail(ctx, h.DB, id, principal)
	if err != nil {
		respond.Error(w, h.Log, apperr.Wrap(err, "loading vacation detail"))
		return
	}
	if detail == nil {
		respond.Error(w, h.Log, apperr.NotFoundf("vacation not found"))
		return
	}

	if err := h.Vacations.IncrementViews(ctx, id); err != nil {
		h.Log.Warn("failed to bump view counter", zap.String("vacation_id", id.Hex()), zap.Error(err))
	}

	respond.Data(w, http.StatusOK, detail, "get detail successfully")
}

type upsertRequest struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	ShareStatus  string     `json:"shareStatus"`
	MemberList   []string   `json:"memberList"`
	ShareList    []string   `json:"shareList"`
	StartingTime *time.Time `json:"startingTime"`
	EndingTime   *time.Time `json:"endingTime"`
	Cover        string     `json:"cover"` // resource ID to bind as cover
}

func parseIDList(raw []string, field string) ([]primitive.ObjectID, error) {
	out := make([]primitive.ObjectID, 0, len(raw))
	for _, s := range raw {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return nil, apperr.Validationf(
				[]apperr.FieldError{{Field: field, Message: "contains a malformed id"}},
				"invalid %s", field)
		}
		out = append(out, id)
	}
	return out, nil
}

// ServeCreate handles POST /vacations.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	_, principal, ok := authz.Principal(r)
	if !ok {
		respond.Error(w, h.Log, apperr.Forbiddenf("not signed in"))
		return
	}

	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, h.Log, apperr.Validationf(nil, "malformed JSON body"))
		return
	}
	if req.Title == "" {
		respond.Error(w, h.Log, apperr.Validationf(
			[]apperr.FieldError{{Field: "title", Message: "title is required"}},
			"invalid title"))
		return
	}
	members, err := parseIDList(req.MemberList, "memberList")
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	share, err := parseIDList(req.ShareList, "shareList")
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	v := models.Vacation{
		Title:       req.Title,
		Description: req.Description,
		ShareStatus: req.ShareStatus,
		MemberList:  members,
		ShareList:   share,
	}
	if req.StartingTime != nil {
		v.StartingTime = *req.StartingTime
	}
	if req.EndingTime != nil {
		v.EndingTime = *req.EndingTime
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	created, err := h.Vacations.Create(ctx, principal, v)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	if req.Cover != "" {
		coverID, err := primitive.ObjectIDFromHex(req.Cover)
		if err != nil {
			respond.Error(w, h.Log, apperr.Validationf(
				[]apperr.FieldError{{Field: "cover", Message: "malformed resource id"}},
				"invalid cover"))
			return
		}
		err = h.Resources.Bind(ctx, coverID, principal, "vacations", "cover", created.ID)
		switch {
		case err == nil:
		case errors.Is(err, resourcestore.ErrNotFound),
			errors.Is(err, resourcestore.ErrNotOwner),
			errors.Is(err, resourcestore.ErrAlreadyBound):
			// The vacation is already created; a bad cover reference
			// degrades to no cover rather than failing the request.
			h.Log.Warn("cover resource not bound",
				zap.String("resource_id", coverID.Hex()),
				zap.String("vacation_id", created.ID.Hex()),
				zap.Error(err))
		default:
			respond.Error(w, h.Log, apperr.Wrap(err, "binding cover resource"))
			return
		}
	}

	respond.Data(w, http.StatusCreated, created, "vacation created")
}

// ServeUpdate handles PUT /vacations/{id}.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	_, principal, ok := authz.Principal(r)
	if !ok {
		respond.Error(w, h.Log, apperr.Forbiddenf("not signed in"))
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, apperr.NotFoundf("vacation not found"))
		return
	}

	var raw map[string]json.RawMessage
	body := json.NewDecoder(r.Body)
	if err := body.Decode(&raw); err != nil {
		respond.Error(w, h.Log, apperr.Validationf(nil, "malformed JSON body"))
		return
	}

	params, err := updateParams(raw)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	if _, err := h.Access.CheckAuthor(ctx, accesspolicy.TypeVacations, id, principal); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	cur, err := h.Vacations.GetByID(ctx, id)
	if err != nil {
		respond.Error(w, h.Log, apperr.NotFoundf("vacation not found"))
		return
	}

	updated, err := h.Vacations.Update(ctx, *cur, principal, params)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.Data(w, http.StatusOK, updated, "update successfully")
}

// updateParams converts the partial JSON body into store update params,
// distinguishing absent fields from present-but-zero ones.
func updateParams(raw map[string]json.RawMessage) (vacationstore.UpdateParams, error) {
	var p vacationstore.UpdateParams

	strField := func(key string) (*string, error) {
		v, ok := raw[key]
		if !ok {
			return nil, nil
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return nil, apperr.Validationf(
				[]apperr.FieldError{{Field: key, Message: "must be a string"}},
				"invalid %s", key)
		}
		return &s, nil
	}
	timeField := func(key string) (*time.Time, error) {
		v, ok := raw[key]
		if !ok {
			return nil, nil
		}
		var t time.Time
		if err := json.Unmarshal(v, &t); err != nil {
			return nil, apperr.Validationf(
				[]apperr.FieldError{{Field: key, Message: "must be an RFC 3339 timestamp"}},
				"invalid %s", key)
		}
		return &t, nil
	}
	idsField := func(key string) ([]primitive.ObjectID, error) {
		v, ok := raw[key]
		if !ok {
			return nil, nil
		}
		var ss []string
		if err := json.Unmarshal(v, &ss); err != nil {
			return nil, apperr.Validationf(
				[]apperr.FieldError{{Field: key, Message: "must be an array of ids"}},
				"invalid %s", key)
		}
		return parseIDList(ss, key)
	}

	var err error
	if p.Title, err = strField("title"); err != nil {
		return p, err
	}
	if p.Description, err = strField("description"); err != nil {
		return p, err
	}
	if p.ShareStatus, err = strField("shareStatus"); err != nil {
		return p, err
	}
	if p.StartingTime, err = timeField("startingTime"); err != nil {
		return p, err
	}
	if p.EndingTime, err = timeField("endingTime"); err != nil {
		return p, err
	}
	if p.MemberList, err = idsField("memberList"); err != nil {
		return p, err
	}
	if p.ShareList, err = idsField("shareList"); err != nil {
		return p, err
	}
	return p, nil
}

// ServeDelete handles DELETE /vacations/{id}: author check, then the
// cascade removes the vacation's posts and albums, the comments and
// likes attached to the vacation or its children, and unbinds its
// resources.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	_, principal, ok := authz.Principal(r)
	if !ok {
		respond.Error(w, h.Log, apperr.Forbiddenf("not signed in"))
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, apperr.NotFoundf("vacation not found"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long)
	defer cancel()

	if _, err := h.Access.CheckAuthor(ctx, accesspolicy.TypeVacations, id, principal); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	postIDs, err := h.Posts.IDsByVacation(ctx, id)
	if err != nil {
		respond.Error(w, h.Log, apperr.Wrap(err, "listing vacation posts"))
		return
	}
	albumIDs, err := h.Albums.IDsByVacation(ctx, id)
	if err != nil {
		respond.Error(w, h.Log, apperr.Wrap(err, "listing vacation albums"))
		return
	}

	if _, err := h.Vacations.Delete(ctx, id); err != nil {
		respond.Error(w, h.Log, apperr.Wrap(err, "deleting vacation"))
		return
	}

	// Best-effort cascade: the vacation itself is gone, so orphaned
	// attachments are already invisible; failures are logged, not
	// surfaced.
	if _, err := h.Posts.DeleteByVacation(ctx, id); err != nil {
		h.Log.Error("cascade: deleting posts failed", zap.String("vacation_id", id.Hex()), zap.Error(err))
	}
	if _, err := h.Albums.DeleteByVacation(ctx, id); err != nil {
		h.Log.Error("cascade: deleting albums failed", zap.String("vacation_id", id.Hex()), zap.Error(err))
	}
	for _, modelType := range []string{accesspolicy.TypeVacations, accesspolicy.TypePosts, accesspolicy.TypeAlbums} {
		targets := []primitive.ObjectID{id}
		switch modelType {
		case accesspolicy.TypePosts:
			targets = postIDs
		case accesspolicy.TypeAlbums:
			targets = albumIDs
		}
		if len(targets) == 0 {
			continue
		}
		if _, err := h.Comments.DeleteByTargets(ctx, modelType, targets); err != nil {
			h.Log.Error("cascade: deleting comments failed", zap.String("model_type", modelType), zap.Error(err))
		}
		if _, err := h.Likes.DeleteByTargets(ctx, modelType, targets); err != nil {
			h.Log.Error("cascade: deleting likes failed", zap.String("model_type", modelType), zap.Error(err))
		}
	}
	if _, err := h.Resources.UnbindByEntity(ctx, accesspolicy.TypeVacations, []primitive.ObjectID{id}); err != nil {
		h.Log.Error("cascade: unbinding resources failed", zap.String("vacation_id", id.Hex()), zap.Error(err))
	}

	respond.Data(w, http.StatusOK, nil, "delete successfully")
}

// internal/app/features/albums/handler.go

// Package albums serves the photo albums inside a vacation. Like
// posts, albums carry no sharing policy of their own; reads are gated
// by the parent vacation's policy and creation is restricted to
// vacation members.
package albums

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/tripnest/tripnest/internal/app/features/shared/respond"
	"github.com/tripnest/tripnest/internal/app/policy/accesspolicy"
	albumstore "github.com/tripnest/tripnest/internal/app/store/albums"
	vacationstore "github.com/tripnest/tripnest/internal/app/store/vacations"
	"github.com/tripnest/tripnest/internal/app/system/apperr"
	"github.com/tripnest/tripnest/internal/app/system/authz"
	"github.com/tripnest/tripnest/internal/app/system/timeouts"
	"github.com/tripnest/tripnest/internal/domain/models"
)

// Handler holds the stores and policies behind the album endpoints.
type Handler struct {
	Log       *zap.Logger
	Access    *accesspolicy.Resolver
	Albums    *albumstore.Store
	Vacations *vacationstore.Store
}

func NewHandler(access *accesspolicy.Resolver, albums *albumstore.Store, vacations *vacationstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Log: logger, Access: access, Albums: albums, Vacations: vacations}
}

type albumRequest struct {
	Title string `json:"title"`
}

// ServeList handles GET /vacations/{id}/albums.
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

	out, err := h.Albums.ListByVacation(ctx, vacationID)
	if err != nil {
		respond.Error(w, h.Log, apperr.Wrap(err, "listing albums"))
		return
	}
	if len(out) == 0 {
		respond.NoContent(w)
		return
	}
	respond.Data(w, http.StatusOK, out, "get albums successfully")
}

// ServeCreate handles POST /vacations/{id}/albums. Only vacation
// members may create one; a new album bumps the vacation's recency.
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

	var req albumRequest
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	doc, err := h.Access.CheckPermission(ctx, principal, accesspolicy.TypeVacations, vacationID)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	if !doc.IsMember(principal) {
		respond.Error(w, h.Log, apperr.Forbiddenf("only vacation members can create albums"))
		return
	}

	album, err := h.Albums.Create(ctx, models.Album{
		VacationID: vacationID,
		UserID:     principal,
		Title:      req.Title,
	})
	if err != nil {
		respond.Error(w, h.Log, apperr.Wrap(err, "creating album"))
		return
	}

	if err := h.Vacations.Touch(ctx, vacationID); err != nil {
		h.Log.Warn("failed to touch vacation", zap.String("vacation_id", vacationID.Hex()), zap.Error(err))
	}

	respond.Data(w, http.StatusCreated, album, "album created")
}

// ServeUpdate handles PUT /albums/{id}. Only the author may rename.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	_, principal, ok := authz.Principal(r)
	if !ok {
		respond.Error(w, h.Log, apperr.Forbiddenf("not signed in"))
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, apperr.NotFoundf("album not found"))
		return
	}

	var req albumRequest
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	if _, err := h.Access.CheckAuthor(ctx, accesspolicy.TypeAlbums, id, principal); err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	if err := h.Albums.UpdateTitle(ctx, id, req.Title); err != nil {
		respond.Error(w, h.Log, apperr.Wrap(err, "updating album"))
		return
	}

	album, err := h.Albums.GetByID(ctx, id)
	if err != nil {
		respond.Error(w, h.Log, apperr.Wrap(err, "reloading album"))
		return
	}
	respond.Data(w, http.StatusOK, album, "update album successfully")
}

// ServeDelete handles DELETE /albums/{id}. Only the author may delete.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	_, principal, ok := authz.Principal(r)
	if !ok {
		respond.Error(w, h.Log, apperr.Forbiddenf("not signed in"))
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, apperr.NotFoundf("album not found"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	if _, err := h.Access.CheckAuthor(ctx, accesspolicy.TypeAlbums, id, principal); err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	if _, err := h.Albums.Delete(ctx, id); err != nil {
		respond.Error(w, h.Log, apperr.Wrap(err, "deleting album"))
		return
	}
	respond.Data(w, http.StatusOK, nil, "delete album successfully")
}

// internal/app/features/resources/handler.go

// Package resources serves file uploads (vacation covers, post photos).
// An upload lands unbound; creating the owning entity binds it to
// exactly one field, and a bound resource is never re-bound.
package resources

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/tripnest/tripnest/internal/app/features/shared/respond"
	"github.com/tripnest/tripnest/internal/app/policy/accesspolicy"
	resourcestore "github.com/tripnest/tripnest/internal/app/store/resources"
	"github.com/tripnest/tripnest/internal/app/system/apperr"
	"github.com/tripnest/tripnest/internal/app/system/authz"
	"github.com/tripnest/tripnest/internal/app/system/timeouts"
	"github.com/tripnest/tripnest/internal/domain/models"
)

const maxUploadBytes = 32 << 20 // 32MB

// Handler holds the store and storage root behind the upload endpoints.
type Handler struct {
	Resources *resourcestore.Store
	Access    *accesspolicy.Resolver
	Log       *zap.Logger

	// LocalPath is the directory uploaded files are written under;
	// LocalURL is the URL prefix they are served from.
	LocalPath string
	LocalURL  string
}

func NewHandler(resources *resourcestore.Store, access *accesspolicy.Resolver, localPath, localURL string, logger *zap.Logger) *Handler {
	return &Handler{
		Resources: resources,
		Access:    access,
		Log:       logger,
		LocalPath: localPath,
		LocalURL:  localURL,
	}
}

// ServeUpload handles POST /resources (multipart, field "file").
func (h *Handler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	_, principal, ok := authz.Principal(r)
	if !ok {
		respond.Error(w, h.Log, apperr.Forbiddenf("not signed in"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respond.Error(w, h.Log, apperr.Validationf(
			[]apperr.FieldError{{Field: "file", Message: "upload too large or malformed"}},
			"invalid upload"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, h.Log, apperr.Validationf(
			[]apperr.FieldError{{Field: "file", Message: "file field is required"}},
			"invalid upload"))
		return
	}
	defer file.Close()

	relPath := uniquePath(header.Filename)
	fullPath := filepath.Join(h.LocalPath, filepath.FromSlash(relPath))
	if err := writeFile(fullPath, file); err != nil {
		respond.Error(w, h.Log, apperr.Wrap(err, "storing uploaded file"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	res, err := h.Resources.Create(ctx, models.Resource{
		UserID: principal,
		Name:   header.Filename,
		Type:   header.Header.Get("Content-Type"),
		Size:   header.Size,
		Path:   relPath,
	})
	if err != nil {
		// Remove the orphan file so failed uploads don't accumulate.
		if rmErr := os.Remove(fullPath); rmErr != nil {
			h.Log.Warn("failed to remove orphan upload", zap.String("path", fullPath), zap.Error(rmErr))
		}
		respond.Error(w, h.Log, apperr.Wrap(err, "recording uploaded file"))
		return
	}

	h.Log.Info("resource uploaded",
		zap.String("resource_id", res.ID.Hex()),
		zap.String("path", relPath),
		zap.Int64("size", res.Size))
	respond.Data(w, http.StatusCreated, res, "upload successful")
}

// ServeListOwn handles GET /resources: the principal's own uploads.
func (h *Handler) ServeListOwn(w http.ResponseWriter, r *http.Request) {
	_, principal, ok := authz.Principal(r)
	if !ok {
		respond.Error(w, h.Log, apperr.Forbiddenf("not signed in"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	out, err := h.Resources.ListByOwner(ctx, principal)
	if err != nil {
		respond.Error(w, h.Log, apperr.Wrap(err, "listing resources"))
		return
	}
	respond.Data(w, http.StatusOK, out, "get resources successfully")
}

// ServeDelete handles DELETE /resources/{id}. Only the uploader may
// delete; the stored file is removed after the document.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	_, principal, ok := authz.Principal(r)
	if !ok {
		respond.Error(w, h.Log, apperr.Forbiddenf("not signed in"))
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, apperr.NotFoundf("resource not found"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	if _, err := h.Access.CheckAuthor(ctx, accesspolicy.TypeResources, id, principal); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	res, err := h.Resources.GetByID(ctx, id)
	if err != nil {
		respond.Error(w, h.Log, apperr.NotFoundf("resource not found"))
		return
	}
	if _, err := h.Resources.Delete(ctx, id); err != nil {
		respond.Error(w, h.Log, apperr.Wrap(err, "deleting resource"))
		return
	}
	if err := os.Remove(filepath.Join(h.LocalPath, filepath.FromSlash(res.Path))); err != nil && !os.IsNotExist(err) {
		h.Log.Warn("failed to remove stored file", zap.String("path", res.Path), zap.Error(err))
	}

	respond.Data(w, http.StatusOK, nil, "delete resource successfully")
}

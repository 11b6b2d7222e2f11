// internal/app/features/profile/handler.go

// Package profile serves the signed-in user's own account data.
package profile

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/tripnest/tripnest/internal/app/features/shared/respond"
	userstore "github.com/tripnest/tripnest/internal/app/store/users"
	"github.com/tripnest/tripnest/internal/app/system/apperr"
	"github.com/tripnest/tripnest/internal/app/system/authz"
	"github.com/tripnest/tripnest/internal/app/system/timeouts"
)

// Handler holds the user store behind the profile endpoints.
type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger
}

func NewHandler(users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Log: logger}
}

// ServeGet handles GET /profile.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	_, principal, ok := authz.Principal(r)
	if !ok {
		respond.Error(w, h.Log, apperr.Forbiddenf("not signed in"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	u, err := h.Users.GetByID(ctx, principal)
	if err != nil {
		respond.Error(w, h.Log, apperr.NotFoundf("user not found"))
		return
	}
	respond.Data(w, http.StatusOK, u, "get profile successfully")
}

type updateRequest struct {
	FirstName   string `json:"firstname"`
	LastName    string `json:"lastname"`
	Avatar      string `json:"avatar"`
	Description string `json:"description"`
}

// ServeUpdate handles PUT /profile.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	_, principal, ok := authz.Principal(r)
	if !ok {
		respond.Error(w, h.Log, apperr.Forbiddenf("not signed in"))
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, h.Log, apperr.Validationf(nil, "malformed JSON body"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	if err := h.Users.UpdateProfile(ctx, principal, req.FirstName, req.LastName, req.Avatar, req.Description); err != nil {
		respond.Error(w, h.Log, apperr.Wrap(err, "updating profile"))
		return
	}

	u, err := h.Users.GetByID(ctx, principal)
	if err != nil {
		respond.Error(w, h.Log, apperr.Wrap(err, "reloading profile"))
		return
	}
	respond.Data(w, http.StatusOK, u, "update profile successfully")
}

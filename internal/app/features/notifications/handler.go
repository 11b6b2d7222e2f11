// internal/app/features/notifications/handler.go

// Package notifications serves a user's notification inbox.
package notifications

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/tripnest/tripnest/internal/app/features/shared/respond"
	notificationstore "github.com/tripnest/tripnest/internal/app/store/notifications"
	"github.com/tripnest/tripnest/internal/app/system/apperr"
	"github.com/tripnest/tripnest/internal/app/system/authz"
	"github.com/tripnest/tripnest/internal/app/system/timeouts"
)

// listLimit caps how many notifications one request returns.
const listLimit = 50

// Handler holds the store behind the notification endpoints.
type Handler struct {
	Notifications *notificationstore.Store
	Log           *zap.Logger
}

func NewHandler(notifications *notificationstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Notifications: notifications, Log: logger}
}

// ServeList handles GET /notifications: the principal's newest
// notifications.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	_, principal, ok := authz.Principal(r)
	if !ok {
		respond.Error(w, h.Log, apperr.Forbiddenf("not signed in"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	out, err := h.Notifications.ListForUser(ctx, principal, listLimit)
	if err != nil {
		respond.Error(w, h.Log, apperr.Wrap(err, "listing notifications"))
		return
	}
	if len(out) == 0 {
		respond.NoContent(w)
		return
	}
	respond.Data(w, http.StatusOK, out, "get notifications successfully")
}

// ServeMarkSeen handles PUT /notifications/seen: flags every unseen
// notification of the principal as seen.
func (h *Handler) ServeMarkSeen(w http.ResponseWriter, r *http.Request) {
	_, principal, ok := authz.Principal(r)
	if !ok {
		respond.Error(w, h.Log, apperr.Forbiddenf("not signed in"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	n, err := h.Notifications.MarkSeen(ctx, principal)
	if err != nil {
		respond.Error(w, h.Log, apperr.Wrap(err, "marking notifications seen"))
		return
	}
	respond.Data(w, http.StatusOK, map[string]int64{"updated": n}, "notifications marked seen")
}

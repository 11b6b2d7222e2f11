// internal/app/features/comments/routes.go
package comments

import "github.com/go-chi/chi/v5"

// MountRoutes registers the comment endpoints. Listing and creation are
// addressed by target (type + id); edits address the comment itself.
func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/comments/{type}/{id}", h.ServeList)
	r.Post("/comments/{type}/{id}", h.ServeCreate)
	r.Put("/comments/{id}", h.ServeUpdate)
	r.Delete("/comments/{id}", h.ServeDelete)
}

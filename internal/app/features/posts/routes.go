// internal/app/features/posts/routes.go
package posts

import "github.com/go-chi/chi/v5"

// MountRoutes registers the post endpoints. Listing and creation hang
// off the owning vacation; single-post operations are top level.
func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/vacations/{id}/posts", h.ServeList)
	r.Post("/vacations/{id}/posts", h.ServeCreate)
	r.Get("/posts/{id}", h.ServeDetail)
	r.Put("/posts/{id}", h.ServeUpdate)
	r.Delete("/posts/{id}", h.ServeDelete)
}

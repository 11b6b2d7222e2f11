// internal/app/features/albums/routes.go
package albums

import "github.com/go-chi/chi/v5"

// MountRoutes registers the album endpoints. Listing and creation hang
// off the owning vacation; single-album operations are top level.
func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/vacations/{id}/albums", h.ServeList)
	r.Post("/vacations/{id}/albums", h.ServeCreate)
	r.Put("/albums/{id}", h.ServeUpdate)
	r.Delete("/albums/{id}", h.ServeDelete)
}

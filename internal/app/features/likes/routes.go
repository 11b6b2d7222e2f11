// internal/app/features/likes/routes.go
package likes

import "github.com/go-chi/chi/v5"

// MountRoutes registers the like endpoints, addressed by target.
func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/likes/{type}/{id}", h.ServeList)
	r.Put("/likes/{type}/{id}", h.ServeToggle)
}

// internal/app/features/resources/routes.go
package resources

import "github.com/go-chi/chi/v5"

// Routes returns the /resources subrouter.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.ServeUpload)
	r.Get("/", h.ServeListOwn)
	r.Delete("/{id}", h.ServeDelete)
	return r
}

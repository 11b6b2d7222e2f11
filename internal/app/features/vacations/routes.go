// internal/app/features/vacations/routes.go
package vacations

import "github.com/go-chi/chi/v5"

// Routes returns the /vacations subrouter. All endpoints require a
// signed-in session (enforced by the parent router's middleware).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/", h.ServeCreate)
	r.Get("/{id}", h.ServeDetail)
	r.Put("/{id}", h.ServeUpdate)
	r.Delete("/{id}", h.ServeDelete)
	return r
}

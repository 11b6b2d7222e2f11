// internal/app/features/friends/routes.go
package friends

import "github.com/go-chi/chi/v5"

// Routes returns the /friends subrouter.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Put("/{id}", h.ServeAdd)
	r.Delete("/{id}", h.ServeRemove)
	return r
}

// internal/app/features/forms/routes.go
package forms

import "github.com/go-chi/chi/v5"

// Routes is mounted at /api/forms.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeIndex)
	r.Get("/{name}", h.ServeForm)
	return r
}

// internal/app/features/auth/routes.go
package auth

import "github.com/go-chi/chi/v5"

// Routes is mounted at /api/auth.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.HandleRegister)
	r.Post("/login", h.HandleLogin)
	r.Post("/refresh", h.HandleRefresh)
	return r
}

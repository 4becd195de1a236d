// internal/app/features/users/routes.go
package users

import (
	"github.com/dalemusser/nexa/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted at /api/users. The notifications subtree is mounted
// separately by the caller at /api/users/me/notifications.
func Routes(h *Handler, mw *auth.Middleware) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(mw.RequireBearer)

		pr.Get("/me", h.ServeMe)
		pr.Put("/me", h.HandleUpdateMe)
		pr.Get("/me/companies", h.ServeCompanies)
		pr.Get("/me/invitations", h.ServeInvitations)
	})
	return r
}

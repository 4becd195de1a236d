// internal/app/features/companies/routes.go
package companies

import (
	"github.com/dalemusser/nexa/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted at /api/companies. Every route requires a bearer token.
func Routes(h *Handler, mw *auth.Middleware) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(mw.RequireBearer)

		pr.Post("/", h.HandleCreate)
		pr.Get("/{id}", h.ServeCompany)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Get("/{id}/members", h.ServeMembers)
		pr.Post("/{id}/members", h.HandleAddMember)
	})
	return r
}

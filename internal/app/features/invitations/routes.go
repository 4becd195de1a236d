// internal/app/features/invitations/routes.go
package invitations

import (
	"github.com/dalemusser/nexa/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted at /api/invitations.
func Routes(h *Handler, mw *auth.Middleware) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(mw.RequireBearer)

		pr.Get("/{id}", h.ServeInvitation)
		pr.Post("/{id}/accept", h.HandleAccept)
		pr.Post("/{id}/decline", h.HandleDecline)
	})
	return r
}

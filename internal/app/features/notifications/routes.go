// internal/app/features/notifications/routes.go
package notifications

import (
	"github.com/dalemusser/nexa/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted at /api/users/me/notifications.
func Routes(h *Handler, mw *auth.Middleware) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(mw.RequireBearer)

		pr.Get("/", h.ServeList)
		pr.Get("/unread-count", h.ServeUnreadCount)
		pr.Post("/{id}/read", h.HandleMarkRead)
	})
	return r
}

// internal/app/features/notifications/handler.go
package notifications

import (
	"net/http"

	uierrors "github.com/dalemusser/nexa/internal/app/features/errors"
	notificationsvc "github.com/dalemusser/nexa/internal/app/services/notifications"
	"github.com/dalemusser/nexa/internal/app/system/authz"
	"github.com/dalemusser/nexa/internal/app/system/respond"
	"github.com/dalemusser/nexa/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves the caller's notifications.
type Handler struct {
	Notes  *notificationsvc.Service
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(notes *notificationsvc.Service, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Notes: notes, ErrLog: errLog, Log: logger}
}

// ServeList handles GET /api/users/me/notifications. Newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	uid, err := authz.RequireUID(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list notifications")
	defer cancel()

	list, err := h.Notes.List(ctx, uid)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	respond.OK(w, http.StatusOK, list, "")
}

// ServeUnreadCount handles GET /api/users/me/notifications/unread-count.
func (h *Handler) ServeUnreadCount(w http.ResponseWriter, r *http.Request) {
	uid, err := authz.RequireUID(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "count unread notifications")
	defer cancel()

	n, err := h.Notes.UnreadCount(ctx, uid)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	respond.OK(w, http.StatusOK, map[string]int64{"count": n}, "")
}

// HandleMarkRead handles POST /api/users/me/notifications/{id}/read.
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	uid, err := authz.RequireUID(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "mark notification read")
	defer cancel()

	if err := h.Notes.MarkRead(ctx, chi.URLParam(r, "id"), uid); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	respond.OK(w, http.StatusOK, map[string]bool{"read": true}, "Notification marked as read")
}

// internal/app/features/invitations/handler.go
package invitations

import (
	"net/http"

	uierrors "github.com/dalemusser/nexa/internal/app/features/errors"
	invitationsvc "github.com/dalemusser/nexa/internal/app/services/invitations"
	"github.com/dalemusser/nexa/internal/app/system/auditlog"
	"github.com/dalemusser/nexa/internal/app/system/authz"
	"github.com/dalemusser/nexa/internal/app/system/respond"
	"github.com/dalemusser/nexa/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler lets an invitee view and answer an invitation.
type Handler struct {
	Invitations *invitationsvc.Service
	ErrLog      *uierrors.ErrorLogger
	AuditLog    *auditlog.Logger
	Log         *zap.Logger
}

func NewHandler(invitations *invitationsvc.Service, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Invitations: invitations, ErrLog: errLog, AuditLog: audit, Log: logger}
}

// ServeInvitation handles GET /api/invitations/{id}.
func (h *Handler) ServeInvitation(w http.ResponseWriter, r *http.Request) {
	uid, err := authz.RequireUID(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get invitation")
	defer cancel()

	d, err := h.Invitations.Get(ctx, chi.URLParam(r, "id"), uid)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	respond.OK(w, http.StatusOK, d, "")
}

// HandleAccept handles POST /api/invitations/{id}/accept.
func (h *Handler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	h.answer(w, r, true)
}

// HandleDecline handles POST /api/invitations/{id}/decline.
func (h *Handler) HandleDecline(w http.ResponseWriter, r *http.Request) {
	h.answer(w, r, false)
}

func (h *Handler) answer(w http.ResponseWriter, r *http.Request, accept bool) {
	uid, err := authz.RequireUID(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "respond to invitation")
	defer cancel()

	id := chi.URLParam(r, "id")
	respondFn, key, msg := h.Invitations.Decline, "declined", "Invitation declined"
	if accept {
		respondFn, key, msg = h.Invitations.Accept, "accepted", "Invitation accepted"
	}

	inv, err := respondFn(ctx, id, uid)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	h.AuditLog.InvitationResponded(ctx, r, uid, inv.ID, accept)

	respond.OK(w, http.StatusOK, map[string]bool{key: true}, msg)
}

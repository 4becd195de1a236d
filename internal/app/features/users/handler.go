// internal/app/features/users/handler.go
package users

import (
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/nexa/internal/app/features/errors"
	invitationsvc "github.com/dalemusser/nexa/internal/app/services/invitations"
	usersvc "github.com/dalemusser/nexa/internal/app/services/users"
	"github.com/dalemusser/nexa/internal/app/system/auditlog"
	"github.com/dalemusser/nexa/internal/app/system/authz"
	"github.com/dalemusser/nexa/internal/app/system/respond"
	"github.com/dalemusser/nexa/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Handler serves the caller's own profile, companies and invitations.
type Handler struct {
	Users       *usersvc.Service
	Invitations *invitationsvc.Service
	ErrLog      *uierrors.ErrorLogger
	AuditLog    *auditlog.Logger
	Log         *zap.Logger
}

func NewHandler(users *usersvc.Service, invitations *invitationsvc.Service, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Invitations: invitations, ErrLog: errLog, AuditLog: audit, Log: logger}
}

// ServeMe handles GET /api/users/me.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	uid, err := authz.RequireUID(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get profile")
	defer cancel()

	u, err := h.Users.Get(ctx, uid)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	respond.OK(w, http.StatusOK, u, "")
}

// HandleUpdateMe handles PUT /api/users/me.
func (h *Handler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	uid, err := authz.RequireUID(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	var in usersvc.UpdateInput
	if err := respond.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update profile")
	defer cancel()

	u, changed, err := h.Users.Update(ctx, uid, in)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	if len(changed) > 0 {
		h.AuditLog.UserUpdated(ctx, r, uid, strings.Join(changed, ","))
	}
	respond.OK(w, http.StatusOK, u, "Profile updated")
}

// ServeCompanies handles GET /api/users/me/companies.
func (h *Handler) ServeCompanies(w http.ResponseWriter, r *http.Request) {
	uid, err := authz.RequireUID(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list user companies")
	defer cancel()

	list, err := h.Users.Companies(ctx, uid)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	respond.OK(w, http.StatusOK, list, "")
}

// ServeInvitations handles GET /api/users/me/invitations.
func (h *Handler) ServeInvitations(w http.ResponseWriter, r *http.Request) {
	uid, err := authz.RequireUID(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list pending invitations")
	defer cancel()

	list, err := h.Invitations.ListPending(ctx, uid)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	respond.OK(w, http.StatusOK, list, "")
}

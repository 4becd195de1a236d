// internal/app/features/companies/handler.go
package companies

import (
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/nexa/internal/app/features/errors"
	companysvc "github.com/dalemusser/nexa/internal/app/services/companies"
	"github.com/dalemusser/nexa/internal/app/system/auditlog"
	"github.com/dalemusser/nexa/internal/app/system/authz"
	"github.com/dalemusser/nexa/internal/app/system/respond"
	"github.com/dalemusser/nexa/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves companies and their members.
type Handler struct {
	Companies *companysvc.Service
	ErrLog    *uierrors.ErrorLogger
	AuditLog  *auditlog.Logger
	Log       *zap.Logger
}

func NewHandler(companies *companysvc.Service, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Companies: companies, ErrLog: errLog, AuditLog: audit, Log: logger}
}

// HandleCreate handles POST /api/companies. The caller becomes the owner.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	uid, err := authz.RequireUID(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	var in companysvc.Input
	if err := respond.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "create company")
	defer cancel()

	c, err := h.Companies.Create(ctx, in, uid)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	h.AuditLog.CompanyCreated(ctx, r, uid, c.ID, c.Name)

	respond.OK(w, http.StatusCreated, c, "Company created")
}

// ServeCompany handles GET /api/companies/{id}.
func (h *Handler) ServeCompany(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get company")
	defer cancel()

	c, err := h.Companies.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	respond.OK(w, http.StatusOK, c, "")
}

// HandleUpdate handles PUT /api/companies/{id} for owners and admins.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	uid, err := authz.RequireUID(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	var p companysvc.Patch
	if err := respond.DecodeJSON(w, r, &p); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update company")
	defer cancel()

	c, changed, err := h.Companies.Update(ctx, chi.URLParam(r, "id"), p, uid)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	if len(changed) > 0 {
		h.AuditLog.CompanyUpdated(ctx, r, uid, c.ID, strings.Join(changed, ","))
	}
	respond.OK(w, http.StatusOK, c, "Company updated")
}

// ServeMembers handles GET /api/companies/{id}/members for owners and admins.
func (h *Handler) ServeMembers(w http.ResponseWriter, r *http.Request) {
	uid, err := authz.RequireUID(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list company members")
	defer cancel()

	members, err := h.Companies.Members(ctx, chi.URLParam(r, "id"), uid)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	respond.OK(w, http.StatusOK, members, "")
}

// HandleAddMember handles POST /api/companies/{id}/members. The invitee gets
// an invitation and a notification; membership starts on acceptance.
func (h *Handler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	uid, err := authz.RequireUID(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	var in companysvc.AddMemberInput
	if err := respond.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "add company member")
	defer cancel()

	companyID := chi.URLParam(r, "id")
	res, err := h.Companies.AddMember(ctx, companyID, uid, in)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	cid, _ := primitive.ObjectIDFromHex(companyID)
	invID, _ := primitive.ObjectIDFromHex(res.InvitationID)
	h.AuditLog.MemberInvited(ctx, r, uid, res.UserID, cid, invID, res.Role)

	respond.OK(w, http.StatusCreated, res, "Invitation sent")
}

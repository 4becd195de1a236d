// internal/app/features/auth/handler.go
package auth

import (
	"net/http"

	uierrors "github.com/dalemusser/nexa/internal/app/features/errors"
	accountsvc "github.com/dalemusser/nexa/internal/app/services/accounts"
	"github.com/dalemusser/nexa/internal/app/system/apperr"
	"github.com/dalemusser/nexa/internal/app/system/auditlog"
	"github.com/dalemusser/nexa/internal/app/system/ratelimit"
	"github.com/dalemusser/nexa/internal/app/system/respond"
	"github.com/dalemusser/nexa/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves registration, login and token refresh. None of these routes
// require a bearer token.
type Handler struct {
	Accounts *accountsvc.Service
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(accounts *accountsvc.Service, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Accounts: accounts, ErrLog: errLog, AuditLog: audit, Log: logger}
}

// HandleRegister handles POST /api/auth/register.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in accountsvc.RegisterInput
	if err := respond.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "register account")
	defer cancel()

	res, err := h.Accounts.Register(ctx, in)
	if err != nil {
		h.AuditLog.RegisterFailed(ctx, r, in.User.Email, failureReason(err))
		h.ErrLog.Write(w, r, err)
		return
	}

	var companyID *primitive.ObjectID
	if oid, err := primitive.ObjectIDFromHex(res.CompanyID); err == nil {
		companyID = &oid
	}
	h.AuditLog.RegisterSuccess(ctx, r, res.UID, res.Email, companyID)

	respond.OK(w, http.StatusCreated, res, res.Message)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin handles POST /api/auth/login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := respond.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	fields := map[string]string{}
	if in.Email == "" {
		fields["email"] = "Email is required."
	}
	if in.Password == "" {
		fields["password"] = "Password is required."
	}
	if len(fields) > 0 {
		h.ErrLog.Write(w, r, apperr.Validation("Validation failed", fields))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "login")
	defer cancel()

	res, err := h.Accounts.Login(ctx, ratelimit.ClientIP(r), in.Email, in.Password)
	if err != nil {
		h.AuditLog.LoginFailed(ctx, r, accountsvc.LoginFailureEvent(err), in.Email, failureReason(err))
		h.ErrLog.Write(w, r, err)
		return
	}
	h.AuditLog.LoginSuccess(ctx, r, res.UID, res.Email)

	respond.OK(w, http.StatusOK, res, res.Message)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// HandleRefresh handles POST /api/auth/refresh.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var in refreshRequest
	if err := respond.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "refresh token")
	defer cancel()

	res, err := h.Accounts.Refresh(ctx, in.RefreshToken)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	h.AuditLog.TokenRefreshed(ctx, r, res.UID)

	respond.OK(w, http.StatusOK, res, "")
}

// failureReason is the audit reason for err: the domain message, or
// "internal error" for unexpected failures.
func failureReason(err error) string {
	if ae, ok := apperr.As(err); ok {
		return ae.Message
	}
	return "internal error"
}

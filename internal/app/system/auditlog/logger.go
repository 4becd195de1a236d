// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/nexa/internal/app/store/audit"
	"github.com/dalemusser/nexa/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destinations for a category.
const (
	DestAll = "all" // MongoDB and zap
	DestDB  = "db"
	DestLog = "log"
	DestOff = "off"
)

// Config selects a destination per category.
type Config struct {
	Auth  string
	Admin string
}

// Logger writes audit events to the audit store and to zap.
// A nil *Logger is a no-op.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

func (l *Logger) destination(category string) string {
	switch category {
	case audit.CategoryAuth:
		return l.config.Auth
	case audit.CategoryAdmin:
		return l.config.Admin
	}
	return DestAll
}

// Log records event according to the category's destination.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}
	dest := l.destination(event.Category)
	if dest == DestOff {
		return
	}
	if dest == DestAll || dest == DestLog || dest == "" {
		l.logToZap(event)
	}
	if (dest == DestAll || dest == DestDB || dest == "") && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType))
		}
	}
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.UserID != "" {
		fields = append(fields, zap.String("user_id", event.UserID))
	}
	if event.ActorID != "" {
		fields = append(fields, zap.String("actor_id", event.ActorID))
	}
	if event.CompanyID != nil {
		fields = append(fields, zap.String("company_id", event.CompanyID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

func requestEvent(r *http.Request, category, eventType string) audit.Event {
	return audit.Event{
		Category:  category,
		EventType: eventType,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	}
}

// --- Authentication events ---

func (l *Logger) RegisterSuccess(ctx context.Context, r *http.Request, uid, email string, companyID *primitive.ObjectID) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventRegisterSuccess)
	e.UserID = uid
	e.CompanyID = companyID
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

func (l *Logger) RegisterFailed(ctx context.Context, r *http.Request, email, reason string) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventRegisterFailed)
	e.Success = false
	e.FailureReason = reason
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, uid, email string) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventLoginSuccess)
	e.UserID = uid
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

// LoginFailed records a rejected login. eventType is one of the
// EventLoginFailed* constants.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, eventType, email, reason string) {
	e := requestEvent(r, audit.CategoryAuth, eventType)
	e.Success = false
	e.FailureReason = reason
	e.Details = map[string]string{"attempted_email": email}
	l.Log(ctx, e)
}

func (l *Logger) TokenRefreshed(ctx context.Context, r *http.Request, uid string) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventTokenRefreshed)
	e.UserID = uid
	l.Log(ctx, e)
}

// --- Admin events ---

func (l *Logger) UserUpdated(ctx context.Context, r *http.Request, uid, fieldsChanged string) {
	e := requestEvent(r, audit.CategoryAdmin, audit.EventUserUpdated)
	e.UserID = uid
	e.ActorID = uid
	e.Details = map[string]string{"fields_changed": fieldsChanged}
	l.Log(ctx, e)
}

func (l *Logger) CompanyCreated(ctx context.Context, r *http.Request, actorID string, companyID primitive.ObjectID, name string) {
	e := requestEvent(r, audit.CategoryAdmin, audit.EventCompanyCreated)
	e.ActorID = actorID
	e.CompanyID = &companyID
	e.Details = map[string]string{"company_name": name}
	l.Log(ctx, e)
}

func (l *Logger) CompanyUpdated(ctx context.Context, r *http.Request, actorID string, companyID primitive.ObjectID, fieldsChanged string) {
	e := requestEvent(r, audit.CategoryAdmin, audit.EventCompanyUpdated)
	e.ActorID = actorID
	e.CompanyID = &companyID
	e.Details = map[string]string{"fields_changed": fieldsChanged}
	l.Log(ctx, e)
}

func (l *Logger) MemberInvited(ctx context.Context, r *http.Request, actorID, inviteeID string, companyID, invitationID primitive.ObjectID, role string) {
	e := requestEvent(r, audit.CategoryAdmin, audit.EventMemberInvited)
	e.ActorID = actorID
	e.UserID = inviteeID
	e.CompanyID = &companyID
	e.Details = map[string]string{"role": role, "invitation_id": invitationID.Hex()}
	l.Log(ctx, e)
}

// InvitationResponded records an accept or decline by the invitee.
func (l *Logger) InvitationResponded(ctx context.Context, r *http.Request, uid string, invitationID primitive.ObjectID, accepted bool) {
	eventType := audit.EventInvitationDeclined
	if accepted {
		eventType = audit.EventInvitationAccepted
	}
	e := requestEvent(r, audit.CategoryAdmin, eventType)
	e.ActorID = uid
	e.UserID = uid
	e.Details = map[string]string{"invitation_id": invitationID.Hex()}
	l.Log(ctx, e)
}

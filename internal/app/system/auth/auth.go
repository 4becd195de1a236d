// Package auth verifies bearer tokens and carries the caller's identity in the
// request context.
package auth

import (
	"context"
	"net/http"

	"github.com/dalemusser/nexa/internal/app/system/apperr"
	"github.com/dalemusser/nexa/internal/app/system/identity"
	"github.com/dalemusser/nexa/internal/app/system/respond"
	"github.com/dalemusser/nexa/internal/app/system/timeouts"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Current user                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

// User is the verified caller injected into r.Context().
type User struct {
	UID   string
	Email string
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user and a found flag.
func CurrentUser(r *http.Request) (*User, bool) {
	u, ok := r.Context().Value(currentUserKey).(*User)
	return u, ok && u != nil
}

// WithUser returns r carrying u. Used by the middleware and by tests.
func WithUser(r *http.Request, u *User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

/*─────────────────────────────────────────────────────────────────────────────*
| Bearer middleware                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

// Verifier checks a bearer token. identity.Provider satisfies it.
type Verifier interface {
	VerifyToken(ctx context.Context, token string) (identity.Identity, error)
}

// Middleware guards routes with a bearer token.
type Middleware struct {
	verifier Verifier
	log      *zap.Logger
}

// NewMiddleware builds the guard. A nil verifier makes every guarded route
// answer 503.
func NewMiddleware(v Verifier, logger *zap.Logger) *Middleware {
	return &Middleware{verifier: v, log: logger}
}

// RequireBearer rejects requests without a valid "Authorization: Bearer" token.
func (m *Middleware) RequireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.verifier == nil {
			respond.AppError(w, apperr.Unavailable("Authentication service is not configured"))
			return
		}

		token, ok := respond.BearerToken(r)
		if !ok {
			respond.AppError(w, apperr.Unauthorized("No token provided"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		id, err := m.verifier.VerifyToken(ctx, token)
		cancel()
		if err != nil {
			switch identity.KindOf(err) {
			case identity.KindTokenExpired:
				respond.AppError(w, apperr.Unauthorized("Token expired"))
			case identity.KindTokenInvalid:
				respond.AppError(w, apperr.Unauthorized("Invalid token"))
			default:
				m.log.Warn("token verification failed", zap.Error(err))
				respond.AppError(w, apperr.Unauthorized("Authentication failed"))
			}
			return
		}

		next.ServeHTTP(w, WithUser(r, &User{UID: id.UID, Email: id.Email}))
	})
}

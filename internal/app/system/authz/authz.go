// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/dalemusser/nexa/internal/app/system/apperr"
	"github.com/dalemusser/nexa/internal/app/system/auth"
)

// RequireUID returns the caller's uid or an Unauthorized error for handlers
// mounted outside the bearer middleware by mistake. A user with an empty
// uid is treated as absent.
func RequireUID(r *http.Request) (string, error) {
	u, ok := auth.CurrentUser(r)
	if !ok || u.UID == "" {
		return "", apperr.Unauthorized("No token provided")
	}
	return u.UID, nil
}

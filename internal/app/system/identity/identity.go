// Package identity adapts third-party and self-hosted account services to the
// narrow interface the rest of the app uses: create an account, verify a
// bearer token, and run the password and refresh grants.
//
// Provider-specific error codes are mapped to Kind here and nowhere else.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Kind classifies provider failures.
type Kind int

const (
	KindUnknown Kind = iota
	KindEmailExists
	KindInvalidEmail
	KindWeakPassword
	KindTokenExpired
	KindTokenInvalid
	KindBadCredentials
	KindUserDisabled
	KindRateLimited
	KindUnavailable
)

var kindNames = map[Kind]string{
	KindUnknown:        "unknown",
	KindEmailExists:    "email_exists",
	KindInvalidEmail:   "invalid_email",
	KindWeakPassword:   "weak_password",
	KindTokenExpired:   "token_expired",
	KindTokenInvalid:   "token_invalid",
	KindBadCredentials: "bad_credentials",
	KindUserDisabled:   "user_disabled",
	KindRateLimited:    "rate_limited",
	KindUnavailable:    "unavailable",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is returned by every Provider method on failure.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("identity %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("identity %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(op string, kind Kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// KindOf returns the Kind carried by err, or KindUnknown.
func KindOf(err error) Kind {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return KindUnknown
}

// Account is a newly created provider account.
type Account struct {
	UID   string
	Email string
}

// Identity is the verified subject of a bearer token.
type Identity struct {
	UID   string
	Email string
}

// Session is the result of a password or refresh grant.
type Session struct {
	UID          string
	Email        string
	IDToken      string
	RefreshToken string
	ExpiresIn    time.Duration
}

// Provider is implemented by Firebase and Local.
type Provider interface {
	CreateUser(ctx context.Context, email, password, displayName string) (Account, error)
	VerifyToken(ctx context.Context, token string) (Identity, error)
	SignInWithPassword(ctx context.Context, email, password string) (Session, error)
	Refresh(ctx context.Context, refreshToken string) (Session, error)
}

package testutil

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/nexa/internal/app/system/identity"
	"github.com/google/uuid"
)

// FakeProvider is an in-memory identity.Provider. Access tokens are
// "token:<uid>" and refresh tokens "refresh:<uid>".
type FakeProvider struct {
	mu       sync.Mutex
	accounts map[string]fakeAccount // by email
	disabled map[string]bool        // by uid

	// Err, when set, is returned by every call.
	Err error
}

type fakeAccount struct {
	uid      string
	password string
}

func NewFakeProvider() *FakeProvider {
	return &FakeProvider{
		accounts: map[string]fakeAccount{},
		disabled: map[string]bool{},
	}
}

// Token returns the access token the fake accepts for uid.
func (p *FakeProvider) Token(uid string) string { return "token:" + uid }

// Disable makes sign-in for uid fail with KindUserDisabled.
func (p *FakeProvider) Disable(uid string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.disabled[uid] = true
}

// Seed registers an account with a fixed uid.
func (p *FakeProvider) Seed(uid, email, password string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.accounts[strings.ToLower(email)] = fakeAccount{uid: uid, password: password}
}

func (p *FakeProvider) CreateUser(_ context.Context, email, password, _ string) (identity.Account, error) {
	if p.Err != nil {
		return identity.Account{}, p.Err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	key := strings.ToLower(email)
	if !strings.Contains(key, "@") {
		return identity.Account{}, &identity.Error{Kind: identity.KindInvalidEmail, Op: "create user"}
	}
	if len(password) < 6 {
		return identity.Account{}, &identity.Error{Kind: identity.KindWeakPassword, Op: "create user"}
	}
	if _, ok := p.accounts[key]; ok {
		return identity.Account{}, &identity.Error{Kind: identity.KindEmailExists, Op: "create user"}
	}
	uid := uuid.NewString()
	p.accounts[key] = fakeAccount{uid: uid, password: password}
	return identity.Account{UID: uid, Email: key}, nil
}

func (p *FakeProvider) VerifyToken(_ context.Context, token string) (identity.Identity, error) {
	if p.Err != nil {
		return identity.Identity{}, p.Err
	}
	uid, ok := strings.CutPrefix(token, "token:")
	if !ok || uid == "" {
		return identity.Identity{}, &identity.Error{Kind: identity.KindTokenInvalid, Op: "verify token"}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for email, a := range p.accounts {
		if a.uid == uid {
			return identity.Identity{UID: uid, Email: email}, nil
		}
	}
	return identity.Identity{UID: uid}, nil
}

func (p *FakeProvider) SignInWithPassword(_ context.Context, email, password string) (identity.Session, error) {
	if p.Err != nil {
		return identity.Session{}, p.Err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	key := strings.ToLower(email)
	a, ok := p.accounts[key]
	if !ok || a.password != password {
		return identity.Session{}, &identity.Error{Kind: identity.KindBadCredentials, Op: "sign in"}
	}
	if p.disabled[a.uid] {
		return identity.Session{}, &identity.Error{Kind: identity.KindUserDisabled, Op: "sign in"}
	}
	return p.session(a.uid, key), nil
}

func (p *FakeProvider) Refresh(_ context.Context, refreshToken string) (identity.Session, error) {
	if p.Err != nil {
		return identity.Session{}, p.Err
	}
	uid, ok := strings.CutPrefix(refreshToken, "refresh:")
	if !ok || uid == "" {
		return identity.Session{}, &identity.Error{Kind: identity.KindTokenInvalid, Op: "refresh"}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session(uid, ""), nil
}

func (p *FakeProvider) session(uid, email string) identity.Session {
	return identity.Session{
		UID:          uid,
		Email:        email,
		IDToken:      p.Token(uid),
		RefreshToken: "refresh:" + uid,
		ExpiresIn:    time.Hour,
	}
}

package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/nexa/internal/app/system/auth"
	"github.com/dalemusser/nexa/internal/app/system/identity"
	"github.com/dalemusser/nexa/internal/app/system/respond"
	"go.uber.org/zap"
)

type stubVerifier struct {
	id  identity.Identity
	err error
}

func (s stubVerifier) VerifyToken(context.Context, string) (identity.Identity, error) {
	return s.id, s.err
}

func protected(t *testing.T, v auth.Verifier) (http.Handler, *bool) {
	t.Helper()
	called := false
	h := auth.NewMiddleware(v, zap.NewNop()).RequireBearer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		u, ok := auth.CurrentUser(r)
		if !ok {
			t.Error("expected user in context")
			return
		}
		w.Write([]byte(u.UID))
	}))
	return h, &called
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) respond.Envelope {
	t.Helper()
	var env respond.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return env
}

func TestRequireBearer_ValidToken(t *testing.T) {
	h, called := protected(t, stubVerifier{id: identity.Identity{UID: "u1", Email: "a@example.com"}})

	req := httptest.NewRequest("GET", "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !*called {
		t.Error("next handler not called")
	}
	if rec.Body.String() != "u1" {
		t.Errorf("body = %q, want u1", rec.Body.String())
	}
}

func TestRequireBearer_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		err     error
		wantMsg string
	}{
		{"missing header", "", nil, "No token provided"},
		{"wrong scheme", "Basic abc", nil, "No token provided"},
		{"expired", "Bearer t", &identity.Error{Kind: identity.KindTokenExpired}, "Token expired"},
		{"invalid", "Bearer t", &identity.Error{Kind: identity.KindTokenInvalid}, "Invalid token"},
		{"provider failure", "Bearer t", errors.New("network down"), "Authentication failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, called := protected(t, stubVerifier{err: tt.err})
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
			if *called {
				t.Error("next handler should not run")
			}
			env := decodeEnvelope(t, rec)
			if env.Success || env.Error == nil || env.Error.Message != tt.wantMsg {
				t.Errorf("envelope = %+v, want message %q", env, tt.wantMsg)
			}
		})
	}
}

func TestRequireBearer_NoVerifier(t *testing.T) {
	h, _ := protected(t, nil)
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer t")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestCurrentUser_Empty(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if _, ok := auth.CurrentUser(req); ok {
		t.Error("expected no user")
	}
	req = auth.WithUser(req, &auth.User{UID: "u1"})
	if u, ok := auth.CurrentUser(req); !ok || u.UID != "u1" {
		t.Errorf("CurrentUser = %+v, %v", u, ok)
	}
}

package errors_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	uierrors "github.com/dalemusser/nexa/internal/app/features/errors"
	"github.com/dalemusser/nexa/internal/app/system/apperr"
	"github.com/dalemusser/nexa/internal/testutil"
	"go.uber.org/zap"
)

func TestWrite(t *testing.T) {
	tests := []struct {
		name       string
		dev        bool
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"domain error", false, apperr.New(http.StatusConflict, apperr.CodeAlreadyMember, "User is already a member"),
			http.StatusConflict, apperr.CodeAlreadyMember, "User is already a member"},
		{"wrapped domain error", false, fmt.Errorf("add member: %w", apperr.NotFound("Company")),
			http.StatusNotFound, apperr.CodeNotFound, "Company not found"},
		{"internal error hidden", false, fmt.Errorf("mongo: connection reset"),
			http.StatusInternalServerError, "", "Internal server error"},
		{"internal error shown in dev", true, fmt.Errorf("mongo: connection reset"),
			http.StatusInternalServerError, "", "mongo: connection reset"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := uierrors.NewErrorLogger(zap.NewNop(), tt.dev)
			rec := httptest.NewRecorder()
			el.Write(rec, httptest.NewRequest(http.MethodGet, "/api/x", nil), tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			env := testutil.DecodeEnvelope(t, rec)
			if env.Success || env.Error == nil {
				t.Fatalf("expected failure envelope, got %+v", env)
			}
			if env.Error.Code != tt.wantCode || env.Error.Message != tt.wantMsg {
				t.Errorf("error = %+v", env.Error)
			}
		})
	}
}

func TestWrite_ValidationFields(t *testing.T) {
	el := uierrors.NewErrorLogger(zap.NewNop(), false)
	rec := httptest.NewRecorder()
	el.Write(rec, httptest.NewRequest(http.MethodPost, "/", nil),
		apperr.Validation("Validation failed", map[string]string{"name": "Name is required."}))

	env := testutil.DecodeEnvelope(t, rec)
	if env.Error.Errors["name"] != "Name is required." {
		t.Errorf("errors = %v", env.Error.Errors)
	}
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	uierrors.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
	if env := testutil.DecodeEnvelope(t, rec); env.Error.Message != "Route not found" {
		t.Errorf("message = %q", env.Error.Message)
	}

	rec = httptest.NewRecorder()
	uierrors.MethodNotAllowed(rec, httptest.NewRequest(http.MethodDelete, "/health", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d", rec.Code)
	}
}

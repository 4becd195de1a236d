package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	authfeature "github.com/dalemusser/nexa/internal/app/features/auth"
	uierrors "github.com/dalemusser/nexa/internal/app/features/errors"
	accountsvc "github.com/dalemusser/nexa/internal/app/services/accounts"
	companysvc "github.com/dalemusser/nexa/internal/app/services/companies"
	notificationsvc "github.com/dalemusser/nexa/internal/app/services/notifications"
	"github.com/dalemusser/nexa/internal/app/store/audit"
	"github.com/dalemusser/nexa/internal/app/system/apperr"
	"github.com/dalemusser/nexa/internal/app/system/auditlog"
	"github.com/dalemusser/nexa/internal/app/system/txn"
	"github.com/dalemusser/nexa/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type harness struct {
	db       *mongo.Database
	provider *testutil.FakeProvider
	audit    *audit.Store
	router   http.Handler
}

func newEnv(t *testing.T, mode string) harness {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	provider := testutil.NewFakeProvider()

	tx := txn.New(db, logger)
	companies := companysvc.New(db, tx, notificationsvc.New(db), logger)
	accounts := accountsvc.New(db, provider, tx, companies, accountsvc.Config{Mode: mode}, logger)

	auditStore := audit.New(db)
	h := authfeature.NewHandler(accounts, uierrors.NewErrorLogger(logger, false),
		auditlog.New(auditStore, logger, auditlog.Config{}), logger)

	return harness{db: db, provider: provider, audit: auditStore, router: authfeature.Routes(h)}
}

func (e harness) do(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, testutil.JSONRequest(t, http.MethodPost, path, body))
	return rec
}

func registerBody() map[string]any {
	return map[string]any{
		"user": map[string]any{
			"name":     "Ada Lovelace",
			"email":    "ada@example.com",
			"password": "Secret123",
		},
	}
}

func TestRegister_Created(t *testing.T) {
	e := newEnv(t, accountsvc.ModeUser)

	rec := e.do(t, "/register", registerBody())
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	env := testutil.DecodeEnvelope(t, rec)
	var res accountsvc.RegisterResult
	testutil.DecodeData(t, env, &res)
	if res.UID == "" || res.Email != "ada@example.com" {
		t.Errorf("unexpected result: %+v", res)
	}
	if res.CompanyID != "" {
		t.Errorf("user mode should not create a company, got %q", res.CompanyID)
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	events, err := e.audit.Query(ctx, audit.QueryFilter{EventType: audit.EventRegisterSuccess})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(events) != 1 || events[0].UserID != res.UID {
		t.Errorf("expected one register_success event for %s, got %+v", res.UID, events)
	}
}

func TestRegister_ValidationUsesFormFieldNames(t *testing.T) {
	e := newEnv(t, accountsvc.ModeUser)

	rec := e.do(t, "/register", map[string]any{
		"user": map[string]any{"name": "A", "email": "nope", "password": "short"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	env := testutil.DecodeEnvelope(t, rec)
	if env.Error.Code != apperr.CodeValidation {
		t.Errorf("code = %q", env.Error.Code)
	}
	for _, f := range []string{"userName", "userEmail", "userPassword"} {
		if _, ok := env.Error.Errors[f]; !ok {
			t.Errorf("missing field error %q in %v", f, env.Error.Errors)
		}
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	e := newEnv(t, accountsvc.ModeUser)

	if rec := e.do(t, "/register", registerBody()); rec.Code != http.StatusCreated {
		t.Fatalf("first register status = %d", rec.Code)
	}
	rec := e.do(t, "/register", registerBody())
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	env := testutil.DecodeEnvelope(t, rec)
	if env.Error.Errors["userEmail"] == "" {
		t.Errorf("expected userEmail error, got %v", env.Error.Errors)
	}
}

func TestRegister_UserCompanyMode(t *testing.T) {
	e := newEnv(t, accountsvc.ModeUserCompany)

	body := registerBody()
	rec := e.do(t, "/register", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing company: status = %d", rec.Code)
	}

	body["company"] = map[string]any{
		"name":  "Analytical Engines",
		"email": "hello@engines.test",
		"phone": "555-010-0000",
		"address": map[string]any{
			"street": "1 Loop", "city": "London", "state": "LDN", "postalCode": "N1 9GU", "country": "United Kingdom",
		},
	}
	rec = e.do(t, "/register", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var res accountsvc.RegisterResult
	testutil.DecodeData(t, testutil.DecodeEnvelope(t, rec), &res)
	if res.CompanyID == "" {
		t.Error("expected companyId in user_company mode")
	}
}

func TestLogin(t *testing.T) {
	e := newEnv(t, accountsvc.ModeUser)
	if rec := e.do(t, "/register", registerBody()); rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d", rec.Code)
	}

	tests := []struct {
		name       string
		body       map[string]string
		wantStatus int
	}{
		{"success", map[string]string{"email": "ADA@example.com", "password": "Secret123"}, http.StatusOK},
		{"wrong password", map[string]string{"email": "ada@example.com", "password": "nope"}, http.StatusUnauthorized},
		{"unknown email", map[string]string{"email": "bob@example.com", "password": "Secret123"}, http.StatusUnauthorized},
		{"missing fields", map[string]string{}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(t, "/login", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var res accountsvc.LoginResult
			testutil.DecodeData(t, testutil.DecodeEnvelope(t, rec), &res)
			if res.IDToken == "" || res.RefreshToken == "" {
				t.Errorf("expected tokens, got %+v", res)
			}
		})
	}
}

func TestLogin_ProfileMissing(t *testing.T) {
	e := newEnv(t, accountsvc.ModeUser)
	e.provider.Seed("ghost-uid", "ghost@example.com", "Secret123")

	rec := e.do(t, "/login", map[string]string{"email": "ghost@example.com", "password": "Secret123"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	if msg := testutil.DecodeEnvelope(t, rec).Error.Message; msg != "User not found" {
		t.Errorf("message = %q", msg)
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	events, err := e.audit.Query(ctx, audit.QueryFilter{EventType: audit.EventLoginFailedProfileNotFound})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("expected 1 profile-not-found event, got %d", len(events))
	}
}

func TestRefresh(t *testing.T) {
	e := newEnv(t, accountsvc.ModeUser)

	rec := e.do(t, "/refresh", map[string]string{"refreshToken": "refresh:uid-1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var res accountsvc.RefreshResult
	testutil.DecodeData(t, testutil.DecodeEnvelope(t, rec), &res)
	if res.UID != "uid-1" || res.IDToken != e.provider.Token("uid-1") {
		t.Errorf("unexpected result: %+v", res)
	}

	if rec := e.do(t, "/refresh", map[string]string{"refreshToken": "garbage"}); rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status = %d", rec.Code)
	}
	if rec := e.do(t, "/refresh", map[string]string{}); rec.Code != http.StatusBadRequest {
		t.Errorf("empty token: status = %d", rec.Code)
	}
}

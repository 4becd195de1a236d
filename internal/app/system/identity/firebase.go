// internal/app/system/identity/firebase.go
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	identitytoolkit "google.golang.org/api/identitytoolkit/v1"
	"google.golang.org/api/option"
)

// DefaultTokenEndpoint is the Secure Token API root. The Identity Toolkit
// root comes from the generated client unless AuthEndpoint overrides it.
const DefaultTokenEndpoint = "https://securetoken.googleapis.com/v1"

// FirebaseConfig holds the service account fields and client settings.
// Either CredentialsFile or the three service account fields are required.
// AuthEndpoint is an Identity Toolkit root such as
// "http://localhost:9099/identitytoolkit.googleapis.com/".
type FirebaseConfig struct {
	ProjectID       string
	ClientEmail     string
	PrivateKey      string
	CredentialsFile string

	WebAPIKey     string
	AuthEndpoint  string
	TokenEndpoint string
	HTTPTimeout   time.Duration
}

// adminAuth is the subset of *auth.Client used here.
type adminAuth interface {
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// Firebase uses the Admin SDK for account creation and token checks, the
// Identity Toolkit client for the password grant and the Secure Token REST
// endpoint for refresh.
type Firebase struct {
	admin         adminAuth
	toolkit       *identitytoolkit.Service
	http          *http.Client
	apiKey        string
	tokenEndpoint string
}

// NewFirebase builds the Admin SDK client from cfg.
func NewFirebase(ctx context.Context, cfg FirebaseConfig) (*Firebase, error) {
	opts, err := credentialOptions(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth: %w", err)
	}
	return newFirebase(ctx, client, cfg)
}

func newFirebase(ctx context.Context, admin adminAuth, cfg FirebaseConfig) (*Firebase, error) {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	tokenEP := strings.TrimRight(cfg.TokenEndpoint, "/")
	if tokenEP == "" {
		tokenEP = DefaultTokenEndpoint
	}
	f := &Firebase{
		admin:         admin,
		http:          &http.Client{Timeout: timeout},
		apiKey:        cfg.WebAPIKey,
		tokenEndpoint: tokenEP,
	}
	if cfg.WebAPIKey == "" {
		return f, nil
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.WebAPIKey)}
	if ep := strings.TrimSpace(cfg.AuthEndpoint); ep != "" {
		if !strings.HasSuffix(ep, "/") {
			ep += "/"
		}
		opts = append(opts, option.WithEndpoint(ep))
	}
	toolkit, err := identitytoolkit.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("identity toolkit: %w", err)
	}
	f.toolkit = toolkit
	return f, nil
}

func credentialOptions(ctx context.Context, cfg FirebaseConfig) ([]option.ClientOption, error) {
	if cfg.CredentialsFile != "" {
		return []option.ClientOption{option.WithCredentialsFile(cfg.CredentialsFile)}, nil
	}
	if cfg.ProjectID == "" || cfg.ClientEmail == "" || cfg.PrivateKey == "" {
		return nil, errors.New("firebase: project id, client email and private key are required")
	}
	raw, err := serviceAccountJSON(cfg)
	if err != nil {
		return nil, err
	}
	creds, err := google.CredentialsFromJSON(ctx, raw, "https://www.googleapis.com/auth/cloud-platform")
	if err != nil {
		return nil, fmt.Errorf("firebase credentials: %w", err)
	}
	return []option.ClientOption{option.WithCredentials(creds)}, nil
}

// serviceAccountJSON accepts private keys with literal "\n" sequences, the
// form they take when stored in a single-line environment variable.
func serviceAccountJSON(cfg FirebaseConfig) ([]byte, error) {
	return json.Marshal(map[string]string{
		"type":         "service_account",
		"project_id":   cfg.ProjectID,
		"client_email": cfg.ClientEmail,
		"private_key":  strings.ReplaceAll(cfg.PrivateKey, `\n`, "\n"),
		"token_uri":    "https://oauth2.googleapis.com/token",
	})
}

func (f *Firebase) CreateUser(ctx context.Context, email, password, displayName string) (Account, error) {
	const op = "create user"
	params := (&auth.UserToCreate{}).Email(email).Password(password)
	if displayName != "" {
		params = params.DisplayName(displayName)
	}
	rec, err := f.admin.CreateUser(ctx, params)
	if err != nil {
		return Account{}, newError(op, createKind(err), err)
	}
	acct := Account{Email: email}
	if rec != nil && rec.UserInfo != nil {
		acct.UID = rec.UID
		if rec.Email != "" {
			acct.Email = rec.Email
		}
	}
	return acct, nil
}

func createKind(err error) Kind {
	msg := err.Error()
	switch {
	case auth.IsEmailAlreadyExists(err):
		return KindEmailExists
	case auth.IsInvalidEmail(err), strings.Contains(msg, "malformed email"):
		return KindInvalidEmail
	case strings.Contains(msg, "password must be"), strings.Contains(msg, "WEAK_PASSWORD"):
		return KindWeakPassword
	}
	return KindUnavailable
}

func (f *Firebase) VerifyToken(ctx context.Context, token string) (Identity, error) {
	const op = "verify token"
	tok, err := f.admin.VerifyIDToken(ctx, token)
	if err != nil {
		switch {
		case auth.IsIDTokenExpired(err):
			return Identity{}, newError(op, KindTokenExpired, err)
		case auth.IsCertificateFetchFailed(err):
			return Identity{}, newError(op, KindUnavailable, err)
		case auth.IsUserDisabled(err):
			return Identity{}, newError(op, KindUserDisabled, err)
		}
		return Identity{}, newError(op, KindTokenInvalid, err)
	}
	id := Identity{UID: tok.UID}
	if email, ok := tok.Claims["email"].(string); ok {
		id.Email = email
	}
	return id, nil
}

type refreshResponse struct {
	UserID       string `json:"user_id"`
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    string `json:"expires_in"`
}

type restError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (f *Firebase) SignInWithPassword(ctx context.Context, email, password string) (Session, error) {
	const op = "sign in"
	if f.toolkit == nil {
		return Session{}, newError(op, KindUnavailable, errors.New("web api key not configured"))
	}
	out, err := f.toolkit.Accounts.SignInWithPassword(&identitytoolkit.GoogleCloudIdentitytoolkitV1SignInWithPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return Session{}, restFailure(op, toolkitError(err))
	}
	return Session{
		UID:          out.LocalId,
		Email:        out.Email,
		IDToken:      out.IdToken,
		RefreshToken: out.RefreshToken,
		ExpiresIn:    time.Duration(out.ExpiresIn) * time.Second,
	}, nil
}

// toolkitError converts a googleapi error to the shape restFailure reads.
func toolkitError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &apiError{Status: gerr.Code, Message: gerr.Message}
	}
	return err
}

func (f *Firebase) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	const op = "refresh"
	if f.apiKey == "" {
		return Session{}, newError(op, KindUnavailable, errors.New("web api key not configured"))
	}
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	endpoint := f.tokenEndpoint + "/token?key=" + url.QueryEscape(f.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Session{}, newError(op, KindUnknown, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out refreshResponse
	if err := f.do(req, &out); err != nil {
		return Session{}, restFailure(op, err)
	}
	return Session{
		UID:          out.UserID,
		IDToken:      out.IDToken,
		RefreshToken: out.RefreshToken,
		ExpiresIn:    seconds(out.ExpiresIn),
	}, nil
}

// apiError carries the status and message of a failed Identity Toolkit or
// Secure Token call.
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Status, e.Message)
}

func (f *Firebase) do(req *http.Request, dst any) error {
	resp, err := f.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		var re restError
		_ = json.Unmarshal(raw, &re)
		return &apiError{Status: resp.StatusCode, Message: re.Error.Message}
	}
	return json.Unmarshal(raw, dst)
}

// restFailure maps Identity Toolkit and Secure Token error messages.
// Messages may carry a suffix such as "TOO_MANY_ATTEMPTS_TRY_LATER : ...".
func restFailure(op string, err error) *Error {
	var ae *apiError
	if !errors.As(err, &ae) {
		return newError(op, KindUnavailable, err)
	}
	code := ae.Message
	if i := strings.IndexAny(code, " :"); i > 0 {
		code = code[:i]
	}
	switch code {
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "INVALID_EMAIL":
		return newError(op, KindBadCredentials, err)
	case "USER_DISABLED":
		return newError(op, KindUserDisabled, err)
	case "TOO_MANY_ATTEMPTS_TRY_LATER":
		return newError(op, KindRateLimited, err)
	case "TOKEN_EXPIRED":
		return newError(op, KindTokenExpired, err)
	case "INVALID_REFRESH_TOKEN", "INVALID_GRANT_TYPE", "MISSING_REFRESH_TOKEN", "USER_NOT_FOUND":
		return newError(op, KindTokenInvalid, err)
	}
	if ae.Status >= 500 {
		return newError(op, KindUnavailable, err)
	}
	return newError(op, KindUnknown, err)
}

func seconds(s string) time.Duration {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return time.Duration(n) * time.Second
}

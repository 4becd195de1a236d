// Package accountsvc registers accounts and runs the password and refresh
// grants against the configured identity provider.
package accountsvc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	companysvc "github.com/dalemusser/nexa/internal/app/services/companies"
	"github.com/dalemusser/nexa/internal/app/store/audit"
	userstore "github.com/dalemusser/nexa/internal/app/store/users"
	"github.com/dalemusser/nexa/internal/app/system/apperr"
	"github.com/dalemusser/nexa/internal/app/system/htmlsanitize"
	"github.com/dalemusser/nexa/internal/app/system/identity"
	"github.com/dalemusser/nexa/internal/app/system/inputval"
	"github.com/dalemusser/nexa/internal/app/system/normalize"
	"github.com/dalemusser/nexa/internal/app/system/ratelimit"
	"github.com/dalemusser/nexa/internal/app/system/txn"
	"github.com/dalemusser/nexa/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Registration modes.
const (
	// ModeUser registers the user only; companies are created afterwards.
	ModeUser = "user"
	// ModeUserCompany registers the user together with their first company.
	ModeUserCompany = "user_company"
)

// Login and refresh failures. Handlers compare against these to pick the
// audit event.
var (
	ErrBadCredentials = apperr.Unauthorized("Invalid email or password")
	ErrUserDisabled   = apperr.Unauthorized("This account has been disabled")
	ErrTooManyTries   = apperr.Unauthorized("Too many attempts. Try again later")
	ErrLoginFailed    = apperr.Unauthorized("Login failed")
	ErrNoProfile      = apperr.Unauthorized("User not found")
	ErrBadRefresh     = apperr.Unauthorized("Invalid refresh token")

	errNotConfigured = apperr.Unavailable("Authentication service is not configured")
	errUnavailable   = apperr.Unavailable("Authentication service is unavailable")
)

type Service struct {
	provider  identity.Provider
	users     *userstore.Store
	companies *companysvc.Service
	tx        *txn.Runner
	limiter   *ratelimit.LoginLimiter
	mode      string
	log       *zap.Logger
}

// Config selects the registration flow and the login limiter. A nil Limiter
// disables limiting.
type Config struct {
	Mode    string
	Limiter *ratelimit.LoginLimiter
}

func New(db *mongo.Database, provider identity.Provider, tx *txn.Runner, companies *companysvc.Service, cfg Config, logger *zap.Logger) *Service {
	mode := cfg.Mode
	if mode == "" {
		mode = ModeUser
	}
	return &Service{
		provider:  provider,
		users:     userstore.New(db),
		companies: companies,
		tx:        tx,
		limiter:   cfg.Limiter,
		mode:      mode,
		log:       logger,
	}
}

// Mode returns the active registration flow.
func (s *Service) Mode() string { return s.mode }

// RegisterUser is the user block of a registration.
type RegisterUser struct {
	Name     string `json:"name" validate:"required,min=2,max=100" label:"Name"`
	Email    string `json:"email" validate:"required,email,max=254" label:"Email"`
	Password string `json:"password" validate:"required,min=8,max=128,password" label:"Password"`
	Phone    string `json:"phone" validate:"omitempty,max=30" label:"Phone"`
}

// RegisterInput is the registration body. Company is required in
// ModeUserCompany and ignored otherwise.
type RegisterInput struct {
	User    RegisterUser      `json:"user"`
	Company *companysvc.Input `json:"company,omitempty"`
}

// RegisterResult is returned on success. CompanyID is set in ModeUserCompany.
type RegisterResult struct {
	UID       string `json:"uid"`
	Email     string `json:"email"`
	CompanyID string `json:"companyId,omitempty"`
	Message   string `json:"message"`
}

// Register creates the provider account and then the profile (plus company
// and owner membership in ModeUserCompany). Field errors use the client's
// form field names.
func (s *Service) Register(ctx context.Context, in RegisterInput) (RegisterResult, error) {
	if s.provider == nil {
		return RegisterResult{}, errNotConfigured
	}

	in.User.Email = normalize.Email(in.User.Email)
	in.User.Name = htmlsanitize.PlainText(in.User.Name)
	in.User.Phone = normalize.Phone(in.User.Phone)
	if s.mode != ModeUserCompany {
		in.Company = nil
	}

	checked := in
	if in.Company != nil {
		c := in.Company.Sanitized()
		checked.Company = &c
	}
	fields := inputval.Validate(checked).Fields(FormField)
	if s.mode == ModeUserCompany && in.Company == nil {
		fields[FormField("company")] = "Company information is required."
	}
	if len(fields) > 0 {
		return RegisterResult{}, apperr.Validation("Validation failed", fields)
	}

	acct, err := s.provider.CreateUser(ctx, in.User.Email, in.User.Password, in.User.Name)
	if err != nil {
		return RegisterResult{}, registerError(err)
	}

	user := models.User{
		ID:        acct.UID,
		Name:      in.User.Name,
		Email:     in.User.Email,
		CreatedAt: time.Now().UTC(),
	}
	if in.User.Phone != "" {
		user.Phone = &in.User.Phone
	}

	var company models.Company
	err = s.tx.Run(ctx, func(ctx context.Context) error {
		if _, err := s.users.Create(ctx, user); err != nil {
			return err
		}
		if in.Company == nil {
			return nil
		}
		var err error
		company, err = s.companies.CreateOwned(ctx, in.Company.Company(), acct.UID)
		return err
	})
	if err != nil {
		s.log.Error("account created but profile write failed",
			zap.String("uid", acct.UID), zap.String("email", user.Email), zap.Error(err))
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			return RegisterResult{}, emailTaken()
		}
		return RegisterResult{}, fmt.Errorf("write profile for %s: %w", acct.UID, err)
	}

	res := RegisterResult{
		UID:     acct.UID,
		Email:   user.Email,
		Message: "Account created. You can now sign in.",
	}
	if !company.ID.IsZero() {
		res.CompanyID = company.ID.Hex()
	}
	return res, nil
}

func registerError(err error) error {
	switch identity.KindOf(err) {
	case identity.KindEmailExists:
		return emailTaken()
	case identity.KindInvalidEmail:
		return apperr.Validation("Invalid email address", map[string]string{
			"userEmail": "A valid email address is required.",
		})
	case identity.KindWeakPassword:
		return apperr.Validation("Password does not meet the requirements", map[string]string{
			"userPassword": "At least 8 characters with uppercase, lowercase and numbers.",
		})
	case identity.KindUnavailable:
		return errUnavailable
	}
	return fmt.Errorf("create account: %w", err)
}

func emailTaken() *apperr.Error {
	return apperr.Validation("This email is already registered", map[string]string{
		"userEmail": "This email is already registered.",
	})
}

// LoginResult carries the session tokens.
type LoginResult struct {
	UID          string `json:"uid"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
	Message      string `json:"message"`
}

// Login runs the password grant for a client at ip. The profile must exist
// for the login to succeed.
func (s *Service) Login(ctx context.Context, ip, email, password string) (LoginResult, error) {
	if s.provider == nil {
		return LoginResult{}, errNotConfigured
	}
	email = normalize.Email(email)

	if s.limiter != nil {
		if ok, reason := s.limiter.Check(ip, email); !ok {
			return LoginResult{}, apperr.New(http.StatusTooManyRequests, apperr.CodeTooManyRequests, reason)
		}
	}

	sess, err := s.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		return LoginResult{}, loginError(err)
	}

	if _, err := s.users.GetByID(ctx, sess.UID); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			return LoginResult{}, ErrNoProfile
		}
		return LoginResult{}, err
	}

	if s.limiter != nil {
		s.limiter.ResetEmail(email)
	}
	return LoginResult{
		UID:          sess.UID,
		Email:        sess.Email,
		IDToken:      sess.IDToken,
		RefreshToken: sess.RefreshToken,
		ExpiresIn:    int64(sess.ExpiresIn / time.Second),
		Message:      "Login successful",
	}, nil
}

func loginError(err error) error {
	switch identity.KindOf(err) {
	case identity.KindBadCredentials, identity.KindInvalidEmail:
		return ErrBadCredentials
	case identity.KindUserDisabled:
		return ErrUserDisabled
	case identity.KindRateLimited:
		return ErrTooManyTries
	case identity.KindUnavailable:
		return errUnavailable
	case identity.KindUnknown:
		return fmt.Errorf("sign in: %w", err)
	}
	return ErrLoginFailed
}

// LoginFailureEvent returns the audit event type for a Login error.
func LoginFailureEvent(err error) string {
	switch {
	case errors.Is(err, ErrUserDisabled):
		return audit.EventLoginFailedUserDisabled
	case errors.Is(err, ErrNoProfile):
		return audit.EventLoginFailedProfileNotFound
	case errors.Is(err, ErrTooManyTries), apperr.HasCode(err, apperr.CodeTooManyRequests):
		return audit.EventLoginFailedRateLimit
	}
	return audit.EventLoginFailedBadCredentials
}

// RefreshResult carries the renewed tokens.
type RefreshResult struct {
	UID          string `json:"uid"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// Refresh exchanges a refresh token for a new token pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (RefreshResult, error) {
	if s.provider == nil {
		return RefreshResult{}, errNotConfigured
	}
	if refreshToken == "" {
		return RefreshResult{}, apperr.FieldError("refreshToken", "Refresh token is required.")
	}
	sess, err := s.provider.Refresh(ctx, refreshToken)
	if err != nil {
		switch identity.KindOf(err) {
		case identity.KindUnavailable:
			return RefreshResult{}, errUnavailable
		case identity.KindUnknown:
			return RefreshResult{}, fmt.Errorf("refresh: %w", err)
		}
		return RefreshResult{}, ErrBadRefresh
	}
	return RefreshResult{
		UID:          sess.UID,
		IDToken:      sess.IDToken,
		RefreshToken: sess.RefreshToken,
		ExpiresIn:    int64(sess.ExpiresIn / time.Second),
	}, nil
}

// internal/app/system/identity/local.go
package identity

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"time"

	credentialstore "github.com/dalemusser/nexa/internal/app/store/credentials"
	"github.com/dalemusser/nexa/internal/app/system/inputval"
	"github.com/dalemusser/nexa/internal/app/system/normalize"
	"github.com/dalemusser/nexa/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is enforced by Local.CreateUser.
const MinPasswordLength = 8

const refreshCookieName = "nexa-refresh"

// CredentialStore is the persistence Local needs.
type CredentialStore interface {
	Create(ctx context.Context, c models.Credential) error
	GetByEmail(ctx context.Context, email string) (models.Credential, error)
	GetByID(ctx context.Context, id string) (models.Credential, error)
}

// LocalConfig configures the self-hosted provider.
type LocalConfig struct {
	Issuer      string
	TokenSecret string
	TokenTTL    time.Duration

	// Refresh token keys. Derived from TokenSecret when empty.
	RefreshHashKey  string
	RefreshBlockKey string
	RefreshTTL      time.Duration

	BcryptCost int
}

// Local authenticates against bcrypt hashes in MongoDB and issues HS256 access
// tokens plus sealed refresh tokens.
type Local struct {
	creds  CredentialStore
	cfg    LocalConfig
	secret []byte
	sc     *securecookie.SecureCookie
	now    func() time.Time
}

type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type refreshPayload struct {
	UID      string `json:"uid"`
	IssuedAt int64  `json:"iat"`
}

// NewLocal validates cfg and fills defaults.
func NewLocal(creds CredentialStore, cfg LocalConfig) (*Local, error) {
	if len(cfg.TokenSecret) < 32 {
		return nil, errors.New("token secret must be at least 32 characters")
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "nexa"
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = time.Hour
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 30 * 24 * time.Hour
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}

	hashKey := []byte(cfg.RefreshHashKey)
	if len(hashKey) == 0 {
		sum := sha256.Sum256([]byte("refresh-hash:" + cfg.TokenSecret))
		hashKey = sum[:]
	}
	blockKey := []byte(cfg.RefreshBlockKey)
	if len(blockKey) == 0 {
		sum := sha256.Sum256([]byte("refresh-block:" + cfg.TokenSecret))
		blockKey = sum[:]
	}
	switch len(blockKey) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("refresh block key must be 16, 24 or 32 bytes, got %d", len(blockKey))
	}

	sc := securecookie.New(hashKey, blockKey).
		MaxAge(int(cfg.RefreshTTL / time.Second)).
		SetSerializer(securecookie.JSONEncoder{})

	return &Local{
		creds:  creds,
		cfg:    cfg,
		secret: []byte(cfg.TokenSecret),
		sc:     sc,
		now:    time.Now,
	}, nil
}

// CreateUser registers a password credential. Passwords need
// MinPasswordLength characters with upper, lower and digit.
func (l *Local) CreateUser(ctx context.Context, email, password, displayName string) (Account, error) {
	const op = "create user"
	email = normalize.Email(email)
	if !inputval.IsValidEmail(email) {
		return Account{}, newError(op, KindInvalidEmail, nil)
	}
	if len(password) < MinPasswordLength || !inputval.IsStrongPassword(password) {
		return Account{}, newError(op, KindWeakPassword, nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), l.cfg.BcryptCost)
	if err != nil {
		return Account{}, newError(op, KindUnknown, err)
	}

	cred := models.Credential{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    l.now().UTC(),
	}
	if err := l.creds.Create(ctx, cred); err != nil {
		if errors.Is(err, credentialstore.ErrDuplicateEmail) {
			return Account{}, newError(op, KindEmailExists, err)
		}
		return Account{}, newError(op, KindUnavailable, err)
	}
	return Account{UID: cred.ID, Email: cred.Email}, nil
}

// VerifyToken checks signature, issuer and expiry of an access token.
func (l *Local) VerifyToken(ctx context.Context, token string) (Identity, error) {
	const op = "verify token"
	claims := &accessClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return l.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(l.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(l.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, newError(op, KindTokenExpired, err)
		}
		return Identity{}, newError(op, KindTokenInvalid, err)
	}
	if claims.Subject == "" {
		return Identity{}, newError(op, KindTokenInvalid, errors.New("missing subject"))
	}
	return Identity{UID: claims.Subject, Email: claims.Email}, nil
}

// SignInWithPassword checks the bcrypt hash and issues a session.
func (l *Local) SignInWithPassword(ctx context.Context, email, password string) (Session, error) {
	const op = "sign in"
	cred, err := l.creds.GetByEmail(ctx, normalize.Email(email))
	if err != nil {
		if errors.Is(err, credentialstore.ErrNotFound) {
			return Session{}, newError(op, KindBadCredentials, nil)
		}
		return Session{}, newError(op, KindUnavailable, err)
	}
	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		return Session{}, newError(op, KindBadCredentials, nil)
	}
	if cred.Disabled {
		return Session{}, newError(op, KindUserDisabled, nil)
	}
	return l.issue(op, cred)
}

// Refresh opens a refresh token and issues a new session for its subject.
func (l *Local) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	const op = "refresh"
	var p refreshPayload
	if err := l.sc.Decode(refreshCookieName, refreshToken, &p); err != nil {
		if strings.Contains(err.Error(), "expired") {
			return Session{}, newError(op, KindTokenExpired, err)
		}
		return Session{}, newError(op, KindTokenInvalid, err)
	}
	cred, err := l.creds.GetByID(ctx, p.UID)
	if err != nil {
		if errors.Is(err, credentialstore.ErrNotFound) {
			return Session{}, newError(op, KindTokenInvalid, err)
		}
		return Session{}, newError(op, KindUnavailable, err)
	}
	if cred.Disabled {
		return Session{}, newError(op, KindUserDisabled, nil)
	}
	return l.issue(op, cred)
}

func (l *Local) issue(op string, cred models.Credential) (Session, error) {
	now := l.now()
	claims := accessClaims{
		Email: cred.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    l.cfg.Issuer,
			Subject:   cred.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(l.cfg.TokenTTL)),
			ID:        uuid.NewString(),
		},
	}
	idToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(l.secret)
	if err != nil {
		return Session{}, newError(op, KindUnknown, err)
	}
	refresh, err := l.sc.Encode(refreshCookieName, refreshPayload{UID: cred.ID, IssuedAt: now.Unix()})
	if err != nil {
		return Session{}, newError(op, KindUnknown, err)
	}
	return Session{
		UID:          cred.ID,
		Email:        cred.Email,
		IDToken:      idToken,
		RefreshToken: refresh,
		ExpiresIn:    l.cfg.TokenTTL,
	}, nil
}

// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	accountsvc "github.com/dalemusser/nexa/internal/app/services/accounts"
	"github.com/dalemusser/nexa/internal/app/system/auditlog"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// Identity provider names.
const (
	ProviderLocal    = "local"
	ProviderFirebase = "firebase"
)

// defaultTokenSecret is only acceptable outside prod.
const defaultTokenSecret = "dev-only-change-me-please-0123456789ABCDEF"

// appConfigKeys defines the configuration keys for NEXA.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, registration_mode, etc.
//   - Environment variables: NEXA_MONGO_URI, NEXA_REGISTRATION_MODE, etc.
//   - Command-line flags: --mongo_uri, --registration_mode, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "nexa", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Identity provider
	{Name: "identity_provider", Default: ProviderLocal, Desc: "Identity provider: 'local' or 'firebase'"},

	// Firebase
	{Name: "firebase_project_id", Default: "", Desc: "Firebase project ID"},
	{Name: "firebase_client_email", Default: "", Desc: "Firebase service account client email"},
	{Name: "firebase_private_key", Default: "", Desc: "Firebase service account private key (\\n escapes allowed)"},
	{Name: "firebase_credentials_file", Default: "", Desc: "Path to a Firebase service account JSON file"},
	{Name: "firebase_web_api_key", Default: "", Desc: "Firebase Web API key for the password and refresh grants"},
	{Name: "firebase_auth_endpoint", Default: "", Desc: "Identity Toolkit root URL override, e.g. emulator http://host:9099/identitytoolkit.googleapis.com/"},
	{Name: "firebase_token_endpoint", Default: "", Desc: "Secure Token base URL override (emulator)"},

	// Local provider
	{Name: "token_secret", Default: defaultTokenSecret, Desc: "Access token signing key (must be strong in production)"},
	{Name: "token_ttl", Default: "1h", Desc: "Access token lifetime"},
	{Name: "refresh_hash_key", Default: "", Desc: "Refresh token HMAC key (derived from token_secret when blank)"},
	{Name: "refresh_block_key", Default: "", Desc: "Refresh token AES key, 16/24/32 bytes (derived when blank)"},
	{Name: "refresh_ttl", Default: "720h", Desc: "Refresh token lifetime"},

	// Registration
	{Name: "registration_mode", Default: accountsvc.ModeUser, Desc: "Registration flow: 'user' or 'user_company'"},

	// HTTP
	{Name: "cors_origins", Default: "http://localhost:3000", Desc: "Comma-separated allowed CORS origins"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: auditlog.DestAll, Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: auditlog.DestAll, Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Login rate limiting
	{Name: "login_ip_limit", Default: 10, Desc: "Login attempts per client IP per window"},
	{Name: "login_email_limit", Default: 5, Desc: "Login attempts per email per five windows"},
	{Name: "login_window", Default: "1m", Desc: "Login rate limit window"},

	// Background work
	{Name: "notification_retention", Default: "720h", Desc: "Prune read notifications older than this (0 disables)"},

	// Timeouts
	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single-document operations"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for list queries"},
	{Name: "timeout_long", Default: "30s", Desc: "Timeout for multi-collection writes"},
}

// LoadConfig loads WAFFLE core config and NEXA config.
//
// WAFFLE's config.LoadWithAppConfig merges .env files, config files,
// environment variables (WAFFLE_* for core, NEXA_* for the app) and flags,
// with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "NEXA", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		IdentityProvider: strings.ToLower(strings.TrimSpace(appValues.String("identity_provider"))),

		FirebaseProjectID:       appValues.String("firebase_project_id"),
		FirebaseClientEmail:     appValues.String("firebase_client_email"),
		FirebasePrivateKey:      appValues.String("firebase_private_key"),
		FirebaseCredentialsFile: appValues.String("firebase_credentials_file"),
		FirebaseWebAPIKey:       appValues.String("firebase_web_api_key"),
		FirebaseAuthEndpoint:    appValues.String("firebase_auth_endpoint"),
		FirebaseTokenEndpoint:   appValues.String("firebase_token_endpoint"),

		TokenSecret:     appValues.String("token_secret"),
		TokenTTL:        appValues.Duration("token_ttl", time.Hour),
		RefreshHashKey:  appValues.String("refresh_hash_key"),
		RefreshBlockKey: appValues.String("refresh_block_key"),
		RefreshTTL:      appValues.Duration("refresh_ttl", 30*24*time.Hour),

		RegistrationMode: strings.ToLower(strings.TrimSpace(appValues.String("registration_mode"))),

		CORSOrigins: splitList(appValues.String("cors_origins")),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),

		LoginIPLimit:    appValues.Int("login_ip_limit"),
		LoginEmailLimit: appValues.Int("login_email_limit"),
		LoginWindow:     appValues.Duration("login_window", time.Minute),

		NotificationRetention: appValues.Duration("notification_retention", 30*24*time.Hour),

		TimeoutShort:  appValues.Duration("timeout_short", 5*time.Second),
		TimeoutMedium: appValues.Duration("timeout_medium", 10*time.Second),
		TimeoutLong:   appValues.Duration("timeout_long", 30*time.Second),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig rejects configurations that cannot start.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	switch appCfg.RegistrationMode {
	case accountsvc.ModeUser, accountsvc.ModeUserCompany:
	default:
		return fmt.Errorf("registration_mode must be %q or %q, got %q",
			accountsvc.ModeUser, accountsvc.ModeUserCompany, appCfg.RegistrationMode)
	}

	for name, dest := range map[string]string{"audit_log_auth": appCfg.AuditLogAuth, "audit_log_admin": appCfg.AuditLogAdmin} {
		switch dest {
		case auditlog.DestAll, auditlog.DestDB, auditlog.DestLog, auditlog.DestOff:
		default:
			return fmt.Errorf("%s must be one of all, db, log, off; got %q", name, dest)
		}
	}

	switch appCfg.IdentityProvider {
	case ProviderLocal:
		if len(appCfg.TokenSecret) < 32 {
			return fmt.Errorf("token_secret must be at least 32 characters")
		}
		if coreCfg != nil && coreCfg.Env == "prod" && appCfg.TokenSecret == defaultTokenSecret {
			return fmt.Errorf("token_secret must be changed from the default in prod")
		}
	case ProviderFirebase:
		if appCfg.FirebaseCredentialsFile == "" &&
			(appCfg.FirebaseProjectID == "" || appCfg.FirebaseClientEmail == "" || appCfg.FirebasePrivateKey == "") {
			return fmt.Errorf("firebase requires firebase_credentials_file or project id, client email and private key")
		}
		if appCfg.FirebaseWebAPIKey == "" {
			logger.Warn("firebase_web_api_key is not set; login and refresh will answer 503")
		}
	default:
		return fmt.Errorf("identity_provider must be %q or %q, got %q",
			ProviderLocal, ProviderFirebase, appCfg.IdentityProvider)
	}

	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

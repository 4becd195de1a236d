// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds NEXA-specific configuration for this WAFFLE app.
//
// Values come from NEXA_* environment variables, configuration files or
// command-line flags (loaded in LoadConfig). Framework settings such as
// ports, TLS and log level live in WAFFLE's CoreConfig.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Identity provider: "local" or "firebase"
	IdentityProvider string

	// Firebase (IdentityProvider == "firebase")
	FirebaseProjectID       string
	FirebaseClientEmail     string
	FirebasePrivateKey      string // "\n" escapes are unescaped by the adapter
	FirebaseCredentialsFile string
	FirebaseWebAPIKey       string // required for the password and refresh grants
	FirebaseAuthEndpoint    string
	FirebaseTokenEndpoint   string

	// Local provider (IdentityProvider == "local")
	TokenSecret     string        // HS256 signing key, at least 32 characters
	TokenTTL        time.Duration // access token lifetime
	RefreshHashKey  string        // derived from TokenSecret when blank
	RefreshBlockKey string        // 16, 24 or 32 bytes; derived when blank
	RefreshTTL      time.Duration

	// "user" (company created later) or "user_company" (created at sign-up)
	RegistrationMode string

	// Allowed browser origins
	CORSOrigins []string

	// Audit logging destinations: all, db, log, off
	AuditLogAuth  string
	AuditLogAdmin string

	// Login rate limiting
	LoginIPLimit    int
	LoginEmailLimit int
	LoginWindow     time.Duration

	// Read notifications older than this are pruned. Zero disables pruning.
	NotificationRetention time.Duration

	// Timeout classes for DB and provider calls
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration
}

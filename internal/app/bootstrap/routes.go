// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	authfeature "github.com/dalemusser/nexa/internal/app/features/auth"
	companiesfeature "github.com/dalemusser/nexa/internal/app/features/companies"
	errorsfeature "github.com/dalemusser/nexa/internal/app/features/errors"
	formsfeature "github.com/dalemusser/nexa/internal/app/features/forms"
	healthfeature "github.com/dalemusser/nexa/internal/app/features/health"
	invitationsfeature "github.com/dalemusser/nexa/internal/app/features/invitations"
	notificationsfeature "github.com/dalemusser/nexa/internal/app/features/notifications"
	usersfeature "github.com/dalemusser/nexa/internal/app/features/users"
	accountsvc "github.com/dalemusser/nexa/internal/app/services/accounts"
	companysvc "github.com/dalemusser/nexa/internal/app/services/companies"
	invitationsvc "github.com/dalemusser/nexa/internal/app/services/invitations"
	notificationsvc "github.com/dalemusser/nexa/internal/app/services/notifications"
	usersvc "github.com/dalemusser/nexa/internal/app/services/users"
	"github.com/dalemusser/nexa/internal/app/store/audit"
	"github.com/dalemusser/nexa/internal/app/system/auditlog"
	"github.com/dalemusser/nexa/internal/app/system/auth"
	"github.com/dalemusser/nexa/internal/app/system/ratelimit"
	"github.com/dalemusser/nexa/internal/app/system/respond"
	"github.com/dalemusser/nexa/internal/app/system/txn"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler.
//
// WAFFLE calls this after configuration, DB connection, schema setup and
// Startup. Services are built once here and shared by the feature handlers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.NexaMongoDatabase
	errLog := errorsfeature.NewErrorLogger(logger, coreCfg.Env == "dev")

	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	var limiter *ratelimit.LoginLimiter
	if deps.bg != nil {
		limiter = deps.bg.limiter
	}

	tx := txn.New(db, logger)
	notes := notificationsvc.New(db)
	companies := companysvc.New(db, tx, notes, logger)
	invitations := invitationsvc.New(db, tx, notes, logger)
	users := usersvc.New(db)
	accounts := accountsvc.New(db, deps.Identity, tx, companies, accountsvc.Config{
		Mode:    appCfg.RegistrationMode,
		Limiter: limiter,
	}, logger)

	var verifier auth.Verifier
	if deps.Identity != nil {
		verifier = deps.Identity
	}
	mw := auth.NewMiddleware(verifier, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   appCfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(limitBody(respond.MaxBodyBytes))

	r.NotFound(errorsfeature.NotFound)
	r.MethodNotAllowed(errorsfeature.MethodNotAllowed)

	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(deps.NexaMongoClient, logger)))

	r.Route("/api", func(api chi.Router) {
		api.Mount("/auth", authfeature.Routes(authfeature.NewHandler(accounts, errLog, auditLog, logger)))
		api.Mount("/users/me/notifications", notificationsfeature.Routes(notificationsfeature.NewHandler(notes, errLog, logger), mw))
		api.Mount("/users", usersfeature.Routes(usersfeature.NewHandler(users, invitations, errLog, auditLog, logger), mw))
		api.Mount("/companies", companiesfeature.Routes(companiesfeature.NewHandler(companies, errLog, auditLog, logger), mw))
		api.Mount("/invitations", invitationsfeature.Routes(invitationsfeature.NewHandler(invitations, errLog, auditLog, logger), mw))
		api.Mount("/forms", formsfeature.Routes(formsfeature.NewHandler()))
	})

	logger.Info("router ready",
		zap.String("identity_provider", appCfg.IdentityProvider),
		zap.Bool("identity_configured", deps.Identity != nil),
		zap.Strings("cors_origins", appCfg.CORSOrigins))
	return r, nil
}

// limitBody caps every request body at n bytes.
func limitBody(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}

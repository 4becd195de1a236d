// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"time"

	notificationsvc "github.com/dalemusser/nexa/internal/app/services/notifications"
	"github.com/dalemusser/nexa/internal/app/system/ratelimit"
	"github.com/dalemusser/nexa/internal/app/system/timeouts"
	"github.com/dalemusser/nexa/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// pruneInterval is how often read notifications are pruned.
const pruneInterval = time.Hour

// Startup runs one-time initialization after the DB is ready and before the
// handler is built: timeout classes, the login limiter and the notification
// prune worker.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})

	if deps.bg == nil {
		return nil
	}
	deps.bg.limiter = ratelimit.NewLoginLimiter(ratelimit.LoginConfig{
		IPLimit:    appCfg.LoginIPLimit,
		EmailLimit: appCfg.LoginEmailLimit,
		Window:     appCfg.LoginWindow,
	})

	if appCfg.NotificationRetention > 0 {
		deps.bg.pruner = workers.NewNotificationPrune(notificationsvc.New(deps.NexaMongoDatabase),
			logger, pruneInterval, appCfg.NotificationRetention)
		deps.bg.pruner.Start()
	}
	return nil
}

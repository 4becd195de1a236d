// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown stops background work and disconnects MongoDB.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.bg != nil {
		if deps.bg.pruner != nil {
			deps.bg.pruner.Stop()
		}
		if deps.bg.limiter != nil {
			deps.bg.limiter.Stop()
		}
	}
	if deps.NexaMongoClient != nil {
		logger.Info("disconnecting NEXA MongoDB client")
		if err := deps.NexaMongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}

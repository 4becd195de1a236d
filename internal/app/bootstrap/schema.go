// internal/app/bootstrap/schema.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/nexa/internal/app/system/indexes"
	"github.com/dalemusser/nexa/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// EnsureSchema applies collection validators and indexes. Both are
// idempotent and run on every start.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.NexaMongoDatabase
	if err := validators.EnsureAll(ctx, db); err != nil {
		return fmt.Errorf("ensure validators: %w", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	logger.Info("schema ensured", zap.String("database", db.Name()))
	return nil
}

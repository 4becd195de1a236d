// internal/app/bootstrap/connect.go
package bootstrap

import (
	"context"
	"fmt"

	credentialstore "github.com/dalemusser/nexa/internal/app/store/credentials"
	"github.com/dalemusser/nexa/internal/app/system/identity"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB opens the MongoDB client and builds the identity provider.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	db := client.Database(appCfg.MongoDatabase)
	deps := DBDeps{
		NexaMongoClient:   client,
		NexaMongoDatabase: db,
		bg:                &background{},
	}

	provider, err := newIdentityProvider(ctx, appCfg, db)
	if err != nil {
		// The server still starts; auth-dependent routes answer 503.
		logger.Error("identity provider unavailable", zap.String("provider", appCfg.IdentityProvider), zap.Error(err))
		return deps, nil
	}
	deps.Identity = provider
	logger.Info("identity provider ready", zap.String("provider", appCfg.IdentityProvider))
	return deps, nil
}

func newIdentityProvider(ctx context.Context, appCfg AppConfig, db *mongo.Database) (identity.Provider, error) {
	switch appCfg.IdentityProvider {
	case ProviderFirebase:
		return identity.NewFirebase(ctx, identity.FirebaseConfig{
			ProjectID:       appCfg.FirebaseProjectID,
			ClientEmail:     appCfg.FirebaseClientEmail,
			PrivateKey:      appCfg.FirebasePrivateKey,
			CredentialsFile: appCfg.FirebaseCredentialsFile,
			WebAPIKey:       appCfg.FirebaseWebAPIKey,
			AuthEndpoint:    appCfg.FirebaseAuthEndpoint,
			TokenEndpoint:   appCfg.FirebaseTokenEndpoint,
			HTTPTimeout:     appCfg.TimeoutShort,
		})
	case ProviderLocal:
		return identity.NewLocal(credentialstore.New(db), identity.LocalConfig{
			TokenSecret:     appCfg.TokenSecret,
			TokenTTL:        appCfg.TokenTTL,
			RefreshHashKey:  appCfg.RefreshHashKey,
			RefreshBlockKey: appCfg.RefreshBlockKey,
			RefreshTTL:      appCfg.RefreshTTL,
		})
	}
	return nil, fmt.Errorf("unknown identity provider %q", appCfg.IdentityProvider)
}

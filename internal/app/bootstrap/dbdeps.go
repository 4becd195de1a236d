// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/nexa/internal/app/system/identity"
	"github.com/dalemusser/nexa/internal/app/system/ratelimit"
	"github.com/dalemusser/nexa/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database and back-end dependencies for the app.
type DBDeps struct {
	NexaMongoClient   *mongo.Client
	NexaMongoDatabase *mongo.Database

	// Identity is nil when the provider could not be built; auth routes then
	// answer 503.
	Identity identity.Provider

	// bg holds process-wide helpers created in Startup and stopped in
	// Shutdown. WAFFLE passes DBDeps by value, so it is shared by pointer.
	bg *background
}

type background struct {
	limiter *ratelimit.LoginLimiter
	pruner  *workers.NotificationPrune
}

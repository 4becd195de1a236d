// Package txn runs groups of MongoDB writes in a transaction when the
// deployment supports it and sequentially when it does not.
package txn

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Runner executes units of work against one client.
type Runner struct {
	client      *mongo.Client
	log         *zap.Logger
	unsupported atomic.Bool
}

// New returns a Runner bound to the database's client.
func New(db *mongo.Database, logger *zap.Logger) *Runner {
	return &Runner{client: db.Client(), log: logger}
}

// Run calls fn inside a session transaction. fn must use the ctx it is given
// so its operations join the transaction, and it may be retried by the driver
// on transient errors.
//
// On standalone servers (no transactions) fn runs once without a transaction
// and later calls skip straight to that mode.
func (r *Runner) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	if r.unsupported.Load() {
		return fn(ctx)
	}

	sess, err := r.client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			r.markUnsupported(err)
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		r.markUnsupported(err)
		return fn(ctx)
	}
	return err
}

func (r *Runner) markUnsupported(err error) {
	if r.unsupported.CompareAndSwap(false, true) && r.log != nil {
		r.log.Warn("transactions not supported; multi-document writes will run sequentially", zap.Error(err))
	}
}

// IsNotSupported reports whether err means the server cannot run
// transactions (standalone mongod, some DocumentDB versions).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case 20, // IllegalOperation
			51,  // legacy "illegal operation" on old servers
			263: // OperationNotSupportedInTransaction
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	has := func(s string) bool { return strings.Contains(msg, s) }
	switch {
	case has("transaction") && has("replica set"):
		return true
	case has("session") && has("not supported"):
		return true
	case has("transaction") && has("session"):
		return true
	case has("illegal operation"):
		return true
	}
	return false
}

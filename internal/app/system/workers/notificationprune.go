// internal/app/system/workers/notificationprune.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/nexa/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Pruner deletes read notifications older than a retention period.
// notificationsvc.Service satisfies it.
type Pruner interface {
	PruneRead(ctx context.Context, olderThan time.Duration) (int64, error)
}

// NotificationPrune is a background worker that removes old read
// notifications. Unread notifications are never pruned.
type NotificationPrune struct {
	notes     Pruner
	log       *zap.Logger
	interval  time.Duration
	retention time.Duration
	stopCh    chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// NewNotificationPrune creates the worker.
//
//   - interval: how often to run (e.g. 1 hour)
//   - retention: how long a read notification is kept (e.g. 30 days)
func NewNotificationPrune(notes Pruner, logger *zap.Logger, interval, retention time.Duration) *NotificationPrune {
	return &NotificationPrune{
		notes:     notes,
		log:       logger,
		interval:  interval,
		retention: retention,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the background loop.
func (w *NotificationPrune) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("notification prune worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("retention", w.retention))
}

// Stop signals the worker to stop and waits for it to finish. Safe to call
// more than once.
func (w *NotificationPrune) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("notification prune worker stopped")
	})
}

func (w *NotificationPrune) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.RunOnce()
		}
	}
}

// RunOnce performs a single prune pass.
func (w *NotificationPrune) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Long())
	defer cancel()

	count, err := w.notes.PruneRead(ctx, w.retention)
	if err != nil {
		w.log.Error("failed to prune read notifications", zap.Error(err))
		return
	}
	if count > 0 {
		w.log.Info("pruned read notifications", zap.Int64("count", count))
	}
}

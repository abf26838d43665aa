package collector

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// AlertPruner deletes audit rows detected before a cutoff.
type AlertPruner interface {
	DeleteOldAlerts(ctx context.Context, before time.Time) error
}

// runRetention prunes alerts older than retention once immediately, then every
// interval, until ctx is done.
func runRetention(ctx context.Context, pruner AlertPruner, retention, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		cutoff := time.Now().UTC().Add(-retention)

		pruneCtx, cancel := context.WithTimeout(ctx, time.Minute)
		err := pruner.DeleteOldAlerts(pruneCtx, cutoff)
		cancel()
		if err != nil && ctx.Err() == nil {
			logger.Warn("failed to prune old alerts", zap.Time("before", cutoff), zap.Error(err))
		} else if err == nil {
			logger.Info("pruned old alerts", zap.Time("before", cutoff))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

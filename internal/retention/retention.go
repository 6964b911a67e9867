// Package retention prunes old ads from the feed on a cron schedule. A
// bulletin board accumulates stale offers; operators can cap ad age with
// retention.max_age and a cron expression.
package retention

import (
	"context"
	"fmt"
	"time"

	"github.com/adhocore/gronx"

	"elele/pkg/config"
	"elele/pkg/feed"
	"elele/pkg/logger"
)

// Start starts the retention scheduler if enabled. Returns a cancel func.
func Start(ctx context.Context, eff config.EffectiveConfigResult, store *feed.Store) (context.CancelFunc, error) {
	ret := eff.Config.Retention
	if !ret.Enabled {
		logger.Info("retention_disabled")
		return func() {}, nil
	}

	maxAge, err := time.ParseDuration(ret.MaxAge)
	if err != nil || maxAge <= 0 {
		logger.Error("retention_invalid_max_age", "max_age", ret.MaxAge, "error", err)
		return nil, fmt.Errorf("invalid retention max_age: %q", ret.MaxAge)
	}

	// map empty cron to default daily @02:00
	cronExpr := ret.Cron
	if cronExpr == "" {
		cronExpr = "0 2 * * *"
	}
	if !gronx.IsValid(cronExpr) {
		logger.Error("retention_invalid_cron", "cron", ret.Cron)
		return nil, fmt.Errorf("invalid retention cron expression: %s", ret.Cron)
	}

	logger.Info("retention_enabled", "cron", cronExpr, "max_age", maxAge.String())
	ctx2, cancel := context.WithCancel(ctx)
	go runScheduler(ctx2, store, cronExpr, maxAge)
	return cancel, nil
}

// runScheduler computes the next tick for the cron expression with gronx and
// sleeps until then, pruning on each tick.
func runScheduler(ctx context.Context, store *feed.Store, cronExpr string, maxAge time.Duration) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("retention_scheduler_stopping")
			return
		default:
		}

		now := time.Now().UTC()
		next, err := gronx.NextTickAfter(cronExpr, now, false)
		if err != nil {
			logger.Error("retention_nexttick_failed", "cron", cronExpr, "error", err)
			select {
			case <-time.After(30 * time.Second):
			case <-ctx.Done():
				return
			}
			continue
		}

		select {
		case <-time.After(time.Until(next)):
			RunOnce(store, maxAge)
		case <-ctx.Done():
			logger.Info("retention_scheduler_stopping")
			return
		}
	}
}

// RunOnce performs a single prune pass and returns how many ads were
// removed. Exposed so admin tooling and tests can trigger sweeps on demand.
func RunOnce(store *feed.Store, maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	removed := store.PruneOlderThan(cutoff)
	logger.Info("retention_run_complete", "removed", removed)
	return removed
}

package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const reconcileBatchSize = 1000

// initJob registers background schedules. The reconciliation job walks recent
// transactions and rewrites any stored total that no longer matches the sum
// of its line items.
func (a *Application) initJob() {
	a.sched = cron.New()
	_, err := a.sched.AddFunc("@daily", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		repaired, err := a.checkout.Reconcile(ctx, reconcileBatchSize)
		if err != nil {
			zap.L().Error("transaction reconciliation failed", zap.Error(err))
			return
		}
		if repaired > 0 {
			zap.L().Warn("transaction reconciliation repaired totals", zap.Int("repaired", repaired))
		}
	})
	if err != nil {
		zap.L().Error("failed to register reconciliation job", zap.Error(err))
	}
}

// StartBackgroundJobs starts the cron scheduler.
func (a *Application) StartBackgroundJobs(ctx context.Context) {
	a.sched.Start()
	go func() {
		<-ctx.Done()
		a.sched.Stop()
	}()
}

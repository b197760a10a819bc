package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ReconciliationSummary is the outcome of one coordinator run. The error
// fields record captured sub-job failures; they never propagate past the
// coordinator.
type ReconciliationSummary struct {
	Billing    BillingReconcileResult `json:"billing"`
	Assets     AssetReconcileResult   `json:"assets"`
	BillingErr error                  `json:"-"`
	AssetsErr  error                  `json:"-"`
	Duration   time.Duration          `json:"-"`
}

// Failed reports whether any sub-job failed.
func (s ReconciliationSummary) Failed() bool {
	return s.BillingErr != nil || s.AssetsErr != nil
}

// Coordinator runs both reconcilers on behalf of the trigger facility. Each
// sub-job is isolated: an error or panic in one is captured and logged, the
// other still runs, and nothing escapes the coordinator so the trigger is
// never destabilized.
type Coordinator struct {
	billing *BillingReconciler
	assets  *AssetReconciler
	logger  *zap.Logger
}

func NewCoordinator(billing *BillingReconciler, assets *AssetReconciler, logger *zap.Logger) *Coordinator {
	return &Coordinator{billing: billing, assets: assets, logger: logger}
}

// RunDailyReconciliation runs the overdue sweep and the availability sweep
// for the given instant. The two touch disjoint collections, so order is
// not significant.
func (c *Coordinator) RunDailyReconciliation(ctx context.Context, now time.Time) ReconciliationSummary {
	start := time.Now()
	var summary ReconciliationSummary

	summary.BillingErr = c.runIsolated("billing_overdue", func() error {
		res, err := c.billing.ReconcileOverdue(ctx, now)
		summary.Billing = res
		return err
	})

	summary.AssetsErr = c.runIsolated("asset_availability", func() error {
		res, err := c.assets.ReconcileAvailability(ctx, now)
		summary.Assets = res
		return err
	})

	summary.Duration = time.Since(start)

	c.logger.Info("daily reconciliation run finished",
		zap.Time("now", now),
		zap.Duration("duration", summary.Duration),
		zap.Int("billing_scanned", summary.Billing.Scanned),
		zap.Int("billing_transitioned", summary.Billing.Transitioned),
		zap.Int("assets_scanned", summary.Assets.Scanned),
		zap.Int("assets_changed", summary.Assets.Changed),
		zap.Bool("failed", summary.Failed()))

	return summary
}

func (c *Coordinator) runIsolated(job string, fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%s panicked: %v", job, rec)
		}
		if err != nil {
			c.logger.Error("reconciliation sub-job failed",
				zap.String("job", job),
				zap.Error(err))
		}
	}()
	return fn()
}

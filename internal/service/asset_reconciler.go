package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/placardhq/placard/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultReconcileConcurrency = 8

// AssetReconcileResult reports one availability sweep.
type AssetReconcileResult struct {
	Scanned int `json:"scanned"`
	Changed int `json:"changed"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// AssetReconciler projects each asset's status from current contract
// coverage: rented iff at least one non-cancelled contract covers now,
// available otherwise. Assets in maintenance are never touched.
type AssetReconciler struct {
	assets    domain.AssetStore
	contracts domain.ContractStore
	logger    *zap.Logger

	concurrency int
}

func NewAssetReconciler(assets domain.AssetStore, contracts domain.ContractStore, logger *zap.Logger) *AssetReconciler {
	return &AssetReconciler{
		assets:      assets,
		contracts:   contracts,
		logger:      logger,
		concurrency: defaultReconcileConcurrency,
	}
}

func (r *AssetReconciler) SetConcurrency(n int) {
	if n > 0 {
		r.concurrency = n
	}
}

func (r *AssetReconciler) ReconcileAvailability(ctx context.Context, now time.Time) (AssetReconcileResult, error) {
	assets, err := r.assets.ListReconcilable(ctx)
	if err != nil {
		return AssetReconcileResult{}, fmt.Errorf("list assets: %w", err)
	}

	// Per-asset writes are independent condition-guarded updates, so they
	// can run in parallel without locks. A per-asset failure is counted and
	// skipped; it never aborts the batch.
	var scanned, changed, skipped, failed atomic.Int64

	var g errgroup.Group
	g.SetLimit(r.concurrency)

	for _, a := range assets {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			scanned.Add(1)
			r.reconcileOne(ctx, &a, now, &changed, &skipped, &failed)
			return nil
		})
	}
	_ = g.Wait()

	res := AssetReconcileResult{
		Scanned: int(scanned.Load()),
		Changed: int(changed.Load()),
		Skipped: int(skipped.Load()),
		Failed:  int(failed.Load()),
	}

	r.logger.Info("asset availability reconciliation complete",
		zap.Int("scanned", res.Scanned),
		zap.Int("changed", res.Changed),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", res.Failed))

	if ctx.Err() != nil {
		return res, ctx.Err()
	}
	return res, nil
}

func (r *AssetReconciler) reconcileOne(ctx context.Context, a *domain.Asset, now time.Time, changed, skipped, failed *atomic.Int64) {
	active, err := r.contracts.CountActiveForAsset(ctx, a.ID, now)
	if err != nil {
		failed.Add(1)
		r.logger.Warn("failed to count active contracts",
			zap.String("asset_id", a.ID.String()),
			zap.Error(err))
		return
	}

	// Any one covering contract is sufficient evidence of rented; overlaps
	// are a data-quality concern resolved elsewhere.
	target := domain.AssetAvailable
	if active > 0 {
		target = domain.AssetRented
	}

	if target == a.Status {
		return
	}

	updated, err := r.assets.UpdateStatusIf(ctx, a.ID, a.Status, target)
	if err != nil {
		failed.Add(1)
		r.logger.Warn("failed to update asset status",
			zap.String("asset_id", a.ID.String()),
			zap.String("target", string(target)),
			zap.Error(err))
		return
	}
	if !updated {
		// Status moved under us (concurrent run or manual maintenance).
		skipped.Add(1)
		return
	}
	changed.Add(1)

	r.logger.Debug("asset status reconciled",
		zap.String("asset_id", a.ID.String()),
		zap.String("from", string(a.Status)),
		zap.String("to", string(target)),
		zap.Int("active_contracts", active))
}

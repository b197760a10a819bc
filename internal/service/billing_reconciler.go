package service

import (
	"context"
	"fmt"
	"time"

	"github.com/placardhq/placard/internal/domain"
	"go.uber.org/zap"
)

// BillingReconcileResult reports one overdue sweep. Skipped counts
// documents whose optimistic condition no longer held at write time;
// Failed counts per-document store errors, neither aborts the batch.
type BillingReconcileResult struct {
	Scanned      int `json:"scanned"`
	Transitioned int `json:"transitioned"`
	Skipped      int `json:"skipped"`
	Failed       int `json:"failed"`
}

// BillingReconciler transitions billing periods past their end date from
// in_progress to overdue. completed and overdue are terminal for this
// engine; the candidate query and the conditional write both exclude them.
type BillingReconciler struct {
	periods domain.BillingPeriodStore
	logger  *zap.Logger
}

func NewBillingReconciler(periods domain.BillingPeriodStore, logger *zap.Logger) *BillingReconciler {
	return &BillingReconciler{periods: periods, logger: logger}
}

func (r *BillingReconciler) ReconcileOverdue(ctx context.Context, now time.Time) (BillingReconcileResult, error) {
	var res BillingReconcileResult

	candidates, err := r.periods.ListOverdueCandidates(ctx, now)
	if err != nil {
		return res, fmt.Errorf("list overdue candidates: %w", err)
	}

	for _, p := range candidates {
		if ctx.Err() != nil {
			// Shutting down: stop issuing new writes, in-flight ones are
			// already committed at the document level.
			return res, ctx.Err()
		}
		res.Scanned++

		if !p.OverdueAt(now) {
			r.logger.Error("overdue candidate does not satisfy transition precondition",
				zap.String("billing_period_id", p.ID.String()),
				zap.String("status", string(p.Status)),
				zap.Time("ends_at", p.EndsAt))
			res.Skipped++
			continue
		}

		transitioned, err := r.periods.MarkOverdue(ctx, p.ID)
		if err != nil {
			res.Failed++
			r.logger.Warn("failed to mark billing period overdue",
				zap.String("billing_period_id", p.ID.String()),
				zap.Error(err))
			continue
		}
		if !transitioned {
			// Lost the race to a concurrent run or a manual completion.
			res.Skipped++
			continue
		}
		res.Transitioned++
	}

	r.logger.Info("billing period reconciliation complete",
		zap.Int("scanned", res.Scanned),
		zap.Int("transitioned", res.Transitioned),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", res.Failed))

	return res, nil
}

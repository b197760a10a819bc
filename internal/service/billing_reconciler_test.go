package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/placardhq/placard/internal/domain"
	"go.uber.org/zap"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedPeriod(t *testing.T, s *mockBillingStore, status domain.BillingStatus, startsAt, endsAt time.Time) uuid.UUID {
	t.Helper()
	p := &domain.BillingPeriod{
		TenantID:   uuid.New(),
		ClientName: "ACME",
		Kind:       domain.PeriodMonthly,
		StartsAt:   startsAt,
		EndsAt:     endsAt,
		Status:     status,
	}
	if err := s.Create(context.Background(), p); err != nil {
		t.Fatalf("seed period: %v", err)
	}
	return p.ID
}

func TestBillingReconciler_TransitionsPastDuePeriod(t *testing.T) {
	billing := newMockBillingStore()
	r := NewBillingReconciler(billing, zap.NewNop())

	id := seedPeriod(t, billing, domain.BillingInProgress, date(2024, 1, 1), date(2024, 1, 15))

	res, err := r.ReconcileOverdue(context.Background(), date(2024, 1, 16))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.Scanned != 1 || res.Transitioned != 1 {
		t.Fatalf("expected scanned=1 transitioned=1, got %+v", res)
	}
	if got := billing.status(id); got != domain.BillingOverdue {
		t.Fatalf("expected overdue, got %s", got)
	}
}

func TestBillingReconciler_LeavesFutureAndTerminalPeriodsAlone(t *testing.T) {
	billing := newMockBillingStore()
	r := NewBillingReconciler(billing, zap.NewNop())

	now := date(2024, 1, 16)
	notDue := seedPeriod(t, billing, domain.BillingInProgress, date(2024, 1, 10), date(2024, 1, 31))
	endsNow := seedPeriod(t, billing, domain.BillingInProgress, date(2024, 1, 1), now)
	completed := seedPeriod(t, billing, domain.BillingCompleted, date(2023, 12, 1), date(2023, 12, 15))

	res, err := r.ReconcileOverdue(context.Background(), now)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.Transitioned != 0 {
		t.Fatalf("expected no transitions, got %+v", res)
	}
	if got := billing.status(notDue); got != domain.BillingInProgress {
		t.Fatalf("future period changed to %s", got)
	}
	if got := billing.status(endsNow); got != domain.BillingInProgress {
		t.Fatalf("period ending exactly now changed to %s", got)
	}
	if got := billing.status(completed); got != domain.BillingCompleted {
		t.Fatalf("completed period changed to %s", got)
	}
}

func TestBillingReconciler_Idempotent(t *testing.T) {
	billing := newMockBillingStore()
	r := NewBillingReconciler(billing, zap.NewNop())

	seedPeriod(t, billing, domain.BillingInProgress, date(2024, 1, 1), date(2024, 1, 15))
	now := date(2024, 1, 16)

	first, err := r.ReconcileOverdue(context.Background(), now)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Transitioned != 1 {
		t.Fatalf("first run expected 1 transition, got %+v", first)
	}

	second, err := r.ReconcileOverdue(context.Background(), now)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Scanned != 0 || second.Transitioned != 0 {
		t.Fatalf("second run expected no work, got %+v", second)
	}
}

func TestBillingReconciler_SkipsDocumentCompletedMidRun(t *testing.T) {
	billing := newMockBillingStore()
	r := NewBillingReconciler(billing, zap.NewNop())

	id := seedPeriod(t, billing, domain.BillingInProgress, date(2024, 1, 1), date(2024, 1, 15))
	tenantID := billing.periods[id].TenantID

	// A manual completion races ahead of the conditional write.
	billing.beforeMark = func(raceID uuid.UUID) {
		_, _ = billing.Complete(context.Background(), raceID, tenantID)
	}

	res, err := r.ReconcileOverdue(context.Background(), date(2024, 1, 16))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.Transitioned != 0 || res.Skipped != 1 || res.Failed != 0 {
		t.Fatalf("expected skipped=1 without errors, got %+v", res)
	}
	if got := billing.status(id); got != domain.BillingCompleted {
		t.Fatalf("completion must win, got %s", got)
	}
}

func TestBillingReconciler_OneBadDocumentDoesNotAbortBatch(t *testing.T) {
	billing := newMockBillingStore()
	r := NewBillingReconciler(billing, zap.NewNop())

	bad := seedPeriod(t, billing, domain.BillingInProgress, date(2024, 1, 1), date(2024, 1, 15))
	seedPeriod(t, billing, domain.BillingInProgress, date(2024, 1, 1), date(2024, 1, 14))
	seedPeriod(t, billing, domain.BillingInProgress, date(2024, 1, 1), date(2024, 1, 13))
	billing.failMarkIDs[bad] = true

	res, err := r.ReconcileOverdue(context.Background(), date(2024, 1, 16))
	if err != nil {
		t.Fatalf("expected partial result, got error %v", err)
	}
	if res.Scanned != 3 || res.Transitioned != 2 || res.Failed != 1 {
		t.Fatalf("expected scanned=3 transitioned=2 failed=1, got %+v", res)
	}
}

func TestBillingReconciler_ScanFailureAbortsBatch(t *testing.T) {
	billing := newMockBillingStore()
	billing.failAll = true
	r := NewBillingReconciler(billing, zap.NewNop())

	if _, err := r.ReconcileOverdue(context.Background(), date(2024, 1, 16)); err == nil {
		t.Fatal("expected error when the candidate scan fails")
	}
}

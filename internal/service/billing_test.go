package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/placardhq/placard/internal/domain"
	"github.com/shopspring/decimal"
)

func TestBillingService_Create_Validation(t *testing.T) {
	svc := NewBillingService(newMockBillingStore())
	ctx := context.Background()
	tenantID := uuid.New()

	base := func() *domain.BillingPeriod {
		return &domain.BillingPeriod{
			TenantID:   tenantID,
			ClientName: "ACME",
			Kind:       domain.PeriodMonthly,
			StartsAt:   date(2024, 1, 1),
			EndsAt:     date(2024, 1, 31),
			TotalValue: decimal.NewFromInt(5000),
		}
	}

	p := base()
	p.ClientName = ""
	if err := svc.Create(ctx, p); err != ErrBillingClientMissing {
		t.Fatalf("expected ErrBillingClientMissing, got %v", err)
	}

	p = base()
	p.Kind = "quarterly"
	if err := svc.Create(ctx, p); err != ErrBillingKindInvalid {
		t.Fatalf("expected ErrBillingKindInvalid, got %v", err)
	}

	p = base()
	p.EndsAt = p.StartsAt
	if err := svc.Create(ctx, p); err != ErrBillingDatesInvalid {
		t.Fatalf("expected ErrBillingDatesInvalid, got %v", err)
	}

	p = base()
	if err := svc.Create(ctx, p); err != nil {
		t.Fatalf("expected valid period to be created, got %v", err)
	}
	if p.Status != domain.BillingInProgress {
		t.Fatalf("new period must start in_progress, got %s", p.Status)
	}
}

func TestBillingService_Complete(t *testing.T) {
	billing := newMockBillingStore()
	svc := NewBillingService(billing)
	ctx := context.Background()

	p := &domain.BillingPeriod{
		TenantID:   uuid.New(),
		ClientName: "ACME",
		Kind:       domain.PeriodBiweekly,
		StartsAt:   date(2024, 1, 1),
		EndsAt:     date(2024, 1, 15),
	}
	if err := svc.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Complete(ctx, p.ID, p.TenantID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if got := billing.status(p.ID); got != domain.BillingCompleted {
		t.Fatalf("expected completed, got %s", got)
	}

	if err := svc.Complete(ctx, p.ID, p.TenantID); err != ErrBillingAlreadyTerminal {
		t.Fatalf("expected ErrBillingAlreadyTerminal, got %v", err)
	}
}

func TestContractService_CreateAndCancel(t *testing.T) {
	assets := newMockAssetStore()
	contracts := newMockContractStore()
	svc := NewContractService(contracts, assets)
	ctx := context.Background()

	a := seedAsset(t, assets, domain.AssetAvailable)

	if _, err := svc.Create(ctx, a.TenantID, a.ID, "ACME", decimal.NewFromInt(900), date(2024, 2, 10), date(2024, 2, 1)); err != ErrContractDatesInvalid {
		t.Fatalf("expected ErrContractDatesInvalid, got %v", err)
	}

	c, err := svc.Create(ctx, a.TenantID, a.ID, "ACME", decimal.NewFromInt(900), date(2024, 2, 1), date(2024, 2, 10))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Cancel(ctx, c.ID, a.TenantID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := svc.Cancel(ctx, c.ID, a.TenantID); err != ErrContractAlreadyCancelled {
		t.Fatalf("expected ErrContractAlreadyCancelled, got %v", err)
	}
}

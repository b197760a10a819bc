package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TenantStore persists tenants and their user accounts. Create enlists the
// tenant and its first user in a single transaction. GetByID never returns
// the API-key hash; GetByKeyPrefix is the explicit sensitive read used by
// the auth path.
type TenantStore interface {
	Create(ctx context.Context, t *Tenant, firstUser *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	GetByKeyPrefix(ctx context.Context, keyPrefix string) (*Tenant, error)
	RotateAPIKey(ctx context.Context, id uuid.UUID, keyHash, keyPrefix string) error
	AddUser(ctx context.Context, u *User) error
	ListUsers(ctx context.Context, tenantID uuid.UUID) ([]User, error)
}

type AssetStore interface {
	Create(ctx context.Context, a *Asset) error
	GetByID(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*Asset, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]Asset, error)
	// ListReconcilable returns every asset not in maintenance, across all
	// tenants.
	ListReconcilable(ctx context.Context) ([]Asset, error)
	// UpdateStatusIf sets status to target only if the stored status still
	// equals observed and is not maintenance. Returns false when the
	// condition no longer held.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, observed, target AssetStatus) (bool, error)
	// SetMaintenance toggles the manual maintenance override. Leaving
	// maintenance lands on available; the next reconciliation pass corrects
	// it if a contract covers now.
	SetMaintenance(ctx context.Context, id uuid.UUID, tenantID uuid.UUID, on bool) (*Asset, error)
}

type ContractStore interface {
	Create(ctx context.Context, c *Contract) error
	GetByID(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*Contract, error)
	ListByAsset(ctx context.Context, assetID uuid.UUID, tenantID uuid.UUID) ([]Contract, error)
	// CountActiveForAsset counts non-cancelled contracts covering now with
	// half-open semantics: starts_at <= now < ends_at.
	CountActiveForAsset(ctx context.Context, assetID uuid.UUID, now time.Time) (int, error)
	// Cancel marks the contract cancelled; false if already cancelled.
	Cancel(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (bool, error)
}

type BillingPeriodStore interface {
	Create(ctx context.Context, p *BillingPeriod) error
	GetByID(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*BillingPeriod, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]BillingPeriod, error)
	// ListOverdueCandidates returns periods still in progress whose end date
	// has passed, across all tenants.
	ListOverdueCandidates(ctx context.Context, now time.Time) ([]BillingPeriod, error)
	// MarkOverdue transitions in_progress -> overdue, re-checking the status
	// at write time. Returns false when the condition no longer held.
	MarkOverdue(ctx context.Context, id uuid.UUID) (bool, error)
	// Complete transitions in_progress -> completed (business action).
	Complete(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (bool, error)
}

package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BillingStatus string

const (
	BillingInProgress BillingStatus = "in_progress"
	BillingCompleted  BillingStatus = "completed"
	BillingOverdue    BillingStatus = "overdue"
)

// Terminal reports whether no further engine transition applies.
// completed is set by business action, overdue by the reconciler; neither
// is ever left via this engine.
func (s BillingStatus) Terminal() bool {
	return s == BillingCompleted || s == BillingOverdue
}

type PeriodKind string

const (
	PeriodBiweekly PeriodKind = "biweekly"
	PeriodMonthly  PeriodKind = "monthly"
)

func (k PeriodKind) Valid() bool {
	return k == PeriodBiweekly || k == PeriodMonthly
}

// BillingPeriod is an insertion order invoicing a client over a date
// range. EndsAt > StartsAt is enforced at creation and not re-checked by
// the reconciler.
type BillingPeriod struct {
	ID            uuid.UUID       `json:"id"`
	TenantID      uuid.UUID       `json:"tenant_id"`
	ClientName    string          `json:"client_name"`
	Kind          PeriodKind      `json:"kind"`
	StartsAt      time.Time       `json:"starts_at"`
	EndsAt        time.Time       `json:"ends_at"`
	TotalValue    decimal.Decimal `json:"total_value"`
	Description   string          `json:"description"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	AssetIDs      []uuid.UUID     `json:"asset_ids,omitempty"`
	Status        BillingStatus   `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// OverdueAt reports whether the period should transition to overdue: still
// in progress and past its end date.
func (p *BillingPeriod) OverdueAt(now time.Time) bool {
	return p.Status == BillingInProgress && p.EndsAt.Before(now)
}

package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Contract binds one asset to a client for the half-open interval
// [StartsAt, EndsAt). Immutable once created, except for cancellation.
type Contract struct {
	ID         uuid.UUID       `json:"id"`
	TenantID   uuid.UUID       `json:"tenant_id"`
	AssetID    uuid.UUID       `json:"asset_id"`
	ClientName string          `json:"client_name"`
	Value      decimal.Decimal `json:"value"`
	StartsAt   time.Time       `json:"starts_at"`
	EndsAt     time.Time       `json:"ends_at"`
	Cancelled  bool            `json:"cancelled"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ActiveAt reports whether the contract covers the given instant.
// Start-inclusive, end-exclusive: a contract ending exactly now no longer
// counts as active.
func (c *Contract) ActiveAt(now time.Time) bool {
	if c.Cancelled {
		return false
	}
	return !c.StartsAt.After(now) && now.Before(c.EndsAt)
}

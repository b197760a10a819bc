package domain

import (
	"time"

	"github.com/google/uuid"
)

type AssetStatus string

const (
	AssetAvailable   AssetStatus = "available"
	AssetRented      AssetStatus = "rented"
	AssetMaintenance AssetStatus = "maintenance"
)

func (s AssetStatus) Valid() bool {
	switch s {
	case AssetAvailable, AssetRented, AssetMaintenance:
		return true
	}
	return false
}

// Asset is a physical rentable advertising unit. Outside of a manual
// maintenance override, its status is a projection of current contracts
// maintained by the reconciler, not independent truth.
type Asset struct {
	ID        uuid.UUID   `json:"id"`
	TenantID  uuid.UUID   `json:"tenant_id"`
	Code      string      `json:"code"`
	Location  string      `json:"location,omitempty"`
	Status    AssetStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

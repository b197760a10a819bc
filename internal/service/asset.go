package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/placardhq/placard/internal/domain"
)

var ErrAssetCodeMissing = errors.New("asset code is required")

type AssetService struct {
	assets domain.AssetStore
}

func NewAssetService(assets domain.AssetStore) *AssetService {
	return &AssetService{assets: assets}
}

func (s *AssetService) Create(ctx context.Context, tenantID uuid.UUID, code, location string) (*domain.Asset, error) {
	if code == "" {
		return nil, ErrAssetCodeMissing
	}
	a := &domain.Asset{
		TenantID: tenantID,
		Code:     code,
		Location: location,
		Status:   domain.AssetAvailable,
	}
	if err := s.assets.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AssetService) GetByID(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*domain.Asset, error) {
	return s.assets.GetByID(ctx, id, tenantID)
}

func (s *AssetService) List(ctx context.Context, tenantID uuid.UUID) ([]domain.Asset, error) {
	return s.assets.ListByTenant(ctx, tenantID)
}

// SetMaintenance applies the manual maintenance override. The reconciler
// never writes over an asset in maintenance; leaving maintenance lands on
// available, which the next pass corrects if a contract covers now.
func (s *AssetService) SetMaintenance(ctx context.Context, id uuid.UUID, tenantID uuid.UUID, on bool) (*domain.Asset, error) {
	return s.assets.SetMaintenance(ctx, id, tenantID, on)
}

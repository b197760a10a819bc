package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/placardhq/placard/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrContractClientMissing    = errors.New("contract client name is required")
	ErrContractDatesInvalid     = errors.New("contract end date must be after start date")
	ErrContractAlreadyCancelled = errors.New("contract is already cancelled")
)

type ContractService struct {
	contracts domain.ContractStore
	assets    domain.AssetStore
}

func NewContractService(contracts domain.ContractStore, assets domain.AssetStore) *ContractService {
	return &ContractService{contracts: contracts, assets: assets}
}

// Create validates the request and persists the contract. The asset must
// belong to the tenant. Overlap with other contracts on the same asset is
// not rejected here; the reconciler treats any one covering contract as
// sufficient.
func (s *ContractService) Create(ctx context.Context, tenantID, assetID uuid.UUID, clientName string, value decimal.Decimal, startsAt, endsAt time.Time) (*domain.Contract, error) {
	if clientName == "" {
		return nil, ErrContractClientMissing
	}
	if !endsAt.After(startsAt) {
		return nil, ErrContractDatesInvalid
	}

	if _, err := s.assets.GetByID(ctx, assetID, tenantID); err != nil {
		return nil, err
	}

	c := &domain.Contract{
		TenantID:   tenantID,
		AssetID:    assetID,
		ClientName: clientName,
		Value:      value,
		StartsAt:   startsAt,
		EndsAt:     endsAt,
	}
	if err := s.contracts.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ContractService) GetByID(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*domain.Contract, error) {
	return s.contracts.GetByID(ctx, id, tenantID)
}

func (s *ContractService) ListByAsset(ctx context.Context, assetID uuid.UUID, tenantID uuid.UUID) ([]domain.Contract, error) {
	return s.contracts.ListByAsset(ctx, assetID, tenantID)
}

func (s *ContractService) Cancel(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) error {
	cancelled, err := s.contracts.Cancel(ctx, id, tenantID)
	if err != nil {
		return err
	}
	if cancelled {
		return nil
	}
	// Distinguish a missing contract from one already cancelled.
	if _, err := s.contracts.GetByID(ctx, id, tenantID); err != nil {
		return err
	}
	return ErrContractAlreadyCancelled
}

package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/placardhq/placard/internal/domain"
)

type AssetStore struct {
	db *pgxpool.Pool
}

func NewAssetStore(db *pgxpool.Pool) *AssetStore {
	return &AssetStore{db: db}
}

func (s *AssetStore) Create(ctx context.Context, a *domain.Asset) error {
	if a.Status == "" {
		a.Status = domain.AssetAvailable
	}
	err := s.db.QueryRow(ctx,
		`INSERT INTO assets (tenant_id, code, location, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		a.TenantID, a.Code, a.Location, a.Status,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return mapConflict(err)
	}
	return nil
}

func (s *AssetStore) GetByID(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*domain.Asset, error) {
	a := &domain.Asset{}
	err := s.db.QueryRow(ctx,
		`SELECT id, tenant_id, code, location, status, created_at, updated_at
		 FROM assets WHERE id = $1 AND tenant_id = $2`,
		id, tenantID,
	).Scan(&a.ID, &a.TenantID, &a.Code, &a.Location, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *AssetStore) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Asset, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, tenant_id, code, location, status, created_at, updated_at
		 FROM assets WHERE tenant_id = $1 ORDER BY code`,
		tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAssets(rows)
}

func (s *AssetStore) ListReconcilable(ctx context.Context) ([]domain.Asset, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, tenant_id, code, location, status, created_at, updated_at
		 FROM assets WHERE status <> 'maintenance' ORDER BY created_at`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAssets(rows)
}

// UpdateStatusIf is the optimistic write used by the reconciler: the status
// must still be what the scan observed, and maintenance is never
// overwritten. A zero row count means the condition no longer held.
func (s *AssetStore) UpdateStatusIf(ctx context.Context, id uuid.UUID, observed, target domain.AssetStatus) (bool, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE assets SET status = $3, updated_at = NOW()
		 WHERE id = $1 AND status = $2 AND status <> 'maintenance'`,
		id, observed, target,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *AssetStore) SetMaintenance(ctx context.Context, id uuid.UUID, tenantID uuid.UUID, on bool) (*domain.Asset, error) {
	target := domain.AssetMaintenance
	if !on {
		target = domain.AssetAvailable
	}
	a := &domain.Asset{}
	err := s.db.QueryRow(ctx,
		`UPDATE assets SET status = $3, updated_at = NOW()
		 WHERE id = $1 AND tenant_id = $2
		 RETURNING id, tenant_id, code, location, status, created_at, updated_at`,
		id, tenantID, target,
	).Scan(&a.ID, &a.TenantID, &a.Code, &a.Location, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func scanAssets(rows pgx.Rows) ([]domain.Asset, error) {
	var assets []domain.Asset
	for rows.Next() {
		var a domain.Asset
		if err := rows.Scan(&a.ID, &a.TenantID, &a.Code, &a.Location, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

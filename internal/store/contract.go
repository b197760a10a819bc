package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/placardhq/placard/internal/domain"
)

type ContractStore struct {
	db *pgxpool.Pool
}

func NewContractStore(db *pgxpool.Pool) *ContractStore {
	return &ContractStore{db: db}
}

func (s *ContractStore) Create(ctx context.Context, c *domain.Contract) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO contracts (tenant_id, asset_id, client_name, value, starts_at, ends_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		c.TenantID, c.AssetID, c.ClientName, c.Value, c.StartsAt, c.EndsAt,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return mapConflict(err)
	}
	return nil
}

func (s *ContractStore) GetByID(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*domain.Contract, error) {
	c := &domain.Contract{}
	err := s.db.QueryRow(ctx,
		`SELECT id, tenant_id, asset_id, client_name, value, starts_at, ends_at, cancelled, created_at, updated_at
		 FROM contracts WHERE id = $1 AND tenant_id = $2`,
		id, tenantID,
	).Scan(&c.ID, &c.TenantID, &c.AssetID, &c.ClientName, &c.Value, &c.StartsAt, &c.EndsAt, &c.Cancelled, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *ContractStore) ListByAsset(ctx context.Context, assetID uuid.UUID, tenantID uuid.UUID) ([]domain.Contract, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, tenant_id, asset_id, client_name, value, starts_at, ends_at, cancelled, created_at, updated_at
		 FROM contracts WHERE asset_id = $1 AND tenant_id = $2 ORDER BY starts_at`,
		assetID, tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contracts []domain.Contract
	for rows.Next() {
		var c domain.Contract
		if err := rows.Scan(&c.ID, &c.TenantID, &c.AssetID, &c.ClientName, &c.Value, &c.StartsAt, &c.EndsAt, &c.Cancelled, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		contracts = append(contracts, c)
	}
	return contracts, rows.Err()
}

// CountActiveForAsset counts contracts covering now. Start-inclusive,
// end-exclusive: ends_at equal to now does not count.
func (s *ContractStore) CountActiveForAsset(ctx context.Context, assetID uuid.UUID, now time.Time) (int, error) {
	var n int
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM contracts
		 WHERE asset_id = $1 AND NOT cancelled AND starts_at <= $2 AND ends_at > $2`,
		assetID, now,
	).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (s *ContractStore) Cancel(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (bool, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE contracts SET cancelled = TRUE, updated_at = NOW()
		 WHERE id = $1 AND tenant_id = $2 AND NOT cancelled`,
		id, tenantID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

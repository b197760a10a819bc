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

type BillingPeriodStore struct {
	db *pgxpool.Pool
}

func NewBillingPeriodStore(db *pgxpool.Pool) *BillingPeriodStore {
	return &BillingPeriodStore{db: db}
}

func (s *BillingPeriodStore) Create(ctx context.Context, p *domain.BillingPeriod) error {
	if p.Status == "" {
		p.Status = domain.BillingInProgress
	}
	if p.AssetIDs == nil {
		p.AssetIDs = []uuid.UUID{}
	}
	err := s.db.QueryRow(ctx,
		`INSERT INTO billing_periods
		 (tenant_id, client_name, kind, starts_at, ends_at, total_value, description, payment_method, asset_ids, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at, updated_at`,
		p.TenantID, p.ClientName, p.Kind, p.StartsAt, p.EndsAt, p.TotalValue,
		p.Description, p.PaymentMethod, p.AssetIDs, p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return mapConflict(err)
	}
	return nil
}

func (s *BillingPeriodStore) GetByID(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*domain.BillingPeriod, error) {
	p := &domain.BillingPeriod{}
	err := s.db.QueryRow(ctx,
		`SELECT id, tenant_id, client_name, kind, starts_at, ends_at, total_value,
		        description, payment_method, asset_ids, status, created_at, updated_at
		 FROM billing_periods WHERE id = $1 AND tenant_id = $2`,
		id, tenantID,
	).Scan(&p.ID, &p.TenantID, &p.ClientName, &p.Kind, &p.StartsAt, &p.EndsAt, &p.TotalValue,
		&p.Description, &p.PaymentMethod, &p.AssetIDs, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *BillingPeriodStore) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.BillingPeriod, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, tenant_id, client_name, kind, starts_at, ends_at, total_value,
		        description, payment_method, asset_ids, status, created_at, updated_at
		 FROM billing_periods WHERE tenant_id = $1 ORDER BY starts_at DESC`,
		tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBillingPeriods(rows)
}

func (s *BillingPeriodStore) ListOverdueCandidates(ctx context.Context, now time.Time) ([]domain.BillingPeriod, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, tenant_id, client_name, kind, starts_at, ends_at, total_value,
		        description, payment_method, asset_ids, status, created_at, updated_at
		 FROM billing_periods WHERE status = 'in_progress' AND ends_at < $1
		 ORDER BY ends_at`,
		now,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBillingPeriods(rows)
}

// MarkOverdue re-checks in_progress at write time so a concurrent run or a
// concurrent manual completion racing ahead makes this a no-op, not an
// error.
func (s *BillingPeriodStore) MarkOverdue(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE billing_periods SET status = 'overdue', updated_at = NOW()
		 WHERE id = $1 AND status = 'in_progress'`,
		id,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *BillingPeriodStore) Complete(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (bool, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE billing_periods SET status = 'completed', updated_at = NOW()
		 WHERE id = $1 AND tenant_id = $2 AND status = 'in_progress'`,
		id, tenantID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func scanBillingPeriods(rows pgx.Rows) ([]domain.BillingPeriod, error) {
	var periods []domain.BillingPeriod
	for rows.Next() {
		var p domain.BillingPeriod
		if err := rows.Scan(&p.ID, &p.TenantID, &p.ClientName, &p.Kind, &p.StartsAt, &p.EndsAt, &p.TotalValue,
			&p.Description, &p.PaymentMethod, &p.AssetIDs, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

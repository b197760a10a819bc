package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/placardhq/placard/internal/domain"
)

type TenantStore struct {
	db *pgxpool.Pool
}

func NewTenantStore(db *pgxpool.Pool) *TenantStore {
	return &TenantStore{db: db}
}

// Create inserts the tenant and its first user in a single transaction so a
// tenant never exists without an account that can use it.
func (s *TenantStore) Create(ctx context.Context, t *domain.Tenant, firstUser *domain.User) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx,
		`INSERT INTO tenants (name, tax_id, api_key_hash, api_key_prefix)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		t.Name, t.TaxID, t.APIKeyHash, t.APIKeyPrefix,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return mapConflict(err)
	}

	firstUser.TenantID = t.ID
	err = tx.QueryRow(ctx,
		`INSERT INTO users (tenant_id, name, email)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		firstUser.TenantID, firstUser.Name, firstUser.Email,
	).Scan(&firstUser.ID, &firstUser.CreatedAt, &firstUser.UpdatedAt)
	if err != nil {
		return mapConflict(err)
	}

	return tx.Commit(ctx)
}

// GetByID reads the tenant without its API-key hash. The hash is only
// surfaced by GetByKeyPrefix.
func (s *TenantStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	t := &domain.Tenant{}
	err := s.db.QueryRow(ctx,
		`SELECT id, name, tax_id, api_key_prefix, created_at, updated_at
		 FROM tenants WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.Name, &t.TaxID, &t.APIKeyPrefix, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *TenantStore) GetByKeyPrefix(ctx context.Context, keyPrefix string) (*domain.Tenant, error) {
	t := &domain.Tenant{}
	err := s.db.QueryRow(ctx,
		`SELECT id, name, tax_id, api_key_hash, api_key_prefix, created_at, updated_at
		 FROM tenants WHERE api_key_prefix = $1`,
		keyPrefix,
	).Scan(&t.ID, &t.Name, &t.TaxID, &t.APIKeyHash, &t.APIKeyPrefix, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *TenantStore) RotateAPIKey(ctx context.Context, id uuid.UUID, keyHash, keyPrefix string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE tenants SET api_key_hash = $2, api_key_prefix = $3, updated_at = NOW()
		 WHERE id = $1`,
		id, keyHash, keyPrefix,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *TenantStore) AddUser(ctx context.Context, u *domain.User) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO users (tenant_id, name, email)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		u.TenantID, u.Name, u.Email,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return mapConflict(err)
	}
	return nil
}

func (s *TenantStore) ListUsers(ctx context.Context, tenantID uuid.UUID) ([]domain.User, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, tenant_id, name, email, created_at, updated_at
		 FROM users WHERE tenant_id = $1 ORDER BY created_at`,
		tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.TenantID, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func mapConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrConflict
	}
	return err
}

package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/placardhq/placard/internal/domain"
)

var (
	ErrTenantNameMissing  = errors.New("tenant name is required")
	ErrTenantTaxIDMissing = errors.New("tenant tax id is required")
	ErrUserNameMissing    = errors.New("user name is required")
	ErrUserEmailMissing   = errors.New("user email is required")
)

type TenantService struct {
	tenants domain.TenantStore
}

func NewTenantService(tenants domain.TenantStore) *TenantService {
	return &TenantService{tenants: tenants}
}

// Registration is the result of creating a tenant. APIKey carries the raw
// key, returned exactly once.
type Registration struct {
	Tenant *domain.Tenant
	User   *domain.User
	APIKey string
}

// Register creates a tenant together with its first user in one
// transaction and issues its API key.
func (s *TenantService) Register(ctx context.Context, name, taxID, userName, userEmail string) (*Registration, error) {
	switch {
	case name == "":
		return nil, ErrTenantNameMissing
	case taxID == "":
		return nil, ErrTenantTaxIDMissing
	case userName == "":
		return nil, ErrUserNameMissing
	case userEmail == "":
		return nil, ErrUserEmailMissing
	}

	apiKey, err := GenerateAPIKey()
	if err != nil {
		return nil, err
	}

	tenant := &domain.Tenant{
		Name:         name,
		TaxID:        taxID,
		APIKeyHash:   HashAPIKey(apiKey),
		APIKeyPrefix: KeyPrefix(apiKey),
	}
	user := &domain.User{
		Name:  userName,
		Email: userEmail,
	}

	if err := s.tenants.Create(ctx, tenant, user); err != nil {
		return nil, err
	}

	return &Registration{Tenant: tenant, User: user, APIKey: apiKey}, nil
}

// RotateKey replaces the tenant's API key and returns the new raw key. The
// old key stops authenticating immediately.
func (s *TenantService) RotateKey(ctx context.Context, tenantID uuid.UUID) (string, error) {
	apiKey, err := GenerateAPIKey()
	if err != nil {
		return "", err
	}
	if err := s.tenants.RotateAPIKey(ctx, tenantID, HashAPIKey(apiKey), KeyPrefix(apiKey)); err != nil {
		return "", err
	}
	return apiKey, nil
}

func (s *TenantService) AddUser(ctx context.Context, u *domain.User) error {
	if u.Name == "" {
		return ErrUserNameMissing
	}
	if u.Email == "" {
		return ErrUserEmailMissing
	}
	return s.tenants.AddUser(ctx, u)
}

func (s *TenantService) ListUsers(ctx context.Context, tenantID uuid.UUID) ([]domain.User, error) {
	return s.tenants.ListUsers(ctx, tenantID)
}

package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/placardhq/placard/internal/domain"
	"github.com/placardhq/placard/internal/store"
)

var errStoreDown = errors.New("store unavailable")

// Mocks are safe for concurrent use: the asset reconciler issues writes
// from multiple goroutines.

type mockBillingStore struct {
	mu      sync.Mutex
	periods map[uuid.UUID]*domain.BillingPeriod

	failAll     bool
	failMarkIDs map[uuid.UUID]bool
	beforeMark  func(id uuid.UUID)
	panicOnList bool
}

func newMockBillingStore() *mockBillingStore {
	return &mockBillingStore{
		periods:     make(map[uuid.UUID]*domain.BillingPeriod),
		failMarkIDs: make(map[uuid.UUID]bool),
	}
}

func (m *mockBillingStore) Create(ctx context.Context, p *domain.BillingPeriod) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return errStoreDown
	}
	p.ID = uuid.New()
	if p.Status == "" {
		p.Status = domain.BillingInProgress
	}
	cp := *p
	m.periods[p.ID] = &cp
	return nil
}

func (m *mockBillingStore) GetByID(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*domain.BillingPeriod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return nil, errStoreDown
	}
	p, ok := m.periods[id]
	if !ok || p.TenantID != tenantID {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockBillingStore) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.BillingPeriod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return nil, errStoreDown
	}
	var out []domain.BillingPeriod
	for _, p := range m.periods {
		if p.TenantID == tenantID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockBillingStore) ListOverdueCandidates(ctx context.Context, now time.Time) ([]domain.BillingPeriod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.panicOnList {
		panic("billing store exploded")
	}
	if m.failAll {
		return nil, errStoreDown
	}
	var out []domain.BillingPeriod
	for _, p := range m.periods {
		if p.Status == domain.BillingInProgress && p.EndsAt.Before(now) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockBillingStore) MarkOverdue(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.beforeMark != nil {
		m.beforeMark(id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll || m.failMarkIDs[id] {
		return false, errStoreDown
	}
	p, ok := m.periods[id]
	if !ok || p.Status != domain.BillingInProgress {
		return false, nil
	}
	p.Status = domain.BillingOverdue
	return true, nil
}

func (m *mockBillingStore) Complete(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.periods[id]
	if !ok || p.TenantID != tenantID || p.Status != domain.BillingInProgress {
		return false, nil
	}
	p.Status = domain.BillingCompleted
	return true, nil
}

func (m *mockBillingStore) status(id uuid.UUID) domain.BillingStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.periods[id].Status
}

type mockAssetStore struct {
	mu     sync.Mutex
	assets map[uuid.UUID]*domain.Asset

	failAll bool
}

func newMockAssetStore() *mockAssetStore {
	return &mockAssetStore{assets: make(map[uuid.UUID]*domain.Asset)}
}

func (m *mockAssetStore) Create(ctx context.Context, a *domain.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = uuid.New()
	if a.Status == "" {
		a.Status = domain.AssetAvailable
	}
	cp := *a
	m.assets[a.ID] = &cp
	return nil
}

func (m *mockAssetStore) GetByID(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*domain.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assets[id]
	if !ok || a.TenantID != tenantID {
		return nil, store.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockAssetStore) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Asset
	for _, a := range m.assets {
		if a.TenantID == tenantID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockAssetStore) ListReconcilable(ctx context.Context) ([]domain.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return nil, errStoreDown
	}
	var out []domain.Asset
	for _, a := range m.assets {
		if a.Status != domain.AssetMaintenance {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockAssetStore) UpdateStatusIf(ctx context.Context, id uuid.UUID, observed, target domain.AssetStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return false, errStoreDown
	}
	a, ok := m.assets[id]
	if !ok || a.Status != observed || a.Status == domain.AssetMaintenance {
		return false, nil
	}
	a.Status = target
	return true, nil
}

func (m *mockAssetStore) SetMaintenance(ctx context.Context, id uuid.UUID, tenantID uuid.UUID, on bool) (*domain.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assets[id]
	if !ok || a.TenantID != tenantID {
		return nil, store.ErrNotFound
	}
	if on {
		a.Status = domain.AssetMaintenance
	} else {
		a.Status = domain.AssetAvailable
	}
	cp := *a
	return &cp, nil
}

func (m *mockAssetStore) status(id uuid.UUID) domain.AssetStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.assets[id].Status
}

type mockContractStore struct {
	mu        sync.Mutex
	contracts map[uuid.UUID]*domain.Contract

	failAll bool
}

func newMockContractStore() *mockContractStore {
	return &mockContractStore{contracts: make(map[uuid.UUID]*domain.Contract)}
}

func (m *mockContractStore) Create(ctx context.Context, c *domain.Contract) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = uuid.New()
	cp := *c
	m.contracts[c.ID] = &cp
	return nil
}

func (m *mockContractStore) GetByID(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*domain.Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contracts[id]
	if !ok || c.TenantID != tenantID {
		return nil, store.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *mockContractStore) ListByAsset(ctx context.Context, assetID uuid.UUID, tenantID uuid.UUID) ([]domain.Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Contract
	for _, c := range m.contracts {
		if c.AssetID == assetID && c.TenantID == tenantID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *mockContractStore) CountActiveForAsset(ctx context.Context, assetID uuid.UUID, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return 0, errStoreDown
	}
	n := 0
	for _, c := range m.contracts {
		if c.AssetID == assetID && c.ActiveAt(now) {
			n++
		}
	}
	return n, nil
}

func (m *mockContractStore) Cancel(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contracts[id]
	if !ok || c.TenantID != tenantID || c.Cancelled {
		return false, nil
	}
	c.Cancelled = true
	return true, nil
}

type mockTenantStore struct {
	mu      sync.Mutex
	tenants map[uuid.UUID]*domain.Tenant
	users   map[uuid.UUID][]domain.User
	taxIDs  map[string]bool
}

func newMockTenantStore() *mockTenantStore {
	return &mockTenantStore{
		tenants: make(map[uuid.UUID]*domain.Tenant),
		users:   make(map[uuid.UUID][]domain.User),
		taxIDs:  make(map[string]bool),
	}
}

func (m *mockTenantStore) Create(ctx context.Context, t *domain.Tenant, firstUser *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.taxIDs[t.TaxID] {
		return store.ErrConflict
	}
	t.ID = uuid.New()
	firstUser.ID = uuid.New()
	firstUser.TenantID = t.ID
	cp := *t
	m.tenants[t.ID] = &cp
	m.users[t.ID] = []domain.User{*firstUser}
	m.taxIDs[t.TaxID] = true
	return nil
}

func (m *mockTenantStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tenants[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *t
	cp.APIKeyHash = "" // generic reads never surface the hash
	return &cp, nil
}

func (m *mockTenantStore) GetByKeyPrefix(ctx context.Context, keyPrefix string) (*domain.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tenants {
		if t.APIKeyPrefix == keyPrefix {
			cp := *t
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockTenantStore) RotateAPIKey(ctx context.Context, id uuid.UUID, keyHash, keyPrefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tenants[id]
	if !ok {
		return store.ErrNotFound
	}
	t.APIKeyHash = keyHash
	t.APIKeyPrefix = keyPrefix
	return nil
}

func (m *mockTenantStore) AddUser(ctx context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tenants[u.TenantID]; !ok {
		return store.ErrNotFound
	}
	u.ID = uuid.New()
	m.users[u.TenantID] = append(m.users[u.TenantID], *u)
	return nil
}

func (m *mockTenantStore) ListUsers(ctx context.Context, tenantID uuid.UUID) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[tenantID], nil
}

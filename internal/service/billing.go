package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/placardhq/placard/internal/domain"
)

var (
	ErrBillingClientMissing   = errors.New("billing period client name is required")
	ErrBillingKindInvalid     = errors.New("billing period kind must be biweekly or monthly")
	ErrBillingDatesInvalid    = errors.New("billing period end date must be after start date")
	ErrBillingAlreadyTerminal = errors.New("billing period is already completed or overdue")
)

type BillingService struct {
	periods domain.BillingPeriodStore
}

func NewBillingService(periods domain.BillingPeriodStore) *BillingService {
	return &BillingService{periods: periods}
}

func (s *BillingService) Create(ctx context.Context, p *domain.BillingPeriod) error {
	if p.ClientName == "" {
		return ErrBillingClientMissing
	}
	if !p.Kind.Valid() {
		return ErrBillingKindInvalid
	}
	if !p.EndsAt.After(p.StartsAt) {
		return ErrBillingDatesInvalid
	}
	p.Status = domain.BillingInProgress
	return s.periods.Create(ctx, p)
}

func (s *BillingService) GetByID(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*domain.BillingPeriod, error) {
	return s.periods.GetByID(ctx, id, tenantID)
}

func (s *BillingService) List(ctx context.Context, tenantID uuid.UUID) ([]domain.BillingPeriod, error) {
	return s.periods.ListByTenant(ctx, tenantID)
}

// Complete is the business action ending a period. It only applies from
// in_progress; the reconciler treats the result as an already-applied fact
// and never overrides it.
func (s *BillingService) Complete(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) error {
	completed, err := s.periods.Complete(ctx, id, tenantID)
	if err != nil {
		return err
	}
	if completed {
		return nil
	}
	if _, err := s.periods.GetByID(ctx, id, tenantID); err != nil {
		return err
	}
	return ErrBillingAlreadyTerminal
}

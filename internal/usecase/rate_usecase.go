package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/loanledger/internal/domain"
)

// RateUseCase manages the rate catalog. Entries are copied into loans at
// origination, so catalog edits never touch existing loans.
type RateUseCase struct {
	rateRepo RateRepository
}

// NewRateUseCase creates a new RateUseCase.
func NewRateUseCase(rateRepo RateRepository) *RateUseCase {
	return &RateUseCase{rateRepo: rateRepo}
}

// CreateRateInput represents input for adding a catalog entry.
type CreateRateInput struct {
	Principal         decimal.Decimal
	WeeklyInstallment decimal.Decimal
	InstallmentCount  int
}

// CreateRate adds a catalog entry for a principal not yet listed.
func (uc *RateUseCase) CreateRate(ctx context.Context, input CreateRateInput) (*domain.RateEntry, error) {
	now := time.Now().UTC()
	rate := &domain.RateEntry{
		Principal:         input.Principal,
		WeeklyInstallment: input.WeeklyInstallment,
		InstallmentCount:  input.InstallmentCount,
		Active:            true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := rate.Validate(); err != nil {
		return nil, err
	}

	if err := uc.rateRepo.Create(ctx, rate); err != nil {
		return nil, err
	}

	return rate, nil
}

// DeactivateRate disables a catalog entry for new loans. Existing loans keep
// their copied terms.
func (uc *RateUseCase) DeactivateRate(ctx context.Context, principal decimal.Decimal) error {
	rate, err := uc.rateRepo.GetByPrincipal(ctx, principal)
	if err != nil {
		return err
	}

	return uc.rateRepo.SetActive(ctx, rate.Principal, false, time.Now().UTC())
}

// ActivateRate re-enables a catalog entry.
func (uc *RateUseCase) ActivateRate(ctx context.Context, principal decimal.Decimal) error {
	rate, err := uc.rateRepo.GetByPrincipal(ctx, principal)
	if err != nil {
		return err
	}

	return uc.rateRepo.SetActive(ctx, rate.Principal, true, time.Now().UTC())
}

// ListActive lists active entries ordered by principal ascending.
func (uc *RateUseCase) ListActive(ctx context.Context) ([]*domain.RateEntry, error) {
	return uc.rateRepo.ListActive(ctx)
}

// GetRate retrieves a catalog entry by principal.
func (uc *RateUseCase) GetRate(ctx context.Context, principal decimal.Decimal) (*domain.RateEntry, error) {
	return uc.rateRepo.GetByPrincipal(ctx, principal)
}

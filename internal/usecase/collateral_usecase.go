package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/loanledger/internal/domain"
	"github.com/iho/loanledger/internal/infrastructure/metrics"
)

// CollateralUseCase is the collateral registry. It never reads loan data;
// the loan ledger drives pledge/release inside its own transactions, while
// these methods serve the administrative intake flows.
type CollateralUseCase struct {
	txManager      TransactionManager
	collateralRepo CollateralRepository
	loanRepo       LoanRepository
	idGen          IDGenerator
	metrics        *metrics.Metrics
}

// NewCollateralUseCase creates a new CollateralUseCase. metrics is optional.
func NewCollateralUseCase(
	txManager TransactionManager,
	collateralRepo CollateralRepository,
	loanRepo LoanRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *CollateralUseCase {
	return &CollateralUseCase{
		txManager:      txManager,
		collateralRepo: collateralRepo,
		loanRepo:       loanRepo,
		idGen:          idGen,
		metrics:        metrics,
	}
}

// IntakeInput represents input for registering a collateral item.
type IntakeInput struct {
	Description    string
	EstimatedValue decimal.Decimal
}

// Intake registers a new collateral item as available.
func (uc *CollateralUseCase) Intake(ctx context.Context, input IntakeInput) (*domain.Collateral, error) {
	now := time.Now().UTC()
	collateral := &domain.Collateral{
		ID:             uc.idGen.Generate(),
		Description:    input.Description,
		EstimatedValue: input.EstimatedValue,
		Status:         domain.CollateralStatusAvailable,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := collateral.Validate(); err != nil {
		return nil, err
	}

	if err := uc.collateralRepo.Create(ctx, collateral); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.CollateralIntakes.Inc()
	}

	return collateral, nil
}

// Pledge marks an available collateral item as pledged.
func (uc *CollateralUseCase) Pledge(ctx context.Context, id string) (*domain.Collateral, error) {
	return uc.transition(ctx, id, (*domain.Collateral).CanPledge, domain.CollateralStatusPledged)
}

// Release returns a pledged collateral item to available.
func (uc *CollateralUseCase) Release(ctx context.Context, id string) (*domain.Collateral, error) {
	collateral, err := uc.transition(ctx, id, (*domain.Collateral).CanRelease, domain.CollateralStatusAvailable)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.CollateralReleases.Inc()
	}

	return collateral, nil
}

// Retire takes a collateral item permanently out of circulation. Pledged
// items cannot be retired; the error names the loan holding them.
func (uc *CollateralUseCase) Retire(ctx context.Context, id string) (*domain.Collateral, error) {
	collateral, err := uc.transition(ctx, id, (*domain.Collateral).CanRetire, domain.CollateralStatusRetired)
	if err != nil {
		return nil, uc.describeConflict(ctx, id, err)
	}

	if uc.metrics != nil {
		uc.metrics.CollateralRetired.Inc()
	}

	return collateral, nil
}

// GetCollateral retrieves a collateral item by ID.
func (uc *CollateralUseCase) GetCollateral(ctx context.Context, id string) (*domain.Collateral, error) {
	return uc.collateralRepo.GetByID(ctx, id)
}

// ListCollateral lists collateral items with pagination.
func (uc *CollateralUseCase) ListCollateral(ctx context.Context, limit, offset int) ([]*domain.Collateral, error) {
	limit, offset = clampPage(limit, offset)

	return uc.collateralRepo.List(ctx, limit, offset)
}

func (uc *CollateralUseCase) transition(
	ctx context.Context,
	id string,
	check func(*domain.Collateral) error,
	target domain.CollateralStatus,
) (*domain.Collateral, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	collateral, err := uc.collateralRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := check(collateral); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := uc.collateralRepo.UpdateStatus(txCtx, tx, collateral.ID, target, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	collateral.Status = target
	collateral.UpdatedAt = now

	return collateral, nil
}

// describeConflict enriches an in-use conflict with the loan currently
// holding the collateral, when it can be found.
func (uc *CollateralUseCase) describeConflict(ctx context.Context, id string, cause error) error {
	if cause != domain.ErrCollateralInUse || uc.loanRepo == nil {
		return cause
	}

	loan, err := uc.loanRepo.GetActiveByCollateral(ctx, id)
	if err != nil {
		return cause
	}

	return fmt.Errorf("%w: held by loan %s", cause, loan.ID)
}

package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/loanledger/internal/domain"
	"github.com/iho/loanledger/internal/infrastructure/metrics"
)

// LoanUseCase is the loan ledger: it owns the loan's financial state and the
// transaction boundary around every mutation. Per-loan serialization comes
// from the repository's row-level locks; retryable store conflicts are
// re-run through the retrier.
type LoanUseCase struct {
	txManager      TransactionManager
	loanRepo       LoanRepository
	paymentRepo    PaymentRepository
	collateralRepo CollateralRepository
	rateRepo       RateRepository
	clientRepo     ClientRepository
	idGen          IDGenerator
	retrier        Retrier
	cache          Cache
	metrics        *metrics.Metrics
}

// NewLoanUseCase creates a new LoanUseCase. retrier, cache and metrics are
// optional.
func NewLoanUseCase(
	txManager TransactionManager,
	loanRepo LoanRepository,
	paymentRepo PaymentRepository,
	collateralRepo CollateralRepository,
	rateRepo RateRepository,
	clientRepo ClientRepository,
	idGen IDGenerator,
	retrier Retrier,
	cache Cache,
	metrics *metrics.Metrics,
) *LoanUseCase {
	return &LoanUseCase{
		txManager:      txManager,
		loanRepo:       loanRepo,
		paymentRepo:    paymentRepo,
		collateralRepo: collateralRepo,
		rateRepo:       rateRepo,
		clientRepo:     clientRepo,
		idGen:          idGen,
		retrier:        retrier,
		cache:          cache,
		metrics:        metrics,
	}
}

// CreateLoanInput represents input for originating a loan.
type CreateLoanInput struct {
	ClientID     string
	Principal    decimal.Decimal
	CollateralID string
	GuarantorID  *string
}

// LoanSnapshot is the read projection of a loan. Overdue fields are derived
// at read time, never stored.
type LoanSnapshot struct {
	Loan        *domain.Loan
	Payments    []*domain.Payment
	IsOverdue   bool
	DaysOverdue int
}

// CreateLoan originates a loan from an active rate entry and pledges the
// collateral. The loan insert and the pledge commit together or not at all.
func (uc *LoanUseCase) CreateLoan(ctx context.Context, input CreateLoanInput) (*domain.Loan, error) {
	if _, err := uc.clientRepo.GetByID(ctx, input.ClientID); err != nil {
		return nil, err
	}

	if input.GuarantorID != nil {
		if *input.GuarantorID == input.ClientID {
			return nil, domain.ErrSameClient
		}

		if _, err := uc.clientRepo.GetByID(ctx, *input.GuarantorID); err != nil {
			return nil, err
		}
	}

	rate, err := uc.rateRepo.GetByPrincipal(ctx, input.Principal)
	if err != nil {
		return nil, err
	}

	if !rate.Active {
		// Loans only originate against live catalog entries.
		return nil, domain.ErrRateNotFound
	}

	var loan *domain.Loan

	err = uc.withRetry(ctx, func() error {
		loan = nil

		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		collateral, err := uc.collateralRepo.GetByIDForUpdate(txCtx, tx, input.CollateralID)
		if err != nil {
			return err
		}

		if err := collateral.CanPledge(); err != nil {
			return err
		}

		now := time.Now().UTC()
		loan = domain.NewLoan(uc.idGen.Generate(), input.ClientID, input.CollateralID, input.GuarantorID, rate, now)
		loan.CreatedAt = now
		loan.UpdatedAt = now

		if err := uc.loanRepo.Create(txCtx, tx, loan); err != nil {
			return err
		}

		if err := uc.collateralRepo.UpdateStatus(txCtx, tx, collateral.ID, domain.CollateralStatusPledged, now); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.LoansCreated.Inc()
	}

	return loan, nil
}

// ApplyPaymentInput represents input for collecting one installment.
type ApplyPaymentInput struct {
	LoanID      string
	Amount      decimal.Decimal
	PaymentDate time.Time
}

// ApplyPayment records a payment and updates the loan's balance atomically.
// When the balance reaches zero the loan flips to paid and its collateral is
// released in the same transaction.
func (uc *LoanUseCase) ApplyPayment(ctx context.Context, input ApplyPaymentInput) (*domain.Loan, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		uc.countError("apply_payment", "invalid_amount")
		return nil, domain.ErrInvalidAmount
	}

	start := time.Now()

	var loan *domain.Loan

	err := uc.withRetry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		// Lock serializes concurrent payments against the same loan.
		loan, err = uc.loanRepo.GetByIDForUpdate(txCtx, tx, input.LoanID)
		if err != nil {
			return err
		}

		if err := loan.ValidatePayment(input.Amount); err != nil {
			return err
		}

		now := time.Now().UTC()
		payment := &domain.Payment{
			ID:          uc.idGen.Generate(),
			LoanID:      loan.ID,
			Amount:      input.Amount,
			PaymentDate: input.PaymentDate,
			RecordedAt:  now,
		}

		if err := uc.paymentRepo.Create(txCtx, tx, payment); err != nil {
			return err
		}

		loan.ApplyPayment(input.Amount, now)

		if err := loan.CheckInvariants(); err != nil {
			return err
		}

		if err := uc.loanRepo.Update(txCtx, tx, loan); err != nil {
			return err
		}

		if loan.Status == domain.LoanStatusPaid {
			if err := uc.releaseCollateral(txCtx, tx, loan.CollateralID, now); err != nil {
				return err
			}
		}

		return tx.Commit(txCtx)
	})
	if err != nil {
		uc.countError("apply_payment", errorReason(err))
		return nil, err
	}

	uc.invalidateSnapshot(ctx, loan.ID)

	if uc.metrics != nil {
		uc.metrics.PaymentsApplied.Inc()
		amount, _ := input.Amount.Float64()
		uc.metrics.PaymentAmount.Observe(amount)
		uc.metrics.PaymentDuration.Observe(time.Since(start).Seconds())

		if loan.Status == domain.LoanStatusPaid {
			uc.metrics.LoansPaidOff.Inc()
		}
	}

	return loan, nil
}

// ReversePayment deletes a recorded payment and re-derives the loan's totals
// by full recomputation over the surviving payments. If a paid loan reopens,
// its collateral is pledged again in the same transaction.
func (uc *LoanUseCase) ReversePayment(ctx context.Context, loanID, paymentID string) (*domain.Loan, error) {
	var loan *domain.Loan

	err := uc.withRetry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		loan, err = uc.loanRepo.GetByIDForUpdate(txCtx, tx, loanID)
		if err != nil {
			return err
		}

		if loan.Status == domain.LoanStatusCancelled {
			return domain.ErrLoanNotActive
		}

		payment, err := uc.paymentRepo.GetByID(txCtx, tx, paymentID)
		if err != nil {
			return err
		}

		if payment.LoanID != loan.ID {
			return domain.ErrPaymentNotFound
		}

		wasPaid := loan.Status == domain.LoanStatusPaid

		if err := uc.paymentRepo.Delete(txCtx, tx, payment.ID); err != nil {
			return err
		}

		surviving, err := uc.paymentRepo.ListByLoanForUpdate(txCtx, tx, loan.ID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		loan.Recompute(surviving, now)

		if err := loan.CheckInvariants(); err != nil {
			return err
		}

		if wasPaid && loan.Status == domain.LoanStatusActive {
			collateral, err := uc.collateralRepo.GetByIDForUpdate(txCtx, tx, loan.CollateralID)
			if err != nil {
				return err
			}

			if err := collateral.CanPledge(); err != nil {
				return err
			}

			if err := uc.collateralRepo.UpdateStatus(txCtx, tx, collateral.ID, domain.CollateralStatusPledged, now); err != nil {
				return err
			}
		}

		if err := uc.loanRepo.Update(txCtx, tx, loan); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	})
	if err != nil {
		uc.countError("reverse_payment", errorReason(err))
		return nil, err
	}

	uc.invalidateSnapshot(ctx, loan.ID)

	if uc.metrics != nil {
		uc.metrics.PaymentsReversed.Inc()
	}

	return loan, nil
}

// DeleteLoan removes a loan that has no recorded payments. It exists to undo
// data-entry mistakes, never to unwind a partially paid loan.
func (uc *LoanUseCase) DeleteLoan(ctx context.Context, loanID string) error {
	err := uc.withRetry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		loan, err := uc.loanRepo.GetByIDForUpdate(txCtx, tx, loanID)
		if err != nil {
			return err
		}

		count, err := uc.paymentRepo.CountByLoan(txCtx, tx, loan.ID)
		if err != nil {
			return err
		}

		if count > 0 {
			return domain.ErrLoanHasPayments
		}

		if err := uc.loanRepo.Delete(txCtx, tx, loan.ID); err != nil {
			return err
		}

		now := time.Now().UTC()

		// Cancelled loans already released their collateral.
		collateral, err := uc.collateralRepo.GetByIDForUpdate(txCtx, tx, loan.CollateralID)
		if err != nil {
			return err
		}

		if collateral.Status == domain.CollateralStatusPledged {
			if err := uc.collateralRepo.UpdateStatus(txCtx, tx, collateral.ID, domain.CollateralStatusAvailable, now); err != nil {
				return err
			}
		}

		return tx.Commit(txCtx)
	})
	if err != nil {
		uc.countError("delete_loan", errorReason(err))
		return err
	}

	uc.invalidateSnapshot(ctx, loanID)

	if uc.metrics != nil {
		uc.metrics.LoansDeleted.Inc()
	}

	return nil
}

// CancelLoan administratively terminates an active loan and releases its
// collateral regardless of balance. Irreversible.
func (uc *LoanUseCase) CancelLoan(ctx context.Context, loanID string) (*domain.Loan, error) {
	var loan *domain.Loan

	err := uc.withRetry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		loan, err = uc.loanRepo.GetByIDForUpdate(txCtx, tx, loanID)
		if err != nil {
			return err
		}

		if loan.Status != domain.LoanStatusActive {
			return domain.ErrLoanNotActive
		}

		now := time.Now().UTC()
		loan.Status = domain.LoanStatusCancelled
		loan.UpdatedAt = now

		if err := uc.loanRepo.Update(txCtx, tx, loan); err != nil {
			return err
		}

		if err := uc.releaseCollateral(txCtx, tx, loan.CollateralID, now); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	})
	if err != nil {
		uc.countError("cancel_loan", errorReason(err))
		return nil, err
	}

	uc.invalidateSnapshot(ctx, loan.ID)

	if uc.metrics != nil {
		uc.metrics.LoansCancelled.Inc()
	}

	return loan, nil
}

// GetLoan returns the loan snapshot with overdue fields computed at read
// time against the current clock.
func (uc *LoanUseCase) GetLoan(ctx context.Context, loanID string) (*LoanSnapshot, error) {
	loan, payments, err := uc.loadLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	snapshot := &LoanSnapshot{
		Loan:      loan,
		Payments:  payments,
		IsOverdue: domain.IsOverdue(now, loan.DueDate, loan.Status),
	}
	if snapshot.IsOverdue {
		snapshot.DaysOverdue = domain.DaysOverdue(now, loan.DueDate)
	}

	return snapshot, nil
}

// ListPayments lists a loan's payments ordered by recording time.
func (uc *LoanUseCase) ListPayments(ctx context.Context, loanID string) ([]*domain.Payment, error) {
	if _, err := uc.loanRepo.GetByID(ctx, loanID); err != nil {
		return nil, err
	}

	return uc.paymentRepo.ListByLoan(ctx, loanID)
}

// ListByClientInput represents input for listing a client's loans.
type ListByClientInput struct {
	ClientID string
	Limit    int
	Offset   int
}

// ListByClient lists loans for a client.
func (uc *LoanUseCase) ListByClient(ctx context.Context, input ListByClientInput) ([]*domain.Loan, error) {
	limit, offset := clampPage(input.Limit, input.Offset)

	return uc.loanRepo.ListByClient(ctx, input.ClientID, limit, offset)
}

// OverdueLoan pairs a past-due loan with its days overdue.
type OverdueLoan struct {
	Loan        *domain.Loan
	DaysOverdue int
}

// ListOverdue lists active loans whose due date has passed, with days
// overdue derived per row. Read-only.
func (uc *LoanUseCase) ListOverdue(ctx context.Context, limit, offset int) ([]*OverdueLoan, error) {
	limit, offset = clampPage(limit, offset)

	now := time.Now().UTC()

	loans, err := uc.loanRepo.ListOverdue(ctx, now, limit, offset)
	if err != nil {
		return nil, err
	}

	overdue := make([]*OverdueLoan, 0, len(loans))
	for _, loan := range loans {
		overdue = append(overdue, &OverdueLoan{
			Loan:        loan,
			DaysOverdue: domain.DaysOverdue(now, loan.DueDate),
		})
	}

	return overdue, nil
}

// ContractData bundles everything the contract renderer consumes.
type ContractData struct {
	Snapshot   *LoanSnapshot
	Client     *domain.Client
	Guarantor  *domain.Client
	Collateral *domain.Collateral
}

// GetContractData assembles the read-only snapshot a contract document is
// rendered from.
func (uc *LoanUseCase) GetContractData(ctx context.Context, loanID string) (*ContractData, error) {
	snapshot, err := uc.GetLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	client, err := uc.clientRepo.GetByID(ctx, snapshot.Loan.ClientID)
	if err != nil {
		return nil, err
	}

	var guarantor *domain.Client
	if snapshot.Loan.GuarantorID != nil {
		guarantor, err = uc.clientRepo.GetByID(ctx, *snapshot.Loan.GuarantorID)
		if err != nil {
			return nil, err
		}
	}

	collateral, err := uc.collateralRepo.GetByID(ctx, snapshot.Loan.CollateralID)
	if err != nil {
		return nil, err
	}

	return &ContractData{
		Snapshot:   snapshot,
		Client:     client,
		Guarantor:  guarantor,
		Collateral: collateral,
	}, nil
}

func (uc *LoanUseCase) releaseCollateral(ctx context.Context, tx Transaction, collateralID string, now time.Time) error {
	collateral, err := uc.collateralRepo.GetByIDForUpdate(ctx, tx, collateralID)
	if err != nil {
		return err
	}

	if err := collateral.CanRelease(); err != nil {
		return err
	}

	return uc.collateralRepo.UpdateStatus(ctx, tx, collateral.ID, domain.CollateralStatusAvailable, now)
}

func (uc *LoanUseCase) withRetry(ctx context.Context, operation func() error) error {
	if uc.retrier == nil {
		return operation()
	}

	return uc.retrier.Retry(ctx, operation)
}

// cachedLoan is the snapshot cache payload. Overdue fields are recomputed on
// every read, so they are never cached.
type cachedLoan struct {
	Loan     *domain.Loan      `json:"loan"`
	Payments []*domain.Payment `json:"payments"`
}

func (uc *LoanUseCase) loadLoan(ctx context.Context, loanID string) (*domain.Loan, []*domain.Payment, error) {
	if uc.cache != nil {
		if raw, err := uc.cache.Get(ctx, snapshotKey(loanID)); err == nil {
			var cached cachedLoan
			if err := json.Unmarshal(raw, &cached); err == nil && cached.Loan != nil {
				return cached.Loan, cached.Payments, nil
			}
		}
	}

	// The loan row and its payments are read under one transaction, behind
	// the same row lock writers hold, so the pair is always consistent.
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	loan, err := uc.loanRepo.GetByIDForUpdate(txCtx, tx, loanID)
	if err != nil {
		return nil, nil, err
	}

	payments, err := uc.paymentRepo.ListByLoanForUpdate(txCtx, tx, loanID)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, nil, err
	}

	if uc.cache != nil {
		if raw, err := json.Marshal(cachedLoan{Loan: loan, Payments: payments}); err == nil {
			_ = uc.cache.Set(ctx, snapshotKey(loanID), raw, SnapshotCacheTTL)
		}
	}

	return loan, payments, nil
}

func (uc *LoanUseCase) invalidateSnapshot(ctx context.Context, loanID string) {
	if uc.cache != nil {
		_ = uc.cache.Delete(ctx, snapshotKey(loanID))
	}
}

func (uc *LoanUseCase) countError(operation, reason string) {
	if uc.metrics != nil {
		uc.metrics.LoanErrors.WithLabelValues(operation, reason).Inc()
	}
}

func snapshotKey(loanID string) string {
	return "loan:" + loanID
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}

	if limit > 100 {
		limit = 100
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}

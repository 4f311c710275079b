package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/loanledger/internal/domain"
)

// RateRepository defines data access for the rate catalog.
type RateRepository interface {
	Create(ctx context.Context, rate *domain.RateEntry) error
	GetByPrincipal(ctx context.Context, principal decimal.Decimal) (*domain.RateEntry, error)
	ListActive(ctx context.Context) ([]*domain.RateEntry, error)
	SetActive(ctx context.Context, principal decimal.Decimal, active bool, updatedAt time.Time) error
}

// CollateralRepository defines data access for collateral items.
type CollateralRepository interface {
	Create(ctx context.Context, collateral *domain.Collateral) error
	GetByID(ctx context.Context, id string) (*domain.Collateral, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Collateral, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.CollateralStatus, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Collateral, error)
}

// LoanRepository defines data access for loans.
type LoanRepository interface {
	Create(ctx context.Context, tx Transaction, loan *domain.Loan) error
	GetByID(ctx context.Context, id string) (*domain.Loan, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Loan, error)
	Update(ctx context.Context, tx Transaction, loan *domain.Loan) error
	Delete(ctx context.Context, tx Transaction, id string) error
	GetActiveByCollateral(ctx context.Context, collateralID string) (*domain.Loan, error)
	ListByClient(ctx context.Context, clientID string, limit, offset int) ([]*domain.Loan, error)
	ListOverdue(ctx context.Context, asOf time.Time, limit, offset int) ([]*domain.Loan, error)
}

// PaymentRepository defines data access for payments.
type PaymentRepository interface {
	Create(ctx context.Context, tx Transaction, payment *domain.Payment) error
	GetByID(ctx context.Context, tx Transaction, id string) (*domain.Payment, error)
	Delete(ctx context.Context, tx Transaction, id string) error
	CountByLoan(ctx context.Context, tx Transaction, loanID string) (int64, error)
	ListByLoanForUpdate(ctx context.Context, tx Transaction, loanID string) ([]*domain.Payment, error)
	ListByLoan(ctx context.Context, loanID string) ([]*domain.Payment, error)
}

// ClientRepository defines data access for clients.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Client, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation when the store reports a retryable conflict
// (deadlock, serialization failure).
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

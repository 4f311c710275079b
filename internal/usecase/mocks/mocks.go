// Package mocks provides hand-written mocks for the loan ledger interfaces.
// Repository mocks default to an in-memory map and can be overridden per
// method through the exported Func fields.
package mocks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/iho/loanledger/internal/domain"
	"github.com/iho/loanledger/internal/usecase"
)

// ErrCacheMiss is returned by MockCache on a missing key.
var ErrCacheMiss = errors.New("cache miss")

// MockLoanRepository is a mock implementation of LoanRepository.
type MockLoanRepository struct {
	mu    sync.RWMutex
	loans map[string]*domain.Loan

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Loan, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Loan, error)
	UpdateFunc           func(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error
	DeleteFunc           func(ctx context.Context, tx usecase.Transaction, id string) error
}

func NewMockLoanRepository() *MockLoanRepository {
	return &MockLoanRepository{loans: make(map[string]*domain.Loan)}
}

// Seed stores a loan directly, bypassing any Func override.
func (m *MockLoanRepository) Seed(loan *domain.Loan) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loans[loan.ID] = cloneLoan(loan)
}

// Stored returns the stored state of a loan, or nil.
func (m *MockLoanRepository) Stored(id string) *domain.Loan {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if loan, ok := m.loans[id]; ok {
		return cloneLoan(loan)
	}
	return nil
}

func (m *MockLoanRepository) Create(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, loan)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loans[loan.ID] = cloneLoan(loan)
	return nil
}

func (m *MockLoanRepository) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if loan, ok := m.loans[id]; ok {
		return cloneLoan(loan), nil
	}
	return nil, domain.ErrLoanNotFound
}

func (m *MockLoanRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Loan, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockLoanRepository) Update(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, loan)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.loans[loan.ID]; !ok {
		return domain.ErrLoanNotFound
	}
	m.loans[loan.ID] = cloneLoan(loan)
	return nil
}

func (m *MockLoanRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.loans[id]; !ok {
		return domain.ErrLoanNotFound
	}
	delete(m.loans, id)
	return nil
}

func (m *MockLoanRepository) GetActiveByCollateral(ctx context.Context, collateralID string) (*domain.Loan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, loan := range m.loans {
		if loan.CollateralID == collateralID && loan.Status == domain.LoanStatusActive {
			return cloneLoan(loan), nil
		}
	}
	return nil, domain.ErrLoanNotFound
}

func (m *MockLoanRepository) ListByClient(ctx context.Context, clientID string, limit, offset int) ([]*domain.Loan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var loans []*domain.Loan
	for _, loan := range m.loans {
		if loan.ClientID == clientID {
			loans = append(loans, cloneLoan(loan))
		}
	}
	return loans, nil
}

func (m *MockLoanRepository) ListOverdue(ctx context.Context, asOf time.Time, limit, offset int) ([]*domain.Loan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var loans []*domain.Loan
	for _, loan := range m.loans {
		if domain.IsOverdue(asOf, loan.DueDate, loan.Status) {
			loans = append(loans, cloneLoan(loan))
		}
	}
	return loans, nil
}

func cloneLoan(loan *domain.Loan) *domain.Loan {
	c := *loan
	if loan.GuarantorID != nil {
		id := *loan.GuarantorID
		c.GuarantorID = &id
	}
	if loan.CompletedAt != nil {
		at := *loan.CompletedAt
		c.CompletedAt = &at
	}
	return &c
}

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment

	CreateFunc func(ctx context.Context, tx usecase.Transaction, payment *domain.Payment) error
	DeleteFunc func(ctx context.Context, tx usecase.Transaction, id string) error
}

func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{payments: make(map[string]*domain.Payment)}
}

// Seed stores a payment directly.
func (m *MockPaymentRepository) Seed(payment *domain.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.ID] = payment
}

func (m *MockPaymentRepository) Create(ctx context.Context, tx usecase.Transaction, payment *domain.Payment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, payment)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.ID] = payment
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, tx usecase.Transaction, id string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if payment, ok := m.payments[id]; ok {
		return payment, nil
	}
	return nil, domain.ErrPaymentNotFound
}

func (m *MockPaymentRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.payments[id]; !ok {
		return domain.ErrPaymentNotFound
	}
	delete(m.payments, id)
	return nil
}

func (m *MockPaymentRepository) CountByLoan(ctx context.Context, tx usecase.Transaction, loanID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var count int64
	for _, payment := range m.payments {
		if payment.LoanID == loanID {
			count++
		}
	}
	return count, nil
}

func (m *MockPaymentRepository) ListByLoanForUpdate(ctx context.Context, tx usecase.Transaction, loanID string) ([]*domain.Payment, error) {
	return m.ListByLoan(ctx, loanID)
}

func (m *MockPaymentRepository) ListByLoan(ctx context.Context, loanID string) ([]*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var payments []*domain.Payment
	for _, payment := range m.payments {
		if payment.LoanID == loanID {
			payments = append(payments, payment)
		}
	}
	return payments, nil
}

// MockCollateralRepository is a mock implementation of CollateralRepository.
type MockCollateralRepository struct {
	mu          sync.RWMutex
	collaterals map[string]*domain.Collateral

	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Collateral, error)
	UpdateStatusFunc     func(ctx context.Context, tx usecase.Transaction, id string, status domain.CollateralStatus, updatedAt time.Time) error
}

func NewMockCollateralRepository() *MockCollateralRepository {
	return &MockCollateralRepository{collaterals: make(map[string]*domain.Collateral)}
}

// Seed stores a collateral item directly.
func (m *MockCollateralRepository) Seed(collateral *domain.Collateral) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *collateral
	m.collaterals[collateral.ID] = &c
}

// Stored returns the stored state of a collateral item, or nil.
func (m *MockCollateralRepository) Stored(id string) *domain.Collateral {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if collateral, ok := m.collaterals[id]; ok {
		c := *collateral
		return &c
	}
	return nil
}

func (m *MockCollateralRepository) Create(ctx context.Context, collateral *domain.Collateral) error {
	m.Seed(collateral)
	return nil
}

func (m *MockCollateralRepository) GetByID(ctx context.Context, id string) (*domain.Collateral, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if collateral, ok := m.collaterals[id]; ok {
		c := *collateral
		return &c, nil
	}
	return nil, domain.ErrCollateralNotFound
}

func (m *MockCollateralRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Collateral, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockCollateralRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.CollateralStatus, updatedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, status, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	collateral, ok := m.collaterals[id]
	if !ok {
		return domain.ErrCollateralNotFound
	}
	collateral.Status = status
	collateral.UpdatedAt = updatedAt
	return nil
}

func (m *MockCollateralRepository) List(ctx context.Context, limit, offset int) ([]*domain.Collateral, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var collaterals []*domain.Collateral
	for _, collateral := range m.collaterals {
		c := *collateral
		collaterals = append(collaterals, &c)
	}
	return collaterals, nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
// With Serialize set, at most one transaction is in flight at a time,
// emulating the store's per-row locking for concurrency tests.
type MockTransactionManager struct {
	Serialize bool
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)

	txMu sync.Mutex
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	tx := &MockTransaction{}
	if m.Serialize {
		m.txMu.Lock()
		tx.release = m.txMu.Unlock
	}
	return tx, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	Committed  bool
	RolledBack bool

	once    sync.Once
	release func()
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	t.Committed = true
	t.done()
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if !t.Committed {
		t.RolledBack = true
	}
	t.done()
	return nil
}

func (t *MockTransaction) done() {
	t.once.Do(func() {
		if t.release != nil {
			t.release()
		}
	})
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("id-%d", m.counter)
}

// MockRetrier is a pass-through Retrier that counts attempts.
type MockRetrier struct {
	mu       sync.Mutex
	Attempts int
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	m.mu.Lock()
	m.Attempts++
	m.mu.Unlock()
	return operation()
}

// MockCache is an in-memory Cache.
type MockCache struct {
	mu     sync.RWMutex
	values map[string][]byte

	Gets    int
	Sets    int
	Deletes int
}

func NewMockCache() *MockCache {
	return &MockCache{values: make(map[string][]byte)}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gets++
	if value, ok := m.values[key]; ok {
		return value, nil
	}
	return nil, ErrCacheMiss
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sets++
	m.values[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deletes++
	delete(m.values, key)
	return nil
}

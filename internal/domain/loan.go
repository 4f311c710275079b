package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type LoanStatus string

// Persisted loan statuses. Overdue is a read-time view over active loans
// (see overdue.go), never a stored status.
const (
	LoanStatusActive    LoanStatus = "active"
	LoanStatusPaid      LoanStatus = "paid"
	LoanStatusCancelled LoanStatus = "cancelled"
)

// Loan is a fixed weekly installment loan secured by one collateral item.
// Terms are copied from the rate catalog at creation and never re-read.
type Loan struct {
	ID                string
	ClientID          string
	CollateralID      string
	GuarantorID       *string
	Principal         decimal.Decimal
	WeeklyInstallment decimal.Decimal
	InstallmentCount  int
	TotalAmount       decimal.Decimal
	PaidAmount        decimal.Decimal
	Balance           decimal.Decimal
	Status            LoanStatus
	IssueDate         time.Time
	DueDate           time.Time
	CompletedAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewLoan originates a loan from catalog terms. The due date is the issue
// date plus one week per installment.
func NewLoan(id, clientID, collateralID string, guarantorID *string, rate *RateEntry, issueDate time.Time) *Loan {
	total := rate.TotalAmount()

	return &Loan{
		ID:                id,
		ClientID:          clientID,
		CollateralID:      collateralID,
		GuarantorID:       guarantorID,
		Principal:         rate.Principal,
		WeeklyInstallment: rate.WeeklyInstallment,
		InstallmentCount:  rate.InstallmentCount,
		TotalAmount:       total,
		PaidAmount:        decimal.Zero,
		Balance:           total,
		Status:            LoanStatusActive,
		IssueDate:         issueDate,
		DueDate:           issueDate.AddDate(0, 0, 7*rate.InstallmentCount),
	}
}

// ValidatePayment checks whether amount can be applied to the loan.
func (l *Loan) ValidatePayment(amount decimal.Decimal) error {
	if l.Status != LoanStatusActive {
		return ErrLoanNotActive
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if amount.GreaterThan(l.Balance) {
		return fmt.Errorf("%w: remaining balance is %s", ErrAmountExceedsBalance, l.Balance)
	}

	return nil
}

// ApplyPayment credits amount against the balance and flips the loan to paid
// when the balance reaches zero. Callers must have validated the amount and
// must persist the result atomically with the payment row.
func (l *Loan) ApplyPayment(amount decimal.Decimal, now time.Time) {
	l.PaidAmount = l.PaidAmount.Add(amount)
	l.Balance = nonNegative(l.TotalAmount.Sub(l.PaidAmount))
	l.UpdatedAt = now

	if l.Balance.IsZero() {
		l.Status = LoanStatusPaid
		l.CompletedAt = &now
	}
}

// Recompute re-derives paid amount and balance from the full surviving
// payment set. Used by the administrative payment reversal path, which must
// never apply an inverse delta.
func (l *Loan) Recompute(payments []*Payment, now time.Time) {
	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}

	l.PaidAmount = paid
	l.Balance = nonNegative(l.TotalAmount.Sub(paid))
	l.UpdatedAt = now

	if l.Balance.IsPositive() && l.Status == LoanStatusPaid {
		l.Status = LoanStatusActive
		l.CompletedAt = nil
	}
}

// CheckInvariants verifies the balance-consistency rules. A failure means a
// bug in the ledger, not a caller error.
func (l *Loan) CheckInvariants() error {
	expectedTotal := l.WeeklyInstallment.Mul(decimal.NewFromInt(int64(l.InstallmentCount)))
	if !l.TotalAmount.Equal(expectedTotal) {
		return fmt.Errorf("%w: total %s != installment * count %s", ErrIntegrityViolation, l.TotalAmount, expectedTotal)
	}

	if !l.Balance.Equal(nonNegative(l.TotalAmount.Sub(l.PaidAmount))) {
		return fmt.Errorf("%w: balance %s inconsistent with paid %s of %s", ErrIntegrityViolation, l.Balance, l.PaidAmount, l.TotalAmount)
	}

	if l.Balance.IsZero() != (l.Status == LoanStatusPaid) && l.Status != LoanStatusCancelled {
		return fmt.Errorf("%w: status %s inconsistent with balance %s", ErrIntegrityViolation, l.Status, l.Balance)
	}

	if l.Status == LoanStatusPaid && l.CompletedAt == nil {
		return fmt.Errorf("%w: paid loan missing completion time", ErrIntegrityViolation)
	}

	return nil
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}

	return d
}

package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func testRate() *RateEntry {
	return &RateEntry{
		Principal:         decimal.NewFromInt(500),
		WeeklyInstallment: decimal.NewFromInt(105),
		InstallmentCount:  6,
		Active:            true,
	}
}

func TestNewLoan(t *testing.T) {
	issueDate := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	loan := NewLoan("loan-1", "client-1", "col-1", nil, testRate(), issueDate)

	if !loan.TotalAmount.Equal(decimal.NewFromInt(630)) {
		t.Errorf("expected total 630, got %s", loan.TotalAmount)
	}

	if !loan.Balance.Equal(decimal.NewFromInt(630)) {
		t.Errorf("expected balance 630, got %s", loan.Balance)
	}

	if !loan.PaidAmount.IsZero() {
		t.Errorf("expected zero paid amount, got %s", loan.PaidAmount)
	}

	if loan.Status != LoanStatusActive {
		t.Errorf("expected active status, got %s", loan.Status)
	}

	wantDue := issueDate.AddDate(0, 0, 42)
	if !loan.DueDate.Equal(wantDue) {
		t.Errorf("expected due date %s, got %s", wantDue, loan.DueDate)
	}

	if err := loan.CheckInvariants(); err != nil {
		t.Errorf("invariants violated on fresh loan: %v", err)
	}
}

func TestLoan_ValidatePayment(t *testing.T) {
	tests := []struct {
		name      string
		status    LoanStatus
		balance   decimal.Decimal
		amount    decimal.Decimal
		errorType error
	}{
		{
			name:    "valid partial payment",
			status:  LoanStatusActive,
			balance: decimal.NewFromInt(630),
			amount:  decimal.NewFromInt(105),
		},
		{
			name:    "valid exact payoff",
			status:  LoanStatusActive,
			balance: decimal.NewFromInt(105),
			amount:  decimal.NewFromInt(105),
		},
		{
			name:      "reject payment on paid loan",
			status:    LoanStatusPaid,
			balance:   decimal.Zero,
			amount:    decimal.NewFromInt(10),
			errorType: ErrLoanNotActive,
		},
		{
			name:      "reject payment on cancelled loan",
			status:    LoanStatusCancelled,
			balance:   decimal.NewFromInt(300),
			amount:    decimal.NewFromInt(10),
			errorType: ErrLoanNotActive,
		},
		{
			name:      "reject zero amount",
			status:    LoanStatusActive,
			balance:   decimal.NewFromInt(630),
			amount:    decimal.Zero,
			errorType: ErrInvalidAmount,
		},
		{
			name:      "reject negative amount",
			status:    LoanStatusActive,
			balance:   decimal.NewFromInt(630),
			amount:    decimal.NewFromInt(-5),
			errorType: ErrInvalidAmount,
		},
		{
			name:      "reject overpayment by a cent",
			status:    LoanStatusActive,
			balance:   decimal.NewFromInt(50),
			amount:    decimal.RequireFromString("50.01"),
			errorType: ErrAmountExceedsBalance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loan := &Loan{Status: tt.status, Balance: tt.balance}

			err := loan.ValidatePayment(tt.amount)

			if tt.errorType == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}

			if !errors.Is(err, tt.errorType) {
				t.Errorf("expected error %v, got %v", tt.errorType, err)
			}
		})
	}
}

func TestLoan_ApplyPayment(t *testing.T) {
	issueDate := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	now := issueDate.AddDate(0, 0, 7)
	loan := NewLoan("loan-1", "client-1", "col-1", nil, testRate(), issueDate)

	loan.ApplyPayment(decimal.NewFromInt(105), now)

	if !loan.PaidAmount.Equal(decimal.NewFromInt(105)) {
		t.Errorf("expected paid 105, got %s", loan.PaidAmount)
	}

	if !loan.Balance.Equal(decimal.NewFromInt(525)) {
		t.Errorf("expected balance 525, got %s", loan.Balance)
	}

	if loan.Status != LoanStatusActive {
		t.Errorf("expected active status, got %s", loan.Status)
	}

	if err := loan.CheckInvariants(); err != nil {
		t.Errorf("invariants violated: %v", err)
	}
}

func TestLoan_ApplyPayment_Payoff(t *testing.T) {
	issueDate := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	loan := NewLoan("loan-1", "client-1", "col-1", nil, testRate(), issueDate)

	payoffTime := issueDate.AddDate(0, 0, 14)
	loan.ApplyPayment(decimal.NewFromInt(525), issueDate.AddDate(0, 0, 7))
	loan.ApplyPayment(decimal.NewFromInt(105), payoffTime)

	if !loan.Balance.IsZero() {
		t.Errorf("expected zero balance, got %s", loan.Balance)
	}

	if loan.Status != LoanStatusPaid {
		t.Errorf("expected paid status, got %s", loan.Status)
	}

	if loan.CompletedAt == nil {
		t.Fatal("expected completion time to be set")
	}

	if !loan.CompletedAt.Equal(payoffTime) {
		t.Errorf("expected completion at %s, got %s", payoffTime, loan.CompletedAt)
	}

	if err := loan.CheckInvariants(); err != nil {
		t.Errorf("invariants violated: %v", err)
	}
}

func TestLoan_Recompute(t *testing.T) {
	issueDate := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	now := issueDate.AddDate(0, 0, 42)
	loan := NewLoan("loan-1", "client-1", "col-1", nil, testRate(), issueDate)

	// Pay off, then reverse the last installment.
	loan.ApplyPayment(decimal.NewFromInt(630), now)
	if loan.Status != LoanStatusPaid {
		t.Fatalf("expected paid status, got %s", loan.Status)
	}

	surviving := []*Payment{
		{ID: "p1", LoanID: "loan-1", Amount: decimal.NewFromInt(525)},
	}

	loan.Recompute(surviving, now)

	if !loan.PaidAmount.Equal(decimal.NewFromInt(525)) {
		t.Errorf("expected paid 525, got %s", loan.PaidAmount)
	}

	if !loan.Balance.Equal(decimal.NewFromInt(105)) {
		t.Errorf("expected balance 105, got %s", loan.Balance)
	}

	if loan.Status != LoanStatusActive {
		t.Errorf("expected loan to reopen as active, got %s", loan.Status)
	}

	if loan.CompletedAt != nil {
		t.Error("expected completion time to be cleared")
	}

	if err := loan.CheckInvariants(); err != nil {
		t.Errorf("invariants violated: %v", err)
	}
}

func TestLoan_CheckInvariants_Violations(t *testing.T) {
	issueDate := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("tampered total amount", func(t *testing.T) {
		loan := NewLoan("loan-1", "client-1", "col-1", nil, testRate(), issueDate)
		loan.TotalAmount = decimal.NewFromInt(999)

		if err := loan.CheckInvariants(); !errors.Is(err, ErrIntegrityViolation) {
			t.Errorf("expected integrity violation, got %v", err)
		}
	})

	t.Run("stale balance", func(t *testing.T) {
		loan := NewLoan("loan-1", "client-1", "col-1", nil, testRate(), issueDate)
		loan.PaidAmount = decimal.NewFromInt(105)

		if err := loan.CheckInvariants(); !errors.Is(err, ErrIntegrityViolation) {
			t.Errorf("expected integrity violation, got %v", err)
		}
	})

	t.Run("paid status with open balance", func(t *testing.T) {
		loan := NewLoan("loan-1", "client-1", "col-1", nil, testRate(), issueDate)
		loan.Status = LoanStatusPaid

		if err := loan.CheckInvariants(); !errors.Is(err, ErrIntegrityViolation) {
			t.Errorf("expected integrity violation, got %v", err)
		}
	})
}

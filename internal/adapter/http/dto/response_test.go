package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/loanledger/internal/domain"
	"github.com/iho/loanledger/internal/usecase"
)

func TestLoanFromDomain(t *testing.T) {
	guarantor := "client-2"
	completedAt := time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)

	loan := &domain.Loan{
		ID:                "loan-1",
		ClientID:          "client-1",
		CollateralID:      "col-1",
		GuarantorID:       &guarantor,
		Principal:         decimal.NewFromInt(500),
		WeeklyInstallment: decimal.NewFromInt(105),
		InstallmentCount:  6,
		TotalAmount:       decimal.NewFromInt(630),
		PaidAmount:        decimal.NewFromInt(630),
		Balance:           decimal.Zero,
		Status:            domain.LoanStatusPaid,
		IssueDate:         time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		DueDate:           time.Date(2024, 4, 12, 0, 0, 0, 0, time.UTC),
		CompletedAt:       &completedAt,
	}

	got := LoanFromDomain(loan)

	if got.ID != "loan-1" || got.Status != "paid" {
		t.Fatalf("LoanFromDomain() = %+v", got)
	}
	if got.GuarantorID == nil || *got.GuarantorID != "client-2" {
		t.Fatalf("expected guarantor client-2, got %v", got.GuarantorID)
	}
	if !got.TotalAmount.Equal(decimal.NewFromInt(630)) || !got.Balance.IsZero() {
		t.Fatalf("unexpected amounts: total=%s balance=%s", got.TotalAmount, got.Balance)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(completedAt) {
		t.Fatalf("expected completed at %v, got %v", completedAt, got.CompletedAt)
	}
}

func TestRateFromDomain_ComputesTotal(t *testing.T) {
	rate := &domain.RateEntry{
		Principal:         decimal.NewFromInt(500),
		WeeklyInstallment: decimal.NewFromInt(105),
		InstallmentCount:  6,
		Active:            true,
	}

	got := RateFromDomain(rate)

	if !got.TotalAmount.Equal(decimal.NewFromInt(630)) {
		t.Fatalf("expected total 630, got %s", got.TotalAmount)
	}
}

func TestSnapshotFromUseCase(t *testing.T) {
	snapshot := &usecase.LoanSnapshot{
		Loan: &domain.Loan{ID: "loan-1", Status: domain.LoanStatusActive},
		Payments: []*domain.Payment{
			{ID: "pay-1", LoanID: "loan-1", Amount: decimal.NewFromInt(105)},
		},
		IsOverdue:   true,
		DaysOverdue: 4,
	}

	got := SnapshotFromUseCase(snapshot)

	if got.Loan.ID != "loan-1" {
		t.Fatalf("expected loan loan-1, got %s", got.Loan.ID)
	}
	if len(got.Payments) != 1 || got.Payments[0].ID != "pay-1" {
		t.Fatalf("unexpected payments: %+v", got.Payments)
	}
	if !got.IsOverdue || got.DaysOverdue != 4 {
		t.Fatalf("expected overdue state to carry through, got %+v", got)
	}
}

func TestOverdueFromUseCase(t *testing.T) {
	overdue := []*usecase.OverdueLoan{
		{Loan: &domain.Loan{ID: "loan-late"}, DaysOverdue: 9},
		{Loan: &domain.Loan{ID: "loan-later"}, DaysOverdue: 30},
	}

	got := OverdueFromUseCase(overdue)

	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].Loan.ID != "loan-late" || got[0].DaysOverdue != 9 {
		t.Fatalf("unexpected first row: %+v", got[0])
	}
}

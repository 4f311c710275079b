package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/loanledger/internal/domain"
	"github.com/iho/loanledger/internal/usecase"
	"github.com/iho/loanledger/internal/usecase/mocks"
)

func newCollateralUseCase() (*usecase.CollateralUseCase, *mocks.MockCollateralRepository, *mocks.MockLoanRepository) {
	collateralRepo := mocks.NewMockCollateralRepository()
	loanRepo := mocks.NewMockLoanRepository()

	uc := usecase.NewCollateralUseCase(
		mocks.NewMockTransactionManager(),
		collateralRepo,
		loanRepo,
		mocks.NewMockIDGenerator(),
		nil,
	)

	return uc, collateralRepo, loanRepo
}

func TestCollateralUseCase_Intake(t *testing.T) {
	t.Run("valid item registered as available", func(t *testing.T) {
		uc, repo, _ := newCollateralUseCase()

		collateral, err := uc.Intake(context.Background(), usecase.IntakeInput{
			Description:    "gold ring",
			EstimatedValue: decimal.NewFromInt(800),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if collateral.Status != domain.CollateralStatusAvailable {
			t.Errorf("expected available, got %s", collateral.Status)
		}

		if repo.Stored(collateral.ID) == nil {
			t.Error("expected item persisted")
		}
	})

	t.Run("non-positive value rejected", func(t *testing.T) {
		uc, _, _ := newCollateralUseCase()

		_, err := uc.Intake(context.Background(), usecase.IntakeInput{
			Description:    "worthless",
			EstimatedValue: decimal.Zero,
		})
		if !errors.Is(err, domain.ErrInvalidAmount) {
			t.Errorf("expected invalid amount, got %v", err)
		}
	})
}

func TestCollateralUseCase_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.CollateralStatus
		op      func(uc *usecase.CollateralUseCase, ctx context.Context, id string) (*domain.Collateral, error)
		want    domain.CollateralStatus
		wantErr error
	}{
		{
			name: "pledge available",
			from: domain.CollateralStatusAvailable,
			op:   (*usecase.CollateralUseCase).Pledge,
			want: domain.CollateralStatusPledged,
		},
		{
			name:    "pledge pledged",
			from:    domain.CollateralStatusPledged,
			op:      (*usecase.CollateralUseCase).Pledge,
			wantErr: domain.ErrCollateralPledged,
		},
		{
			name:    "pledge retired",
			from:    domain.CollateralStatusRetired,
			op:      (*usecase.CollateralUseCase).Pledge,
			wantErr: domain.ErrCollateralRetired,
		},
		{
			name: "release pledged",
			from: domain.CollateralStatusPledged,
			op:   (*usecase.CollateralUseCase).Release,
			want: domain.CollateralStatusAvailable,
		},
		{
			name:    "release available",
			from:    domain.CollateralStatusAvailable,
			op:      (*usecase.CollateralUseCase).Release,
			wantErr: domain.ErrCollateralNotPledged,
		},
		{
			name: "retire available",
			from: domain.CollateralStatusAvailable,
			op:   (*usecase.CollateralUseCase).Retire,
			want: domain.CollateralStatusRetired,
		},
		{
			name:    "retire pledged",
			from:    domain.CollateralStatusPledged,
			op:      (*usecase.CollateralUseCase).Retire,
			wantErr: domain.ErrCollateralInUse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, repo, _ := newCollateralUseCase()
			repo.Seed(&domain.Collateral{
				ID:             "col-1",
				Description:    "motorbike",
				EstimatedValue: decimal.NewFromInt(1200),
				Status:         tt.from,
			})

			collateral, err := tt.op(uc, context.Background(), "col-1")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}

				if got := repo.Stored("col-1"); got.Status != tt.from {
					t.Errorf("expected status unchanged (%s), got %s", tt.from, got.Status)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if collateral.Status != tt.want {
				t.Errorf("expected %s, got %s", tt.want, collateral.Status)
			}

			if got := repo.Stored("col-1"); got.Status != tt.want {
				t.Errorf("expected persisted status %s, got %s", tt.want, got.Status)
			}
		})
	}
}

func TestCollateralUseCase_Retire_NamesHoldingLoan(t *testing.T) {
	uc, repo, loanRepo := newCollateralUseCase()
	repo.Seed(&domain.Collateral{
		ID:             "col-1",
		Description:    "motorbike",
		EstimatedValue: decimal.NewFromInt(1200),
		Status:         domain.CollateralStatusPledged,
	})
	loanRepo.Seed(&domain.Loan{
		ID:           "loan-77",
		ClientID:     "client-1",
		CollateralID: "col-1",
		Status:       domain.LoanStatusActive,
		IssueDate:    time.Now().UTC(),
		DueDate:      time.Now().UTC().AddDate(0, 0, 42),
	})

	_, err := uc.Retire(context.Background(), "col-1")
	if !errors.Is(err, domain.ErrCollateralInUse) {
		t.Fatalf("expected in-use conflict, got %v", err)
	}

	if !strings.Contains(err.Error(), "loan-77") {
		t.Errorf("expected error to name the holding loan, got %q", err)
	}
}

func TestCollateralUseCase_GetCollateral_NotFound(t *testing.T) {
	uc, _, _ := newCollateralUseCase()

	_, err := uc.GetCollateral(context.Background(), "missing")
	if !errors.Is(err, domain.ErrCollateralNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

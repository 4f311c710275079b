package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RateEntry maps a principal amount to its fixed weekly installment terms.
// Loans copy these values at creation, so editing the catalog never changes
// an existing loan.
type RateEntry struct {
	Principal         decimal.Decimal
	WeeklyInstallment decimal.Decimal
	InstallmentCount  int
	Active            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Validate checks the catalog invariants.
func (r *RateEntry) Validate() error {
	if r.Principal.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: principal must be positive", ErrInvalidRate)
	}

	if r.WeeklyInstallment.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: weekly installment must be positive", ErrInvalidRate)
	}

	if r.InstallmentCount <= 0 {
		return fmt.Errorf("%w: installment count must be positive", ErrInvalidRate)
	}

	return nil
}

// TotalAmount returns the full repayable amount for these terms.
func (r *RateEntry) TotalAmount() decimal.Decimal {
	return r.WeeklyInstallment.Mul(decimal.NewFromInt(int64(r.InstallmentCount)))
}

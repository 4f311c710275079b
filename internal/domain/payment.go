package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is one collected installment. Append-only; immutable once recorded
// except for the administrative reversal path in the ledger.
type Payment struct {
	ID          string
	LoanID      string
	Amount      decimal.Decimal
	PaymentDate time.Time
	RecordedAt  time.Time
}

// Validate checks recording invariants.
func (p *Payment) Validate() error {
	if p.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	return nil
}

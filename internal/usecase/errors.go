package usecase

import (
	"errors"

	"github.com/iho/loanledger/internal/domain"
)

// errorReason maps domain errors to low-cardinality metric labels.
func errorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrLoanNotFound):
		return "loan_not_found"
	case errors.Is(err, domain.ErrLoanNotActive):
		return "loan_not_active"
	case errors.Is(err, domain.ErrLoanHasPayments):
		return "loan_has_payments"
	case errors.Is(err, domain.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, domain.ErrAmountExceedsBalance):
		return "amount_exceeds_balance"
	case errors.Is(err, domain.ErrPaymentNotFound):
		return "payment_not_found"
	case errors.Is(err, domain.ErrCollateralPledged),
		errors.Is(err, domain.ErrCollateralNotPledged),
		errors.Is(err, domain.ErrCollateralRetired),
		errors.Is(err, domain.ErrCollateralNotFound):
		return "collateral_conflict"
	case errors.Is(err, domain.ErrIntegrityViolation):
		return "integrity_violation"
	default:
		return "internal"
	}
}

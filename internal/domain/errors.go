package domain

import "errors"

var (
	// Rate catalog errors
	ErrRateNotFound      = errors.New("rate entry not found")
	ErrRateNotActive     = errors.New("rate entry is not active")
	ErrRateAlreadyExists = errors.New("rate entry already exists for principal")
	ErrInvalidRate       = errors.New("invalid rate entry")

	// Collateral errors
	ErrCollateralNotFound   = errors.New("collateral not found")
	ErrCollateralPledged    = errors.New("collateral is already pledged")
	ErrCollateralNotPledged = errors.New("collateral is not pledged")
	ErrCollateralInUse      = errors.New("collateral is in use by a loan")
	ErrCollateralRetired    = errors.New("collateral is retired")

	// Loan errors
	ErrLoanNotFound         = errors.New("loan not found")
	ErrLoanNotActive        = errors.New("loan is not active")
	ErrLoanHasPayments      = errors.New("loan has recorded payments")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrAmountExceedsBalance = errors.New("amount exceeds remaining balance")

	// Payment errors
	ErrPaymentNotFound = errors.New("payment not found")

	// Client errors
	ErrClientNotFound = errors.New("client not found")
	ErrInvalidClient  = errors.New("invalid client")
	ErrSameClient     = errors.New("guarantor cannot be the borrower")

	// ErrIntegrityViolation marks a storage-level constraint rejection.
	// Reaching it indicates a bug in the ledger, not a caller error.
	ErrIntegrityViolation = errors.New("ledger integrity violation")
)

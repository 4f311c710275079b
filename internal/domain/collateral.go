package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type CollateralStatus string

const (
	CollateralStatusAvailable CollateralStatus = "available"
	CollateralStatusPledged   CollateralStatus = "pledged"
	CollateralStatusRetired   CollateralStatus = "retired"
)

// Collateral is a pledged item of value securing a loan. A collateral item
// backs at most one active loan at a time; the loan ledger enforces that by
// driving Pledge/Release transitions inside its own transactions.
type Collateral struct {
	ID             string
	Description    string
	EstimatedValue decimal.Decimal
	Status         CollateralStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate checks intake parameters.
func (c *Collateral) Validate() error {
	if c.EstimatedValue.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: estimated value must be positive", ErrInvalidAmount)
	}

	return nil
}

// CanPledge reports whether the collateral can secure a new loan.
func (c *Collateral) CanPledge() error {
	switch c.Status {
	case CollateralStatusAvailable:
		return nil
	case CollateralStatusPledged:
		return ErrCollateralPledged
	default:
		return ErrCollateralRetired
	}
}

// CanRelease reports whether the collateral can return to available.
func (c *Collateral) CanRelease() error {
	if c.Status != CollateralStatusPledged {
		return ErrCollateralNotPledged
	}

	return nil
}

// CanRetire reports whether the collateral can be taken out of circulation.
func (c *Collateral) CanRetire() error {
	if c.Status == CollateralStatusPledged {
		return ErrCollateralInUse
	}

	return nil
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/loanledger/internal/usecase"
)

// CreateClientRequest represents a request to register a client.
type CreateClientRequest struct {
	Name     string `json:"name"`
	Document string `json:"document"`
	Phone    string `json:"phone,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateClientRequest) ToUseCaseInput() usecase.CreateClientInput {
	return usecase.CreateClientInput{
		Name:     r.Name,
		Document: r.Document,
		Phone:    r.Phone,
	}
}

// CreateRateRequest represents a request to add a rate catalog entry.
type CreateRateRequest struct {
	Principal         decimal.Decimal `json:"principal"`
	WeeklyInstallment decimal.Decimal `json:"weekly_installment"`
	InstallmentCount  int             `json:"installment_count"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateRateRequest) ToUseCaseInput() usecase.CreateRateInput {
	return usecase.CreateRateInput{
		Principal:         r.Principal,
		WeeklyInstallment: r.WeeklyInstallment,
		InstallmentCount:  r.InstallmentCount,
	}
}

// CreateCollateralRequest represents a request to register a collateral item.
type CreateCollateralRequest struct {
	Description    string          `json:"description"`
	EstimatedValue decimal.Decimal `json:"estimated_value"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCollateralRequest) ToUseCaseInput() usecase.IntakeInput {
	return usecase.IntakeInput{
		Description:    r.Description,
		EstimatedValue: r.EstimatedValue,
	}
}

// CreateLoanRequest represents a request to originate a loan.
type CreateLoanRequest struct {
	ClientID     string          `json:"client_id"`
	Principal    decimal.Decimal `json:"principal"`
	CollateralID string          `json:"collateral_id"`
	GuarantorID  *string         `json:"guarantor_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateLoanRequest) ToUseCaseInput() usecase.CreateLoanInput {
	return usecase.CreateLoanInput{
		ClientID:     r.ClientID,
		Principal:    r.Principal,
		CollateralID: r.CollateralID,
		GuarantorID:  r.GuarantorID,
	}
}

// ApplyPaymentRequest represents a request to record a loan payment.
type ApplyPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate *time.Time      `json:"payment_date,omitempty"`
}

// ToUseCaseInput converts to use case input. A missing payment date defaults
// to now.
func (r *ApplyPaymentRequest) ToUseCaseInput(loanID string) usecase.ApplyPaymentInput {
	paymentDate := time.Now().UTC()
	if r.PaymentDate != nil {
		paymentDate = *r.PaymentDate
	}

	return usecase.ApplyPaymentInput{
		LoanID:      loanID,
		Amount:      r.Amount,
		PaymentDate: paymentDate,
	}
}

// RenderContractRequest carries the contract template to render.
type RenderContractRequest struct {
	Template string `json:"template"`
}

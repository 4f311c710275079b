package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/loanledger/internal/domain"
	"github.com/iho/loanledger/internal/usecase"
)

// ClientResponse represents a client in API responses.
type ClientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Document  string    `json:"document"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClientFromDomain converts a domain client to a response.
func ClientFromDomain(c *domain.Client) *ClientResponse {
	return &ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Document:  c.Document,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ClientsFromDomain converts domain clients to responses.
func ClientsFromDomain(clients []*domain.Client) []*ClientResponse {
	result := make([]*ClientResponse, len(clients))
	for i, c := range clients {
		result[i] = ClientFromDomain(c)
	}
	return result
}

// RateResponse represents a rate catalog entry in API responses.
type RateResponse struct {
	Principal         decimal.Decimal `json:"principal"`
	WeeklyInstallment decimal.Decimal `json:"weekly_installment"`
	InstallmentCount  int             `json:"installment_count"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	Active            bool            `json:"active"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// RateFromDomain converts a domain rate entry to a response.
func RateFromDomain(r *domain.RateEntry) *RateResponse {
	return &RateResponse{
		Principal:         r.Principal,
		WeeklyInstallment: r.WeeklyInstallment,
		InstallmentCount:  r.InstallmentCount,
		TotalAmount:       r.TotalAmount(),
		Active:            r.Active,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

// RatesFromDomain converts domain rate entries to responses.
func RatesFromDomain(rates []*domain.RateEntry) []*RateResponse {
	result := make([]*RateResponse, len(rates))
	for i, r := range rates {
		result[i] = RateFromDomain(r)
	}
	return result
}

// CollateralResponse represents a collateral item in API responses.
type CollateralResponse struct {
	ID             string          `json:"id"`
	Description    string          `json:"description"`
	EstimatedValue decimal.Decimal `json:"estimated_value"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CollateralFromDomain converts a domain collateral item to a response.
func CollateralFromDomain(c *domain.Collateral) *CollateralResponse {
	return &CollateralResponse{
		ID:             c.ID,
		Description:    c.Description,
		EstimatedValue: c.EstimatedValue,
		Status:         string(c.Status),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// CollateralsFromDomain converts domain collateral items to responses.
func CollateralsFromDomain(collaterals []*domain.Collateral) []*CollateralResponse {
	result := make([]*CollateralResponse, len(collaterals))
	for i, c := range collaterals {
		result[i] = CollateralFromDomain(c)
	}
	return result
}

// LoanResponse represents a loan in API responses.
type LoanResponse struct {
	ID                string          `json:"id"`
	ClientID          string          `json:"client_id"`
	CollateralID      string          `json:"collateral_id"`
	GuarantorID       *string         `json:"guarantor_id,omitempty"`
	Principal         decimal.Decimal `json:"principal"`
	WeeklyInstallment decimal.Decimal `json:"weekly_installment"`
	InstallmentCount  int             `json:"installment_count"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	PaidAmount        decimal.Decimal `json:"paid_amount"`
	Balance           decimal.Decimal `json:"balance"`
	Status            string          `json:"status"`
	IssueDate         time.Time       `json:"issue_date"`
	DueDate           time.Time       `json:"due_date"`
	CompletedAt       *time.Time      `json:"completed_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// LoanFromDomain converts a domain loan to a response.
func LoanFromDomain(l *domain.Loan) *LoanResponse {
	return &LoanResponse{
		ID:                l.ID,
		ClientID:          l.ClientID,
		CollateralID:      l.CollateralID,
		GuarantorID:       l.GuarantorID,
		Principal:         l.Principal,
		WeeklyInstallment: l.WeeklyInstallment,
		InstallmentCount:  l.InstallmentCount,
		TotalAmount:       l.TotalAmount,
		PaidAmount:        l.PaidAmount,
		Balance:           l.Balance,
		Status:            string(l.Status),
		IssueDate:         l.IssueDate,
		DueDate:           l.DueDate,
		CompletedAt:       l.CompletedAt,
		CreatedAt:         l.CreatedAt,
		UpdatedAt:         l.UpdatedAt,
	}
}

// LoansFromDomain converts domain loans to responses.
func LoansFromDomain(loans []*domain.Loan) []*LoanResponse {
	result := make([]*LoanResponse, len(loans))
	for i, l := range loans {
		result[i] = LoanFromDomain(l)
	}
	return result
}

// LoanSnapshotResponse is a loan with its payments and read-time overdue
// state.
type LoanSnapshotResponse struct {
	Loan        *LoanResponse      `json:"loan"`
	Payments    []*PaymentResponse `json:"payments"`
	IsOverdue   bool               `json:"is_overdue"`
	DaysOverdue int                `json:"days_overdue"`
}

// SnapshotFromUseCase converts a loan snapshot to a response.
func SnapshotFromUseCase(s *usecase.LoanSnapshot) *LoanSnapshotResponse {
	return &LoanSnapshotResponse{
		Loan:        LoanFromDomain(s.Loan),
		Payments:    PaymentsFromDomain(s.Payments),
		IsOverdue:   s.IsOverdue,
		DaysOverdue: s.DaysOverdue,
	}
}

// PaymentResponse represents a payment in API responses.
type PaymentResponse struct {
	ID          string          `json:"id"`
	LoanID      string          `json:"loan_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"payment_date"`
	RecordedAt  time.Time       `json:"recorded_at"`
}

// PaymentFromDomain converts a domain payment to a response.
func PaymentFromDomain(p *domain.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:          p.ID,
		LoanID:      p.LoanID,
		Amount:      p.Amount,
		PaymentDate: p.PaymentDate,
		RecordedAt:  p.RecordedAt,
	}
}

// PaymentsFromDomain converts domain payments to responses.
func PaymentsFromDomain(payments []*domain.Payment) []*PaymentResponse {
	result := make([]*PaymentResponse, len(payments))
	for i, p := range payments {
		result[i] = PaymentFromDomain(p)
	}
	return result
}

// OverdueLoanResponse pairs an overdue loan with its days past due.
type OverdueLoanResponse struct {
	Loan        *LoanResponse `json:"loan"`
	DaysOverdue int           `json:"days_overdue"`
}

// OverdueFromUseCase converts overdue rows to responses.
func OverdueFromUseCase(overdue []*usecase.OverdueLoan) []*OverdueLoanResponse {
	result := make([]*OverdueLoanResponse, len(overdue))
	for i, o := range overdue {
		result[i] = &OverdueLoanResponse{
			Loan:        LoanFromDomain(o.Loan),
			DaysOverdue: o.DaysOverdue,
		}
	}
	return result
}

// ContractResponse carries a rendered contract document.
type ContractResponse struct {
	LoanID   string `json:"loan_id"`
	Document string `json:"document"`
}

// ListClientsResponse wraps a client listing.
type ListClientsResponse struct {
	Clients []*ClientResponse `json:"clients"`
	Total   int64             `json:"total"`
}

// ListRatesResponse wraps a rate catalog listing.
type ListRatesResponse struct {
	Rates []*RateResponse `json:"rates"`
	Total int64           `json:"total"`
}

// ListCollateralResponse wraps a collateral listing.
type ListCollateralResponse struct {
	Collateral []*CollateralResponse `json:"collateral"`
	Total      int64                 `json:"total"`
}

// ListLoansResponse wraps a loan listing.
type ListLoansResponse struct {
	Loans []*LoanResponse `json:"loans"`
	Total int64           `json:"total"`
}

// ListPaymentsResponse wraps a payment listing.
type ListPaymentsResponse struct {
	Payments []*PaymentResponse `json:"payments"`
	Total    int64              `json:"total"`
}

// ListOverdueResponse wraps an overdue loan listing.
type ListOverdueResponse struct {
	Loans []*OverdueLoanResponse `json:"loans"`
	Total int64                  `json:"total"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

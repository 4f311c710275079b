package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/loanledger/internal/adapter/http/dto"
	"github.com/iho/loanledger/internal/domain"
	"github.com/iho/loanledger/internal/usecase"
)

// LoanService defines the behavior needed by LoanHandler.
type LoanService interface {
	CreateLoan(ctx context.Context, input usecase.CreateLoanInput) (*domain.Loan, error)
	GetLoan(ctx context.Context, id string) (*usecase.LoanSnapshot, error)
	ApplyPayment(ctx context.Context, input usecase.ApplyPaymentInput) (*domain.Loan, error)
	ReversePayment(ctx context.Context, loanID, paymentID string) (*domain.Loan, error)
	ListPayments(ctx context.Context, loanID string) ([]*domain.Payment, error)
	CancelLoan(ctx context.Context, id string) (*domain.Loan, error)
	DeleteLoan(ctx context.Context, id string) error
	ListOverdue(ctx context.Context, limit, offset int) ([]*usecase.OverdueLoan, error)
}

// LoanHandler handles loan-related HTTP requests.
type LoanHandler struct {
	loanUC LoanService
}

// NewLoanHandler creates a new LoanHandler.
func NewLoanHandler(loanUC LoanService) *LoanHandler {
	return &LoanHandler{loanUC: loanUC}
}

// Create originates a new loan.
func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	loan, err := h.loanUC.CreateLoan(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create loan", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.LoanFromDomain(loan))
}

// Get returns the loan snapshot, overdue state included.
func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	snapshot, err := h.loanUC.GetLoan(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get loan", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SnapshotFromUseCase(snapshot))
}

// ApplyPayment records a payment against a loan.
func (h *LoanHandler) ApplyPayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.ApplyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	loan, err := h.loanUC.ApplyPayment(r.Context(), req.ToUseCaseInput(id))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to apply payment", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.LoanFromDomain(loan))
}

// ReversePayment deletes a recorded payment and recomputes the loan.
func (h *LoanHandler) ReversePayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	paymentID := chi.URLParam(r, "paymentID")

	loan, err := h.loanUC.ReversePayment(r.Context(), id, paymentID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to reverse payment", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(loan))
}

// ListPayments lists a loan's payments.
func (h *LoanHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	payments, err := h.loanUC.ListPayments(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list payments", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListPaymentsResponse{
		Payments: dto.PaymentsFromDomain(payments),
		Total:    int64(len(payments)),
	})
}

// Cancel terminates an active loan.
func (h *LoanHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	loan, err := h.loanUC.CancelLoan(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to cancel loan", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(loan))
}

// Delete removes a loan with no recorded payments.
func (h *LoanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.loanUC.DeleteLoan(r.Context(), id); err != nil {
		writeError(w, mapDomainError(err), "failed to delete loan", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Overdue lists active loans past their due date.
func (h *LoanHandler) Overdue(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	overdue, err := h.loanUC.ListOverdue(r.Context(), limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list overdue loans", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListOverdueResponse{
		Loans: dto.OverdueFromUseCase(overdue),
		Total: int64(len(overdue)),
	})
}

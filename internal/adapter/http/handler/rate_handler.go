package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/loanledger/internal/adapter/http/dto"
	"github.com/iho/loanledger/internal/domain"
	"github.com/iho/loanledger/internal/usecase"
)

// RateService defines the behavior needed by RateHandler.
type RateService interface {
	CreateRate(ctx context.Context, input usecase.CreateRateInput) (*domain.RateEntry, error)
	GetRate(ctx context.Context, principal decimal.Decimal) (*domain.RateEntry, error)
	ListActive(ctx context.Context) ([]*domain.RateEntry, error)
	ActivateRate(ctx context.Context, principal decimal.Decimal) error
	DeactivateRate(ctx context.Context, principal decimal.Decimal) error
}

// RateHandler handles rate catalog HTTP requests. Entries are addressed by
// principal, not by a surrogate ID.
type RateHandler struct {
	rateUC RateService
}

// NewRateHandler creates a new RateHandler.
func NewRateHandler(rateUC RateService) *RateHandler {
	return &RateHandler{rateUC: rateUC}
}

// Create adds a catalog entry.
func (h *RateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	rate, err := h.rateUC.CreateRate(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create rate", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.RateFromDomain(rate))
}

// Get retrieves the entry for a principal.
func (h *RateHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := parsePrincipal(w, r)
	if !ok {
		return
	}

	rate, err := h.rateUC.GetRate(r.Context(), principal)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get rate", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RateFromDomain(rate))
}

// List lists active catalog entries.
func (h *RateHandler) List(w http.ResponseWriter, r *http.Request) {
	rates, err := h.rateUC.ListActive(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list rates", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListRatesResponse{
		Rates: dto.RatesFromDomain(rates),
		Total: int64(len(rates)),
	})
}

// Activate re-enables an entry for new loans.
func (h *RateHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, h.rateUC.ActivateRate)
}

// Deactivate disables an entry for new loans.
func (h *RateHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, h.rateUC.DeactivateRate)
}

func (h *RateHandler) setActive(w http.ResponseWriter, r *http.Request, op func(context.Context, decimal.Decimal) error) {
	principal, ok := parsePrincipal(w, r)
	if !ok {
		return
	}

	if err := op(r.Context(), principal); err != nil {
		writeError(w, mapDomainError(err), "failed to update rate", err.Error())
		return
	}

	rate, err := h.rateUC.GetRate(r.Context(), principal)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get rate", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RateFromDomain(rate))
}

func parsePrincipal(w http.ResponseWriter, r *http.Request) (decimal.Decimal, bool) {
	principal, err := decimal.NewFromString(chi.URLParam(r, "principal"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid principal", err.Error())
		return decimal.Zero, false
	}

	return principal, true
}

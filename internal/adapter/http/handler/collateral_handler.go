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

// CollateralService defines the behavior needed by CollateralHandler.
type CollateralService interface {
	Intake(ctx context.Context, input usecase.IntakeInput) (*domain.Collateral, error)
	GetCollateral(ctx context.Context, id string) (*domain.Collateral, error)
	ListCollateral(ctx context.Context, limit, offset int) ([]*domain.Collateral, error)
	Pledge(ctx context.Context, id string) (*domain.Collateral, error)
	Release(ctx context.Context, id string) (*domain.Collateral, error)
	Retire(ctx context.Context, id string) (*domain.Collateral, error)
}

// CollateralHandler handles collateral registry HTTP requests.
type CollateralHandler struct {
	collateralUC CollateralService
}

// NewCollateralHandler creates a new CollateralHandler.
func NewCollateralHandler(collateralUC CollateralService) *CollateralHandler {
	return &CollateralHandler{collateralUC: collateralUC}
}

// Create registers a collateral item.
func (h *CollateralHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCollateralRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	collateral, err := h.collateralUC.Intake(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to register collateral", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.CollateralFromDomain(collateral))
}

// Get retrieves a collateral item.
func (h *CollateralHandler) Get(w http.ResponseWriter, r *http.Request) {
	collateral, err := h.collateralUC.GetCollateral(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get collateral", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CollateralFromDomain(collateral))
}

// List lists collateral items.
func (h *CollateralHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	collaterals, err := h.collateralUC.ListCollateral(r.Context(), limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list collateral", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListCollateralResponse{
		Collateral: dto.CollateralsFromDomain(collaterals),
		Total:      int64(len(collaterals)),
	})
}

// Pledge marks an item as securing a loan.
func (h *CollateralHandler) Pledge(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.collateralUC.Pledge)
}

// Release returns a pledged item to available.
func (h *CollateralHandler) Release(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.collateralUC.Release)
}

// Retire takes an item permanently out of circulation.
func (h *CollateralHandler) Retire(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.collateralUC.Retire)
}

func (h *CollateralHandler) transition(w http.ResponseWriter, r *http.Request, op func(context.Context, string) (*domain.Collateral, error)) {
	collateral, err := op(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update collateral", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CollateralFromDomain(collateral))
}

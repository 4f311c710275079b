package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/loanledger/internal/adapter/http/dto"
	"github.com/iho/loanledger/internal/contract"
	"github.com/iho/loanledger/internal/usecase"
)

// ContractDataProvider assembles the data a contract renders from.
type ContractDataProvider interface {
	GetContractData(ctx context.Context, loanID string) (*usecase.ContractData, error)
}

// ContractHandler renders loan contract documents.
type ContractHandler struct {
	loanUC ContractDataProvider
}

// NewContractHandler creates a new ContractHandler.
func NewContractHandler(loanUC ContractDataProvider) *ContractHandler {
	return &ContractHandler{loanUC: loanUC}
}

// Render substitutes the loan's data into the submitted template.
func (h *ContractHandler) Render(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.RenderContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.Template == "" {
		writeError(w, http.StatusBadRequest, "missing template", "")
		return
	}

	data, err := h.loanUC.GetContractData(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to load contract data", err.Error())
		return
	}

	document := contract.Render(req.Template, contract.BuildTokens(data))

	writeJSON(w, http.StatusOK, dto.ContractResponse{
		LoanID:   id,
		Document: document,
	})
}

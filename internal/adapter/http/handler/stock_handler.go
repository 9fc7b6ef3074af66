package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ayansteel/ledger/internal/adapter/http/dto"
	"github.com/ayansteel/ledger/internal/usecase"
)

// StockHandler handles stock movement reads. Stock is written only through
// postings, so there is no mutating route here.
type StockHandler struct {
	stockRepo usecase.StockRepository
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockRepo usecase.StockRepository) *StockHandler {
	return &StockHandler{stockRepo: stockRepo}
}

// List lists recent stock movements.
func (h *StockHandler) List(w http.ResponseWriter, r *http.Request) {
	movements, err := h.stockRepo.List(r.Context(),
		parseIntQuery(r, "limit", 50), parseIntQuery(r, "offset", 0))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list stock movements", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.StockMovementsFromDomain(movements))
}

// GetByEntry retrieves the stock movement linked to a ledger entry.
func (h *StockHandler) GetByEntry(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "entryID")
	if entryID == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	movement, err := h.stockRepo.GetByEntry(r.Context(), entryID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get stock movement", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.StockMovementFromDomain(movement))
}

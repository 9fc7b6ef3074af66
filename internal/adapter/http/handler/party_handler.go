package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ayansteel/ledger/internal/adapter/http/dto"
	"github.com/ayansteel/ledger/internal/domain"
	"github.com/ayansteel/ledger/internal/usecase"
)

// PartyHandler handles client and supplier party requests. The kind is fixed
// per route group, so /api/clients and /api/supplier-ledger share one
// handler type.
type PartyHandler struct {
	partyUC   *usecase.PartyUseCase
	balanceUC *usecase.BalanceUseCase
	kind      domain.PartyKind
}

// NewClientHandler creates a PartyHandler for the client route group.
func NewClientHandler(partyUC *usecase.PartyUseCase, balanceUC *usecase.BalanceUseCase) *PartyHandler {
	return &PartyHandler{partyUC: partyUC, balanceUC: balanceUC, kind: domain.PartyKindClient}
}

// NewSupplierHandler creates a PartyHandler for the supplier route group.
func NewSupplierHandler(partyUC *usecase.PartyUseCase, balanceUC *usecase.BalanceUseCase) *PartyHandler {
	return &PartyHandler{partyUC: partyUC, balanceUC: balanceUC, kind: domain.PartyKindSupplier}
}

// Create creates a new party of the handler's kind.
func (h *PartyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePartyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	party, err := h.partyUC.CreateParty(r.Context(), usecase.CreatePartyInput{
		Name: req.Name,
		Kind: h.kind,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create party", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.PartyFromDomain(party))
}

// List lists parties of the handler's kind.
func (h *PartyHandler) List(w http.ResponseWriter, r *http.Request) {
	parties, err := h.partyUC.ListParties(r.Context(), usecase.ListPartiesInput{
		Kind:   h.kind,
		Limit:  parseIntQuery(r, "limit", 50),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list parties", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PartiesFromDomain(parties))
}

// Get retrieves a party by ID.
func (h *PartyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing party ID", "")
		return
	}

	party, err := h.partyUC.GetParty(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get party", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PartyFromDomain(party))
}

// Balance returns a party's running balance.
func (h *PartyHandler) Balance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing party ID", "")
		return
	}

	balance, err := h.balanceUC.CurrentBalance(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{PartyID: id, Balance: balance})
}

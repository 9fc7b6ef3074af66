package handler

import (
	"net/http"

	"github.com/ayansteel/ledger/internal/adapter/http/dto"
	"github.com/ayansteel/ledger/internal/usecase"
)

// BalanceHandler handles company-balance requests.
type BalanceHandler struct {
	partyUC   *usecase.PartyUseCase
	balanceUC *usecase.BalanceUseCase
	auditUC   *usecase.AuditUseCase
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(partyUC *usecase.PartyUseCase, balanceUC *usecase.BalanceUseCase, auditUC *usecase.AuditUseCase) *BalanceHandler {
	return &BalanceHandler{
		partyUC:   partyUC,
		balanceUC: balanceUC,
		auditUC:   auditUC,
	}
}

// CompanyBalance returns the company party's running balance.
func (h *BalanceHandler) CompanyBalance(w http.ResponseWriter, r *http.Request) {
	company, err := h.partyUC.EnsureCompany(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to resolve company party", err.Error())
		return
	}

	balance, err := h.balanceUC.CurrentBalance(r.Context(), company.ID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get company balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{PartyID: company.ID, Balance: balance})
}

// VerifyAll runs a reconciliation check over every party.
func (h *BalanceHandler) VerifyAll(w http.ResponseWriter, r *http.Request) {
	results, err := h.auditUC.VerifyAll(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to verify balances", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.VerifiesFromResults(results))
}

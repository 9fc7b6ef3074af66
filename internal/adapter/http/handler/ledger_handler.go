package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ayansteel/ledger/internal/adapter/http/dto"
	"github.com/ayansteel/ledger/internal/usecase"
)

// LedgerHandler handles posting and history requests.
type LedgerHandler struct {
	postingUC *usecase.PostingUseCase
	balanceUC *usecase.BalanceUseCase
	auditUC   *usecase.AuditUseCase
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(postingUC *usecase.PostingUseCase, balanceUC *usecase.BalanceUseCase, auditUC *usecase.AuditUseCase) *LedgerHandler {
	return &LedgerHandler{
		postingUC: postingUC,
		balanceUC: balanceUC,
		auditUC:   auditUC,
	}
}

// Post records a ledger transaction. A replayed idempotency key answers 200
// with the original result instead of 201.
func (h *LedgerHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req dto.PostLedgerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.postingUC.Post(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to post transaction", err.Error())
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}

	writeJSON(w, status, dto.PostingFromResult(result))
}

// History lists a party's ledger entries, newest first.
func (h *LedgerHandler) History(w http.ResponseWriter, r *http.Request) {
	partyID := chi.URLParam(r, "id")
	if partyID == "" {
		writeError(w, http.StatusBadRequest, "missing party ID", "")
		return
	}

	entries, err := h.balanceUC.History(r.Context(), usecase.HistoryInput{
		PartyID: partyID,
		Limit:   parseIntQuery(r, "limit", 50),
		Offset:  parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}

// Reverse posts a compensating posting for an existing posting.
func (h *LedgerHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	postingID := chi.URLParam(r, "id")
	if postingID == "" {
		writeError(w, http.StatusBadRequest, "missing posting ID", "")
		return
	}

	var req dto.ReversePostingRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
			return
		}
	}

	result, err := h.auditUC.Reverse(r.Context(), postingID, req.Reason)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to reverse posting", err.Error())
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}

	writeJSON(w, status, dto.PostingFromResult(result))
}

// GetPosting retrieves a posting with its entries.
func (h *LedgerHandler) GetPosting(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing posting ID", "")
		return
	}

	posting, entries, err := h.postingUC.GetPosting(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get posting", err.Error())
		return
	}

	balances := make(map[string]decimal.Decimal, len(entries))
	for _, e := range entries {
		balances[e.PartyID] = e.CurrentBalance
	}

	writeJSON(w, http.StatusOK, dto.PostingFromResult(&usecase.PostingResult{
		Posting:  posting,
		Entries:  entries,
		Balances: balances,
	}))
}

// Verify runs a reconciliation check for one party.
func (h *LedgerHandler) Verify(w http.ResponseWriter, r *http.Request) {
	partyID := chi.URLParam(r, "id")
	if partyID == "" {
		writeError(w, http.StatusBadRequest, "missing party ID", "")
		return
	}

	result, err := h.auditUC.Verify(r.Context(), partyID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to verify balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.VerifyFromResult(result))
}

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ayansteel/ledger/internal/adapter/http/dto"
	"github.com/ayansteel/ledger/internal/usecase"
)

// SupplierPaymentHandler handles supplier payment requests.
type SupplierPaymentHandler struct {
	supplierUC *usecase.SupplierPaymentUseCase
}

// NewSupplierPaymentHandler creates a new SupplierPaymentHandler.
func NewSupplierPaymentHandler(supplierUC *usecase.SupplierPaymentUseCase) *SupplierPaymentHandler {
	return &SupplierPaymentHandler{supplierUC: supplierUC}
}

// Record records a supplier payment or credit note.
func (h *SupplierPaymentHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req dto.SupplierPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.supplierUC.RecordPayment(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record payment", err.Error())
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}

	writeJSON(w, status, dto.PostingFromResult(result))
}

// List lists a supplier's payment entries, newest first.
func (h *SupplierPaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	supplierID := chi.URLParam(r, "supplierID")
	if supplierID == "" {
		writeError(w, http.StatusBadRequest, "missing supplier ID", "")
		return
	}

	payments, err := h.supplierUC.ListPayments(r.Context(), usecase.ListPaymentsInput{
		SupplierID: supplierID,
		Limit:      parseIntQuery(r, "limit", 50),
		Offset:     parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list payments", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(payments))
}

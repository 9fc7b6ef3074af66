package dto

import (
	"github.com/shopspring/decimal"

	"github.com/ayansteel/ledger/internal/domain"
	"github.com/ayansteel/ledger/internal/usecase"
)

// LegItem represents one leg of a posting request.
type LegItem struct {
	PartyID string          `json:"party_id"`
	Amount  decimal.Decimal `json:"amount"`
}

// StockItem represents the optional stock movement of a posting request.
type StockItem struct {
	LegIndex  int             `json:"leg_index"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitValue decimal.Decimal `json:"unit_value"`
	Reference string          `json:"reference,omitempty"`
}

// PostLedgerRequest represents a request to post a ledger transaction.
type PostLedgerRequest struct {
	Kind           string     `json:"kind"`
	IdempotencyKey string     `json:"idempotency_key"`
	Reason         string     `json:"reason,omitempty"`
	Legs           []LegItem  `json:"legs"`
	Stock          *StockItem `json:"stock,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *PostLedgerRequest) ToUseCaseInput() usecase.PostingIntent {
	legs := make([]domain.Leg, len(r.Legs))
	for i, leg := range r.Legs {
		legs[i] = domain.Leg{PartyID: leg.PartyID, Amount: leg.Amount}
	}

	intent := usecase.PostingIntent{
		Kind:           domain.EntryKind(r.Kind),
		IdempotencyKey: r.IdempotencyKey,
		Reason:         r.Reason,
		Legs:           legs,
	}

	if r.Stock != nil {
		intent.Stock = &usecase.StockInput{
			LegIndex:  r.Stock.LegIndex,
			Quantity:  r.Stock.Quantity,
			UnitValue: r.Stock.UnitValue,
			Reference: r.Stock.Reference,
		}
	}

	return intent
}

// ReversePostingRequest represents a request to reverse a posting.
type ReversePostingRequest struct {
	Reason string `json:"reason,omitempty"`
}

// CreatePartyRequest represents a request to create a client or supplier.
type CreatePartyRequest struct {
	Name string `json:"name"`
}

// SupplierPaymentRequest represents a supplier payment or credit note.
type SupplierPaymentRequest struct {
	SupplierID     string          `json:"supplier_id"`
	Amount         decimal.Decimal `json:"amount"`
	IdempotencyKey string          `json:"idempotency_key"`
	Reference      string          `json:"reference,omitempty"`
	CreditNote     bool            `json:"credit_note,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *SupplierPaymentRequest) ToUseCaseInput() usecase.RecordPaymentInput {
	return usecase.RecordPaymentInput{
		SupplierID:     r.SupplierID,
		Amount:         r.Amount,
		IdempotencyKey: r.IdempotencyKey,
		Reference:      r.Reference,
		CreditNote:     r.CreditNote,
	}
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ayansteel/ledger/internal/domain"
	"github.com/ayansteel/ledger/internal/usecase"
)

// PartyResponse represents a party in API responses.
type PartyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PartyFromDomain converts a domain party to a response.
func PartyFromDomain(p *domain.Party) *PartyResponse {
	return &PartyResponse{
		ID:        p.ID,
		Name:      p.Name,
		Kind:      string(p.Kind),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// PartiesFromDomain converts domain parties to responses.
func PartiesFromDomain(parties []*domain.Party) []*PartyResponse {
	result := make([]*PartyResponse, len(parties))
	for i, p := range parties {
		result[i] = PartyFromDomain(p)
	}
	return result
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID              string          `json:"id"`
	PostingID       string          `json:"posting_id"`
	PartyID         string          `json:"party_id"`
	Amount          decimal.Decimal `json:"amount"`
	PreviousBalance decimal.Decimal `json:"previous_balance"`
	CurrentBalance  decimal.Decimal `json:"current_balance"`
	Seq             int64           `json:"seq"`
	CreatedAt       time.Time       `json:"created_at"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.LedgerEntry) *EntryResponse {
	return &EntryResponse{
		ID:              e.ID,
		PostingID:       e.PostingID,
		PartyID:         e.PartyID,
		Amount:          e.Amount,
		PreviousBalance: e.PreviousBalance,
		CurrentBalance:  e.CurrentBalance,
		Seq:             e.Seq,
		CreatedAt:       e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.LedgerEntry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// StockMovementResponse represents a stock movement in API responses.
type StockMovementResponse struct {
	ID        string          `json:"id"`
	EntryID   string          `json:"entry_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitValue decimal.Decimal `json:"unit_value"`
	Reference string          `json:"reference,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// StockMovementFromDomain converts a domain stock movement to a response.
func StockMovementFromDomain(m *domain.StockMovement) *StockMovementResponse {
	return &StockMovementResponse{
		ID:        m.ID,
		EntryID:   m.EntryID,
		Quantity:  m.Quantity,
		UnitValue: m.UnitValue,
		Reference: m.Reference,
		CreatedAt: m.CreatedAt,
	}
}

// StockMovementsFromDomain converts domain stock movements to responses.
func StockMovementsFromDomain(movements []*domain.StockMovement) []*StockMovementResponse {
	result := make([]*StockMovementResponse, len(movements))
	for i, m := range movements {
		result[i] = StockMovementFromDomain(m)
	}
	return result
}

// PostingResponse represents a confirmed posting in API responses.
type PostingResponse struct {
	ID             string                     `json:"id"`
	Kind           string                     `json:"kind"`
	IdempotencyKey string                     `json:"idempotency_key"`
	ReversalOf     *string                    `json:"reversal_of,omitempty"`
	Reason         string                     `json:"reason,omitempty"`
	CreatedAt      time.Time                  `json:"created_at"`
	Entries        []*EntryResponse           `json:"entries"`
	Stock          *StockMovementResponse     `json:"stock,omitempty"`
	Balances       map[string]decimal.Decimal `json:"balances"`
	Replayed       bool                       `json:"replayed"`
}

// PostingFromResult converts a posting result to a response.
func PostingFromResult(result *usecase.PostingResult) *PostingResponse {
	resp := &PostingResponse{
		ID:             result.Posting.ID,
		Kind:           string(result.Posting.Kind),
		IdempotencyKey: result.Posting.IdempotencyKey,
		ReversalOf:     result.Posting.ReversalOf,
		Reason:         result.Posting.Reason,
		CreatedAt:      result.Posting.CreatedAt,
		Entries:        EntriesFromDomain(result.Entries),
		Balances:       result.Balances,
		Replayed:       result.Replayed,
	}

	if result.Stock != nil {
		resp.Stock = StockMovementFromDomain(result.Stock)
	}

	return resp
}

// BalanceResponse represents a party balance in API responses.
type BalanceResponse struct {
	PartyID string          `json:"party_id"`
	Balance decimal.Decimal `json:"balance"`
}

// VerifyResponse represents a reconciliation check in API responses.
type VerifyResponse struct {
	PartyID   string          `json:"party_id"`
	Cached    decimal.Decimal `json:"cached"`
	Computed  decimal.Decimal `json:"computed"`
	Drift     decimal.Decimal `json:"drift"`
	OK        bool            `json:"ok"`
	CheckedAt time.Time       `json:"checked_at"`
}

// VerifyFromResult converts a verify result to a response.
func VerifyFromResult(result *usecase.VerifyResult) *VerifyResponse {
	return &VerifyResponse{
		PartyID:   result.PartyID,
		Cached:    result.Cached,
		Computed:  result.Computed,
		Drift:     result.Drift,
		OK:        result.OK,
		CheckedAt: result.CheckedAt,
	}
}

// VerifiesFromResults converts verify results to responses.
func VerifiesFromResults(results []*usecase.VerifyResult) []*VerifyResponse {
	out := make([]*VerifyResponse, len(results))
	for i, r := range results {
		out[i] = VerifyFromResult(r)
	}
	return out
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

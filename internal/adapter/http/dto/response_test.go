package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ayansteel/ledger/internal/domain"
	"github.com/ayansteel/ledger/internal/usecase"
)

func TestPostingFromResult(t *testing.T) {
	now := time.Now()
	reversalOf := "p-0"

	result := &usecase.PostingResult{
		Posting: &domain.Posting{
			ID:             "p-1",
			Kind:           domain.EntryKindReversal,
			IdempotencyKey: "rev-1",
			ReversalOf:     &reversalOf,
			Reason:         "entered twice",
			CreatedAt:      now,
		},
		Entries: []*domain.LedgerEntry{
			{
				ID:              "e-1",
				PostingID:       "p-1",
				PartyID:         "c1",
				Amount:          decimal.NewFromInt(-500),
				PreviousBalance: decimal.NewFromInt(500),
				CurrentBalance:  decimal.Zero,
				Seq:             2,
				CreatedAt:       now,
			},
		},
		Stock: &domain.StockMovement{
			ID:        "sm-1",
			EntryID:   "e-1",
			Quantity:  decimal.NewFromInt(-10),
			UnitValue: decimal.NewFromInt(50),
			CreatedAt: now,
		},
		Balances: map[string]decimal.Decimal{"c1": decimal.Zero},
		Replayed: true,
	}

	resp := PostingFromResult(result)

	if resp.ID != "p-1" || resp.Kind != "reversal" {
		t.Fatalf("unexpected posting response: %+v", resp)
	}
	if resp.ReversalOf == nil || *resp.ReversalOf != "p-0" {
		t.Fatalf("expected reversal_of to carry over, got %v", resp.ReversalOf)
	}
	if len(resp.Entries) != 1 || !resp.Entries[0].Amount.Equal(decimal.NewFromInt(-500)) {
		t.Fatalf("entries not mapped: %+v", resp.Entries)
	}
	if resp.Stock == nil || !resp.Stock.Quantity.Equal(decimal.NewFromInt(-10)) {
		t.Fatalf("stock not mapped: %+v", resp.Stock)
	}
	if !resp.Replayed {
		t.Fatal("expected replayed flag to carry over")
	}
}

func TestPostingFromResult_NoStock(t *testing.T) {
	result := &usecase.PostingResult{
		Posting: &domain.Posting{ID: "p-2", Kind: domain.EntryKindPayment},
		Entries: []*domain.LedgerEntry{},
	}

	resp := PostingFromResult(result)

	if resp.Stock != nil {
		t.Fatalf("expected nil stock, got %+v", resp.Stock)
	}
}

func TestVerifyFromResult(t *testing.T) {
	now := time.Now()
	result := &usecase.VerifyResult{
		PartyID:   "c1",
		Cached:    decimal.NewFromInt(725),
		Computed:  decimal.NewFromInt(500),
		Drift:     decimal.NewFromInt(225),
		OK:        false,
		CheckedAt: now,
	}

	resp := VerifyFromResult(result)

	if resp.PartyID != "c1" || resp.OK {
		t.Fatalf("unexpected verify response: %+v", resp)
	}
	if !resp.Drift.Equal(decimal.NewFromInt(225)) {
		t.Fatalf("expected drift 225, got %s", resp.Drift)
	}
}

func TestPartiesFromDomain(t *testing.T) {
	parties := []*domain.Party{
		{ID: "c1", Name: "Acme", Kind: domain.PartyKindClient},
		{ID: "s1", Name: "Steel Source", Kind: domain.PartyKindSupplier},
	}

	resp := PartiesFromDomain(parties)

	if len(resp) != 2 {
		t.Fatalf("expected 2 responses, got %d", len(resp))
	}
	if resp[0].Kind != "client" || resp[1].Kind != "supplier" {
		t.Fatalf("kinds not mapped: %+v", resp)
	}
}

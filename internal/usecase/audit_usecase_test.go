package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ayansteel/ledger/internal/domain"
	"github.com/ayansteel/ledger/internal/usecase"
	"github.com/ayansteel/ledger/internal/usecase/mocks"
)

func newAuditFixture(t *testing.T, parties ...*domain.Party) (*posterFixture, *usecase.AuditUseCase) {
	t.Helper()

	f := newPosterFixture(t, parties...)

	audit := usecase.NewAuditUseCase(
		f.txMgr, f.parties, f.postings, f.entries, f.stock,
		f.snapshots, f.outbox, f.uc, mocks.NewMockIDGenerator(),
	)

	return f, audit
}

func TestAuditUseCase_Verify_NoDrift(t *testing.T) {
	f, audit := newAuditFixture(t, client("A"))

	mustPost(t, f, "k1", decimal.NewFromInt(500))

	result, err := audit.Verify(context.Background(), "A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.OK {
		t.Errorf("expected a clean verify, got drift %s", result.Drift)
	}
	if !result.Cached.Equal(decimal.NewFromInt(500)) || !result.Computed.Equal(decimal.NewFromInt(500)) {
		t.Errorf("unexpected verify: cached %s computed %s", result.Cached, result.Computed)
	}
}

func TestAuditUseCase_Verify_ReportsDriftWithoutHealing(t *testing.T) {
	f, audit := newAuditFixture(t, client("A"))

	mustPost(t, f, "k1", decimal.NewFromInt(500))

	// Tamper with the cache the way a bug would.
	f.snapshots.SetBalance("A", decimal.NewFromInt(725), 1)

	result, err := audit.Verify(context.Background(), "A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.OK {
		t.Fatal("expected drift to be detected")
	}
	if !result.Drift.Equal(decimal.NewFromInt(225)) {
		t.Errorf("expected drift 225, got %s", result.Drift)
	}

	var driftEvents int
	for _, e := range f.outbox.Events() {
		if e.EventType == domain.EventTypeDriftDetected {
			driftEvents++
		}
	}
	if driftEvents != 1 {
		t.Errorf("expected one drift event, got %d", driftEvents)
	}

	// Verify must report, never repair.
	snapshot, _ := f.snapshots.Get(context.Background(), "A")
	if !snapshot.Balance.Equal(decimal.NewFromInt(725)) {
		t.Errorf("verify must not rewrite the snapshot, got %s", snapshot.Balance)
	}
}

func TestAuditUseCase_Verify_UnknownParty(t *testing.T) {
	_, audit := newAuditFixture(t)

	if _, err := audit.Verify(context.Background(), "ghost"); !errors.Is(err, domain.ErrPartyNotFound) {
		t.Errorf("expected ErrPartyNotFound, got %v", err)
	}
}

func TestAuditUseCase_VerifyAll(t *testing.T) {
	f, audit := newAuditFixture(t,
		client("A"),
		&domain.Party{ID: "S", Name: "Supplier", Kind: domain.PartyKindSupplier},
		&domain.Party{ID: "C", Name: "Company", Kind: domain.PartyKindCompany},
	)

	mustPost(t, f, "k1", decimal.NewFromInt(100))

	results, err := audit.VerifyAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.OK {
			t.Errorf("party %s unexpectedly drifted by %s", r.PartyID, r.Drift)
		}
	}
}

// Exercises the full posting law: post, replay, pay down, reverse, verify.
func TestAuditUseCase_ReversalScenario(t *testing.T) {
	f, audit := newAuditFixture(t, client("A"))
	ctx := context.Background()

	sale := mustPost(t, f, "k1", decimal.NewFromInt(500))
	if !sale.Balances["A"].Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected balance 500, got %s", sale.Balances["A"])
	}

	replayed, err := f.uc.Post(ctx, usecase.PostingIntent{
		Kind:           domain.EntryKindSale,
		IdempotencyKey: "k1",
		Legs:           []domain.Leg{{PartyID: "A", Amount: decimal.NewFromInt(500)}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !replayed.Replayed || !replayed.Balances["A"].Equal(decimal.NewFromInt(500)) {
		t.Fatalf("replay must leave the balance at 500, got %s", replayed.Balances["A"])
	}

	payment, err := f.uc.Post(ctx, usecase.PostingIntent{
		Kind:           domain.EntryKindPayment,
		IdempotencyKey: "k2",
		Legs:           []domain.Leg{{PartyID: "A", Amount: decimal.NewFromInt(-200)}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !payment.Balances["A"].Equal(decimal.NewFromInt(300)) {
		t.Fatalf("expected balance 300, got %s", payment.Balances["A"])
	}

	reversal, err := audit.Reverse(ctx, sale.Posting.ID, "mis-keyed sale")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reversal.Balances["A"].Equal(decimal.NewFromInt(-200)) {
		t.Fatalf("expected balance -200 after reversing the sale, got %s", reversal.Balances["A"])
	}
	if reversal.Posting.Kind != domain.EntryKindReversal {
		t.Errorf("expected a reversal posting, got %s", reversal.Posting.Kind)
	}
	if reversal.Posting.ReversalOf == nil || *reversal.Posting.ReversalOf != sale.Posting.ID {
		t.Error("reversal must reference the original posting")
	}

	check, err := audit.Verify(ctx, "A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !check.OK {
		t.Errorf("ledger drifted after reversal: %s", check.Drift)
	}

	entries, _ := f.entries.GetByParty(ctx, "A", 100, 0)
	if len(entries) != 3 {
		t.Errorf("history must keep the original and the reversal, got %d entries", len(entries))
	}
}

func TestAuditUseCase_Reverse_RetryReplays(t *testing.T) {
	f, audit := newAuditFixture(t, client("A"))
	ctx := context.Background()

	sale := mustPost(t, f, "k1", decimal.NewFromInt(500))

	first, err := audit.Reverse(ctx, sale.Posting.ID, "duplicate invoice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := audit.Reverse(ctx, sale.Posting.ID, "duplicate invoice")
	if err != nil {
		t.Fatalf("retried reverse must replay: %v", err)
	}

	if !second.Replayed {
		t.Error("expected a replayed result")
	}
	if second.Posting.ID != first.Posting.ID {
		t.Error("retried reverse must return the original reversal")
	}

	entries, _ := f.entries.GetByParty(ctx, "A", 100, 0)
	if len(entries) != 2 {
		t.Errorf("expected 2 entries (sale + one reversal), got %d", len(entries))
	}
}

func TestAuditUseCase_Reverse_SecondReversalRejected(t *testing.T) {
	f, audit := newAuditFixture(t, client("A"))
	ctx := context.Background()

	sale := mustPost(t, f, "k1", decimal.NewFromInt(500))

	if _, err := audit.Reverse(ctx, sale.Posting.ID, "first"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A second reversal under a fresh key must hit the reversal_of
	// uniqueness, not sneak in a compensation of the compensation.
	_, err := f.uc.Post(ctx, usecase.PostingIntent{
		Kind:           domain.EntryKindReversal,
		IdempotencyKey: "sneaky-key",
		ReversalOf:     &sale.Posting.ID,
		Legs:           []domain.Leg{{PartyID: "A", Amount: decimal.NewFromInt(-500)}},
	})
	if !errors.Is(err, domain.ErrAlreadyReversed) {
		t.Errorf("expected ErrAlreadyReversed, got %v", err)
	}
}

func TestAuditUseCase_Reverse_OfReversalRejected(t *testing.T) {
	f, audit := newAuditFixture(t, client("A"))
	ctx := context.Background()

	sale := mustPost(t, f, "k1", decimal.NewFromInt(500))

	reversal, err := audit.Reverse(ctx, sale.Posting.ID, "undo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := audit.Reverse(ctx, reversal.Posting.ID, "undo the undo"); !errors.Is(err, domain.ErrReverseReversal) {
		t.Errorf("expected ErrReverseReversal, got %v", err)
	}
}

func TestAuditUseCase_Reverse_CarriesNegatedStock(t *testing.T) {
	f, audit := newAuditFixture(t, client("A"))
	ctx := context.Background()

	sale, err := f.uc.Post(ctx, usecase.PostingIntent{
		Kind:           domain.EntryKindSale,
		IdempotencyKey: "k1",
		Legs:           []domain.Leg{{PartyID: "A", Amount: decimal.NewFromInt(600)}},
		Stock: &usecase.StockInput{
			Quantity:  decimal.NewFromInt(-10),
			UnitValue: decimal.NewFromInt(60),
			Reference: "INV-7",
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reversal, err := audit.Reverse(ctx, sale.Posting.ID, "returned goods")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reversal.Stock == nil {
		t.Fatal("reversal must carry a compensating stock movement")
	}
	if !reversal.Stock.Quantity.Equal(decimal.NewFromInt(10)) {
		t.Errorf("expected negated quantity 10, got %s", reversal.Stock.Quantity)
	}
	if !reversal.Stock.UnitValue.Equal(decimal.NewFromInt(60)) {
		t.Errorf("unit value must be preserved, got %s", reversal.Stock.UnitValue)
	}
}

func TestAuditUseCase_Reverse_StockLookupFailureAborts(t *testing.T) {
	f, audit := newAuditFixture(t, client("A"))
	ctx := context.Background()

	sale, err := f.uc.Post(ctx, usecase.PostingIntent{
		Kind:           domain.EntryKindSale,
		IdempotencyKey: "k1",
		Legs:           []domain.Leg{{PartyID: "A", Amount: decimal.NewFromInt(600)}},
		Stock: &usecase.StockInput{
			Quantity:  decimal.NewFromInt(-10),
			UnitValue: decimal.NewFromInt(60),
			Reference: "INV-7",
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lookupErr := errors.New("connection reset by peer")
	f.stock.GetByEntryFunc = func(ctx context.Context, entryID string) (*domain.StockMovement, error) {
		return nil, lookupErr
	}

	if _, err := audit.Reverse(ctx, sale.Posting.ID, "returned goods"); !errors.Is(err, lookupErr) {
		t.Fatalf("expected stock lookup error to propagate, got %v", err)
	}

	// Nothing was committed, so a retry once storage recovers must still
	// carry the compensating movement.
	f.stock.GetByEntryFunc = nil

	reversal, err := audit.Reverse(ctx, sale.Posting.ID, "returned goods")
	if err != nil {
		t.Fatalf("retry after recovery failed: %v", err)
	}
	if reversal.Stock == nil {
		t.Fatal("reversal must carry a compensating stock movement")
	}
	if !reversal.Stock.Quantity.Equal(decimal.NewFromInt(10)) {
		t.Errorf("expected negated quantity 10, got %s", reversal.Stock.Quantity)
	}
}

func TestAuditUseCase_Reverse_UnknownPosting(t *testing.T) {
	_, audit := newAuditFixture(t, client("A"))

	if _, err := audit.Reverse(context.Background(), "missing", "oops"); !errors.Is(err, domain.ErrPostingNotFound) {
		t.Errorf("expected ErrPostingNotFound, got %v", err)
	}
}

func mustPost(t *testing.T, f *posterFixture, key string, amount decimal.Decimal) *usecase.PostingResult {
	t.Helper()

	result, err := f.uc.Post(context.Background(), usecase.PostingIntent{
		Kind:           domain.EntryKindSale,
		IdempotencyKey: key,
		Legs:           []domain.Leg{{PartyID: "A", Amount: amount}},
	})
	if err != nil {
		t.Fatalf("posting %s failed: %v", key, err)
	}

	return result
}

package handler

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ayansteel/ledger/internal/domain"
	"github.com/ayansteel/ledger/internal/usecase"
	"github.com/ayansteel/ledger/internal/usecase/mocks"
)

// handlerFixture wires real use cases over in-memory repositories so handler
// tests exercise the full request path below the router.
type handlerFixture struct {
	parties    *mocks.MockPartyRepository
	stock      *mocks.MockStockRepository
	postingUC  *usecase.PostingUseCase
	partyUC    *usecase.PartyUseCase
	balanceUC  *usecase.BalanceUseCase
	auditUC    *usecase.AuditUseCase
	supplierUC *usecase.SupplierPaymentUseCase
}

func newHandlerFixture(t *testing.T, parties ...*domain.Party) *handlerFixture {
	t.Helper()

	txMgr := mocks.NewMockTransactionManager()
	partyRepo := mocks.NewMockPartyRepository()
	postingRepo := mocks.NewMockPostingRepository()
	entryRepo := mocks.NewMockEntryRepository()
	stockRepo := mocks.NewMockStockRepository()
	snapshotRepo := mocks.NewMockSnapshotRepository()
	outboxRepo := mocks.NewMockOutboxRepository()
	idGen := mocks.NewMockIDGenerator()

	partyRepo.Seed(parties...)
	entryRepo.LinkPostings(postingRepo)

	postingUC := usecase.NewPostingUseCase(
		txMgr, partyRepo, postingRepo, entryRepo, stockRepo,
		snapshotRepo, outboxRepo, mocks.NewMockRetrier(), idGen)

	return &handlerFixture{
		parties:   partyRepo,
		stock:     stockRepo,
		postingUC: postingUC,
		partyUC:   usecase.NewPartyUseCase(partyRepo, idGen),
		balanceUC: usecase.NewBalanceUseCase(txMgr, partyRepo, entryRepo, snapshotRepo),
		auditUC: usecase.NewAuditUseCase(
			txMgr, partyRepo, postingRepo, entryRepo, stockRepo,
			snapshotRepo, outboxRepo, postingUC, idGen),
		supplierUC: usecase.NewSupplierPaymentUseCase(partyRepo, entryRepo, postingUC),
	}
}

func (f *handlerFixture) post(t *testing.T, key, partyID string, amount int64) *usecase.PostingResult {
	t.Helper()

	result, err := f.postingUC.Post(context.Background(), usecase.PostingIntent{
		Kind:           domain.EntryKindSale,
		IdempotencyKey: key,
		Legs:           []domain.Leg{{PartyID: partyID, Amount: decimal.NewFromInt(amount)}},
	})
	if err != nil {
		t.Fatalf("seed posting failed: %v", err)
	}
	return result
}

func clientParty(id string) *domain.Party {
	return &domain.Party{ID: id, Name: "Client " + id, Kind: domain.PartyKindClient}
}

func supplierParty(id string) *domain.Party {
	return &domain.Party{ID: id, Name: "Supplier " + id, Kind: domain.PartyKindSupplier}
}

package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ayansteel/ledger/internal/domain"
)

// BalanceUseCase is the balance aggregator: it answers balance reads from
// the snapshot cache and rebuilds the cache from entry history when stale.
type BalanceUseCase struct {
	txManager    TransactionManager
	partyRepo    PartyRepository
	entryRepo    EntryRepository
	snapshotRepo SnapshotRepository
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(
	txManager TransactionManager,
	partyRepo PartyRepository,
	entryRepo EntryRepository,
	snapshotRepo SnapshotRepository,
) *BalanceUseCase {
	return &BalanceUseCase{
		txManager:    txManager,
		partyRepo:    partyRepo,
		entryRepo:    entryRepo,
		snapshotRepo: snapshotRepo,
	}
}

// CurrentBalance returns the party's running balance. The cached snapshot is
// served when its watermark matches the party's latest entry; otherwise the
// balance is recomputed from history first.
func (uc *BalanceUseCase) CurrentBalance(ctx context.Context, partyID string) (decimal.Decimal, error) {
	if _, err := uc.partyRepo.GetByID(ctx, partyID); err != nil {
		return decimal.Zero, err
	}

	snapshot, err := uc.snapshotRepo.Get(ctx, partyID)
	if err != nil {
		return decimal.Zero, err
	}

	maxSeq, err := uc.entryRepo.MaxSeqByParty(ctx, partyID)
	if err != nil {
		return decimal.Zero, err
	}

	if snapshot.AsOfSeq == maxSeq {
		return snapshot.Balance, nil
	}

	return uc.Recompute(ctx, partyID)
}

// Recompute replays the party's full entry history, rewrites the snapshot,
// and returns the recomputed balance. It runs under the same per-party lock
// as postings so it never reads a half-applied state.
func (uc *BalanceUseCase) Recompute(ctx context.Context, partyID string) (decimal.Decimal, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	defer tx.Rollback(ctx)

	parties, err := uc.partyRepo.GetByIDsForUpdate(ctx, tx, []string{partyID})
	if err != nil {
		return decimal.Zero, err
	}

	if len(parties) != 1 {
		return decimal.Zero, domain.ErrPartyNotFound
	}

	sum, maxSeq, err := uc.entryRepo.SumByPartyTx(ctx, tx, partyID)
	if err != nil {
		return decimal.Zero, err
	}

	snapshot, err := uc.snapshotRepo.GetTx(ctx, tx, partyID)
	if err != nil {
		return decimal.Zero, err
	}

	snapshot.PartyID = partyID
	snapshot.Balance = sum
	snapshot.AsOfSeq = maxSeq

	if err := uc.snapshotRepo.Upsert(ctx, tx, snapshot); err != nil {
		return decimal.Zero, err
	}

	if err := tx.Commit(ctx); err != nil {
		return decimal.Zero, err
	}

	return sum, nil
}

// HistoryInput represents input for listing a party's entries.
type HistoryInput struct {
	PartyID string
	Limit   int
	Offset  int
}

// History lists a party's ledger entries, newest first.
func (uc *BalanceUseCase) History(ctx context.Context, input HistoryInput) ([]*domain.LedgerEntry, error) {
	if _, err := uc.partyRepo.GetByID(ctx, input.PartyID); err != nil {
		return nil, err
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.entryRepo.GetByParty(ctx, input.PartyID, limit, offset)
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ayansteel/ledger/internal/domain"
)

// AuditUseCase verifies cached balances against recomputed history and posts
// compensating reversals. Drift is reported to the operator channel, never
// silently repaired: a non-zero drift means a bug somewhere else.
type AuditUseCase struct {
	txManager    TransactionManager
	partyRepo    PartyRepository
	postingRepo  PostingRepository
	entryRepo    EntryRepository
	stockRepo    StockRepository
	snapshotRepo SnapshotRepository
	outboxRepo   OutboxRepository
	poster       *PostingUseCase
	idGen        IDGenerator
}

// NewAuditUseCase creates a new AuditUseCase.
func NewAuditUseCase(
	txManager TransactionManager,
	partyRepo PartyRepository,
	postingRepo PostingRepository,
	entryRepo EntryRepository,
	stockRepo StockRepository,
	snapshotRepo SnapshotRepository,
	outboxRepo OutboxRepository,
	poster *PostingUseCase,
	idGen IDGenerator,
) *AuditUseCase {
	return &AuditUseCase{
		txManager:    txManager,
		partyRepo:    partyRepo,
		postingRepo:  postingRepo,
		entryRepo:    entryRepo,
		stockRepo:    stockRepo,
		snapshotRepo: snapshotRepo,
		outboxRepo:   outboxRepo,
		poster:       poster,
		idGen:        idGen,
	}
}

// VerifyResult is the outcome of a drift check. Drift is Cached minus
// Computed; OK means the two agree exactly.
type VerifyResult struct {
	PartyID   string
	Cached    decimal.Decimal
	Computed  decimal.Decimal
	Drift     decimal.Decimal
	OK        bool
	CheckedAt time.Time
}

// Verify compares the cached snapshot against a full replay of the party's
// history. It takes the same per-party lock as the poster, so a concurrent
// posting can never make it read a half-updated state.
func (uc *AuditUseCase) Verify(ctx context.Context, partyID string) (*VerifyResult, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	parties, err := uc.partyRepo.GetByIDsForUpdate(ctx, tx, []string{partyID})
	if err != nil {
		return nil, err
	}

	if len(parties) != 1 {
		return nil, domain.ErrPartyNotFound
	}

	snapshot, err := uc.snapshotRepo.GetTx(ctx, tx, partyID)
	if err != nil {
		return nil, err
	}

	sum, _, err := uc.entryRepo.SumByPartyTx(ctx, tx, partyID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	result := &VerifyResult{
		PartyID:   partyID,
		Cached:    snapshot.Balance,
		Computed:  sum,
		Drift:     snapshot.Balance.Sub(sum),
		CheckedAt: now,
	}
	result.OK = result.Drift.IsZero()

	if !result.OK {
		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   partyID,
			AggregateType: domain.AggregateTypeParty,
			EventType:     domain.EventTypeDriftDetected,
			Payload: map[string]any{
				"party_id": partyID,
				"cached":   snapshot.Balance.String(),
				"computed": sum.String(),
				"drift":    result.Drift.String(),
			},
			CreatedAt: now,
		}

		if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return result, nil
}

// VerifyAll runs Verify over every party of the given kinds.
func (uc *AuditUseCase) VerifyAll(ctx context.Context) ([]*VerifyResult, error) {
	var results []*VerifyResult

	for _, kind := range []domain.PartyKind{domain.PartyKindClient, domain.PartyKindSupplier, domain.PartyKindCompany} {
		limit, offset := domain.ValidatePagination(1000, 0)

		parties, err := uc.partyRepo.ListByKind(ctx, kind, limit, offset)
		if err != nil {
			return nil, err
		}

		for _, party := range parties {
			result, err := uc.Verify(ctx, party.ID)
			if err != nil {
				return nil, err
			}

			results = append(results, result)
		}
	}

	return results, nil
}

// Reverse posts a compensating posting for every leg of the original,
// negated, through the normal posting path. History is never deleted; the
// original and its reversal both stay on the ledger. The derived idempotency
// key makes a retried reverse call replay instead of double-reversing, and
// the uniqueness of reversal_of rejects a second reversal under any key.
func (uc *AuditUseCase) Reverse(ctx context.Context, postingID, reason string) (*PostingResult, error) {
	original, err := uc.postingRepo.GetByID(ctx, postingID)
	if err != nil {
		return nil, err
	}

	if original.IsReversal() || original.Kind == domain.EntryKindReversal {
		return nil, domain.ErrReverseReversal
	}

	entries, err := uc.entryRepo.GetByPosting(ctx, postingID)
	if err != nil {
		return nil, err
	}

	legs := make([]domain.Leg, 0, len(entries))

	var stock *StockInput
	for i, entry := range entries {
		legs = append(legs, domain.Leg{
			PartyID: entry.PartyID,
			Amount:  entry.Amount.Neg(),
		})

		if stock == nil {
			m, err := uc.stockRepo.GetByEntry(ctx, entry.ID)
			switch {
			case err == nil:
				negated := m.Negated()
				stock = &StockInput{
					LegIndex:  i,
					Quantity:  negated.Quantity,
					UnitValue: negated.UnitValue,
					Reference: negated.Reference,
				}
			case !errors.Is(err, domain.ErrStockNotFound):
				// Reversing without the compensating movement would leave the
				// stock ledger out of step with the entry ledger for good, so
				// bail out and let the caller retry.
				return nil, fmt.Errorf("load stock movement for entry %s: %w", entry.ID, err)
			}
		}
	}

	return uc.poster.Post(ctx, PostingIntent{
		Kind:           domain.EntryKindReversal,
		IdempotencyKey: ReversalKeyPrefix + postingID,
		Reason:         reason,
		ReversalOf:     &postingID,
		Legs:           legs,
		Stock:          stock,
	})
}

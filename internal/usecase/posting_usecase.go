package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ayansteel/ledger/internal/domain"
)

// PostingUseCase is the single write path of the ledger: every transaction,
// whichever route group it arrives through, becomes a posting here.
type PostingUseCase struct {
	txManager    TransactionManager
	partyRepo    PartyRepository
	postingRepo  PostingRepository
	entryRepo    EntryRepository
	stockRepo    StockRepository
	snapshotRepo SnapshotRepository
	outboxRepo   OutboxRepository
	retrier      Retrier
	idGen        IDGenerator
}

// NewPostingUseCase creates a new PostingUseCase.
func NewPostingUseCase(
	txManager TransactionManager,
	partyRepo PartyRepository,
	postingRepo PostingRepository,
	entryRepo EntryRepository,
	stockRepo StockRepository,
	snapshotRepo SnapshotRepository,
	outboxRepo OutboxRepository,
	retrier Retrier,
	idGen IDGenerator,
) *PostingUseCase {
	return &PostingUseCase{
		txManager:    txManager,
		partyRepo:    partyRepo,
		postingRepo:  postingRepo,
		entryRepo:    entryRepo,
		stockRepo:    stockRepo,
		snapshotRepo: snapshotRepo,
		outboxRepo:   outboxRepo,
		retrier:      retrier,
		idGen:        idGen,
	}
}

// StockInput is the optional inventory side of a posting intent. LegIndex
// names the leg whose entry the movement is linked to.
type StockInput struct {
	LegIndex  int
	Quantity  decimal.Decimal
	UnitValue decimal.Decimal
	Reference string
}

// PostingIntent is a validated transaction intent: one or two legs recorded
// as one atomic unit, plus an optional linked stock movement.
type PostingIntent struct {
	Kind           domain.EntryKind
	IdempotencyKey string
	Reason         string
	ReversalOf     *string
	Legs           []domain.Leg
	Stock          *StockInput
}

// PostingResult is the confirmed outcome of a posting. Replayed is set when
// the intent's idempotency key had already been recorded; the result then
// carries the original posting, entries and balances.
type PostingResult struct {
	Posting  *domain.Posting
	Entries  []*domain.LedgerEntry
	Stock    *domain.StockMovement
	Balances map[string]decimal.Decimal
	Replayed bool
}

// Post validates and durably records a posting intent. All legs and the
// linked stock movement commit as one unit or not at all; a duplicate
// idempotency key returns the original result instead of an error.
func (uc *PostingUseCase) Post(ctx context.Context, intent PostingIntent) (*PostingResult, error) {
	if err := uc.validate(intent); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	var result *PostingResult

	err := uc.retrier.Retry(ctx, func() error {
		r, err := uc.postOnce(ctx, intent)
		if err != nil {
			return err
		}

		result = r

		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateIdempotencyKey) {
			return uc.replay(ctx, intent.IdempotencyKey)
		}

		return nil, err
	}

	return result, nil
}

func (uc *PostingUseCase) validate(intent PostingIntent) error {
	posting := domain.Posting{
		Kind:           intent.Kind,
		IdempotencyKey: intent.IdempotencyKey,
		ReversalOf:     intent.ReversalOf,
	}
	if err := posting.Validate(); err != nil {
		return err
	}

	if err := domain.ValidateLegs(intent.Legs); err != nil {
		return err
	}

	if intent.Stock != nil {
		if intent.Kind == domain.EntryKindPayment {
			return domain.ErrStockNotAllowed
		}

		if intent.Stock.LegIndex < 0 || intent.Stock.LegIndex >= len(intent.Legs) {
			return domain.ErrStockLegOutOfRange
		}

		movement := domain.StockMovement{
			Quantity:  intent.Stock.Quantity,
			UnitValue: intent.Stock.UnitValue,
		}
		if err := movement.Validate(); err != nil {
			return err
		}
	}

	return nil
}

func (uc *PostingUseCase) postOnce(ctx context.Context, intent PostingIntent) (*PostingResult, error) {
	// Lock parties in sorted order (deadlock prevention).
	partyIDs := uc.collectUniquePartyIDs(intent.Legs)
	sort.Strings(partyIDs)

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	parties, err := uc.partyRepo.GetByIDsForUpdate(ctx, tx, partyIDs)
	if err != nil {
		return nil, err
	}

	if len(parties) != len(partyIDs) {
		return nil, domain.ErrPartyNotFound
	}

	now := time.Now().UTC()

	posting := &domain.Posting{
		ID:             uc.idGen.Generate(),
		Kind:           intent.Kind,
		IdempotencyKey: intent.IdempotencyKey,
		ReversalOf:     intent.ReversalOf,
		Reason:         intent.Reason,
		CreatedAt:      now,
	}

	// The unique indexes on idempotency_key and reversal_of decide duplicates
	// here, atomically with respect to concurrent submissions.
	if err := uc.postingRepo.Create(ctx, tx, posting); err != nil {
		return nil, err
	}

	entries := make([]*domain.LedgerEntry, 0, len(intent.Legs))
	balances := make(map[string]decimal.Decimal, len(intent.Legs))

	for _, leg := range intent.Legs {
		snapshot, err := uc.snapshotRepo.GetTx(ctx, tx, leg.PartyID)
		if err != nil {
			return nil, uc.inconsistent(err)
		}

		entry := &domain.LedgerEntry{
			ID:              uc.idGen.Generate(),
			PostingID:       posting.ID,
			PartyID:         leg.PartyID,
			Amount:          leg.Amount,
			PreviousBalance: snapshot.Balance,
			CurrentBalance:  snapshot.Balance.Add(leg.Amount),
			CreatedAt:       now,
		}

		if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
			return nil, uc.inconsistent(err)
		}

		snapshot.PartyID = leg.PartyID
		if err := uc.snapshotRepo.Upsert(ctx, tx, snapshot.Apply(leg.Amount, entry.Seq, now)); err != nil {
			return nil, uc.inconsistent(err)
		}

		entries = append(entries, entry)
		balances[leg.PartyID] = entry.CurrentBalance
	}

	var stock *domain.StockMovement
	if intent.Stock != nil {
		stock = &domain.StockMovement{
			ID:        uc.idGen.Generate(),
			EntryID:   entries[intent.Stock.LegIndex].ID,
			Quantity:  intent.Stock.Quantity,
			UnitValue: intent.Stock.UnitValue,
			Reference: intent.Stock.Reference,
			CreatedAt: now,
		}

		if err := uc.stockRepo.Create(ctx, tx, stock); err != nil {
			return nil, uc.inconsistent(err)
		}
	}

	if err := uc.recordEvent(ctx, tx, posting, len(entries), now); err != nil {
		return nil, uc.inconsistent(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &PostingResult{
		Posting:  posting,
		Entries:  entries,
		Stock:    stock,
		Balances: balances,
	}, nil
}

// replay loads the result of the posting that originally claimed the
// idempotency key. The caller's retry is answered with the original
// entries and the balances they confirmed, never with a second write.
func (uc *PostingUseCase) replay(ctx context.Context, key string) (*PostingResult, error) {
	posting, err := uc.postingRepo.GetByIdempotencyKey(ctx, key)
	if err != nil {
		return nil, err
	}

	entries, err := uc.entryRepo.GetByPosting(ctx, posting.ID)
	if err != nil {
		return nil, err
	}

	balances := make(map[string]decimal.Decimal, len(entries))

	var stock *domain.StockMovement
	for _, entry := range entries {
		balances[entry.PartyID] = entry.CurrentBalance

		if stock == nil {
			m, err := uc.stockRepo.GetByEntry(ctx, entry.ID)
			switch {
			case err == nil:
				stock = m
			case !errors.Is(err, domain.ErrStockNotFound):
				return nil, fmt.Errorf("load stock movement for entry %s: %w", entry.ID, err)
			}
		}
	}

	return &PostingResult{
		Posting:  posting,
		Entries:  entries,
		Stock:    stock,
		Balances: balances,
		Replayed: true,
	}, nil
}

// GetPosting retrieves a posting with its entries.
func (uc *PostingUseCase) GetPosting(ctx context.Context, id string) (*domain.Posting, []*domain.LedgerEntry, error) {
	posting, err := uc.postingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	entries, err := uc.entryRepo.GetByPosting(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return posting, entries, nil
}

func (uc *PostingUseCase) recordEvent(ctx context.Context, tx Transaction, posting *domain.Posting, legs int, now time.Time) error {
	eventType := domain.EventTypePostingRecorded

	payload := map[string]any{
		"posting_id":      posting.ID,
		"kind":            string(posting.Kind),
		"idempotency_key": posting.IdempotencyKey,
		"legs":            legs,
	}

	if posting.ReversalOf != nil {
		eventType = domain.EventTypePostingReversed
		payload["original_posting_id"] = *posting.ReversalOf
		payload["reason"] = posting.Reason
	}

	return uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   posting.ID,
		AggregateType: domain.AggregateTypePosting,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     now,
	})
}

// inconsistent marks a failure after the posting row was accepted: the
// transaction rolls back whole, nothing is persisted, and the error is
// escalated as a defect rather than a user mistake.
func (uc *PostingUseCase) inconsistent(err error) error {
	if errors.Is(err, domain.ErrDuplicateIdempotencyKey) || errors.Is(err, domain.ErrAlreadyReversed) {
		return err
	}

	return fmt.Errorf("%w: %v", domain.ErrInconsistentPosting, err)
}

func (uc *PostingUseCase) collectUniquePartyIDs(legs []domain.Leg) []string {
	seen := make(map[string]bool)

	var ids []string
	for _, leg := range legs {
		if !seen[leg.PartyID] {
			seen[leg.PartyID] = true
			ids = append(ids, leg.PartyID)
		}
	}

	return ids
}

package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ayansteel/ledger/internal/domain"
)

// PartyRepository defines data access for parties.
type PartyRepository interface {
	Create(ctx context.Context, party *domain.Party) error
	GetByID(ctx context.Context, id string) (*domain.Party, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Party, error)
	GetCompany(ctx context.Context) (*domain.Party, error)
	ListByKind(ctx context.Context, kind domain.PartyKind, limit, offset int) ([]*domain.Party, error)
}

// PostingRepository defines data access for postings. Create surfaces
// domain.ErrDuplicateIdempotencyKey and domain.ErrAlreadyReversed when the
// corresponding uniqueness constraints reject the row; the uniqueness check
// lives at the storage boundary, never as an application-level read.
type PostingRepository interface {
	Create(ctx context.Context, tx Transaction, posting *domain.Posting) error
	GetByID(ctx context.Context, id string) (*domain.Posting, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.Posting, error)
}

// EntryRepository defines data access for ledger entries. Create assigns the
// store-wide sequence number to entry.Seq.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	GetByPosting(ctx context.Context, postingID string) ([]*domain.LedgerEntry, error)
	GetByParty(ctx context.Context, partyID string, limit, offset int) ([]*domain.LedgerEntry, error)
	GetByPartyAndKind(ctx context.Context, partyID string, kind domain.EntryKind, limit, offset int) ([]*domain.LedgerEntry, error)
	MaxSeqByParty(ctx context.Context, partyID string) (int64, error)
	SumByParty(ctx context.Context, partyID string) (sum decimal.Decimal, maxSeq int64, err error)
	SumByPartyTx(ctx context.Context, tx Transaction, partyID string) (sum decimal.Decimal, maxSeq int64, err error)
}

// StockRepository defines data access for stock movements.
type StockRepository interface {
	Create(ctx context.Context, tx Transaction, movement *domain.StockMovement) error
	GetByEntry(ctx context.Context, entryID string) (*domain.StockMovement, error)
	List(ctx context.Context, limit, offset int) ([]*domain.StockMovement, error)
}

// SnapshotRepository defines data access for balance snapshots. A party
// without a snapshot row reads as the zero snapshot (balance 0, watermark 0).
type SnapshotRepository interface {
	Get(ctx context.Context, partyID string) (domain.BalanceSnapshot, error)
	GetTx(ctx context.Context, tx Transaction, partyID string) (domain.BalanceSnapshot, error)
	Upsert(ctx context.Context, tx Transaction, snapshot domain.BalanceSnapshot) error
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier retries an operation on transient storage failures
// (deadlock, serialization conflict).
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IdempotencyStore handles HTTP-level idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

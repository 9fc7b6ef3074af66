package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ayansteel/ledger/internal/domain"
	"github.com/ayansteel/ledger/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

// Create inserts an entry within a transaction and fills entry.Seq from the
// store-wide sequence.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	pgxTx := tx.(*Tx).PgxTx()

	return pgxTx.QueryRow(ctx,
		`INSERT INTO ledger_entries
		   (id, posting_id, party_id, amount, previous_balance, current_balance, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING seq`,
		entry.ID, entry.PostingID, entry.PartyID,
		decimalToNumeric(entry.Amount),
		decimalToNumeric(entry.PreviousBalance),
		decimalToNumeric(entry.CurrentBalance),
		timeToPgTimestamptz(entry.CreatedAt),
	).Scan(&entry.Seq)
}

// GetByPosting retrieves the entries of a posting.
func (r *EntryRepository) GetByPosting(ctx context.Context, postingID string) ([]*domain.LedgerEntry, error) {
	rows, err := r.pool.Query(ctx,
		entrySelect+` WHERE posting_id = $1 ORDER BY seq`, postingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// GetByParty retrieves a party's entries, newest first.
func (r *EntryRepository) GetByParty(ctx context.Context, partyID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	rows, err := r.pool.Query(ctx,
		entrySelect+` WHERE party_id = $1 ORDER BY seq DESC LIMIT $2 OFFSET $3`,
		partyID, int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// GetByPartyAndKind retrieves a party's entries of one posting kind, newest
// first.
func (r *EntryRepository) GetByPartyAndKind(ctx context.Context, partyID string, kind domain.EntryKind, limit, offset int) ([]*domain.LedgerEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT e.id, e.posting_id, e.party_id, e.amount, e.previous_balance, e.current_balance, e.seq, e.created_at
		 FROM ledger_entries e
		 JOIN postings p ON p.id = e.posting_id
		 WHERE e.party_id = $1 AND p.kind = $2
		 ORDER BY e.seq DESC LIMIT $3 OFFSET $4`,
		partyID, string(kind), int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// MaxSeqByParty returns the party's highest entry sequence, zero when the
// party has no entries.
func (r *EntryRepository) MaxSeqByParty(ctx context.Context, partyID string) (int64, error) {
	var maxSeq int64

	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(seq), 0) FROM ledger_entries WHERE party_id = $1`, partyID,
	).Scan(&maxSeq)

	return maxSeq, err
}

// SumByParty replays the party's full history outside a transaction.
func (r *EntryRepository) SumByParty(ctx context.Context, partyID string) (decimal.Decimal, int64, error) {
	return sumByParty(ctx, r.pool, partyID)
}

// SumByPartyTx replays the party's full history within a transaction, under
// whatever locks the caller holds.
func (r *EntryRepository) SumByPartyTx(ctx context.Context, tx usecase.Transaction, partyID string) (decimal.Decimal, int64, error) {
	return sumByParty(ctx, tx.(*Tx).PgxTx(), partyID)
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func sumByParty(ctx context.Context, q queryRower, partyID string) (decimal.Decimal, int64, error) {
	var (
		sum    pgtype.Numeric
		maxSeq int64
	)

	err := q.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0), COALESCE(MAX(seq), 0)
		 FROM ledger_entries WHERE party_id = $1`, partyID,
	).Scan(&sum, &maxSeq)
	if err != nil {
		return decimal.Zero, 0, err
	}

	return numericToDecimal(sum), maxSeq, nil
}

const entrySelect = `SELECT id, posting_id, party_id, amount, previous_balance, current_balance, seq, created_at
	 FROM ledger_entries`

func scanEntries(rows pgx.Rows) ([]*domain.LedgerEntry, error) {
	var entries []*domain.LedgerEntry

	for rows.Next() {
		var (
			e                 domain.LedgerEntry
			amount, prev, cur pgtype.Numeric
			createdAt         pgtype.Timestamptz
		)

		if err := rows.Scan(&e.ID, &e.PostingID, &e.PartyID, &amount, &prev, &cur, &e.Seq, &createdAt); err != nil {
			return nil, err
		}

		e.Amount = numericToDecimal(amount)
		e.PreviousBalance = numericToDecimal(prev)
		e.CurrentBalance = numericToDecimal(cur)
		e.CreatedAt = createdAt.Time

		entries = append(entries, &e)
	}

	return entries, rows.Err()
}

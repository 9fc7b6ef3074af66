package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ayansteel/ledger/internal/domain"
	"github.com/ayansteel/ledger/internal/usecase"
)

// SnapshotRepository implements usecase.SnapshotRepository.
type SnapshotRepository struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepository creates a new SnapshotRepository.
func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

// Get retrieves a party's balance snapshot. A party without a snapshot row
// reads as the zero snapshot.
func (r *SnapshotRepository) Get(ctx context.Context, partyID string) (domain.BalanceSnapshot, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT party_id, balance, as_of_seq, updated_at
		 FROM balance_snapshots WHERE party_id = $1`, partyID)

	return scanSnapshot(row, partyID)
}

// GetTx retrieves a party's balance snapshot within a transaction.
func (r *SnapshotRepository) GetTx(ctx context.Context, tx usecase.Transaction, partyID string) (domain.BalanceSnapshot, error) {
	row := tx.(*Tx).PgxTx().QueryRow(ctx,
		`SELECT party_id, balance, as_of_seq, updated_at
		 FROM balance_snapshots WHERE party_id = $1`, partyID)

	return scanSnapshot(row, partyID)
}

// Upsert writes a party's balance snapshot within a transaction.
func (r *SnapshotRepository) Upsert(ctx context.Context, tx usecase.Transaction, snapshot domain.BalanceSnapshot) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx,
		`INSERT INTO balance_snapshots (party_id, balance, as_of_seq, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (party_id) DO UPDATE
		   SET balance = EXCLUDED.balance,
		       as_of_seq = EXCLUDED.as_of_seq,
		       updated_at = EXCLUDED.updated_at`,
		snapshot.PartyID, decimalToNumeric(snapshot.Balance),
		snapshot.AsOfSeq, timeToPgTimestamptz(snapshot.UpdatedAt),
	)

	return err
}

func scanSnapshot(row pgx.Row, partyID string) (domain.BalanceSnapshot, error) {
	var (
		s         domain.BalanceSnapshot
		balance   pgtype.Numeric
		updatedAt pgtype.Timestamptz
	)

	if err := row.Scan(&s.PartyID, &balance, &s.AsOfSeq, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.BalanceSnapshot{PartyID: partyID, Balance: decimal.Zero}, nil
		}

		return domain.BalanceSnapshot{}, err
	}

	s.Balance = numericToDecimal(balance)
	s.UpdatedAt = updatedAt.Time

	return s, nil
}

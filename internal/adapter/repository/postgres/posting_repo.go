package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayansteel/ledger/internal/domain"
	"github.com/ayansteel/ledger/internal/usecase"
)

// PostingRepository implements usecase.PostingRepository.
type PostingRepository struct {
	pool *pgxpool.Pool
}

// NewPostingRepository creates a new PostingRepository.
func NewPostingRepository(pool *pgxpool.Pool) *PostingRepository {
	return &PostingRepository{pool: pool}
}

// Create inserts a posting within a transaction. The unique indexes decide
// duplicates: a taken idempotency key maps to ErrDuplicateIdempotencyKey, a
// taken reversal target to ErrAlreadyReversed.
func (r *PostingRepository) Create(ctx context.Context, tx usecase.Transaction, posting *domain.Posting) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx,
		`INSERT INTO postings (id, kind, idempotency_key, reversal_of, reason, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		posting.ID, string(posting.Kind), posting.IdempotencyKey,
		posting.ReversalOf, posting.Reason, timeToPgTimestamptz(posting.CreatedAt),
	)
	if isUniqueViolation(err, "postings_idempotency_key_key") {
		return domain.ErrDuplicateIdempotencyKey
	}
	if isUniqueViolation(err, "postings_reversal_of_key") {
		return domain.ErrAlreadyReversed
	}

	return err
}

// GetByID retrieves a posting by ID.
func (r *PostingRepository) GetByID(ctx context.Context, id string) (*domain.Posting, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, kind, idempotency_key, reversal_of, reason, created_at
		 FROM postings WHERE id = $1`, id)

	return scanPosting(row)
}

// GetByIdempotencyKey retrieves the posting that claimed an idempotency key.
func (r *PostingRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Posting, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, kind, idempotency_key, reversal_of, reason, created_at
		 FROM postings WHERE idempotency_key = $1`, key)

	return scanPosting(row)
}

func scanPosting(row pgx.Row) (*domain.Posting, error) {
	var (
		p         domain.Posting
		kind      string
		createdAt pgtype.Timestamptz
	)

	if err := row.Scan(&p.ID, &kind, &p.IdempotencyKey, &p.ReversalOf, &p.Reason, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPostingNotFound
		}

		return nil, err
	}

	p.Kind = domain.EntryKind(kind)
	p.CreatedAt = createdAt.Time

	return &p, nil
}

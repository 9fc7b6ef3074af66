package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ayansteel/ledger/internal/domain"
	"github.com/ayansteel/ledger/internal/usecase"
)

// PartyRepository implements usecase.PartyRepository.
type PartyRepository struct {
	pool *pgxpool.Pool
}

// NewPartyRepository creates a new PartyRepository.
func NewPartyRepository(pool *pgxpool.Pool) *PartyRepository {
	return &PartyRepository{pool: pool}
}

// Create creates a new party. The partial unique index on kind rejects a
// second company party.
func (r *PartyRepository) Create(ctx context.Context, party *domain.Party) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO parties (id, name, kind, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		party.ID, party.Name, string(party.Kind),
		timeToPgTimestamptz(party.CreatedAt), timeToPgTimestamptz(party.UpdatedAt),
	)
	if isUniqueViolation(err, "parties_single_company_idx") {
		return domain.ErrCompanyExists
	}

	return err
}

// GetByID retrieves a party by ID.
func (r *PartyRepository) GetByID(ctx context.Context, id string) (*domain.Party, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, name, kind, created_at, updated_at FROM parties WHERE id = $1`, id)

	return scanParty(row)
}

// GetByIDsForUpdate retrieves parties by IDs with FOR UPDATE locks. Callers
// pass the IDs sorted so concurrent postings lock in the same order.
func (r *PartyRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Party, error) {
	pgxTx := tx.(*Tx).PgxTx()

	rows, err := pgxTx.Query(ctx,
		`SELECT id, name, kind, created_at, updated_at FROM parties
		 WHERE id = ANY($1) ORDER BY id FOR UPDATE`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanParties(rows)
}

// GetCompany retrieves the single company party.
func (r *PartyRepository) GetCompany(ctx context.Context) (*domain.Party, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, name, kind, created_at, updated_at FROM parties WHERE kind = 'company'`)

	return scanParty(row)
}

// ListByKind lists parties of one kind with pagination.
func (r *PartyRepository) ListByKind(ctx context.Context, kind domain.PartyKind, limit, offset int) ([]*domain.Party, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, kind, created_at, updated_at FROM parties
		 WHERE kind = $1 ORDER BY name, id LIMIT $2 OFFSET $3`,
		string(kind), int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanParties(rows)
}

func scanParty(row pgx.Row) (*domain.Party, error) {
	var (
		p         domain.Party
		kind      string
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	if err := row.Scan(&p.ID, &p.Name, &kind, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPartyNotFound
		}

		return nil, err
	}

	p.Kind = domain.PartyKind(kind)
	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return &p, nil
}

func scanParties(rows pgx.Rows) ([]*domain.Party, error) {
	var parties []*domain.Party

	for rows.Next() {
		p, err := scanParty(rows)
		if err != nil {
			return nil, err
		}

		parties = append(parties, p)
	}

	return parties, rows.Err()
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

// isUniqueViolation reports whether err is a unique violation on the named
// constraint or index.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgErrUniqueViolation && pgErr.ConstraintName == constraint
	}

	return false
}

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

// StockRepository implements usecase.StockRepository.
type StockRepository struct {
	pool *pgxpool.Pool
}

// NewStockRepository creates a new StockRepository.
func NewStockRepository(pool *pgxpool.Pool) *StockRepository {
	return &StockRepository{pool: pool}
}

// Create inserts a stock movement within a transaction. The unique index on
// entry_id keeps it one movement per entry.
func (r *StockRepository) Create(ctx context.Context, tx usecase.Transaction, movement *domain.StockMovement) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx,
		`INSERT INTO stock_movements (id, entry_id, quantity, unit_value, reference, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		movement.ID, movement.EntryID,
		decimalToNumeric(movement.Quantity), decimalToNumeric(movement.UnitValue),
		movement.Reference, timeToPgTimestamptz(movement.CreatedAt),
	)

	return err
}

// GetByEntry retrieves the stock movement linked to an entry.
func (r *StockRepository) GetByEntry(ctx context.Context, entryID string) (*domain.StockMovement, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, entry_id, quantity, unit_value, reference, created_at
		 FROM stock_movements WHERE entry_id = $1`, entryID)

	return scanStockMovement(row)
}

// List lists stock movements, newest first.
func (r *StockRepository) List(ctx context.Context, limit, offset int) ([]*domain.StockMovement, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, entry_id, quantity, unit_value, reference, created_at
		 FROM stock_movements ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`,
		int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movements []*domain.StockMovement

	for rows.Next() {
		m, err := scanStockMovement(rows)
		if err != nil {
			return nil, err
		}

		movements = append(movements, m)
	}

	return movements, rows.Err()
}

func scanStockMovement(row pgx.Row) (*domain.StockMovement, error) {
	var (
		m                   domain.StockMovement
		quantity, unitValue pgtype.Numeric
		createdAt           pgtype.Timestamptz
	)

	if err := row.Scan(&m.ID, &m.EntryID, &quantity, &unitValue, &m.Reference, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStockNotFound
		}

		return nil, err
	}

	m.Quantity = numericToDecimal(quantity)
	m.UnitValue = numericToDecimal(unitValue)
	m.CreatedAt = createdAt.Time

	return &m, nil
}

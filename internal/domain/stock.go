package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockMovement records the inventory side of a stock-affecting posting.
// At most one movement exists per ledger entry; purely financial entries
// have none. Quantity is signed: positive into stock, negative out.
type StockMovement struct {
	ID        string
	EntryID   string
	Quantity  decimal.Decimal
	UnitValue decimal.Decimal
	Reference string
	CreatedAt time.Time
}

// Validate checks movement invariants.
func (m *StockMovement) Validate() error {
	if m.Quantity.IsZero() {
		return ErrInvalidQuantity
	}
	if m.UnitValue.IsNegative() {
		return ErrInvalidUnitValue
	}
	return nil
}

// Negated returns the compensating movement for a reversal, carrying the
// opposite quantity at the same unit value.
func (m *StockMovement) Negated() StockMovement {
	return StockMovement{
		Quantity:  m.Quantity.Neg(),
		UnitValue: m.UnitValue,
		Reference: m.Reference,
	}
}

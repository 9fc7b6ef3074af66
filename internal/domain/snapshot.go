package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceSnapshot is the cached running balance of a party as of a ledger
// sequence number. It is derived state: recomputing the sum of all entries
// with seq <= AsOfSeq must reproduce Balance exactly. It is never a source
// of truth.
type BalanceSnapshot struct {
	PartyID   string
	Balance   decimal.Decimal
	AsOfSeq   int64
	UpdatedAt time.Time
}

// Apply returns the snapshot advanced by one entry delta.
func (s BalanceSnapshot) Apply(amount decimal.Decimal, seq int64, at time.Time) BalanceSnapshot {
	return BalanceSnapshot{
		PartyID:   s.PartyID,
		Balance:   s.Balance.Add(amount),
		AsOfSeq:   seq,
		UpdatedAt: at,
	}
}

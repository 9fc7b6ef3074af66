package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is one immutable signed transaction record against a party.
// Entries are never updated or deleted; corrections are new entries created
// by a reversal posting. Seq is assigned by the store and is strictly
// increasing across the whole ledger.
type LedgerEntry struct {
	CreatedAt       time.Time
	ID              string
	PostingID       string
	PartyID         string
	Amount          decimal.Decimal
	PreviousBalance decimal.Decimal
	CurrentBalance  decimal.Decimal
	Seq             int64
}

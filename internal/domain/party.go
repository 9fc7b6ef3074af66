package domain

import (
	"time"
)

// PartyKind distinguishes the three ledgers the engine tracks.
type PartyKind string

const (
	PartyKindClient   PartyKind = "client"
	PartyKindSupplier PartyKind = "supplier"
	PartyKindCompany  PartyKind = "company"
)

// Valid reports whether the kind is one of the enumerated values.
func (k PartyKind) Valid() bool {
	switch k {
	case PartyKindClient, PartyKindSupplier, PartyKindCompany:
		return true
	}
	return false
}

// Party is a client, a supplier, or the company itself. Its current balance
// lives in a BalanceSnapshot owned by the aggregator, never on the party row.
type Party struct {
	ID        string
	Name      string
	Kind      PartyKind
	CreatedAt time.Time
	UpdatedAt time.Time
}

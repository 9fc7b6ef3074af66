package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind classifies a posting and the entries it creates.
type EntryKind string

const (
	EntryKindSale       EntryKind = "sale"
	EntryKindPayment    EntryKind = "payment"
	EntryKindAdjustment EntryKind = "adjustment"
	EntryKindReversal   EntryKind = "reversal"
)

// Valid reports whether the kind is one of the enumerated values.
func (k EntryKind) Valid() bool {
	switch k {
	case EntryKindSale, EntryKindPayment, EntryKindAdjustment, EntryKindReversal:
		return true
	}
	return false
}

// Posting is one atomically recorded transaction intent: one or two ledger
// entries plus an optional stock movement. The idempotency key is unique
// across all postings; ReversalOf points at the posting it compensates.
type Posting struct {
	ID             string
	Kind           EntryKind
	IdempotencyKey string
	ReversalOf     *string
	Reason         string
	CreatedAt      time.Time
}

// IsReversal reports whether this posting is itself a reversal.
func (p *Posting) IsReversal() bool {
	return p.ReversalOf != nil
}

// Validate checks posting-level invariants.
func (p *Posting) Validate() error {
	if !p.Kind.Valid() {
		return ErrInvalidKind
	}
	if p.Kind == EntryKindReversal && p.ReversalOf == nil {
		return ErrInvalidKind
	}
	return ValidateIdempotencyKey(p.IdempotencyKey)
}

// Leg is one party-side amount of a posting intent. A positive amount
// increases the party's balance, a negative amount decreases it.
type Leg struct {
	PartyID string
	Amount  decimal.Decimal
}

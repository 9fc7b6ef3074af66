package domain

import "errors"

var (
	// Party errors
	ErrPartyNotFound    = errors.New("party not found")
	ErrInvalidPartyKind = errors.New("invalid party kind")
	ErrCompanyExists    = errors.New("company party already exists")

	// Posting errors
	ErrInvalidAmount           = errors.New("amount must be non-zero")
	ErrInvalidKind             = errors.New("invalid entry kind")
	ErrMissingIdempotencyKey   = errors.New("idempotency key is required")
	ErrDuplicateIdempotencyKey = errors.New("idempotency key already used")
	ErrPostingNotFound         = errors.New("posting not found")
	ErrAsymmetricLegs          = errors.New("multi-leg posting must move the same amount through each ledger")
	ErrInconsistentPosting     = errors.New("posting could not be committed atomically")

	// Reversal errors
	ErrAlreadyReversed = errors.New("posting already reversed")
	ErrReverseReversal = errors.New("cannot reverse a reversal posting")

	// Stock errors
	ErrStockNotFound      = errors.New("stock movement not found")
	ErrInvalidQuantity    = errors.New("stock quantity must be non-zero")
	ErrInvalidUnitValue   = errors.New("stock unit value must not be negative")
	ErrStockNotAllowed    = errors.New("payment postings cannot carry a stock movement")
	ErrStockLegOutOfRange = errors.New("stock movement references a leg that does not exist")

	// Reconciliation errors
	ErrBalanceDrift = errors.New("cached balance drifts from recomputed history")
)

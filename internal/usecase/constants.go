package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction.
	// This prevents long-running postings from blocking party rows.
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long replayed HTTP responses are cached.
	IdempotencyKeyTTL = 24 * time.Hour

	// ReversalKeyPrefix derives the idempotency key of a reversal from the
	// posting it compensates, so retried reverse calls replay instead of
	// double-reversing.
	ReversalKeyPrefix = "rev:"
)

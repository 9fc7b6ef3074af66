package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidPartyName      = errors.New("invalid party name")
	ErrInvalidIdempotencyKey = errors.New("invalid idempotency key")
	ErrAmountTooLarge        = errors.New("amount exceeds maximum allowed")
)

// Validation constants
const (
	MaxPartyNameLength = 255
	MinPartyNameLength = 1

	MaxIdempotencyKeyLength = 128

	MaxPostingAmount = "1000000000000" // 1 trillion
)

var idempotencyKeyRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:-]*$`)

// ValidatePartyName validates a party display name.
func ValidatePartyName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) < MinPartyNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidPartyName)
	}

	if len(name) > MaxPartyNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidPartyName, MaxPartyNameLength)
	}

	return nil
}

// ValidateIdempotencyKey validates a caller-supplied idempotency key.
func ValidateIdempotencyKey(key string) error {
	if key == "" {
		return ErrMissingIdempotencyKey
	}

	if len(key) > MaxIdempotencyKeyLength {
		return fmt.Errorf("%w: key exceeds %d characters", ErrInvalidIdempotencyKey, MaxIdempotencyKeyLength)
	}

	if !idempotencyKeyRegex.MatchString(key) {
		return fmt.Errorf("%w: key contains forbidden characters", ErrInvalidIdempotencyKey)
	}

	return nil
}

// ValidateLegAmount validates a single leg amount.
func ValidateLegAmount(amount decimal.Decimal) error {
	if amount.IsZero() {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxPostingAmount)
	if amount.Abs().GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxPostingAmount)
	}

	return nil
}

// ValidateLegs validates the leg set of a posting intent. A posting carries
// one or two legs; with two legs the same absolute amount must move through
// both ledgers (a sale raises what the client owes and the company's
// receivables by the same value).
func ValidateLegs(legs []Leg) error {
	if len(legs) < 1 || len(legs) > 2 {
		return fmt.Errorf("%w: posting must carry one or two legs", ErrInvalidAmount)
	}

	for _, leg := range legs {
		if leg.PartyID == "" {
			return ErrPartyNotFound
		}

		if err := ValidateLegAmount(leg.Amount); err != nil {
			return err
		}
	}

	if len(legs) == 2 {
		if legs[0].PartyID == legs[1].PartyID {
			return fmt.Errorf("%w: legs must target distinct parties", ErrAsymmetricLegs)
		}

		if !legs[0].Amount.Abs().Equal(legs[1].Amount.Abs()) {
			return ErrAsymmetricLegs
		}
	}

	return nil
}

// ValidatePagination clamps pagination parameters to sane bounds.
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}

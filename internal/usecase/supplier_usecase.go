package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ayansteel/ledger/internal/domain"
)

// SupplierPaymentUseCase translates supplier cash-out requests into posting
// intents. A supplier's balance is what the company owes it: a payment
// decreases that debt, a credit note increases it. No state of its own.
type SupplierPaymentUseCase struct {
	partyRepo PartyRepository
	entryRepo EntryRepository
	poster    *PostingUseCase
}

// NewSupplierPaymentUseCase creates a new SupplierPaymentUseCase.
func NewSupplierPaymentUseCase(
	partyRepo PartyRepository,
	entryRepo EntryRepository,
	poster *PostingUseCase,
) *SupplierPaymentUseCase {
	return &SupplierPaymentUseCase{
		partyRepo: partyRepo,
		entryRepo: entryRepo,
		poster:    poster,
	}
}

// RecordPaymentInput represents a supplier payment or credit note.
// Amount is always given positive; CreditNote flips the direction.
type RecordPaymentInput struct {
	SupplierID     string
	Amount         decimal.Decimal
	IdempotencyKey string
	Reference      string
	CreditNote     bool
}

// RecordPayment posts the payment through the shared poster, inheriting its
// idempotency, atomicity and locking guarantees unchanged.
func (uc *SupplierPaymentUseCase) RecordPayment(ctx context.Context, input RecordPaymentInput) (*PostingResult, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: payment amount must be positive", domain.ErrInvalidAmount)
	}

	supplier, err := uc.partyRepo.GetByID(ctx, input.SupplierID)
	if err != nil {
		return nil, err
	}

	if supplier.Kind != domain.PartyKindSupplier {
		return nil, fmt.Errorf("%w: party %s is not a supplier", domain.ErrInvalidPartyKind, input.SupplierID)
	}

	amount := input.Amount.Neg()
	if input.CreditNote {
		amount = input.Amount
	}

	return uc.poster.Post(ctx, PostingIntent{
		Kind:           domain.EntryKindPayment,
		IdempotencyKey: input.IdempotencyKey,
		Reason:         input.Reference,
		Legs: []domain.Leg{
			{PartyID: input.SupplierID, Amount: amount},
		},
	})
}

// ListPaymentsInput represents input for listing supplier payments.
type ListPaymentsInput struct {
	SupplierID string
	Limit      int
	Offset     int
}

// ListPayments lists a supplier's payment entries, newest first.
func (uc *SupplierPaymentUseCase) ListPayments(ctx context.Context, input ListPaymentsInput) ([]*domain.LedgerEntry, error) {
	supplier, err := uc.partyRepo.GetByID(ctx, input.SupplierID)
	if err != nil {
		return nil, err
	}

	if supplier.Kind != domain.PartyKindSupplier {
		return nil, fmt.Errorf("%w: party %s is not a supplier", domain.ErrInvalidPartyKind, input.SupplierID)
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.entryRepo.GetByPartyAndKind(ctx, input.SupplierID, domain.EntryKindPayment, limit, offset)
}

package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/ayansteel/ledger/internal/domain"
)

// CompanyPartyName is the display name of the bootstrap company party.
const CompanyPartyName = "Company"

// PartyUseCase handles party management.
type PartyUseCase struct {
	partyRepo PartyRepository
	idGen     IDGenerator
}

// NewPartyUseCase creates a new PartyUseCase.
func NewPartyUseCase(partyRepo PartyRepository, idGen IDGenerator) *PartyUseCase {
	return &PartyUseCase{
		partyRepo: partyRepo,
		idGen:     idGen,
	}
}

// CreatePartyInput represents input for creating a party.
type CreatePartyInput struct {
	Name string
	Kind domain.PartyKind
}

// CreateParty creates a new client or supplier ledger. Only one company
// party may exist; the storage constraint enforces that under concurrency.
func (uc *PartyUseCase) CreateParty(ctx context.Context, input CreatePartyInput) (*domain.Party, error) {
	if err := domain.ValidatePartyName(input.Name); err != nil {
		return nil, err
	}

	if !input.Kind.Valid() {
		return nil, domain.ErrInvalidPartyKind
	}

	now := time.Now().UTC()

	party := &domain.Party{
		ID:        uc.idGen.Generate(),
		Name:      input.Name,
		Kind:      input.Kind,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.partyRepo.Create(ctx, party); err != nil {
		return nil, err
	}

	return party, nil
}

// GetParty retrieves a party by ID.
func (uc *PartyUseCase) GetParty(ctx context.Context, id string) (*domain.Party, error) {
	return uc.partyRepo.GetByID(ctx, id)
}

// ListPartiesInput represents input for listing parties.
type ListPartiesInput struct {
	Kind   domain.PartyKind
	Limit  int
	Offset int
}

// ListParties lists parties of one kind.
func (uc *PartyUseCase) ListParties(ctx context.Context, input ListPartiesInput) ([]*domain.Party, error) {
	if !input.Kind.Valid() {
		return nil, domain.ErrInvalidPartyKind
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.partyRepo.ListByKind(ctx, input.Kind, limit, offset)
}

// EnsureCompany returns the company party, creating it on first use.
// Safe to call concurrently: a lost creation race falls back to the winner.
func (uc *PartyUseCase) EnsureCompany(ctx context.Context) (*domain.Party, error) {
	company, err := uc.partyRepo.GetCompany(ctx)
	if err == nil {
		return company, nil
	}

	if !errors.Is(err, domain.ErrPartyNotFound) {
		return nil, err
	}

	company, err = uc.CreateParty(ctx, CreatePartyInput{
		Name: CompanyPartyName,
		Kind: domain.PartyKindCompany,
	})
	if err != nil {
		if errors.Is(err, domain.ErrCompanyExists) {
			return uc.partyRepo.GetCompany(ctx)
		}

		return nil, err
	}

	return company, nil
}

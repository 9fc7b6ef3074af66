package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ayansteel/ledger/internal/domain"
	"github.com/ayansteel/ledger/internal/usecase"
)

// MockTx is a no-op transaction that releases the manager's lock exactly
// once, whether committed or rolled back.
type MockTx struct {
	release func()
	once    sync.Once

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (t *MockTx) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		if err := t.CommitFunc(ctx); err != nil {
			return err
		}
	}
	t.unlock()
	return nil
}

func (t *MockTx) Rollback(ctx context.Context) error {
	if t.RollbackFunc != nil {
		if err := t.RollbackFunc(ctx); err != nil {
			return err
		}
	}
	t.unlock()
	return nil
}

func (t *MockTx) unlock() {
	if t.release != nil {
		t.once.Do(t.release)
	}
}

// MockTransactionManager serializes transactions with one mutex, standing in
// for the row locks the real store takes.
type MockTransactionManager struct {
	mu sync.Mutex

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	return &MockTx{release: m.mu.Unlock}, nil
}

// MockPartyRepository is an in-memory PartyRepository.
type MockPartyRepository struct {
	mu      sync.RWMutex
	parties map[string]*domain.Party

	CreateFunc            func(ctx context.Context, party *domain.Party) error
	GetByIDFunc           func(ctx context.Context, id string) (*domain.Party, error)
	GetByIDsForUpdateFunc func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Party, error)
	GetCompanyFunc        func(ctx context.Context) (*domain.Party, error)
	ListByKindFunc        func(ctx context.Context, kind domain.PartyKind, limit, offset int) ([]*domain.Party, error)
}

func NewMockPartyRepository() *MockPartyRepository {
	return &MockPartyRepository{parties: make(map[string]*domain.Party)}
}

// Seed registers a party directly, bypassing validation.
func (m *MockPartyRepository) Seed(parties ...*domain.Party) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range parties {
		m.parties[p.ID] = p
	}
}

func (m *MockPartyRepository) Create(ctx context.Context, party *domain.Party) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, party)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if party.Kind == domain.PartyKindCompany {
		for _, p := range m.parties {
			if p.Kind == domain.PartyKindCompany {
				return domain.ErrCompanyExists
			}
		}
	}
	m.parties[party.ID] = party
	return nil
}

func (m *MockPartyRepository) GetByID(ctx context.Context, id string) (*domain.Party, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.parties[id]; ok {
		return p, nil
	}
	return nil, domain.ErrPartyNotFound
}

func (m *MockPartyRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Party, error) {
	if m.GetByIDsForUpdateFunc != nil {
		return m.GetByIDsForUpdateFunc(ctx, tx, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	parties := make([]*domain.Party, 0, len(ids))
	for _, id := range ids {
		if p, ok := m.parties[id]; ok {
			parties = append(parties, p)
		}
	}
	return parties, nil
}

func (m *MockPartyRepository) GetCompany(ctx context.Context) (*domain.Party, error) {
	if m.GetCompanyFunc != nil {
		return m.GetCompanyFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.parties {
		if p.Kind == domain.PartyKindCompany {
			return p, nil
		}
	}
	return nil, domain.ErrPartyNotFound
}

func (m *MockPartyRepository) ListByKind(ctx context.Context, kind domain.PartyKind, limit, offset int) ([]*domain.Party, error) {
	if m.ListByKindFunc != nil {
		return m.ListByKindFunc(ctx, kind, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var parties []*domain.Party
	for _, p := range m.parties {
		if p.Kind == kind {
			parties = append(parties, p)
		}
	}
	sort.Slice(parties, func(i, j int) bool { return parties[i].ID < parties[j].ID })
	if offset >= len(parties) {
		return nil, nil
	}
	end := offset + limit
	if end > len(parties) {
		end = len(parties)
	}
	return parties[offset:end], nil
}

// MockPostingRepository is an in-memory PostingRepository enforcing the
// idempotency-key and reversal-target uniqueness constraints.
type MockPostingRepository struct {
	mu       sync.RWMutex
	postings map[string]*domain.Posting
	byKey    map[string]string
	reversed map[string]string

	CreateFunc              func(ctx context.Context, tx usecase.Transaction, posting *domain.Posting) error
	GetByIDFunc             func(ctx context.Context, id string) (*domain.Posting, error)
	GetByIdempotencyKeyFunc func(ctx context.Context, key string) (*domain.Posting, error)
}

func NewMockPostingRepository() *MockPostingRepository {
	return &MockPostingRepository{
		postings: make(map[string]*domain.Posting),
		byKey:    make(map[string]string),
		reversed: make(map[string]string),
	}
}

func (m *MockPostingRepository) Create(ctx context.Context, tx usecase.Transaction, posting *domain.Posting) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, posting)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byKey[posting.IdempotencyKey]; ok {
		return domain.ErrDuplicateIdempotencyKey
	}
	if posting.ReversalOf != nil {
		if _, ok := m.reversed[*posting.ReversalOf]; ok {
			return domain.ErrAlreadyReversed
		}
		m.reversed[*posting.ReversalOf] = posting.ID
	}
	m.postings[posting.ID] = posting
	m.byKey[posting.IdempotencyKey] = posting.ID
	return nil
}

func (m *MockPostingRepository) GetByID(ctx context.Context, id string) (*domain.Posting, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.postings[id]; ok {
		return p, nil
	}
	return nil, domain.ErrPostingNotFound
}

func (m *MockPostingRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Posting, error) {
	if m.GetByIdempotencyKeyFunc != nil {
		return m.GetByIdempotencyKeyFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id, ok := m.byKey[key]; ok {
		return m.postings[id], nil
	}
	return nil, domain.ErrPostingNotFound
}

// MockEntryRepository is an in-memory EntryRepository with a store-wide
// sequence counter.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries []*domain.LedgerEntry
	seq     int64
	kindOf  func(postingID string) domain.EntryKind

	CreateFunc            func(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error
	GetByPostingFunc      func(ctx context.Context, postingID string) ([]*domain.LedgerEntry, error)
	GetByPartyFunc        func(ctx context.Context, partyID string, limit, offset int) ([]*domain.LedgerEntry, error)
	GetByPartyAndKindFunc func(ctx context.Context, partyID string, kind domain.EntryKind, limit, offset int) ([]*domain.LedgerEntry, error)
	MaxSeqByPartyFunc     func(ctx context.Context, partyID string) (int64, error)
	SumByPartyFunc        func(ctx context.Context, partyID string) (decimal.Decimal, int64, error)
	SumByPartyTxFunc      func(ctx context.Context, tx usecase.Transaction, partyID string) (decimal.Decimal, int64, error)
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{}
}

// LinkPostings lets kind-filtered queries resolve a posting's kind.
func (m *MockEntryRepository) LinkPostings(postings *MockPostingRepository) {
	m.kindOf = func(postingID string) domain.EntryKind {
		p, err := postings.GetByID(context.Background(), postingID)
		if err != nil {
			return ""
		}
		return p.Kind
	}
}

func (m *MockEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	entry.Seq = m.seq
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockEntryRepository) GetByPosting(ctx context.Context, postingID string) ([]*domain.LedgerEntry, error) {
	if m.GetByPostingFunc != nil {
		return m.GetByPostingFunc(ctx, postingID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.LedgerEntry
	for _, e := range m.entries {
		if e.PostingID == postingID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockEntryRepository) GetByParty(ctx context.Context, partyID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	if m.GetByPartyFunc != nil {
		return m.GetByPartyFunc(ctx, partyID, limit, offset)
	}
	return m.filter(partyID, "", limit, offset), nil
}

func (m *MockEntryRepository) GetByPartyAndKind(ctx context.Context, partyID string, kind domain.EntryKind, limit, offset int) ([]*domain.LedgerEntry, error) {
	if m.GetByPartyAndKindFunc != nil {
		return m.GetByPartyAndKindFunc(ctx, partyID, kind, limit, offset)
	}
	return m.filter(partyID, kind, limit, offset), nil
}

func (m *MockEntryRepository) filter(partyID string, kind domain.EntryKind, limit, offset int) []*domain.LedgerEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var matched []*domain.LedgerEntry
	for _, e := range m.entries {
		if e.PartyID != partyID {
			continue
		}
		if kind != "" && (m.kindOf == nil || m.kindOf(e.PostingID) != kind) {
			continue
		}
		matched = append(matched, e)
	}
	// newest first
	sort.Slice(matched, func(i, j int) bool { return matched[i].Seq > matched[j].Seq })
	if offset >= len(matched) {
		return nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end]
}

func (m *MockEntryRepository) MaxSeqByParty(ctx context.Context, partyID string) (int64, error) {
	if m.MaxSeqByPartyFunc != nil {
		return m.MaxSeqByPartyFunc(ctx, partyID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var max int64
	for _, e := range m.entries {
		if e.PartyID == partyID && e.Seq > max {
			max = e.Seq
		}
	}
	return max, nil
}

func (m *MockEntryRepository) SumByParty(ctx context.Context, partyID string) (decimal.Decimal, int64, error) {
	if m.SumByPartyFunc != nil {
		return m.SumByPartyFunc(ctx, partyID)
	}
	return m.sum(partyID)
}

func (m *MockEntryRepository) SumByPartyTx(ctx context.Context, tx usecase.Transaction, partyID string) (decimal.Decimal, int64, error) {
	if m.SumByPartyTxFunc != nil {
		return m.SumByPartyTxFunc(ctx, tx, partyID)
	}
	return m.sum(partyID)
}

func (m *MockEntryRepository) sum(partyID string) (decimal.Decimal, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	var max int64
	for _, e := range m.entries {
		if e.PartyID != partyID {
			continue
		}
		sum = sum.Add(e.Amount)
		if e.Seq > max {
			max = e.Seq
		}
	}
	return sum, max, nil
}

// MockStockRepository is an in-memory StockRepository enforcing one movement
// per entry.
type MockStockRepository struct {
	mu        sync.RWMutex
	movements map[string]*domain.StockMovement

	CreateFunc     func(ctx context.Context, tx usecase.Transaction, movement *domain.StockMovement) error
	GetByEntryFunc func(ctx context.Context, entryID string) (*domain.StockMovement, error)
	ListFunc       func(ctx context.Context, limit, offset int) ([]*domain.StockMovement, error)
}

func NewMockStockRepository() *MockStockRepository {
	return &MockStockRepository{movements: make(map[string]*domain.StockMovement)}
}

func (m *MockStockRepository) Create(ctx context.Context, tx usecase.Transaction, movement *domain.StockMovement) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, movement)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.movements[movement.EntryID]; ok {
		return fmt.Errorf("duplicate stock movement for entry %s", movement.EntryID)
	}
	m.movements[movement.EntryID] = movement
	return nil
}

func (m *MockStockRepository) GetByEntry(ctx context.Context, entryID string) (*domain.StockMovement, error) {
	if m.GetByEntryFunc != nil {
		return m.GetByEntryFunc(ctx, entryID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if mv, ok := m.movements[entryID]; ok {
		return mv, nil
	}
	return nil, domain.ErrStockNotFound
}

func (m *MockStockRepository) List(ctx context.Context, limit, offset int) ([]*domain.StockMovement, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.StockMovement, 0, len(m.movements))
	for _, mv := range m.movements {
		out = append(out, mv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

// MockSnapshotRepository is an in-memory SnapshotRepository.
type MockSnapshotRepository struct {
	mu        sync.RWMutex
	snapshots map[string]domain.BalanceSnapshot

	GetFunc    func(ctx context.Context, partyID string) (domain.BalanceSnapshot, error)
	GetTxFunc  func(ctx context.Context, tx usecase.Transaction, partyID string) (domain.BalanceSnapshot, error)
	UpsertFunc func(ctx context.Context, tx usecase.Transaction, snapshot domain.BalanceSnapshot) error
}

func NewMockSnapshotRepository() *MockSnapshotRepository {
	return &MockSnapshotRepository{snapshots: make(map[string]domain.BalanceSnapshot)}
}

// SetBalance overwrites a snapshot directly, for drift scenarios.
func (m *MockSnapshotRepository) SetBalance(partyID string, balance decimal.Decimal, asOfSeq int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[partyID] = domain.BalanceSnapshot{PartyID: partyID, Balance: balance, AsOfSeq: asOfSeq, UpdatedAt: time.Now().UTC()}
}

func (m *MockSnapshotRepository) Get(ctx context.Context, partyID string) (domain.BalanceSnapshot, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, partyID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.snapshots[partyID]; ok {
		return s, nil
	}
	return domain.BalanceSnapshot{PartyID: partyID, Balance: decimal.Zero}, nil
}

func (m *MockSnapshotRepository) GetTx(ctx context.Context, tx usecase.Transaction, partyID string) (domain.BalanceSnapshot, error) {
	if m.GetTxFunc != nil {
		return m.GetTxFunc(ctx, tx, partyID)
	}
	return m.Get(ctx, partyID)
}

func (m *MockSnapshotRepository) Upsert(ctx context.Context, tx usecase.Transaction, snapshot domain.BalanceSnapshot) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, tx, snapshot)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[snapshot.PartyID] = snapshot
	return nil
}

// MockOutboxRepository is an in-memory OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published {
			out = append(out, e)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.events[:0]
	for _, e := range m.events {
		if !e.Published || e.PublishedAt == nil || !e.PublishedAt.Before(before) {
			kept = append(kept, e)
		}
	}
	m.events = kept
	return nil
}

// Events returns a copy of all recorded events.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.OutboxEvent, len(m.events))
	copy(out, m.events)
	return out
}

// MockIDGenerator hands out sequential IDs.
type MockIDGenerator struct {
	counter atomic.Int64

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	return fmt.Sprintf("id-%06d", m.counter.Add(1))
}

// MockRetrier runs the operation once, no backoff.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

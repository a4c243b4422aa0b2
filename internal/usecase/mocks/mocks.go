// Package mocks provides hand-written test doubles for the usecase
// ports. Each mock keeps simple in-memory state and defers to an
// optional function field when set.
package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/easymove/remit/internal/domain"
	"github.com/easymove/remit/internal/usecase"
)

// MockTransaction is a no-op database transaction.
type MockTransaction struct {
	Committed  bool
	RolledBack bool

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	if !m.Committed {
		m.RolledBack = true
	}
	return nil
}

// MockTransactionManager hands out MockTransactions.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)

	mu    sync.Mutex
	Begun []*MockTransaction
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &MockTransaction{}
	m.Begun = append(m.Begun, tx)
	return tx, nil
}

// MockAccountRepository is an in-memory AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc           func(ctx context.Context, account *domain.Account) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Account, error)
	GetByEmailFunc       func(ctx context.Context, email string) (*domain.Account, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error)
	UpdateBalanceFunc    func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	ListFunc             func(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{accounts: make(map[string]*domain.Account)}
}

// Seed stores an account directly.
func (m *MockAccountRepository) Seed(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, acc := range m.accounts {
		if acc.Email == email {
			return acc, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	acc.Balance = balance
	acc.UpdatedAt = updatedAt
	acc.Version++
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Account
	for _, acc := range m.accounts {
		out = append(out, acc)
	}
	return out, nil
}

// MockTransactionRepository is an in-memory TransactionRepository.
type MockTransactionRepository struct {
	mu   sync.RWMutex
	txns map[string]*domain.Transaction

	CreateFunc             func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	GetByIDFunc            func(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIDForUpdateFunc   func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error)
	UpdateFunc             func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	SumSendAmountSinceFunc func(ctx context.Context, senderID string, since time.Time) (decimal.Decimal, error)
	ListByStatusFunc       func(ctx context.Context, status domain.Status, limit int) ([]*domain.Transaction, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{txns: make(map[string]*domain.Transaction)}
}

// Seed stores a transaction directly.
func (m *MockTransactionRepository) Seed(txn *domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txns[txn.ID] = txn
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txns[txn.ID] = txn
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if txn, ok := m.txns[id]; ok {
		return txn, nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockTransactionRepository) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, txn := range m.txns {
		if txn.TransactionID == transactionID {
			return txn, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, txn := range m.txns {
		if txn.TrackingNumber == trackingNumber {
			return txn, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) Update(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.txns[txn.ID]
	if !ok {
		return domain.ErrTransactionNotFound
	}
	if stored.Version != txn.Version {
		return domain.ErrVersionConflict
	}
	txn.Version++
	m.txns[txn.ID] = txn
	return nil
}

func (m *MockTransactionRepository) ListBySender(ctx context.Context, senderID string, limit, offset int) ([]*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Transaction
	for _, txn := range m.txns {
		if txn.SenderID == senderID {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (m *MockTransactionRepository) ListByStatus(ctx context.Context, status domain.Status, limit int) ([]*domain.Transaction, error) {
	if m.ListByStatusFunc != nil {
		return m.ListByStatusFunc(ctx, status, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Transaction
	for _, txn := range m.txns {
		if txn.Status == status {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (m *MockTransactionRepository) SumSendAmountSince(ctx context.Context, senderID string, since time.Time) (decimal.Decimal, error) {
	if m.SumSendAmountSinceFunc != nil {
		return m.SumSendAmountSinceFunc(ctx, senderID, since)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, txn := range m.txns {
		if txn.SenderID != senderID || txn.CreatedAt.Before(since) {
			continue
		}
		if txn.Status == domain.StatusCancelled || txn.Status == domain.StatusFailed || txn.Status == domain.StatusRefunded {
			continue
		}
		sum = sum.Add(txn.SendAmount)
	}
	return sum, nil
}

func (m *MockTransactionRepository) CountByStatus(ctx context.Context, senderID string) (map[domain.Status]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[domain.Status]int)
	for _, txn := range m.txns {
		if txn.SenderID == senderID {
			counts[txn.Status]++
		}
	}
	return counts, nil
}

// MockPairRepository is an in-memory PairRepository.
type MockPairRepository struct {
	mu    sync.RWMutex
	pairs map[string]*domain.CurrencyPair

	CreateFunc  func(ctx context.Context, pair *domain.CurrencyPair) error
	GetByIDFunc func(ctx context.Context, pairID string) (*domain.CurrencyPair, error)
	UpdateFunc  func(ctx context.Context, tx usecase.Transaction, pair *domain.CurrencyPair) error
}

func NewMockPairRepository() *MockPairRepository {
	return &MockPairRepository{pairs: make(map[string]*domain.CurrencyPair)}
}

// Seed stores a pair directly.
func (m *MockPairRepository) Seed(pair *domain.CurrencyPair) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pairs[pair.PairID()] = pair
}

func (m *MockPairRepository) Create(ctx context.Context, pair *domain.CurrencyPair) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, pair)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.pairs[pair.PairID()]; exists {
		return fmt.Errorf("pair %s already exists", pair.PairID())
	}
	m.pairs[pair.PairID()] = pair
	return nil
}

func (m *MockPairRepository) GetByID(ctx context.Context, pairID string) (*domain.CurrencyPair, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, pairID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if pair, ok := m.pairs[pairID]; ok {
		return pair, nil
	}
	return nil, domain.ErrPairNotFound
}

func (m *MockPairRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, pairID string) (*domain.CurrencyPair, error) {
	return m.GetByID(ctx, pairID)
}

func (m *MockPairRepository) Update(ctx context.Context, tx usecase.Transaction, pair *domain.CurrencyPair) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, pair)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	pair.Version++
	m.pairs[pair.PairID()] = pair
	return nil
}

func (m *MockPairRepository) List(ctx context.Context, activeOnly bool) ([]*domain.CurrencyPair, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.CurrencyPair
	for _, pair := range m.pairs {
		if activeOnly && !pair.Active {
			continue
		}
		out = append(out, pair)
	}
	return out, nil
}

// MockOutboxRepository records outbox events in memory.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	Events []*domain.OutboxEvent

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
	m.Events = append(m.Events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.OutboxEvent
	for _, e := range m.Events {
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
	for _, e := range m.Events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
			return nil
		}
	}
	return fmt.Errorf("event %s not found", id)
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.Events[:0]
	for _, e := range m.Events {
		if !e.Published || e.PublishedAt == nil || !e.PublishedAt.Before(before) {
			kept = append(kept, e)
		}
	}
	m.Events = kept
	return nil
}

// MockIDGenerator returns sequential IDs.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("id-%d", m.counter)
}

// MockNumberGenerator returns sequential TXN and EM numbers.
type MockNumberGenerator struct {
	mu      sync.Mutex
	counter int
}

func (m *MockNumberGenerator) TransactionNumber() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("TXN%08d", m.counter)
}

func (m *MockNumberGenerator) TrackingNumber() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("EM%09d", m.counter)
}

// MockCache is an in-memory Cache without TTL handling.
type MockCache struct {
	mu   sync.RWMutex
	data map[string][]byte

	GetFunc func(ctx context.Context, key string) ([]byte, error)
	SetFunc func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func NewMockCache() *MockCache {
	return &MockCache{data: make(map[string][]byte)}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[key], nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// MockPaymentProcessor simulates the payment provider.
type MockPaymentProcessor struct {
	mu       sync.Mutex
	Requests []usecase.ChargeRequest

	ChargeFunc func(ctx context.Context, req usecase.ChargeRequest) (string, error)
}

func (m *MockPaymentProcessor) Charge(ctx context.Context, req usecase.ChargeRequest) (string, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	n := len(m.Requests)
	m.mu.Unlock()
	if m.ChargeFunc != nil {
		return m.ChargeFunc(ctx, req)
	}
	return fmt.Sprintf("pay-%d", n), nil
}

// MockRateProvider returns a fixed snapshot.
type MockRateProvider struct {
	Snapshot domain.RateSnapshot
	Err      error

	SnapshotForFunc func(ctx context.Context, from, to string, amount decimal.Decimal) (domain.RateSnapshot, error)
}

func (m *MockRateProvider) SnapshotFor(ctx context.Context, from, to string, amount decimal.Decimal) (domain.RateSnapshot, error) {
	if m.SnapshotForFunc != nil {
		return m.SnapshotForFunc(ctx, from, to, amount)
	}
	if m.Err != nil {
		return domain.RateSnapshot{}, m.Err
	}
	return m.Snapshot, nil
}

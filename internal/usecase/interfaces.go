package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/easymove/remit/internal/domain"
	"github.com/easymove/remit/internal/fees"
)

// AccountRepository defines data access for sender accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// TransactionRepository defines data access for transfers.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Transaction, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*domain.Transaction, error)
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.Transaction, error)
	// Update persists the full transaction, failing with
	// domain.ErrVersionConflict when the stored version moved.
	Update(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	ListBySender(ctx context.Context, senderID string, limit, offset int) ([]*domain.Transaction, error)
	ListByStatus(ctx context.Context, status domain.Status, limit int) ([]*domain.Transaction, error)
	// SumSendAmountSince totals send amounts (excluding fees) for a
	// sender since the cutoff, skipping cancelled, failed and refunded
	// transfers.
	SumSendAmountSince(ctx context.Context, senderID string, since time.Time) (decimal.Decimal, error)
	CountByStatus(ctx context.Context, senderID string) (map[domain.Status]int, error)
}

// PairRepository defines data access for currency pairs.
type PairRepository interface {
	Create(ctx context.Context, pair *domain.CurrencyPair) error
	GetByID(ctx context.Context, pairID string) (*domain.CurrencyPair, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, pairID string) (*domain.CurrencyPair, error)
	Update(ctx context.Context, tx Transaction, pair *domain.CurrencyPair) error
	List(ctx context.Context, activeOnly bool) ([]*domain.CurrencyPair, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// NumberGenerator issues the customer-facing identifiers.
type NumberGenerator interface {
	// TransactionNumber returns a TXN-prefixed identifier.
	TransactionNumber() string
	// TrackingNumber returns an EM-prefixed tracking code.
	TrackingNumber() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

// PaymentProcessor collects the sender's payment before payout.
type PaymentProcessor interface {
	// Charge attempts to capture amount via the given method and
	// returns a provider payment ID on success.
	Charge(ctx context.Context, req ChargeRequest) (string, error)
}

// ChargeRequest describes one capture attempt.
type ChargeRequest struct {
	TransactionID string
	SenderID      string
	Amount        decimal.Decimal
	Currency      string
	Method        string
}

// RateProvider quotes the customer rate for a corridor. Implemented by
// RateUseCase; the indirection keeps transfer logic testable without a
// pair store.
type RateProvider interface {
	SnapshotFor(ctx context.Context, from, to string, amount decimal.Decimal) (domain.RateSnapshot, error)
}

// FeeQuoter prices a transfer. Implemented by the fees engine.
type FeeQuoter interface {
	QuoteFee(amount decimal.Decimal, fromCurrency, toCurrency, method string) fees.Quote
}

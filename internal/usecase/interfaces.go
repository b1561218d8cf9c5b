package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
)

// Party is an account that can take part in a transfer.
// *domain.Account satisfies it.
type Party interface {
	ID() string
	Balance() decimal.Decimal
	Credit(kind domain.TransactionKind, amount decimal.Decimal) (decimal.Decimal, error)
	Debit(kind domain.TransactionKind, amount decimal.Decimal) (decimal.Decimal, error)
}

// AccountRepository defines access to the account registry.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// EventPublisher publishes ledger events to external systems.
type EventPublisher interface {
	Publish(ctx context.Context, event *domain.Event) error
}

// Metrics records ledger activity.
type Metrics interface {
	ObserveTransfer(status domain.TransferStatus, amount decimal.Decimal, duration time.Duration)
	ObserveAccountOperation(operation string, err error)
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release removes a key so that the request can be retried.
	Release(ctx context.Context, key string) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, *domain.Event) error { return nil }

type nopMetrics struct{}

func (nopMetrics) ObserveTransfer(domain.TransferStatus, decimal.Decimal, time.Duration) {}

func (nopMetrics) ObserveAccountOperation(string, error) {}

package memory

import (
	"context"
	"sync"

	"github.com/iho/bankledger/internal/domain"
)

// AccountRepository implements usecase.AccountRepository with an in-process map.
// Accounts live for the lifetime of the process.
type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
	order    []string
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

// Create registers a new account. Account IDs are unique.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if account == nil {
		return domain.ErrInvalidAccount
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[account.ID()]; ok {
		return domain.ErrAccountExists
	}

	r.accounts[account.ID()] = account
	r.order = append(r.order, account.ID())

	return nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	return account, nil
}

// List returns accounts in creation order.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if offset >= len(r.order) {
		return []*domain.Account{}, nil
	}

	end := len(r.order)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	accounts := make([]*domain.Account, 0, end-offset)
	for _, id := range r.order[offset:end] {
		accounts = append(accounts, r.accounts[id])
	}

	return accounts, nil
}

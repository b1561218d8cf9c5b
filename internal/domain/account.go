package domain

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Clock returns the current time. Accounts read it once per ledger entry.
type Clock func() time.Time

// Account holds a non-negative balance and the append-only log that produced it.
// All mutations go through Credit and Debit, which validate, apply and log
// under the account lock.
type Account struct {
	id        string
	owner     string
	createdAt time.Time
	clock     Clock

	mu      sync.Mutex
	balance decimal.Decimal
	log     []Transaction
}

// AccountOption configures an Account at construction.
type AccountOption func(*Account)

// WithClock overrides the clock used for entry timestamps.
func WithClock(clock Clock) AccountOption {
	return func(a *Account) {
		if clock != nil {
			a.clock = clock
		}
	}
}

// NewAccount opens an account and records the opening balance as its first entry.
func NewAccount(id, owner string, openingBalance decimal.Decimal, opts ...AccountOption) (*Account, error) {
	if err := ValidateAccountID(id); err != nil {
		return nil, err
	}

	if err := ValidateOwner(owner); err != nil {
		return nil, err
	}

	if openingBalance.IsNegative() {
		return nil, ErrInvalidAmount
	}

	a := &Account{
		id:    id,
		owner: owner,
		clock: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(a)
	}

	a.append(TransactionKindOpen, openingBalance)
	a.createdAt = a.log[0].Timestamp

	return a, nil
}

// ID returns the account identifier.
func (a *Account) ID() string {
	return a.id
}

// Owner returns the account owner's display name.
func (a *Account) Owner() string {
	return a.owner
}

// CreatedAt returns the timestamp of the opening entry.
func (a *Account) CreatedAt() time.Time {
	return a.createdAt
}

// Balance returns the current balance.
func (a *Account) Balance() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.balance
}

// Transactions returns a copy of the ledger in chronological order.
func (a *Account) Transactions() []Transaction {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]Transaction, len(a.log))
	copy(out, a.log)

	return out
}

// Deposit credits amount and returns the new balance.
func (a *Account) Deposit(amount decimal.Decimal) (decimal.Decimal, error) {
	return a.Credit(TransactionKindDeposit, amount)
}

// Withdraw debits amount and returns the new balance.
func (a *Account) Withdraw(amount decimal.Decimal) (decimal.Decimal, error) {
	return a.Debit(TransactionKindWithdrawal, amount)
}

// Credit increases the balance by amount and logs an entry of the given kind.
func (a *Account) Credit(kind TransactionKind, amount decimal.Decimal) (decimal.Decimal, error) {
	if !kind.IsCredit() {
		return decimal.Decimal{}, ErrInvalidTransactionKind
	}

	if err := ValidateAmount(amount); err != nil {
		return decimal.Decimal{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.append(kind, amount)

	return a.balance, nil
}

// Debit decreases the balance by amount and logs an entry of the given kind.
// The sufficiency check and the mutation happen in the same critical section.
func (a *Account) Debit(kind TransactionKind, amount decimal.Decimal) (decimal.Decimal, error) {
	if !kind.IsDebit() {
		return decimal.Decimal{}, ErrInvalidTransactionKind
	}

	if err := ValidateAmount(amount); err != nil {
		return decimal.Decimal{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if amount.GreaterThan(a.balance) {
		return decimal.Decimal{}, ErrInsufficientFunds
	}

	a.append(kind, amount.Neg())

	return a.balance, nil
}

// Statement returns a consistent snapshot of the account for reporting.
func (a *Account) Statement() *Statement {
	a.mu.Lock()
	defer a.mu.Unlock()

	entries := make([]Transaction, len(a.log))
	copy(entries, a.log)

	return &Statement{
		AccountID: a.id,
		Owner:     a.owner,
		Balance:   a.balance,
		entries:   entries,
	}
}

// Reconciliation compares an account's balance with the sum of its ledger.
type Reconciliation struct {
	AccountID   string
	Balance     decimal.Decimal
	LedgerTotal decimal.Decimal
	Entries     int
}

// Consistent reports whether the balance matches the ledger and is non-negative.
func (r Reconciliation) Consistent() bool {
	return r.Balance.Equal(r.LedgerTotal) && !r.Balance.IsNegative()
}

// Reconcile sums the ledger and reads the balance in one critical section.
func (a *Account) Reconcile() Reconciliation {
	a.mu.Lock()
	defer a.mu.Unlock()

	total := decimal.Zero
	for _, tx := range a.log {
		total = total.Add(tx.Amount)
	}

	return Reconciliation{
		AccountID:   a.id,
		Balance:     a.balance,
		LedgerTotal: total,
		Entries:     len(a.log),
	}
}

// append must be called with mu held (or before the account is shared).
func (a *Account) append(kind TransactionKind, delta decimal.Decimal) {
	now := a.clock()
	if n := len(a.log); n > 0 && now.Before(a.log[n-1].Timestamp) {
		now = a.log[n-1].Timestamp
	}

	a.balance = a.balance.Add(delta)
	a.log = append(a.log, Transaction{
		Timestamp: now,
		Kind:      kind,
		Amount:    delta,
	})
}

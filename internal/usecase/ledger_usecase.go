package usecase

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrInconsistentLedger is returned when an account balance does not match its ledger.
	ErrInconsistentLedger = errors.New("ledger is inconsistent: balance does not match entries")
)

// consistencyPageSize is the page size used to walk the account registry.
const consistencyPageSize = 100

// LedgerUseCase handles ledger-wide operations.
type LedgerUseCase struct {
	accountRepo AccountRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(accountRepo AccountRepository) *LedgerUseCase {
	return &LedgerUseCase{
		accountRepo: accountRepo,
	}
}

// ConsistencyReport summarizes a ledger-wide consistency check.
type ConsistencyReport struct {
	Accounts     int
	TotalBalance decimal.Decimal
	Inconsistent []string
}

// Consistent reports whether every account reconciled.
func (r *ConsistencyReport) Consistent() bool {
	return len(r.Inconsistent) == 0
}

// CheckConsistency verifies that every account's balance equals the sum of
// its ledger and is non-negative. It returns ErrInconsistentLedger together
// with the report when any account fails.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	report := &ConsistencyReport{TotalBalance: decimal.Zero}

	for offset := 0; ; offset += consistencyPageSize {
		accounts, err := uc.accountRepo.List(ctx, consistencyPageSize, offset)
		if err != nil {
			return nil, err
		}

		for _, account := range accounts {
			rec := account.Reconcile()

			report.Accounts++
			report.TotalBalance = report.TotalBalance.Add(rec.Balance)

			if !rec.Consistent() {
				report.Inconsistent = append(report.Inconsistent, rec.AccountID)
			}
		}

		if len(accounts) < consistencyPageSize {
			break
		}
	}

	if !report.Consistent() {
		return report, ErrInconsistentLedger
	}

	return report, nil
}

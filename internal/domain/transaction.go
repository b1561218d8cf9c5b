package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind classifies a ledger entry.
type TransactionKind string

const (
	TransactionKindOpen        TransactionKind = "open"
	TransactionKindDeposit     TransactionKind = "deposit"
	TransactionKindWithdrawal  TransactionKind = "withdrawal"
	TransactionKindTransferOut TransactionKind = "transfer_out"
	TransactionKindTransferIn  TransactionKind = "transfer_in"
)

var transactionKindLabels = map[TransactionKind]string{
	TransactionKindOpen:        "Account opened",
	TransactionKindDeposit:     "Deposit",
	TransactionKindWithdrawal:  "Withdrawal",
	TransactionKindTransferOut: "Transfer out",
	TransactionKindTransferIn:  "Transfer in",
}

// Label returns the human readable name used in statements.
func (k TransactionKind) Label() string {
	if label, ok := transactionKindLabels[k]; ok {
		return label
	}
	return string(k)
}

// IsCredit reports whether the kind may increase a balance through Credit.
func (k TransactionKind) IsCredit() bool {
	return k == TransactionKindDeposit || k == TransactionKindTransferIn
}

// IsDebit reports whether the kind may decrease a balance through Debit.
func (k TransactionKind) IsDebit() bool {
	return k == TransactionKindWithdrawal || k == TransactionKindTransferOut
}

// Transaction is a single entry of an account's ledger.
// Amount is the applied balance delta: positive for credits, negative for debits.
type Transaction struct {
	Timestamp time.Time
	Kind      TransactionKind
	Amount    decimal.Decimal
}

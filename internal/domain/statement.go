package domain

import (
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// StatementTimeLayout is the timestamp layout used in text statements.
const StatementTimeLayout = "2006-01-02 15:04:05"

const statementRule = "---------------------"

// StatementLine is one row of a statement. Amount is unsigned.
type StatementLine struct {
	Timestamp time.Time
	Kind      TransactionKind
	Amount    decimal.Decimal
}

// String renders the line as "<kind>: <amount> (<timestamp>)".
func (l StatementLine) String() string {
	return fmt.Sprintf("%s: %s (%s)", l.Kind.Label(), l.Amount.StringFixed(2), l.Timestamp.Format(StatementTimeLayout))
}

// Statement is a point-in-time view of an account and its ledger.
type Statement struct {
	AccountID string
	Owner     string
	Balance   decimal.Decimal

	entries []Transaction
}

// Len returns the number of ledger entries in the statement.
func (s *Statement) Len() int {
	return len(s.entries)
}

// Lines yields statement lines in ledger order. The sequence can be ranged
// over any number of times.
func (s *Statement) Lines() iter.Seq[StatementLine] {
	return func(yield func(StatementLine) bool) {
		for _, e := range s.entries {
			line := StatementLine{
				Timestamp: e.Timestamp,
				Kind:      e.Kind,
				Amount:    e.Amount.Abs(),
			}
			if !yield(line) {
				return
			}
		}
	}
}

// String renders the human readable statement.
func (s *Statement) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Statement for account %s (%s)\n", s.AccountID, s.Owner)
	fmt.Fprintf(&b, "Current balance: %s\n", s.Balance.StringFixed(2))
	b.WriteString("Transaction history:\n")
	b.WriteString(statementRule + "\n")
	for line := range s.Lines() {
		b.WriteString(line.String())
		b.WriteByte('\n')
	}
	b.WriteString(statementRule + "\n")

	return b.String()
}

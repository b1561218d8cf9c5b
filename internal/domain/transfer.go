package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransferStatus is the terminal state of a transfer attempt.
type TransferStatus string

const (
	// TransferStatusRejected means the transfer failed before any mutation.
	TransferStatusRejected TransferStatus = "rejected"
	// TransferStatusCompleted means the source was debited and the target credited.
	TransferStatusCompleted TransferStatus = "completed"
	// TransferStatusRolledBack means the credit failed and the debit was compensated.
	TransferStatusRolledBack TransferStatus = "rolled_back"
	// TransferStatusDebited is only reported when compensation itself failed.
	TransferStatusDebited TransferStatus = "debited"
)

// Transfer records the outcome of moving funds between two accounts.
type Transfer struct {
	CreatedAt time.Time
	Err       error
	ID        string
	SourceID  string
	TargetID  string
	Status    TransferStatus
	Amount    decimal.Decimal
}

// Validate validates the transfer request.
func (t *Transfer) Validate() error {
	if err := ValidateAmount(t.Amount); err != nil {
		return err
	}

	if t.SourceID == "" || t.TargetID == "" {
		return fmt.Errorf("%w: missing account", ErrInvalidTransfer)
	}

	if t.SourceID == t.TargetID {
		return fmt.Errorf("%w: cannot transfer to same account", ErrInvalidTransfer)
	}

	return nil
}

// Succeeded reports whether the transfer completed.
func (t *Transfer) Succeeded() bool {
	return t.Status == TransferStatusCompleted
}

// Message returns a human readable summary of the outcome.
func (t *Transfer) Message() string {
	if t.Succeeded() {
		return fmt.Sprintf("Transfer of %s from account %s to %s completed successfully",
			t.Amount.StringFixed(2), t.SourceID, t.TargetID)
	}

	if t.Err == nil {
		return "Transfer failed"
	}

	return "Transfer failed: " + t.Err.Error()
}

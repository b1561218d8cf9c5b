package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxAccountIDLength = 64
	MaxOwnerLength     = 255
)

// ValidateAccountID validates an account identifier.
func ValidateAccountID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id cannot be empty", ErrInvalidAccount)
	}

	if len(id) > MaxAccountIDLength {
		return fmt.Errorf("%w: id exceeds %d characters", ErrInvalidAccount, MaxAccountIDLength)
	}

	if strings.ContainsAny(id, "/ \t\n") {
		return fmt.Errorf("%w: id contains forbidden characters", ErrInvalidAccount)
	}

	return nil
}

// ValidateOwner validates the owner display name.
func ValidateOwner(owner string) error {
	owner = strings.TrimSpace(owner)

	if owner == "" {
		return fmt.Errorf("%w: owner cannot be empty", ErrInvalidAccount)
	}

	if len(owner) > MaxOwnerLength {
		return fmt.Errorf("%w: owner exceeds %d characters", ErrInvalidAccount, MaxOwnerLength)
	}

	return nil
}

// ValidateAmount rejects zero and negative amounts.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 100
	const DefaultPageSize = 20

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}

package domain

import "errors"

var (
	// Account errors
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrInvalidAccount         = errors.New("invalid account")
	ErrInvalidTransactionKind = errors.New("invalid transaction kind")
	ErrAccountNotFound        = errors.New("account not found")
	ErrAccountExists          = errors.New("account already exists")

	// Transfer errors
	ErrInvalidTransfer    = errors.New("invalid transfer")
	ErrCompensationFailed = errors.New("transfer compensation failed")
)

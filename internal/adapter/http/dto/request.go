package dto

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// OpenAccountRequest represents a request to open an account.
type OpenAccountRequest struct {
	ID             string `json:"id,omitempty"`
	Owner          string `json:"owner"`
	OpeningBalance string `json:"opening_balance,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *OpenAccountRequest) ToUseCaseInput() (usecase.OpenAccountInput, error) {
	opening := decimal.Zero
	if r.OpeningBalance != "" {
		var err error
		if opening, err = parseAmount(r.OpeningBalance); err != nil {
			return usecase.OpenAccountInput{}, err
		}
	}

	return usecase.OpenAccountInput{
		ID:             r.ID,
		Owner:          r.Owner,
		OpeningBalance: opening,
	}, nil
}

// AmountRequest represents a deposit or withdrawal request.
type AmountRequest struct {
	Amount string `json:"amount"`
}

// Decimal parses the requested amount.
func (r *AmountRequest) Decimal() (decimal.Decimal, error) {
	return parseAmount(r.Amount)
}

// CreateTransferRequest represents a request to create a transfer.
type CreateTransferRequest struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
	Amount   string `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransferRequest) ToUseCaseInput() (usecase.TransferInput, error) {
	amount, err := parseAmount(r.Amount)
	if err != nil {
		return usecase.TransferInput{}, err
	}

	return usecase.TransferInput{
		SourceID: r.SourceID,
		TargetID: r.TargetID,
		Amount:   amount,
	}, nil
}

// PaginationRequest represents pagination parameters.
type PaginationRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", domain.ErrInvalidAmount, s)
	}

	return amount, nil
}

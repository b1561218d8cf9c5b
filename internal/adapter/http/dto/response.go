package dto

import (
	"time"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:        a.ID(),
		Owner:     a.Owner(),
		Balance:   a.Balance().String(),
		CreatedAt: a.CreatedAt(),
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse represents a page of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// BalanceResponse is returned by deposit and withdraw.
type BalanceResponse struct {
	AccountID string `json:"account_id"`
	Balance   string `json:"balance"`
}

// TransactionResponse represents a ledger entry in API responses.
type TransactionResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"kind"`
	Label     string    `json:"label"`
	Amount    string    `json:"amount"`
}

// StatementResponse represents an account statement.
type StatementResponse struct {
	AccountID    string                `json:"account_id"`
	Owner        string                `json:"owner"`
	Balance      string                `json:"balance"`
	Transactions []TransactionResponse `json:"transactions"`
}

// StatementFromDomain converts a statement to response.
func StatementFromDomain(s *domain.Statement) *StatementResponse {
	resp := &StatementResponse{
		AccountID:    s.AccountID,
		Owner:        s.Owner,
		Balance:      s.Balance.String(),
		Transactions: make([]TransactionResponse, 0, s.Len()),
	}

	for line := range s.Lines() {
		resp.Transactions = append(resp.Transactions, TransactionResponse{
			Timestamp: line.Timestamp,
			Kind:      string(line.Kind),
			Label:     line.Kind.Label(),
			Amount:    line.Amount.String(),
		})
	}

	return resp
}

// TransferStatusHeader carries the terminal status of a transfer response.
const TransferStatusHeader = "X-Transfer-Status"

// TransferResponse represents a transfer in API responses.
type TransferResponse struct {
	ID        string    `json:"id"`
	SourceID  string    `json:"source_id"`
	TargetID  string    `json:"target_id"`
	Amount    string    `json:"amount"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TransferFromDomain converts domain transfer to response.
func TransferFromDomain(t *domain.Transfer) *TransferResponse {
	resp := &TransferResponse{
		ID:        t.ID,
		SourceID:  t.SourceID,
		TargetID:  t.TargetID,
		Amount:    t.Amount.String(),
		Status:    string(t.Status),
		Message:   t.Message(),
		CreatedAt: t.CreatedAt,
	}
	if t.Err != nil {
		resp.Error = t.Err.Error()
	}

	return resp
}

// ConsistencyResponse represents the result of a ledger consistency check.
type ConsistencyResponse struct {
	Status       string   `json:"status"`
	Consistent   bool     `json:"consistent"`
	Accounts     int      `json:"accounts"`
	TotalBalance string   `json:"total_balance"`
	Inconsistent []string `json:"inconsistent,omitempty"`
}

// ConsistencyFromReport converts a consistency report to response.
func ConsistencyFromReport(r *usecase.ConsistencyReport) *ConsistencyResponse {
	status := "consistent"
	if !r.Consistent() {
		status = "inconsistent"
	}

	return &ConsistencyResponse{
		Status:       status,
		Consistent:   r.Consistent(),
		Accounts:     r.Accounts,
		TotalBalance: r.TotalBalance.String(),
		Inconsistent: r.Inconsistent,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/bankledger/internal/adapter/repository/memory"
	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
	"github.com/iho/bankledger/internal/usecase/mocks"
)

func newAccountUseCase(repo usecase.AccountRepository) *usecase.AccountUseCase {
	return usecase.NewAccountUseCase(repo, memory.NewULIDGenerator(), nil, nil, zerolog.Nop())
}

func TestAccountUseCase_OpenAccount(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.OpenAccountInput
		expectError error
	}{
		{
			name:  "successful account creation",
			input: usecase.OpenAccountInput{ID: "A1", Owner: "Alice", OpeningBalance: decimal.NewFromInt(1000)},
		},
		{
			name:  "generated id",
			input: usecase.OpenAccountInput{Owner: "Bob"},
		},
		{
			name:        "negative opening balance",
			input:       usecase.OpenAccountInput{ID: "A3", Owner: "Carol", OpeningBalance: decimal.NewFromInt(-1)},
			expectError: domain.ErrInvalidAmount,
		},
		{
			name:        "missing owner",
			input:       usecase.OpenAccountInput{ID: "A4"},
			expectError: domain.ErrInvalidAccount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := memory.NewAccountRepository()
			uc := newAccountUseCase(repo)

			account, err := uc.OpenAccount(context.Background(), tt.input)

			if tt.expectError != nil {
				if !errors.Is(err, tt.expectError) {
					t.Fatalf("expected error %v, got %v", tt.expectError, err)
				}
				if accounts, _ := repo.List(context.Background(), 10, 0); len(accounts) != 0 {
					t.Fatalf("expected no registered accounts, got %d", len(accounts))
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if account.ID() == "" {
				t.Fatal("expected account ID to be set")
			}
			if tt.input.ID != "" && account.ID() != tt.input.ID {
				t.Errorf("expected ID %s, got %s", tt.input.ID, account.ID())
			}
			if _, err := repo.GetByID(context.Background(), account.ID()); err != nil {
				t.Errorf("expected account to be registered: %v", err)
			}
		})
	}
}

func TestAccountUseCase_OpenAccountDuplicate(t *testing.T) {
	uc := newAccountUseCase(memory.NewAccountRepository())
	ctx := context.Background()

	if _, err := uc.OpenAccount(ctx, usecase.OpenAccountInput{ID: "A1", Owner: "Alice"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := uc.OpenAccount(ctx, usecase.OpenAccountInput{ID: "A1", Owner: "Mallory"}); !errors.Is(err, domain.ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}
}

func TestAccountUseCase_OpenAccountPublishesEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	publisher := mocks.NewMockEventPublisher(ctrl)
	metrics := mocks.NewMockMetrics(ctrl)

	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, ev *domain.Event) error {
		if ev.EventType != domain.EventTypeAccountOpened || ev.AggregateID != "A1" {
			t.Errorf("unexpected event %+v", ev)
		}
		if ev.Payload["opening_balance"] != "250" {
			t.Errorf("expected opening balance 250 in payload, got %v", ev.Payload["opening_balance"])
		}
		return nil
	})
	metrics.EXPECT().ObserveAccountOperation(usecase.OperationOpen, nil)

	uc := usecase.NewAccountUseCase(memory.NewAccountRepository(), memory.NewULIDGenerator(), publisher, metrics, zerolog.Nop())

	if _, err := uc.OpenAccount(context.Background(), usecase.OpenAccountInput{
		ID:             "A1",
		Owner:          "Alice",
		OpeningBalance: decimal.NewFromInt(250),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAccountUseCase_DepositWithdraw(t *testing.T) {
	ctx := context.Background()
	uc := newAccountUseCase(memory.NewAccountRepository())

	if _, err := uc.OpenAccount(ctx, usecase.OpenAccountInput{ID: "A1", Owner: "Alice", OpeningBalance: decimal.NewFromInt(1000)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	balance, err := uc.Deposit(ctx, "A1", decimal.NewFromInt(200))
	if err != nil || !balance.Equal(decimal.NewFromInt(1200)) {
		t.Fatalf("expected balance 1200, got %s (err=%v)", balance, err)
	}

	balance, err = uc.Withdraw(ctx, "A1", decimal.NewFromInt(100))
	if err != nil || !balance.Equal(decimal.NewFromInt(1100)) {
		t.Fatalf("expected balance 1100, got %s (err=%v)", balance, err)
	}

	if _, err := uc.Withdraw(ctx, "A1", decimal.NewFromInt(5000)); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	if _, err := uc.Deposit(ctx, "A1", decimal.NewFromInt(-50)); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	if _, err := uc.Deposit(ctx, "missing", decimal.NewFromInt(1)); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}

	account, _ := uc.GetAccount(ctx, "A1")
	if !account.Balance().Equal(decimal.NewFromInt(1100)) {
		t.Errorf("expected balance 1100, got %s", account.Balance())
	}
}

func TestAccountUseCase_DepositRecordsMetrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	metrics := mocks.NewMockMetrics(ctrl)
	gomock.InOrder(
		metrics.EXPECT().ObserveAccountOperation(usecase.OperationOpen, nil),
		metrics.EXPECT().ObserveAccountOperation(usecase.OperationDeposit, nil),
		metrics.EXPECT().ObserveAccountOperation(usecase.OperationWithdraw, domain.ErrInsufficientFunds),
	)

	uc := usecase.NewAccountUseCase(memory.NewAccountRepository(), memory.NewULIDGenerator(), nil, metrics, zerolog.Nop())
	ctx := context.Background()

	_, _ = uc.OpenAccount(ctx, usecase.OpenAccountInput{ID: "A1", Owner: "Alice"})
	_, _ = uc.Deposit(ctx, "A1", decimal.NewFromInt(10))
	_, _ = uc.Withdraw(ctx, "A1", decimal.NewFromInt(20))
}

func TestAccountUseCase_Statement(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC)
	uc := newAccountUseCase(memory.NewAccountRepository()).WithClock(func() time.Time { return at })

	if _, err := uc.OpenAccount(ctx, usecase.OpenAccountInput{ID: "A1", Owner: "Alice", OpeningBalance: decimal.NewFromInt(100)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, _ = uc.Deposit(ctx, "A1", decimal.NewFromInt(50))

	stmt, err := uc.Statement(ctx, "A1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stmt.Len() != 2 || !stmt.Balance.Equal(decimal.NewFromInt(150)) {
		t.Errorf("unexpected statement: len=%d balance=%s", stmt.Len(), stmt.Balance)
	}

	for line := range stmt.Lines() {
		if !line.Timestamp.Equal(at) {
			t.Errorf("expected injected clock timestamp, got %s", line.Timestamp)
		}
	}

	if _, err := uc.Statement(ctx, "missing"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountUseCase_ListAccounts(t *testing.T) {
	ctx := context.Background()
	uc := newAccountUseCase(memory.NewAccountRepository())

	for _, id := range []string{"A1", "A2", "A3"} {
		if _, err := uc.OpenAccount(ctx, usecase.OpenAccountInput{ID: id, Owner: "owner"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	accounts, err := uc.ListAccounts(ctx, usecase.ListAccountsInput{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != 2 || accounts[0].ID() != "A2" || accounts[1].ID() != "A3" {
		t.Errorf("unexpected page %v", accounts)
	}

	all, _ := uc.ListAccounts(ctx, usecase.ListAccountsInput{})
	if len(all) != 3 {
		t.Errorf("expected default page to return all 3 accounts, got %d", len(all))
	}
}

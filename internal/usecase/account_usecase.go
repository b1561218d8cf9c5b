package usecase

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
)

// Account operation names reported to Metrics.
const (
	OperationOpen     = "open"
	OperationDeposit  = "deposit"
	OperationWithdraw = "withdraw"
)

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	accountRepo AccountRepository
	idGen       IDGenerator
	publisher   EventPublisher
	metrics     Metrics
	logger      zerolog.Logger
	clock       domain.Clock
}

// NewAccountUseCase creates a new AccountUseCase.
// publisher and metrics may be nil.
func NewAccountUseCase(
	accountRepo AccountRepository,
	idGen IDGenerator,
	publisher EventPublisher,
	metrics Metrics,
	logger zerolog.Logger,
) *AccountUseCase {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}

	return &AccountUseCase{
		accountRepo: accountRepo,
		idGen:       idGen,
		publisher:   publisher,
		metrics:     metrics,
		logger:      logger.With().Str("component", "account").Logger(),
	}
}

// WithClock sets the clock handed to newly opened accounts.
func (uc *AccountUseCase) WithClock(clock domain.Clock) *AccountUseCase {
	uc.clock = clock
	return uc
}

// OpenAccountInput represents input for opening an account.
type OpenAccountInput struct {
	ID             string // generated when empty
	Owner          string
	OpeningBalance decimal.Decimal
}

// OpenAccount opens and registers a new account.
func (uc *AccountUseCase) OpenAccount(ctx context.Context, input OpenAccountInput) (*domain.Account, error) {
	id := input.ID
	if id == "" {
		id = uc.idGen.Generate()
	}

	account, err := domain.NewAccount(id, input.Owner, input.OpeningBalance, domain.WithClock(uc.clock))
	if err == nil {
		err = uc.accountRepo.Create(ctx, account)
	}
	uc.metrics.ObserveAccountOperation(OperationOpen, err)

	if err != nil {
		uc.logger.Debug().Err(err).Str("account_id", id).Msg("open account rejected")
		return nil, err
	}

	uc.logger.Info().
		Str("account_id", account.ID()).
		Str("owner", account.Owner()).
		Str("opening_balance", input.OpeningBalance.String()).
		Msg("account opened")

	event := domain.NewAccountOpenedEvent(uc.idGen.Generate(), account)
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn().Err(err).Str("account_id", account.ID()).Msg("failed to publish event")
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.accountRepo.List(ctx, limit, offset)
}

// Deposit credits a registered account and returns its new balance.
func (uc *AccountUseCase) Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (decimal.Decimal, error) {
	return uc.apply(ctx, OperationDeposit, accountID, amount, (*domain.Account).Deposit)
}

// Withdraw debits a registered account and returns its new balance.
func (uc *AccountUseCase) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) (decimal.Decimal, error) {
	return uc.apply(ctx, OperationWithdraw, accountID, amount, (*domain.Account).Withdraw)
}

// Statement returns a statement snapshot of a registered account.
func (uc *AccountUseCase) Statement(ctx context.Context, accountID string) (*domain.Statement, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return account.Statement(), nil
}

func (uc *AccountUseCase) apply(
	ctx context.Context,
	operation, accountID string,
	amount decimal.Decimal,
	fn func(*domain.Account, decimal.Decimal) (decimal.Decimal, error),
) (decimal.Decimal, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		uc.metrics.ObserveAccountOperation(operation, err)
		return decimal.Decimal{}, err
	}

	balance, err := fn(account, amount)
	uc.metrics.ObserveAccountOperation(operation, err)

	if err != nil {
		uc.logger.Debug().
			Err(err).
			Str("account_id", accountID).
			Str("amount", amount.String()).
			Msg(operation + " rejected")

		return decimal.Decimal{}, err
	}

	uc.logger.Info().
		Str("account_id", accountID).
		Str("amount", amount.String()).
		Str("balance", balance.String()).
		Msg(operation + " applied")

	return balance, nil
}

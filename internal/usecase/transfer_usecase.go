package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
)

// TransferUseCase moves funds between two accounts.
//
// A transfer debits the source and then credits the target, holding each
// account's lock only for its own step. If the credit fails the debit is
// compensated by crediting the source back, so the combined balance of both
// accounts is the same after any failed attempt as before it.
type TransferUseCase struct {
	accountRepo AccountRepository
	idGen       IDGenerator
	publisher   EventPublisher
	metrics     Metrics
	logger      zerolog.Logger
	clock       domain.Clock
}

// NewTransferUseCase creates a new TransferUseCase.
// publisher and metrics may be nil.
func NewTransferUseCase(
	accountRepo AccountRepository,
	idGen IDGenerator,
	publisher EventPublisher,
	metrics Metrics,
	logger zerolog.Logger,
) *TransferUseCase {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}

	return &TransferUseCase{
		accountRepo: accountRepo,
		idGen:       idGen,
		publisher:   publisher,
		metrics:     metrics,
		logger:      logger.With().Str("component", "transfer").Logger(),
		clock:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets the clock used to stamp transfers and their events.
func (uc *TransferUseCase) WithClock(clock domain.Clock) *TransferUseCase {
	if clock != nil {
		uc.clock = clock
	}
	return uc
}

// TransferInput represents input for a transfer between registered accounts.
type TransferInput struct {
	SourceID string
	TargetID string
	Amount   decimal.Decimal
}

// Transfer moves amount from source to target.
// The returned record is never nil; its Status is the terminal state of the
// attempt and its Err matches the returned error.
func (uc *TransferUseCase) Transfer(ctx context.Context, source, target Party, amount decimal.Decimal) (*domain.Transfer, error) {
	transfer := uc.newTransfer(partyID(source), partyID(target), amount)
	return uc.run(ctx, transfer, source, target)
}

// TransferByID resolves both accounts from the registry and transfers between them.
// An unknown account rejects the transfer with domain.ErrInvalidTransfer.
func (uc *TransferUseCase) TransferByID(ctx context.Context, input TransferInput) (*domain.Transfer, error) {
	transfer := uc.newTransfer(input.SourceID, input.TargetID, input.Amount)

	source, target := uc.lookup(ctx, input.SourceID), uc.lookup(ctx, input.TargetID)

	return uc.run(ctx, transfer, source, target)
}

func (uc *TransferUseCase) newTransfer(sourceID, targetID string, amount decimal.Decimal) *domain.Transfer {
	return &domain.Transfer{
		ID:        uc.idGen.Generate(),
		SourceID:  sourceID,
		TargetID:  targetID,
		Amount:    amount,
		Status:    domain.TransferStatusRejected,
		CreatedAt: uc.clock(),
	}
}

func (uc *TransferUseCase) lookup(ctx context.Context, id string) Party {
	if id == "" {
		return nil
	}

	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrAccountNotFound) {
			uc.logger.Error().Err(err).Str("account_id", id).Msg("account lookup failed")
		}
		return nil
	}

	return account
}

func (uc *TransferUseCase) run(ctx context.Context, transfer *domain.Transfer, source, target Party) (*domain.Transfer, error) {
	start := time.Now()

	err := uc.execute(transfer, source, target)
	transfer.Err = err

	uc.metrics.ObserveTransfer(transfer.Status, transfer.Amount, time.Since(start))
	uc.log(transfer)
	uc.publish(ctx, transfer)

	return transfer, err
}

func (uc *TransferUseCase) execute(transfer *domain.Transfer, source, target Party) error {
	// 1. Validate the request before touching either account
	if err := transfer.Validate(); err != nil {
		return err
	}

	if source == nil || target == nil {
		return fmt.Errorf("%w: account not found", domain.ErrInvalidTransfer)
	}

	// 2. Advisory pre-check; the debit below is authoritative
	if source.Balance().LessThan(transfer.Amount) {
		return domain.ErrInsufficientFunds
	}

	// 3. Debit source
	if _, err := source.Debit(domain.TransactionKindTransferOut, transfer.Amount); err != nil {
		return err
	}
	transfer.Status = domain.TransferStatusDebited

	// 4. Credit target, compensating the debit on failure
	if _, err := target.Credit(domain.TransactionKindTransferIn, transfer.Amount); err != nil {
		return uc.compensate(transfer, source, err)
	}

	transfer.Status = domain.TransferStatusCompleted

	return nil
}

// compensate re-credits the source after a failed credit of the target.
func (uc *TransferUseCase) compensate(transfer *domain.Transfer, source Party, cause error) error {
	if _, err := source.Credit(domain.TransactionKindDeposit, transfer.Amount); err != nil {
		uc.logger.Error().
			Err(err).
			AnErr("cause", cause).
			Str("transfer_id", transfer.ID).
			Str("source_id", transfer.SourceID).
			Str("amount", transfer.Amount.String()).
			Msg("transfer compensation failed")

		return fmt.Errorf("%w: %w (compensation: %w)", domain.ErrCompensationFailed, cause, err)
	}

	transfer.Status = domain.TransferStatusRolledBack

	return cause
}

func (uc *TransferUseCase) log(transfer *domain.Transfer) {
	var event *zerolog.Event
	switch transfer.Status {
	case domain.TransferStatusCompleted:
		event = uc.logger.Info()
	case domain.TransferStatusRolledBack:
		event = uc.logger.Warn().Err(transfer.Err)
	case domain.TransferStatusRejected:
		event = uc.logger.Debug().Err(transfer.Err)
	default:
		// compensation failure was already logged
		return
	}

	event.
		Str("transfer_id", transfer.ID).
		Str("source_id", transfer.SourceID).
		Str("target_id", transfer.TargetID).
		Str("amount", transfer.Amount.String()).
		Str("status", string(transfer.Status)).
		Msg("transfer " + string(transfer.Status))
}

func (uc *TransferUseCase) publish(ctx context.Context, transfer *domain.Transfer) {
	event := domain.NewTransferEvent(uc.idGen.Generate(), transfer)
	if event == nil {
		return
	}

	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn().
			Err(err).
			Str("event_type", event.EventType).
			Str("transfer_id", transfer.ID).
			Msg("failed to publish event")
	}
}

// partyID returns "" for nil parties, including typed nil accounts.
func partyID(p Party) string {
	if p == nil {
		return ""
	}
	if a, ok := p.(*domain.Account); ok && a == nil {
		return ""
	}
	return p.ID()
}

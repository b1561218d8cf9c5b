package domain

import "time"

// Event types
const (
	EventTypeAccountOpened      = "account.opened"
	EventTypeTransferCompleted  = "transfer.completed"
	EventTypeTransferRolledBack = "transfer.rolled_back"
)

// Aggregate types
const (
	AggregateTypeAccount  = "account"
	AggregateTypeTransfer = "transfer"
)

// Event is a ledger fact published after it happened.
type Event struct {
	ID            string         `json:"id"`
	AggregateID   string         `json:"aggregate_id"`
	AggregateType string         `json:"aggregate_type"`
	EventType     string         `json:"event_type"`
	Payload       map[string]any `json:"payload"`
	CreatedAt     time.Time      `json:"created_at"`
}

// NewAccountOpenedEvent builds the event for a freshly opened account.
func NewAccountOpenedEvent(id string, a *Account) *Event {
	return &Event{
		ID:            id,
		AggregateID:   a.ID(),
		AggregateType: AggregateTypeAccount,
		EventType:     EventTypeAccountOpened,
		Payload: map[string]any{
			"account_id":      a.ID(),
			"owner":           a.Owner(),
			"opening_balance": a.Transactions()[0].Amount.String(),
		},
		CreatedAt: a.CreatedAt(),
	}
}

// NewTransferEvent builds the event for a transfer that reached a terminal state
// after debiting the source. It returns nil for rejected transfers.
func NewTransferEvent(id string, t *Transfer) *Event {
	var eventType string
	switch t.Status {
	case TransferStatusCompleted:
		eventType = EventTypeTransferCompleted
	case TransferStatusRolledBack:
		eventType = EventTypeTransferRolledBack
	default:
		return nil
	}

	payload := map[string]any{
		"transfer_id": t.ID,
		"source_id":   t.SourceID,
		"target_id":   t.TargetID,
		"amount":      t.Amount.String(),
		"status":      string(t.Status),
		"event_at":    t.CreatedAt.Format(time.RFC3339Nano),
	}
	if t.Err != nil {
		payload["reason"] = t.Err.Error()
	}

	return &Event{
		ID:            id,
		AggregateID:   t.ID,
		AggregateType: AggregateTypeTransfer,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     t.CreatedAt,
	}
}

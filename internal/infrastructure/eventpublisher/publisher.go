package eventpublisher

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"

	"github.com/iho/bankledger/internal/domain"
)

// ErrQueueFull is returned by EventPublisher.Publish when the buffer is full.
var ErrQueueFull = errors.New("event queue is full")

// EventPublisher forwards ledger events to a downstream Publisher from a
// background worker, so that callers never block on the transport.
type EventPublisher struct {
	queue     chan *domain.Event
	publisher Publisher
	logger    zerolog.Logger
}

// Publisher defines the interface for publishing events to external systems.
type Publisher interface {
	Publish(ctx context.Context, event *domain.Event) error
}

// Config for EventPublisher.
type Config struct {
	Publisher  Publisher
	Logger     zerolog.Logger
	BufferSize int // Number of events buffered before Publish fails
}

// NewEventPublisher creates a new EventPublisher.
func NewEventPublisher(cfg Config) *EventPublisher {
	if cfg.BufferSize == 0 {
		cfg.BufferSize = 1024
	}

	return &EventPublisher{
		queue:     make(chan *domain.Event, cfg.BufferSize),
		publisher: cfg.Publisher,
		logger:    cfg.Logger.With().Str("component", "event_publisher").Logger(),
	}
}

// Publish enqueues an event. It never blocks.
func (ep *EventPublisher) Publish(_ context.Context, event *domain.Event) error {
	if event == nil {
		return nil
	}

	select {
	case ep.queue <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// Start begins the event publishing worker.
// It runs until the context is cancelled, then flushes what is buffered.
func (ep *EventPublisher) Start(ctx context.Context) error {
	ep.logger.Info().Int("buffer_size", cap(ep.queue)).Msg("event publisher started")

	for {
		select {
		case <-ctx.Done():
			ep.logger.Info().Int("pending", len(ep.queue)).Msg("event publisher shutting down")
			ep.flush(context.WithoutCancel(ctx))
			return ctx.Err()
		case event := <-ep.queue:
			ep.publishEvent(ctx, event)
		}
	}
}

func (ep *EventPublisher) flush(ctx context.Context) {
	for {
		select {
		case event := <-ep.queue:
			ep.publishEvent(ctx, event)
		default:
			return
		}
	}
}

// publishEvent publishes a single event. Failures are logged and dropped.
func (ep *EventPublisher) publishEvent(ctx context.Context, event *domain.Event) {
	ep.logger.Debug().
		Str("event_id", event.ID).
		Str("event_type", event.EventType).
		Str("aggregate_type", event.AggregateType).
		Str("aggregate_id", event.AggregateID).
		Msg("publishing event")

	if err := ep.publisher.Publish(ctx, event); err != nil {
		ep.logger.Error().
			Err(err).
			Str("event_id", event.ID).
			Str("event_type", event.EventType).
			Msg("failed to publish event")

		return
	}

	ep.logger.Info().
		Str("event_id", event.ID).
		Str("event_type", event.EventType).
		Msg("event published")
}

// LogPublisher is a simple publisher that logs events.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the event.
func (p *LogPublisher) Publish(_ context.Context, event *domain.Event) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	p.logger.Info().
		Str("event_id", event.ID).
		Str("event_type", event.EventType).
		Str("aggregate_type", event.AggregateType).
		Str("aggregate_id", event.AggregateID).
		RawJSON("payload", payload).
		Msg("EVENT PUBLISHED")

	return nil
}

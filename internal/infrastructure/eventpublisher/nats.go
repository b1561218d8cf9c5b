package eventpublisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/iho/bankledger/internal/domain"
)

// Conn is the part of *nats.Conn used by NATSPublisher.
type Conn interface {
	Publish(subj string, data []byte) error
}

// NATSPublisher publishes events as JSON on "<prefix>.<event_type>".
type NATSPublisher struct {
	conn   Conn
	prefix string
}

// NewNATSPublisher creates a new NATSPublisher.
func NewNATSPublisher(conn Conn, prefix string) *NATSPublisher {
	return &NATSPublisher{conn: conn, prefix: prefix}
}

// Subject returns the subject an event is published on.
func (p *NATSPublisher) Subject(event *domain.Event) string {
	if p.prefix == "" {
		return event.EventType
	}

	return p.prefix + "." + event.EventType
}

// Publish marshals the event and publishes it.
func (p *NATSPublisher) Publish(_ context.Context, event *domain.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.conn.Publish(p.Subject(event), data); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.ID, err)
	}

	return nil
}

// Connect opens a NATS connection that reconnects forever and logs
// connection state changes.
func Connect(url string, logger zerolog.Logger) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("bankledger"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn().Err(err).Msg("nats disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info().Str("url", nc.ConnectedUrl()).Msg("nats reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	return nc, nil
}

package eventpublisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/bankledger/internal/domain"
)

type stubConn struct {
	subjects []string
	data     [][]byte
	err      error
}

func (c *stubConn) Publish(subj string, data []byte) error {
	if c.err != nil {
		return c.err
	}

	c.subjects = append(c.subjects, subj)
	c.data = append(c.data, data)

	return nil
}

func TestNATSPublisherPublish(t *testing.T) {
	conn := &stubConn{}
	p := NewNATSPublisher(conn, "ledger")

	event := &domain.Event{
		ID:            "evt-1",
		AggregateID:   "T1",
		AggregateType: domain.AggregateTypeTransfer,
		EventType:     domain.EventTypeTransferCompleted,
		Payload:       map[string]any{"amount": "300"},
		CreatedAt:     time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	require.NoError(t, p.Publish(context.Background(), event))
	require.Len(t, conn.subjects, 1)
	assert.Equal(t, "ledger.transfer.completed", conn.subjects[0])

	var decoded domain.Event
	require.NoError(t, json.Unmarshal(conn.data[0], &decoded))
	assert.Equal(t, "evt-1", decoded.ID)
	assert.Equal(t, "300", decoded.Payload["amount"])
	assert.True(t, decoded.CreatedAt.Equal(event.CreatedAt))
}

func TestNATSPublisherSubjectWithoutPrefix(t *testing.T) {
	p := NewNATSPublisher(&stubConn{}, "")

	assert.Equal(t, "account.opened", p.Subject(&domain.Event{EventType: domain.EventTypeAccountOpened}))
}

func TestNATSPublisherPropagatesError(t *testing.T) {
	connErr := errors.New("nats: connection closed")
	p := NewNATSPublisher(&stubConn{err: connErr}, "ledger")

	err := p.Publish(context.Background(), &domain.Event{ID: "evt-1", EventType: domain.EventTypeAccountOpened})
	require.ErrorIs(t, err, connErr)
}

package eventbus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/pkg/logger"
)

type published struct {
	exchange, key string
	msg           amqp.Publishing
}

type fakeChannel struct {
	sent []published
	err  error
}

func (c *fakeChannel) Publish(exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, published{exchange, key, msg})
	return nil
}

func (c *fakeChannel) Close() error { return nil }

func TestPublish_RoutesByEventName(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisher(ch, "pos.ledger", logger.Nop())
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	p.Publish(context.Background(),
		entity.Event{Name: entity.EventMovementRecorded, OccurredAt: at, ProductID: "p1", Quantity: 3},
		entity.Event{Name: entity.EventSaleCompleted, OccurredAt: at, OrderID: "o1", Total: 300},
	)

	require.Len(t, ch.sent, 2)
	assert.Equal(t, "pos.ledger", ch.sent[0].exchange)
	assert.Equal(t, entity.EventMovementRecorded, ch.sent[0].key)
	assert.Equal(t, "application/json", ch.sent[0].msg.ContentType)
	assert.Equal(t, uint8(amqp.Persistent), ch.sent[0].msg.DeliveryMode)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(ch.sent[1].msg.Body, &decoded))
	assert.Equal(t, "o1", decoded["order_id"])
	assert.Equal(t, float64(300), decoded["total"])
}

func TestPublish_FailureIsLoggedNotPropagated(t *testing.T) {
	var buf bytes.Buffer
	ch := &fakeChannel{err: errors.New("channel closed")}
	p := newPublisher(ch, "pos.ledger", logger.New(logger.Config{Env: "test", Output: &buf}))

	p.Publish(context.Background(), entity.Event{Name: entity.EventStockBelowMinimum, ProductID: "p1"})

	assert.Contains(t, buf.String(), "channel closed")
	assert.Contains(t, buf.String(), entity.EventStockBelowMinimum)
}

func TestNopPublisher(t *testing.T) {
	assert.NotPanics(t, func() {
		NopPublisher{}.Publish(context.Background(), entity.Event{Name: "x"})
	})
}

// Package eventbus publica los eventos de dominio confirmados en RabbitMQ.
package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"

	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/pkg/logger"
)

const (
	exchangeType   = "topic"
	publishTimeout = 5 * time.Second
)

var (
	_ inventory.EventPublisher = (*RabbitMQPublisher)(nil)
	_ inventory.EventPublisher = NopPublisher{}
)

// channel es la parte de *amqp.Channel que usa el publicador.
type channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitMQPublisher publica cada evento en un exchange topic con routing key = nombre del evento.
// Un fallo se registra en el log y no se propaga: el cambio de stock ya está confirmado.
type RabbitMQPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       channel
	confirms chan amqp.Confirmation
	exchange string
	log      *logger.Logger
}

// NewRabbitMQPublisher abre la conexión, declara el exchange durable y activa confirmaciones.
func NewRabbitMQPublisher(url, exchange string, log *logger.Logger) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(
		exchange,     // name
		exchangeType, // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	if err := ch.Confirm(false); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("confirm mode: %w", err)
	}
	p := newPublisher(ch, exchange, log)
	p.conn = conn
	p.confirms = ch.NotifyPublish(make(chan amqp.Confirmation, 1))
	p.log.Info().Str("exchange", exchange).Msg("rabbitmq publisher listo")
	return p, nil
}

func newPublisher(ch channel, exchange string, log *logger.Logger) *RabbitMQPublisher {
	if log == nil {
		log = logger.Nop()
	}
	return &RabbitMQPublisher{ch: ch, exchange: exchange, log: log}
}

// Publish envía los eventos en orden.
func (p *RabbitMQPublisher) Publish(ctx context.Context, events ...entity.Event) {
	for _, e := range events {
		if err := p.publish(ctx, e); err != nil {
			p.log.Error().Err(err).
				Str("event", e.Name).
				Str("product_id", e.ProductID).
				Str("order_id", e.OrderID).
				Msg("no se pudo publicar el evento")
		}
	}
}

func (p *RabbitMQPublisher) publish(ctx context.Context, e entity.Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.Publish(p.exchange, e.Name, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    e.OccurredAt,
		Type:         e.Name,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", e.Name, err)
	}
	if p.confirms == nil {
		return nil
	}

	timer := time.NewTimer(publishTimeout)
	defer timer.Stop()
	select {
	case c := <-p.confirms:
		if !c.Ack {
			return errors.New("mensaje publicado sin confirmación")
		}
		return nil
	case <-timer.C:
		return errors.New("timeout esperando confirmación")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cierra canal y conexión.
func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Close(); err != nil {
		return err
	}
	if p.conn != nil && !p.conn.IsClosed() {
		return p.conn.Close()
	}
	return nil
}

// NopPublisher descarta los eventos (RabbitMQ no configurado).
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ...entity.Event) {}

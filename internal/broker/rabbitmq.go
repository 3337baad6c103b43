package broker

import (
	"context"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// declareQueue: fila durável, declarada igual pelo publisher e pelo consumidor do cmd/ws.
func declareQueue(ch *amqp.Channel, queue string) error {
	_, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,   // args
	)
	return err
}

// dial abre conexão + canal já com a fila declarada.
func dial(uri, queue string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("amqp channel: %w", err)
	}
	if err := declareQueue(ch, queue); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("queue declare %s: %w", queue, err)
	}
	return conn, ch, nil
}

func closeAll(ch *amqp.Channel, conn *amqp.Connection) error {
	var errCh, errConn error
	if ch != nil {
		errCh = ch.Close()
	}
	if conn != nil {
		errConn = conn.Close()
	}
	return errors.Join(errCh, errConn)
}

type Publisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

func NewPublisher(uri, queue string) (*Publisher, error) {
	conn, ch, err := dial(uri, queue)
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: conn, ch: ch, queue: queue}, nil
}

// Publish envia o corpo JSON de um evento. Os headers "event" e "event_id",
// quando presentes, viram Type e MessageId da mensagem.
func (p *Publisher) Publish(ctx context.Context, body string, headers amqp.Table) error {
	if ctx == nil {
		c, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		ctx = c
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         []byte(body),
		Headers:      headers,
	}
	if name, ok := headers["event"].(string); ok {
		msg.Type = name
	}
	if id, ok := headers["event_id"].(string); ok {
		msg.MessageId = id
	}
	return p.ch.PublishWithContext(
		ctx,
		"",      // default exchange
		p.queue, // routing key = nome da fila
		false,   // mandatory
		false,   // immediate
		msg,
	)
}

func (p *Publisher) PublishEvent(ctx context.Context, ev Event) error {
	return p.Publish(ctx, ev.Body(), ev.Headers())
}

func (p *Publisher) Close() error {
	return closeAll(p.ch, p.conn)
}

// Consumer lê a fila de eventos do painel (usado pelo cmd/ws).
type Consumer struct {
	conn       *amqp.Connection
	ch         *amqp.Channel
	Deliveries <-chan amqp.Delivery
}

func NewConsumer(uri, queue, tag string, prefetch int) (*Consumer, error) {
	conn, ch, err := dial(uri, queue)
	if err != nil {
		return nil, err
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		_ = closeAll(ch, conn)
		return nil, fmt.Errorf("amqp qos: %w", err)
	}
	deliveries, err := ch.Consume(
		queue,
		tag,
		true,  // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = closeAll(ch, conn)
		return nil, fmt.Errorf("amqp consume: %w", err)
	}
	return &Consumer{conn: conn, ch: ch, Deliveries: deliveries}, nil
}

func (c *Consumer) Close() error {
	return closeAll(c.ch, c.conn)
}

package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const purchaseQueueName = "tickets.purchased"

// Publisher emits purchase events to RabbitMQ. A connection is dialed
// per publish so a broker restart between purchases never leaves the
// service holding a dead channel; purchase volume does not justify a
// pooled connection here.
type Publisher struct {
	url string
}

// NewPublisher creates a publisher for the given AMQP URL.
func NewPublisher(url string) *Publisher {
	return &Publisher{url: url}
}

// PublishTicketsPurchased declares the durable tickets.purchased queue
// (idempotent) and publishes the event as a persistent JSON message.
// Errors are returned so the caller can decide to log and move on; a
// failed publish never rolls back the committed booking.
func (p *Publisher) PublishTicketsPurchased(ctx context.Context, ev TicketsPurchasedEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		purchaseQueueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx,
		"",                // default exchange
		purchaseQueueName, // routing key = queue name
		false,             // mandatory
		false,             // immediate
		pub,
	); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

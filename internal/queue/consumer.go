package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartPurchaseConsumer connects to the broker, declares the durable
// tickets.purchased queue and consumes it, writing one log line per
// committed purchase. It runs a reconnect loop with capped backoff and
// never returns under normal operation; a malformed message is rejected
// without requeue so a poison message cannot wedge the consumer.
//
// Intended to run in its own goroutine from main.
func StartPurchaseConsumer(url string) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("purchase-consumer: dial failed: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLoop(conn); err != nil {
			log.Printf("purchase-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("purchase-consumer: set QoS failed: %v", err)
	}

	if _, err := ch.QueueDeclare(purchaseQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(purchaseQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(d.Body); err != nil {
			log.Printf("purchase-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false) // do not requeue poison messages
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(body []byte) error {
	var ev TicketsPurchasedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	seats := "-"
	if len(ev.SeatNumbers) > 0 {
		parts := make([]string, len(ev.SeatNumbers))
		for i, n := range ev.SeatNumbers {
			parts[i] = strconv.Itoa(n)
		}
		seats = strings.Join(parts, ",")
	}
	log.Printf("purchase %s: event=%d section=%q row=%q qty=%d seats=%s discount=%t at=%s",
		ev.BookingRef, ev.EventID, ev.Section, ev.Row, ev.Quantity, seats, ev.GroupDiscount, ev.PurchasedAt)
	return nil
}

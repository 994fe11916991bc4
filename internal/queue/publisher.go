package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends EmailMessages to a durable queue. A connection is opened per
// message; password-reset mail is rare and this keeps the API free of broker
// reconnect logic.
type Publisher struct {
	url   string
	queue string
}

func NewPublisher(url, queueName string) *Publisher {
	return &Publisher{url: url, queue: queueName}
}

// Ping verifies the broker is reachable and declares the queue.
func (p *Publisher) Ping() error {
	const op = "queue.Ping"

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Send publishes msg as a persistent JSON message.
func (p *Publisher) Send(ctx context.Context, msg EmailMessage) error {
	const op = "queue.Send"

	if msg.RequestedAt.IsZero() {
		msg.RequestedAt = time.Now().UTC()
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("%s: dial: %w", op, err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("%s: channel: %w", op, err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("%s: declare: %w", op, err)
	}

	err = ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("%s: publish: %w", op, err)
	}
	return nil
}

// LogSender stands in for the Publisher when the broker is unreachable at
// startup. Messages are logged and dropped.
type LogSender struct {
	Log *slog.Logger
}

func (s LogSender) Send(ctx context.Context, msg EmailMessage) error {
	s.Log.WarnContext(ctx, "email queue unavailable; message dropped", "to", msg.To, "subject", msg.Subject)
	return nil
}

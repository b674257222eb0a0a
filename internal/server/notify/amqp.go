package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// VerificationRequested is published for every token that must be mailed.
type VerificationRequested struct {
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Token       string    `json:"token"`
	RequestedAt time.Time `json:"requested_at"`
}

type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type amqpConnection interface {
	Channel() (amqpChannel, error)
	Close() error
}

type amqpConn struct {
	*amqp.Connection
}

func (c amqpConn) Channel() (amqpChannel, error) {
	ch, err := c.Connection.Channel()
	if err != nil {
		return nil, err
	}
	return ch, nil
}

func dialAMQP(url string) (amqpConnection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	return amqpConn{conn}, nil
}

// AMQPNotifier publishes VerificationRequested events as persistent JSON
// messages to a durable queue on the default exchange. A mailer consumes the
// queue.
type AMQPNotifier struct {
	url   string
	queue string
	dial  func(url string) (amqpConnection, error)
	now   func() time.Time
}

func NewAMQPNotifier(url, queue string) *AMQPNotifier {
	return &AMQPNotifier{url: url, queue: queue, dial: dialAMQP, now: time.Now}
}

func (n *AMQPNotifier) DeliverVerification(ctx context.Context, address, token string) error {
	body, err := json.Marshal(VerificationRequested{
		Email:       address,
		Name:        recipientName(address),
		Token:       token,
		RequestedAt: n.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode verification event: %w", err)
	}

	conn, err := n.dial(n.url)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("amqp channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(n.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("amqp queue declare: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    n.now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", n.queue, false, false, msg); err != nil {
		return fmt.Errorf("amqp publish: %w", err)
	}

	return nil
}

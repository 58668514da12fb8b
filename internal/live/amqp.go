package live

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"
)

// amqpChannel is the slice of *amqp.Channel the broadcaster needs.
type amqpChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPBroadcaster publishes updates to a topic exchange so other services
// can follow matches without holding a websocket.
type AMQPBroadcaster struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  amqpChannel
	exchange string
}

// NewAMQPBroadcaster dials the broker and declares the topic exchange.
func NewAMQPBroadcaster(url, exchange string) (*AMQPBroadcaster, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{
		Heartbeat: 30 * time.Second,
		Locale:    "en_US",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to AMQP: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open AMQP channel: %w", err)
	}
	b, err := newAMQPBroadcasterWithChannel(ch, exchange)
	if err != nil {
		conn.Close()
		return nil, err
	}
	b.conn = conn
	return b, nil
}

func newAMQPBroadcasterWithChannel(ch amqpChannel, exchange string) (*AMQPBroadcaster, error) {
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	return &AMQPBroadcaster{channel: ch, exchange: exchange}, nil
}

// RoutingKey is match.<id>.<event>, so consumers can bind on match.*.wicket style patterns.
func RoutingKey(u Update) string {
	return fmt.Sprintf("match.%d.%s", u.MatchID, u.Event)
}

func (b *AMQPBroadcaster) Broadcast(_ context.Context, u Update) error {
	body, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode update: %w", err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Transient,
		Timestamp:    time.Unix(u.Timestamp, 0),
		Type:         u.Event,
		Body:         body,
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.channel.Publish(b.exchange, RoutingKey(u), false, false, msg); err != nil {
		return fmt.Errorf("publish %s: %w", RoutingKey(u), err)
	}
	return nil
}

func (b *AMQPBroadcaster) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	err := b.channel.Close()
	if b.conn != nil {
		if cerr := b.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

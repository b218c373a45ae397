package cot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrDeliveriesClosed is returned by Run when the broker closes the consumer.
var ErrDeliveriesClosed = errors.New("cot deliveries channel closed")

// Channel is the subset of *amqp.Channel the listener needs.
type Channel interface {
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Close() error
}

// DialFunc opens a channel to the broker. The returned func closes the
// underlying connection.
type DialFunc func(url string) (Channel, func() error, error)

// ListenerConfig names the broker and the CoT fanout to consume.
type ListenerConfig struct {
	URL         string
	Exchange    string
	Queue       string
	ConsumerTag string

	// RetryDelay is the pause between reconnect attempts in Serve. Defaults to 5s.
	RetryDelay time.Duration
}

// Listener consumes every CoT message the server routes through its
// controller exchange and publishes it to a Publisher.
type Listener struct {
	cfg    ListenerConfig
	pub    Publisher
	logger *slog.Logger
	dial   DialFunc
}

// NewListener creates a listener. A nil dial uses amqp.Dial.
func NewListener(cfg ListenerConfig, pub Publisher, dial DialFunc, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.Default()
	}
	if dial == nil {
		dial = DialAMQP
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 5 * time.Second
	}
	return &Listener{cfg: cfg, pub: pub, logger: logger.With("component", "cot_listener"), dial: dial}
}

// DialAMQP connects with amqp091 and opens one channel.
func DialAMQP(url string) (Channel, func() error, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}
	return ch, conn.Close, nil
}

// Run consumes until ctx is cancelled or the broker closes the consumer.
// A cancelled context is not an error.
func (l *Listener) Run(ctx context.Context) error {
	ch, closeConn, err := l.dial(l.cfg.URL)
	if err != nil {
		return err
	}
	defer func() {
		_ = ch.Close()
		if closeConn != nil {
			_ = closeConn()
		}
	}()
	l.logger.Debug("rabbitmq channel open")

	if err := ch.QueueBind(l.cfg.Queue, l.cfg.Queue, l.cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("bind %s to %s: %w", l.cfg.Queue, l.cfg.Exchange, err)
	}
	deliveries, err := ch.Consume(l.cfg.Queue, l.cfg.ConsumerTag, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", l.cfg.Queue, err)
	}
	l.logger.Debug("cot listener set up", "consumer_tag", l.cfg.ConsumerTag)

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return ErrDeliveriesClosed
			}
			l.pub.Publish(EventCoT, d.Body)
		}
	}
}

// Serve runs the listener and reconnects after failures until ctx is done.
func (l *Listener) Serve(ctx context.Context) {
	for {
		err := l.Run(ctx)
		if ctx.Err() != nil {
			return
		}
		l.logger.Error("cot listener stopped, retrying", "error", err, "retry_in", l.cfg.RetryDelay)

		select {
		case <-ctx.Done():
			return
		case <-time.After(l.cfg.RetryDelay):
		}
	}
}

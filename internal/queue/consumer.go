package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler processes one delivery body. The consumer acknowledges every
// delivery after the handler returns, so handlers own their failure
// policy and must never rely on broker redelivery for retries.
type Handler func(ctx context.Context, body []byte)

// Consumer receives jobs from the durable queue one at a time and
// survives broker outages by reconnecting at a fixed interval.
type Consumer struct {
	url               string
	queueName         string
	reconnectInterval time.Duration
	handler           Handler
	logger            *slog.Logger
}

// NewConsumer builds a consumer bound to the given queue.
func NewConsumer(url, queueName string, reconnectInterval time.Duration, handler Handler, logger *slog.Logger) (*Consumer, error) {
	if url == "" {
		return nil, errors.New("broker URL cannot be empty")
	}
	if queueName == "" {
		return nil, errors.New("queue name cannot be empty")
	}
	if handler == nil {
		return nil, errors.New("handler cannot be nil")
	}
	if reconnectInterval <= 0 {
		reconnectInterval = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Consumer{
		url:               url,
		queueName:         queueName,
		reconnectInterval: reconnectInterval,
		handler:           handler,
		logger:            logger.With(slog.String("component", "queue_consumer")),
	}, nil
}

// Run consumes until ctx is canceled. A lost connection is retried
// forever at the configured interval; Run only returns the context's
// error.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		conn, err := c.connect(ctx)
		if err != nil {
			// connect only fails when ctx is done.
			return err
		}

		err = c.consume(ctx, conn)
		_ = conn.Close()

		if ctx.Err() != nil {
			return ctx.Err()
		}

		c.logger.Warn("queue session ended, reconnecting",
			slog.String("error", err.Error()),
			slog.Duration("interval", c.reconnectInterval))
	}
}

// connect dials the broker, retrying at a fixed interval with no
// attempt limit until the context is canceled.
func (c *Consumer) connect(ctx context.Context) (*amqp.Connection, error) {
	return retry.DoWithData(
		func() (*amqp.Connection, error) {
			return amqp.Dial(c.url)
		},
		retry.Context(ctx),
		retry.Attempts(0),
		retry.Delay(c.reconnectInterval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("broker connection failed, will retry",
				slog.Uint64("attempt", uint64(n+1)),
				slog.String("error", err.Error()))
		}),
	)
}

// consume runs one session on an established connection: declare the
// queue, cap unacknowledged deliveries at one, and dispatch until the
// delivery stream closes.
func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	channel, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer func() { _ = channel.Close() }()

	if _, err := declareJobQueue(channel, c.queueName); err != nil {
		return err
	}

	// Prefetch one so a busy worker never hoards jobs other replicas
	// could be processing.
	if err := channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set prefetch: %w", err)
	}

	deliveries, err := channel.ConsumeWithContext(ctx,
		c.queueName,
		"",    // consumer tag, broker-assigned
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	c.logger.Info("consuming jobs", slog.String("queue", c.queueName))

	for delivery := range deliveries {
		c.handler(ctx, delivery.Body)

		if err := delivery.Ack(false); err != nil {
			// The broker will redeliver; downstream persistence is
			// idempotent so the job converges on redelivery.
			c.logger.Warn("failed to acknowledge delivery",
				slog.String("error", err.Error()))
		}
	}

	return errors.New("delivery stream closed")
}

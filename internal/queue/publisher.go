package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/avast/retry-go/v4"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher enqueues reading-plan jobs. Implementations must be safe
// for concurrent use by HTTP handlers.
type Publisher interface {
	// Publish enqueues one job. The message survives a broker restart
	// once Publish returns nil.
	Publish(ctx context.Context, msg Message) error

	// Close releases the underlying connection.
	Close() error
}

// publishSession is one established broker session. AMQP connections do
// not recover on their own, so the publisher discards a session whose
// publish failed and dials a fresh one.
type publishSession interface {
	Publish(ctx context.Context, queueName string, body []byte) error
	Close() error
}

// AMQPPublisher publishes jobs to a durable AMQP queue using the
// default exchange, so the queue name doubles as the routing key.
// The broker session is established on demand and replaced after a
// publish failure, so a broker restart degrades at most the publishes
// that race it.
type AMQPPublisher struct {
	queueName string
	logger    *slog.Logger
	dial      func() (publishSession, error)

	mu      sync.Mutex
	session publishSession
}

var _ Publisher = (*AMQPPublisher)(nil)

// NewAMQPPublisher builds a publisher for the durable job queue. The
// broker is dialed eagerly so configuration problems surface in the
// startup log, but an unreachable broker is not fatal: the next publish
// dials again.
func NewAMQPPublisher(url, queueName string, logger *slog.Logger) (*AMQPPublisher, error) {
	if url == "" {
		return nil, errors.New("broker URL cannot be empty")
	}
	if queueName == "" {
		return nil, errors.New("queue name cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	p := &AMQPPublisher{
		queueName: queueName,
		logger:    logger.With(slog.String("component", "queue_publisher")),
		dial: func() (publishSession, error) {
			return dialSession(url, queueName)
		},
	}

	if _, err := p.currentSession(); err != nil {
		p.logger.Warn("broker unreachable at startup, will redial on publish",
			slog.String("error", err.Error()))
	}

	return p, nil
}

// Publish implements Publisher. Messages are marked persistent so the
// broker writes them to disk in the durable queue. A publish that fails
// on a stale session is retried once on a fresh one.
func (p *AMQPPublisher) Publish(ctx context.Context, msg Message) error {
	body, err := msg.Encode()
	if err != nil {
		return err
	}

	err = retry.Do(
		func() error {
			session, err := p.currentSession()
			if err != nil {
				return err
			}
			if err := p.publishOn(ctx, session, body); err != nil {
				p.dropSession(session)
				return err
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(2),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return fmt.Errorf("failed to publish job: %w", err)
	}

	p.logger.Debug("job published",
		slog.Int64("profile_id", msg.ProfileID),
		slog.Int64("document_id", msg.DocumentID))
	return nil
}

// Close implements Publisher.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.session == nil {
		return nil
	}
	err := p.session.Close()
	p.session = nil
	return err
}

// currentSession returns the live session, dialing one if none exists.
func (p *AMQPPublisher) currentSession() (publishSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.session != nil {
		return p.session, nil
	}

	session, err := p.dial()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}
	p.logger.Info("broker session established")
	p.session = session
	return session, nil
}

// dropSession closes and forgets the given session unless a concurrent
// publisher already replaced it.
func (p *AMQPPublisher) dropSession(session publishSession) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.session == session {
		_ = session.Close()
		p.session = nil
	}
}

func (p *AMQPPublisher) publishOn(ctx context.Context, session publishSession, body []byte) error {
	return session.Publish(ctx, p.queueName, body)
}

// amqpSession wraps one connection and channel pair with the queue
// already declared.
type amqpSession struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

var _ publishSession = (*amqpSession)(nil)

// dialSession connects to the broker and declares the durable queue so
// publishing works regardless of whether a worker has started.
func dialSession(url, queueName string) (publishSession, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := declareJobQueue(channel, queueName); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, err
	}

	return &amqpSession{conn: conn, channel: channel}, nil
}

func (s *amqpSession) Publish(ctx context.Context, queueName string, body []byte) error {
	return s.channel.PublishWithContext(ctx,
		"",        // default exchange
		queueName, // routing key
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		})
}

func (s *amqpSession) Close() error {
	if err := s.channel.Close(); err != nil {
		_ = s.conn.Close()
		return fmt.Errorf("failed to close channel: %w", err)
	}
	if err := s.conn.Close(); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	return nil
}

// declareJobQueue declares the durable job queue with the settings both
// publisher and consumer must agree on.
func declareJobQueue(channel *amqp.Channel, name string) (amqp.Queue, error) {
	q, err := channel.QueueDeclare(
		name,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		return amqp.Queue{}, fmt.Errorf("failed to declare queue %q: %w", name, err)
	}
	return q, nil
}

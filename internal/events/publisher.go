package events

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"minibar/internal/store"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// messageWriter is the part of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// writeTimeout bounds a single write to the brokers.
const writeTimeout = 10 * time.Second

// Publisher forwards store events to a Kafka topic. Handle never blocks the
// store: events are queued on a buffered inbox drained by one goroutine, and
// dropped with a warning when the inbox is full.
type Publisher struct {
	w      messageWriter
	inbox  chan kafka.Message
	done   chan struct{}
	mu     sync.RWMutex
	closed bool
	logger zerolog.Logger
}

// NewPublisher creates a publisher writing to topic on brokers. Messages are
// keyed by room so each room's events stay ordered within a partition.
func NewPublisher(brokers []string, topic string, buf int, logger zerolog.Logger) *Publisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}
	return newPublisher(w, buf, logger)
}

func newPublisher(w messageWriter, buf int, logger zerolog.Logger) *Publisher {
	p := &Publisher{
		w:      w,
		inbox:  make(chan kafka.Message, buf),
		done:   make(chan struct{}),
		logger: logger.With().Str("component", "event-publisher").Logger(),
	}
	go p.run()
	return p
}

func (p *Publisher) run() {
	defer close(p.done)

	for msg := range p.inbox {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := p.w.WriteMessages(ctx, msg); err != nil {
			p.logger.Error().
				Err(err).
				Str("room", string(msg.Key)).
				Msg("failed to publish event")
		}
		cancel()
	}

	if err := p.w.Close(); err != nil {
		p.logger.Error().Err(err).Msg("failed to close kafka writer")
	}
}

// Handle queues a store event for publishing.
func (p *Publisher) Handle(ev store.Event) {
	env, err := NewEnvelope(ev)
	if err != nil {
		p.logger.Error().Err(err).Msg("failed to build event envelope")
		return
	}
	value, err := json.Marshal(env)
	if err != nil {
		p.logger.Error().Err(err).Msg("failed to encode event envelope")
		return
	}

	msg := kafka.Message{
		Key:   []byte(ev.Room),
		Value: value,
		Time:  env.OccurredAt,
		Headers: []kafka.Header{
			{Key: "x-event-type", Value: []byte(env.EventType)},
			{Key: "x-event-version", Value: []byte(strconv.Itoa(env.EventVersion))},
		},
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		p.logger.Warn().Str("event", env.EventType).Msg("publisher closed, event dropped")
		return
	}

	select {
	case p.inbox <- msg:
	default:
		p.logger.Warn().
			Str("event", env.EventType).
			Str("room", ev.Room).
			Msg("event inbox full, event dropped")
	}
}

// Close stops accepting events and waits for queued ones to be written, or
// for ctx to expire.
func (p *Publisher) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.inbox)
	}
	p.mu.Unlock()

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

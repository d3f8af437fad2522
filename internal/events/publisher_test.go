package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"minibar/internal/model"
	"minibar/internal/store"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWriter records written messages. A non-nil block channel holds every
// write until it is closed.
type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	block    chan struct{}
	closed   bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, msgs...)
	return f.err
}

func (f *fakeWriter) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeWriter) written() []kafka.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]kafka.Message(nil), f.messages...)
}

func decodeEnvelope(t *testing.T, msg kafka.Message) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	return env
}

func TestPublisher_PublishesInOrder(t *testing.T) {
	w := &fakeWriter{}
	p := newPublisher(w, 16, zerolog.Nop())

	s := store.New(nil, zerolog.Nop(), store.WithRoom("0808"))
	s.Subscribe(p.Handle)

	coke := model.NewProduct("Coke", decimal.NewFromInt(5))
	line := model.NewOrderLine(coke, 1, "0808", time.Now())
	s.Add(line)
	s.Add(model.NewOrderLine(coke, 1, "0808", time.Now()))
	start := time.Date(2025, 9, 3, 14, 0, 0, 0, time.UTC)
	s.SetScheduledSlot(&model.TimeSlot{Start: start, End: start.Add(time.Hour)})
	s.SetScheduledSlot(nil)

	require.NoError(t, p.Close(context.Background()))

	msgs := w.written()
	require.Len(t, msgs, 4)
	assert.True(t, w.closed)

	var kinds []string
	for _, msg := range msgs {
		assert.Equal(t, "0808", string(msg.Key))
		env := decodeEnvelope(t, msg)
		kinds = append(kinds, env.EventType)
		assert.Equal(t, EnvelopeVersion, env.EventVersion)
		assert.Equal(t, "0808", env.Room)
		assert.Equal(t, []kafka.Header{
			{Key: "x-event-type", Value: []byte(env.EventType)},
			{Key: "x-event-version", Value: []byte("1")},
		}, msg.Headers)
	}
	assert.Equal(t, []string{"line.added", "line.merged", "slot.set", "slot.cleared"}, kinds)

	var merged LinePayload
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, msgs[1]).Payload, &merged))
	assert.Equal(t, line.ID, merged.LineID)
	assert.Equal(t, 2, merged.Quantity)
	assert.True(t, decimal.NewFromInt(5).Equal(merged.UnitPrice))

	var set, cleared SlotPayload
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, msgs[2]).Payload, &set))
	require.NotNil(t, set.Start)
	assert.True(t, start.Equal(*set.Start))
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, msgs[3]).Payload, &cleared))
	assert.Nil(t, cleared.Start)
	assert.Nil(t, cleared.End)
}

func TestPublisher_WriteErrorsAreNotFatal(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker unavailable")}
	p := newPublisher(w, 4, zerolog.Nop())

	p.Handle(store.Event{Kind: store.EventSlotCleared, Room: "0808", OccurredAt: time.Now()})
	p.Handle(store.Event{Kind: store.EventSlotCleared, Room: "0808", OccurredAt: time.Now()})

	require.NoError(t, p.Close(context.Background()))
	assert.Len(t, w.written(), 2)
}

func TestPublisher_DropsWhenInboxFull(t *testing.T) {
	w := &fakeWriter{block: make(chan struct{})}
	p := newPublisher(w, 1, zerolog.Nop())

	// The writer goroutine may take one message off the inbox before blocking,
	// so at most two of these are accepted.
	for i := 0; i < 5; i++ {
		p.Handle(store.Event{Kind: store.EventSlotCleared, Room: "0808", OccurredAt: time.Now()})
	}

	close(w.block)
	require.NoError(t, p.Close(context.Background()))

	n := len(w.written())
	assert.GreaterOrEqual(t, n, 1)
	assert.LessOrEqual(t, n, 2)
}

func TestPublisher_HandleAfterClose(t *testing.T) {
	w := &fakeWriter{}
	p := newPublisher(w, 4, zerolog.Nop())
	require.NoError(t, p.Close(context.Background()))

	assert.NotPanics(t, func() {
		p.Handle(store.Event{Kind: store.EventSlotCleared, Room: "0808", OccurredAt: time.Now()})
	})
	assert.Empty(t, w.written())
	assert.NoError(t, p.Close(context.Background()), "close is idempotent")
}

func TestPublisher_CloseTimesOut(t *testing.T) {
	w := &fakeWriter{block: make(chan struct{})}
	defer close(w.block)
	p := newPublisher(w, 4, zerolog.Nop())
	p.Handle(store.Event{Kind: store.EventSlotCleared, Room: "0808", OccurredAt: time.Now()})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, p.Close(ctx), context.DeadlineExceeded)
}

func TestNewEnvelope(t *testing.T) {
	occurred := time.Date(2025, 9, 3, 10, 0, 0, 0, time.FixedZone("AEST", 10*60*60))
	env, err := NewEnvelope(store.Event{Kind: store.EventSlotCleared, Room: "0808", OccurredAt: occurred})

	require.NoError(t, err)
	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, "slot.cleared", env.EventType)
	assert.Equal(t, "minibar-api", env.Producer)
	assert.Equal(t, time.UTC, env.OccurredAt.Location())
	assert.True(t, occurred.Equal(env.OccurredAt))
	assert.JSONEq(t, `{"start":null,"end":null}`, string(env.Payload))
}

package store

import (
	"slices"
	"sync"
	"time"

	"minibar/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// memoryStore implements Store in memory.
type memoryStore struct {
	mu        sync.RWMutex
	room      string
	catalog   []model.Product
	lines     []model.OrderLine
	slot      *model.TimeSlot
	listeners []*subscription
	now       func() time.Time
	logger    zerolog.Logger
}

type subscription struct {
	listener Listener
}

// Option configures a memory store.
type Option func(*memoryStore)

// WithClock overrides the time source used to stamp merged lines and events.
func WithClock(now func() time.Time) Option {
	return func(s *memoryStore) {
		s.now = now
	}
}

// WithRoom tags slot events with the room the store serves.
func WithRoom(room string) Option {
	return func(s *memoryStore) {
		s.room = room
	}
}

// New creates an in-memory store over a fixed catalog.
func New(catalog []model.Product, logger zerolog.Logger, opts ...Option) Store {
	s := &memoryStore{
		catalog: slices.Clone(catalog),
		now:     time.Now,
		logger:  logger.With().Str("component", "order-store").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the products guests can order, in display order.
func (s *memoryStore) Catalog() []model.Product {
	return slices.Clone(s.catalog)
}

// Lines returns a copy of the current order lines.
func (s *memoryStore) Lines() []model.OrderLine {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.lines)
}

// Add inserts a line, or merges its quantity into the line with the same
// room and product. A merge refreshes CreatedAt so the line sorts as newest.
func (s *memoryStore) Add(line model.OrderLine) {
	s.mu.Lock()
	idx := slices.IndexFunc(s.lines, func(l model.OrderLine) bool {
		return l.Room == line.Room && l.Product.ID == line.Product.ID
	})

	var ev Event
	if idx >= 0 {
		s.lines[idx].Quantity += line.Quantity
		s.lines[idx].CreatedAt = s.now()
		merged := s.lines[idx]
		ev = Event{Kind: EventLineMerged, Room: merged.Room, Line: &merged}
	} else {
		s.lines = append(s.lines, line)
		ev = Event{Kind: EventLineAdded, Room: line.Room, Line: &line}
	}
	s.mu.Unlock()

	s.logger.Debug().
		Str("event", string(ev.Kind)).
		Str("room", ev.Room).
		Str("product", ev.Line.Product.Name).
		Int("quantity", ev.Line.Quantity).
		Msg("order line stored")

	s.notify(ev)
}

// Update replaces the line with the same ID. Unknown IDs are ignored.
func (s *memoryStore) Update(line model.OrderLine) {
	s.mu.Lock()
	idx := slices.IndexFunc(s.lines, func(l model.OrderLine) bool {
		return l.ID == line.ID
	})
	if idx < 0 {
		s.mu.Unlock()
		s.logger.Debug().Str("line_id", line.ID.String()).Msg("update ignored, line not found")
		return
	}
	s.lines[idx] = line
	s.mu.Unlock()

	s.notify(Event{Kind: EventLineUpdated, Room: line.Room, Line: &line})
}

// Delete removes the line with the given ID. Unknown IDs are ignored.
func (s *memoryStore) Delete(id uuid.UUID) {
	s.mu.Lock()
	idx := slices.IndexFunc(s.lines, func(l model.OrderLine) bool {
		return l.ID == id
	})
	if idx < 0 {
		s.mu.Unlock()
		s.logger.Debug().Str("line_id", id.String()).Msg("delete ignored, line not found")
		return
	}
	removed := s.lines[idx]
	s.lines = slices.Delete(s.lines, idx, idx+1)
	s.mu.Unlock()

	s.notify(Event{Kind: EventLineDeleted, Room: removed.Room, Line: &removed})
}

// ScheduledSlot returns the committed slot, or nil when none is set.
func (s *memoryStore) ScheduledSlot() *model.TimeSlot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.slot == nil {
		return nil
	}
	slot := *s.slot
	return &slot
}

// SetScheduledSlot replaces the committed slot. A nil slot clears it.
func (s *memoryStore) SetScheduledSlot(slot *model.TimeSlot) {
	ev := Event{Kind: EventSlotCleared, Room: s.room}

	s.mu.Lock()
	if slot == nil {
		s.slot = nil
	} else {
		committed, published := *slot, *slot
		s.slot = &committed
		ev.Kind = EventSlotSet
		ev.Slot = &published
	}
	s.mu.Unlock()

	s.notify(ev)
}

// Subscribe registers a listener for change events and returns a function
// that removes it.
func (s *memoryStore) Subscribe(listener Listener) func() {
	sub := &subscription{listener: listener}

	s.mu.Lock()
	s.listeners = append(s.listeners, sub)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.listeners = slices.DeleteFunc(s.listeners, func(l *subscription) bool {
			return l == sub
		})
	}
}

// notify delivers ev to every listener in subscription order.
// It must be called without holding the lock so listeners may read the store.
func (s *memoryStore) notify(ev Event) {
	ev.OccurredAt = s.now()

	s.mu.RLock()
	subs := slices.Clone(s.listeners)
	s.mu.RUnlock()

	for _, sub := range subs {
		sub.listener(ev)
	}
}

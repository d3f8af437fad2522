package store

import (
	"time"

	"minibar/internal/model"
)

// EventKind identifies the mutation that produced an Event.
type EventKind string

const (
	EventLineAdded   EventKind = "line.added"
	EventLineMerged  EventKind = "line.merged"
	EventLineUpdated EventKind = "line.updated"
	EventLineDeleted EventKind = "line.deleted"
	EventSlotSet     EventKind = "slot.set"
	EventSlotCleared EventKind = "slot.cleared"
)

// Event describes a single change to a store.
// Line is set for line events, Slot for slot.set.
type Event struct {
	Kind       EventKind
	Room       string
	Line       *model.OrderLine
	Slot       *model.TimeSlot
	OccurredAt time.Time
}

// Listener receives store events synchronously, after the change is applied.
type Listener func(Event)

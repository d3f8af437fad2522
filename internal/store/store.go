package store

import (
	"minibar/internal/model"

	"github.com/google/uuid"
)

// OrderManager defines the order line operations of a store.
type OrderManager interface {
	// Catalog returns the products guests can order, in display order.
	Catalog() []model.Product

	// Lines returns a copy of the current order lines.
	Lines() []model.OrderLine

	// Add inserts a line, or merges its quantity into the line with the
	// same room and product.
	Add(line model.OrderLine)

	// Update replaces the line with the same ID. Unknown IDs are ignored.
	Update(line model.OrderLine)

	// Delete removes the line with the given ID. Unknown IDs are ignored.
	Delete(id uuid.UUID)
}

// Scheduler defines access to the committed service time slot.
type Scheduler interface {
	// ScheduledSlot returns the committed slot, or nil when none is set.
	ScheduledSlot() *model.TimeSlot

	// SetScheduledSlot replaces the committed slot. A nil slot clears it.
	SetScheduledSlot(slot *model.TimeSlot)
}

// Store is the single source of truth for a session's orders and schedule.
type Store interface {
	OrderManager
	Scheduler

	// Subscribe registers a listener for change events and returns a
	// function that removes it.
	Subscribe(listener Listener) (unsubscribe func())
}

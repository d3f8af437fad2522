package schedule

import (
	"time"

	"minibar/internal/model"
)

const (
	// DefaultSlotLength is the length of a freshly proposed draft.
	DefaultSlotLength = 30 * time.Minute

	// slotBoundary is the wall-clock grid a default draft starts on.
	slotBoundary = 30 * time.Minute

	// shortestRejected is the longest slot that is still too short.
	// Anything strictly longer passes, so 29m fails and 29m1s is accepted.
	shortestRejected = 29 * time.Minute

	// MaxSlotLength is the exclusive upper bound on a slot's length.
	MaxSlotLength = 5 * time.Hour
)

// Validate checks a candidate slot and returns the first rule it breaks.
// Rules are checked in order: end after start, minimum length, maximum length.
func Validate(slot model.TimeSlot) error {
	if !slot.End.After(slot.Start) {
		return model.ErrSlotEndBeforeStart
	}

	length := slot.Duration()
	if length <= shortestRejected {
		return model.ErrSlotTooShort
	}
	if length >= MaxSlotLength {
		return model.ErrSlotTooLong
	}

	return nil
}

// DefaultDraft proposes a slot starting at the next 30-minute boundary of the
// local wall clock, lasting DefaultSlotLength. A time already on a boundary
// is used as is.
func DefaultDraft(now time.Time) model.TimeSlot {
	hour := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, now.Location())
	offset := now.Sub(hour)

	start := hour.Add(offset / slotBoundary * slotBoundary)
	if offset%slotBoundary != 0 {
		start = start.Add(slotBoundary)
	}

	return model.TimeSlot{Start: start, End: start.Add(DefaultSlotLength)}
}

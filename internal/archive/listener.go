package archive

import (
	"context"
	"time"

	"minibar/internal/store"

	"github.com/rs/zerolog"
)

// Listener mirrors store events into the archive. Writes are synchronous and
// bounded by a timeout; failures are logged and never reach the store.
type Listener struct {
	repo    Repository
	timeout time.Duration
	logger  zerolog.Logger
}

// NewListener creates a listener that writes through repo.
func NewListener(repo Repository, timeout time.Duration, logger zerolog.Logger) *Listener {
	return &Listener{
		repo:    repo,
		timeout: timeout,
		logger:  logger.With().Str("component", "archive-listener").Logger(),
	}
}

// Handle applies a single store event to the archive.
func (l *Listener) Handle(ev store.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	var err error
	switch ev.Kind {
	case store.EventLineAdded, store.EventLineMerged, store.EventLineUpdated:
		err = l.repo.UpsertLine(ctx, *ev.Line)
	case store.EventLineDeleted:
		err = l.repo.DeleteLine(ctx, ev.Line.ID)
	case store.EventSlotSet:
		err = l.repo.UpsertSlot(ctx, ev.Room, *ev.Slot)
	case store.EventSlotCleared:
		err = l.repo.ClearSlot(ctx, ev.Room)
	default:
		l.logger.Warn().Str("event", string(ev.Kind)).Msg("unknown event kind")
		return
	}

	if err != nil {
		l.logger.Error().
			Err(err).
			Str("event", string(ev.Kind)).
			Str("room", ev.Room).
			Msg("failed to archive event")
	}
}

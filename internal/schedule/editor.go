package schedule

import (
	"errors"
	"sync"
	"time"

	"minibar/internal/model"
	"minibar/internal/store"

	"github.com/rs/zerolog"
)

// Editor is a transient editing session for a room's service time slot.
// It holds a draft separate from the committed slot and validates the draft
// before writing it to a store.
type Editor struct {
	mu     sync.Mutex
	mode   model.ScheduleMode
	draft  model.TimeSlot
	err    error
	now    func() time.Time
	logger zerolog.Logger
}

// NewEditor creates an editor in editing mode with the default draft.
// A nil clock defaults to time.Now.
func NewEditor(now func() time.Time, logger zerolog.Logger) *Editor {
	if now == nil {
		now = time.Now
	}
	return &Editor{
		mode:   model.ScheduleModeEditing,
		draft:  DefaultDraft(now()),
		now:    now,
		logger: logger.With().Str("component", "schedule-editor").Logger(),
	}
}

// Draft returns the slot being composed or displayed.
func (e *Editor) Draft() model.TimeSlot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

// Mode reports whether the editor is composing a draft or showing a committed slot.
func (e *Editor) Mode() model.ScheduleMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// Err returns the last validation failure, or nil.
func (e *Editor) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// ErrorMessage returns the last validation failure as text, or "" when there is none.
func (e *Editor) ErrorMessage() string {
	if err := e.Err(); err != nil {
		return err.Error()
	}
	return ""
}

// SetDraft replaces the draft's start and end and enters editing mode, so
// viewing mode always shows the committed slot. No validation happens until Save.
func (e *Editor) SetDraft(start, end time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft = model.TimeSlot{Start: start, End: end}
	e.mode = model.ScheduleModeEditing
}

// Load shows the committed slot if there is one, otherwise starts a fresh draft.
func (e *Editor) Load(s store.Scheduler) {
	committed := s.ScheduledSlot()

	e.mu.Lock()
	defer e.mu.Unlock()

	e.err = nil
	if committed != nil {
		e.draft = *committed
		e.mode = model.ScheduleModeViewing
		return
	}
	e.draft = DefaultDraft(e.now())
	e.mode = model.ScheduleModeEditing
}

// Cancel discards the draft and reverts to the committed state.
func (e *Editor) Cancel(s store.Scheduler) {
	e.Load(s)
}

// BeginEditing copies the committed slot, if any, into the draft and enters editing mode.
func (e *Editor) BeginEditing(s store.Scheduler) {
	committed := s.ScheduledSlot()

	e.mu.Lock()
	defer e.mu.Unlock()

	if committed != nil {
		e.draft = *committed
	}
	e.mode = model.ScheduleModeEditing
}

// Save validates the draft and commits it to s. On failure the store is left
// untouched, the editor stays in editing mode and the validation error is
// both recorded and returned.
func (e *Editor) Save(s store.Scheduler) error {
	e.mu.Lock()
	draft := e.draft
	if err := Validate(draft); err != nil {
		e.err = err
		e.mode = model.ScheduleModeEditing
		e.mu.Unlock()

		var domainErr *model.DomainError
		if errors.As(err, &domainErr) {
			e.logger.Debug().
				Str("code", domainErr.Code).
				Dur("length", draft.Duration()).
				Msg("time slot rejected")
		}
		return err
	}
	e.mu.Unlock()

	s.SetScheduledSlot(&draft)

	e.mu.Lock()
	e.err = nil
	e.mode = model.ScheduleModeViewing
	e.mu.Unlock()

	e.logger.Debug().
		Time("start", draft.Start).
		Time("end", draft.End).
		Msg("time slot saved")

	return nil
}

// Delete clears the committed slot and starts over with a fresh draft.
func (e *Editor) Delete(s store.Scheduler) {
	s.SetScheduledSlot(nil)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.draft = DefaultDraft(e.now())
	e.err = nil
	e.mode = model.ScheduleModeEditing
}

// State returns a snapshot of the editor together with the committed slot.
func (e *Editor) State(s store.Scheduler) model.ScheduleState {
	committed := s.ScheduledSlot()

	e.mu.Lock()
	defer e.mu.Unlock()

	state := model.ScheduleState{
		Mode:      e.mode,
		Draft:     e.draft,
		Scheduled: committed,
	}
	if e.err != nil {
		state.Error = e.err.Error()
	}
	return state
}

package model

import "time"

// TimeSlot is the window during which staff may service a room's minibar.
type TimeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns the length of the slot.
func (s TimeSlot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// ScheduleMode is the state of a schedule editing session.
type ScheduleMode string

const (
	ScheduleModeEditing ScheduleMode = "editing"
	ScheduleModeViewing ScheduleMode = "viewing"
)

// ScheduleState is a snapshot of a room's schedule editor.
type ScheduleState struct {
	Mode      ScheduleMode `json:"mode"`
	Draft     TimeSlot     `json:"draft"`
	Scheduled *TimeSlot    `json:"scheduled,omitempty"`
	Error     string       `json:"error,omitempty"`
}

// DraftRequest represents the request payload for composing a schedule draft.
type DraftRequest struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// LoginRequest represents the request payload for signing a room in.
type LoginRequest struct {
	Room string `json:"room"`
}

// LoginResponse represents the response payload for a successful login.
type LoginResponse struct {
	Room string `json:"room"`
}

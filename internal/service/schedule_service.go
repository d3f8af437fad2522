package service

import (
	"context"

	"minibar/internal/model"
	"minibar/internal/session"

	"github.com/rs/zerolog"
)

// scheduleService implements ScheduleService.
type scheduleService struct {
	sessions Sessions
	logger   zerolog.Logger
}

// NewScheduleService creates a new schedule service.
func NewScheduleService(sessions Sessions, logger zerolog.Logger) ScheduleService {
	return &scheduleService{
		sessions: sessions,
		logger:   logger.With().Str("service", "schedule").Logger(),
	}
}

func (s *scheduleService) State(ctx context.Context, room string) (*model.ScheduleState, error) {
	return s.apply(room, func(*session.Session) {})
}

func (s *scheduleService) SetDraft(ctx context.Context, room string, req *model.DraftRequest) (*model.ScheduleState, error) {
	return s.apply(room, func(sess *session.Session) {
		sess.Editor.SetDraft(req.Start, req.End)
	})
}

func (s *scheduleService) Load(ctx context.Context, room string) (*model.ScheduleState, error) {
	return s.apply(room, func(sess *session.Session) {
		sess.Editor.Load(sess.Store)
	})
}

func (s *scheduleService) BeginEditing(ctx context.Context, room string) (*model.ScheduleState, error) {
	return s.apply(room, func(sess *session.Session) {
		sess.Editor.BeginEditing(sess.Store)
	})
}

// Save validates and commits the draft. A rejected draft returns the state
// together with the validation error.
func (s *scheduleService) Save(ctx context.Context, room string) (*model.ScheduleState, error) {
	var saveErr error
	state, err := s.apply(room, func(sess *session.Session) {
		if saveErr = sess.Editor.Save(sess.Store); saveErr != nil {
			return
		}
		s.logger.Info().Str("room", room).Msg("service time slot saved")
	})
	if err != nil {
		return nil, err
	}
	return state, saveErr
}

func (s *scheduleService) Delete(ctx context.Context, room string) (*model.ScheduleState, error) {
	return s.apply(room, func(sess *session.Session) {
		sess.Editor.Delete(sess.Store)
		s.logger.Info().Str("room", room).Msg("service time slot deleted")
	})
}

// apply runs fn against the room's session and returns the resulting state.
// fn and the state read share one session lock.
func (s *scheduleService) apply(room string, fn func(*session.Session)) (*model.ScheduleState, error) {
	sess := s.sessions.Get(room)
	if sess == nil {
		s.logger.Debug().Str("room", room).Msg("session not found")
		return nil, model.ErrSessionNotFound
	}

	var state model.ScheduleState
	sess.Do(func() {
		fn(sess)
		state = sess.Editor.State(sess.Store)
	})
	return &state, nil
}

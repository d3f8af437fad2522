package service

import (
	"context"

	"minibar/internal/model"

	"github.com/rs/zerolog"
)

// sessionService implements SessionService.
type sessionService struct {
	sessions Sessions
	logger   zerolog.Logger
}

// NewSessionService creates a new session service.
func NewSessionService(sessions Sessions, logger zerolog.Logger) SessionService {
	return &sessionService{
		sessions: sessions,
		logger:   logger.With().Str("service", "session").Logger(),
	}
}

// Login validates the room number and opens its session.
func (s *sessionService) Login(ctx context.Context, room string) (*model.LoginResponse, error) {
	sess, err := s.sessions.Open(room)
	if err != nil {
		s.logger.Warn().Str("room", room).Err(err).Msg("login rejected")
		return nil, err
	}

	s.logger.Info().Str("room", sess.Room).Msg("room signed in")

	return &model.LoginResponse{Room: sess.Room}, nil
}

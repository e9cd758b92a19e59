package service

import (
	"context"
	"errors"
	"time"

	"github.com/clepord34/pawres/internal/audit"
	"github.com/clepord34/pawres/internal/logger"
	"github.com/clepord34/pawres/internal/store"
	"github.com/clepord34/pawres/models"
)

type sessionService struct {
	sessions store.SessionStore
	auditor  auditor
	now      Clock

	timeout time.Duration

	logger *logger.Logger
}

func NewSessionService(deps Dependencies, timeout time.Duration, logger *logger.Logger) SessionService {
	deps = deps.withDefaults()
	return &sessionService{
		sessions: deps.Sessions,
		auditor:  auditor{recorder: deps.Recorder, now: deps.Clock},
		now:      deps.Clock,
		timeout:  timeout,
		logger:   logger,
	}
}

// StartSession opens an authenticated session for an already verified user
// and returns its token.
func (s *sessionService) StartSession(ctx context.Context, user models.User) (string, models.Session, error) {
	session := models.NewSession(user, s.now())

	token, err := s.sessions.Create(ctx, session)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "sessionService.StartSession").Int64("user_id", user.ID).Msg("failed to create session")
		return "", models.Session{}, err
	}

	return token, session, nil
}

func (s *sessionService) GetSession(ctx context.Context, token string) (models.Session, bool) {
	if token == "" {
		return models.Session{}, false
	}

	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		if !errors.Is(err, store.ErrSessionNotFound) {
			logger.FromContext(ctx).Err(err).Str("func", "sessionService.GetSession").Msg("failed to load session")
		}
		return models.Session{}, false
	}
	return session, true
}

// SaveSession stores session under token. A cleared session is removed
// instead, without a LOGOUT event.
func (s *sessionService) SaveSession(ctx context.Context, token string, session models.Session) error {
	if !session.IsAuthenticated {
		return s.sessions.Delete(ctx, token)
	}
	return s.sessions.Save(ctx, token, session)
}

// EndSession logs the session out. Unknown tokens are ignored.
func (s *sessionService) EndSession(ctx context.Context, token string) error {
	if session, ok := s.GetSession(ctx, token); ok && session.IsAuthenticated {
		s.auditor.record(ctx, audit.Event{Type: audit.Logout, UserID: session.UserID, Email: session.Email, Role: session.Role})
	}

	return s.sessions.Delete(ctx, token)
}

func (s *sessionService) PurgeExpired(ctx context.Context) (int, error) {
	removed, err := s.sessions.DeleteIdleSince(ctx, s.now().Add(-s.timeout))
	if err != nil {
		return 0, err
	}

	if removed > 0 {
		logger.FromContext(ctx).Debug().Str("func", "sessionService.PurgeExpired").Int("removed", removed).Msg("expired sessions purged")
	}
	return removed, nil
}

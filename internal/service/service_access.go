package service

import (
	"context"
	"time"

	"github.com/clepord34/pawres/internal/audit"
	"github.com/clepord34/pawres/internal/logger"
	"github.com/clepord34/pawres/models"
)

type accessService struct {
	auditor auditor
	now     Clock

	timeout time.Duration

	logger *logger.Logger
}

func NewAccessService(deps Dependencies, timeout time.Duration, logger *logger.Logger) AccessService {
	deps = deps.withDefaults()
	return &accessService{
		auditor: auditor{recorder: deps.Recorder, now: deps.Clock},
		now:     deps.Clock,
		timeout: timeout,
		logger:  logger,
	}
}

// CheckAccess authorizes one request against rule.
//
// Public routes are always allowed and leave session untouched. A session
// idle for longer than the timeout is cleared in place. Every other
// authenticated request slides the expiry window, including requests that
// are then rejected for their role.
func (s *accessService) CheckAccess(ctx context.Context, session *models.Session, route string, rule models.RouteAccessRule) models.AccessDecision {
	if !rule.RequiresAuth {
		return models.Allow()
	}

	if session == nil || !session.IsAuthenticated {
		s.auditor.record(ctx, audit.Event{
			Type:          audit.UnauthorizedAccess,
			Route:         route,
			Reason:        string(models.DenyNotAuthenticated),
			RequiredRoles: rule.AllowedRoles,
		})
		return models.Deny(models.DenyNotAuthenticated, models.RedirectLogin)
	}

	now := s.now()
	if session.IdleFor(now) > s.timeout {
		expired := *session
		session.Clear()

		s.auditor.record(ctx, audit.Event{Type: audit.SessionExpired, UserID: expired.UserID, Email: expired.Email, Role: expired.Role, Route: route})
		logger.FromContext(ctx).Info().Str("func", "accessService.CheckAccess").Int64("user_id", expired.UserID).Msg("session expired")
		return models.Deny(models.DenySessionExpired, models.RedirectLogin)
	}

	session.Touch(now)

	if !rule.Permits(session.Role) {
		s.auditor.record(ctx, audit.Event{
			Type:          audit.UnauthorizedAccess,
			UserID:        session.UserID,
			Email:         session.Email,
			Role:          session.Role,
			Route:         route,
			Reason:        string(models.DenyInsufficientRole),
			RequiredRoles: rule.AllowedRoles,
		})
		return models.Deny(models.DenyInsufficientRole, session.Role.Dashboard())
	}

	return models.Allow()
}

func (s *accessService) SessionTimeout() time.Duration {
	return s.timeout
}

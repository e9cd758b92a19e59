package audit

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/clepord34/pawres/internal/logger"
)

type logRecorder struct {
	logger *logger.Logger
}

// NewLogRecorder writes each event as one structured log entry.
func NewLogRecorder(log *logger.Logger) Recorder {
	return &logRecorder{logger: log.WithComponent("audit")}
}

func (r *logRecorder) Record(_ context.Context, event Event) error {
	entry := r.logger.WithLevel(levelFor(event.Type)).
		Str("event", string(event.Type)).
		Str("channel", string(event.Channel())).
		Time("occurred_at", event.OccurredAt)

	if event.UserID != 0 {
		entry = entry.Int64("user_id", event.UserID)
	}
	if event.ActorID != 0 {
		entry = entry.Int64("admin_id", event.ActorID)
	}
	if event.Email != "" {
		entry = entry.Str("email", event.Email)
	}
	if event.Role != "" {
		entry = entry.Str("user_role", string(event.Role))
	}
	if event.Reason != "" {
		entry = entry.Str("reason", event.Reason)
	}
	if event.Method != "" {
		entry = entry.Str("method", event.Method)
	}
	if event.Route != "" {
		entry = entry.Str("route", event.Route)
	}
	if len(event.RequiredRoles) > 0 {
		roles := make([]string, len(event.RequiredRoles))
		for i, role := range event.RequiredRoles {
			roles[i] = string(role)
		}
		entry = entry.Strs("required_roles", roles)
	}
	if event.Attempts != 0 {
		entry = entry.Int("attempts", event.Attempts)
	}
	if event.DurationMinutes != 0 {
		entry = entry.Int("duration_minutes", event.DurationMinutes)
	}
	if event.OldRole != "" || event.NewRole != "" {
		entry = entry.Str("old_role", string(event.OldRole)).Str("new_role", string(event.NewRole))
	}

	entry.Msg("audit event")
	return nil
}

func levelFor(t EventType) zerolog.Level {
	switch t {
	case LoginFailure, AccountLockout, UnauthorizedAccess, BruteForceAttempt:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

package service

import (
	"context"

	"github.com/clepord34/pawres/internal/audit"
	"github.com/clepord34/pawres/internal/logger"
)

// auditor stamps and forwards audit events. Recording is best effort: a
// failing recorder is logged and never changes the outcome of the caller.
type auditor struct {
	recorder audit.Recorder
	now      Clock
}

func (a auditor) record(ctx context.Context, event audit.Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = a.now()
	}

	if err := a.recorder.Record(ctx, event); err != nil {
		logger.FromContext(ctx).Warn().
			Err(err).
			Str("func", "auditor.record").
			Str("event", string(event.Type)).
			Msg("audit recorder failed")
	}
}

package audit

import (
	"context"
	"errors"
)

//go:generate mockgen -source=recorder.go -destination=../mock/audit_mock.go -package=mock

// Recorder persists or publishes audit events.
type Recorder interface {
	Record(ctx context.Context, event Event) error
}

type multiRecorder struct {
	recorders []Recorder
}

// NewMulti returns a Recorder that forwards every event to all recorders.
// A failing recorder does not stop the others; their errors are joined.
func NewMulti(recorders ...Recorder) Recorder {
	return &multiRecorder{recorders: recorders}
}

func (m *multiRecorder) Record(ctx context.Context, event Event) error {
	var errs []error
	for _, r := range m.recorders {
		if err := r.Record(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Record(context.Context, Event) error { return nil }

package audit

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metricsRecorder struct {
	events *prometheus.CounterVec
}

// NewMetricsRecorder counts events per type and channel in
// pawres_audit_events_total, registered with reg.
func NewMetricsRecorder(reg prometheus.Registerer) Recorder {
	return &metricsRecorder{
		events: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pawres",
				Name:      "audit_events_total",
				Help:      "Total audit events by type and channel",
			},
			[]string{"type", "channel"},
		),
	}
}

func (r *metricsRecorder) Record(_ context.Context, event Event) error {
	r.events.WithLabelValues(string(event.Type), string(event.Channel())).Inc()
	return nil
}

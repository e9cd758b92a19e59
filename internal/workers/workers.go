package workers

import (
	"context"
	"sync"
	"time"

	"github.com/clepord34/pawres/internal/logger"
)

const defaultInterval = 5 * time.Minute

// Workers starts a set of workers and waits for them to stop.
type Workers struct {
	workers []Worker
}

func NewWorkers(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

// Run starts every worker in its own goroutine and blocks until all of
// them have returned after ctx is cancelled.
func (w *Workers) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, worker := range w.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker.Run(ctx)
		}()
	}
	wg.Wait()
}

// Len returns the number of managed workers.
func (w *Workers) Len() int {
	return len(w.workers)
}

// Job is one iteration of a ticker worker.
type Job func(ctx context.Context) error

type ticker struct {
	name     string
	interval time.Duration
	job      Job

	logger *logger.Logger
}

// NewTicker returns a worker that calls job every interval. A failed
// iteration is logged and the schedule continues. A non-positive interval
// falls back to five minutes.
func NewTicker(name string, interval time.Duration, job Job, logger *logger.Logger) Worker {
	if interval <= 0 {
		interval = defaultInterval
	}

	return &ticker{
		name:     name,
		interval: interval,
		job:      job,
		logger:   logger.WithComponent("worker." + name),
	}
}

func (t *ticker) Run(ctx context.Context) {
	t.logger.Info().Dur("interval", t.interval).Msg("worker started")
	defer t.logger.Info().Msg("worker stopped")

	tick := time.NewTicker(t.interval)
	defer tick.Stop()

	jobCtx := t.logger.WithContext(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			if err := t.job(jobCtx); err != nil {
				t.logger.Err(err).Msg("worker iteration failed")
			}
		}
	}
}

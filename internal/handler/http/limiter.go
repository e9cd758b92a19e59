package http

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/clepord34/pawres/internal/audit"
	"github.com/clepord34/pawres/internal/logger"
)

const (
	defaultLoginRate  = 1
	defaultLoginBurst = 10

	// limiterIdleTTL is how long a client limiter survives without requests.
	limiterIdleTTL = 15 * time.Minute
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// loginLimiter is a token bucket per client address guarding the sign-in routes.
type loginLimiter struct {
	mu      sync.Mutex
	clients map[string]*limiterEntry
	limit   rate.Limit
	burst   int
	now     func() time.Time
}

func newLoginLimiter(perSecond float64, burst int) *loginLimiter {
	if perSecond <= 0 {
		perSecond = defaultLoginRate
	}
	if burst <= 0 {
		burst = defaultLoginBurst
	}

	return &loginLimiter{
		clients: make(map[string]*limiterEntry),
		limit:   rate.Limit(perSecond),
		burst:   burst,
		now:     time.Now,
	}
}

// Allow consumes a token of the bucket owned by client.
func (l *loginLimiter) Allow(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, ok := l.clients[client]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[client] = entry
	}
	entry.lastSeen = now

	return entry.limiter.AllowN(now, 1)
}

// Sweep forgets clients that have been idle for longer than idle and
// returns how many were removed.
func (l *loginLimiter) Sweep(idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-idle)
	removed := 0
	for client, entry := range l.clients {
		if entry.lastSeen.Before(cutoff) {
			delete(l.clients, client)
			removed++
		}
	}
	return removed
}

func (l *loginLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// SweepLoginLimiters drops the rate limiters of idle clients. It is run
// periodically by a background worker.
func (h *Handler) SweepLoginLimiters(ctx context.Context) error {
	removed := h.limiter.Sweep(limiterIdleTTL)
	logger.FromContext(ctx).Debug().Int("removed", removed).Msg("login limiters swept")
	return nil
}

// withLoginRateLimit rejects clients that exceed the login rate and audits
// the attempt.
func (h *Handler) withLoginRateLimit(route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := clientAddress(r)
			if h.limiter.Allow(client) {
				next.ServeHTTP(w, r)
				return
			}

			log := logger.FromRequest(r)
			log.Warn().Str("client", client).Str("route", route).Msg("login rate limit exceeded")

			event := audit.Event{
				Type:       audit.BruteForceAttempt,
				Route:      route,
				Reason:     client,
				OccurredAt: time.Now().UTC(),
			}
			if err := h.recorder.Record(r.Context(), event); err != nil {
				log.Warn().Err(err).Msg("audit record failed")
			}

			w.Header().Set("Retry-After", "1")
			writeError(w, r, ErrTooManyRequests)
		})
	}
}

func clientAddress(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

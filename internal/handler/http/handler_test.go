package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clepord34/pawres/internal/audit"
	"github.com/clepord34/pawres/internal/config"
	"github.com/clepord34/pawres/internal/logger"
	"github.com/clepord34/pawres/internal/service"
)

func testServerConfig(secure bool) config.Server {
	return config.Server{
		SecureCookie:   &secure,
		LoginRateLimit: 1,
		LoginRateBurst: 10,
	}
}

// ─────────────────────────────────────────────
// NewHandler
// ─────────────────────────────────────────────

func TestNewHandler_Defaults(t *testing.T) {
	svc := &service.Services{}
	log := logger.Nop()

	h := NewHandler(svc, log)

	require.NotNil(t, h)
	assert.Equal(t, svc, h.services)
	assert.Equal(t, log, h.logger)
	assert.Nil(t, h.oauth)
	assert.Equal(t, audit.Nop{}, h.recorder)
	assert.False(t, h.secureCookie)
	require.NotNil(t, h.limiter)
	assert.Equal(t, defaultLoginBurst, h.limiter.burst)
}

func TestNewHandler_Options(t *testing.T) {
	provider := &mockOAuthProvider{}
	recorder := &captureRecorder{}
	cfg := testServerConfig(true)
	cfg.LoginRateBurst = 3

	h := NewHandler(&service.Services{}, logger.Nop(),
		WithOAuthProvider(provider),
		WithRecorder(recorder),
		WithServerConfig(cfg),
	)

	assert.Same(t, provider, h.oauth)
	assert.Same(t, recorder, h.recorder)
	assert.True(t, h.secureCookie)
	assert.Equal(t, 3, h.limiter.burst)
}

func TestNewHandler_IndependentInstances(t *testing.T) {
	h1 := NewHandler(&service.Services{}, logger.Nop())
	h2 := NewHandler(&service.Services{}, logger.Nop())

	assert.NotSame(t, h1, h2)
	assert.NotSame(t, h1.limiter, h2.limiter)
}

func TestWithMetrics_ServesGatherer(t *testing.T) {
	reg := prometheus.NewRegistry()
	promauto.With(reg).NewCounter(prometheus.CounterOpts{Name: "pawres_test_total", Help: "test"}).Inc()

	env := newTestEnv(t, &service.Services{}, WithMetrics(reg))

	rec := env.do(http.MethodGet, "/metrics", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pawres_test_total 1")
}

func TestInit_ReturnsRouter(t *testing.T) {
	env := newTestEnv(t, &service.Services{})

	require.NotNil(t, env.router)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

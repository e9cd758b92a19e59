package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/clepord34/pawres/internal/audit"
	"github.com/clepord34/pawres/internal/logger"
	"github.com/clepord34/pawres/internal/service"
	"github.com/clepord34/pawres/internal/store"
	"github.com/clepord34/pawres/models"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// Mock AuthService
// ─────────────────────────────────────────────

type mockAuthService struct {
	registerUserFn     func(ctx context.Context, registration models.Registration) (int64, error)
	loginFn            func(ctx context.Context, identifier, password string) (models.LoginOutcome, error)
	lockoutStatusFn    func(ctx context.Context, identifier string) (models.LockoutStatus, error)
	loginOAuthFn       func(ctx context.Context, login models.OAuthLogin) (models.OAuthResult, error)
	linkOAuthAccountFn func(ctx context.Context, userID int64, provider string) error
	unlinkOAuthFn      func(ctx context.Context, userID int64) error
}

func (m *mockAuthService) RegisterUser(ctx context.Context, registration models.Registration) (int64, error) {
	return m.registerUserFn(ctx, registration)
}

func (m *mockAuthService) Login(ctx context.Context, identifier, password string) (models.LoginOutcome, error) {
	return m.loginFn(ctx, identifier, password)
}

func (m *mockAuthService) GetLockoutStatus(ctx context.Context, identifier string) (models.LockoutStatus, error) {
	if m.lockoutStatusFn == nil {
		return models.LockoutStatus{}, nil
	}
	return m.lockoutStatusFn(ctx, identifier)
}

func (m *mockAuthService) GetFailedLoginAttempts(context.Context, string) (*int, error) {
	return nil, nil
}

func (m *mockAuthService) LoginOAuth(ctx context.Context, login models.OAuthLogin) (models.OAuthResult, error) {
	return m.loginOAuthFn(ctx, login)
}

func (m *mockAuthService) LinkOAuthAccount(ctx context.Context, userID int64, provider string) error {
	return m.linkOAuthAccountFn(ctx, userID, provider)
}

func (m *mockAuthService) UnlinkOAuthAccount(ctx context.Context, userID int64) error {
	return m.unlinkOAuthFn(ctx, userID)
}

func (m *mockAuthService) GetUserRole(context.Context, int64) (models.Role, error) {
	return models.RoleUser, nil
}

func (m *mockAuthService) EnsureAdminExists(context.Context) error { return nil }

func (m *mockAuthService) PasswordRequirements() string {
	return "Password must be at least 8 characters long"
}

// ─────────────────────────────────────────────
// Mock ProfileService
// ─────────────────────────────────────────────

type mockProfileService struct {
	getProfileFn     func(ctx context.Context, userID int64) (models.User, error)
	updateProfileFn  func(ctx context.Context, userID int64, update models.ProfileUpdate) error
	changePasswordFn func(ctx context.Context, userID int64, current, next string) error
	setPasswordFn    func(ctx context.Context, userID int64, next string) error
}

func (m *mockProfileService) GetProfile(ctx context.Context, userID int64) (models.User, error) {
	return m.getProfileFn(ctx, userID)
}

func (m *mockProfileService) UpdateProfile(ctx context.Context, userID int64, update models.ProfileUpdate) error {
	return m.updateProfileFn(ctx, userID, update)
}

func (m *mockProfileService) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	return m.changePasswordFn(ctx, userID, current, next)
}

func (m *mockProfileService) SetPasswordForOAuth(ctx context.Context, userID int64, next string) error {
	return m.setPasswordFn(ctx, userID, next)
}

func (m *mockProfileService) IsOAuthUser(context.Context, int64) (bool, error) {
	return false, nil
}

// ─────────────────────────────────────────────
// Mock UserAdminService
// ─────────────────────────────────────────────

type mockAdminService struct {
	createUserFn    func(ctx context.Context, adminID int64, registration models.Registration) (int64, error)
	updateUserFn    func(ctx context.Context, adminID, userID int64, update models.UserUpdate) error
	disableUserFn   func(ctx context.Context, adminID, userID int64) error
	enableUserFn    func(ctx context.Context, adminID, userID int64) error
	resetPasswordFn func(ctx context.Context, adminID, userID int64, password string, opts models.ResetPasswordOptions) error
	deleteUserFn    func(ctx context.Context, adminID, userID int64) error
	statsFn         func(ctx context.Context) (models.UserStats, error)
	listUsersFn     func(ctx context.Context, filter models.UserFilter) ([]models.User, error)
	getUserFn       func(ctx context.Context, userID int64) (models.User, error)
	lockoutInfoFn   func(ctx context.Context, identifier string) (models.LockoutInfo, error)
}

func (m *mockAdminService) CreateUser(ctx context.Context, adminID int64, registration models.Registration) (int64, error) {
	return m.createUserFn(ctx, adminID, registration)
}

func (m *mockAdminService) UpdateUser(ctx context.Context, adminID, userID int64, update models.UserUpdate) error {
	return m.updateUserFn(ctx, adminID, userID, update)
}

func (m *mockAdminService) DisableUser(ctx context.Context, adminID, userID int64) error {
	return m.disableUserFn(ctx, adminID, userID)
}

func (m *mockAdminService) EnableUser(ctx context.Context, adminID, userID int64) error {
	return m.enableUserFn(ctx, adminID, userID)
}

func (m *mockAdminService) ResetPassword(ctx context.Context, adminID, userID int64, password string, opts models.ResetPasswordOptions) error {
	return m.resetPasswordFn(ctx, adminID, userID, password, opts)
}

func (m *mockAdminService) DeleteUser(ctx context.Context, adminID, userID int64) error {
	return m.deleteUserFn(ctx, adminID, userID)
}

func (m *mockAdminService) GetUserStats(ctx context.Context) (models.UserStats, error) {
	return m.statsFn(ctx)
}

func (m *mockAdminService) ListUsers(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	return m.listUsersFn(ctx, filter)
}

func (m *mockAdminService) GetUser(ctx context.Context, userID int64) (models.User, error) {
	return m.getUserFn(ctx, userID)
}

func (m *mockAdminService) GetUserByEmail(context.Context, string) (models.User, error) {
	return models.User{}, service.ErrUserNotFound
}

func (m *mockAdminService) GetLockoutInfo(ctx context.Context, identifier string) (models.LockoutInfo, error) {
	return m.lockoutInfoFn(ctx, identifier)
}

// ─────────────────────────────────────────────
// Mock OAuthProvider
// ─────────────────────────────────────────────

type mockOAuthProvider struct {
	fetchProfileFn func(ctx context.Context, token string) (models.OAuthProfile, error)
	reachable      bool
}

func (m *mockOAuthProvider) Name() string { return "google" }

func (m *mockOAuthProvider) FetchProfile(ctx context.Context, token string) (models.OAuthProfile, error) {
	return m.fetchProfileFn(ctx, token)
}

func (m *mockOAuthProvider) PictureReachable(context.Context, string) bool {
	return m.reachable
}

// ─────────────────────────────────────────────
// Audit capture
// ─────────────────────────────────────────────

type captureRecorder struct {
	mu     sync.Mutex
	events []audit.Event
}

func (c *captureRecorder) Record(_ context.Context, event audit.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

func (c *captureRecorder) types() []audit.EventType {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]audit.EventType, 0, len(c.events))
	for _, e := range c.events {
		out = append(out, e.Type)
	}
	return out
}

// ─────────────────────────────────────────────
// Test environment
// ─────────────────────────────────────────────

const testSessionTimeout = 30 * time.Minute

// testEnv wires a Handler with real session and access services over an
// in-memory session store and a controllable clock.
type testEnv struct {
	handler  *Handler
	router   http.Handler
	services *service.Services
	recorder *captureRecorder

	mu  sync.Mutex
	now time.Time
}

func newTestEnv(t *testing.T, svcs *service.Services, opts ...Option) *testEnv {
	t.Helper()

	env := &testEnv{
		services: svcs,
		recorder: &captureRecorder{},
		now:      time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}

	deps := service.Dependencies{
		Sessions: store.NewMemorySessionStore(),
		Recorder: env.recorder,
		Clock:    env.clock,
	}
	svcs.SessionService = service.NewSessionService(deps, testSessionTimeout, logger.Nop())
	svcs.AccessService = service.NewAccessService(deps, testSessionTimeout, logger.Nop())
	if svcs.AppInfoService == nil {
		svcs.AppInfoService = &mockAppInfoService{version: "test"}
	}

	opts = append([]Option{WithRecorder(env.recorder)}, opts...)
	env.handler = NewHandler(svcs, logger.Nop(), opts...)
	env.router = env.handler.Init()
	return env
}

func (e *testEnv) clock() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.now
}

func (e *testEnv) advance(d time.Duration) {
	e.mu.Lock()
	e.now = e.now.Add(d)
	e.mu.Unlock()
}

// signIn opens a session for user and returns its cookie.
func (e *testEnv) signIn(t *testing.T, user models.User) *http.Cookie {
	t.Helper()

	token, _, err := e.services.SessionService.StartSession(context.Background(), user)
	require.NoError(t, err)
	return &http.Cookie{Name: sessionCookieName, Value: token}
}

// do sends a request through the full router.
func (e *testEnv) do(method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// sessionCookieFrom returns the last session cookie set by the response,
// the one a browser keeps.
func sessionCookieFrom(rec *httptest.ResponseRecorder) *http.Cookie {
	var found *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			found = c
		}
	}
	return found
}

var (
	alice = models.User{ID: 7, Name: "Alice", Email: "alice@example.com", Role: models.RoleUser}
	admin = models.User{ID: 1, Name: "Admin User", Email: "admin@gmail.com", Role: models.RoleAdmin}
)

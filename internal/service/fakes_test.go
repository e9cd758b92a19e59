package service

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/clepord34/pawres/internal/audit"
	"github.com/clepord34/pawres/internal/config"
	"github.com/clepord34/pawres/internal/crypto"
	"github.com/clepord34/pawres/internal/logger"
	"github.com/clepord34/pawres/internal/store"
	"github.com/clepord34/pawres/internal/validators"
	"github.com/clepord34/pawres/models"
)

// ─────────────────────────────────────────────
// In-memory user repository
// ─────────────────────────────────────────────

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]models.User

	clearLockoutCalls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user models.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return 0, store.ErrEmailAlreadyExists
		}
		if u.Phone != nil && user.Phone != nil && *u.Phone == *user.Phone {
			return 0, store.ErrPhoneAlreadyExists
		}
	}

	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = user
	return user.ID, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return models.User{}, store.ErrNoUserWasFound
	}
	return u, nil
}

func (r *fakeUserRepo) find(match func(models.User) bool) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if match(u) {
			return u, nil
		}
	}
	return models.User{}, store.ErrNoUserWasFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) GetByPhone(_ context.Context, phone string) (models.User, error) {
	return r.find(func(u models.User) bool { return u.Phone != nil && *u.Phone == phone })
}

func (r *fakeUserRepo) EmailTaken(_ context.Context, email string, excludeID int64) (bool, error) {
	u, err := r.find(func(u models.User) bool { return u.Email == email && u.ID != excludeID })
	return err == nil && u.ID != 0, nil
}

func (r *fakeUserRepo) PhoneTaken(_ context.Context, phone string, excludeID int64) (bool, error) {
	u, err := r.find(func(u models.User) bool { return u.Phone != nil && *u.Phone == phone && u.ID != excludeID })
	return err == nil && u.ID != 0, nil
}

func (r *fakeUserRepo) mutate(id int64, fn func(u *models.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return store.ErrNoUserWasFound
	}
	fn(&u)
	r.users[id] = u
	return nil
}

func (r *fakeUserRepo) RegisterFailedLogin(_ context.Context, id int64, maxAttempts int, lockUntil time.Time) (int, *time.Time, error) {
	var (
		attempts int
		locked   *time.Time
	)
	err := r.mutate(id, func(u *models.User) {
		u.FailedLoginAttempts++
		if u.FailedLoginAttempts >= maxAttempts {
			u.LockedUntil = &lockUntil
		}
		attempts, locked = u.FailedLoginAttempts, u.LockedUntil
	})
	return attempts, locked, err
}

func (r *fakeUserRepo) RecordSuccessfulLogin(_ context.Context, id int64, now time.Time) error {
	return r.mutate(id, func(u *models.User) {
		u.FailedLoginAttempts, u.LockedUntil, u.LastLogin = 0, nil, &now
	})
}

func (r *fakeUserRepo) ClearLockout(_ context.Context, id int64, now time.Time) error {
	r.mu.Lock()
	r.clearLockoutCalls++
	r.mu.Unlock()
	return r.mutate(id, func(u *models.User) {
		u.FailedLoginAttempts, u.LockedUntil, u.UpdatedAt = 0, nil, now
	})
}

func (r *fakeUserRepo) UpdateCredentials(_ context.Context, id int64, hash, salt string, now time.Time) error {
	return r.mutate(id, func(u *models.User) {
		u.PasswordHash, u.PasswordSalt = hash, salt
		u.FailedLoginAttempts, u.LockedUntil, u.UpdatedAt = 0, nil, now
	})
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *fakeUserRepo) Update(_ context.Context, id int64, upd models.UserUpdate, now time.Time) error {
	return r.mutate(id, func(u *models.User) {
		if upd.Name != nil {
			u.Name = *upd.Name
		}
		if upd.Email != nil {
			u.Email = *upd.Email
		}
		if upd.Phone != nil {
			u.Phone = optional(*upd.Phone)
		}
		if upd.Role != nil {
			u.Role = *upd.Role
		}
		u.UpdatedAt = now
	})
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id int64, upd models.ProfileUpdate, now time.Time) error {
	return r.mutate(id, func(u *models.User) {
		if upd.Name != nil {
			u.Name = *upd.Name
		}
		if upd.Phone != nil {
			u.Phone = optional(*upd.Phone)
		}
		if upd.ProfilePicture != nil {
			u.ProfilePicture = optional(*upd.ProfilePicture)
		}
		u.UpdatedAt = now
	})
}

func (r *fakeUserRepo) SetDisabled(_ context.Context, id int64, disabled bool, now time.Time) error {
	return r.mutate(id, func(u *models.User) {
		u.IsDisabled, u.UpdatedAt = disabled, now
		if !disabled {
			u.FailedLoginAttempts, u.LockedUntil = 0, nil
		}
	})
}

func (r *fakeUserRepo) SetOAuthProvider(_ context.Context, id int64, provider *string, now time.Time) error {
	return r.mutate(id, func(u *models.User) { u.OAuthProvider, u.UpdatedAt = provider, now })
}

func (r *fakeUserRepo) UpdateOAuthProfile(_ context.Context, id int64, name string, picture *string, now time.Time) error {
	return r.mutate(id, func(u *models.User) { u.Name, u.ProfilePicture, u.UpdatedAt = name, picture, now })
}

func (r *fakeUserRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return store.ErrNoUserWasFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, filter models.UserFilter) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.User
	for _, u := range r.users {
		if u.IsDisabled && !filter.IncludeDisabled {
			continue
		}
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		if s := strings.TrimSpace(filter.Search); s != "" && !strings.Contains(u.Name, s) && !strings.Contains(u.Email, s) {
			continue
		}
		out = append(out, u)
	}
	slices.SortFunc(out, func(a, b models.User) int { return int(a.ID - b.ID) })
	return out, nil
}

func (r *fakeUserRepo) Stats(_ context.Context, since time.Time) (models.UserStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var stats models.UserStats
	for _, u := range r.users {
		stats.Total++
		if u.Role == models.RoleAdmin {
			stats.Admins++
		} else {
			stats.Users++
		}
		if u.IsDisabled {
			stats.Disabled++
		}
		if !u.CreatedAt.Before(since) {
			stats.RecentSignups++
		}
	}
	return stats, nil
}

// ─────────────────────────────────────────────
// In-memory password history
// ─────────────────────────────────────────────

type fakeHistoryRepo struct {
	mu      sync.Mutex
	entries map[int64][]models.PasswordHistoryEntry
	addErr  error
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{entries: make(map[int64][]models.PasswordHistoryEntry)}
}

func (r *fakeHistoryRepo) Add(_ context.Context, entry models.PasswordHistoryEntry, maxHistory int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.addErr != nil {
		return r.addErr
	}

	// newest first
	list := append([]models.PasswordHistoryEntry{entry}, r.entries[entry.UserID]...)
	if maxHistory > 0 && len(list) > maxHistory {
		list = list[:maxHistory]
	}
	r.entries[entry.UserID] = list
	return nil
}

func (r *fakeHistoryRepo) Recent(_ context.Context, userID int64, limit int) ([]models.PasswordHistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.entries[userID]
	if len(list) > limit {
		list = list[:limit]
	}
	return slices.Clone(list), nil
}

func (r *fakeHistoryRepo) Clear(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, userID)
	return nil
}

func (r *fakeHistoryRepo) count(userID int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries[userID])
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

func (c *captureRecorder) last() audit.Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.events) == 0 {
		return audit.Event{}
	}
	return c.events[len(c.events)-1]
}

func (c *captureRecorder) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = nil
}

// ─────────────────────────────────────────────
// Test clock
// ─────────────────────────────────────────────

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// ─────────────────────────────────────────────
// Fixture
// ─────────────────────────────────────────────

const (
	testMaxAttempts = 5
	testLockout     = 15 * time.Minute
	testTimeout     = 30 * time.Minute
)

type fixture struct {
	users    *fakeUserRepo
	history  *fakeHistoryRepo
	sessions store.SessionStore
	recorder *captureRecorder
	clock    *testClock
	deps     Dependencies

	historySvc PasswordHistoryService
	auth       AuthService
	admin      UserAdminService
	profile    ProfileService
	session    SessionService
	access     AccessService
}

func newFixture() *fixture {
	return newFixtureWithPolicy(validators.DefaultPasswordPolicyConfig())
}

func newFixtureWithPolicy(policy validators.PasswordPolicyConfig) *fixture {
	f := &fixture{
		users:    newFakeUserRepo(),
		history:  newFakeHistoryRepo(),
		sessions: store.NewMemorySessionStore(),
		recorder: &captureRecorder{},
		clock:    newTestClock(),
	}

	// low work factor keeps the suite fast
	hasher := crypto.NewPBKDF2Hasher(1000, 16)

	f.deps = Dependencies{
		Users:     f.users,
		History:   f.history,
		Sessions:  f.sessions,
		Recorder:  f.recorder,
		Hasher:    hasher,
		Policy:    validators.NewPasswordPolicy(policy, hasher),
		Phones:    validators.NewPhoneNormalizer("US"),
		Validator: validators.NewUserInputValidator(),
		Clock:     f.clock.Now,
	}

	log := logger.Nop()
	security := config.Security{
		MaxFailedLoginAttempts: testMaxAttempts,
		LockoutDuration:        testLockout,
		SessionTimeout:         testTimeout,
	}
	app := config.App{AdminEmail: "admin@gmail.com", AdminPassword: "Admin@123", AdminName: "Admin User"}

	f.historySvc = NewPasswordHistoryService(f.deps, log)
	f.auth = NewAuthService(f.deps, f.historySvc, security, app, log)
	f.admin = NewUserAdminService(f.deps, f.historySvc, f.auth, log)
	f.profile = NewProfileService(f.deps, f.historySvc, log)
	f.session = NewSessionService(f.deps, testTimeout, log)
	f.access = NewAccessService(f.deps, testTimeout, log)
	return f
}

// register creates an active user with a policy-compliant password.
func (f *fixture) register(name, email, password, phone string) int64 {
	id, err := f.auth.RegisterUser(context.Background(), models.Registration{
		Name:     name,
		Email:    email,
		Password: password,
		Phone:    phone,
	})
	if err != nil {
		panic(err)
	}
	return id
}

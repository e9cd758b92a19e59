package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/clepord34/pawres/internal/audit"
	"github.com/clepord34/pawres/internal/config"
	"github.com/clepord34/pawres/internal/logger"
	"github.com/clepord34/pawres/internal/store"
	"github.com/clepord34/pawres/internal/validators"
	"github.com/clepord34/pawres/models"
)

// authService is the concrete implementation of AuthService.
//
// Account states are derived from the stored row: Disabled (is_disabled),
// Locked (locked_until in the future), Normal-failing (counter above zero)
// and Active. Counter increments and lock transitions are delegated to
// single-statement repository updates so concurrent failures are never lost.
type authService struct {
	*credentials

	// maxFailedAttempts is the counter value at which an account locks.
	maxFailedAttempts int

	// lockoutDuration is how long a lock lasts from the triggering failure.
	lockoutDuration time.Duration

	admin config.App

	logger *logger.Logger
}

// NewAuthService constructs an AuthService from deps, the lockout settings
// in security and the admin seed account in app.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAuthService(deps Dependencies, history PasswordHistoryService, security config.Security, app config.App, logger *logger.Logger) AuthService {
	return &authService{
		credentials:       newCredentials(deps, history),
		maxFailedAttempts: security.MaxFailedLoginAttempts,
		lockoutDuration:   security.LockoutDuration,
		admin:             app,
		logger:            logger,
	}
}

// RegisterUser creates a password account. An empty role means
// [models.RoleUser].
//
// Errors:
//   - *ValidationError for malformed input or a policy violation;
//   - ErrEmailAlreadyExists / ErrPhoneAlreadyExists for duplicates, the
//     phone being compared in normalized form;
//   - storage errors as returned by the repository.
func (a *authService) RegisterUser(ctx context.Context, reg models.Registration) (int64, error) {
	if reg.Role == "" {
		reg.Role = models.RoleUser
	}

	if err := a.validator.Validate(ctx, reg); err != nil {
		return 0, validationFrom(err)
	}

	return a.createAccount(ctx, reg, 0)
}

// Login evaluates a password login. The order is: lookup, disabled check,
// lockout check (clearing an elapsed lock), password verification, then
// either a failure increment or a success reset. Each outcome records one
// audit event; clearing an elapsed lock records LOCKOUT_EXPIRED as well.
func (a *authService) Login(ctx context.Context, identifier, password string) (models.LoginOutcome, error) {
	log := logger.FromContext(ctx)
	now := a.now()

	user, found, err := a.findByIdentifier(ctx, identifier)
	if err != nil {
		log.Err(err).Str("func", "authService.Login").Msg("user lookup failed")
		return models.LoginOutcome{}, err
	}

	if !found {
		a.auditor.record(ctx, audit.Event{Type: audit.LoginFailure, Email: identifier, Reason: audit.ReasonUserNotFound})
		return models.LoginOutcome{Result: models.LoginUserNotFound}, nil
	}

	if user.IsDisabled {
		a.auditor.record(ctx, a.failure(user, audit.ReasonAccountDisabled))
		return models.LoginOutcome{Result: models.LoginAccountDisabled}, nil
	}

	if user.LockedUntil != nil {
		if user.IsLockedAt(now) {
			a.auditor.record(ctx, a.failure(user, audit.ReasonAccountLocked))
			return models.LoginOutcome{Result: models.LoginAccountLocked}, nil
		}

		if err = a.users.ClearLockout(ctx, user.ID, now); err != nil {
			log.Err(err).Str("func", "authService.Login").Int64("user_id", user.ID).Msg("failed to clear elapsed lockout")
			return models.LoginOutcome{}, mapStoreError(err)
		}
		user.FailedLoginAttempts, user.LockedUntil = 0, nil
		a.auditor.record(ctx, audit.Event{Type: audit.LockoutExpired, UserID: user.ID, Email: user.Email})
	}

	if !user.HasPassword() {
		// OAuth-only accounts cannot be brute forced through this path.
		a.auditor.record(ctx, a.failure(user, audit.ReasonNoPassword))
		return models.LoginOutcome{Result: models.LoginInvalidCredentials}, nil
	}

	if !a.hasher.Verify(password, user.PasswordSalt, user.PasswordHash) {
		return a.registerFailure(ctx, user, now)
	}

	if err = a.users.RecordSuccessfulLogin(ctx, user.ID, now); err != nil {
		log.Err(err).Str("func", "authService.Login").Int64("user_id", user.ID).Msg("failed to record successful login")
		return models.LoginOutcome{}, mapStoreError(err)
	}
	user.FailedLoginAttempts, user.LockedUntil, user.LastLogin = 0, nil, &now

	a.auditor.record(ctx, audit.Event{Type: audit.LoginSuccess, UserID: user.ID, Email: user.Email, Role: user.Role, Method: "password"})
	log.Info().Str("func", "authService.Login").Int64("user_id", user.ID).Msg("user logged in")

	sanitized := user.Sanitized()
	return models.LoginOutcome{Result: models.LoginSuccess, User: &sanitized}, nil
}

// registerFailure increments the counter. The attempt that reaches the
// threshold reports AccountLocked.
func (a *authService) registerFailure(ctx context.Context, user models.User, now time.Time) (models.LoginOutcome, error) {
	attempts, _, err := a.users.RegisterFailedLogin(ctx, user.ID, a.maxFailedAttempts, now.Add(a.lockoutDuration))
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "authService.registerFailure").
			Int64("user_id", user.ID).
			Msg("failed to register failed login")
		return models.LoginOutcome{}, mapStoreError(err)
	}

	if attempts >= a.maxFailedAttempts {
		a.auditor.record(ctx, audit.Event{
			Type:            audit.AccountLockout,
			UserID:          user.ID,
			Email:           user.Email,
			Attempts:        attempts,
			DurationMinutes: int(a.lockoutDuration / time.Minute),
		})
		logger.FromContext(ctx).Warn().
			Str("func", "authService.registerFailure").
			Int64("user_id", user.ID).
			Int("attempts", attempts).
			Msg("account locked")
		return models.LoginOutcome{Result: models.LoginAccountLocked}, nil
	}

	event := a.failure(user, audit.ReasonInvalidPassword)
	event.Attempts = attempts
	a.auditor.record(ctx, event)

	return models.LoginOutcome{Result: models.LoginInvalidCredentials}, nil
}

func (a *authService) failure(user models.User, reason string) audit.Event {
	return audit.Event{
		Type:     audit.LoginFailure,
		UserID:   user.ID,
		Email:    user.Email,
		Reason:   reason,
		Attempts: user.FailedLoginAttempts,
	}
}

// GetLockoutStatus reports an active lock and its remaining minutes,
// rounded up. Unknown identifiers and unlocked accounts are not locked.
func (a *authService) GetLockoutStatus(ctx context.Context, identifier string) (models.LockoutStatus, error) {
	user, found, err := a.findByIdentifier(ctx, identifier)
	if err != nil {
		return models.LockoutStatus{}, err
	}

	now := a.now()
	if !found || !user.IsLockedAt(now) {
		return models.LockoutStatus{}, nil
	}

	remaining := int(math.Ceil(user.LockedUntil.Sub(now).Minutes()))
	return models.LockoutStatus{Locked: true, RemainingMinutes: &remaining}, nil
}

// GetFailedLoginAttempts returns nil for unknown identifiers.
func (a *authService) GetFailedLoginAttempts(ctx context.Context, identifier string) (*int, error) {
	user, found, err := a.findByIdentifier(ctx, identifier)
	if err != nil || !found {
		return nil, err
	}
	attempts := user.FailedLoginAttempts
	return &attempts, nil
}

// LoginOAuth signs in with a provider identity.
//
// A new email creates an OAuth-only account. An account already linked to
// the provider is refreshed and signed in. Any other existing account is
// returned as OAuthNeedsLinking without being modified; linking requires an
// explicit LinkOAuthAccount call.
func (a *authService) LoginOAuth(ctx context.Context, in models.OAuthLogin) (models.OAuthResult, error) {
	log := logger.FromContext(ctx)

	in.Email = strings.TrimSpace(in.Email)
	in.Provider = strings.TrimSpace(in.Provider)

	var messages []string
	if in.Email == "" {
		messages = append(messages, "OAuth email is required")
	}
	if in.Provider == "" {
		messages = append(messages, "OAuth provider is required")
	}
	if len(messages) > 0 {
		return models.OAuthResult{}, newValidationError(messages...)
	}

	method := "oauth:" + in.Provider
	now := a.now()

	user, err := a.users.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNoUserWasFound):
		return a.createOAuthAccount(ctx, in, method, now)
	default:
		log.Err(err).Str("func", "authService.LoginOAuth").Msg("user lookup failed")
		return models.OAuthResult{}, err
	}

	if user.IsDisabled {
		event := a.failure(user, audit.ReasonAccountDisabled)
		event.Method = method
		a.auditor.record(ctx, event)
		return models.OAuthResult{}, ErrAccountDisabled
	}

	if user.OAuthProvider == nil || *user.OAuthProvider != in.Provider {
		log.Info().Str("func", "authService.LoginOAuth").Int64("user_id", user.ID).Msg("oauth sign-in needs explicit linking")
		return models.OAuthResult{Kind: models.OAuthNeedsLinking, User: user.Sanitized()}, nil
	}

	name := user.Name
	if in.Name != "" {
		name = truncateName(in.Name)
	}
	picture := choosePicture(user.ProfilePicture, in.ProfilePicture, in.PictureResolved)

	if err = a.users.UpdateOAuthProfile(ctx, user.ID, name, picture, now); err != nil {
		return models.OAuthResult{}, mapStoreError(err)
	}
	if err = a.users.RecordSuccessfulLogin(ctx, user.ID, now); err != nil {
		return models.OAuthResult{}, mapStoreError(err)
	}

	user.Name, user.ProfilePicture, user.LastLogin = name, picture, &now
	user.FailedLoginAttempts, user.LockedUntil = 0, nil

	a.auditor.record(ctx, audit.Event{Type: audit.LoginSuccess, UserID: user.ID, Email: user.Email, Role: user.Role, Method: method})
	return models.OAuthResult{Kind: models.OAuthLoggedIn, User: user.Sanitized()}, nil
}

func (a *authService) createOAuthAccount(ctx context.Context, in models.OAuthLogin, method string, now time.Time) (models.OAuthResult, error) {
	name := truncateName(in.Name)
	if name == "" {
		name, _, _ = strings.Cut(in.Email, "@")
	}

	provider := in.Provider
	user := models.User{
		Name:           name,
		Email:          in.Email,
		Role:           models.RoleUser,
		OAuthProvider:  &provider,
		ProfilePicture: choosePicture(nil, in.ProfilePicture, in.PictureResolved),
		LastLogin:      &now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	id, err := a.users.Create(ctx, user)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "authService.createOAuthAccount").Msg("failed to create oauth user")
		return models.OAuthResult{}, mapStoreError(err)
	}
	user.ID = id

	if err = a.users.RecordSuccessfulLogin(ctx, id, now); err != nil {
		return models.OAuthResult{}, mapStoreError(err)
	}

	a.auditor.record(ctx, audit.Event{Type: audit.UserCreated, UserID: id, Email: user.Email, Role: user.Role, Method: method})
	a.auditor.record(ctx, audit.Event{Type: audit.LoginSuccess, UserID: id, Email: user.Email, Role: user.Role, Method: method})

	return models.OAuthResult{Kind: models.OAuthCreated, User: user.Sanitized()}, nil
}

// choosePicture picks the picture to store after an OAuth sign-in. A stored
// filename survives an incoming URL that could not be fetched.
func choosePicture(existing *string, incoming string, resolved bool) *string {
	if incoming == "" {
		return existing
	}
	if !resolved && existing != nil && !isRemotePicture(*existing) {
		return existing
	}
	return &incoming
}

func isRemotePicture(p string) bool {
	return strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://")
}

func truncateName(name string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) <= validators.MaxNameLength {
		return name
	}
	return string([]rune(name)[:validators.MaxNameLength])
}

// LinkOAuthAccount attaches provider to an existing account. Linking the
// provider already attached is a no-op.
func (a *authService) LinkOAuthAccount(ctx context.Context, userID int64, provider string) error {
	provider = strings.TrimSpace(provider)
	if provider == "" {
		return newValidationError("OAuth provider is required")
	}

	user, err := a.getUser(ctx, userID)
	if err != nil {
		return err
	}

	if user.IsOAuth() {
		if *user.OAuthProvider == provider {
			return nil
		}
		return ErrAlreadyLinked
	}

	if err = a.users.SetOAuthProvider(ctx, userID, &provider, a.now()); err != nil {
		return mapStoreError(err)
	}
	a.auditor.record(ctx, audit.Event{
		Type:   audit.OAuthLinked,
		UserID: userID,
		Email:  user.Email,
		Role:   user.Role,
		Method: provider,
	})

	logger.FromContext(ctx).Info().
		Str("func", "authService.LinkOAuthAccount").
		Int64("user_id", userID).
		Str("provider", provider).
		Msg("oauth provider linked")
	return nil
}

// UnlinkOAuthAccount detaches the provider. An account without a password
// keeps its provider so it is never left without a way to sign in.
func (a *authService) UnlinkOAuthAccount(ctx context.Context, userID int64) error {
	user, err := a.getUser(ctx, userID)
	if err != nil {
		return err
	}

	if !user.IsOAuth() {
		return ErrNotLinked
	}
	if !user.HasPassword() {
		return ErrPasswordNotSet
	}

	if err = a.users.SetOAuthProvider(ctx, userID, nil, a.now()); err != nil {
		return mapStoreError(err)
	}
	a.auditor.record(ctx, audit.Event{
		Type:   audit.OAuthUnlinked,
		UserID: userID,
		Email:  user.Email,
		Role:   user.Role,
		Method: *user.OAuthProvider,
	})

	logger.FromContext(ctx).Info().Str("func", "authService.UnlinkOAuthAccount").Int64("user_id", userID).Msg("oauth provider unlinked")
	return nil
}

func (a *authService) GetUserRole(ctx context.Context, userID int64) (models.Role, error) {
	user, err := a.getUser(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Role, nil
}

// EnsureAdminExists creates the configured admin account if its email is
// not registered yet. The seed password skips the complexity policy.
func (a *authService) EnsureAdminExists(ctx context.Context) error {
	log := logger.FromContext(ctx)

	_, err := a.users.GetByEmail(ctx, a.admin.AdminEmail)
	if err == nil {
		log.Debug().Str("func", "authService.EnsureAdminExists").Msg("admin account already exists")
		return nil
	}
	if !errors.Is(err, store.ErrNoUserWasFound) {
		return err
	}

	id, err := a.createAccount(ctx, models.Registration{
		Name:       a.admin.AdminName,
		Email:      a.admin.AdminEmail,
		Password:   a.admin.AdminPassword,
		Role:       models.RoleAdmin,
		SkipPolicy: true,
	}, 0)
	if err != nil {
		log.Err(err).Str("func", "authService.EnsureAdminExists").Msg("failed to create admin account")
		return err
	}

	log.Info().Str("func", "authService.EnsureAdminExists").Int64("user_id", id).Msg("admin account created")
	return nil
}

func (a *authService) PasswordRequirements() string {
	return a.policy.RequirementsText()
}

package service

import (
	"context"
	"time"

	"github.com/clepord34/pawres/models"
)

// AuthService owns registration, password login with the lockout state
// machine, and OAuth sign-in and linking.
type AuthService interface {
	RegisterUser(ctx context.Context, registration models.Registration) (int64, error)

	// Login never reports authentication outcomes as errors; an error means
	// the credential store failed.
	Login(ctx context.Context, identifier, password string) (models.LoginOutcome, error)
	GetLockoutStatus(ctx context.Context, identifier string) (models.LockoutStatus, error)
	GetFailedLoginAttempts(ctx context.Context, identifier string) (*int, error)

	LoginOAuth(ctx context.Context, login models.OAuthLogin) (models.OAuthResult, error)
	LinkOAuthAccount(ctx context.Context, userID int64, provider string) error
	UnlinkOAuthAccount(ctx context.Context, userID int64) error

	GetUserRole(ctx context.Context, userID int64) (models.Role, error)
	EnsureAdminExists(ctx context.Context) error
	PasswordRequirements() string
}

// PasswordHistoryService prevents reuse of a user's recent passwords.
type PasswordHistoryService interface {
	AddToHistory(ctx context.Context, userID int64, hash, salt string, maxHistory int) error
	// CheckReuse reports whether candidate differs from every retained
	// password. message is set when it does not.
	CheckReuse(ctx context.Context, userID int64, candidate string) (allowed bool, message string, err error)
	ClearHistory(ctx context.Context, userID int64) error
}

// UserAdminService is the administrative surface over accounts. Callers
// must restrict it to admins; adminID is the acting administrator.
type UserAdminService interface {
	CreateUser(ctx context.Context, adminID int64, registration models.Registration) (int64, error)
	UpdateUser(ctx context.Context, adminID, userID int64, update models.UserUpdate) error
	DisableUser(ctx context.Context, adminID, userID int64) error
	EnableUser(ctx context.Context, adminID, userID int64) error
	ResetPassword(ctx context.Context, adminID, userID int64, newPassword string, opts models.ResetPasswordOptions) error
	DeleteUser(ctx context.Context, adminID, userID int64) error

	GetUserStats(ctx context.Context) (models.UserStats, error)
	ListUsers(ctx context.Context, filter models.UserFilter) ([]models.User, error)
	GetUser(ctx context.Context, userID int64) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetLockoutInfo(ctx context.Context, identifier string) (models.LockoutInfo, error)
}

// ProfileService is the self-service surface of a signed-in user.
type ProfileService interface {
	GetProfile(ctx context.Context, userID int64) (models.User, error)
	UpdateProfile(ctx context.Context, userID int64, update models.ProfileUpdate) error
	ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error
	SetPasswordForOAuth(ctx context.Context, userID int64, newPassword string) error
	IsOAuthUser(ctx context.Context, userID int64) (bool, error)
}

// SessionService manages the server-side session container.
type SessionService interface {
	StartSession(ctx context.Context, user models.User) (string, models.Session, error)
	GetSession(ctx context.Context, token string) (models.Session, bool)
	SaveSession(ctx context.Context, token string, session models.Session) error
	EndSession(ctx context.Context, token string) error
	// PurgeExpired drops sessions idle for longer than the session timeout.
	PurgeExpired(ctx context.Context) (int, error)
}

// AccessService makes route authorization decisions.
type AccessService interface {
	// CheckAccess may clear or touch session. It never allows on error.
	CheckAccess(ctx context.Context, session *models.Session, route string, rule models.RouteAccessRule) models.AccessDecision
	SessionTimeout() time.Duration
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}

package store

import (
	"context"
	"time"

	"github.com/clepord34/pawres/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository is the credential store. Every mutating method is a single
// statement or a single transaction scoped to one user row.
type UserRepository interface {
	Create(ctx context.Context, user models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByPhone(ctx context.Context, phone string) (models.User, error)
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	PhoneTaken(ctx context.Context, phone string, excludeID int64) (bool, error)

	// RegisterFailedLogin atomically increments the failed-attempt counter and
	// sets locked_until to lockUntil once the counter reaches maxAttempts.
	// It returns the counter and lock deadline after the update.
	RegisterFailedLogin(ctx context.Context, id int64, maxAttempts int, lockUntil time.Time) (int, *time.Time, error)
	RecordSuccessfulLogin(ctx context.Context, id int64, now time.Time) error
	ClearLockout(ctx context.Context, id int64, now time.Time) error

	// UpdateCredentials replaces the password and clears any lockout.
	UpdateCredentials(ctx context.Context, id int64, hash, salt string, now time.Time) error
	Update(ctx context.Context, id int64, update models.UserUpdate, now time.Time) error
	UpdateProfile(ctx context.Context, id int64, update models.ProfileUpdate, now time.Time) error
	SetDisabled(ctx context.Context, id int64, disabled bool, now time.Time) error
	SetOAuthProvider(ctx context.Context, id int64, provider *string, now time.Time) error
	UpdateOAuthProfile(ctx context.Context, id int64, name string, picture *string, now time.Time) error
	Delete(ctx context.Context, id int64) error

	List(ctx context.Context, filter models.UserFilter) ([]models.User, error)
	Stats(ctx context.Context, since time.Time) (models.UserStats, error)
}

// PasswordHistoryRepository keeps the most recent password digests per user.
type PasswordHistoryRepository interface {
	// Add inserts entry and trims the user's history to maxHistory entries
	// inside one transaction. maxHistory <= 0 skips the trim.
	Add(ctx context.Context, entry models.PasswordHistoryEntry, maxHistory int) error
	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, userID int64, limit int) ([]models.PasswordHistoryEntry, error)
	Clear(ctx context.Context, userID int64) error
}

// SessionStore holds authenticated sessions addressed by opaque tokens.
type SessionStore interface {
	Create(ctx context.Context, session models.Session) (string, error)
	Get(ctx context.Context, token string) (models.Session, error)
	Save(ctx context.Context, token string, session models.Session) error
	Delete(ctx context.Context, token string) error
	// DeleteIdleSince removes sessions whose last activity is before cutoff
	// and returns how many were removed.
	DeleteIdleSince(ctx context.Context, cutoff time.Time) (int, error)
}

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/clepord34/pawres/models"
)

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var (
		u           models.User
		role        string
		lockedUntil nullTime
		lastLogin   nullTime
	)

	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Phone,
		&u.PasswordHash,
		&u.PasswordSalt,
		&role,
		&u.IsDisabled,
		&u.FailedLoginAttempts,
		&lockedUntil,
		&u.OAuthProvider,
		&u.ProfilePicture,
		&lastLogin,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return models.User{}, err
	}

	u.Role = models.Role(role)
	u.LockedUntil = lockedUntil.ptr()
	u.LastLogin = lastLogin.ptr()

	return u, nil
}

// sqliteTimeFormats are the layouts go-sqlite3 uses when it stores time.Time
// values as text.
var sqliteTimeFormats = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
}

// nullTime scans a nullable timestamp that sqlite may return as text,
// e.g. from a RETURNING clause without a declared column type.
type nullTime struct {
	Time  time.Time
	Valid bool
}

func (n *nullTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		n.Time, n.Valid = time.Time{}, false
		return nil
	case time.Time:
		n.Time, n.Valid = v, true
		return nil
	case string:
		return n.parse(v)
	case []byte:
		return n.parse(string(v))
	default:
		var t sql.NullTime
		if err := t.Scan(src); err != nil {
			return err
		}
		n.Time, n.Valid = t.Time, t.Valid
		return nil
	}
}

func (n *nullTime) parse(s string) error {
	for _, layout := range sqliteTimeFormats {
		if t, err := time.Parse(layout, s); err == nil {
			n.Time, n.Valid = t, true
			return nil
		}
	}
	return fmt.Errorf("cannot parse %q as time", s)
}

func (n nullTime) ptr() *time.Time {
	if !n.Valid {
		return nil
	}
	t := n.Time
	return &t
}

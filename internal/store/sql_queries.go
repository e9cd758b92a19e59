package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/clepord34/pawres/models"
)

const (
	usersTable           = "users"
	passwordHistoryTable = "password_history"
)

// userColumns is the column order scanned by scanUser.
var userColumns = []string{
	"id",
	"name",
	"email",
	"phone",
	"password_hash",
	"password_salt",
	"role",
	"is_disabled",
	"failed_login_attempts",
	"locked_until",
	"oauth_provider",
	"profile_picture",
	"last_login",
	"created_at",
	"updated_at",
}

func (d dialect) buildInsertUserQuery(u models.User) (string, []any, error) {
	return d.builder().
		Insert(usersTable).
		Columns("name", "email", "phone", "password_hash", "password_salt", "role",
			"oauth_provider", "profile_picture", "created_at", "updated_at").
		Values(u.Name, u.Email, u.Phone, u.PasswordHash, u.PasswordSalt, string(u.Role),
			u.OAuthProvider, u.ProfilePicture, u.CreatedAt, u.UpdatedAt).
		Suffix("RETURNING id").
		ToSql()
}

func (d dialect) buildSelectUserQuery(where sq.Eq) (string, []any, error) {
	return d.builder().
		Select(userColumns...).
		From(usersTable).
		Where(where).
		Limit(1).
		ToSql()
}

// buildUserExistsQuery checks for another account holding value in column.
func (d dialect) buildUserExistsQuery(column, value string, excludeID int64) (string, []any, error) {
	return d.builder().
		Select("1").
		From(usersTable).
		Where(sq.Eq{column: value}).
		Where(sq.NotEq{"id": excludeID}).
		Limit(1).
		ToSql()
}

// buildRegisterFailedLoginQuery increments the counter and sets the lock in
// one statement. Both SET expressions read the pre-update row.
func (d dialect) buildRegisterFailedLoginQuery(id int64, maxAttempts int, lockUntil time.Time) (string, []any, error) {
	return d.builder().
		Update(usersTable).
		Set("failed_login_attempts", sq.Expr("failed_login_attempts + 1")).
		Set("locked_until", sq.Expr(
			"CASE WHEN failed_login_attempts + 1 >= ? THEN ? ELSE locked_until END",
			maxAttempts, lockUntil,
		)).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING failed_login_attempts, locked_until").
		ToSql()
}

func (d dialect) buildRecordSuccessfulLoginQuery(id int64, now time.Time) (string, []any, error) {
	return d.builder().
		Update(usersTable).
		Set("failed_login_attempts", 0).
		Set("locked_until", nil).
		Set("last_login", now).
		Where(sq.Eq{"id": id}).
		ToSql()
}

func (d dialect) buildClearLockoutQuery(id int64, now time.Time) (string, []any, error) {
	return d.builder().
		Update(usersTable).
		Set("failed_login_attempts", 0).
		Set("locked_until", nil).
		Set("updated_at", now).
		Where(sq.Eq{"id": id}).
		ToSql()
}

func (d dialect) buildUpdateCredentialsQuery(id int64, hash, salt string, now time.Time) (string, []any, error) {
	return d.builder().
		Update(usersTable).
		Set("password_hash", hash).
		Set("password_salt", salt).
		Set("failed_login_attempts", 0).
		Set("locked_until", nil).
		Set("updated_at", now).
		Where(sq.Eq{"id": id}).
		ToSql()
}

// buildUpdateUserQuery sets only the non-nil fields of update. An empty
// phone clears the column.
func (d dialect) buildUpdateUserQuery(id int64, update models.UserUpdate, now time.Time) (string, []any, error) {
	q := d.builder().Update(usersTable)

	if update.Name != nil {
		q = q.Set("name", *update.Name)
	}
	if update.Email != nil {
		q = q.Set("email", *update.Email)
	}
	if update.Phone != nil {
		q = q.Set("phone", nullableString(*update.Phone))
	}
	if update.Role != nil {
		q = q.Set("role", string(*update.Role))
	}

	return q.Set("updated_at", now).Where(sq.Eq{"id": id}).ToSql()
}

func (d dialect) buildUpdateProfileQuery(id int64, update models.ProfileUpdate, now time.Time) (string, []any, error) {
	q := d.builder().Update(usersTable)

	if update.Name != nil {
		q = q.Set("name", *update.Name)
	}
	if update.Phone != nil {
		q = q.Set("phone", nullableString(*update.Phone))
	}
	if update.ProfilePicture != nil {
		q = q.Set("profile_picture", nullableString(*update.ProfilePicture))
	}

	return q.Set("updated_at", now).Where(sq.Eq{"id": id}).ToSql()
}

// buildSetDisabledQuery toggles the flag. Enabling also unlocks the account.
func (d dialect) buildSetDisabledQuery(id int64, disabled bool, now time.Time) (string, []any, error) {
	q := d.builder().
		Update(usersTable).
		Set("is_disabled", disabled)

	if !disabled {
		q = q.Set("failed_login_attempts", 0).Set("locked_until", nil)
	}

	return q.Set("updated_at", now).Where(sq.Eq{"id": id}).ToSql()
}

func (d dialect) buildSetOAuthProviderQuery(id int64, provider *string, now time.Time) (string, []any, error) {
	return d.builder().
		Update(usersTable).
		Set("oauth_provider", provider).
		Set("updated_at", now).
		Where(sq.Eq{"id": id}).
		ToSql()
}

func (d dialect) buildUpdateOAuthProfileQuery(id int64, name string, picture *string, now time.Time) (string, []any, error) {
	return d.builder().
		Update(usersTable).
		Set("name", name).
		Set("profile_picture", picture).
		Set("updated_at", now).
		Where(sq.Eq{"id": id}).
		ToSql()
}

func (d dialect) buildDeleteUserQuery(id int64) (string, []any, error) {
	return d.builder().
		Delete(usersTable).
		Where(sq.Eq{"id": id}).
		ToSql()
}

// buildListUsersQuery orders results newest first.
func (d dialect) buildListUsersQuery(filter models.UserFilter) (string, []any, error) {
	q := d.builder().
		Select(userColumns...).
		From(usersTable)

	if !filter.IncludeDisabled {
		q = q.Where(sq.Eq{"is_disabled": false})
	}
	if filter.Role != nil {
		q = q.Where(sq.Eq{"role": string(*filter.Role)})
	}
	if pattern := filter.SearchPattern(); pattern != "" {
		if d.ilike {
			q = q.Where(sq.Or{sq.ILike{"name": pattern}, sq.ILike{"email": pattern}})
		} else {
			q = q.Where(sq.Or{sq.Like{"name": pattern}, sq.Like{"email": pattern}})
		}
	}

	return q.OrderBy("created_at DESC", "id DESC").ToSql()
}

// buildUserStatsQuery aggregates every counter in a single scan of users.
func (d dialect) buildUserStatsQuery(since time.Time) (string, []any, error) {
	return d.builder().
		Select(
			"COUNT(*)",
			"COALESCE(SUM(CASE WHEN role = 'admin' THEN 1 ELSE 0 END), 0)",
			"COALESCE(SUM(CASE WHEN is_disabled THEN 1 ELSE 0 END), 0)",
		).
		Column(sq.Expr("COALESCE(SUM(CASE WHEN created_at >= ? THEN 1 ELSE 0 END), 0)", since)).
		From(usersTable).
		ToSql()
}

// buildLockUserRowQuery locks the user row for the rest of the transaction
// where the engine supports row locks.
func (d dialect) buildLockUserRowQuery(userID int64) (string, []any, error) {
	q := d.builder().
		Select("id").
		From(usersTable).
		Where(sq.Eq{"id": userID})

	if d.rowLocks {
		q = q.Suffix("FOR UPDATE")
	}

	return q.ToSql()
}

func (d dialect) buildInsertHistoryQuery(entry models.PasswordHistoryEntry) (string, []any, error) {
	return d.builder().
		Insert(passwordHistoryTable).
		Columns("user_id", "password_hash", "password_salt", "created_at").
		Values(entry.UserID, entry.PasswordHash, entry.PasswordSalt, entry.CreatedAt).
		ToSql()
}

// buildTrimHistoryQuery keeps the keep newest entries of the user. Ties on
// created_at are broken by id, i.e. insertion order.
func (d dialect) buildTrimHistoryQuery(userID int64, keep int) (string, []any, error) {
	return d.builder().
		Delete(passwordHistoryTable).
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Expr(
			"id NOT IN (SELECT id FROM password_history WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ?)",
			userID, keep,
		)).
		ToSql()
}

func (d dialect) buildRecentHistoryQuery(userID int64, limit int) (string, []any, error) {
	return d.builder().
		Select("id", "user_id", "password_hash", "password_salt", "created_at").
		From(passwordHistoryTable).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		ToSql()
}

func (d dialect) buildClearHistoryQuery(userID int64) (string, []any, error) {
	return d.builder().
		Delete(passwordHistoryTable).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

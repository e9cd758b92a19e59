package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clepord34/pawres/internal/logger"
	"github.com/clepord34/pawres/models"
)

func newTestUserRepo(t *testing.T, d dialect) (*userRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.Nop()
	repo := &userRepository{
		db:     &DB{DB: db, dialect: d, errorClassificator: NewPostgresErrorClassifier(), logger: l},
		logger: l,
	}
	return repo, mock, db
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func pgUniqueError(constraint string) error {
	return &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: constraint}
}

var repoTestTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func userRow(id int64, email string) *sqlmock.Rows {
	return sqlmock.NewRows(userColumns).AddRow(
		id, "Alice", email, "+12025550143", "hash", "salt", "user", false, 0,
		nil, nil, nil, nil, repoTestTime, repoTestTime,
	)
}

func TestCreateUser_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t, postgresDialect)
	defer db.Close()

	user := models.User{Name: "Alice", Email: "alice@example.com", Role: models.RoleUser}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("Alice", "alice@example.com", nil, "", "", "user", nil, nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(17)))

	id, err := repo.Create(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, int64(17), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_UniqueViolation(t *testing.T) {
	tests := []struct {
		name    string
		d       dialect
		err     error
		wantErr error
	}{
		{"postgres email", postgresDialect, pgUniqueError("users_email_key"), ErrEmailAlreadyExists},
		{"postgres phone", postgresDialect, pgUniqueError("users_phone_key"), ErrPhoneAlreadyExists},
		{
			"sqlite unique",
			sqliteDialect,
			sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique},
			ErrEmailAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newTestUserRepo(t, tt.d)
			defer db.Close()

			mock.ExpectQuery("INSERT INTO users").WillReturnError(tt.err)

			_, err := repo.Create(context.Background(), models.User{Email: "alice@example.com"})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateUser_OtherError(t *testing.T) {
	repo, mock, db := newTestUserRepo(t, postgresDialect)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO users").WillReturnError(pgError(pgerrcode.ConnectionFailure))

	_, err := repo.Create(context.Background(), models.User{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExecutingQuery)
	assert.NotErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestGetByEmail_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t, postgresDialect)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email = \\$1").
		WithArgs("alice@example.com").
		WillReturnRows(userRow(3, "alice@example.com"))

	user, err := repo.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)

	assert.Equal(t, int64(3), user.ID)
	assert.Equal(t, models.RoleUser, user.Role)
	require.NotNil(t, user.Phone)
	assert.Equal(t, "+12025550143", *user.Phone)
	assert.Nil(t, user.LockedUntil)
	assert.Nil(t, user.OAuthProvider)
	assert.True(t, user.HasPassword())
}

func TestGetByPhone_NotFound(t *testing.T) {
	repo, mock, db := newTestUserRepo(t, sqliteDialect)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE phone = \\?").
		WithArgs("+12025550143").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByPhone(context.Background(), "+12025550143")
	assert.ErrorIs(t, err, ErrNoUserWasFound)
}

func TestGetByID_LockedUntilFromText(t *testing.T) {
	repo, mock, db := newTestUserRepo(t, sqliteDialect)
	defer db.Close()

	rows := sqlmock.NewRows(userColumns).AddRow(
		int64(5), "Bob", "bob@example.com", nil, "", "", "admin", true, 5,
		"2026-03-01 12:15:00+00:00", "google", "https://pics/bob.png", nil, repoTestTime, repoTestTime,
	)
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\?").WithArgs(int64(5)).WillReturnRows(rows)

	user, err := repo.GetByID(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.True(t, user.IsDisabled)
	assert.False(t, user.HasPassword())
	assert.True(t, user.IsOAuth())
	require.NotNil(t, user.LockedUntil)
	assert.True(t, user.LockedUntil.Equal(repoTestTime.Add(15*time.Minute)))
}

func TestEmailTaken(t *testing.T) {
	t.Run("taken", func(t *testing.T) {
		repo, mock, db := newTestUserRepo(t, postgresDialect)
		defer db.Close()

		mock.ExpectQuery("SELECT 1 FROM users").
			WithArgs("alice@example.com", int64(0)).
			WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

		taken, err := repo.EmailTaken(context.Background(), "alice@example.com", 0)
		require.NoError(t, err)
		assert.True(t, taken)
	})

	t.Run("free", func(t *testing.T) {
		repo, mock, db := newTestUserRepo(t, postgresDialect)
		defer db.Close()

		mock.ExpectQuery("SELECT 1 FROM users").
			WithArgs("alice@example.com", int64(4)).
			WillReturnRows(sqlmock.NewRows([]string{"1"}))

		taken, err := repo.EmailTaken(context.Background(), "alice@example.com", 4)
		require.NoError(t, err)
		assert.False(t, taken)
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock, db := newTestUserRepo(t, postgresDialect)
		defer db.Close()

		mock.ExpectQuery("SELECT 1 FROM users").WillReturnError(errors.New("boom"))

		_, err := repo.PhoneTaken(context.Background(), "+1", 0)
		assert.ErrorIs(t, err, ErrExecutingQuery)
	})
}

func TestRegisterFailedLogin(t *testing.T) {
	lockUntil := repoTestTime.Add(15 * time.Minute)

	t.Run("below threshold", func(t *testing.T) {
		repo, mock, db := newTestUserRepo(t, postgresDialect)
		defer db.Close()

		mock.ExpectQuery("UPDATE users SET failed_login_attempts = failed_login_attempts \\+ 1").
			WithArgs(5, lockUntil, int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"failed_login_attempts", "locked_until"}).AddRow(2, nil))

		attempts, locked, err := repo.RegisterFailedLogin(context.Background(), 1, 5, lockUntil)
		require.NoError(t, err)
		assert.Equal(t, 2, attempts)
		assert.Nil(t, locked)
	})

	t.Run("threshold reached", func(t *testing.T) {
		repo, mock, db := newTestUserRepo(t, sqliteDialect)
		defer db.Close()

		// sqlite отдаёт время из RETURNING строкой
		mock.ExpectQuery("UPDATE users").
			WillReturnRows(sqlmock.NewRows([]string{"failed_login_attempts", "locked_until"}).
				AddRow(5, lockUntil.Format("2006-01-02 15:04:05.999999999-07:00")))

		attempts, locked, err := repo.RegisterFailedLogin(context.Background(), 1, 5, lockUntil)
		require.NoError(t, err)
		assert.Equal(t, 5, attempts)
		require.NotNil(t, locked)
		assert.True(t, locked.Equal(lockUntil))
	})

	t.Run("unknown user", func(t *testing.T) {
		repo, mock, db := newTestUserRepo(t, postgresDialect)
		defer db.Close()

		mock.ExpectQuery("UPDATE users").WillReturnError(sql.ErrNoRows)

		_, _, err := repo.RegisterFailedLogin(context.Background(), 99, 5, lockUntil)
		assert.ErrorIs(t, err, ErrNoUserWasFound)
	})
}

func TestRecordSuccessfulLogin(t *testing.T) {
	repo, mock, db := newTestUserRepo(t, postgresDialect)
	defer db.Close()

	mock.ExpectExec("UPDATE users SET failed_login_attempts = \\$1, locked_until = \\$2, last_login = \\$3 WHERE id = \\$4").
		WithArgs(0, nil, repoTestTime, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.RecordSuccessfulLogin(context.Background(), 1, repoTestTime))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExec_NoRowsAffected(t *testing.T) {
	repo, mock, db := newTestUserRepo(t, postgresDialect)
	defer db.Close()

	mock.ExpectExec("DELETE FROM users").
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNoUserWasFound)
}

func TestUpdate_ConflictMapping(t *testing.T) {
	repo, mock, db := newTestUserRepo(t, postgresDialect)
	defer db.Close()

	phone := "+12025550143"
	mock.ExpectExec("UPDATE users").WillReturnError(pgUniqueError("users_phone_key"))

	err := repo.Update(context.Background(), 1, models.UserUpdate{Phone: &phone}, repoTestTime)
	assert.ErrorIs(t, err, ErrPhoneAlreadyExists)
}

func TestUpdate_ExecError(t *testing.T) {
	repo, mock, db := newTestUserRepo(t, postgresDialect)
	defer db.Close()

	mock.ExpectExec("UPDATE users").WillReturnError(pgError(pgerrcode.DeadlockDetected))

	err := repo.SetDisabled(context.Background(), 1, true, repoTestTime)
	assert.ErrorIs(t, err, ErrExecutingStatement)
}

func TestList(t *testing.T) {
	repo, mock, db := newTestUserRepo(t, postgresDialect)
	defer db.Close()

	rows := userRow(2, "b@example.com").
		AddRow(int64(1), "Admin", "admin@gmail.com", nil, "h", "s", "admin", false, 0,
			nil, nil, nil, repoTestTime, repoTestTime, repoTestTime)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE is_disabled = \\$1 ORDER BY created_at DESC, id DESC").
		WithArgs(false).
		WillReturnRows(rows)

	users, err := repo.List(context.Background(), models.UserFilter{})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, int64(2), users[0].ID)
	assert.Equal(t, models.RoleAdmin, users[1].Role)
	require.NotNil(t, users[1].LastLogin)
}

func TestList_ScanError(t *testing.T) {
	repo, mock, db := newTestUserRepo(t, postgresDialect)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	_, err := repo.List(context.Background(), models.UserFilter{})
	assert.ErrorIs(t, err, ErrScanningRows)
}

func TestStats(t *testing.T) {
	repo, mock, db := newTestUserRepo(t, postgresDialect)
	defer db.Close()

	since := repoTestTime.AddDate(0, 0, -7)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\)").
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"total", "admins", "disabled", "recent"}).AddRow(10, 2, 1, 4))

	stats, err := repo.Stats(context.Background(), since)
	require.NoError(t, err)
	assert.Equal(t, models.UserStats{Total: 10, Admins: 2, Users: 8, Disabled: 1, RecentSignups: 4}, stats)
}

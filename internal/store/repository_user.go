package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/clepord34/pawres/internal/logger"
	"github.com/clepord34/pawres/models"
)

// userRepository is the SQL implementation of [UserRepository] over the
// "users" table. It works on both supported dialects.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Str("dialect", db.dialect.name).Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// queryBuilder defers query construction so shared helpers can log and wrap
// build failures uniformly.
type queryBuilder func() (string, []any, error)

// Create inserts user and returns its id.
//
// Error handling:
//   - unique violation on email -> [ErrEmailAlreadyExists];
//   - unique violation on phone -> [ErrPhoneAlreadyExists];
//   - any other failure -> wrapped [ErrExecutingQuery].
func (r *userRepository) Create(ctx context.Context, user models.User) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.dialect.buildInsertUserQuery(user)
	if err != nil {
		log.Err(err).Str("func", "userRepository.Create").Msg("failed to build query")
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var id int64
	if err = r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		if conflict := userConflictError(err); conflict != nil {
			log.Warn().Err(err).Str("func", "userRepository.Create").Msg("unique constraint violated")
			return 0, conflict
		}
		log.Err(err).
			Str("func", "userRepository.Create").
			Str("classification", r.db.classify(err)).
			Msg("failed to insert user")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	log.Debug().Str("func", "userRepository.Create").Int64("user_id", id).Msg("user created")
	return id, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (models.User, error) {
	return r.getOne(ctx, "userRepository.GetByID", sq.Eq{"id": id})
}

// GetByEmail matches email exactly (case-sensitive).
func (r *userRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return r.getOne(ctx, "userRepository.GetByEmail", sq.Eq{"email": email})
}

// GetByPhone expects an already normalized phone.
func (r *userRepository) GetByPhone(ctx context.Context, phone string) (models.User, error) {
	return r.getOne(ctx, "userRepository.GetByPhone", sq.Eq{"phone": phone})
}

func (r *userRepository) getOne(ctx context.Context, fn string, where sq.Eq) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.dialect.buildSelectUserQuery(where)
	if err != nil {
		log.Err(err).Str("func", fn).Msg("failed to build query")
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNoUserWasFound
	}
	if err != nil {
		log.Err(err).Str("func", fn).Str("classification", r.db.classify(err)).Msg("failed to select user")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return user, nil
}

func (r *userRepository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	return r.exists(ctx, "userRepository.EmailTaken", "email", email, excludeID)
}

func (r *userRepository) PhoneTaken(ctx context.Context, phone string, excludeID int64) (bool, error) {
	return r.exists(ctx, "userRepository.PhoneTaken", "phone", phone, excludeID)
}

func (r *userRepository) exists(ctx context.Context, fn, column, value string, excludeID int64) (bool, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.dialect.buildUserExistsQuery(column, value, excludeID)
	if err != nil {
		log.Err(err).Str("func", fn).Msg("failed to build query")
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var one int
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		log.Err(err).Str("func", fn).Msg("failed to check uniqueness")
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return true, nil
}

// RegisterFailedLogin increments the counter and applies the lock in a single
// UPDATE ... RETURNING, so concurrent failures are never lost.
func (r *userRepository) RegisterFailedLogin(ctx context.Context, id int64, maxAttempts int, lockUntil time.Time) (int, *time.Time, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.dialect.buildRegisterFailedLoginQuery(id, maxAttempts, lockUntil)
	if err != nil {
		log.Err(err).Str("func", "userRepository.RegisterFailedLogin").Msg("failed to build query")
		return 0, nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var (
		attempts    int
		lockedUntil nullTime
	)
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&attempts, &lockedUntil)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil, ErrNoUserWasFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "userRepository.RegisterFailedLogin").
			Int64("user_id", id).
			Str("classification", r.db.classify(err)).
			Msg("failed to register failed login")
		return 0, nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return attempts, lockedUntil.ptr(), nil
}

func (r *userRepository) RecordSuccessfulLogin(ctx context.Context, id int64, now time.Time) error {
	return r.exec(ctx, "userRepository.RecordSuccessfulLogin", id, func() (string, []any, error) {
		return r.db.dialect.buildRecordSuccessfulLoginQuery(id, now)
	})
}

func (r *userRepository) ClearLockout(ctx context.Context, id int64, now time.Time) error {
	return r.exec(ctx, "userRepository.ClearLockout", id, func() (string, []any, error) {
		return r.db.dialect.buildClearLockoutQuery(id, now)
	})
}

func (r *userRepository) UpdateCredentials(ctx context.Context, id int64, hash, salt string, now time.Time) error {
	return r.exec(ctx, "userRepository.UpdateCredentials", id, func() (string, []any, error) {
		return r.db.dialect.buildUpdateCredentialsQuery(id, hash, salt, now)
	})
}

func (r *userRepository) Update(ctx context.Context, id int64, update models.UserUpdate, now time.Time) error {
	return r.exec(ctx, "userRepository.Update", id, func() (string, []any, error) {
		return r.db.dialect.buildUpdateUserQuery(id, update, now)
	})
}

func (r *userRepository) UpdateProfile(ctx context.Context, id int64, update models.ProfileUpdate, now time.Time) error {
	return r.exec(ctx, "userRepository.UpdateProfile", id, func() (string, []any, error) {
		return r.db.dialect.buildUpdateProfileQuery(id, update, now)
	})
}

func (r *userRepository) SetDisabled(ctx context.Context, id int64, disabled bool, now time.Time) error {
	return r.exec(ctx, "userRepository.SetDisabled", id, func() (string, []any, error) {
		return r.db.dialect.buildSetDisabledQuery(id, disabled, now)
	})
}

func (r *userRepository) SetOAuthProvider(ctx context.Context, id int64, provider *string, now time.Time) error {
	return r.exec(ctx, "userRepository.SetOAuthProvider", id, func() (string, []any, error) {
		return r.db.dialect.buildSetOAuthProviderQuery(id, provider, now)
	})
}

func (r *userRepository) UpdateOAuthProfile(ctx context.Context, id int64, name string, picture *string, now time.Time) error {
	return r.exec(ctx, "userRepository.UpdateOAuthProfile", id, func() (string, []any, error) {
		return r.db.dialect.buildUpdateOAuthProfileQuery(id, name, picture, now)
	})
}

// Delete removes the user. History rows are removed by the foreign key.
func (r *userRepository) Delete(ctx context.Context, id int64) error {
	return r.exec(ctx, "userRepository.Delete", id, func() (string, []any, error) {
		return r.db.dialect.buildDeleteUserQuery(id)
	})
}

// exec runs a single-row mutation and reports [ErrNoUserWasFound] when no
// row matched.
func (r *userRepository) exec(ctx context.Context, fn string, id int64, build queryBuilder) error {
	log := logger.FromContext(ctx)

	query, args, err := build()
	if err != nil {
		log.Err(err).Str("func", fn).Int64("user_id", id).Msg("failed to build query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if conflict := userConflictError(err); conflict != nil {
			log.Warn().Err(err).Str("func", fn).Int64("user_id", id).Msg("unique constraint violated")
			return conflict
		}
		log.Err(err).
			Str("func", fn).
			Int64("user_id", id).
			Str("classification", r.db.classify(err)).
			Msg("failed to execute statement")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		log.Err(err).Str("func", fn).Int64("user_id", id).Msg("failed to read affected rows")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrNoUserWasFound
	}

	return nil
}

func (r *userRepository) List(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.dialect.buildListUsersQuery(filter)
	if err != nil {
		log.Err(err).Str("func", "userRepository.List").Msg("failed to build query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "userRepository.List").Msg("failed to list users")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	users := make([]models.User, 0, 16)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			log.Err(err).Str("func", "userRepository.List").Msg("failed to scan user row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		log.Err(err).Str("func", "userRepository.List").Msg("error iterating user rows")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return users, nil
}

// Stats counts accounts; RecentSignups covers accounts created at or after since.
func (r *userRepository) Stats(ctx context.Context, since time.Time) (models.UserStats, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.dialect.buildUserStatsQuery(since)
	if err != nil {
		log.Err(err).Str("func", "userRepository.Stats").Msg("failed to build query")
		return models.UserStats{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var stats models.UserStats
	err = r.db.QueryRowContext(ctx, query, args...).
		Scan(&stats.Total, &stats.Admins, &stats.Disabled, &stats.RecentSignups)
	if err != nil {
		log.Err(err).Str("func", "userRepository.Stats").Msg("failed to aggregate user stats")
		return models.UserStats{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	stats.Users = stats.Total - stats.Admins

	return stats, nil
}

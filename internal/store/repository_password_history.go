package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/clepord34/pawres/internal/logger"
	"github.com/clepord34/pawres/models"
)

type passwordHistoryRepository struct {
	db     *DB
	logger *logger.Logger
}

func NewPasswordHistoryRepository(db *DB, logger *logger.Logger) PasswordHistoryRepository {
	logger.Debug().Str("dialect", db.dialect.name).Msg("creating password history repository")
	return &passwordHistoryRepository{
		db:     db,
		logger: logger,
	}
}

// Add runs lock, insert and trim in one transaction. On postgres the user
// row lock serializes concurrent adds for the same user; sqlite relies on
// its single connection.
func (r *passwordHistoryRepository) Add(ctx context.Context, entry models.PasswordHistoryEntry, maxHistory int) error {
	log := logger.FromContext(ctx).With().
		Str("func", "passwordHistoryRepository.Add").
		Int64("user_id", entry.UserID).
		Logger()

	lockQuery, lockArgs, err := r.db.dialect.buildLockUserRowQuery(entry.UserID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	insertQuery, insertArgs, err := r.db.dialect.buildInsertHistoryQuery(entry)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	var lockedID int64
	err = tx.QueryRowContext(ctx, lockQuery, lockArgs...).Scan(&lockedID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNoUserWasFound
	}
	if err != nil {
		log.Err(err).Msg("failed to lock user row")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if _, err = tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		log.Err(err).Msg("failed to insert history entry")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if maxHistory > 0 {
		trimQuery, trimArgs, err := r.db.dialect.buildTrimHistoryQuery(entry.UserID, maxHistory)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}

		res, err := tx.ExecContext(ctx, trimQuery, trimArgs...)
		if err != nil {
			log.Err(err).Msg("failed to trim history")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		if trimmed, _ := res.RowsAffected(); trimmed > 0 {
			log.Debug().Int64("trimmed", trimmed).Int("max_history", maxHistory).Msg("evicted old history entries")
		}
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

// Recent returns up to limit entries, newest first. A non-positive limit
// yields no entries.
func (r *passwordHistoryRepository) Recent(ctx context.Context, userID int64, limit int) ([]models.PasswordHistoryEntry, error) {
	if limit <= 0 {
		return nil, nil
	}
	log := logger.FromContext(ctx)

	query, args, err := r.db.dialect.buildRecentHistoryQuery(userID, limit)
	if err != nil {
		log.Err(err).Str("func", "passwordHistoryRepository.Recent").Msg("failed to build query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "passwordHistoryRepository.Recent").Int64("user_id", userID).Msg("failed to query history")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	entries := make([]models.PasswordHistoryEntry, 0, limit)
	for rows.Next() {
		var e models.PasswordHistoryEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.PasswordHash, &e.PasswordSalt, &e.CreatedAt); err != nil {
			log.Err(err).Str("func", "passwordHistoryRepository.Recent").Msg("failed to scan history row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return entries, nil
}

func (r *passwordHistoryRepository) Clear(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.dialect.buildClearHistoryQuery(userID)
	if err != nil {
		log.Err(err).Str("func", "passwordHistoryRepository.Clear").Msg("failed to build query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "passwordHistoryRepository.Clear").Int64("user_id", userID).Msg("failed to clear history")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

package store

import (
	"context"
	"fmt"

	"github.com/clepord34/pawres/internal/config"
	"github.com/clepord34/pawres/internal/logger"
)

// Storages aggregates every persistence component used by the services.
type Storages struct {
	UserRepository            UserRepository
	PasswordHistoryRepository PasswordHistoryRepository
	SessionStore              SessionStore

	db *DB
}

// NewStorages connects to the configured database, applies migrations and
// builds the repositories.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	db, err := NewConnect(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if err = db.Migrate(); err != nil {
		log.Err(err).Str("func", "NewStorages").Msg("error applying migrations")
		_ = db.Close()
		return nil, fmt.Errorf("error applying migrations: %w", err)
	}
	log.Info().Str("func", "NewStorages").Str("driver", cfg.DB.Driver).Msg("migrations applied")

	return newStorages(db, log), nil
}

func newStorages(db *DB, log *logger.Logger) *Storages {
	return &Storages{
		UserRepository:            NewUserRepository(db, log),
		PasswordHistoryRepository: NewPasswordHistoryRepository(db, log),
		SessionStore:              NewMemorySessionStore(),
		db:                        db,
	}
}

// Close releases the database connection pool.
func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

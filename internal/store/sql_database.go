package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/clepord34/pawres/internal/config"
	"github.com/clepord34/pawres/internal/logger"
	"github.com/clepord34/pawres/migrations"
)

// DB wraps a connection pool with the SQL dialect it speaks.
type DB struct {
	*sql.DB
	dialect            dialect
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// dialect captures the differences between the supported engines.
type dialect struct {
	name        string
	placeholder sq.PlaceholderFormat
	// rowLocks reports support for SELECT ... FOR UPDATE.
	rowLocks bool
	// ilike selects ILIKE for case-insensitive search.
	ilike bool
}

var (
	postgresDialect = dialect{name: config.DriverPostgres, placeholder: sq.Dollar, rowLocks: true, ilike: true}
	sqliteDialect   = dialect{name: config.DriverSQLite, placeholder: sq.Question}
)

func (d dialect) builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(d.placeholder)
}

// NewConnect opens the database selected by cfg.Driver.
func NewConnect(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return NewConnectPostgres(ctx, cfg, log)
	case config.DriverSQLite:
		return NewConnectSQLite(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
	}
}

// Migrate applies the embedded schema migrations of the connection's dialect.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect.name)
}

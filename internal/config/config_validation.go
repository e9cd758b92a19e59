// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The PawRes Authors

package config

import (
	"fmt"

	"github.com/rs/zerolog"
)

// validate checks that the final merged [StructuredConfig] is usable before
// the server starts.
//
// Returns nil if the configuration is valid, or an error wrapping one of the
// ErrInvalid*Configs sentinels otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.AdminEmail == "" || cfg.App.AdminPassword == "" {
		return fmt.Errorf("%w: admin credentials are required", ErrInvalidAppConfigs)
	}
	if cfg.App.LogLevel != "" {
		if _, err := zerolog.ParseLevel(cfg.App.LogLevel); err != nil {
			return fmt.Errorf("%w: log level %q: %w", ErrInvalidAppConfigs, cfg.App.LogLevel, err)
		}
	}

	sec := cfg.Security
	switch {
	case sec.PBKDF2Iterations <= 0 || sec.SaltLength <= 0:
		return fmt.Errorf("%w: hashing parameters must be positive", ErrInvalidSecurityConfigs)
	case sec.PasswordMinLength < 0:
		return fmt.Errorf("%w: password min length is negative", ErrInvalidSecurityConfigs)
	case sec.PasswordHistoryCount != nil && *sec.PasswordHistoryCount < 0:
		return fmt.Errorf("%w: password history count is negative", ErrInvalidSecurityConfigs)
	case sec.MaxFailedLoginAttempts <= 0:
		return fmt.Errorf("%w: max failed login attempts must be positive", ErrInvalidSecurityConfigs)
	case sec.LockoutDuration <= 0:
		return fmt.Errorf("%w: lockout duration must be positive", ErrInvalidSecurityConfigs)
	case sec.SessionTimeout <= 0:
		return fmt.Errorf("%w: session timeout must be positive", ErrInvalidSecurityConfigs)
	}

	switch cfg.Storage.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("%w: unsupported driver %q", ErrInvalidStorageConfigs, cfg.Storage.DB.Driver)
	}
	if cfg.Storage.DB.DSN == "" {
		return fmt.Errorf("%w: empty DSN", ErrInvalidStorageConfigs)
	}

	if cfg.Server.HTTPAddress == "" {
		return fmt.Errorf("%w: empty address", ErrInvalidServerConfigs)
	}
	if cfg.Server.LoginRateLimit <= 0 || cfg.Server.LoginRateBurst <= 0 {
		return fmt.Errorf("%w: login rate limit must be positive", ErrInvalidServerConfigs)
	}

	if cfg.OAuth.GoogleUserInfoURL == "" {
		return fmt.Errorf("%w: empty userinfo url", ErrInvalidOAuthConfigs)
	}

	if cfg.Workers.SessionPurgeInterval <= 0 || cfg.Workers.LimiterSweepInterval <= 0 {
		return fmt.Errorf("%w: intervals must be positive", ErrInvalidWorkerConfigs)
	}

	return nil
}

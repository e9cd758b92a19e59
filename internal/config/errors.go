package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when a
// configuration group is incomplete or invalid. Each is wrapped with the
// offending detail.
var (
	// ErrInvalidAppConfigs indicates invalid application-level settings
	// (for example, an empty admin email or an unknown log level).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidSecurityConfigs indicates invalid hashing, policy, lockout
	// or session settings (for example, a non-positive lockout duration).
	ErrInvalidSecurityConfigs = errors.New("invalid security configuration")
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, an unsupported driver or an empty DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidServerConfigs indicates invalid HTTP server settings.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidOAuthConfigs indicates invalid identity provider settings.
	ErrInvalidOAuthConfigs = errors.New("invalid oauth configuration")
	// ErrInvalidWorkerConfigs indicates invalid background worker settings
	// (for example, zero purge interval).
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
)

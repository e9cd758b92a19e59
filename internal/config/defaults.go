package config

import (
	"time"

	"github.com/clepord34/pawres/internal/crypto"
	"github.com/clepord34/pawres/internal/validators"
)

const (
	DefaultHTTPAddress       = "localhost:8080"
	DefaultGoogleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

	DefaultAdminEmail    = "admin@gmail.com"
	DefaultAdminPassword = "Admin@123"
	DefaultAdminName     = "Admin User"

	DefaultMaxFailedLoginAttempts = 5
	DefaultLockoutDuration        = 15 * time.Minute
	DefaultSessionTimeout         = 30 * time.Minute
)

// defaultConfig is the lowest-priority layer of the merge.
func defaultConfig() *StructuredConfig {
	history := validators.DefaultPasswordHistoryCount

	return &StructuredConfig{
		App: App{
			Version:       "N/A",
			LogLevel:      "info",
			AdminEmail:    DefaultAdminEmail,
			AdminPassword: DefaultAdminPassword,
			AdminName:     DefaultAdminName,
			PhoneRegion:   validators.DefaultPhoneRegion,
		},
		Security: Security{
			PBKDF2Iterations:         crypto.DefaultIterations,
			SaltLength:               crypto.DefaultSaltLength,
			PasswordMinLength:        validators.DefaultMinPasswordLength,
			PasswordRequireUppercase: ptr(true),
			PasswordRequireLowercase: ptr(true),
			PasswordRequireDigit:     ptr(true),
			PasswordRequireSpecial:   ptr(true),
			PasswordHistoryCount:     &history,
			MaxFailedLoginAttempts:   DefaultMaxFailedLoginAttempts,
			LockoutDuration:          DefaultLockoutDuration,
			SessionTimeout:           DefaultSessionTimeout,
		},
		Storage: Storage{
			DB: DB{
				Driver: DriverSQLite,
				DSN:    "pawres.db",
			},
		},
		Server: Server{
			HTTPAddress:     DefaultHTTPAddress,
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			SecureCookie:    ptr(false),
			LoginRateLimit:  1,
			LoginRateBurst:  10,
		},
		OAuth: OAuth{
			GoogleUserInfoURL: DefaultGoogleUserInfoURL,
			RequestTimeout:    10 * time.Second,
		},
		Workers: Workers{
			SessionPurgeInterval: 5 * time.Minute,
			LimiterSweepInterval: 10 * time.Minute,
		},
	}
}

func ptr[T any](v T) *T {
	return &v
}

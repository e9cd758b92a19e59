package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] in the on-disk JSON layout.
type StructuredJSONConfig struct {
	App struct {
		Version       string `json:"version,omitempty"`
		LogLevel      string `json:"log_level,omitempty"`
		AdminEmail    string `json:"admin_email,omitempty"`
		AdminPassword string `json:"admin_password,omitempty"`
		AdminName     string `json:"admin_name,omitempty"`
		PhoneRegion   string `json:"phone_region,omitempty"`
	} `json:"app,omitempty"`

	Security struct {
		PBKDF2Iterations         int      `json:"pbkdf2_iterations,omitempty"`
		SaltLength               int      `json:"salt_length,omitempty"`
		PasswordMinLength        int      `json:"password_min_length,omitempty"`
		PasswordRequireUppercase *bool    `json:"password_require_uppercase,omitempty"`
		PasswordRequireLowercase *bool    `json:"password_require_lowercase,omitempty"`
		PasswordRequireDigit     *bool    `json:"password_require_digit,omitempty"`
		PasswordRequireSpecial   *bool    `json:"password_require_special,omitempty"`
		PasswordHistoryCount     *int     `json:"password_history_count,omitempty"`
		MaxFailedLoginAttempts   int      `json:"max_failed_login_attempts,omitempty"`
		LockoutDuration          Duration `json:"lockout_duration,omitempty"`
		SessionTimeout           Duration `json:"session_timeout,omitempty"`
	} `json:"security,omitempty"`

	Storage struct {
		DB struct {
			Driver string `json:"driver,omitempty"`
			DSN    string `json:"dsn,omitempty"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress     string   `json:"http_address,omitempty"`
		RequestTimeout  Duration `json:"request_timeout,omitempty"`
		ShutdownTimeout Duration `json:"shutdown_timeout,omitempty"`
		SecureCookie    *bool    `json:"secure_cookie,omitempty"`
		LoginRateLimit  float64  `json:"login_rate_limit,omitempty"`
		LoginRateBurst  int      `json:"login_rate_burst,omitempty"`
	} `json:"server,omitempty"`

	OAuth struct {
		GoogleUserInfoURL string   `json:"google_userinfo_url,omitempty"`
		RequestTimeout    Duration `json:"request_timeout,omitempty"`
	} `json:"oauth,omitempty"`

	Workers struct {
		SessionPurgeInterval Duration `json:"session_purge_interval,omitempty"`
		LimiterSweepInterval Duration `json:"limiter_sweep_interval,omitempty"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	sec := jsonCfg.Security
	cfg := &StructuredConfig{
		App: App{
			Version:       jsonCfg.App.Version,
			LogLevel:      jsonCfg.App.LogLevel,
			AdminEmail:    jsonCfg.App.AdminEmail,
			AdminPassword: jsonCfg.App.AdminPassword,
			AdminName:     jsonCfg.App.AdminName,
			PhoneRegion:   jsonCfg.App.PhoneRegion,
		},
		Security: Security{
			PBKDF2Iterations:         sec.PBKDF2Iterations,
			SaltLength:               sec.SaltLength,
			PasswordMinLength:        sec.PasswordMinLength,
			PasswordRequireUppercase: sec.PasswordRequireUppercase,
			PasswordRequireLowercase: sec.PasswordRequireLowercase,
			PasswordRequireDigit:     sec.PasswordRequireDigit,
			PasswordRequireSpecial:   sec.PasswordRequireSpecial,
			PasswordHistoryCount:     sec.PasswordHistoryCount,
			MaxFailedLoginAttempts:   sec.MaxFailedLoginAttempts,
			LockoutDuration:          time.Duration(sec.LockoutDuration),
			SessionTimeout:           time.Duration(sec.SessionTimeout),
		},
		Storage: Storage{
			DB: DB{
				Driver: jsonCfg.Storage.DB.Driver,
				DSN:    jsonCfg.Storage.DB.DSN,
			},
		},
		Server: Server{
			HTTPAddress:     jsonCfg.Server.HTTPAddress,
			RequestTimeout:  time.Duration(jsonCfg.Server.RequestTimeout),
			ShutdownTimeout: time.Duration(jsonCfg.Server.ShutdownTimeout),
			SecureCookie:    jsonCfg.Server.SecureCookie,
			LoginRateLimit:  jsonCfg.Server.LoginRateLimit,
			LoginRateBurst:  jsonCfg.Server.LoginRateBurst,
		},
		OAuth: OAuth{
			GoogleUserInfoURL: jsonCfg.OAuth.GoogleUserInfoURL,
			RequestTimeout:    time.Duration(jsonCfg.OAuth.RequestTimeout),
		},
		Workers: Workers{
			SessionPurgeInterval: time.Duration(jsonCfg.Workers.SessionPurgeInterval),
			LimiterSweepInterval: time.Duration(jsonCfg.Workers.LimiterSweepInterval),
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

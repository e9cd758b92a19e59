package config

import (
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func writeTempJSONConfig(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	f, err := os.CreateTemp(t.TempDir(), "config-*.json")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func resetFlags(t *testing.T, args ...string) {
	t.Helper()
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)

	oldArgs := os.Args
	os.Args = append([]string{"cmd"}, args...)
	t.Cleanup(func() { os.Args = oldArgs })
}

// ── newConfigBuilder ──────────────────────────────────────────────────────────

// TestNewConfigBuilder_InitialState verifies that a freshly created builder
// has no error and an empty configs slice.
func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

// ── build ─────────────────────────────────────────────────────────────────────

// TestBuild_EmptyBuilder verifies that an empty merge fails validation.
func TestBuild_EmptyBuilder(t *testing.T) {
	cfg, err := newConfigBuilder().build()
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrInvalidAppConfigs)
}

// TestBuild_DefaultsOnly verifies that the defaults alone form a valid config.
func TestBuild_DefaultsOnly(t *testing.T) {
	cfg, err := newConfigBuilder().withDefaults().build()
	require.NoError(t, err)

	assert.Equal(t, DefaultAdminEmail, cfg.App.AdminEmail)
	assert.Equal(t, 5, cfg.Security.MaxFailedLoginAttempts)
	assert.Equal(t, 15*time.Minute, cfg.Security.LockoutDuration)
	assert.Equal(t, 30*time.Minute, cfg.Security.SessionTimeout)
	assert.Equal(t, DriverSQLite, cfg.Storage.DB.Driver)

	policy := cfg.Security.PolicyConfig()
	assert.Equal(t, 8, policy.MinLength)
	assert.True(t, policy.RequireSpecial)
	assert.Equal(t, 5, policy.HistoryCount)
}

// TestBuild_PropagatesBuilderError verifies that a pre-set b.err is wrapped
// and returned, with nil config.
func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

// TestBuild_LaterLayerWins verifies that non-zero fields of later layers
// override earlier ones while zero fields keep earlier values.
func TestBuild_LaterLayerWins(t *testing.T) {
	b := newConfigBuilder().withDefaults()
	b.configs = append(b.configs,
		&StructuredConfig{App: App{Version: "1.0.0"}},
		&StructuredConfig{App: App{Version: "2.0.0"}, Security: Security{SessionTimeout: time.Minute}},
	)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", cfg.App.Version)
	assert.Equal(t, time.Minute, cfg.Security.SessionTimeout)
	assert.Equal(t, 15*time.Minute, cfg.Security.LockoutDuration)
}

// TestBuild_FalseTogglesOverrideDefaults verifies that an explicit false
// disables a rule that is enabled by default.
func TestBuild_FalseTogglesOverrideDefaults(t *testing.T) {
	history := 0
	b := newConfigBuilder().withDefaults()
	b.configs = append(b.configs, &StructuredConfig{Security: Security{
		PasswordRequireSpecial: ptr(false),
		PasswordHistoryCount:   &history,
	}})

	cfg, err := b.build()
	require.NoError(t, err)

	policy := cfg.Security.PolicyConfig()
	assert.False(t, policy.RequireSpecial)
	assert.True(t, policy.RequireUppercase)
	assert.Zero(t, policy.HistoryCount)

	// дефолты не должны мутировать
	assert.True(t, *defaultConfig().Security.PasswordRequireSpecial)
}

// ── withDotEnv ────────────────────────────────────────────────────────────────

// TestWithDotEnv_LoadsFileWithoutOverriding verifies that the .env file fills
// unset variables and leaves already exported ones alone.
func TestWithDotEnv_LoadsFileWithoutOverriding(t *testing.T) {
	clearEnvVars(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("APP_VERSION=from-dotenv\nSERVER_ADDRESS=127.0.0.1:9000\n"), 0o600))

	t.Setenv("DOTENV", path)
	t.Setenv("SERVER_ADDRESS", "localhost:7000")
	t.Cleanup(func() { _ = os.Unsetenv("APP_VERSION") })

	b := newConfigBuilder().withDotEnv().withEnv()
	require.NoError(t, b.err)
	require.Len(t, b.configs, 1)

	assert.Equal(t, "from-dotenv", b.configs[0].App.Version)
	assert.Equal(t, "localhost:7000", b.configs[0].Server.HTTPAddress)
}

// TestWithDotEnv_MissingFileIsIgnored verifies that an absent file is not an error.
func TestWithDotEnv_MissingFileIsIgnored(t *testing.T) {
	t.Setenv("DOTENV", filepath.Join(t.TempDir(), "absent.env"))

	b := newConfigBuilder().withDotEnv()
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

// ── withEnv ───────────────────────────────────────────────────────────────────

// TestWithEnv_ReturnsBuilder verifies the fluent interface.
func TestWithEnv_ReturnsBuilder(t *testing.T) {
	b := newConfigBuilder()
	assert.Same(t, b, b.withEnv())
}

// TestWithEnv_ReadsEnvVars verifies that environment variables are picked up.
func TestWithEnv_ReadsEnvVars(t *testing.T) {
	setEnvVars(t, map[string]string{
		"APP_VERSION":              "env-version",
		"SECURITY_SESSION_TIMEOUT": "45m",
	})

	b := newConfigBuilder()
	b.withEnv()

	require.Len(t, b.configs, 1)
	assert.Equal(t, "env-version", b.configs[0].App.Version)
	assert.Equal(t, 45*time.Minute, b.configs[0].Security.SessionTimeout)
}

// TestWithEnv_SetsErrorOnBadValue verifies that conversion failures are kept.
func TestWithEnv_SetsErrorOnBadValue(t *testing.T) {
	setEnvVars(t, map[string]string{"SECURITY_LOCKOUT_DURATION": "soon"})

	b := newConfigBuilder().withEnv()
	assert.Error(t, b.err)
	assert.Empty(t, b.configs)
}

// ── withFlags ─────────────────────────────────────────────────────────────────

// TestWithFlags_ReturnsBuilder verifies the fluent interface.
func TestWithFlags_ReturnsBuilder(t *testing.T) {
	resetFlags(t)
	b := newConfigBuilder()
	assert.Same(t, b, b.withFlags())
}

// TestWithFlags_KeepsParseError verifies that a bad flag fails the build.
func TestWithFlags_KeepsParseError(t *testing.T) {
	resetFlags(t, "-max-failed-attempts", "many")

	b := newConfigBuilder().withFlags()
	assert.Error(t, b.err)
	assert.Empty(t, b.configs)
}

// ── withJSON ──────────────────────────────────────────────────────────────────

// TestWithJSON_NoOp_WhenNoPathSet verifies that withJSON does nothing when
// no config has a JSONFilePath.
func TestWithJSON_NoOp_WhenNoPathSet(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{})
	b.withJSON()

	assert.Len(t, b.configs, 1)
	assert.NoError(t, b.err)
}

// TestWithJSON_AppendsConfig_WhenValidFile verifies that a valid JSON file is
// parsed and appended.
func TestWithJSON_AppendsConfig_WhenValidFile(t *testing.T) {
	payload := StructuredJSONConfig{}
	payload.App.Version = "json-version"
	payload.Storage.DB.Driver = DriverPostgres
	path := writeTempJSONConfig(t, payload)

	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: path})
	b.withJSON()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 2)
	assert.Equal(t, "json-version", b.configs[1].App.Version)
	assert.Equal(t, DriverPostgres, b.configs[1].Storage.DB.Driver)
}

// TestWithJSON_SetsError_WhenFileNotFound verifies that a missing file path
// sets b.err.
func TestWithJSON_SetsError_WhenFileNotFound(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{
		JSONFilePath: "/nonexistent/config.json",
	})
	b.withJSON()

	assert.Error(t, b.err)
}

// TestWithJSON_UsesLastPath verifies that when multiple configs have a
// JSONFilePath, the last non-empty one wins.
func TestWithJSON_UsesLastPath(t *testing.T) {
	payload := StructuredJSONConfig{}
	payload.App.Version = "last-wins"
	path := writeTempJSONConfig(t, payload)

	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{JSONFilePath: "/nonexistent/first.json"},
		&StructuredConfig{JSONFilePath: path},
	)
	b.withJSON()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 3)
	assert.Equal(t, "last-wins", b.configs[2].App.Version)
}

// ── GetStructuredConfig ───────────────────────────────────────────────────────

// TestGetStructuredConfig_Layering verifies the full priority chain:
// defaults < env < flags < json.
func TestGetStructuredConfig_Layering(t *testing.T) {
	payload := StructuredJSONConfig{}
	payload.Security.LockoutDuration = Duration(20 * time.Minute)
	path := writeTempJSONConfig(t, payload)

	setEnvVars(t, map[string]string{
		"DOTENV":                   filepath.Join(t.TempDir(), "absent.env"),
		"SECURITY_LOCKOUT_DURATION": "1m",
		"SECURITY_SESSION_TIMEOUT":  "2m",
		"SERVER_ADDRESS":            "localhost:7000",
		"CONFIG":                    path,
	})
	resetFlags(t, "-a", "127.0.0.1:9999")

	cfg, err := GetStructuredConfig()
	require.NoError(t, err)

	assert.Equal(t, 20*time.Minute, cfg.Security.LockoutDuration)
	assert.Equal(t, 2*time.Minute, cfg.Security.SessionTimeout)
	assert.Equal(t, "127.0.0.1:9999", cfg.Server.HTTPAddress)
	assert.Equal(t, DefaultAdminEmail, cfg.App.AdminEmail)
}

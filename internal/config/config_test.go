package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lingua/cli/internal/locale"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvAPIURL, EnvAuthPath, EnvLocale, EnvLogLevel, EnvVerifyInterval} {
		t.Setenv(k, "")
	}
}

func TestLoadFrom_MissingFileYieldsDefaults(t *testing.T) {
	clearEnv(t)

	c, err := LoadFrom(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), c)
}

func TestLoadFrom_FileThenEnv(t *testing.T) {
	clearEnv(t)
	p := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(p, []byte(`{
		"api_base_url": "https://staging.lingua.app/",
		"auth_path": "auth/",
		"locale": "ru-RU",
		"verify_interval": "90s"
	}`), 0o600))

	c, err := LoadFrom(p)
	require.NoError(t, err)
	assert.Equal(t, "https://staging.lingua.app", c.APIBaseURL)
	assert.Equal(t, "/auth", c.AuthPath)
	assert.Equal(t, locale.Russian, c.Locale)
	assert.Equal(t, Duration(90*time.Second), c.VerifyInterval)
	assert.Equal(t, "info", c.LogLevel)

	t.Setenv(EnvAPIURL, "http://localhost:8000")
	t.Setenv(EnvLocale, "en")
	t.Setenv(EnvVerifyInterval, "1m")

	c, err = LoadFrom(p)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", c.APIBaseURL)
	assert.Equal(t, locale.English, c.Locale)
	assert.Equal(t, Duration(time.Minute), c.VerifyInterval)
}

func TestLoadFrom_InvalidInputs(t *testing.T) {
	clearEnv(t)
	p := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(p, []byte(`{not json`), 0o600))

	_, err := LoadFrom(p)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(p, []byte(`{}`), 0o600))
	t.Setenv(EnvVerifyInterval, "soon")
	_, err = LoadFrom(p)
	assert.Error(t, err)
}

func TestLoadFrom_UnsupportedLocaleFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvLocale, "de")

	c, err := LoadFrom(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, locale.Default, c.Locale)
}

func TestSaveTo_RoundTripsWithPrivatePermissions(t *testing.T) {
	clearEnv(t)
	p := filepath.Join(t.TempDir(), "config.json")
	want := Defaults()
	want.Locale = locale.Russian
	want.VerifyInterval = Duration(2 * time.Minute)

	require.NoError(t, SaveTo(p, want))

	info, err := os.Stat(p)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := LoadFrom(p)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestUpdateAt_IgnoresEnvironment(t *testing.T) {
	clearEnv(t)
	p := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"api_base_url":"https://staging.lingua.app"}`), 0o600))
	t.Setenv(EnvAPIURL, "http://localhost:8000")

	c, err := UpdateAt(p, func(c *Config) { c.Locale = locale.Russian })
	require.NoError(t, err)
	assert.Equal(t, locale.Russian, c.Locale)
	assert.Equal(t, "https://staging.lingua.app", c.APIBaseURL)

	t.Setenv(EnvAPIURL, "")
	got, err := LoadFrom(p)
	require.NoError(t, err)
	assert.Equal(t, "https://staging.lingua.app", got.APIBaseURL)
	assert.Equal(t, locale.Russian, got.Locale)
}

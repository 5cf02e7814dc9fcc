// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; tokens and the cached profile go to the
// OS keychain. The locale preference lives here because it is a display setting
// that must survive logout.
//
// Precedence, lowest first: built-in defaults, config.json, a .env file in the
// working directory, process environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"lingua/cli/internal/locale"
	"lingua/cli/internal/xdg"
)

// Environment variables that override file values.
const (
	EnvAPIURL         = "LINGUA_API_URL"
	EnvAuthPath       = "LINGUA_AUTH_PATH"
	EnvLocale         = "LINGUA_LOCALE"
	EnvLogLevel       = "LINGUA_LOG_LEVEL"
	EnvVerifyInterval = "LINGUA_VERIFY_INTERVAL"
)

const (
	DefaultAPIBaseURL     = "https://api.lingua.app"
	DefaultAuthPath       = "/api/auth"
	DefaultVerifyInterval = 5 * time.Minute
)

// Config holds non-sensitive CLI settings.
type Config struct {
	APIBaseURL     string        `json:"api_base_url"`
	AuthPath       string        `json:"auth_path"`
	Locale         locale.Locale `json:"locale"`
	LogLevel       string        `json:"log_level"`
	VerifyInterval Duration      `json:"verify_interval"`
}

// Duration is a time.Duration that reads and writes as "5m" in JSON.
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		*d = Duration(v)
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("verify_interval: want duration string or nanoseconds: %w", err)
	}
	*d = Duration(n)
	return nil
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		APIBaseURL:     DefaultAPIBaseURL,
		AuthPath:       DefaultAuthPath,
		Locale:         locale.Default,
		LogLevel:       "info",
		VerifyInterval: Duration(DefaultVerifyInterval),
	}
}

// Path returns the path to the config file.
func Path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration from the default path; a missing file yields defaults.
func Load() (Config, error) {
	p, err := Path()
	if err != nil {
		return Defaults(), err
	}
	// .env never overrides variables that are already set.
	_ = godotenv.Load()
	return LoadFrom(p)
}

// LoadFrom reads the file at p on top of defaults, then applies environment overrides.
func LoadFrom(p string) (Config, error) {
	c, err := readFile(p)
	if err != nil {
		return c, err
	}
	if err := applyEnv(&c); err != nil {
		return c, err
	}
	c.normalize()
	return c, nil
}

// readFile returns defaults overlaid with the file at p, if it exists.
func readFile(p string) (Config, error) {
	c := Defaults()
	data, err := os.ReadFile(p)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return c, err
	default:
		if err := json.Unmarshal(data, &c); err != nil {
			return c, fmt.Errorf("parse %s: %w", p, err)
		}
	}
	return c, nil
}

func applyEnv(c *Config) error {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.APIBaseURL = v
	}
	if v := os.Getenv(EnvAuthPath); v != "" {
		c.AuthPath = v
	}
	if v := os.Getenv(EnvLocale); v != "" {
		c.Locale = locale.Locale(v)
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvVerifyInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvVerifyInterval, err)
		}
		c.VerifyInterval = Duration(d)
	}
	return nil
}

func (c *Config) normalize() {
	c.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.APIBaseURL), "/")
	if c.APIBaseURL == "" {
		c.APIBaseURL = DefaultAPIBaseURL
	}
	c.AuthPath = "/" + strings.Trim(strings.TrimSpace(c.AuthPath), "/")
	if c.AuthPath == "/" {
		c.AuthPath = DefaultAuthPath
	}
	l, _ := locale.Parse(string(c.Locale))
	c.Locale = l
	if c.VerifyInterval <= 0 {
		c.VerifyInterval = Duration(DefaultVerifyInterval)
	}
}

// Update applies fn to the configuration stored in the default file and saves
// it. Environment overrides are not written back.
func Update(fn func(*Config)) (Config, error) {
	p, err := Path()
	if err != nil {
		return Config{}, err
	}
	return UpdateAt(p, fn)
}

// UpdateAt is Update for the file at p.
func UpdateAt(p string, fn func(*Config)) (Config, error) {
	c, err := readFile(p)
	if err != nil {
		return c, err
	}
	fn(&c)
	c.normalize()
	return c, SaveTo(p, c)
}

// SaveTo writes configuration to p with 0600 permissions.
func SaveTo(p string, c Config) error {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

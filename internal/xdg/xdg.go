// Package xdg resolves the XDG Base Directory locations used by lingua.
// Non-secret settings live under the config directory; the encrypted file
// keyring used on hosts without a native credential store lives under state.
package xdg

import (
	"os"
	"path/filepath"
)

// AppName is the directory name used under every XDG base.
const AppName = "lingua"

// ConfigDir returns $XDG_CONFIG_HOME/lingua (default ~/.config/lingua), creating it 0700.
func ConfigDir() (string, error) {
	return ensure("XDG_CONFIG_HOME", ".config")
}

// StateDir returns $XDG_STATE_HOME/lingua (default ~/.local/state/lingua), creating it 0700.
func StateDir() (string, error) {
	return ensure("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func ensure(env, fallback string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, fallback)
	}
	dir := filepath.Join(base, AppName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

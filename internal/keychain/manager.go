// Copyright (c) 2025 Lingua
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain is the durable credential store for lingua: the access/refresh
// token pair and the cached user profile, kept in the OS keychain (or an encrypted
// file keyring on hosts without one) so the session survives restarts.
//
// The token pair is only ever written or removed as a whole, under the manager's
// write lock. RotateTokens is a compare-and-swap on the refresh token so a refresh
// that finishes after a logout cannot bring the cleared session back.
package keychain

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/99designs/keyring"

	"lingua/cli/internal/profile"
	"lingua/cli/internal/xdg"
)

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "lingua"

// Keys used for storing secrets in the keyring.
const (
	KeyAccessToken  = "auth_access_token"
	KeyRefreshToken = "auth_refresh_token"
	KeyProfile      = "user_profile"
)

// EnvPassphrase unlocks the file keyring backend.
const EnvPassphrase = "LINGUA_KEYRING_PASSPHRASE"

// ErrSessionChanged is returned by RotateTokens when the stored refresh token is no
// longer the one that was exchanged (logout or another refresh happened meanwhile).
var ErrSessionChanged = errors.New("session changed during refresh")

// Manager provides thread-safe access to the credential slots.
type Manager struct {
	mu   sync.RWMutex
	ring keyring.Keyring

	obsMu     sync.Mutex
	observers []observer
	nextObsID int
}

type observer struct {
	id int
	fn func(*profile.Profile)
}

// NewManager wraps an already opened keyring. Tests pass keyring.NewArrayKeyring(nil).
func NewManager(ring keyring.Keyring) *Manager {
	return &Manager{ring: ring}
}

// Open opens the platform keyring and returns a Manager over it.
func Open() (*Manager, error) {
	ring, err := openRing()
	if err != nil {
		return nil, err
	}
	return NewManager(ring), nil
}

// openRing prefers the native store of each platform and falls back to an
// encrypted file under the XDG state dir on Linux and other Unix hosts.
func openRing() (keyring.Keyring, error) {
	cfg := keyring.Config{
		ServiceName:             ServiceName,
		PassPrefix:              ServiceName,
		LibSecretCollectionName: ServiceName,
		KWalletAppID:            ServiceName,
		KWalletFolder:           ServiceName,
	}

	switch runtime.GOOS {
	case "darwin":
		cfg.AllowedBackends = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		cfg.AllowedBackends = []keyring.BackendType{keyring.WinCredBackend}
		cfg.WinCredPrefix = ServiceName
	default:
		state, err := xdg.StateDir()
		if err != nil {
			return nil, err
		}
		cfg.AllowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		}
		cfg.FileDir = filepath.Join(state, "keyring")
		cfg.FilePasswordFunc = keyring.FixedStringPrompt(filePassphrase())
	}

	return keyring.Open(cfg)
}

func filePassphrase() string {
	if p := os.Getenv(EnvPassphrase); p != "" {
		return p
	}
	if u, err := os.UserHomeDir(); err == nil {
		return ServiceName + ":" + u
	}
	return ServiceName
}

// AccessToken returns the stored access token, or "" when there is none.
func (m *Manager) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.get(KeyAccessToken)
}

// RefreshToken returns the stored refresh token, or "" when there is none.
func (m *Manager) RefreshToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.get(KeyRefreshToken)
}

// Tokens returns both tokens from a single consistent read.
func (m *Manager) Tokens() (access, refresh string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.get(KeyAccessToken), m.get(KeyRefreshToken)
}

func (m *Manager) get(key string) string {
	it, err := m.ring.Get(key)
	if err != nil {
		return ""
	}
	return string(it.Data)
}

// SaveTokens replaces the stored pair. An empty refresh token removes the slot.
func (m *Manager) SaveTokens(access, refresh string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveTokens(access, refresh)
}

// RotateTokens stores a pair minted from usedRefresh, but only if usedRefresh is
// still the stored refresh token. An empty refresh keeps the current one.
func (m *Manager) RotateTokens(usedRefresh, access, refresh string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.get(KeyRefreshToken)
	if current == "" || current != usedRefresh {
		return ErrSessionChanged
	}
	if refresh == "" {
		refresh = current
	}
	return m.saveTokens(access, refresh)
}

// saveTokens writes both slots. If the refresh slot cannot be written, the
// previous access token is put back so the stored pair never mixes sessions.
func (m *Manager) saveTokens(access, refresh string) error {
	if access == "" {
		return errors.New("empty access token")
	}
	prev := m.get(KeyAccessToken)
	if err := m.setAccess(access); err != nil {
		return err
	}

	var err error
	if refresh == "" {
		err = m.remove(KeyRefreshToken)
	} else {
		err = m.ring.Set(keyring.Item{Key: KeyRefreshToken, Data: []byte(refresh), Label: "lingua refresh token"})
	}
	if err == nil {
		return nil
	}

	var rollback error
	if prev == "" {
		rollback = m.remove(KeyAccessToken)
	} else {
		rollback = m.setAccess(prev)
	}
	if rollback != nil {
		// The slots can no longer be trusted as a pair.
		_ = m.remove(KeyAccessToken)
		_ = m.remove(KeyRefreshToken)
	}
	return errors.Join(err, rollback)
}

func (m *Manager) setAccess(access string) error {
	return m.ring.Set(keyring.Item{Key: KeyAccessToken, Data: []byte(access), Label: "lingua access token"})
}

// Profile returns the cached profile; (nil, nil) when nothing is cached.
func (m *Manager) Profile() (*profile.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	it, err := m.ring.Get(KeyProfile)
	if errors.Is(err, keyring.ErrKeyNotFound) || (err == nil && len(it.Data) == 0) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var p profile.Profile
	if err := json.Unmarshal(it.Data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SaveProfile overwrites the cached profile and notifies observers.
func (m *Manager) SaveProfile(p *profile.Profile) error {
	if p == nil {
		return errors.New("nil profile")
	}
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}

	m.mu.Lock()
	err = m.ring.Set(keyring.Item{Key: KeyProfile, Data: data, Label: "lingua profile"})
	m.mu.Unlock()
	if err != nil {
		return err
	}

	m.notify(p)
	return nil
}

// Clear removes the token pair and the cached profile. It is idempotent.
// Observers receive nil when a profile had been cached.
func (m *Manager) Clear() error {
	m.mu.Lock()
	_, profErr := m.ring.Get(KeyProfile)
	hadProfile := profErr == nil
	var errs []error
	for _, k := range []string{KeyAccessToken, KeyRefreshToken, KeyProfile} {
		if err := m.remove(k); err != nil {
			errs = append(errs, err)
		}
	}
	m.mu.Unlock()

	if hadProfile {
		m.notify(nil)
	}
	return errors.Join(errs...)
}

func (m *Manager) remove(key string) error {
	err := m.ring.Remove(key)
	if err == nil || errors.Is(err, keyring.ErrKeyNotFound) || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// OnProfileChanged registers fn to run after every profile overwrite or clear.
// Callbacks run synchronously on the writer's goroutine, in registration order,
// without the store lock held. The returned func unsubscribes.
func (m *Manager) OnProfileChanged(fn func(*profile.Profile)) (unsubscribe func()) {
	m.obsMu.Lock()
	defer m.obsMu.Unlock()

	m.nextObsID++
	id := m.nextObsID
	m.observers = append(m.observers, observer{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			m.obsMu.Lock()
			defer m.obsMu.Unlock()
			for i, o := range m.observers {
				if o.id == id {
					m.observers = append(m.observers[:i:i], m.observers[i+1:]...)
					return
				}
			}
		})
	}
}

func (m *Manager) notify(p *profile.Profile) {
	m.obsMu.Lock()
	fns := make([]func(*profile.Profile), 0, len(m.observers))
	for _, o := range m.observers {
		fns = append(fns, o.fn)
	}
	m.obsMu.Unlock()

	for _, fn := range fns {
		fn(p)
	}
}

package keychain

import (
	"errors"
	"sync"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lingua/cli/internal/profile"
)

func newTestManager() *Manager {
	return NewManager(keyring.NewArrayKeyring(nil))
}

func TestManager_EmptyStoreNeverFails(t *testing.T) {
	m := newTestManager()

	assert.Empty(t, m.AccessToken())
	assert.Empty(t, m.RefreshToken())
	p, err := m.Profile()
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestManager_SaveTokensOverwritesPair(t *testing.T) {
	m := newTestManager()

	require.NoError(t, m.SaveTokens("A1", "R1"))
	require.NoError(t, m.SaveTokens("A2", "R2"))

	access, refresh := m.Tokens()
	assert.Equal(t, "A2", access)
	assert.Equal(t, "R2", refresh)

	require.NoError(t, m.SaveTokens("A3", ""))
	assert.Equal(t, "A3", m.AccessToken())
	assert.Empty(t, m.RefreshToken())

	assert.Error(t, m.SaveTokens("", "R9"))
}

func TestManager_RotateTokens(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.SaveTokens("A1", "R1"))

	t.Run("keeps refresh token when none issued", func(t *testing.T) {
		require.NoError(t, m.RotateTokens("R1", "A2", ""))
		access, refresh := m.Tokens()
		assert.Equal(t, "A2", access)
		assert.Equal(t, "R1", refresh)
	})

	t.Run("replaces refresh token when issued", func(t *testing.T) {
		require.NoError(t, m.RotateTokens("R1", "A3", "R2"))
		access, refresh := m.Tokens()
		assert.Equal(t, "A3", access)
		assert.Equal(t, "R2", refresh)
	})

	t.Run("rejects stale refresh token", func(t *testing.T) {
		assert.ErrorIs(t, m.RotateTokens("R1", "A4", ""), ErrSessionChanged)
		assert.Equal(t, "A3", m.AccessToken())
	})

	t.Run("does not resurrect a cleared session", func(t *testing.T) {
		require.NoError(t, m.Clear())
		assert.ErrorIs(t, m.RotateTokens("R2", "A5", "R5"), ErrSessionChanged)
		assert.Empty(t, m.AccessToken())
		assert.Empty(t, m.RefreshToken())
	})
}

func TestManager_ProfileRoundTrip(t *testing.T) {
	m := newTestManager()
	want := &profile.Profile{ID: "42", DisplayName: "Timur", IsPremium: true}

	require.NoError(t, m.SaveProfile(want))
	got, err := m.Profile()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	assert.Error(t, m.SaveProfile(nil))
}

func TestManager_ClearRemovesEverythingAndIsIdempotent(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.SaveTokens("A1", "R1"))
	require.NoError(t, m.SaveProfile(&profile.Profile{ID: "1"}))

	require.NoError(t, m.Clear())
	require.NoError(t, m.Clear())

	assert.Empty(t, m.AccessToken())
	assert.Empty(t, m.RefreshToken())
	p, err := m.Profile()
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestManager_ProfileObservers(t *testing.T) {
	m := newTestManager()

	var first, second []*profile.Profile
	unsubscribeFirst := m.OnProfileChanged(func(p *profile.Profile) { first = append(first, p) })
	m.OnProfileChanged(func(p *profile.Profile) { second = append(second, p) })

	p1 := &profile.Profile{ID: "1"}
	require.NoError(t, m.SaveProfile(p1))

	unsubscribeFirst()
	unsubscribeFirst()

	require.NoError(t, m.Clear())
	// Nothing cached any more: clearing again does not notify.
	require.NoError(t, m.Clear())

	assert.Equal(t, []*profile.Profile{p1}, first)
	assert.Equal(t, []*profile.Profile{p1, nil}, second)
}

func TestManager_ObserverMayReadStore(t *testing.T) {
	m := newTestManager()
	var seen *profile.Profile
	m.OnProfileChanged(func(*profile.Profile) {
		seen, _ = m.Profile()
	})

	require.NoError(t, m.SaveProfile(&profile.Profile{ID: "7"}))
	require.NotNil(t, seen)
	assert.Equal(t, "7", seen.ID)
}

func TestManager_ConcurrentWritesKeepPairConsistent(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.SaveTokens("A0", "R0"))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = m.SaveTokens("A", "R")
		}()
		go func() {
			defer wg.Done()
			_ = m.Clear()
		}()
	}
	wg.Wait()

	access, refresh := m.Tokens()
	if access == "" {
		assert.Empty(t, refresh)
	} else {
		assert.Equal(t, "A", access)
		assert.Equal(t, "R", refresh)
	}
}

// refreshSlotBroken fails every write and removal of the refresh slot.
type refreshSlotBroken struct {
	keyring.Keyring
}

func (r refreshSlotBroken) Set(it keyring.Item) error {
	if it.Key == KeyRefreshToken {
		return errors.New("keychain write denied")
	}
	return r.Keyring.Set(it)
}

func (r refreshSlotBroken) Remove(key string) error {
	if key == KeyRefreshToken {
		return errors.New("keychain write denied")
	}
	return r.Keyring.Remove(key)
}

func TestManager_FailedRefreshWriteRestoresAccess(t *testing.T) {
	ring := keyring.NewArrayKeyring(nil)
	require.NoError(t, ring.Set(keyring.Item{Key: KeyAccessToken, Data: []byte("A1")}))
	require.NoError(t, ring.Set(keyring.Item{Key: KeyRefreshToken, Data: []byte("R1")}))
	m := NewManager(refreshSlotBroken{Keyring: ring})

	require.Error(t, m.SaveTokens("A2", "R2"))
	access, refresh := m.Tokens()
	assert.Equal(t, "A1", access)
	assert.Equal(t, "R1", refresh)

	require.Error(t, m.SaveTokens("A3", ""))
	assert.Equal(t, "A1", m.AccessToken())
}

func TestManager_FailedRefreshWriteOnEmptyStoreLeavesNoAccess(t *testing.T) {
	m := NewManager(refreshSlotBroken{Keyring: keyring.NewArrayKeyring(nil)})

	require.Error(t, m.SaveTokens("A1", "R1"))
	assert.Empty(t, m.AccessToken())
}

package cmd

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lingua/cli/internal/config"
	"lingua/cli/internal/keychain"
)

const sessionEnded = "Your session has ended."

// runCLI executes args against an API served by handler, with store as the
// credential store.
func runCLI(t *testing.T, store *keychain.Manager, handler http.HandlerFunc, args ...string) (string, error) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(config.EnvAPIURL, srv.URL)
	t.Setenv(config.EnvAuthPath, "/api/auth")
	t.Setenv(config.EnvLogLevel, "off")

	prev := openStore
	openStore = func() (*keychain.Manager, error) { return store, nil }
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		openStore = prev
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func signedInStore(t *testing.T) *keychain.Manager {
	t.Helper()
	store := keychain.NewManager(keyring.NewArrayKeyring(nil))
	require.NoError(t, store.SaveTokens("A1", "R1"))
	return store
}

func TestLessonCmd_RejectedRefreshLandsOnce(t *testing.T) {
	store := signedInStore(t)
	out, err := runCLI(t, store, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, "lesson", "5")

	require.ErrorIs(t, err, errReported)
	assert.Equal(t, 1, strings.Count(out, sessionEnded))
	assert.NotContains(t, out, "not logged in")
	access, refresh := store.Tokens()
	assert.Empty(t, access)
	assert.Empty(t, refresh)
}

func TestLessonCmd_RejectedRetrySignsOut(t *testing.T) {
	store := signedInStore(t)
	var lessonCalls atomic.Int32
	out, err := runCLI(t, store, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/refresh/" {
			_, _ = io.WriteString(w, `{"access":"A2"}`)
			return
		}
		lessonCalls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}, "lesson", "5")

	require.ErrorIs(t, err, errReported)
	assert.Equal(t, int32(2), lessonCalls.Load())
	assert.Equal(t, 1, strings.Count(out, sessionEnded))
	access, refresh := store.Tokens()
	assert.Empty(t, access)
	assert.Empty(t, refresh)
}

func TestLessonCmd_ServerErrorKeepsSession(t *testing.T) {
	store := signedInStore(t)
	out, err := runCLI(t, store, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}, "lesson", "5")

	require.ErrorIs(t, err, errReported)
	assert.Contains(t, out, "Server error while loading lesson 5")
	assert.NotContains(t, out, sessionEnded)
	assert.Equal(t, "A1", store.AccessToken())
}

func TestWhoamiCmd_RejectedRetrySignsOut(t *testing.T) {
	store := signedInStore(t)
	out, err := runCLI(t, store, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/refresh/" {
			_, _ = io.WriteString(w, `{"access":"A2","refresh":"R2"}`)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}, "whoami")

	require.ErrorIs(t, err, errReported)
	assert.Equal(t, 1, strings.Count(out, sessionEnded))
	assert.Empty(t, store.AccessToken())
}

func TestWhoamiCmd_NotLoggedInMakesNoCall(t *testing.T) {
	store := keychain.NewManager(keyring.NewArrayKeyring(nil))
	var calls atomic.Int32
	out, err := runCLI(t, store, func(http.ResponseWriter, *http.Request) { calls.Add(1) }, "whoami")

	require.NoError(t, err)
	assert.Contains(t, out, "not logged in")
	assert.Zero(t, calls.Load())
}

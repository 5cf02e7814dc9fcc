// Copyright (c) 2025 Lingua
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"lingua/cli/internal/auth"
	"lingua/cli/internal/backend"
	"lingua/cli/internal/config"
	errs "lingua/cli/internal/errors"
	"lingua/cli/internal/httperrors"
	"lingua/cli/internal/keychain"
	"lingua/cli/internal/locale"
	"lingua/cli/internal/logging"
	"lingua/cli/internal/profile"
	"lingua/cli/internal/resources"
	"lingua/cli/internal/session"
)

// errReported marks errors whose explanation was already printed.
var errReported = errors.New("reported")

// openStore opens the credential store; tests swap in an in-memory keyring.
var openStore = keychain.Open

// app is everything a command needs, built once per invocation.
type app struct {
	cfg       config.Config
	log       *pterm.Logger
	out       io.Writer
	store     *keychain.Manager
	endpoints auth.Endpoints
	client    *backend.Client
	teardown  *auth.Teardown
	verifier  *auth.Verifier
	auth      *auth.Service
	res       *resources.Service

	landOnce sync.Once
	landed   bool
}

func newApp(cmd *cobra.Command) (*app, error) {
	if verbose {
		_ = os.Setenv(logging.EnvVerbose, "1")
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	a := &app{
		cfg: cfg,
		log: logging.New(cfg.LogLevel, cmd.ErrOrStderr()),
		out: cmd.OutOrStdout(),
	}

	a.store, err = openStore()
	if err != nil {
		return nil, errs.Wrap(errs.Store, "open keychain", err)
	}
	a.store.OnProfileChanged(func(p *profile.Profile) {
		if p == nil {
			a.log.Debug("profile cache cleared")
			return
		}
		a.log.Debug("profile cache updated", a.log.Args("user", p.ID))
	})

	a.endpoints = auth.NewEndpoints(cfg.AuthPath)
	a.teardown = auth.NewTeardown(a.store, a.land, a.log)
	a.client = backend.New(a.store, backend.Options{
		BaseURL:     cfg.APIBaseURL,
		RefreshPath: a.endpoints.Refresh,
		Locale:      a.currentLocale,
		OnSignedOut: a.teardown.SignOut,
		Logger:      a.log,
	})
	a.verifier = auth.NewVerifier(a.client, a.store, a.teardown.SignOut, a.endpoints.Profile, time.Duration(cfg.VerifyInterval), a.log)
	a.auth = auth.NewService(a.client, a.store, a.endpoints, a.teardown, a.verifier, a.log)
	a.res = resources.New(a.client, a.store, a.endpoints.Profile)
	return a, nil
}

// currentLocale is read on every request so `lingua locale set` applies immediately.
func (a *app) currentLocale() locale.Locale {
	return a.cfg.Locale
}

// land is the unauthenticated entry view: the login hint.
func (a *app) land(_ context.Context, reason error) {
	if reason == nil {
		return
	}
	a.landOnce.Do(func() {
		a.landed = true
		fmt.Fprintln(a.out, "🔒 Your session has ended.")
		fmt.Fprintln(a.out, "   Run 'lingua login' to sign in again.")
	})
}

func (a *app) notLoggedIn() {
	fmt.Fprintln(a.out, "🔒 You're not logged in yet!")
	fmt.Fprintln(a.out, "   Run 'lingua login' to get started.")
}

// explain prints what the user can do about err and returns the error for the
// exit status.
func (a *app) explain(err error, action string) error {
	if err == nil {
		return nil
	}
	var apiErr *backend.APIError
	switch {
	case errs.IsKind(err, errs.SignedOut):
		// A 401 on the retried request leaves the refreshed pair in place.
		if session.IsAuthenticated(a.store) {
			a.teardown.SignOut(context.Background(), err)
		}
		if !a.landed {
			a.notLoggedIn()
		}
		return fmt.Errorf("%w: %v", errReported, err)
	case errs.IsKind(err, errs.Transport):
		_ = httperrors.FormatNetworkError(a.out, err, action, a.cfg.APIBaseURL)
		return fmt.Errorf("%w: %v", errReported, err)
	case errors.As(err, &apiErr) && httperrors.Classify(err) == httperrors.Server:
		_ = httperrors.FormatNetworkError(a.out, err, action, a.cfg.APIBaseURL)
		return fmt.Errorf("%w: %v", errReported, err)
	}
	return err
}

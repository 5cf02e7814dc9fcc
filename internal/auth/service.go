// Copyright (c) 2025 Lingua
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package auth provides the session lifecycle around the request client:
// email/password login, registration confirmation, logout and teardown, and the
// session verifier that re-checks a stored session against the profile endpoint.
// Tokens and the cached profile live in the OS keychain via internal/keychain.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pterm/pterm"

	"lingua/cli/internal/backend"
	errs "lingua/cli/internal/errors"
	"lingua/cli/internal/logging"
	"lingua/cli/internal/profile"
)

// ErrBadCredentials is returned when login or confirmation is rejected.
var ErrBadCredentials = errors.New("invalid credentials")

// Store is the credential store the service writes the session to.
// *keychain.Manager implements it.
type Store interface {
	ProfileStore
	Clearer
	SaveTokens(access, refresh string) error
}

// Service centralizes session operations against the API and the credential store.
type Service struct {
	client    *backend.Client
	store     Store
	endpoints Endpoints
	teardown  *Teardown
	verifier  *Verifier
	log       *pterm.Logger
}

// NewService wires a service. The client's SignedOutHandler is expected to be
// teardown.SignOut so that forced and manual logouts share one path.
func NewService(client *backend.Client, store Store, endpoints Endpoints, teardown *Teardown, verifier *Verifier, log *pterm.Logger) *Service {
	if log == nil {
		log = logging.Discard()
	}
	return &Service{
		client:    client,
		store:     store,
		endpoints: endpoints,
		teardown:  teardown,
		verifier:  verifier,
		log:       log,
	}
}

// Verifier returns the session verifier the service uses after login.
func (s *Service) Verifier() *Verifier { return s.verifier }

// Login exchanges email and password for a token pair and stores it.
// The returned profile is nil if the follow-up profile fetch failed; the
// session is still established in that case.
func (s *Service) Login(ctx context.Context, email, password string) (*profile.Profile, error) {
	return s.establish(ctx, s.endpoints.Login, map[string]string{
		"email":    email,
		"password": password,
	})
}

// ConfirmRegistration completes sign-up with the emailed code, which also logs the user in.
func (s *Service) ConfirmRegistration(ctx context.Context, email, code string) (*profile.Profile, error) {
	return s.establish(ctx, s.endpoints.ConfirmEmail, map[string]string{
		"email": email,
		"code":  code,
	})
}

func (s *Service) establish(ctx context.Context, path string, payload map[string]string) (*profile.Profile, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Public(ctx, &backend.Request{Method: http.MethodPost, Path: path, Body: body})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := backend.ReadError(resp)
		if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
			return nil, errors.Join(ErrBadCredentials, apiErr)
		}
		return nil, apiErr
	}

	pair, err := backend.DecodeTokenPair(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, err
	}

	// A previous user's cached profile must not outlive their session.
	if err := s.store.Clear(); err != nil {
		return nil, errs.Wrap(errs.Store, "clear previous session", err)
	}
	if err := s.store.SaveTokens(pair.Access, pair.Refresh); err != nil {
		return nil, errs.Wrap(errs.Store, "save tokens", err)
	}
	s.log.Info("signed in", s.log.Args("token", logging.Short(pair.Access)))

	p, err := s.verifier.Verify(ctx)
	if err != nil {
		if errs.IsKind(err, errs.SignedOut) {
			return nil, err
		}
		return nil, nil
	}
	return p, nil
}

// Logout clears the local session. There is no server-side logout endpoint:
// access tokens expire on their own and the refresh token is discarded here.
func (s *Service) Logout(ctx context.Context) error {
	return s.teardown.Run(ctx, nil)
}

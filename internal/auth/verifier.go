// Copyright (c) 2025 Lingua
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/pterm/pterm"
	"golang.org/x/time/rate"

	"lingua/cli/internal/backend"
	errs "lingua/cli/internal/errors"
	"lingua/cli/internal/logging"
	"lingua/cli/internal/profile"
	"lingua/cli/internal/session"
)

// ErrNotLoggedIn is returned by the verifier when no access token is stored.
var ErrNotLoggedIn = errs.New(errs.SignedOut, "not logged in")

// Getter issues authenticated GETs. *backend.Client implements it.
type Getter interface {
	Get(ctx context.Context, path string) (*http.Response, error)
}

// ProfileStore is what the verifier reads and writes in the credential store.
type ProfileStore interface {
	AccessToken() string
	SaveProfile(*profile.Profile) error
}

// DefaultRunInterval is used by Run when it is given a non-positive interval.
const DefaultRunInterval = 5 * time.Minute

// Verifier re-checks the session against the profile endpoint and refreshes the
// cached profile. A 401 that survives the request client's refresh ends the
// session; anything else leaves the cached profile as it was.
type Verifier struct {
	client  Getter
	store   ProfileStore
	signOut backend.SignedOutHandler
	path    string
	log     *pterm.Logger
	limiter *rate.Limiter
}

// NewVerifier returns a Verifier fetching profilePath. Trust events run a
// verification at most once per minInterval; zero disables the throttle.
// signOut runs when the profile endpoint still answers 401 while a session is
// stored; it may be nil.
func NewVerifier(client Getter, store ProfileStore, signOut backend.SignedOutHandler, profilePath string, minInterval time.Duration, log *pterm.Logger) *Verifier {
	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}
	if log == nil {
		log = logging.Discard()
	}
	if signOut == nil {
		signOut = func(context.Context, error) {}
	}
	return &Verifier{
		client:  client,
		store:   store,
		signOut: signOut,
		path:    profilePath,
		log:     log,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Verify fetches the profile if a session exists and overwrites the cache,
// which notifies the store's observers.
//
// Errors of kind errs.SignedOut mean there is no session any more. Other errors
// (offline, 5xx, malformed body) are logged and the cache is kept.
func (v *Verifier) Verify(ctx context.Context) (*profile.Profile, error) {
	if !session.IsAuthenticated(v.store) {
		return nil, ErrNotLoggedIn
	}

	resp, err := v.client.Get(ctx, v.path)
	if err != nil {
		v.log.Warn("session check failed", v.log.Args("error", err.Error()))
		return nil, err
	}

	var p profile.Profile
	if err := backend.DecodeJSON(resp, &p); err != nil {
		if errs.IsKind(err, errs.SignedOut) {
			v.log.Info("session is no longer valid")
			// The retried request was rejected too; the client only tears down
			// when the refresh itself fails.
			if session.IsAuthenticated(v.store) {
				v.signOut(ctx, err)
			}
		} else {
			v.log.Warn("session check failed", v.log.Args("error", logging.Mask(err.Error())))
		}
		return nil, err
	}

	if err := v.store.SaveProfile(&p); err != nil {
		return nil, errs.Wrap(errs.Store, "save profile", err)
	}
	v.log.Debug("profile refreshed", v.log.Args("user", p.ID))
	return &p, nil
}

// OnTrustEvent verifies unless a verification already ran within the throttle
// window. ran reports whether the profile endpoint was consulted.
func (v *Verifier) OnTrustEvent(ctx context.Context) (ran bool, p *profile.Profile, err error) {
	if !v.limiter.Allow() {
		return false, nil, nil
	}
	p, err = v.Verify(ctx)
	return true, p, err
}

// Run verifies immediately and then every interval until ctx is done or the
// session ends. A non-positive interval means DefaultRunInterval. Each outcome
// is passed to report when it is non-nil.
// It returns nil on cancellation and the signed-out error otherwise.
func (v *Verifier) Run(ctx context.Context, every time.Duration, report func(*profile.Profile, error)) error {
	if every <= 0 {
		every = DefaultRunInterval
	}
	if report == nil {
		report = func(*profile.Profile, error) {}
	}
	check := func() error {
		p, err := v.Verify(ctx)
		if ctx.Err() != nil {
			return nil
		}
		report(p, err)
		if errs.IsKind(err, errs.SignedOut) {
			return err
		}
		return nil
	}

	if err := check(); err != nil {
		return err
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := check(); err != nil {
				return err
			}
		}
	}
}

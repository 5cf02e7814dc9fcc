// Copyright (c) 2025 Lingua
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"

	"github.com/pterm/pterm"

	errs "lingua/cli/internal/errors"
	"lingua/cli/internal/logging"
)

// Clearer is the part of the credential store teardown needs.
type Clearer interface {
	Clear() error
}

// LandingFunc moves the application to its unauthenticated entry view.
// reason is nil for a user-initiated logout.
type LandingFunc func(ctx context.Context, reason error)

// Teardown clears the session and sends the user to the landing view.
//
// It is idempotent and may be re-entered from the landing callback or from a
// profile observer the store notifies while clearing. The store serializes
// its own writes, so Teardown holds no lock.
type Teardown struct {
	store   Clearer
	landing LandingFunc
	log     *pterm.Logger
}

// NewTeardown returns a Teardown over store. landing and log may be nil.
func NewTeardown(store Clearer, landing LandingFunc, log *pterm.Logger) *Teardown {
	if landing == nil {
		landing = func(context.Context, error) {}
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Teardown{store: store, landing: landing, log: log}
}

// Run clears the credential store and invokes the landing callback.
// The landing callback runs even when clearing failed.
func (t *Teardown) Run(ctx context.Context, reason error) error {
	err := t.store.Clear()

	if err != nil {
		err = errs.Wrap(errs.Store, "clear credentials", err)
		t.log.Error("could not clear stored credentials", t.log.Args("error", err.Error()))
	}
	if reason != nil {
		t.log.Warn("signed out", t.log.Args("reason", logging.Mask(reason.Error())))
	}
	t.landing(ctx, reason)
	return err
}

// SignOut has the shape of backend.SignedOutHandler.
func (t *Teardown) SignOut(ctx context.Context, reason error) {
	_ = t.Run(ctx, reason)
}

// Copyright (c) 2025 Lingua
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	errs "lingua/cli/internal/errors"
	"lingua/cli/internal/profile"
	"lingua/cli/internal/session"
)

var watchEvery time.Duration

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect the stored session",
}

// sessionWatchCmd keeps re-verifying the session, the way the app does on focus.
var sessionWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-check the session periodically until it ends or you press Ctrl+C",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if !session.IsAuthenticated(a.store) {
			a.notLoggedIn()
			return nil
		}
		every := watchEvery
		if every <= 0 {
			every = time.Duration(a.cfg.VerifyInterval)
		}

		var (
			mu     sync.Mutex
			view   watchView
			frames = spinnerFrames
		)
		view.every = every
		view.current, _ = a.store.Profile()

		cursor.Hide()
		defer cursor.Show()
		area, err := pterm.DefaultArea.WithRemoveWhenDone(false).Start()
		if err != nil {
			return err
		}
		redraw := func() {
			mu.Lock()
			defer mu.Unlock()
			view.frame++
			area.Update(view.render(frames))
		}

		unsubscribe := a.store.OnProfileChanged(func(p *profile.Profile) {
			mu.Lock()
			view.current = p
			mu.Unlock()
		})
		defer unsubscribe()

		err = a.verifier.Run(cmd.Context(), every, func(_ *profile.Profile, err error) {
			mu.Lock()
			view.checks++
			view.last = time.Now()
			view.lastErr = err
			mu.Unlock()
			redraw()
		})
		_ = area.Stop()

		if errs.IsKind(err, errs.SignedOut) {
			return a.explain(err, "watching your session")
		}
		return err
	},
}

type watchView struct {
	every   time.Duration
	current *profile.Profile
	checks  int
	last    time.Time
	lastErr error
	frame   int
}

func (v *watchView) render(frames []string) string {
	var b strings.Builder
	name := "unknown"
	if v.current != nil {
		name = v.current.Name()
	}
	fmt.Fprintf(&b, "%s Watching session of %s (every %s)\n", frames[v.frame%len(frames)], name, v.every)
	fmt.Fprintf(&b, "  checks: %d, last: %s\n", v.checks, v.last.Format(time.TimeOnly))
	switch {
	case v.lastErr == nil:
		b.WriteString(pterm.FgGreen.Sprint("  ✓ session valid"))
	case errs.IsKind(v.lastErr, errs.SignedOut):
		b.WriteString(pterm.FgRed.Sprint("  ✗ session ended"))
	default:
		b.WriteString(pterm.FgYellow.Sprint("  ! could not reach the server, keeping cached profile"))
	}
	return b.String()
}

func init() {
	sessionWatchCmd.Flags().DurationVar(&watchEvery, "every", 0, "Check interval (default from config, 5m)")
	sessionCmd.AddCommand(sessionWatchCmd)
	rootCmd.AddCommand(sessionCmd)
}

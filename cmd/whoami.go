// Copyright (c) 2025 Lingua
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	errs "lingua/cli/internal/errors"
	"lingua/cli/internal/profile"
	"lingua/cli/internal/session"
)

// whoamiCmd re-checks the session with the server and prints the account.
var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Aliases: []string{"me"},
	Short:   "Show the signed-in account",
	Long: `The whoami command checks the stored session against the server and shows
the account it belongs to. If the account was deleted or the session revoked,
the session is removed from this device.

When the server cannot be reached, the cached profile is shown instead.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if !session.IsAuthenticated(a.store) {
			a.notLoggedIn()
			return nil
		}

		p, err := a.verifier.Verify(cmd.Context())
		if err != nil {
			if errs.IsKind(err, errs.SignedOut) {
				return a.explain(err, "checking your session")
			}
			cached, _ := a.store.Profile()
			if cached == nil {
				return a.explain(err, "checking your session")
			}
			pterm.Warning.Println("Server unreachable, showing the cached profile.")
			p = cached
		}
		printProfile(a, p)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func printProfile(a *app, p *profile.Profile) {
	fmt.Fprintf(a.out, "👤 Current user: %s\n", p.Name())
	rows := [][]string{
		{"Email", p.Email},
		{"Verified", yesNo(p.IsVerified)},
		{"Premium", yesNo(p.IsPremium)},
	}
	if s := p.Subscription; s != nil {
		sub := s.Plan + " (" + s.Status + ")"
		if s.ExpiresAt != nil {
			sub += ", until " + s.ExpiresAt.Local().Format("2 Jan 2006")
		}
		if !s.Active(time.Now()) {
			sub += ", inactive"
		}
		rows = append(rows, []string{"Subscription", sub})
	}
	if h := p.History; h != nil {
		rows = append(rows,
			[]string{"Lessons completed", fmt.Sprint(h.LessonsCompleted)},
			[]string{"Words learned", fmt.Sprint(h.WordsLearned)},
		)
	}
	_ = pterm.DefaultTable.WithWriter(a.out).WithData(rows).Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

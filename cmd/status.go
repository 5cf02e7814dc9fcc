// Copyright (c) 2025 Lingua
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"lingua/cli/internal/logging"
	"lingua/cli/internal/session"
)

// statusCmd shows what is stored locally without contacting the server.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the local session state without contacting the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		info := session.Describe(a.store)
		rows := [][]string{
			{"API", a.cfg.APIBaseURL},
			{"Locale", string(a.cfg.Locale)},
			{"Signed in", yesNo(info.Authenticated)},
		}
		if info.Authenticated {
			rows = append(rows, []string{"Access token", logging.Short(a.store.AccessToken())})
			if info.Subject != "" {
				rows = append(rows, []string{"User ID", info.Subject})
			}
			if !info.ExpiresAt.IsZero() {
				exp := info.ExpiresAt.Local().Format(time.DateTime)
				if info.Expired(time.Now()) {
					exp += " (expired, will refresh on next request)"
				}
				rows = append(rows, []string{"Token expires", exp})
			}
			rows = append(rows, []string{"Refresh token", yesNo(a.store.RefreshToken() != "")})
		}
		if p, _ := a.store.Profile(); p != nil {
			rows = append(rows, []string{"Cached profile", p.Name()})
		}
		if err := pterm.DefaultTable.WithWriter(a.out).WithData(rows).Render(); err != nil {
			return err
		}
		if !info.Authenticated {
			fmt.Fprintln(a.out, "Run 'lingua login' to sign in.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// Copyright (c) 2025 Lingua
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// logoutCmd clears the stored session.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the saved session from this device",
	Long: `The logout command removes the access token, the refresh token and the
cached profile from the OS keychain. Your locale preference is kept.

Running it while already logged out is harmless.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if err := a.auth.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "✅ Signed out. Your session has been removed from this device.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

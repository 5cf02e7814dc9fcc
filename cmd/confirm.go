// Copyright (c) 2025 Lingua
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"lingua/cli/internal/auth"
	"lingua/cli/internal/terminal"
)

var (
	confirmEmail string
	confirmCode  string
)

// confirmCmd completes registration with the emailed code and signs the user in.
var confirmCmd = &cobra.Command{
	Use:   "confirm",
	Short: "Confirm your registration with the code from the welcome email",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		email := strings.TrimSpace(confirmEmail)
		if email == "" {
			if email, err = terminal.ReadLine(os.Stdin, a.out, "Email: "); err != nil {
				return err
			}
		}
		code := strings.TrimSpace(confirmCode)
		if code == "" {
			if code, err = terminal.ReadLine(os.Stdin, a.out, "Code: "); err != nil {
				return err
			}
		}

		p, err := a.auth.ConfirmRegistration(cmd.Context(), email, code)
		if errors.Is(err, auth.ErrBadCredentials) {
			fmt.Fprintln(a.out, "❌ That code is invalid or has expired.")
			return errReported
		}
		if err != nil {
			return a.explain(err, "confirming your registration")
		}
		fmt.Fprintln(a.out, "✅ Email confirmed.")
		showLoginGreeting(a, p, email)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(confirmCmd)
	confirmCmd.Flags().StringVarP(&confirmEmail, "email", "e", "", "Account email")
	confirmCmd.Flags().StringVarP(&confirmCode, "code", "c", "", "Confirmation code")
}

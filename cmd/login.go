// Copyright (c) 2025 Lingua
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"lingua/cli/internal/auth"
	"lingua/cli/internal/profile"
	"lingua/cli/internal/session"
	"lingua/cli/internal/terminal"
)

var loginEmail string

// loginCmd signs in with email and password and stores the session in the OS keychain.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"signin"},
	Short:   "Sign in with your Lingua email and password",
	Long: `The login command exchanges your email and password for a session and stores
it in the OS keychain. The password is read without echo; when stdin is not a
terminal it is read as a single line, which makes scripted logins possible.

If a session is already stored, it is replaced.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		email := strings.TrimSpace(loginEmail)
		if email == "" {
			email, err = terminal.ReadLine(os.Stdin, a.out, "Email: ")
			if err != nil {
				return err
			}
		}
		if session.IsAuthenticated(a.store) {
			if p, _ := a.store.Profile(); p != nil && strings.EqualFold(p.Email, email) {
				fmt.Fprintf(a.out, "Already logged in as %s\n", p.Name())
				return nil
			}
		}

		prompt := "Password: "
		password, err := terminal.ReadSecret(os.Stdin, a.out, prompt)
		if err != nil {
			return err
		}
		terminal.ClearPreviousLines(a.out, len(prompt), terminal.Width(os.Stdout))

		stop := startInlineSpinner(a.out, "Signing in", spinnerFrames, 120*time.Millisecond)
		p, err := a.auth.Login(ctx, email, password)
		stop()
		if errors.Is(err, auth.ErrBadCredentials) {
			fmt.Fprintln(a.out, "❌ Email or password is incorrect.")
			return errReported
		}
		if err != nil {
			return a.explain(err, "signing in")
		}
		showLoginGreeting(a, p, email)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Account email")
}

// showLoginGreeting greets the user by name, falling back to the email they typed
// when the profile could not be fetched right after login.
func showLoginGreeting(a *app, p *profile.Profile, email string) {
	name := email
	if p != nil {
		name = p.Name()
	}
	fmt.Fprintln(a.out, randomGreeting(name))
	if p != nil && !p.IsVerified {
		fmt.Fprintln(a.out, "   Your email is not verified yet: run 'lingua confirm' with the code we sent you.")
	}
}

func randomGreeting(name string) string {
	greetings := []string{
		"🎉 Welcome back, %s!",
		"✨ Great to see you, %s!",
		"👋 Привет, %s! Ready for today's lesson?",
		"📚 You're all set, %s!",
		"🌟 Logged in as %s. Let's learn!",
	}
	return fmt.Sprintf(greetings[rand.IntN(len(greetings))], name)
}

// Copyright (c) 2025 Lingua
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for Lingua.
// Every command that touches learner data goes through the authenticated request
// client, which refreshes expired sessions and signs the user out when it cannot.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X lingua/cli/cmd.Version=...".
var Version = "0.0.0-dev"

var (
	showVersion bool
	verbose     bool
	logLevel    string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "lingua",
	Short:         "Lingua CLI: lessons, books and your learning account from the terminal",
	Long:          `Lingua is the command-line companion to the Lingua language-learning platform.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			a, err := newApp(cmd)
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "lingua %s\n", Version)
				return nil
			}
			fmt.Fprintf(a.out, "lingua %s\napi    %s\n", Version, a.cfg.APIBaseURL)
			return nil
		}
		return cmd.Help()
	},
}

// Execute runs the CLI application. Ctrl+C cancels the command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI version and API endpoint")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose debug output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn, error, off")
}

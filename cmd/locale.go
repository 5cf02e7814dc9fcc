// Copyright (c) 2025 Lingua
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lingua/cli/internal/config"
	"lingua/cli/internal/locale"
)

// localeCmd prints the language preference sent with every request.
var localeCmd = &cobra.Command{
	Use:   "locale",
	Short: "Show or change the language used for lessons and messages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, a.cfg.Locale)
		return nil
	},
}

var localeSetCmd = &cobra.Command{
	Use:   "set <tag>",
	Short: "Set the preferred language (" + supportedList() + ")",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		l, ok := locale.Parse(args[0])
		if !ok {
			return fmt.Errorf("unsupported locale %q; choose one of %s", args[0], supportedList())
		}
		if _, err := config.Update(func(c *config.Config) { c.Locale = l }); err != nil {
			return err
		}
		a.cfg.Locale = l
		fmt.Fprintf(a.out, "✅ Locale set to %s\n", l)
		return nil
	},
}

func supportedList() string {
	var tags []string
	for _, l := range locale.Supported() {
		tags = append(tags, string(l))
	}
	return strings.Join(tags, ", ")
}

func init() {
	localeCmd.AddCommand(localeSetCmd)
	rootCmd.AddCommand(localeCmd)
}

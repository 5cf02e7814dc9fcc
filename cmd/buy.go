// Copyright (c) 2025 Lingua
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"
)

var buyOpen bool

// buyCmd starts a subscription checkout. Payment happens on the provider's page.
var buyCmd = &cobra.Command{
	Use:   "buy <plan>",
	Short: "Start a Premium subscription checkout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		c, err := a.res.Purchase(cmd.Context(), args[0])
		if err != nil {
			return a.explain(err, "starting checkout")
		}
		fmt.Fprintln(a.out, "Open this link to complete your purchase:")
		fmt.Fprintf(a.out, "%s\n", c.URL)
		if buyOpen {
			openBrowser(c.URL)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buyCmd)
	buyCmd.Flags().BoolVar(&buyOpen, "open", true, "Open the checkout page in the default browser")
}

// openBrowser starts the platform's URL handler without waiting for it.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}

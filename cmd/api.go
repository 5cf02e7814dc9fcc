// Copyright (c) 2025 Lingua
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var apiData string

// apiCmd performs a raw call through the authenticated client, for debugging
// endpoints the CLI has no command for.
var apiCmd = &cobra.Command{
	Use:   "api <method> <path>",
	Short: "Send an authenticated request to the Lingua API",
	Long: `The api command sends one request with your session attached and prints
the status and body. Expired sessions are refreshed like for any other command.

Use --data @file to read the body from a file, or --data @- for stdin.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		body, err := readData(apiData)
		if err != nil {
			return err
		}

		status, out, err := a.res.Raw(cmd.Context(), args[0], args[1], body)
		if err != nil {
			return a.explain(err, strings.ToUpper(args[0])+" "+args[1])
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%d %s\n", status, http.StatusText(status))
		fmt.Fprintln(a.out, string(out))
		if status >= 400 {
			return fmt.Errorf("%w: status %d", errReported, status)
		}
		return nil
	},
}

func readData(v string) ([]byte, error) {
	switch {
	case v == "":
		return nil, nil
	case v == "@-":
		return io.ReadAll(os.Stdin)
	case strings.HasPrefix(v, "@"):
		return os.ReadFile(v[1:])
	default:
		return []byte(v), nil
	}
}

func init() {
	rootCmd.AddCommand(apiCmd)
	apiCmd.Flags().StringVarP(&apiData, "data", "d", "", "Request body, @file or @- for stdin")
}

// Copyright (c) 2025 Lingua
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var bookOutput string

// bookCmd downloads the PDF of an e-book.
var bookCmd = &cobra.Command{
	Use:   "book <id>",
	Short: "Download the PDF of an e-book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("book id must be a number: %q", args[0])
		}
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		out := bookOutput
		if out == "" {
			out = fmt.Sprintf("book-%d.pdf", id)
		}

		stop := startInlineSpinner(a.out, "Downloading", spinnerFrames, 120*time.Millisecond)
		rc, err := a.res.OpenPDF(cmd.Context(), id)
		if err != nil {
			stop()
			return a.explain(err, fmt.Sprintf("downloading book %d", id))
		}
		defer rc.Close()

		n, err := writeFile(out, rc)
		stop()
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "📖 Saved %s (%d KB)\n", out, n/1024)
		return nil
	},
}

// writeFile streams r into path, removing the partial file on failure.
func writeFile(path string, r io.Reader) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return 0, err
	}
	return n, nil
}

func init() {
	rootCmd.AddCommand(bookCmd)
	bookCmd.Flags().StringVarP(&bookOutput, "output", "o", "", "Output file (default book-<id>.pdf)")
}

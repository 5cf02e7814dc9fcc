// Copyright (c) 2025 Lingua
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// lessonCmd prints one lesson and its vocabulary.
var lessonCmd = &cobra.Command{
	Use:   "lesson <id>",
	Short: "Show a lesson and its vocabulary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("lesson id must be a number: %q", args[0])
		}
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		l, err := a.res.Lesson(cmd.Context(), id)
		if err != nil {
			return a.explain(err, fmt.Sprintf("loading lesson %d", id))
		}

		title := l.Title
		if l.IsPremium {
			title += " ⭐"
		}
		if l.Completed {
			title += " ✅"
		}
		pterm.DefaultSection.WithWriter(a.out).Println(title)
		if l.Level != "" {
			fmt.Fprintf(a.out, "Level: %s\n", l.Level)
		}
		if l.Description != "" {
			fmt.Fprintln(a.out, l.Description)
		}
		if len(l.Words) == 0 {
			return nil
		}
		rows := [][]string{{"Word", "Translation", "Example"}}
		for _, w := range l.Words {
			rows = append(rows, []string{w.Word, w.Translation, w.Example})
		}
		fmt.Fprintln(a.out)
		return pterm.DefaultTable.WithWriter(a.out).WithHasHeader().WithData(rows).Render()
	},
}

func init() {
	rootCmd.AddCommand(lessonCmd)
}

// Copyright (c) 2025 Lingua
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"lingua/cli/internal/resources"
)

var (
	profileName   string
	profileEmail  string
	profileAvatar string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your Lingua profile",
}

// profileUpdateCmd edits the profile; the server's answer replaces the cache.
var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Change your display name, email or avatar",
	RunE: func(cmd *cobra.Command, args []string) error {
		if profileName == "" && profileEmail == "" && profileAvatar == "" {
			return errors.New("nothing to update: pass --name, --email or --avatar")
		}
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		var avatar io.Reader
		if profileAvatar != "" {
			f, err := os.Open(profileAvatar)
			if err != nil {
				return err
			}
			defer f.Close()
			avatar = f
		}

		p, err := a.res.UpdateProfile(cmd.Context(), resources.ProfileUpdate{
			DisplayName: profileName,
			Email:       profileEmail,
		}, profileAvatar, avatar)
		if err != nil {
			return a.explain(err, "updating your profile")
		}
		fmt.Fprintln(a.out, "✅ Profile updated.")
		printProfile(a, p)
		return nil
	},
}

func init() {
	profileUpdateCmd.Flags().StringVar(&profileName, "name", "", "New display name")
	profileUpdateCmd.Flags().StringVar(&profileEmail, "email", "", "New email address")
	profileUpdateCmd.Flags().StringVar(&profileAvatar, "avatar", "", "Path to a new avatar image")
	profileCmd.AddCommand(profileUpdateCmd)
	rootCmd.AddCommand(profileCmd)
}

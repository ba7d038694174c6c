// Copyright 2025 The GeoProfile Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/mariolabs/geoprofile/profile"
	"github.com/spf13/cobra"
)

var (
	profileListName  string
	profileListLimit int
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage stored profiles",
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored profiles",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		db, repo, err := openRepository()
		if err != nil {
			return err
		}
		defer db.Close()

		profiles, err := repo.List(profileListName, profileListLimit, 0)
		if err != nil {
			return fmt.Errorf("listing profiles: %w", err)
		}

		a, b, c := strings.Repeat("─", 32), strings.Repeat("─", 28), strings.Repeat("─", 40)
		fmt.Printf("╭─%-32s─┬─%-28s─┬─%-40s╮\n", a, b, c)
		fmt.Printf("│ %-32s │ %-28s │ %-40s│\n", "Email", "Name", "Address")
		fmt.Printf("├─%-32s─┼─%-28s─┼─%-40s┤\n", a, b, c)

		for _, p := range profiles {
			fmt.Printf("│ %-32s │ %-28s │ %-40s│\n",
				truncate(p.Email, 32),
				truncate(p.LastName+", "+p.FirstName, 28),
				truncate(p.Address, 40))
		}

		fmt.Printf("╰─%-32s─┴─%-28s─┴─%-40s╯\n", a, b, c)

		return nil
	},
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n-1]) + "…"
}

var profileExportCmd = &cobra.Command{
	Use:   "export <file.json>",
	Short: "Export every profile to a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		db, repo, err := openRepository()
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := profile.ExportToJSON(repo, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Exported %d profiles to %s\n", n, args[0])

		return nil
	},
}

var profileImportCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import profiles from a JSON file, updating those with the same email",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		db, repo, err := openRepository()
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := profile.ImportFromJSON(repo, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Imported %d profiles from %s\n", n, args[0])

		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileExportCmd)
	profileCmd.AddCommand(profileImportCmd)

	profileListCmd.Flags().StringVar(&profileListName, "name", "", "Only profiles whose name contains this text")
	profileListCmd.Flags().IntVar(&profileListLimit, "limit", 0, "Maximum number of profiles (0 for all)")
}

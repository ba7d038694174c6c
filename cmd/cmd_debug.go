// Copyright 2025 The GeoProfile Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mariolabs/geoprofile/profile"
	"github.com/mariolabs/geoprofile/spatial"
	"github.com/mariolabs/geoprofile/validation"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Dev tools",
}

// geocodeLine is what debug geocode prints for each address.
type geocodeLine struct {
	Found      bool           `json:"found"`
	Point      *spatial.Point `json:"point,omitempty"`
	Label      string         `json:"label,omitempty"`
	DistanceKm float64        `json:"distance_km,omitempty"`
	Within     bool           `json:"within"`
	H3Cell     string         `json:"h3,omitempty"`
}

var debugGeocodeCmd = &cobra.Command{
	Use:   "geocode",
	Short: "Resolve addresses read from stdin",
	Long: `Reads one address per line and prints it followed by the resolution, the
distance to Paris and the H3 cell stored with profiles.

$ echo "1 Rue de Rivoli, Paris" | geoprofile debug geocode
1 Rue de Rivoli, Paris		{"found":true,"point":{"lat":48.8556,"lng":2.3601},…}
	`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		resolver, err := newResolver(cmd.Context(), nil)
		if err != nil {
			return err
		}

		input := os.Stdin
		if isatty.IsTerminal(input.Fd()) {
			fmt.Fprintln(os.Stderr, "Enter addresses to resolve, one per line…")
		}

		scanner := bufio.NewScanner(input)
		for scanner.Scan() {
			address := strings.TrimSpace(scanner.Text())
			if address == "" {
				continue
			}

			res := resolver.Resolve(cmd.Context(), address)
			out := geocodeLine{Found: res.Found}

			if res.Found {
				point := res.Point
				out.Point = &point
				out.Label = res.Label
				out.DistanceKm = spatial.Distance(spatial.Paris, point)
				out.Within = out.DistanceKm <= validation.MaxDistanceKm

				if cell, err := point.Cell(profile.H3Resolution); err == nil {
					out.H3Cell = fmt.Sprintf("%x", cell)
				}
			}

			s, err := json.Marshal(out)
			if err != nil {
				return err
			}

			fmt.Printf("%s\t\t%s\n", address, s)
		}

		if err := scanner.Err(); err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(debugCmd)
	debugCmd.AddCommand(debugGeocodeCmd)
}

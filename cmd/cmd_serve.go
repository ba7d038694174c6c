// Copyright 2025 The GeoProfile Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"log"

	"github.com/mariolabs/geoprofile/metrics"
	"github.com/mariolabs/geoprofile/profile"
	"github.com/mariolabs/geoprofile/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var (
	serveListen   string
	serveSeedFile string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the validation and profile API",
	Long: `Serves the HTTP API. The profile endpoints expect an authenticating proxy to set
X-Forwarded-Email (and optionally X-Forwarded-Preferred-Username).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, repo, err := openRepository()
		if err != nil {
			return err
		}
		defer db.Close()

		seeded, n, err := profile.SeedIfEmpty(repo, serveSeedFile)
		if err != nil {
			return fmt.Errorf("seeding profiles: %w", err)
		}

		if seeded {
			log.Printf("Seeded %d profiles from %s", n, serveSeedFile)
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		m := metrics.New(reg)

		resolver, err := newResolver(cmd.Context(), m)
		if err != nil {
			return err
		}

		v, err := newValidator(resolver, m)
		if err != nil {
			return err
		}

		log.Printf("Geocoding with %s", config.GetString(keyProvider))

		return server.NewServer(profile.NewService(repo, v), v, resolver, reg).Run(serveListen)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveListen, "listen", "localhost:8080", "Address to listen on")
	serveCmd.Flags().StringVar(&serveSeedFile, "seed", "profiles.json", "Profiles imported when the database is empty")
}

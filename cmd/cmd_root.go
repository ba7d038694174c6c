// Copyright 2025 The GeoProfile Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})
}

var rootCmd = &cobra.Command{
	Use:   "geoprofile",
	Short: "validates user profiles against a geofence around Paris",
	Long: `
geoprofile checks profile forms (names, date of birth, phone and postal
address) and rejects addresses that do not resolve within 50 km of Paris.
It can validate from the command line, in bulk from JSON lines, or serve
the profile API over HTTP.
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd.Root().PersistentFlags())
	},
}

var Version = "dev"

func Execute(version string) {
	Version = version

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	addConfigFlags(rootCmd.PersistentFlags())
}

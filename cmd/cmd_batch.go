// Copyright 2025 The GeoProfile Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"sync"

	"github.com/mariolabs/geoprofile/metrics"
	"github.com/mariolabs/geoprofile/validation"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var batchMaxProcs int

var batchCmd = &cobra.Command{
	Use:   "batch <file.jsonl>",
	Short: "Validate profiles read as JSON lines",
	Long: `Reads one profile per line ({"firstName":…,"address":…}), validates them
concurrently and writes one JSON report per line to stdout, in input order.
Use - to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := os.Stdin

		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening input: %w", err)
			}
			defer f.Close()

			in = f
		}

		inputs, err := readInputs(in)
		if err != nil {
			return err
		}

		m := metrics.New(prometheus.NewRegistry())

		resolver, err := newResolver(cmd.Context(), m)
		if err != nil {
			return err
		}

		v, err := newValidator(resolver, m)
		if err != nil {
			return err
		}

		reports := validateAll(cmd.Context(), v, inputs, batchMaxProcs)

		w := bufio.NewWriter(os.Stdout)
		defer w.Flush()

		enc := json.NewEncoder(w)
		invalid := 0

		for i, report := range reports {
			if !report.Valid() {
				invalid++
			}

			if err := enc.Encode(newReportLine(i+1, report)); err != nil {
				return fmt.Errorf("writing report: %w", err)
			}
		}

		log.Printf("Validated %d profiles, %d invalid", len(reports), invalid)

		return nil
	},
}

func readInputs(r io.Reader) ([]validation.Input, error) {
	var inputs []validation.Input

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++

		text := scanner.Bytes()
		if len(text) == 0 {
			continue
		}

		var in validation.Input
		if err := json.Unmarshal(text, &in); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", line, err)
		}

		inputs = append(inputs, in)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	return inputs, nil
}

// validateAll validates inputs with at most maxProcs lookups in flight.
// Reports are returned in input order.
func validateAll(ctx context.Context, v *validation.Validator, inputs []validation.Input, maxProcs int) []validation.Report {
	if maxProcs <= 0 {
		maxProcs = runtime.NumCPU()
	}

	var bar *progressbar.ProgressBar
	if isatty.IsTerminal(os.Stderr.Fd()) {
		bar = progressbar.NewOptions(len(inputs),
			progressbar.OptionSetDescription("Validating"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	reports := make([]validation.Report, len(inputs))

	var wg sync.WaitGroup

	semaphore := make(chan struct{}, maxProcs)

	for i, in := range inputs {
		wg.Add(1)

		go func(i int, in validation.Input) {
			defer wg.Done()
			semaphore <- struct{}{}

			defer func() { <-semaphore }()

			reports[i] = v.Validate(ctx, in)

			if bar != nil {
				_ = bar.Add(1)
			}
		}(i, in)
	}

	wg.Wait()

	return reports
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().IntVar(&batchMaxProcs, "max-procs", 0, "Concurrent validations (defaults to the number of CPUs)")
}

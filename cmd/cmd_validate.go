// Copyright 2025 The GeoProfile Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mariolabs/geoprofile/validation"
	"github.com/spf13/cobra"
)

var errInvalidInput = errors.New("input is invalid")

// reportLine is the JSON written for every validated input.
type reportLine struct {
	Line   int                             `json:"line,omitempty"`
	Valid  bool                            `json:"valid"`
	Errors map[string]string               `json:"errors"`
	Kinds  map[string]validation.ErrorKind `json:"kinds"`
}

func newReportLine(line int, report validation.Report) reportLine {
	return reportLine{
		Line:   line,
		Valid:  report.Valid(),
		Errors: report.Messages(),
		Kinds:  report.Kinds(),
	}
}

var validateInput validation.Input

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a single profile",
	Long: `Validates the given fields and prints the report as JSON. Exits with status 1
when any field is rejected.

$ geoprofile validate --first-name Jane --last-name Doe --birth-date 2001-05-17 \
    --phone "+33 6 12 34 56 78" --address "1 Rue de Rivoli, Paris"
{"valid":true,"errors":{},"kinds":{}}
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		resolver, err := newResolver(cmd.Context(), nil)
		if err != nil {
			return err
		}

		v, err := newValidator(resolver, nil)
		if err != nil {
			return err
		}

		report := v.Validate(cmd.Context(), validateInput)
		if err := json.NewEncoder(os.Stdout).Encode(newReportLine(0, report)); err != nil {
			return err
		}

		return invalidFieldsError(report)
	},
}

// invalidFieldsError names the rejected fields, nil when report is valid.
func invalidFieldsError(report validation.Report) error {
	if report.Valid() {
		return nil
	}

	names := make([]string, 0, len(report))
	for _, f := range report.FailedFields() {
		names = append(names, string(f))
	}

	return fmt.Errorf("%w: %s", errInvalidInput, strings.Join(names, ", "))
}

func init() {
	rootCmd.AddCommand(validateCmd)

	fs := validateCmd.Flags()
	fs.StringVar(&validateInput.FirstName, "first-name", "", "First name")
	fs.StringVar(&validateInput.LastName, "last-name", "", "Last name")
	fs.StringVar(&validateInput.BirthDate, "birth-date", "", "Date of birth, YYYY-MM-DD")
	fs.StringVar(&validateInput.Phone, "phone", "", "Phone number")
	fs.StringVar(&validateInput.Address, "address", "", "Postal address")
}

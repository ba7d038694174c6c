// Copyright 2025 The GeoProfile Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/mariolabs/geoprofile/geocoding"
	"github.com/mariolabs/geoprofile/metrics"
	"github.com/mariolabs/geoprofile/profile"
	"github.com/mariolabs/geoprofile/validation"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Configuration keys. Each is a persistent flag and can be set with a
// GEOPROFILE_ prefixed environment variable (dashes become underscores) or
// in geoprofile.yaml.
const (
	keyDbPath           = "db-path"
	keyProvider         = "geocoder-provider"
	keyEndpoint         = "geocoder-endpoint"
	keyAPIKey           = "geocoder-api-key"
	keyGoogleProject    = "google-project"
	keyGeocoderTimeout  = "geocoder-timeout"
	keyPhonePolicy      = "phone-policy"
	keyHTTPTrace        = "http-trace"
	keyHTTPTraceBody    = "http-trace-body"
	defaultDatabaseFile = "geoprofile.duckdb"
)

var config = viper.New()

func addConfigFlags(fs *pflag.FlagSet) {
	fs.String(keyDbPath, "db", "Directory holding the DuckDB database")
	fs.String(keyProvider, geocoding.ProviderBAN, "Geocoding provider: ban or google")
	fs.String(keyEndpoint, "", "Overrides the geocoding provider URL")
	fs.String(keyAPIKey, "", "Google Maps API key (defaults to GOOGLE_MAPS_API_KEY, then ADC)")
	fs.String(keyGoogleProject, "", "Cloud project searched for the Google Maps API key")
	fs.Duration(keyGeocoderTimeout, 10*time.Second, "Timeout of a single geocoding lookup")
	fs.String(keyPhonePolicy, string(validation.PhoneDigits), "Phone check: presence or digits")
	fs.Bool(keyHTTPTrace, false, "Trace geocoding HTTP requests to stderr")
	fs.Bool(keyHTTPTraceBody, false, "Include bodies in the HTTP trace")
}

func loadConfig(fs *pflag.FlagSet) error {
	config.SetConfigName("geoprofile")
	config.SetConfigType("yaml")
	config.AddConfigPath(".")
	config.AddConfigPath("$HOME/.geoprofile")

	config.SetEnvPrefix("GEOPROFILE")
	config.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	config.AutomaticEnv()

	if err := config.BindPFlags(fs); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	if err := config.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	return nil
}

func geocoderOptions() geocoding.Options {
	return geocoding.Options{
		Provider:            config.GetString(keyProvider),
		Endpoint:            config.GetString(keyEndpoint),
		APIKey:              config.GetString(keyAPIKey),
		GoogleProject:       config.GetString(keyGoogleProject),
		Timeout:             config.GetDuration(keyGeocoderTimeout),
		UserAgent:           fmt.Sprintf("geoprofile/%s (+https://github.com/mariolabs/geoprofile)", Version),
		EnableHTTPTrace:     config.GetBool(keyHTTPTrace) || config.GetBool(keyHTTPTraceBody),
		EnableHTTPBodyTrace: config.GetBool(keyHTTPTraceBody),
	}
}

func newResolver(ctx context.Context, m *metrics.Metrics) (*geocoding.Resolver, error) {
	g, err := geocoding.New(ctx, geocoderOptions())
	if err != nil {
		return nil, fmt.Errorf("creating geocoder: %w", err)
	}

	return geocoding.NewResolver(g, m), nil
}

func newValidator(resolver validation.AddressResolver, m *metrics.Metrics) (*validation.Validator, error) {
	policy, err := validation.ParsePhonePolicy(config.GetString(keyPhonePolicy))
	if err != nil {
		return nil, err
	}

	return validation.New(resolver,
		validation.WithPhonePolicy(policy),
		validation.WithMetrics(m),
	), nil
}

// openRepository opens (creating when needed) the profile database.
func openRepository() (*sql.DB, profile.Repository, error) {
	dir := config.GetString(keyDbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, nil, fmt.Errorf("creating db directory: %w", err)
	}

	db, err := sql.Open("duckdb", filepath.Join(dir, defaultDatabaseFile))
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	repo := profile.NewRepository(db)
	if err := repo.CreateSchema(); err != nil {
		db.Close()

		return nil, nil, fmt.Errorf("creating profile schema: %w", err)
	}

	return db, repo, nil
}

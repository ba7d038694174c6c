// Copyright 2025 The GeoProfile Authors
// SPDX-License-Identifier: Apache-2.0

// Package geocoding resolves free-text addresses into coordinates.
package geocoding

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mariolabs/geoprofile/spatial"
)

// Provider names accepted by New.
const (
	ProviderBAN    = "ban"
	ProviderGoogle = "google"
)

// Result is the outcome of a lookup. Found is false when the address could not be resolved.
type Result struct {
	Point    spatial.Point `json:"point"`
	Found    bool          `json:"found"`
	Label    string        `json:"label,omitempty"`
	Score    float64       `json:"score,omitempty"`
	Provider string        `json:"provider,omitempty"`
}

// Geocoder is implemented by every provider. Implementations return a
// *GeocodingError with ErrorTypeNotFound when the provider has no candidate.
type Geocoder interface {
	Name() string
	Geocode(ctx context.Context, address string) (*Result, error)
}

// Options configures the provider built by New.
type Options struct {
	// Provider is either ProviderBAN (default) or ProviderGoogle
	Provider string

	// Endpoint overrides the provider's default URL
	Endpoint string

	// APIKey for Google Maps; falls back to GOOGLE_MAPS_API_KEY and then to ADC
	APIKey string

	// GoogleProject is the Cloud project searched for the API key when using ADC
	GoogleProject string

	// Timeout for a single lookup, transport included
	Timeout time.Duration

	// UserAgent is the User-Agent header sent to the provider
	UserAgent string

	// Enables light tracing of HTTP requests and responses
	EnableHTTPTrace bool

	// Enables full HTTP body tracing
	EnableHTTPBodyTrace bool
}

// New builds the provider selected by opts.
func New(ctx context.Context, opts Options) (Geocoder, error) {
	client := NewHTTPClient(opts)

	switch opts.Provider {
	case "", ProviderBAN:
		return NewBANGeocoder(opts.Endpoint, client), nil
	case ProviderGoogle:
		apiKey := opts.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("GOOGLE_MAPS_API_KEY")
		}

		if apiKey == "" {
			log.Println("GOOGLE_MAPS_API_KEY is not set. Attempting to retrieve via ADC...")

			var err error

			apiKey, err = APIKeyFromADC(ctx, opts.GoogleProject)
			if err != nil {
				return nil, fmt.Errorf("retrieving Google Maps API key: %w", err)
			}

			log.Println("Retrieved Google Maps API key via ADC")
		}

		g := NewGoogleMapsGeocoder(apiKey, client)
		if opts.Endpoint != "" {
			g.endpoint = opts.Endpoint
		}

		return g, nil
	default:
		return nil, fmt.Errorf("unknown geocoding provider %q", opts.Provider)
	}
}

// Copyright 2025 The GeoProfile Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"context"
	"log"
	"time"

	"github.com/mariolabs/geoprofile/metrics"
	"github.com/mariolabs/geoprofile/utils/textutils"
)

// Resolver wraps a Geocoder so that lookups never fail: every provider error,
// including cancellation of ctx, degrades to a Result with Found == false.
// It keeps no state between calls and is safe for concurrent use.
type Resolver struct {
	geocoder Geocoder
	metrics  *metrics.Metrics
}

// NewResolver creates a Resolver. m may be nil.
func NewResolver(g Geocoder, m *metrics.Metrics) *Resolver {
	return &Resolver{geocoder: g, metrics: m}
}

// Resolve issues a single lookup for address. There are no retries.
func (r *Resolver) Resolve(ctx context.Context, address string) Result {
	address = textutils.CollapseSpaces(address)
	if address == "" {
		return Result{}
	}

	provider := r.geocoder.Name()

	if err := ctx.Err(); err != nil {
		log.Printf("Geocoding %q skipped - %v", address, err)
		r.metrics.ObserveGeocode(provider, metrics.OutcomeError, 0)

		return Result{Provider: provider}
	}

	start := time.Now()
	res, err := r.geocoder.Geocode(ctx, address)
	elapsed := time.Since(start)

	switch {
	case err != nil && IsNotFoundError(err):
		r.metrics.ObserveGeocode(provider, metrics.OutcomeNotFound, elapsed)

		return Result{Provider: provider}
	case err != nil:
		log.Printf("Geocoding %q with %s failed - %v", address, provider, err)
		r.metrics.ObserveGeocode(provider, metrics.OutcomeError, elapsed)

		return Result{Provider: provider}
	case res == nil || !res.Found:
		r.metrics.ObserveGeocode(provider, metrics.OutcomeNotFound, elapsed)

		return Result{Provider: provider}
	}

	r.metrics.ObserveGeocode(provider, metrics.OutcomeFound, elapsed)

	return *res
}

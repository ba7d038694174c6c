// Copyright 2025 The GeoProfile Authors
// SPDX-License-Identifier: Apache-2.0

package validation

import (
	"context"

	"github.com/mariolabs/geoprofile/geocoding"
	"github.com/mariolabs/geoprofile/spatial"
)

// MaxDistanceKm is the radius around the reference point an address must fall in.
const MaxDistanceKm = 50.0

// AddressResolver turns free-form text into a location. Not found is
// reported through Result.Found, never through an error.
type AddressResolver interface {
	Resolve(ctx context.Context, address string) geocoding.Result
}

// AddressValidator checks that an address resolves inside the geofence.
type AddressValidator struct {
	resolver  AddressResolver
	reference spatial.Point
	maxKm     float64
}

// NewAddressValidator creates an AddressValidator centered on Paris.
func NewAddressValidator(resolver AddressResolver) *AddressValidator {
	return &AddressValidator{
		resolver:  resolver,
		reference: spatial.Paris,
		maxKm:     MaxDistanceKm,
	}
}

// ValidateAddress reports whether text resolves to a point within the
// allowed radius. Unresolvable text fails.
func (a *AddressValidator) ValidateAddress(ctx context.Context, text string) bool {
	kind, _ := a.Check(ctx, text)

	return kind == KindNone
}

// Check resolves text and returns the failing kind, if any, together with
// the resolved point. The point is nil when text could not be resolved.
func (a *AddressValidator) Check(ctx context.Context, text string) (ErrorKind, *spatial.Point) {
	if fields.Var(text, tagNotBlank) != nil {
		return KindUnresolvedAddress, nil
	}

	res := a.resolver.Resolve(ctx, text)
	if !res.Found {
		return KindUnresolvedAddress, nil
	}

	point := res.Point
	if spatial.Distance(a.reference, point) > a.maxKm {
		return KindTooFarFromReference, &point
	}

	return KindNone, &point
}

// Copyright 2025 The GeoProfile Authors
// SPDX-License-Identifier: Apache-2.0

package validation

import (
	"context"
	"math"
	"testing"

	"github.com/mariolabs/geoprofile/geocoding"
	"github.com/mariolabs/geoprofile/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const earthRadiusKm = 6371.0

// northOfParis returns the point km kilometers due north of Paris.
func northOfParis(km float64) spatial.Point {
	return spatial.Point{
		Lat: spatial.Paris.Lat + km/earthRadiusKm*180/math.Pi,
		Lng: spatial.Paris.Lng,
	}
}

// countingResolver resolves every address to point, or to nothing when
// found is false, and counts lookups.
type countingResolver struct {
	point spatial.Point
	found bool
	calls int
}

func (c *countingResolver) Resolve(context.Context, string) geocoding.Result {
	c.calls++

	return geocoding.Result{Point: c.point, Found: c.found}
}

func TestAddressValidator_ValidateAddress(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		point     spatial.Point
		found     bool
		want      bool
		wantCalls int
	}{
		{name: "center", text: "Paris", point: spatial.Paris, found: true, want: true, wantCalls: 1},
		{name: "49.9 km", text: "Nord", point: northOfParis(49.9), found: true, want: true, wantCalls: 1},
		{name: "50.1 km", text: "Nord", point: northOfParis(50.1), found: true, want: false, wantCalls: 1},
		{name: "not found next to Paris", text: "asdkjhasdkjh", point: spatial.Paris, found: false, want: false, wantCalls: 1},
		{name: "empty", text: "", found: true, want: false, wantCalls: 0},
		{name: "blank", text: "  \t", found: true, want: false, wantCalls: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := &countingResolver{point: tt.point, found: tt.found}
			a := NewAddressValidator(resolver)

			assert.Equal(t, tt.want, a.ValidateAddress(context.Background(), tt.text))
			assert.Equal(t, tt.wantCalls, resolver.calls)
		})
	}
}

func TestAddressValidator_InclusiveRadius(t *testing.T) {
	edge := northOfParis(MaxDistanceKm)
	d := spatial.Distance(spatial.Paris, edge)
	require.InDelta(t, MaxDistanceKm, d, 1e-9)

	// Radius set to the exact computed distance so rounding cannot decide.
	a := &AddressValidator{
		resolver:  &countingResolver{point: edge, found: true},
		reference: spatial.Paris,
		maxKm:     d,
	}

	assert.True(t, a.ValidateAddress(context.Background(), "edge"))

	a.maxKm = math.Nextafter(d, 0)
	assert.False(t, a.ValidateAddress(context.Background(), "edge"))
}

func TestAddressValidator_Check(t *testing.T) {
	far := northOfParis(50.1)
	a := NewAddressValidator(&countingResolver{point: far, found: true})

	kind, point := a.Check(context.Background(), "Nord")
	assert.Equal(t, KindTooFarFromReference, kind)
	require.NotNil(t, point)
	assert.Equal(t, far, *point)

	a = NewAddressValidator(&countingResolver{})
	kind, point = a.Check(context.Background(), "asdkjhasdkjh")
	assert.Equal(t, KindUnresolvedAddress, kind)
	assert.Nil(t, point)
}

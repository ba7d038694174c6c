// Copyright 2025 The GeoProfile Authors
// SPDX-License-Identifier: Apache-2.0

// Package spatial holds the coordinate type and the great-circle math used to
// decide whether an address is close enough to the reference point.
package spatial

import (
	"fmt"
	"math"

	"github.com/uber/h3-go/v4"
)

const (
	earthRadius   = 6371e3 // meters
	earthRadiusKm = 6371.0
)

// Paris is the reference point addresses are measured against.
var Paris = Point{Lat: 48.8566, Lng: 2.3522}

// Point represents a geographical point with latitude and longitude.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// String returns a string representation of the Point.
func (p Point) String() string {
	return fmt.Sprintf("POINT(%f %f)", p.Lng, p.Lat)
}

// HaversineDistance calculates the distance between two points on Earth in meters.
func (p *Point) HaversineDistance(other *Point) float64 {
	return earthRadius * centralAngle(*p, *other)
}

// Distance returns the great-circle distance between a and b in kilometers.
func Distance(a, b Point) float64 {
	return earthRadiusKm * centralAngle(a, b)
}

func centralAngle(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Cell returns the H3 cell containing the point at the given resolution.
func (p Point) Cell(res int) (int64, error) {
	cell, err := h3.LatLngToCell(h3.NewLatLng(p.Lat, p.Lng), res)
	if err != nil {
		return 0, fmt.Errorf("spatial: converting %s to h3 cell at res %d: %w", p, res, err)
	}

	return int64(cell), nil
}

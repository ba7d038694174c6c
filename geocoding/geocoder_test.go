// Copyright 2025 The GeoProfile Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	g, err := New(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, ProviderBAN, g.Name())

	g, err = New(context.Background(), Options{Provider: ProviderGoogle, APIKey: "k", Endpoint: "http://localhost/geocode"})
	require.NoError(t, err)
	require.IsType(t, &GoogleMapsGeocoder{}, g)
	assert.Equal(t, "http://localhost/geocode", g.(*GoogleMapsGeocoder).endpoint)

	_, err = New(context.Background(), Options{Provider: "nominatim"})
	assert.Error(t, err)
}

// Copyright 2025 The GeoProfile Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGoogleGeocoder(t *testing.T, body string) (*GoogleMapsGeocoder, *url.Values) {
	t.Helper()

	var got url.Values

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	g := NewGoogleMapsGeocoder("test-key", srv.Client())
	g.endpoint = srv.URL

	return g, &got
}

func TestGoogleMapsGeocoder_Geocode(t *testing.T) {
	g, params := newGoogleGeocoder(t, `{
		"status": "OK",
		"results": [
			{
				"formatted_address": "Tokyo Tower, 4-chōme-2-8 Shibakōen, Minato City, Tokyo, Japan",
				"geometry": {"location": {"lat": 35.6586, "lng": 139.7454}, "location_type": "ROOFTOP"}
			}
		]
	}`)

	res, err := g.Geocode(context.Background(), "Tokyo Tower, Japan")
	require.NoError(t, err)

	assert.True(t, res.Found)
	assert.InDelta(t, 35.6586, res.Point.Lat, 1e-9)
	assert.InDelta(t, 139.7454, res.Point.Lng, 1e-9)
	assert.InDelta(t, 1.0, res.Score, 1e-9)
	assert.Equal(t, ProviderGoogle, res.Provider)

	assert.Equal(t, "Tokyo Tower, Japan", params.Get("address"))
	assert.Equal(t, "test-key", params.Get("key"))
	assert.Equal(t, "fr", params.Get("region"))
}

func TestGoogleMapsGeocoder_Statuses(t *testing.T) {
	tests := []struct {
		status   string
		wantType ErrorType
	}{
		{"ZERO_RESULTS", ErrorTypeNotFound},
		{"OVER_QUERY_LIMIT", ErrorTypeQuotaExceeded},
		{"REQUEST_DENIED", ErrorTypeQuotaExceeded},
		{"INVALID_REQUEST", ErrorTypeInvalidRequest},
		{"UNKNOWN_ERROR", ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			g, _ := newGoogleGeocoder(t, `{"status": "`+tt.status+`", "results": []}`)

			_, err := g.Geocode(context.Background(), "asdkjhasdkjh")
			require.Error(t, err)

			typ, ok := errorTypeOf(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantType, typ)
		})
	}
}

// Copyright 2025 The GeoProfile Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/mariolabs/geoprofile/spatial"
)

const googleMapsEndpoint = "https://maps.googleapis.com/maps/api/geocode/json"

// GoogleMapsGeocoder uses the Google Maps Geocoding API.
type GoogleMapsGeocoder struct {
	apiKey     string
	endpoint   string
	region     string
	httpClient *http.Client
}

// NewGoogleMapsGeocoder creates a new Google Maps geocoder biased towards France.
func NewGoogleMapsGeocoder(apiKey string, httpClient *http.Client) *GoogleMapsGeocoder {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return &GoogleMapsGeocoder{
		apiKey:     apiKey,
		endpoint:   googleMapsEndpoint,
		region:     "fr",
		httpClient: httpClient,
	}
}

type googleMapsResponse struct {
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
			LocationType string `json:"location_type"` // ROOFTOP, RANGE_INTERPOLATED, GEOMETRIC_CENTER, APPROXIMATE
		} `json:"geometry"`
		FormattedAddress string `json:"formatted_address"`
	} `json:"results"`
	Status       string `json:"status"` // OK, ZERO_RESULTS, etc.
	ErrorMessage string `json:"error_message"`
}

// locationTypeScores approximates BAN's 0..1 score from Google's location_type.
var locationTypeScores = map[string]float64{
	"ROOFTOP":            1.0,
	"RANGE_INTERPOLATED": 0.8,
	"GEOMETRIC_CENTER":   0.6,
	"APPROXIMATE":        0.3,
}

func (g *GoogleMapsGeocoder) Name() string {
	return ProviderGoogle
}

func (g *GoogleMapsGeocoder) Geocode(ctx context.Context, address string) (*Result, error) {
	params := url.Values{}
	params.Set("address", address)
	params.Set("key", g.apiKey)
	params.Set("region", g.region)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

		return nil, ClassifyHTTPError(resp.StatusCode, string(body))
	}

	var gmResp googleMapsResponse
	if err := json.NewDecoder(resp.Body).Decode(&gmResp); err != nil {
		return nil, &GeocodingError{Type: ErrorTypeUnknown, Message: "decoding response", Err: err}
	}

	switch gmResp.Status {
	case "OK":
	case "ZERO_RESULTS":
		return nil, &GeocodingError{
			Type:    ErrorTypeNotFound,
			Message: fmt.Sprintf("no results found for address: %s", address),
		}
	case "OVER_QUERY_LIMIT", "OVER_DAILY_LIMIT", "REQUEST_DENIED":
		return nil, &GeocodingError{
			Type:    ErrorTypeQuotaExceeded,
			Message: fmt.Sprintf("google maps status: %s %s", gmResp.Status, gmResp.ErrorMessage),
		}
	case "INVALID_REQUEST":
		return nil, &GeocodingError{Type: ErrorTypeInvalidRequest, Message: "google maps status: INVALID_REQUEST"}
	default:
		return nil, &GeocodingError{
			Type:    ErrorTypeUnknown,
			Message: fmt.Sprintf("google maps status: %s", gmResp.Status),
		}
	}

	if len(gmResp.Results) == 0 {
		return nil, &GeocodingError{
			Type:    ErrorTypeNotFound,
			Message: fmt.Sprintf("no results found for address: %s", address),
		}
	}

	result := gmResp.Results[0]

	return &Result{
		Point: spatial.Point{
			Lat: result.Geometry.Location.Lat,
			Lng: result.Geometry.Location.Lng,
		},
		Found:    true,
		Label:    result.FormattedAddress,
		Score:    locationTypeScores[result.Geometry.LocationType],
		Provider: ProviderGoogle,
	}, nil
}

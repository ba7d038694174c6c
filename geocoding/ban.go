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

// API Docs: https://adresse.data.gouv.fr/outils/api-doc/adresse
// Sample request: https://api-adresse.data.gouv.fr/search/?q=1+rue+de+rivoli+paris
const banEndpoint = "https://api-adresse.data.gouv.fr/search/"

// BANGeocoder queries the Base Adresse Nationale, the French national address registry.
type BANGeocoder struct {
	endpoint   string
	httpClient *http.Client
}

// NewBANGeocoder creates a BAN geocoder. An empty endpoint selects the public API.
func NewBANGeocoder(endpoint string, httpClient *http.Client) *BANGeocoder {
	if endpoint == "" {
		endpoint = banEndpoint
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return &BANGeocoder{
		endpoint:   endpoint,
		httpClient: httpClient,
	}
}

// banResponse is the GeoJSON FeatureCollection returned by /search.
type banResponse struct {
	Features []struct {
		Geometry struct {
			Type        string    `json:"type"`
			Coordinates []float64 `json:"coordinates"` // [longitude, latitude]
		} `json:"geometry"`
		Properties struct {
			Label    string  `json:"label"`
			Score    float64 `json:"score"`
			Postcode string  `json:"postcode"`
			City     string  `json:"city"`
		} `json:"properties"`
	} `json:"features"`
}

func (g *BANGeocoder) Name() string {
	return ProviderBAN
}

func (g *BANGeocoder) Geocode(ctx context.Context, address string) (*Result, error) {
	u, err := url.Parse(g.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parsing endpoint: %w", err)
	}

	q := u.Query()
	q.Set("q", address)
	q.Set("limit", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
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

	var banResp banResponse
	if err := json.NewDecoder(resp.Body).Decode(&banResp); err != nil {
		return nil, &GeocodingError{Type: ErrorTypeUnknown, Message: "decoding response", Err: err}
	}

	if len(banResp.Features) == 0 {
		return nil, &GeocodingError{
			Type:    ErrorTypeNotFound,
			Message: fmt.Sprintf("no results found for address: %s", address),
		}
	}

	feature := banResp.Features[0]
	if len(feature.Geometry.Coordinates) < 2 {
		return nil, &GeocodingError{
			Type:    ErrorTypeUnknown,
			Message: fmt.Sprintf("malformed geometry for address: %s", address),
		}
	}

	return &Result{
		Point: spatial.Point{
			Lng: feature.Geometry.Coordinates[0],
			Lat: feature.Geometry.Coordinates[1],
		},
		Found:    true,
		Label:    feature.Properties.Label,
		Score:    feature.Properties.Score,
		Provider: ProviderBAN,
	}, nil
}

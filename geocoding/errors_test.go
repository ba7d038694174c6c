// Copyright 2025 The GeoProfile Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

type errorCheckTestCase struct {
	name string
	err  error
	want bool
}

func runErrorCheckTest(t *testing.T, tests []errorCheckTestCase, checkFunc func(error) bool) {
	t.Helper()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checkFunc(tt.err); got != tt.want {
				t.Errorf("checkFunc(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsRateLimitError(t *testing.T) {
	runErrorCheckTest(t, []errorCheckTestCase{
		{
			name: "rate limit error type",
			err:  &GeocodingError{Type: ErrorTypeRateLimit, Message: "rate limit exceeded"},
			want: true,
		},
		{
			name: "wrapped rate limit error",
			err:  fmt.Errorf("lookup: %w", &GeocodingError{Type: ErrorTypeRateLimit}),
			want: true,
		},
		{
			name: "error message contains too many requests",
			err:  errors.New("too many requests"),
			want: true,
		},
		{
			name: "error message contains 429",
			err:  errors.New("ban returned status 429"),
			want: true,
		},
		{
			name: "other error type",
			err:  &GeocodingError{Type: ErrorTypeNotFound, Message: "429 results"},
			want: false,
		},
		{
			name: "unrelated error",
			err:  errors.New("some other error"),
			want: false,
		},
	}, IsRateLimitError)
}

func TestIsQuotaExceededError(t *testing.T) {
	runErrorCheckTest(t, []errorCheckTestCase{
		{
			name: "quota exceeded error type",
			err:  &GeocodingError{Type: ErrorTypeQuotaExceeded, Message: "quota exceeded"},
			want: true,
		},
		{
			name: "error message contains over_query_limit",
			err:  errors.New("google maps status: OVER_QUERY_LIMIT"),
			want: true,
		},
		{
			name: "other error type",
			err:  &GeocodingError{Type: ErrorTypeRateLimit, Message: "rate limit"},
			want: false,
		},
		{
			name: "unrelated error",
			err:  errors.New("some other error"),
			want: false,
		},
	}, IsQuotaExceededError)
}

func TestIsTimeoutError(t *testing.T) {
	runErrorCheckTest(t, []errorCheckTestCase{
		{
			name: "timeout error type",
			err:  &GeocodingError{Type: ErrorTypeTimeout, Message: "timed out"},
			want: true,
		},
		{
			name: "classified deadline",
			err:  classifyTransportError(fmt.Errorf("Get: %w", context.DeadlineExceeded)),
			want: true,
		},
		{
			name: "error message contains deadline exceeded",
			err:  errors.New("context deadline exceeded"),
			want: true,
		},
		{
			name: "classified refused connection",
			err:  classifyTransportError(errors.New("connection refused")),
			want: false,
		},
	}, IsTimeoutError)
}

func TestIsNotFoundError(t *testing.T) {
	runErrorCheckTest(t, []errorCheckTestCase{
		{
			name: "not found error type",
			err:  &GeocodingError{Type: ErrorTypeNotFound},
			want: true,
		},
		{
			name: "plain error mentioning not found",
			err:  errors.New("not found"),
			want: false,
		},
	}, IsNotFoundError)
}

func TestClassifyHTTPError(t *testing.T) {
	tests := []struct {
		statusCode int
		want       ErrorType
	}{
		{http.StatusTooManyRequests, ErrorTypeRateLimit},
		{http.StatusForbidden, ErrorTypeQuotaExceeded},
		{http.StatusUnauthorized, ErrorTypeQuotaExceeded},
		{http.StatusBadRequest, ErrorTypeInvalidRequest},
		{http.StatusNotFound, ErrorTypeNotFound},
		{http.StatusServiceUnavailable, ErrorTypeNetworkError},
		{http.StatusBadGateway, ErrorTypeNetworkError},
		{http.StatusGatewayTimeout, ErrorTypeNetworkError},
		{http.StatusTeapot, ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.statusCode), func(t *testing.T) {
			if got := ClassifyHTTPError(tt.statusCode, "").Type; got != tt.want {
				t.Errorf("ClassifyHTTPError(%d) = %v, want %v", tt.statusCode, got, tt.want)
			}
		})
	}
}

func TestGeocodingErrorMessage(t *testing.T) {
	err := ClassifyHTTPError(http.StatusBadRequest, "  q must contain between 3 and 200 chars \n")
	if got, want := err.Error(), "invalid request: q must contain between 3 and 200 chars"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if got, want := ErrorTypeTimeout.String(), "timeout"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestErrorChecksOnNil(t *testing.T) {
	checks := map[string]func(error) bool{
		"IsRateLimitError":     IsRateLimitError,
		"IsQuotaExceededError": IsQuotaExceededError,
		"IsTimeoutError":       IsTimeoutError,
		"IsNotFoundError":      IsNotFoundError,
	}

	for name, check := range checks {
		t.Run(name, func(t *testing.T) {
			runErrorCheckTest(t, []errorCheckTestCase{{name: "nil error", err: nil, want: false}}, check)
		})
	}
}

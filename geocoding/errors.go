// Copyright 2025 The GeoProfile Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// GeocodingError describes why a provider could not resolve an address.
type GeocodingError struct {
	Type    ErrorType
	Message string
	Err     error
}

// ErrorType classifies geocoding failures.
type ErrorType int

const (
	// ErrorTypeUnknown is an unclassified failure.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeRateLimit means the provider throttled us.
	ErrorTypeRateLimit
	// ErrorTypeQuotaExceeded means the quota is exhausted or the key was rejected.
	ErrorTypeQuotaExceeded
	// ErrorTypeTimeout means the lookup did not complete in time.
	ErrorTypeTimeout
	// ErrorTypeNotFound means the provider returned no candidate.
	ErrorTypeNotFound
	// ErrorTypeInvalidRequest means the provider refused the query.
	ErrorTypeInvalidRequest
	// ErrorTypeNetworkError covers transport failures and unavailable upstreams.
	ErrorTypeNetworkError
)

var errorTypeNames = map[ErrorType]string{
	ErrorTypeUnknown:        "unknown",
	ErrorTypeRateLimit:      "rate_limit",
	ErrorTypeQuotaExceeded:  "quota_exceeded",
	ErrorTypeTimeout:        "timeout",
	ErrorTypeNotFound:       "not_found",
	ErrorTypeInvalidRequest: "invalid_request",
	ErrorTypeNetworkError:   "network_error",
}

func (t ErrorType) String() string {
	if s, ok := errorTypeNames[t]; ok {
		return s
	}

	return fmt.Sprintf("ErrorType(%d)", int(t))
}

func (e *GeocodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *GeocodingError) Unwrap() error {
	return e.Err
}

func errorTypeOf(err error) (ErrorType, bool) {
	var geoErr *GeocodingError
	if errors.As(err, &geoErr) {
		return geoErr.Type, true
	}

	return ErrorTypeUnknown, false
}

// IsNotFoundError reports whether err means the address has no match.
func IsNotFoundError(err error) bool {
	t, ok := errorTypeOf(err)

	return ok && t == ErrorTypeNotFound
}

// IsRateLimitError reports whether err was caused by provider throttling.
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}

	if t, ok := errorTypeOf(err); ok {
		return t == ErrorTypeRateLimit
	}

	errStr := strings.ToLower(err.Error())

	return strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests") ||
		strings.Contains(errStr, "429")
}

// IsQuotaExceededError reports whether err was caused by an exhausted quota.
func IsQuotaExceededError(err error) bool {
	if err == nil {
		return false
	}

	if t, ok := errorTypeOf(err); ok {
		return t == ErrorTypeQuotaExceeded
	}

	errStr := strings.ToLower(err.Error())

	return strings.Contains(errStr, "over_query_limit") ||
		strings.Contains(errStr, "quota exceeded")
}

// IsTimeoutError reports whether err was caused by a timeout.
func IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}

	if t, ok := errorTypeOf(err); ok {
		return t == ErrorTypeTimeout
	}

	errStr := strings.ToLower(err.Error())

	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded")
}

// ClassifyHTTPError maps a non-200 provider answer to a GeocodingError.
func ClassifyHTTPError(statusCode int, body string) *GeocodingError {
	var e *GeocodingError

	switch statusCode {
	case http.StatusTooManyRequests:
		e = &GeocodingError{Type: ErrorTypeRateLimit, Message: "rate limit reached"}
	case http.StatusForbidden, http.StatusUnauthorized:
		e = &GeocodingError{Type: ErrorTypeQuotaExceeded, Message: "quota exceeded or access denied"}
	case http.StatusBadRequest:
		e = &GeocodingError{Type: ErrorTypeInvalidRequest, Message: "invalid request"}
	case http.StatusNotFound:
		e = &GeocodingError{Type: ErrorTypeNotFound, Message: "address not found"}
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		e = &GeocodingError{
			Type:    ErrorTypeNetworkError,
			Message: fmt.Sprintf("service unavailable (status %d)", statusCode),
		}
	default:
		e = &GeocodingError{Type: ErrorTypeUnknown, Message: fmt.Sprintf("HTTP error %d", statusCode)}
	}

	if body = strings.TrimSpace(body); body != "" {
		e.Err = errors.New(body)
	}

	return e
}

// classifyTransportError wraps an error returned by http.Client.Do.
func classifyTransportError(err error) *GeocodingError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &GeocodingError{Type: ErrorTypeTimeout, Message: "geocoding request timed out", Err: err}
	}

	return &GeocodingError{Type: ErrorTypeNetworkError, Message: "geocoding request failed", Err: err}
}

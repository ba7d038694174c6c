// Copyright 2025 The GeoProfile Authors
// SPDX-License-Identifier: Apache-2.0

// Package httputils provides http.RoundTripper decorators shared by the
// geocoding providers.
package httputils

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxDumpLines     = 256
	maxDumpLineChars = 512
)

// LoggingRoundTripper writes a short trace of every request and response to Writer.
// A nil Writer disables tracing.
type LoggingRoundTripper struct {
	Transport http.RoundTripper
	Writer    io.Writer
	DumpBody  bool
}

// prefix marks every line with the direction of the message and truncates
// overly long dumps.
func prefix(dump []byte, marker rune) string {
	lines := strings.Split(string(dump), "\n")

	truncated := len(lines) > maxDumpLines
	if truncated {
		lines = lines[:maxDumpLines]
	}

	var sb strings.Builder

	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		line = truncateLine(line)

		fmt.Fprintf(&sb, "%c %s\n", marker, line)
	}

	if truncated {
		fmt.Fprintf(&sb, "%c …\n", marker)
	}

	return sb.String()
}

// truncateLine cuts line to at most maxDumpLineChars bytes without
// splitting a UTF-8 sequence.
func truncateLine(line string) string {
	if len(line) <= maxDumpLineChars {
		return line
	}

	cut := maxDumpLineChars
	for cut > 0 && !utf8.RuneStart(line[cut]) {
		cut--
	}

	return line[:cut] + "…"
}

// RoundTrip implements the http.RoundTripper interface.
func (t *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Writer == nil {
		return t.Transport.RoundTrip(req)
	}

	dump, err := httputil.DumpRequestOut(req, t.DumpBody)
	if err != nil {
		return nil, fmt.Errorf("tracing HTTP request: %w", err)
	}

	if _, err := io.WriteString(t.Writer, prefix(dump, '>')); err != nil {
		return nil, fmt.Errorf("tracing HTTP request: %w", err)
	}

	start := time.Now()

	resp, err := t.Transport.RoundTrip(req)
	if err != nil {
		fmt.Fprintf(t.Writer, "< ERROR: [%v] %v\n", time.Since(start), err)

		return nil, err
	}

	dump, err = httputil.DumpResponse(resp, t.DumpBody)
	if err != nil {
		return nil, fmt.Errorf("tracing HTTP response: %w", err)
	}

	if _, err := fmt.Fprintf(t.Writer, "< RESPONSE: [%v]\n%s", time.Since(start), prefix(dump, '<')); err != nil {
		return nil, fmt.Errorf("tracing HTTP response: %w", err)
	}

	return resp, nil
}

// AppendRequestHeadersRoundTripper sets a fixed set of headers on every request.
type AppendRequestHeadersRoundTripper struct {
	Transport http.RoundTripper
	Headers   map[string]string
}

// RoundTrip implements the http.RoundTripper interface.
func (t *AppendRequestHeadersRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request.
	req = req.Clone(req.Context())
	for k, v := range t.Headers {
		req.Header.Set(k, v)
	}

	return t.Transport.RoundTrip(req)
}

// Copyright 2025 The GeoProfile Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"io"
	"net/http"
	"os"
	"time"

	"github.com/mariolabs/geoprofile/utils/httputils"
)

const defaultTimeout = 10 * time.Second

// NewHTTPClient assembles the client used by the providers: a pooled transport,
// optional tracing to stderr and fixed request headers.
func NewHTTPClient(opts Options) *http.Client {
	var httpLogWriter io.Writer
	if opts.EnableHTTPTrace || opts.EnableHTTPBodyTrace {
		httpLogWriter = os.Stderr
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       30 * time.Second,
		ResponseHeaderTimeout: timeout,
	}

	loggingTransport := &httputils.LoggingRoundTripper{
		Writer:    httpLogWriter,
		DumpBody:  opts.EnableHTTPBodyTrace,
		Transport: transport,
	}

	userAgent := "geoprofile/unknown"
	if opts.UserAgent != "" {
		userAgent = opts.UserAgent
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &httputils.AppendRequestHeadersRoundTripper{
			Headers: map[string]string{
				"User-Agent": userAgent,
				"Accept":     "application/json",
			},
			Transport: loggingTransport,
		},
	}
}

// Copyright 2025 The GeoProfile Authors
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncrementValidation(true)
	m.IncrementValidation(false)
	m.IncrementValidation(false)
	m.IncrementFailure("address", "unresolved_address")
	m.ObserveGeocode("ban", OutcomeFound, 120*time.Millisecond)

	assert.InDelta(t, 1, testutil.ToFloat64(m.Validations.WithLabelValues("valid")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.Validations.WithLabelValues("invalid")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ValidationFailures.WithLabelValues("address", "unresolved_address")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.GeocodeLatency))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.IncrementValidation(true)
		m.IncrementFailure("phone", "missing_field")
		m.ObserveGeocode("ban", OutcomeError, time.Second)
	})
}

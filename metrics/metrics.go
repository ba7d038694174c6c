// Copyright 2025 The GeoProfile Authors
// SPDX-License-Identifier: Apache-2.0

// Package metrics exposes Prometheus instrumentation for geocoding lookups and
// profile validation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Geocode lookup outcomes.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Lookup latency by provider and outcome
	GeocodeLatency *prometheus.HistogramVec

	// Failed fields by field name and error kind
	ValidationFailures *prometheus.CounterVec

	// Validation calls by result (valid, invalid)
	Validations *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer to expose them on the default /metrics handler.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		GeocodeLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "geoprofile_geocode_duration_seconds",
			Help:    "Duration of geocoding lookups by provider and outcome",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider", "outcome"}),

		ValidationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "geoprofile_validation_failures_total",
			Help: "Total failed profile fields by field and kind",
		}, []string{"field", "kind"}),

		Validations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "geoprofile_validations_total",
			Help: "Total profile validations by result",
		}, []string{"result"}),
	}
}

// ObserveGeocode records the duration and outcome of one provider lookup.
func (m *Metrics) ObserveGeocode(provider, outcome string, d time.Duration) {
	if m != nil {
		m.GeocodeLatency.WithLabelValues(provider, outcome).Observe(d.Seconds())
	}
}

// IncrementFailure records one failed field.
func (m *Metrics) IncrementFailure(field, kind string) {
	if m != nil {
		m.ValidationFailures.WithLabelValues(field, kind).Inc()
	}
}

// IncrementValidation records the result of one validation call.
func (m *Metrics) IncrementValidation(valid bool) {
	if m == nil {
		return
	}

	result := "invalid"
	if valid {
		result = "valid"
	}

	m.Validations.WithLabelValues(result).Inc()
}

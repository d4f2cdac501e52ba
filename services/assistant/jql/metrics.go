// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package jql

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Prometheus Metrics
// =============================================================================

var (
	// conversionTotal counts query conversions by path (model or pattern)
	// and outcome (ok or error).
	conversionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasker_jql_conversion_total",
			Help: "Total natural-language to JQL conversions by path and outcome.",
		},
		[]string{"path", "outcome"},
	)

	// conversionLatency observes end-to-end conversion latency per path.
	conversionLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tasker_jql_conversion_duration_seconds",
			Help:    "Latency of natural-language to JQL conversion by path.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)
)

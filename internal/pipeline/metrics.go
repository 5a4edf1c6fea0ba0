// Copyright 2026 CGraph Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@cgraph.dev
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Run-level Prometheus collectors: a handful of Counter/Histogram
// fields behind a sync.Once-guarded registration.
package pipeline

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the Prometheus counters the orchestrator updates across
// pipeline runs.
type Metrics struct {
	runsStarted   prometheus.Counter
	runsCompleted prometheus.Counter
	runsFailed    prometheus.Counter
	runDuration   prometheus.Histogram
}

var metricsOnce sync.Once
var defaultMetrics *Metrics

// NewMetrics registers (once per process) and returns the pipeline's
// Prometheus collectors.
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		defaultMetrics = &Metrics{
			runsStarted: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "cgraph_pipeline_runs_started_total",
				Help: "Number of ingestion pipeline runs started.",
			}),
			runsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "cgraph_pipeline_runs_completed_total",
				Help: "Number of ingestion pipeline runs completed successfully.",
			}),
			runsFailed: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "cgraph_pipeline_runs_failed_total",
				Help: "Number of ingestion pipeline runs that aborted with a stage error.",
			}),
			runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
				Name:    "cgraph_pipeline_run_duration_seconds",
				Help:    "Wall-clock duration of a completed ingestion pipeline run.",
				Buckets: prometheus.DefBuckets,
			}),
		}
		prometheus.MustRegister(
			defaultMetrics.runsStarted,
			defaultMetrics.runsCompleted,
			defaultMetrics.runsFailed,
			defaultMetrics.runDuration,
		)
	})
	return defaultMetrics
}

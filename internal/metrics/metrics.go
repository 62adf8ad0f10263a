// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Masking Metrics
	MaskedPositions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sessionrank_masked_positions_total",
			Help: "Total number of sequence positions selected as prediction targets",
		},
		[]string{"strategy", "mode"},
	)

	MaskingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sessionrank_masking_duration_seconds",
			Help:    "Duration of masking schema computation in seconds",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1}, // Per-batch work is sub-millisecond for typical sizes
		},
		[]string{"strategy"},
	)

	// Prediction Metrics
	HeadRows = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sessionrank_head_rows_total",
			Help: "Total number of non-pad positions scored by the prediction head",
		},
	)

	// Ranking Metrics
	MetricUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sessionrank_metric_updates_total",
			Help: "Total number of per-batch ranking metric updates",
		},
		[]string{"metric"},
	)

	// Evaluation Metrics
	BatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sessionrank_batch_duration_seconds",
			Help:    "Duration of a full batch step (mask, encode, predict, score) in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)

	EvaluationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sessionrank_evaluation_errors_total",
			Help: "Total number of failed batch steps by stage",
		},
		[]string{"stage"},
	)
)

// RecordMasking records one schema computation.
func RecordMasking(strategy, mode string, maskedPositions int, duration time.Duration) {
	MaskedPositions.WithLabelValues(strategy, mode).Add(float64(maskedPositions))
	MaskingDuration.WithLabelValues(strategy).Observe(duration.Seconds())
}

// RecordHeadRows records how many rows the prediction head scored.
func RecordHeadRows(rows int) {
	HeadRows.Add(float64(rows))
}

// RecordMetricUpdate records a per-batch update of a ranking metric.
func RecordMetricUpdate(metric string) {
	MetricUpdates.WithLabelValues(metric).Inc()
}

// RecordBatch records a batch step; a non-empty stage marks it as failed.
func RecordBatch(mode string, duration time.Duration, failedStage string) {
	BatchDuration.WithLabelValues(mode).Observe(duration.Seconds())
	if failedStage != "" {
		EvaluationErrors.WithLabelValues(failedStage).Inc()
	}
}

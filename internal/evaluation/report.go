// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

package evaluation

import (
	"sort"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/sessionrank/internal/baseline"
)

// Report summarises one evaluation run.
type Report struct {
	RunID      string             `json:"run_id"`
	Strategy   string             `json:"strategy"`
	Workers    int                `json:"workers"`
	Batches    int                `json:"batches"`
	Rows       int                `json:"rows"`
	MeanLoss   float64            `json:"mean_loss"`
	Metrics    map[string]float64 `json:"metrics"`
	StartedAt  time.Time          `json:"started_at"`
	DurationMS float64            `json:"duration_ms"`
	Duration   time.Duration      `json:"-"`

	// Baselines holds reference scorer results over the same sessions.
	Baselines []*baseline.Result `json:"baselines,omitempty"`
}

// setDuration records the wall time of the run.
func (r *Report) setDuration(d time.Duration) {
	r.Duration = d
	r.DurationMS = float64(d) / float64(time.Millisecond)
}

// JSON returns the indented JSON encoding of the report.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// MetricKeys returns the metric names in sorted order.
func (r *Report) MetricKeys() []string {
	keys := make([]string, 0, len(r.Metrics))
	for k := range r.Metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

package ranking

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/sessionrank/internal/metrics"
	"github.com/tomtom215/sessionrank/internal/tensor"
)

// ErrUnknownFamily is returned for a metric family name that is not registered.
var ErrUnknownFamily = errors.New("unknown metric family")

// DefaultTopKs are the cutoffs used when a metric is created without any.
var DefaultTopKs = []int{2, 5}

// Metric is a metric family bound to a set of cutoffs and its accumulator.
type Metric struct {
	name string
	ks   []int
	fn   Func
	acc  *Accumulator
}

// NewMetric creates a metric for the named family. An empty ks uses DefaultTopKs.
func NewMetric(family string, ks []int) (*Metric, error) {
	fn, ok := Lookup(family)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFamily, family)
	}
	if len(ks) == 0 {
		ks = DefaultTopKs
	}
	for _, k := range ks {
		if k <= 0 {
			return nil, tensor.InvalidShapef("cutoffs must be positive, got %d", k)
		}
	}
	ks = append([]int(nil), ks...)
	return &Metric{name: family, ks: ks, fn: fn, acc: NewAccumulator(len(ks))}, nil
}

// Name returns the family name.
func (m *Metric) Name() string { return m.name }

// TopKs returns a copy of the cutoffs.
func (m *Metric) TopKs() []int { return append([]int(nil), m.ks...) }

// Accumulator exposes the underlying accumulator.
func (m *Metric) Accumulator() *Accumulator { return m.acc }

// Update scores one batch, accumulates its per-cutoff mean and returns the
// per-row values with shape (rows, len(ks)).
func (m *Metric) Update(scores, labels *mat.Dense) (*mat.Dense, error) {
	values, mean, err := m.score(scores, labels)
	if err != nil {
		return nil, err
	}
	if err := m.commit(values, mean); err != nil {
		return nil, err
	}
	return values, nil
}

// score computes the per-row values and their per-cutoff mean without
// touching the accumulator.
func (m *Metric) score(scores, labels *mat.Dense) (*mat.Dense, []float64, error) {
	values, err := m.fn(m.ks, scores, labels)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", m.name, err)
	}
	rows, cols := values.Dims()
	mean := make([]float64, cols)
	for c := 0; c < cols; c++ {
		mean[c] = mat.Sum(values.ColView(c)) / float64(rows)
	}
	return values, mean, nil
}

// commit appends a scored batch to the accumulator.
func (m *Metric) commit(values *mat.Dense, mean []float64) error {
	rows, _ := values.Dims()
	if err := m.acc.Append(mean, rows); err != nil {
		return fmt.Errorf("%s: %w", m.name, err)
	}
	metrics.RecordMetricUpdate(m.name)
	return nil
}

// UpdateIDs scores one batch whose labels are item ids, one per row.
func (m *Metric) UpdateIDs(scores *mat.Dense, ids []int) (*mat.Dense, error) {
	if scores == nil {
		return nil, tensor.InvalidShapef("scores must be a 2-D matrix, got nil")
	}
	rows, vocab := scores.Dims()
	if len(ids) != rows {
		return nil, tensor.ShapeMismatchf("%d scores rows but %d labels", rows, len(ids))
	}
	labels, err := tensor.OneHot(ids, vocab)
	if err != nil {
		return nil, err
	}
	return m.Update(scores, labels)
}

// Compute returns the aggregated value for every cutoff.
func (m *Metric) Compute() ([]float64, error) {
	values, err := m.acc.Compute()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.name, err)
	}
	return values, nil
}

// Reset discards the accumulated state.
func (m *Metric) Reset() { m.acc.Reset() }

// fresh returns a metric with the same family and cutoffs and no state.
func (m *Metric) fresh() *Metric {
	return &Metric{name: m.name, ks: m.TopKs(), fn: m.fn, acc: NewAccumulator(len(m.ks))}
}

// sameDefinition reports whether o has the same family and cutoffs.
func (m *Metric) sameDefinition(o *Metric) bool {
	if m.name != o.name || len(m.ks) != len(o.ks) {
		return false
	}
	for i := range m.ks {
		if m.ks[i] != o.ks[i] {
			return false
		}
	}
	return true
}

// ResultKey names the result of a family at cutoff k.
func ResultKey(family string, k int) string {
	return fmt.Sprintf("%s_%d", family, k)
}

// Suite is an ordered collection of metrics updated together.
type Suite struct {
	metrics []*Metric
}

// NewSuite builds a suite from the given metrics.
func NewSuite(ms ...*Metric) *Suite {
	return &Suite{metrics: append([]*Metric(nil), ms...)}
}

// NewSuiteFor builds a suite with every family evaluated at the same cutoffs.
func NewSuiteFor(families []string, ks []int) (*Suite, error) {
	ms := make([]*Metric, 0, len(families))
	for _, f := range families {
		m, err := NewMetric(f, ks)
		if err != nil {
			return nil, err
		}
		ms = append(ms, m)
	}
	return NewSuite(ms...), nil
}

// DefaultSuite returns NDCG, recall and average precision at 10 and 20.
func DefaultSuite() *Suite {
	s, err := NewSuiteFor([]string{FamilyNDCG, FamilyRecall, FamilyAvgPrecision}, []int{10, 20})
	if err != nil {
		panic(err) // registered families with positive cutoffs
	}
	return s
}

// Metrics returns the metrics in suite order.
func (s *Suite) Metrics() []*Metric {
	return append([]*Metric(nil), s.metrics...)
}

// MaxK returns the largest cutoff across all metrics, or 0 for an empty suite.
func (s *Suite) MaxK() int {
	best := 0
	for _, m := range s.metrics {
		if k := maxK(m.ks); k > best {
			best = k
		}
	}
	return best
}

// Update runs every metric on the batch. Every metric is scored before any
// accumulator changes, so a failing metric leaves the whole suite untouched.
func (s *Suite) Update(scores, labels *mat.Dense) error {
	values := make([]*mat.Dense, len(s.metrics))
	means := make([][]float64, len(s.metrics))
	for i, m := range s.metrics {
		v, mean, err := m.score(scores, labels)
		if err != nil {
			return err
		}
		values[i], means[i] = v, mean
	}
	for i, m := range s.metrics {
		if err := m.commit(values[i], means[i]); err != nil {
			return err
		}
	}
	return nil
}

// UpdateIDs runs every metric on a batch whose labels are item ids.
func (s *Suite) UpdateIDs(scores *mat.Dense, ids []int) error {
	if scores == nil {
		return tensor.InvalidShapef("scores must be a 2-D matrix, got nil")
	}
	rows, vocab := scores.Dims()
	if rows != len(ids) {
		return tensor.ShapeMismatchf("%d scores rows but %d labels", rows, len(ids))
	}
	labels, err := tensor.OneHot(ids, vocab)
	if err != nil {
		return err
	}
	return s.Update(scores, labels)
}

// Compute aggregates every metric into a map keyed by ResultKey.
func (s *Suite) Compute() (map[string]float64, error) {
	out := make(map[string]float64)
	for _, m := range s.metrics {
		values, err := m.Compute()
		if err != nil {
			return nil, err
		}
		for i, k := range m.ks {
			out[ResultKey(m.name, k)] = values[i]
		}
	}
	return out, nil
}

// Keys returns the result keys of the suite in sorted order.
func (s *Suite) Keys() []string {
	var keys []string
	for _, m := range s.metrics {
		for _, k := range m.ks {
			keys = append(keys, ResultKey(m.name, k))
		}
	}
	sort.Strings(keys)
	return keys
}

// Rows returns the number of rows seen by the first metric.
func (s *Suite) Rows() int {
	if len(s.metrics) == 0 {
		return 0
	}
	return s.metrics[0].acc.Rows()
}

// Reset clears every metric.
func (s *Suite) Reset() {
	for _, m := range s.metrics {
		m.Reset()
	}
}

// Fresh returns a suite with the same definitions and no accumulated state.
func (s *Suite) Fresh() *Suite {
	out := &Suite{metrics: make([]*Metric, len(s.metrics))}
	for i, m := range s.metrics {
		out.metrics[i] = m.fresh()
	}
	return out
}

// Merge folds the state of others into s. Every suite must have the same
// metric definitions in the same order; merging s into itself is an error.
func (s *Suite) Merge(others ...*Suite) error {
	for _, o := range others {
		if o == nil {
			continue
		}
		if o == s {
			return ErrSelfMerge
		}
		if len(o.metrics) != len(s.metrics) {
			return tensor.ShapeMismatchf("cannot merge suite of %d metrics into %d", len(o.metrics), len(s.metrics))
		}
		for i, m := range s.metrics {
			if !m.sameDefinition(o.metrics[i]) {
				return fmt.Errorf("cannot merge metric %s into %s: definitions differ", o.metrics[i].name, m.name)
			}
		}
	}
	for _, o := range others {
		if o == nil {
			continue
		}
		for i, m := range s.metrics {
			if err := m.acc.Merge(o.metrics[i].acc); err != nil {
				return err
			}
		}
	}
	return nil
}

// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

package ranking

import (
	"errors"

	"github.com/tomtom215/sessionrank/internal/tensor"
)

var (
	// ErrNoBatches is returned by Compute when nothing has been accumulated.
	ErrNoBatches = errors.New("no batches accumulated")

	// ErrSelfMerge is returned when an accumulator or suite is merged into itself.
	ErrSelfMerge = errors.New("cannot merge into itself")
)

// BatchEntry is one accumulated batch: the per-cutoff mean and the number of
// rows it was taken over.
type BatchEntry struct {
	Mean []float64
	Rows int
}

// Accumulator collects per-batch metric means for a fixed number of cutoffs.
type Accumulator struct {
	width   int
	entries []BatchEntry
}

// NewAccumulator creates an empty accumulator for width cutoffs.
func NewAccumulator(width int) *Accumulator {
	return &Accumulator{width: width}
}

// Width returns the number of cutoffs per entry.
func (a *Accumulator) Width() int {
	return a.width
}

// Append records one batch. Batches with zero rows are ignored.
func (a *Accumulator) Append(mean []float64, rows int) error {
	if len(mean) != a.width {
		return tensor.ShapeMismatchf("batch mean has %d values, accumulator expects %d", len(mean), a.width)
	}
	if rows <= 0 {
		return nil
	}
	a.entries = append(a.entries, BatchEntry{Mean: append([]float64(nil), mean...), Rows: rows})
	return nil
}

// Len returns the number of accumulated batches.
func (a *Accumulator) Len() int {
	return len(a.entries)
}

// Rows returns the total number of rows over all batches.
func (a *Accumulator) Rows() int {
	total := 0
	for _, e := range a.entries {
		total += e.Rows
	}
	return total
}

// Entries returns a copy of the accumulated batches.
func (a *Accumulator) Entries() []BatchEntry {
	out := make([]BatchEntry, len(a.entries))
	for i, e := range a.entries {
		out[i] = BatchEntry{Mean: append([]float64(nil), e.Mean...), Rows: e.Rows}
	}
	return out
}

// Compute returns the row-weighted mean over all batches, one value per cutoff.
func (a *Accumulator) Compute() ([]float64, error) {
	total := a.Rows()
	if total == 0 {
		return nil, ErrNoBatches
	}
	out := make([]float64, a.width)
	for _, e := range a.entries {
		w := float64(e.Rows)
		for c, v := range e.Mean {
			out[c] += v * w
		}
	}
	for c := range out {
		out[c] /= float64(total)
	}
	return out, nil
}

// Merge appends the entries of others. All accumulators must share the
// width, and a may not appear among others.
func (a *Accumulator) Merge(others ...*Accumulator) error {
	for _, o := range others {
		if o == nil {
			continue
		}
		if o == a {
			return ErrSelfMerge
		}
		if o.width != a.width {
			return tensor.ShapeMismatchf("cannot merge accumulator of width %d into width %d", o.width, a.width)
		}
	}
	for _, o := range others {
		if o == nil {
			continue
		}
		a.entries = append(a.entries, o.Entries()...)
	}
	return nil
}

// Reset discards all accumulated batches.
func (a *Accumulator) Reset() {
	a.entries = nil
}

// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

package ranking

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/sessionrank/internal/tensor"
)

// checkInputs validates the common preconditions of every family.
func checkInputs(ks []int, scores, labels *mat.Dense) error {
	if len(ks) == 0 {
		return tensor.InvalidShapef("ks must be a non-empty 1-D list")
	}
	for _, k := range ks {
		if k <= 0 {
			return tensor.InvalidShapef("cutoffs must be positive, got %d", k)
		}
	}
	if scores == nil {
		return tensor.InvalidShapef("scores must be a 2-D matrix, got nil")
	}
	if labels == nil {
		return tensor.InvalidShapef("labels must be a 2-D matrix, got nil")
	}

	sr, sc := scores.Dims()
	lr, lc := labels.Dims()
	if sr != lr || sc != lc {
		return tensor.ShapeMismatchf("scores are (%d, %d), labels are (%d, %d)", sr, sc, lr, lc)
	}
	if k := maxK(ks); k > sc {
		return tensor.InvalidShapef("cutoff %d exceeds vocabulary size %d", k, sc)
	}
	return nil
}

// maxK returns the largest cutoff.
func maxK(ks []int) int {
	m := ks[0]
	for _, k := range ks[1:] {
		if k > m {
			m = k
		}
	}
	return m
}

// extractTopK returns the labels of the top max(ks) items of every row,
// ordered by descending score.
func extractTopK(ks []int, scores, labels *mat.Dense) [][]float64 {
	return tensor.GatherTopK(scores, labels, maxK(ks))
}

// relevantCounts returns the total relevance of every label row.
func relevantCounts(labels *mat.Dense) []float64 {
	rows, _ := labels.Dims()
	out := make([]float64, rows)
	for i := range out {
		out[i] = floats.Sum(labels.RawRowView(i))
	}
	return out
}

// sumPrefix returns the sum of the first k values.
func sumPrefix(values []float64, k int) float64 {
	if k > len(values) {
		k = len(values)
	}
	return floats.Sum(values[:k])
}

// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

package tensor

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// TopK returns the column indices of the k highest values in row, ordered by
// descending value. Ties keep the lower index first. NaN ranks as -Inf.
// k is clamped to len(row).
func TopK(row []float64, k int) []int {
	if k > len(row) {
		k = len(row)
	}
	if k <= 0 {
		return nil
	}

	indices := make([]int, len(row))
	keys := make([]float64, len(row))
	for i, v := range row {
		indices[i] = i
		if math.IsNaN(v) {
			v = math.Inf(-1)
		}
		keys[i] = v
	}

	sort.SliceStable(indices, func(a, b int) bool {
		return keys[indices[a]] > keys[indices[b]]
	})

	return indices[:k]
}

// GatherTopK ranks every row of scores and gathers the matching label values.
// The result has shape (rows, k): out[i][r] is the label of the item ranked r
// (0-based) in row i.
func GatherTopK(scores, labels *mat.Dense, k int) [][]float64 {
	rows, _ := scores.Dims()
	out := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		scoreRow := scores.RawRowView(i)
		labelRow := labels.RawRowView(i)
		idx := TopK(scoreRow, k)
		gathered := make([]float64, len(idx))
		for r, col := range idx {
			gathered[r] = labelRow[col]
		}
		out[i] = gathered
	}
	return out
}

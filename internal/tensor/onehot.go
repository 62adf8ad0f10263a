// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

package tensor

import "gonum.org/v1/gonum/mat"

// OneHot converts integer labels into a (len(ids), vocabSize) binary matrix.
// Every id must lie in [0, vocabSize).
func OneHot(ids []int, vocabSize int) (*mat.Dense, error) {
	if len(ids) == 0 {
		return nil, invalidShape("labels need at least one entry")
	}
	if vocabSize <= 0 {
		return nil, invalidShape("vocabulary size must be positive, got %d", vocabSize)
	}

	out := mat.NewDense(len(ids), vocabSize, nil)
	for i, id := range ids {
		if id < 0 || id >= vocabSize {
			return nil, invalidShape("label %d at row %d outside vocabulary of size %d", id, i, vocabSize)
		}
		out.Set(i, id, 1)
	}
	return out, nil
}

// LabelIDs converts a multi-hot matrix back into the sorted ids set in each row.
// OneHot(ids) followed by LabelIDs yields [][]int{{ids[0]}, {ids[1]}, ...}.
func LabelIDs(labels *mat.Dense) [][]int {
	rows, _ := labels.Dims()
	out := make([][]int, rows)
	for i := 0; i < rows; i++ {
		var ids []int
		for j, v := range labels.RawRowView(i) {
			if v != 0 {
				ids = append(ids, j)
			}
		}
		out[i] = ids
	}
	return out
}

// MultiHot builds a (len(rows), vocabSize) matrix with a 1 for every id in each row.
func MultiHot(rows [][]int, vocabSize int) (*mat.Dense, error) {
	if len(rows) == 0 {
		return nil, invalidShape("labels need at least one row")
	}
	if vocabSize <= 0 {
		return nil, invalidShape("vocabulary size must be positive, got %d", vocabSize)
	}

	out := mat.NewDense(len(rows), vocabSize, nil)
	for i, ids := range rows {
		for _, id := range ids {
			if id < 0 || id >= vocabSize {
				return nil, invalidShape("label %d at row %d outside vocabulary of size %d", id, i, vocabSize)
			}
			out.Set(i, id, 1)
		}
	}
	return out, nil
}

// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

package tensor

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// LogSoftmaxRows replaces every row of m with its log-softmax.
// When temperature > 0 the row is divided by it first; 0 disables scaling.
func LogSoftmaxRows(m *mat.Dense, temperature float64) {
	rows, _ := m.Dims()
	for i := 0; i < rows; i++ {
		row := m.RawRowView(i)
		if temperature > 0 {
			floats.Scale(1/temperature, row)
		}
		lse := floats.LogSumExp(row)
		floats.AddConst(-lse, row)
	}
}

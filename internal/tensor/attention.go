// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

package tensor

import "math"

// SubsequentMask returns the (n, n) additive attention mask used by causal
// encoders: 0 where position j <= i may be attended, -Inf above the diagonal.
func SubsequentMask(n int) [][]float64 {
	out := make([][]float64, n)
	negInf := math.Inf(-1)
	for i := range out {
		row := make([]float64, n)
		for j := i + 1; j < n; j++ {
			row[j] = negInf
		}
		out[i] = row
	}
	return out
}

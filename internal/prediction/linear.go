// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

package prediction

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/sessionrank/internal/tensor"
)

// Linear is a fully connected layer computing x*Wᵀ + b.
type Linear struct {
	// Weights has shape (out, in).
	Weights *mat.Dense
	// Bias has length out.
	Bias []float64
}

// NewLinear creates a layer with weights and bias drawn from U(-1/√in, 1/√in).
func NewLinear(in, out int, rng *rand.Rand) (*Linear, error) {
	if in <= 0 || out <= 0 {
		return nil, tensor.InvalidShapef("linear layer needs positive dimensions, got %dx%d", in, out)
	}

	bound := 1 / math.Sqrt(float64(in))
	uniform := func() float64 { return (2*rng.Float64() - 1) * bound }

	weights := make([]float64, out*in)
	for i := range weights {
		weights[i] = uniform()
	}
	bias := make([]float64, out)
	for i := range bias {
		bias[i] = uniform()
	}
	return &Linear{Weights: mat.NewDense(out, in, weights), Bias: bias}, nil
}

// In returns the input width.
func (l *Linear) In() int {
	_, c := l.Weights.Dims()
	return c
}

// Out returns the output width.
func (l *Linear) Out() int {
	r, _ := l.Weights.Dims()
	return r
}

// Forward applies the layer to every row of x.
func (l *Linear) Forward(x *mat.Dense) (*mat.Dense, error) {
	return affine(x, l.Weights, l.Bias)
}

// affine computes x*wᵀ + bias for w of shape (out, in).
func affine(x, w *mat.Dense, bias []float64) (*mat.Dense, error) {
	if x == nil {
		return nil, tensor.InvalidShapef("input must be a 2-D matrix, got nil")
	}
	rows, cols := x.Dims()
	out, in := w.Dims()
	if cols != in {
		return nil, tensor.ShapeMismatchf("input width %d, projection expects %d", cols, in)
	}

	result := mat.NewDense(rows, out, nil)
	result.Mul(x, w.T())
	for i := 0; i < rows; i++ {
		row := result.RawRowView(i)
		for j := range row {
			row[j] += bias[j]
		}
	}
	return result, nil
}

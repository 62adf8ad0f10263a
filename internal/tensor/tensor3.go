// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

package tensor

import "gonum.org/v1/gonum/mat"

// Tensor3 is a dense row-major (batch, length, hidden) tensor.
type Tensor3 struct {
	B    int
	L    int
	H    int
	Data []float64
}

// NewTensor3 allocates a zeroed tensor.
func NewTensor3(b, l, h int) *Tensor3 {
	return &Tensor3{B: b, L: l, H: h, Data: make([]float64, b*l*h)}
}

// Vector returns a view of the hidden vector at (i, j).
func (t *Tensor3) Vector(i, j int) []float64 {
	off := (i*t.L + j) * t.H
	return t.Data[off : off+t.H]
}

// Clone returns a deep copy.
func (t *Tensor3) Clone() *Tensor3 {
	return &Tensor3{B: t.B, L: t.L, H: t.H, Data: append([]float64(nil), t.Data...)}
}

// Validate reports ErrInvalidShape unless every dimension is positive and
// Data holds exactly B*L*H values.
func (t *Tensor3) Validate() error {
	if t == nil {
		return InvalidShapef("tensor is nil")
	}
	if t.B <= 0 || t.L <= 0 || t.H <= 0 {
		return InvalidShapef("tensor dims (%d, %d, %d) must be positive", t.B, t.L, t.H)
	}
	if len(t.Data) != t.B*t.L*t.H {
		return InvalidShapef("tensor data has %d values, dims (%d, %d, %d) need %d",
			len(t.Data), t.B, t.L, t.H, t.B*t.L*t.H)
	}
	return nil
}

// Flatten views the tensor as a (B*L, H) matrix sharing the same storage.
func (t *Tensor3) Flatten() (*mat.Dense, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return mat.NewDense(t.B*t.L, t.H, t.Data), nil
}

// SelectRows copies the (i, j) vectors whose flat index (i*L + j) is
// selected by keep into a new (count, H) matrix. It returns nil when no
// position is kept because gonum cannot represent an empty matrix.
func (t *Tensor3) SelectRows(keep []bool) (*mat.Dense, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if len(keep) != t.B*t.L {
		return nil, ShapeMismatchf("selection has %d entries, tensor has %d positions", len(keep), t.B*t.L)
	}

	n := 0
	for _, k := range keep {
		if k {
			n++
		}
	}
	if n == 0 {
		return nil, nil
	}

	out := make([]float64, 0, n*t.H)
	for idx, k := range keep {
		if !k {
			continue
		}
		off := idx * t.H
		out = append(out, t.Data[off:off+t.H]...)
	}
	return mat.NewDense(n, t.H, out), nil
}

// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

package masking

import (
	"math/rand"

	"github.com/tomtom215/sessionrank/internal/tensor"
)

// placeholderStd is the standard deviation of the placeholder initialisation.
const placeholderStd = 0.001

// Applier replaces masked positions with a single shared placeholder vector.
type Applier struct {
	// Embedding is the learnable placeholder, one value per hidden unit.
	Embedding []float64
}

// NewApplier creates an applier whose placeholder is drawn from N(0, 0.001).
func NewApplier(hiddenSize int, rng *rand.Rand) *Applier {
	emb := make([]float64, hiddenSize)
	for i := range emb {
		emb[i] = rng.NormFloat64() * placeholderStd
	}
	return &Applier{Embedding: emb}
}

// Apply returns a copy of inputs where every position marked in the schema
// holds the placeholder vector. inputs is not modified.
func (a *Applier) Apply(inputs *tensor.Tensor3, info *Info) (*tensor.Tensor3, error) {
	if err := Require(info); err != nil {
		return nil, err
	}
	return a.ApplySchema(inputs, info.Schema)
}

// ApplySchema is Apply for a bare schema.
func (a *Applier) ApplySchema(inputs *tensor.Tensor3, schema *tensor.BoolMatrix) (*tensor.Tensor3, error) {
	if schema == nil {
		return nil, ErrMissingMasking
	}
	if err := inputs.Validate(); err != nil {
		return nil, err
	}
	if !schema.SameShape(inputs.B, inputs.L) {
		return nil, tensor.ShapeMismatchf("schema is (%d, %d), inputs are (%d, %d, %d)",
			schema.Rows, schema.Cols, inputs.B, inputs.L, inputs.H)
	}
	if inputs.H != len(a.Embedding) {
		return nil, tensor.ShapeMismatchf("inputs hidden size %d, placeholder size %d", inputs.H, len(a.Embedding))
	}

	out := inputs.Clone()
	for i := 0; i < inputs.B; i++ {
		for j := 0; j < inputs.L; j++ {
			if schema.At(i, j) {
				copy(out.Vector(i, j), a.Embedding)
			}
		}
	}
	return out, nil
}

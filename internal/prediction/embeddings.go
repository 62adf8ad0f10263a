// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

package prediction

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/sessionrank/internal/tensor"
)

// ItemEmbeddings is the item id embedding table shared between the input
// side and a weight-tied prediction head. The pad row is all zeros.
type ItemEmbeddings struct {
	weights *mat.Dense
	padID   int
}

// NewItemEmbeddings creates a (vocab, dim) table initialised from N(0, 1).
func NewItemEmbeddings(vocab, dim, padID int, rng *rand.Rand) (*ItemEmbeddings, error) {
	if vocab <= 0 || dim <= 0 {
		return nil, tensor.InvalidShapef("embedding table needs positive dimensions, got %dx%d", vocab, dim)
	}
	data := make([]float64, vocab*dim)
	for i := range data {
		data[i] = rng.NormFloat64()
	}
	e := &ItemEmbeddings{weights: mat.NewDense(vocab, dim, data), padID: padID}
	if padID >= 0 && padID < vocab {
		e.weights.SetRow(padID, make([]float64, dim))
	}
	return e, nil
}

// NewItemEmbeddingsFrom wraps an existing (vocab, dim) weight matrix.
func NewItemEmbeddingsFrom(weights *mat.Dense, padID int) (*ItemEmbeddings, error) {
	if weights == nil {
		return nil, tensor.InvalidShapef("embedding weights must be a 2-D matrix, got nil")
	}
	return &ItemEmbeddings{weights: weights, padID: padID}, nil
}

// Weights returns the (vocab, dim) table. It is shared, not copied.
func (e *ItemEmbeddings) Weights() *mat.Dense { return e.weights }

// VocabSize returns the number of rows.
func (e *ItemEmbeddings) VocabSize() int {
	r, _ := e.weights.Dims()
	return r
}

// Dim returns the embedding width.
func (e *ItemEmbeddings) Dim() int {
	_, c := e.weights.Dims()
	return c
}

// PadID returns the pad item id.
func (e *ItemEmbeddings) PadID() int { return e.padID }

// Lookup embeds a (B, L) id matrix into a (B, L, dim) tensor.
func (e *ItemEmbeddings) Lookup(ids *tensor.IntMatrix) (*tensor.Tensor3, error) {
	if ids == nil || ids.Rows == 0 || ids.Cols == 0 {
		return nil, tensor.InvalidShapef("item ids must be a non-empty 2-D matrix")
	}

	vocab, dim := e.VocabSize(), e.Dim()
	out := tensor.NewTensor3(ids.Rows, ids.Cols, dim)
	for i := 0; i < ids.Rows; i++ {
		for j := 0; j < ids.Cols; j++ {
			id := ids.At(i, j)
			if id < 0 || id >= vocab {
				return nil, tensor.InvalidShapef("item id %d at (%d, %d) outside vocabulary of size %d", id, i, j, vocab)
			}
			copy(out.Vector(i, j), e.weights.RawRowView(id))
		}
	}
	return out, nil
}

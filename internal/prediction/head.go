// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

package prediction

import (
	"errors"
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/sessionrank/internal/tensor"
)

// ErrWeightTying is returned when weight tying is requested but the embedding
// table is missing or incompatible with the head.
var ErrWeightTying = errors.New("weight tying requires a compatible item embedding table")

// HeadConfig holds the build-time parameters of a Head.
type HeadConfig struct {
	// InputWidth is the width of the encoder output rows.
	InputWidth int
	// VocabSize is the number of items scored. Zero takes the embedding
	// table's vocabulary when one is supplied.
	VocabSize int
	// WeightTying reuses the item embedding table as the output projection.
	WeightTying bool
	// AutoProject inserts a Linear layer from InputWidth to the embedding
	// width when tying weights with a table of a different width.
	AutoProject bool
	// Temperature divides the logits when > 0.
	Temperature float64
}

// Head projects encoder outputs to log-probabilities over the vocabulary.
type Head struct {
	cfg HeadConfig

	// independent projection, nil when tied
	output *Linear

	// tied projection
	table *ItemEmbeddings
	bias  []float64

	// optional input projection ahead of the tied output
	project *Linear
}

// NewHead builds a prediction head. table is only used with weight tying.
func NewHead(cfg HeadConfig, table *ItemEmbeddings, rng *rand.Rand) (*Head, error) {
	if cfg.Temperature < 0 {
		return nil, fmt.Errorf("softmax temperature must be >= 0, got %g", cfg.Temperature)
	}
	if cfg.InputWidth <= 0 {
		return nil, tensor.InvalidShapef("head input width must be positive, got %d", cfg.InputWidth)
	}

	if !cfg.WeightTying {
		if cfg.VocabSize <= 0 && table != nil {
			cfg.VocabSize = table.VocabSize()
		}
		output, err := NewLinear(cfg.InputWidth, cfg.VocabSize, rng)
		if err != nil {
			return nil, fmt.Errorf("output projection: %w", err)
		}
		return &Head{cfg: cfg, output: output}, nil
	}

	if table == nil {
		return nil, fmt.Errorf("%w: no embedding table supplied", ErrWeightTying)
	}
	if cfg.VocabSize <= 0 {
		cfg.VocabSize = table.VocabSize()
	}
	if cfg.VocabSize != table.VocabSize() {
		return nil, fmt.Errorf("%w: table has %d items, head expects %d", ErrWeightTying, table.VocabSize(), cfg.VocabSize)
	}

	h := &Head{cfg: cfg, table: table, bias: make([]float64, cfg.VocabSize)}
	if cfg.InputWidth != table.Dim() {
		if !cfg.AutoProject {
			return nil, fmt.Errorf("%w: input width %d differs from embedding width %d", ErrWeightTying, cfg.InputWidth, table.Dim())
		}
		project, err := NewLinear(cfg.InputWidth, table.Dim(), rng)
		if err != nil {
			return nil, fmt.Errorf("input projection: %w", err)
		}
		h.project = project
	}
	return h, nil
}

// Config returns the resolved configuration.
func (h *Head) Config() HeadConfig { return h.cfg }

// Tied reports whether the head shares the embedding table.
func (h *Head) Tied() bool { return h.table != nil }

// Forward maps (rows, InputWidth) inputs to (rows, VocabSize) log-probabilities.
func (h *Head) Forward(x *mat.Dense) (*mat.Dense, error) {
	logits, err := h.logits(x)
	if err != nil {
		return nil, err
	}
	tensor.LogSoftmaxRows(logits, h.cfg.Temperature)
	return logits, nil
}

// ForwardSequence applies Forward to every position of a (B, L, InputWidth)
// tensor and returns a (B, L, VocabSize) tensor.
func (h *Head) ForwardSequence(x *tensor.Tensor3) (*tensor.Tensor3, error) {
	flat, err := x.Flatten()
	if err != nil {
		return nil, err
	}
	out, err := h.Forward(flat)
	if err != nil {
		return nil, err
	}
	return &tensor.Tensor3{B: x.B, L: x.L, H: h.cfg.VocabSize, Data: out.RawMatrix().Data}, nil
}

func (h *Head) logits(x *mat.Dense) (*mat.Dense, error) {
	if h.output != nil {
		return h.output.Forward(x)
	}
	if h.project != nil {
		projected, err := h.project.Forward(x)
		if err != nil {
			return nil, err
		}
		x = projected
	}
	return affine(x, h.table.Weights(), h.bias)
}

// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

package masking

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/sessionrank/internal/metrics"
	"github.com/tomtom215/sessionrank/internal/tensor"
)

// defaultSeed is used when the caller passes a zero seed.
const defaultSeed = 42

// Engine computes masking schemas with a pluggable Strategy and replaces the
// masked input embeddings with a learnable placeholder.
// It is safe for concurrent use; the random source is guarded by a mutex.
type Engine struct {
	strategy Strategy
	applier  *Applier
	logger   zerolog.Logger

	// Random source for determinism (protected by rngMu for concurrent access)
	rng   *rand.Rand
	rngMu sync.Mutex
}

// NewEngine creates a masking engine.
// hiddenSize is the width of the input embeddings the placeholder replaces.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(strategy Strategy, hiddenSize int, seed int64, logger zerolog.Logger) (*Engine, error) {
	if strategy == nil {
		return nil, fmt.Errorf("masking strategy is required")
	}
	if hiddenSize <= 0 {
		return nil, tensor.InvalidShapef("hidden size must be positive, got %d", hiddenSize)
	}

	if seed == 0 {
		seed = defaultSeed
	}
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // math/rand is fine for masking

	return &Engine{
		strategy: strategy,
		applier:  NewApplier(hiddenSize, rng),
		logger:   logger.With().Str("component", "masking").Str("strategy", strategy.Name()).Logger(),
		rng:      rng,
	}, nil
}

// Strategy returns the configured strategy.
func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// Applier returns the placeholder applier owned by the engine.
func (e *Engine) Applier() *Applier {
	return e.applier
}

// ComputeMaskedTargets builds the schema and targets for a batch of item ids.
func (e *Engine) ComputeMaskedTargets(ids *tensor.IntMatrix, mode Mode) (*Info, error) {
	start := time.Now()

	e.rngMu.Lock()
	info, err := e.strategy.ComputeMaskedTargets(ids, mode, e.rng)
	e.rngMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("compute masked targets: %w", err)
	}

	masked := info.Schema.Count()
	metrics.RecordMasking(e.strategy.Name(), mode.String(), masked, time.Since(start))

	e.logger.Debug().
		Str("mode", mode.String()).
		Int("rows", ids.Rows).
		Int("length", ids.Cols).
		Int("masked", masked).
		Msg("computed masking schema")

	return info, nil
}

// ComputeFromRows is ComputeMaskedTargets for nested slices.
// Ragged or empty input fails with tensor.ErrInvalidShape.
func (e *Engine) ComputeFromRows(rows [][]int, mode Mode) (*Info, error) {
	ids, err := tensor.IntMatrixFromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("compute masked targets: %w", err)
	}
	return e.ComputeMaskedTargets(ids, mode)
}

// Forward computes the schema for ids and applies it to inputs.
func (e *Engine) Forward(inputs *tensor.Tensor3, ids *tensor.IntMatrix, mode Mode) (*tensor.Tensor3, *Info, error) {
	info, err := e.ComputeMaskedTargets(ids, mode)
	if err != nil {
		return nil, nil, err
	}
	masked, err := e.applier.Apply(inputs, info)
	if err != nil {
		return nil, nil, err
	}
	return masked, info, nil
}

// EncoderConstraints returns the attention constraints of the strategy.
func (e *Engine) EncoderConstraints(seqLen int) Constraints {
	return e.strategy.EncoderConstraints(seqLen)
}

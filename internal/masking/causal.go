// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

package masking

import (
	"math/rand"

	"github.com/tomtom215/sessionrank/internal/tensor"
)

// CausalLM implements causal (next-item) language modeling.
// Training targets every next item; evaluation follows Options.EvalLastItemOnly.
// The encoder must not attend to later positions.
type CausalLM struct {
	opts Options
}

// NewCausalLM creates a causal language modeling strategy.
func NewCausalLM(opts Options) *CausalLM {
	return &CausalLM{opts: opts}
}

// Name returns the strategy identifier.
func (c *CausalLM) Name() string {
	return "clm"
}

// ComputeMaskedTargets builds the schema and targets for a batch.
func (c *CausalLM) ComputeMaskedTargets(ids *tensor.IntMatrix, mode Mode, _ *rand.Rand) (*Info, error) {
	if err := checkIDs(ids); err != nil {
		return nil, err
	}
	if mode == ModeTraining {
		return predictAll(ids, c.opts.PadID), nil
	}
	return evaluationTargets(ids, c.opts), nil
}

// EncoderConstraints returns a causal attention mask.
func (c *CausalLM) EncoderConstraints(seqLen int) Constraints {
	return Constraints{
		Causal:        true,
		AttentionMask: tensor.SubsequentMask(seqLen),
	}
}

// PredictAll targets every next item in every mode.
type PredictAll struct {
	padID int
}

// NewPredictAll creates the predict-all fallback strategy.
func NewPredictAll(padID int) *PredictAll {
	return &PredictAll{padID: padID}
}

// Name returns the strategy identifier.
func (p *PredictAll) Name() string {
	return "all"
}

// ComputeMaskedTargets builds the schema and targets for a batch.
func (p *PredictAll) ComputeMaskedTargets(ids *tensor.IntMatrix, _ Mode, _ *rand.Rand) (*Info, error) {
	if err := checkIDs(ids); err != nil {
		return nil, err
	}
	return predictAll(ids, p.padID), nil
}

// EncoderConstraints returns a causal attention mask: a position may only see
// its own and earlier items when predicting the next one.
func (p *PredictAll) EncoderConstraints(seqLen int) Constraints {
	return Constraints{
		Causal:        true,
		AttentionMask: tensor.SubsequentMask(seqLen),
	}
}

var (
	_ Strategy = (*CausalLM)(nil)
	_ Strategy = (*PredictAll)(nil)
)

// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

package masking

import (
	"math/rand"

	"github.com/tomtom215/sessionrank/internal/tensor"
)

// MaskedLM implements masked language modeling over item sequences.
//
// During training every non-pad item is selected with probability p. One
// non-pad item per row is always forced into the selection, and if that
// leaves nothing visible in a row with more than one item, one selected item
// is released again. The encoder may attend in both directions.
//
// Reference: Devlin et al., "BERT: Pre-training of Deep Bidirectional
// Transformers for Language Understanding" (2019); Sun et al., "BERT4Rec" (2019).
type MaskedLM struct {
	opts Options
}

// NewMaskedLM creates a masked language modeling strategy.
// The probability is clamped to [0, 1].
func NewMaskedLM(opts Options) *MaskedLM {
	if opts.Probability < 0 {
		opts.Probability = 0
	}
	if opts.Probability > 1 {
		opts.Probability = 1
	}
	return &MaskedLM{opts: opts}
}

// Name returns the strategy identifier.
func (m *MaskedLM) Name() string {
	return "mlm"
}

// Probability returns the per-item selection probability.
func (m *MaskedLM) Probability() float64 {
	return m.opts.Probability
}

// ComputeMaskedTargets builds the schema and targets for a batch.
func (m *MaskedLM) ComputeMaskedTargets(ids *tensor.IntMatrix, mode Mode, rng *rand.Rand) (*Info, error) {
	if err := checkIDs(ids); err != nil {
		return nil, err
	}
	if mode != ModeTraining {
		return evaluationTargets(ids, m.opts), nil
	}

	info := newInfo(ids, m.opts.PadID)
	nonPad := make([]int, 0, ids.Cols)
	masked := make([]int, 0, ids.Cols)

	for i := 0; i < ids.Rows; i++ {
		row := ids.Row(i)
		schema := info.Schema.Row(i)

		// Draw for every cell, pads included, so the random stream depends
		// only on the batch shape.
		nonPad = nonPad[:0]
		for j, id := range row {
			draw := rng.Float64() < m.opts.Probability
			if id == m.opts.PadID {
				continue
			}
			nonPad = append(nonPad, j)
			schema[j] = draw
		}

		if len(nonPad) == 0 {
			continue
		}

		// Force at least one label per session.
		schema[nonPad[rng.Intn(len(nonPad))]] = true

		// Keep at least one item visible when the session has more than one.
		masked = masked[:0]
		for _, j := range nonPad {
			if schema[j] {
				masked = append(masked, j)
			}
		}
		if len(masked) == len(nonPad) && len(nonPad) > 1 {
			schema[masked[rng.Intn(len(masked))]] = false
		}

		for _, j := range nonPad {
			if schema[j] {
				info.Targets.Set(i, j, row[j])
			}
		}
	}

	return info, nil
}

// EncoderConstraints returns bidirectional constraints.
func (m *MaskedLM) EncoderConstraints(int) Constraints {
	return Constraints{}
}

// Ensure MaskedLM implements the interface.
var _ Strategy = (*MaskedLM)(nil)

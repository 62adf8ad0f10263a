// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

package masking

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/tomtom215/sessionrank/internal/tensor"
)

// ErrMissingMasking is returned when masked inputs or predictions are
// requested before a masking schema was computed for the batch.
var ErrMissingMasking = errors.New("masking schema has not been computed")

// Mode selects the training or evaluation behaviour of a strategy.
type Mode int

const (
	// ModeTraining selects targets for learning.
	ModeTraining Mode = iota
	// ModeEvaluation selects targets for scoring.
	ModeEvaluation
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeTraining:
		return "training"
	case ModeEvaluation:
		return "evaluation"
	default:
		return "unknown"
	}
}

// Info is the masking result for one batch.
type Info struct {
	// Schema marks the positions selected as prediction targets.
	Schema *tensor.BoolMatrix

	// Targets holds the original item id where Schema is true, else the pad id.
	Targets *tensor.IntMatrix
}

// Require returns ErrMissingMasking when info carries no schema.
func Require(info *Info) error {
	if info == nil || info.Schema == nil || info.Targets == nil {
		return ErrMissingMasking
	}
	return nil
}

// Constraints describes what the encoder is allowed to attend to.
type Constraints struct {
	// Causal forbids attending to later positions.
	Causal bool

	// AttentionMask is the additive (length, length) mask for causal encoders.
	// Nil when the encoder is bidirectional.
	AttentionMask [][]float64
}

// Strategy computes a masking schema from item ids.
type Strategy interface {
	// Name returns the strategy identifier (e.g., "mlm", "clm").
	Name() string

	// ComputeMaskedTargets builds the schema and targets for a batch.
	// rng is the only source of randomness; implementations must not keep it.
	ComputeMaskedTargets(ids *tensor.IntMatrix, mode Mode, rng *rand.Rand) (*Info, error)

	// EncoderConstraints returns the attention constraints the encoder must
	// honour for sequences of length seqLen.
	EncoderConstraints(seqLen int) Constraints
}

// Options holds the parameters shared by the built-in strategies.
type Options struct {
	// PadID marks positions without an interaction. Never a valid item id.
	PadID int

	// Probability is the per-item selection probability for MaskedLM.
	Probability float64

	// EvalLastItemOnly marks only the last non-pad item as the evaluation target.
	// When false, evaluation uses the predict-all policy.
	EvalLastItemOnly bool
}

// DefaultOptions returns the default strategy options.
func DefaultOptions() Options {
	return Options{
		PadID:            0,
		Probability:      0.15,
		EvalLastItemOnly: true,
	}
}

// New builds a strategy by name: "mlm", "clm" or "all".
func New(name string, opts Options) (Strategy, error) {
	switch name {
	case "mlm":
		return NewMaskedLM(opts), nil
	case "clm":
		return NewCausalLM(opts), nil
	case "all":
		return NewPredictAll(opts.PadID), nil
	default:
		return nil, fmt.Errorf("unknown masking strategy %q", name)
	}
}

// checkIDs validates the item id matrix.
func checkIDs(ids *tensor.IntMatrix) error {
	if ids == nil {
		return tensor.InvalidShapef("item ids must be a 2-D matrix, got nil")
	}
	if ids.Rows <= 0 || ids.Cols <= 0 || len(ids.Data) != ids.Rows*ids.Cols {
		return tensor.InvalidShapef("item ids must be a 2-D matrix, got (%d, %d) with %d values",
			ids.Rows, ids.Cols, len(ids.Data))
	}
	return nil
}

// newInfo allocates an empty result for ids.
func newInfo(ids *tensor.IntMatrix, padID int) *Info {
	return &Info{
		Schema:  tensor.NewBoolMatrix(ids.Rows, ids.Cols),
		Targets: tensor.NewIntMatrix(ids.Rows, ids.Cols, padID),
	}
}

// predictAll shifts every row left by one: the target of position j is the
// item at j+1, the final slot targets the pad id.
func predictAll(ids *tensor.IntMatrix, padID int) *Info {
	info := newInfo(ids, padID)
	for i := 0; i < ids.Rows; i++ {
		for j := 0; j < ids.Cols-1; j++ {
			next := ids.At(i, j+1)
			if next == padID {
				continue
			}
			info.Targets.Set(i, j, next)
			info.Schema.Set(i, j, true)
		}
	}
	return info
}

// lastItemOnly marks the last non-pad position of every row.
// Rows without any item stay unmarked.
func lastItemOnly(ids *tensor.IntMatrix, padID int) *Info {
	info := newInfo(ids, padID)
	for i := 0; i < ids.Rows; i++ {
		row := ids.Row(i)
		for j := len(row) - 1; j >= 0; j-- {
			if row[j] != padID {
				info.Targets.Set(i, j, row[j])
				info.Schema.Set(i, j, true)
				break
			}
		}
	}
	return info
}

// evaluationTargets applies the shared evaluation policy.
func evaluationTargets(ids *tensor.IntMatrix, opts Options) *Info {
	if opts.EvalLastItemOnly {
		return lastItemOnly(ids, opts.PadID)
	}
	return predictAll(ids, opts.PadID)
}

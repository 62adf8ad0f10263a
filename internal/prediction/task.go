// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

package prediction

import (
	"fmt"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/sessionrank/internal/masking"
	"github.com/tomtom215/sessionrank/internal/metrics"
	"github.com/tomtom215/sessionrank/internal/ranking"
	"github.com/tomtom215/sessionrank/internal/tensor"
)

// Prediction is the output of one Task forward pass over the non-pad targets.
type Prediction struct {
	// LogProbs has shape (rows, vocab). Nil when no position had a target.
	LogProbs *mat.Dense
	// Targets holds the item id to predict for each row.
	Targets []int
}

// Rows returns the number of scored positions.
func (p *Prediction) Rows() int {
	if p == nil {
		return 0
	}
	return len(p.Targets)
}

// Task performs next-item prediction on top of a Head.
type Task struct {
	head   *Head
	padID  int
	logger zerolog.Logger
}

// NewTask creates a next-item prediction task. padID is the target value
// ignored during scoring and loss.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTask(head *Head, padID int, logger zerolog.Logger) (*Task, error) {
	if head == nil {
		return nil, fmt.Errorf("prediction head is required")
	}
	return &Task{
		head:   head,
		padID:  padID,
		logger: logger.With().Str("component", "prediction").Logger(),
	}, nil
}

// Head returns the underlying prediction head.
func (t *Task) Head() *Head { return t.head }

// Forward scores every position of x whose masked target is not the pad id.
// Rows of the result follow batch-major, position-minor order.
func (t *Task) Forward(x *tensor.Tensor3, info *masking.Info) (*Prediction, error) {
	if err := masking.Require(info); err != nil {
		return nil, err
	}
	if err := x.Validate(); err != nil {
		return nil, err
	}
	targets := info.Targets
	if targets.Rows != x.B || targets.Cols != x.L {
		return nil, tensor.ShapeMismatchf("targets are (%d, %d), inputs are (%d, %d, %d)",
			targets.Rows, targets.Cols, x.B, x.L, x.H)
	}

	keep := make([]bool, len(targets.Data))
	labels := make([]int, 0, len(targets.Data))
	for idx, id := range targets.Data {
		if id != t.padID {
			keep[idx] = true
			labels = append(labels, id)
		}
	}

	rows, err := x.SelectRows(keep)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		t.logger.Debug().Msg("No non-pad targets in batch")
		return &Prediction{Targets: labels}, nil
	}

	logProbs, err := t.head.Forward(rows)
	if err != nil {
		return nil, fmt.Errorf("prediction head: %w", err)
	}
	metrics.RecordHeadRows(len(labels))

	t.logger.Debug().
		Int("rows", len(labels)).
		Int("positions", len(keep)).
		Msg("Scored non-pad positions")

	return &Prediction{LogProbs: logProbs, Targets: labels}, nil
}

// Loss returns the mean negative log-likelihood of the targets, ignoring
// rows whose target is the pad id. It is 0 when nothing is scored.
func (t *Task) Loss(pred *Prediction) (float64, error) {
	if pred.Rows() == 0 || pred.LogProbs == nil {
		return 0, nil
	}
	rows, vocab := pred.LogProbs.Dims()
	if rows != len(pred.Targets) {
		return 0, tensor.ShapeMismatchf("%d prediction rows but %d targets", rows, len(pred.Targets))
	}

	total, n := 0.0, 0
	for i, id := range pred.Targets {
		if id == t.padID {
			continue
		}
		if id < 0 || id >= vocab {
			return 0, tensor.InvalidShapef("target %d at row %d outside vocabulary of size %d", id, i, vocab)
		}
		total -= pred.LogProbs.At(i, id)
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return total / float64(n), nil
}

// CalculateMetrics updates suite with the prediction, using its integer
// targets as one-hot labels. Empty predictions leave the suite untouched.
func (t *Task) CalculateMetrics(suite *ranking.Suite, pred *Prediction) error {
	if pred.Rows() == 0 || pred.LogProbs == nil {
		return nil
	}
	if err := suite.UpdateIDs(pred.LogProbs, pred.Targets); err != nil {
		return fmt.Errorf("update metrics: %w", err)
	}
	return nil
}

// ComputeMetrics returns the aggregated suite results keyed "{metric}_{k}".
func (t *Task) ComputeMetrics(suite *ranking.Suite) (map[string]float64, error) {
	results, err := suite.Compute()
	if err != nil {
		return nil, fmt.Errorf("compute metrics: %w", err)
	}
	return results, nil
}

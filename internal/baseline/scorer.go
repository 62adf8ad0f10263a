// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

package baseline

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/sessionrank/internal/ranking"
	"github.com/tomtom215/sessionrank/internal/tensor"
)

// ErrNotTrained is returned when Score is called before Train.
var ErrNotTrained = errors.New("baseline scorer has not been trained")

// padScore is assigned to the pad column so it always ranks last.
const padScore = -1

// Scorer ranks every catalogue item as the next item of a session prefix.
type Scorer interface {
	// Name returns the algorithm identifier (e.g., "popularity", "markov").
	Name() string

	// Train fits the scorer on left-padded item id sequences.
	Train(ctx context.Context, sessions [][]int) error

	// Score returns a (rows, vocab) matrix; higher means more likely next.
	Score(prefixes *tensor.IntMatrix) (*mat.Dense, error)
}

// New builds a scorer by name: "popularity" or "markov".
// cfg is only used by the Markov chain.
func New(name string, vocabSize, padID int, cfg MarkovConfig) (Scorer, error) {
	switch name {
	case "popularity":
		return NewPopularity(vocabSize, padID)
	case "markov":
		return NewMarkov(vocabSize, padID, cfg)
	default:
		return nil, fmt.Errorf("unknown baseline %q", name)
	}
}

// Result is the outcome of evaluating one baseline.
type Result struct {
	Name    string             `json:"name"`
	Rows    int                `json:"rows"`
	Metrics map[string]float64 `json:"metrics"`
}

// Holdout replaces the last non-pad item of every session with the pad id
// and returns the resulting prefixes with the removed items. Sessions
// without any item are dropped.
func Holdout(sessions [][]int, padID int) ([][]int, []int) {
	prefixes := make([][]int, 0, len(sessions))
	targets := make([]int, 0, len(sessions))
	for _, s := range sessions {
		j := lastItem(s, padID)
		if j < 0 {
			continue
		}
		prefix := append([]int(nil), s...)
		targets = append(targets, prefix[j])
		prefix[j] = padID
		prefixes = append(prefixes, prefix)
	}
	return prefixes, targets
}

// Evaluate holds out the last item of every session, trains scorer on the
// prefixes and accumulates suite over batches of batchSize rows.
// suite is reset first; its state afterwards holds the baseline figures.
func Evaluate(ctx context.Context, scorer Scorer, sessions [][]int, padID, batchSize int, suite *ranking.Suite) (*Result, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}

	prefixes, targets := Holdout(sessions, padID)
	if err := scorer.Train(ctx, prefixes); err != nil {
		return nil, fmt.Errorf("train %s: %w", scorer.Name(), err)
	}

	suite.Reset()
	for start := 0; start < len(prefixes); start += batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := min(start+batchSize, len(prefixes))

		ids, err := tensor.IntMatrixFromRows(prefixes[start:end])
		if err != nil {
			return nil, fmt.Errorf("batch %d: %w", start/batchSize, err)
		}
		scores, err := scorer.Score(ids)
		if err != nil {
			return nil, fmt.Errorf("score %s: %w", scorer.Name(), err)
		}
		if err := suite.UpdateIDs(scores, targets[start:end]); err != nil {
			return nil, fmt.Errorf("update metrics: %w", err)
		}
	}

	result := &Result{Name: scorer.Name(), Rows: suite.Rows(), Metrics: map[string]float64{}}
	if result.Rows == 0 {
		return result, nil
	}
	computed, err := suite.Compute()
	if err != nil {
		return nil, fmt.Errorf("compute metrics: %w", err)
	}
	result.Metrics = computed
	return result, nil
}

// lastItem returns the index of the last non-pad entry, or -1.
func lastItem(row []int, padID int) int {
	for j := len(row) - 1; j >= 0; j-- {
		if row[j] != padID {
			return j
		}
	}
	return -1
}

// checkVocab validates the catalogue bounds shared by the scorers.
func checkVocab(vocabSize, padID int) error {
	if vocabSize < 2 {
		return tensor.InvalidShapef("vocabulary needs at least two ids, got %d", vocabSize)
	}
	if padID < 0 || padID >= vocabSize {
		return tensor.InvalidShapef("pad id %d outside vocabulary of %d", padID, vocabSize)
	}
	return nil
}

// checkItem validates one item id.
func checkItem(id, vocabSize int) error {
	if id < 0 || id >= vocabSize {
		return tensor.InvalidShapef("item id %d outside vocabulary of %d", id, vocabSize)
	}
	return nil
}

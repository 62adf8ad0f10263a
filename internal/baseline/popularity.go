// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

package baseline

import (
	"context"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/sessionrank/internal/tensor"
)

// Popularity ranks items by how often they occur in the training sessions.
// It ignores the prefix, which makes it the floor every sequential model
// should clear.
type Popularity struct {
	mu        sync.RWMutex
	vocabSize int
	padID     int

	// counts[id] is the number of occurrences of id; the pad entry stays 0
	counts  []float64
	trained bool
}

// NewPopularity creates an untrained popularity scorer.
func NewPopularity(vocabSize, padID int) (*Popularity, error) {
	if err := checkVocab(vocabSize, padID); err != nil {
		return nil, err
	}
	return &Popularity{
		vocabSize: vocabSize,
		padID:     padID,
		counts:    make([]float64, vocabSize),
	}, nil
}

// Name returns "popularity".
func (p *Popularity) Name() string { return "popularity" }

// Train counts item occurrences.
func (p *Popularity) Train(ctx context.Context, sessions [][]int) error {
	counts := make([]float64, p.vocabSize)
	for _, s := range sessions {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, id := range s {
			if id == p.padID {
				continue
			}
			if err := checkItem(id, p.vocabSize); err != nil {
				return err
			}
			counts[id]++
		}
	}

	p.mu.Lock()
	p.counts = counts
	p.trained = true
	p.mu.Unlock()
	return nil
}

// Distribution returns the normalised popularity of every item.
// Before training, or with no items seen, it is uniform over non-pad ids.
func (p *Popularity) Distribution() []float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.distribution()
}

// distribution must be called with mu held.
func (p *Popularity) distribution() []float64 {
	dist := make([]float64, p.vocabSize)
	total := floats.Sum(p.counts)
	for id := range dist {
		switch {
		case id == p.padID:
		case total == 0:
			dist[id] = 1 / float64(p.vocabSize-1)
		default:
			dist[id] = p.counts[id] / total
		}
	}
	return dist
}

// Score returns the popularity distribution for every row.
func (p *Popularity) Score(prefixes *tensor.IntMatrix) (*mat.Dense, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.trained {
		return nil, ErrNotTrained
	}
	if prefixes == nil || prefixes.Rows == 0 {
		return nil, tensor.InvalidShapef("prefixes must have at least one row")
	}

	row := p.distribution()
	row[p.padID] = padScore
	scores := mat.NewDense(prefixes.Rows, p.vocabSize, nil)
	for i := 0; i < prefixes.Rows; i++ {
		scores.SetRow(i, row)
	}
	return scores, nil
}

var _ Scorer = (*Popularity)(nil)

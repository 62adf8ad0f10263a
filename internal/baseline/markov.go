// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

package baseline

import (
	"context"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/sessionrank/internal/tensor"
)

// MarkovConfig contains configuration for the Markov chain scorer.
type MarkovConfig struct {
	// SmoothingAlpha is the Laplace smoothing parameter.
	// Adds this value to all transition counts so unseen transitions keep a
	// small non-zero probability.
	// Default: 0.1.
	SmoothingAlpha float64

	// MinTransitionCount is the minimum number of times a transition must
	// occur to be kept. Rarer transitions count as unseen.
	// Default: 1.
	MinTransitionCount int
}

// DefaultMarkovConfig returns default Markov chain configuration.
func DefaultMarkovConfig() MarkovConfig {
	return MarkovConfig{
		SmoothingAlpha:     0.1,
		MinTransitionCount: 1,
	}
}

// Markov is a first-order Markov chain over consecutive session items:
//
//	P(next | last) = (count(last -> next) + alpha) / (count(last -> any) + alpha * (V - 1))
//
// where V - 1 is the number of non-pad items. A prefix whose last item never
// occurred as a transition source is scored by popularity.
type Markov struct {
	mu        sync.RWMutex
	cfg       MarkovConfig
	vocabSize int
	padID     int

	// transitions[from][to] holds the pruned counts of observed transitions
	transitions map[int]map[int]float64
	totals      map[int]float64

	popularity *Popularity
	trained    bool
}

// NewMarkov creates an untrained Markov chain scorer.
func NewMarkov(vocabSize, padID int, cfg MarkovConfig) (*Markov, error) {
	if err := checkVocab(vocabSize, padID); err != nil {
		return nil, err
	}
	if cfg.SmoothingAlpha <= 0 {
		cfg.SmoothingAlpha = 0.1
	}
	if cfg.MinTransitionCount <= 0 {
		cfg.MinTransitionCount = 1
	}
	pop, err := NewPopularity(vocabSize, padID)
	if err != nil {
		return nil, err
	}
	return &Markov{
		cfg:        cfg,
		vocabSize:  vocabSize,
		padID:      padID,
		popularity: pop,
	}, nil
}

// Name returns "markov".
func (m *Markov) Name() string { return "markov" }

// Config returns the effective configuration.
func (m *Markov) Config() MarkovConfig { return m.cfg }

// Train counts transitions between consecutive non-pad items of every
// session. Pads between items break the chain.
func (m *Markov) Train(ctx context.Context, sessions [][]int) error {
	if err := m.popularity.Train(ctx, sessions); err != nil {
		return err
	}

	counts := make(map[int]map[int]float64)
	for _, s := range sessions {
		if err := ctx.Err(); err != nil {
			return err
		}
		prev := m.padID
		for _, id := range s {
			if id != m.padID && prev != m.padID {
				if counts[prev] == nil {
					counts[prev] = make(map[int]float64)
				}
				counts[prev][id]++
			}
			prev = id
		}
	}

	// Prune rare transitions and compute per-source totals
	minCount := float64(m.cfg.MinTransitionCount)
	totals := make(map[int]float64, len(counts))
	for from, row := range counts {
		for to, c := range row {
			if c < minCount {
				delete(row, to)
				continue
			}
			totals[from] += c
		}
		if len(row) == 0 {
			delete(counts, from)
		}
	}

	m.mu.Lock()
	m.transitions = counts
	m.totals = totals
	m.trained = true
	m.mu.Unlock()
	return nil
}

// Transition returns the smoothed P(to | from), or 0 when from has no
// outgoing transitions.
func (m *Markov) Transition(from, to int) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.trained || from < 0 || from >= m.vocabSize || to < 0 || to >= m.vocabSize {
		return 0
	}
	if to == m.padID || m.totals[from] == 0 {
		return 0
	}
	return m.smoothed(from, to)
}

// TransitionCount returns the number of distinct transitions kept after
// pruning.
func (m *Markov) TransitionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, row := range m.transitions {
		n += len(row)
	}
	return n
}

// smoothed must be called with mu held.
func (m *Markov) smoothed(from, to int) float64 {
	alpha := m.cfg.SmoothingAlpha
	return (m.transitions[from][to] + alpha) / (m.totals[from] + alpha*float64(m.vocabSize-1))
}

// Score returns the transition distribution of the last item of each row.
func (m *Markov) Score(prefixes *tensor.IntMatrix) (*mat.Dense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.trained {
		return nil, ErrNotTrained
	}
	if prefixes == nil || prefixes.Rows == 0 {
		return nil, tensor.InvalidShapef("prefixes must have at least one row")
	}

	fallback := m.popularity.Distribution()
	scores := mat.NewDense(prefixes.Rows, m.vocabSize, nil)
	for i := 0; i < prefixes.Rows; i++ {
		row := scores.RawRowView(i)
		last := -1
		if j := lastItem(prefixes.Row(i), m.padID); j >= 0 {
			last = prefixes.At(i, j)
			if err := checkItem(last, m.vocabSize); err != nil {
				return nil, err
			}
		}

		if last < 0 || m.totals[last] == 0 {
			copy(row, fallback)
		} else {
			for to := range row {
				row[to] = m.smoothed(last, to)
			}
		}
		row[m.padID] = padScore
	}
	return scores, nil
}

var _ Scorer = (*Markov)(nil)

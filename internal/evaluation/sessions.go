// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

package evaluation

import (
	"math/rand"

	"github.com/tomtom215/sessionrank/internal/tensor"
)

// SessionConfig describes a synthetic session set.
type SessionConfig struct {
	Sessions  int
	SeqLen    int
	VocabSize int
	PadID     int
	// MinLength is the shortest session before padding. Values < 1 mean 1.
	MinLength int
}

// SyntheticSessions generates left-padded sessions of item ids drawn
// uniformly from the vocabulary, the pad id excluded. The same rng state
// always yields the same sessions.
func SyntheticSessions(cfg SessionConfig, rng *rand.Rand) ([][]int, error) {
	if cfg.Sessions <= 0 || cfg.SeqLen <= 0 {
		return nil, tensor.InvalidShapef("need a positive session count and length, got %d x %d", cfg.Sessions, cfg.SeqLen)
	}
	if cfg.VocabSize < 2 {
		return nil, tensor.InvalidShapef("vocabulary must hold the pad id and at least one item, got %d", cfg.VocabSize)
	}

	minLen := cfg.MinLength
	if minLen < 1 {
		minLen = 1
	}
	if minLen > cfg.SeqLen {
		minLen = cfg.SeqLen
	}
	padInVocab := cfg.PadID >= 0 && cfg.PadID < cfg.VocabSize

	sessions := make([][]int, cfg.Sessions)
	for s := range sessions {
		row := make([]int, cfg.SeqLen)
		length := minLen + rng.Intn(cfg.SeqLen-minLen+1)
		start := cfg.SeqLen - length
		for j := range row {
			if j < start {
				row[j] = cfg.PadID
				continue
			}
			if !padInVocab {
				row[j] = rng.Intn(cfg.VocabSize)
				continue
			}
			id := rng.Intn(cfg.VocabSize - 1)
			if id >= cfg.PadID {
				id++
			}
			row[j] = id
		}
		sessions[s] = row
	}
	return sessions, nil
}

// Batches groups sessions into (batchSize, L) id matrices. The last batch
// may be smaller.
func Batches(sessions [][]int, batchSize int) ([]*tensor.IntMatrix, error) {
	if batchSize <= 0 {
		return nil, tensor.InvalidShapef("batch size must be positive, got %d", batchSize)
	}
	var out []*tensor.IntMatrix
	for from := 0; from < len(sessions); from += batchSize {
		to := from + batchSize
		if to > len(sessions) {
			to = len(sessions)
		}
		batch, err := tensor.IntMatrixFromRows(sessions[from:to])
		if err != nil {
			return nil, err
		}
		out = append(out, batch)
	}
	return out, nil
}

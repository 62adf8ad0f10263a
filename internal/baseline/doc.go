// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

// Package baseline provides non-neural next-item scorers for sessions.
//
// The scorers give the learned prediction head a reference point: a model
// that cannot beat global popularity or first-order item transitions on the
// same sessions is not learning sequential structure.
//
// # Algorithms
//
//   - Popularity: score(item) = occurrences of item in the training prefixes
//   - Markov: first-order chain over consecutive items,
//     P(next | last) = (count(last -> next) + alpha) / (count(last -> any) + alpha * (V - 1)),
//     falling back to popularity when the last item was never seen as a source
//
// # Evaluation
//
// Evaluate holds out the last item of every session, trains the scorer on
// the remaining prefixes and feeds (rows, vocab) score matrices with the held
// out ids into a ranking.Suite, so baseline and model figures share metric
// definitions and keys.
//
// # Thread Safety
//
// Scorers guard their trained state with a sync.RWMutex: Train takes the
// write lock, Score the read lock.
package baseline

// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

// Package ranking implements batched ranking metrics at multiple cutoffs and
// their running accumulation over an evaluation pass.
//
// # Metric Families
//
// Every family is a pure function over (ks, scores, labels) returning a
// (batch, len(ks)) matrix:
//
//   - PrecisionAt: relevant items in the top-k divided by k
//   - RecallAt: relevant items in the top-k divided by all relevant items
//   - AvgPrecisionAt: sum of precision@i at relevant ranks, divided by min(relevant, k)
//   - DCGAt: sum of rel(i) / log2(i+1) over 1-based ranks
//   - NDCGAt: DCGAt divided by the DCG of the ideally ordered top-k
//
// Rows without any relevant item score 0 in every family.
//
// # Accumulation
//
// A Metric pairs a family with its cutoffs and an Accumulator. Each Update
// appends the per-cutoff batch mean together with the number of rows it
// covers; Compute returns the row-weighted mean. The aggregate therefore
// does not depend on how rows were split into batches or in which order
// accumulators were merged.
//
// # Concurrency
//
// Accumulators and Suites are single-writer and take no locks. Parallel
// workers each own a Suite (see Suite.Fresh) and combine them once with
// Suite.Merge after they have stopped updating.
package ranking

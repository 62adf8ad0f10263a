// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

// Package tensor provides the small set of shaped buffers and numeric
// helpers shared by the masking, prediction and ranking packages.
//
// # Shapes
//
//   - IntMatrix: (batch, length) item ids, row-major
//   - BoolMatrix: (batch, length) masking schema, row-major
//   - Tensor3: (batch, length, hidden) embeddings, row-major
//   - *mat.Dense (gonum): score matrices, relevance labels and weights
//
// # Errors
//
// Rank and shape violations are reported with ErrInvalidShape and
// ErrShapeMismatch. Callers compare with errors.Is; the wrapped message
// carries the offending dimensions.
//
// # Ordering
//
// TopK orders by descending score and breaks ties by the lower column
// index, so repeated calls over the same row always return the same ranking.
package tensor

// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

// Package prediction turns contextual sequence representations into
// log-probabilities over the item vocabulary.
//
// A Head projects (rows, width) inputs to (rows, vocab) logits, either with
// its own Linear layer or by reusing the item embedding table (weight tying),
// optionally scales them by a softmax temperature and applies a numerically
// stable log-softmax.
//
// A Task wraps a Head for next-item prediction: it consumes the masking
// Info of the current batch, drops every position whose target is the pad id
// and scores only the remaining rows. Its Prediction feeds the NLL loss and
// the ranking metric suites.
package prediction

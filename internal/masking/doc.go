// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

// Package masking decides which interactions of a session are hidden from the
// sequence encoder and must be predicted.
//
// # Strategies
//
// A Strategy turns a (batch, length) matrix of item ids into an Info holding
// the boolean masking schema and the masked targets:
//
//   - MaskedLM: random selection with probability p during training; the
//     encoder may attend to future positions
//   - CausalLM: next-item targets (shift by one) with a causal attention mask
//   - PredictAll: next-item targets in every mode, no random selection
//
// During evaluation MaskedLM and CausalLM either mark only the last non-pad
// item of every row or fall back to the predict-all policy.
//
// # Training Invariants
//
// MaskedLM guarantees, for every training row:
//
//   - at least one label when the row has any non-pad item
//   - at least one visible item when the row has more than one non-pad item
//
// Both guarantees use the Engine's seeded random source, so the same seed and
// inputs always produce the same schema.
//
// # State
//
// The Engine does not cache the last schema. ComputeMaskedTargets returns an
// Info value and every consumer (Applier, prediction task) receives it
// explicitly; a nil Info is reported as ErrMissingMasking.
//
// # Usage
//
//	strategy := masking.NewMaskedLM(masking.DefaultOptions())
//	engine, err := masking.NewEngine(strategy, hiddenSize, seed, logger)
//	masked, info, err := engine.Forward(embeddings, itemIDs, masking.ModeTraining)
package masking

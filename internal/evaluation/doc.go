// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

// Package evaluation drives batches of sessions through the full forward
// pass: item embedding lookup, masking, an external sequence Encoder, the
// next-item prediction task and the ranking metric suite.
//
// # Pipeline
//
// Pipeline.Step runs a single batch and returns the prediction together with
// the masking Info it was produced from. Pipeline.Evaluate additionally
// scores the prediction into a caller-owned ranking.Suite.
//
// # Runner
//
// Runner fans batches out over a fixed number of workers with errgroup. Each
// worker owns a fresh Suite; the suites are merged once after every worker
// has returned, so no metric state is shared while workers run. The first
// failing batch cancels the remaining work.
//
//	runner, _ := evaluation.NewRunner(pipeline, ranking.DefaultSuite(), 4, logger)
//	report, err := runner.Run(ctx, batches)
package evaluation

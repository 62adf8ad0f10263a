// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

// Package logging provides the process-wide zerolog logger for Sessionrank.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "console"})
//	logging.Info().Int("workers", 4).Msg("Evaluation starting")
//
// Components receive a zerolog.Logger by value at construction and attach a
// component field:
//
//	logger := logging.WithComponent("evaluation")
//
// # Run Scoping
//
// An evaluation pass carries its run identifier through the context:
//
//	ctx = logging.ContextWithRunID(ctx, logging.NewRunID())
//	logging.Ctx(ctx).Info().Msg("Batch scored")
//	// {"level":"info","run_id":"6f1c...","message":"Batch scored"}
//
// # Best Practices
//
// Always terminate log chains with .Msg() or .Send(), and prefer structured
// fields over Msgf.
package logging

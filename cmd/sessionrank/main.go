// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

// Package main is the entry point for the sessionrank evaluation tool.
//
// Sessionrank is the numeric core of a session-based next-item recommender:
// masking strategies that pick prediction targets inside interaction
// sequences, a (optionally weight tied) next-item prediction head, and a
// suite of ranking metrics accumulated across batches. The command wires
// these pieces together over a deterministic synthetic session set and
// prints an evaluation report.
//
// # Application Architecture
//
// The command initializes components in the following order:
//
//  1. Configuration: Load settings from defaults, config file and environment (Koanf v2)
//  2. Logging: Configure the global zerolog logger
//  3. Masking: Build the strategy (mlm, clm or all) and the masking engine
//  4. Prediction: Item embedding table, prediction head and next-item task
//  5. Ranking: Metric suite for the configured families and cutoffs
//  6. Evaluation: Synthetic sessions, pipeline and parallel runner
//  7. Baselines: Popularity and Markov chain scorers on the same sessions
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Environment variables (MASKING_STRATEGY, METRICS_TOP_KS, EVALUATION_WORKERS, ...)
//   - Config file (sessionrank.yaml, or the path in SESSIONRANK_CONFIG / -config)
//   - Built-in defaults
//
// # Output
//
// The JSON report is written to stdout; logs go to stderr. With -metrics the
// Prometheus collectors are dumped to stderr in the text exposition format
// once the pass completes.
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the evaluation context. Workers stop at the next
// batch boundary and the command exits with an error.
//
// # Example Usage
//
// Default evaluation (masked LM, ndcg/recall/avg_precision at 10 and 20):
//
//	./sessionrank
//
// Causal LM with eight workers and a larger catalogue:
//
//	export MASKING_STRATEGY=clm
//	export EVALUATION_WORKERS=8
//	export EVALUATION_VOCAB_SIZE=5000
//	./sessionrank -metrics
//
// Explicit config file with debug logging:
//
//	./sessionrank -config ./configs/eval.yaml -log-level debug
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tomtom215/sessionrank/internal/baseline"
	"github.com/tomtom215/sessionrank/internal/config"
	"github.com/tomtom215/sessionrank/internal/evaluation"
	"github.com/tomtom215/sessionrank/internal/logging"
	"github.com/tomtom215/sessionrank/internal/masking"
	"github.com/tomtom215/sessionrank/internal/metrics"
	"github.com/tomtom215/sessionrank/internal/prediction"
	"github.com/tomtom215/sessionrank/internal/ranking"
)

// defaultSeed matches the masking engine default for a zero seed.
const defaultSeed = 42

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	configPath := flag.String("config", "", "path to a YAML config file (overrides SESSIONRANK_CONFIG)")
	dumpMetrics := flag.Bool("metrics", false, "dump Prometheus metrics to stderr after the run")
	logLevel := flag.String("log-level", "", "override the configured log level")
	flag.Parse()

	// Load configuration first to get logging settings
	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.LoggingOptions())
	if *logLevel != "" {
		if !logging.ValidLevel(*logLevel) {
			logging.Fatal().Str("level", *logLevel).Msg("Invalid -log-level")
		}
		logging.SetLevelString(*logLevel)
	}

	logging.Info().
		Str("strategy", cfg.Masking.Strategy).
		Int("hidden_size", cfg.Masking.HiddenSize).
		Int("vocab_size", cfg.Evaluation.VocabSize).
		Int("workers", cfg.Evaluation.Workers).
		Strs("metrics", cfg.Metrics.Families).
		Ints("top_ks", cfg.Metrics.TopKs).
		Msg("Configuration loaded")

	seed := cfg.Seed
	if seed == 0 {
		seed = defaultSeed
	}
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic weights and sessions

	// === MASKING ===

	strategy, err := masking.New(cfg.Masking.Strategy, cfg.MaskingOptions())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create masking strategy")
	}

	engine, err := masking.NewEngine(strategy, cfg.Masking.HiddenSize, seed, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create masking engine")
	}

	// === PREDICTION ===

	table, err := prediction.NewItemEmbeddings(cfg.Evaluation.VocabSize, cfg.Masking.HiddenSize, cfg.Masking.PadID, rng)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create item embeddings")
	}

	head, err := prediction.NewHead(cfg.PredictionHead(), table, rng)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create prediction head")
	}

	task, err := prediction.NewTask(head, cfg.Masking.PadID, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create prediction task")
	}

	// === RANKING ===

	suite, err := ranking.NewSuiteFor(cfg.Metrics.Families, cfg.Metrics.TopKs)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create metric suite")
	}

	// === EVALUATION ===

	pipeline, err := evaluation.NewPipeline(engine, table, evaluation.IdentityEncoder{}, task, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create evaluation pipeline")
	}

	sessions, err := evaluation.SyntheticSessions(cfg.SessionConfig(), rng)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to generate sessions")
	}

	batches, err := evaluation.Batches(sessions, cfg.Evaluation.BatchSize)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build batches")
	}

	runner, err := evaluation.NewRunner(pipeline, suite, cfg.Evaluation.Workers, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create evaluation runner")
	}

	// Setup signal handling
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Int("sessions", len(sessions)).Int("batches", len(batches)).Msg("Starting evaluation")

	report, err := runner.Run(ctx, batches)
	if err != nil {
		stop()
		logging.Fatal().Err(err).Msg("Evaluation failed")
	}
	if report.Rows == 0 {
		logging.Warn().Int("batches", len(batches)).Msg("No non-pad targets were scored")
	}

	// === BASELINES ===

	for _, name := range cfg.Baseline.Scorers {
		scorer, err := baseline.New(name, cfg.Evaluation.VocabSize, cfg.Masking.PadID, cfg.MarkovConfig())
		if err != nil {
			logging.Fatal().Err(err).Str("baseline", name).Msg("Failed to create baseline scorer")
		}
		logging.Debug().Str("baseline", name).Int("sessions", len(sessions)).Msg("Evaluating baseline")
		result, err := baseline.Evaluate(ctx, scorer, sessions, cfg.Masking.PadID, cfg.Evaluation.BatchSize, suite.Fresh())
		if err != nil {
			stop()
			logging.Fatal().Err(err).Str("baseline", name).Msg("Baseline evaluation failed")
		}
		report.Baselines = append(report.Baselines, result)
		if result.Rows == 0 {
			logging.Warn().Str("baseline", name).Msg("Baseline scored no rows")
			continue
		}
		logging.Info().Str("baseline", name).Int("rows", result.Rows).Msg("Baseline evaluated")
	}

	out, err := report.JSON()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to encode report")
	}
	fmt.Fprintln(os.Stdout, string(out))

	if *dumpMetrics {
		if err := metrics.WriteText(os.Stderr, prometheus.DefaultGatherer); err != nil {
			logging.Err(err).Msg("Failed to dump metrics")
		}
	}

	logging.Info().
		Str("run_id", report.RunID).
		Int("rows", report.Rows).
		Float64("mean_loss", report.MeanLoss).
		Float64("duration_ms", report.DurationMS).
		Msg("Evaluation complete")
}

// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

package evaluation

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/sessionrank/internal/logging"
	"github.com/tomtom215/sessionrank/internal/ranking"
	"github.com/tomtom215/sessionrank/internal/tensor"
)

// Runner evaluates a set of batches in parallel.
type Runner struct {
	pipeline *Pipeline
	template *ranking.Suite
	workers  int
	logger   zerolog.Logger
}

// NewRunner creates a runner over pipeline. template defines the metric
// suite; it is never updated itself. workers < 1 is treated as 1.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRunner(pipeline *Pipeline, template *ranking.Suite, workers int, logger zerolog.Logger) (*Runner, error) {
	if pipeline == nil {
		return nil, fmt.Errorf("pipeline is required")
	}
	if template == nil {
		return nil, fmt.Errorf("metric suite is required")
	}
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		pipeline: pipeline,
		template: template,
		workers:  workers,
		logger:   logger.With().Str("component", "evaluation").Logger(),
	}, nil
}

// workerResult is what one worker hands back at the join point.
type workerResult struct {
	suite   *ranking.Suite
	batches int
	rows    int
	lossSum float64
}

// Run evaluates every batch and returns the aggregated report.
// Worker w processes batches w, w+workers, w+2*workers, ...
func (r *Runner) Run(ctx context.Context, batches []*tensor.IntMatrix) (*Report, error) {
	started := time.Now()
	runID := logging.NewRunID()
	ctx = logging.ContextWithLogger(ctx, r.logger)
	ctx = logging.ContextWithRunID(ctx, runID)
	log := logging.Ctx(ctx)

	workers := r.workers
	if workers > len(batches) && len(batches) > 0 {
		workers = len(batches)
	}

	log.Info().
		Int("batches", len(batches)).
		Int("workers", workers).
		Str("strategy", r.pipeline.Engine().Strategy().Name()).
		Msg("Evaluation starting")

	results := make([]workerResult, workers)
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		results[w].suite = r.template.Fresh()
		g.Go(func() error {
			res := &results[w]
			for i := w; i < len(batches); i += workers {
				if err := gctx.Err(); err != nil {
					return err
				}
				step, err := r.pipeline.Evaluate(gctx, batches[i], res.suite)
				if err != nil {
					return fmt.Errorf("batch %d: %w", i, err)
				}
				res.batches++
				res.rows += step.Prediction.Rows()
				res.lossSum += step.Loss * float64(step.Prediction.Rows())
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Evaluation failed")
		return nil, err
	}

	merged := r.template.Fresh()
	report := &Report{
		RunID:     runID,
		Strategy:  r.pipeline.Engine().Strategy().Name(),
		Workers:   workers,
		StartedAt: started.UTC(),
		Metrics:   map[string]float64{},
	}
	suites := make([]*ranking.Suite, 0, workers)
	for i := range results {
		suites = append(suites, results[i].suite)
		report.Batches += results[i].batches
		report.Rows += results[i].rows
		report.MeanLoss += results[i].lossSum
	}
	if err := merged.Merge(suites...); err != nil {
		return nil, fmt.Errorf("merge metric suites: %w", err)
	}

	if report.Rows > 0 {
		report.MeanLoss /= float64(report.Rows)
		values, err := r.pipeline.Task().ComputeMetrics(merged)
		if err != nil {
			return nil, err
		}
		report.Metrics = values
	} else {
		log.Warn().Msg("No non-pad targets in any batch; metrics are empty")
	}
	report.setDuration(time.Since(started))

	log.Info().
		Int("batches", report.Batches).
		Int("rows", report.Rows).
		Dur("duration", report.Duration).
		Msg("Evaluation complete")

	return report, nil
}

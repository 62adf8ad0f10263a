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

	"github.com/tomtom215/sessionrank/internal/masking"
	"github.com/tomtom215/sessionrank/internal/metrics"
	"github.com/tomtom215/sessionrank/internal/prediction"
	"github.com/tomtom215/sessionrank/internal/ranking"
	"github.com/tomtom215/sessionrank/internal/tensor"
)

// Stage names used for error accounting.
const (
	StageEmbed   = "embed"
	StageMask    = "mask"
	StageEncode  = "encode"
	StagePredict = "predict"
	StageLoss    = "loss"
	StageScore   = "score"
)

// StepResult is the outcome of one forward pass.
type StepResult struct {
	Info       *masking.Info
	Prediction *prediction.Prediction
	Loss       float64
}

// Pipeline wires the forward pass of one batch.
type Pipeline struct {
	engine     *masking.Engine
	embeddings *prediction.ItemEmbeddings
	encoder    Encoder
	task       *prediction.Task
	logger     zerolog.Logger
}

// NewPipeline assembles a pipeline. All components are required.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPipeline(engine *masking.Engine, embeddings *prediction.ItemEmbeddings, encoder Encoder, task *prediction.Task, logger zerolog.Logger) (*Pipeline, error) {
	switch {
	case engine == nil:
		return nil, fmt.Errorf("masking engine is required")
	case embeddings == nil:
		return nil, fmt.Errorf("item embeddings are required")
	case encoder == nil:
		return nil, fmt.Errorf("encoder is required")
	case task == nil:
		return nil, fmt.Errorf("prediction task is required")
	}
	return &Pipeline{
		engine:     engine,
		embeddings: embeddings,
		encoder:    encoder,
		task:       task,
		logger:     logger.With().Str("component", "evaluation").Logger(),
	}, nil
}

// Engine returns the masking engine.
func (p *Pipeline) Engine() *masking.Engine { return p.engine }

// Task returns the prediction task.
func (p *Pipeline) Task() *prediction.Task { return p.task }

// Step runs one batch of item ids through the forward pass.
func (p *Pipeline) Step(ctx context.Context, ids *tensor.IntMatrix, mode masking.Mode) (*StepResult, error) {
	start := time.Now()
	result, stage, err := p.step(ctx, ids, mode)
	metrics.RecordBatch(mode.String(), time.Since(start), stage)
	return result, err
}

// Evaluate runs one evaluation batch and scores it into suite.
func (p *Pipeline) Evaluate(ctx context.Context, ids *tensor.IntMatrix, suite *ranking.Suite) (*StepResult, error) {
	start := time.Now()
	result, stage, err := p.step(ctx, ids, masking.ModeEvaluation)
	if err == nil {
		if err = p.task.CalculateMetrics(suite, result.Prediction); err != nil {
			stage = StageScore
			err = fmt.Errorf("%s: %w", StageScore, err)
		}
	}
	metrics.RecordBatch(masking.ModeEvaluation.String(), time.Since(start), stage)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// step returns the failing stage alongside any error.
func (p *Pipeline) step(ctx context.Context, ids *tensor.IntMatrix, mode masking.Mode) (*StepResult, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	inputs, err := p.embeddings.Lookup(ids)
	if err != nil {
		return nil, StageEmbed, fmt.Errorf("%s: %w", StageEmbed, err)
	}

	masked, info, err := p.engine.Forward(inputs, ids, mode)
	if err != nil {
		return nil, StageMask, fmt.Errorf("%s: %w", StageMask, err)
	}

	encoded, err := p.encoder.Encode(ctx, masked, p.engine.EncoderConstraints(ids.Cols))
	if err != nil {
		return nil, StageEncode, fmt.Errorf("%s: %w", StageEncode, err)
	}
	if err := encoded.Validate(); err != nil {
		return nil, StageEncode, fmt.Errorf("%s: %w", StageEncode, err)
	}
	if encoded.B != ids.Rows || encoded.L != ids.Cols {
		return nil, StageEncode, fmt.Errorf("%s: %w", StageEncode,
			tensor.ShapeMismatchf("encoder output does not match batch (%d, %d)", ids.Rows, ids.Cols))
	}

	pred, err := p.task.Forward(encoded, info)
	if err != nil {
		return nil, StagePredict, fmt.Errorf("%s: %w", StagePredict, err)
	}

	loss, err := p.task.Loss(pred)
	if err != nil {
		return nil, StageLoss, fmt.Errorf("%s: %w", StageLoss, err)
	}

	p.logger.Debug().
		Str("mode", mode.String()).
		Int("batch", ids.Rows).
		Int("rows", pred.Rows()).
		Float64("loss", loss).
		Msg("Forward pass complete")

	return &StepResult{Info: info, Prediction: pred, Loss: loss}, "", nil
}

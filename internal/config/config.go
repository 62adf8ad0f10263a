// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

package config

import (
	"github.com/tomtom215/sessionrank/internal/baseline"
	"github.com/tomtom215/sessionrank/internal/evaluation"
	"github.com/tomtom215/sessionrank/internal/logging"
	"github.com/tomtom215/sessionrank/internal/masking"
	"github.com/tomtom215/sessionrank/internal/prediction"
)

// Config holds all Sessionrank configuration.
type Config struct {
	// Seed feeds every random source. Zero selects the fixed default seed.
	Seed int64 `koanf:"seed"`

	Masking    MaskingConfig    `koanf:"masking"`
	Head       HeadConfig       `koanf:"head"`
	Metrics    MetricsConfig    `koanf:"metrics"`
	Evaluation EvaluationConfig `koanf:"evaluation"`
	Baseline   BaselineConfig   `koanf:"baseline"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// MaskingConfig configures the masking strategy.
type MaskingConfig struct {
	// Strategy is one of mlm, clm or all.
	Strategy string `koanf:"strategy" validate:"oneof=mlm clm all"`

	// PadID marks positions without an interaction.
	PadID int `koanf:"pad_id" validate:"gte=0"`

	// Probability is the per-item selection probability for mlm.
	Probability float64 `koanf:"probability" validate:"gte=0,lte=1"`

	// EvalLastItemOnly scores only the last non-pad item in evaluation mode.
	EvalLastItemOnly bool `koanf:"eval_last_item_only"`

	// HiddenSize is the width of item embeddings and the masking placeholder.
	HiddenSize int `koanf:"hidden_size" validate:"gt=0"`
}

// HeadConfig configures the prediction head.
type HeadConfig struct {
	WeightTying        bool    `koanf:"weight_tying"`
	AutoProject        bool    `koanf:"auto_project"`
	SoftmaxTemperature float64 `koanf:"softmax_temperature" validate:"gte=0"`
}

// MetricsConfig selects the ranking metrics reported.
type MetricsConfig struct {
	Families []string `koanf:"families" validate:"required,min=1"`
	TopKs    []int    `koanf:"top_ks" validate:"required,min=1,dive,gt=0"`
}

// EvaluationConfig configures the evaluation pass.
type EvaluationConfig struct {
	Workers          int `koanf:"workers" validate:"gte=1,lte=256"`
	BatchSize        int `koanf:"batch_size" validate:"gt=0"`
	VocabSize        int `koanf:"vocab_size" validate:"gte=2"`
	SeqLen           int `koanf:"seq_len" validate:"gt=0"`
	Sessions         int `koanf:"sessions" validate:"gt=0"`
	MinSessionLength int `koanf:"min_session_length" validate:"gte=0"`
}

// BaselineConfig selects the reference scorers evaluated next to the model.
type BaselineConfig struct {
	// Scorers lists popularity and/or markov. Empty disables baselines.
	Scorers []string `koanf:"scorers" validate:"dive,oneof=popularity markov"`

	SmoothingAlpha     float64 `koanf:"smoothing_alpha" validate:"gt=0"`
	MinTransitionCount int     `koanf:"min_transition_count" validate:"gte=1"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format" validate:"oneof=json console"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// MaskingOptions converts the masking section into strategy options.
func (c *Config) MaskingOptions() masking.Options {
	return masking.Options{
		PadID:            c.Masking.PadID,
		Probability:      c.Masking.Probability,
		EvalLastItemOnly: c.Masking.EvalLastItemOnly,
	}
}

// PredictionHead converts the head section into a head configuration whose
// input width is the masking hidden size.
func (c *Config) PredictionHead() prediction.HeadConfig {
	return prediction.HeadConfig{
		InputWidth:  c.Masking.HiddenSize,
		VocabSize:   c.Evaluation.VocabSize,
		WeightTying: c.Head.WeightTying,
		AutoProject: c.Head.AutoProject,
		Temperature: c.Head.SoftmaxTemperature,
	}
}

// SessionConfig describes the synthetic session set of the evaluation pass.
func (c *Config) SessionConfig() evaluation.SessionConfig {
	return evaluation.SessionConfig{
		Sessions:  c.Evaluation.Sessions,
		SeqLen:    c.Evaluation.SeqLen,
		VocabSize: c.Evaluation.VocabSize,
		PadID:     c.Masking.PadID,
		MinLength: c.Evaluation.MinSessionLength,
	}
}

// MarkovConfig converts the baseline section for the Markov chain scorer.
func (c *Config) MarkovConfig() baseline.MarkovConfig {
	return baseline.MarkovConfig{
		SmoothingAlpha:     c.Baseline.SmoothingAlpha,
		MinTransitionCount: c.Baseline.MinTransitionCount,
	}
}

// LoggingOptions converts the logging section for logging.Init.
func (c *Config) LoggingOptions() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Logging.Level
	cfg.Format = c.Logging.Format
	cfg.Caller = c.Logging.Caller
	return cfg
}

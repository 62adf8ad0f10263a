// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

package config

import (
	"fmt"

	"github.com/tomtom215/sessionrank/internal/logging"
	"github.com/tomtom215/sessionrank/internal/ranking"
	"github.com/tomtom215/sessionrank/internal/validation"
)

// Validate checks struct tags and the cross-field rules.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	if err := c.validateMasking(); err != nil {
		return err
	}
	if err := c.validateMetrics(); err != nil {
		return err
	}
	if err := c.validateEvaluation(); err != nil {
		return err
	}
	return c.validateLogging()
}

// validateMasking checks the pad id lies inside the vocabulary.
func (c *Config) validateMasking() error {
	if c.Masking.PadID >= c.Evaluation.VocabSize {
		return fmt.Errorf("masking.pad_id %d must be below evaluation.vocab_size %d", c.Masking.PadID, c.Evaluation.VocabSize)
	}
	return nil
}

// validateMetrics checks family names and that every cutoff fits the vocabulary.
func (c *Config) validateMetrics() error {
	for _, family := range c.Metrics.Families {
		if _, ok := ranking.Lookup(family); !ok {
			return fmt.Errorf("metrics.families: unknown family %q (known: %v)", family, ranking.Families())
		}
	}
	for _, k := range c.Metrics.TopKs {
		if k > c.Evaluation.VocabSize {
			return fmt.Errorf("metrics.top_ks: cutoff %d exceeds evaluation.vocab_size %d", k, c.Evaluation.VocabSize)
		}
	}
	return nil
}

// validateEvaluation checks the synthetic session bounds.
func (c *Config) validateEvaluation() error {
	if c.Evaluation.MinSessionLength > c.Evaluation.SeqLen {
		return fmt.Errorf("evaluation.min_session_length %d exceeds evaluation.seq_len %d",
			c.Evaluation.MinSessionLength, c.Evaluation.SeqLen)
	}
	return nil
}

// validateLogging checks the log level name.
func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level: unknown level %q", c.Logging.Level)
	}
	return nil
}

// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/sessionrank/internal/ranking"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
var DefaultConfigPaths = []string{
	"sessionrank.yaml",
	"sessionrank.yml",
}

// ConfigPathEnvVar is the environment variable that overrides the config file path.
const ConfigPathEnvVar = "SESSIONRANK_CONFIG"

// defaultConfig returns a Config with every default value.
func defaultConfig() *Config {
	return &Config{
		Seed: 42,
		Masking: MaskingConfig{
			Strategy:         "mlm",
			PadID:            0,
			Probability:      0.15,
			EvalLastItemOnly: true,
			HiddenSize:       64,
		},
		Head: HeadConfig{
			WeightTying:        true,
			AutoProject:        false,
			SoftmaxTemperature: 1,
		},
		// Default suite: NDCG, recall and average precision at 10 and 20
		Metrics: MetricsConfig{
			Families: []string{ranking.FamilyNDCG, ranking.FamilyRecall, ranking.FamilyAvgPrecision},
			TopKs:    []int{10, 20},
		},
		Evaluation: EvaluationConfig{
			Workers:          4,
			BatchSize:        32,
			VocabSize:        1000,
			SeqLen:           20,
			Sessions:         1024,
			MinSessionLength: 1,
		},
		Baseline: BaselineConfig{
			Scorers:            []string{"popularity", "markov"},
			SmoothingAlpha:     0.1,
			MinTransitionCount: 1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Default returns the built-in configuration without reading any source.
func Default() *Config {
	return defaultConfig()
}

// Load loads configuration with layered sources:
//  1. Defaults
//  2. Config File (optional)
//  3. Environment Variables
func Load() (*Config, error) {
	return LoadFrom(findConfigFile())
}

// LoadFrom is Load with an explicit config file path. An empty path skips
// the file layer.
func LoadFrom(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first config file found, or "" if none exists.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths lists the paths parsed from comma-separated strings.
var sliceConfigPaths = []string{
	"metrics.families",
	"metrics.top_ks",
	"baseline.scorers",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields. Values from YAML are already slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	"seed": "seed",

	"masking_strategy":            "masking.strategy",
	"masking_pad_id":              "masking.pad_id",
	"masking_probability":         "masking.probability",
	"masking_eval_last_item_only": "masking.eval_last_item_only",
	"masking_hidden_size":         "masking.hidden_size",

	"head_weight_tying":        "head.weight_tying",
	"head_auto_project":        "head.auto_project",
	"head_softmax_temperature": "head.softmax_temperature",

	"metrics_families": "metrics.families",
	"metrics_top_ks":   "metrics.top_ks",

	"evaluation_workers":            "evaluation.workers",
	"evaluation_batch_size":         "evaluation.batch_size",
	"evaluation_vocab_size":         "evaluation.vocab_size",
	"evaluation_seq_len":            "evaluation.seq_len",
	"evaluation_sessions":           "evaluation.sessions",
	"evaluation_min_session_length": "evaluation.min_session_length",

	"baseline_scorers":              "baseline.scorers",
	"baseline_smoothing_alpha":      "baseline.smoothing_alpha",
	"baseline_min_transition_count": "baseline.min_transition_count",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf paths.
//
// Examples:
//   - MASKING_PROBABILITY -> masking.probability
//   - METRICS_TOP_KS -> metrics.top_ks
//   - LOG_LEVEL -> logging.level
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

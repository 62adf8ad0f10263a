// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

// Package config loads Sessionrank configuration with Koanf v2.
//
// # Loading Order
//
//  1. Defaults: built-in values from defaultConfig
//  2. Config File: optional YAML file (SESSIONRANK_CONFIG, then sessionrank.yaml)
//  3. Environment Variables: explicit mapped names, highest priority
//
// # Environment Variables
//
//	SEED                          - random seed for masking and initialisation
//	MASKING_STRATEGY              - mlm, clm or all (default: mlm)
//	MASKING_PAD_ID                - pad item id (default: 0)
//	MASKING_PROBABILITY           - MLM selection probability (default: 0.15)
//	MASKING_EVAL_LAST_ITEM_ONLY   - score only the last item in evaluation (default: true)
//	MASKING_HIDDEN_SIZE           - embedding width (default: 64)
//	HEAD_WEIGHT_TYING             - reuse item embeddings as output layer (default: true)
//	HEAD_AUTO_PROJECT             - project inputs to the embedding width when tying
//	HEAD_SOFTMAX_TEMPERATURE      - logit temperature, 0 disables (default: 1)
//	METRICS_FAMILIES              - comma separated metric families
//	METRICS_TOP_KS                - comma separated cutoffs (default: 10,20)
//	EVALUATION_WORKERS            - parallel evaluation workers (default: 4)
//	EVALUATION_BATCH_SIZE         - sessions per batch (default: 32)
//	EVALUATION_VOCAB_SIZE         - item vocabulary size including the pad (default: 1000)
//	EVALUATION_SEQ_LEN            - padded session length (default: 20)
//	EVALUATION_SESSIONS           - number of synthetic sessions (default: 1024)
//	EVALUATION_MIN_SESSION_LENGTH - shortest synthetic session (default: 1)
//	BASELINE_SCORERS              - comma separated baselines: popularity, markov
//	BASELINE_SMOOTHING_ALPHA      - Markov Laplace smoothing (default: 0.1)
//	BASELINE_MIN_TRANSITION_COUNT - rarest Markov transition kept (default: 1)
//	LOG_LEVEL, LOG_FORMAT, LOG_CALLER
//
// # Validation
//
// Load validates struct tags through internal/validation and then applies
// the cross-field rules in Config.Validate.
package config

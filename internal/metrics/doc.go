// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

/*
Package metrics provides Prometheus instrumentation for the masking,
prediction and evaluation stages.

Collectors are registered on the default registry through promauto and are
updated with the Record* helpers so the numeric packages never touch the
Prometheus API directly.

# Available Metrics

Masking:
  - sessionrank_masked_positions_total: positions selected as targets (counter)
    Labels: strategy, mode
  - sessionrank_masking_duration_seconds: schema computation time (histogram)
    Labels: strategy

Prediction:
  - sessionrank_head_rows_total: non-pad rows scored by the prediction head (counter)

Ranking:
  - sessionrank_metric_updates_total: per-batch metric updates (counter)
    Labels: metric

Evaluation:
  - sessionrank_batch_duration_seconds: end-to-end batch step time (histogram)
    Labels: mode
  - sessionrank_evaluation_errors_total: failed batch steps (counter)
    Labels: stage

# Exposition

The library does not serve HTTP. Hosts that want scraping mount
promhttp.Handler() themselves. Snapshot returns the sessionrank_* families
from any Gatherer and WriteText renders them in the text exposition format,
which the CLI uses for its -metrics dump. Tests read values with
prometheus/testutil.
*/
package metrics

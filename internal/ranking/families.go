// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

package ranking

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Func computes a ranking metric for every row and cutoff.
// The result has shape (rows, len(ks)).
type Func func(ks []int, scores, labels *mat.Dense) (*mat.Dense, error)

// Family names.
const (
	FamilyPrecision    = "precision_at"
	FamilyRecall       = "recall_at"
	FamilyAvgPrecision = "avg_precision_at"
	FamilyDCG          = "dcg_at"
	FamilyNDCG         = "ndcg_at"
)

// families maps family names to their implementation.
var families = map[string]Func{
	FamilyPrecision:    PrecisionAt,
	FamilyRecall:       RecallAt,
	FamilyAvgPrecision: AvgPrecisionAt,
	FamilyDCG:          DCGAt,
	FamilyNDCG:         NDCGAt,
}

// Families returns the registered family names in sorted order.
func Families() []string {
	names := make([]string, 0, len(families))
	for name := range families {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the family implementation for name.
func Lookup(name string) (Func, bool) {
	fn, ok := families[name]
	return fn, ok
}

// PrecisionAt computes precision@k for each cutoff.
func PrecisionAt(ks []int, scores, labels *mat.Dense) (*mat.Dense, error) {
	if err := checkInputs(ks, scores, labels); err != nil {
		return nil, err
	}
	return precisionFromTopK(ks, extractTopK(ks, scores, labels)), nil
}

func precisionFromTopK(ks []int, topk [][]float64) *mat.Dense {
	out := mat.NewDense(len(topk), len(ks), nil)
	for i, row := range topk {
		for c, k := range ks {
			out.Set(i, c, sumPrefix(row, k)/float64(k))
		}
	}
	return out
}

// RecallAt computes recall@k for each cutoff.
// Rows without relevant items score 0.
func RecallAt(ks []int, scores, labels *mat.Dense) (*mat.Dense, error) {
	if err := checkInputs(ks, scores, labels); err != nil {
		return nil, err
	}

	topk := extractTopK(ks, scores, labels)
	relevant := relevantCounts(labels)
	out := mat.NewDense(len(topk), len(ks), nil)
	for i, row := range topk {
		if relevant[i] == 0 {
			continue
		}
		for c, k := range ks {
			out.Set(i, c, sumPrefix(row, k)/relevant[i])
		}
	}
	return out, nil
}

// AvgPrecisionAt computes average precision@k for each cutoff.
// The sum of precision@i over relevant ranks i <= k is divided by
// min(relevant, k); rows without relevant items score 0.
func AvgPrecisionAt(ks []int, scores, labels *mat.Dense) (*mat.Dense, error) {
	if err := checkInputs(ks, scores, labels); err != nil {
		return nil, err
	}

	topk := extractTopK(ks, scores, labels)
	relevant := relevantCounts(labels)

	// precision at every rank 1..max(ks)
	ranks := make([]int, maxK(ks))
	for r := range ranks {
		ranks[r] = r + 1
	}
	precisions := precisionFromTopK(ranks, topk)

	out := mat.NewDense(len(topk), len(ks), nil)
	for i, row := range topk {
		relPrecision := make([]float64, len(row))
		for r, rel := range row {
			relPrecision[r] = precisions.At(i, r) * rel
		}

		for c, k := range ks {
			denom := math.Min(math.Max(relevant[i], 1), float64(k))
			out.Set(i, c, sumPrefix(relPrecision, k)/denom)
		}
	}
	return out, nil
}

// DCGAt computes discounted cumulative gain@k for each cutoff, ignoring ties.
func DCGAt(ks []int, scores, labels *mat.Dense) (*mat.Dense, error) {
	if err := checkInputs(ks, scores, labels); err != nil {
		return nil, err
	}
	return dcgFromTopK(ks, extractTopK(ks, scores, labels)), nil
}

// dcgFromTopK sums rel(i) / log2(i+1) over 1-based ranks i <= k.
func dcgFromTopK(ks []int, topk [][]float64) *mat.Dense {
	discounts := make([]float64, maxK(ks))
	for r := range discounts {
		discounts[r] = 1 / math.Log2(float64(r+2))
	}

	out := mat.NewDense(len(topk), len(ks), nil)
	for i, row := range topk {
		for c, k := range ks {
			gain := 0.0
			for r := 0; r < k && r < len(row); r++ {
				gain += row[r] * discounts[r]
			}
			out.Set(i, c, gain)
		}
	}
	return out
}

// NDCGAt computes normalized discounted cumulative gain@k for each cutoff.
// The ideal ranking reorders the retrieved top max(ks) items so the relevant
// ones come first. Rows whose ideal DCG is 0 score 0.
func NDCGAt(ks []int, scores, labels *mat.Dense) (*mat.Dense, error) {
	if err := checkInputs(ks, scores, labels); err != nil {
		return nil, err
	}

	topk := extractTopK(ks, scores, labels)
	ideal := make([][]float64, len(topk))
	for i, row := range topk {
		sorted := append([]float64(nil), row...)
		sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
		ideal[i] = sorted
	}

	gains := dcgFromTopK(ks, topk)
	idealGains := dcgFromTopK(ks, ideal)

	rows, cols := gains.Dims()
	for i := 0; i < rows; i++ {
		for c := 0; c < cols; c++ {
			norm := idealGains.At(i, c)
			if norm == 0 {
				gains.Set(i, c, 0)
				continue
			}
			gains.Set(i, c, gains.At(i, c)/norm)
		}
	}
	return gains, nil
}

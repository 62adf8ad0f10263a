// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

package baseline

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/tomtom215/sessionrank/internal/ranking"
	"github.com/tomtom215/sessionrank/internal/tensor"
)

const tolerance = 1e-12

func mustMatrix(t *testing.T, rows [][]int) *tensor.IntMatrix {
	t.Helper()
	m, err := tensor.IntMatrixFromRows(rows)
	if err != nil {
		t.Fatalf("IntMatrixFromRows() error = %v", err)
	}
	return m
}

func TestHoldout(t *testing.T) {
	sessions := [][]int{
		{0, 0, 1, 2},
		{0, 0, 0, 0},
		{0, 1, 3, 4},
	}
	prefixes, targets := Holdout(sessions, 0)

	wantPrefixes := [][]int{{0, 0, 1, 0}, {0, 1, 3, 0}}
	if !reflect.DeepEqual(prefixes, wantPrefixes) {
		t.Errorf("prefixes = %v, want %v", prefixes, wantPrefixes)
	}
	if !reflect.DeepEqual(targets, []int{2, 4}) {
		t.Errorf("targets = %v, want [2 4]", targets)
	}
	if sessions[0][3] != 2 {
		t.Error("Holdout() modified its input")
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"popularity", "popularity", false},
		{"markov", "markov", false},
		{"gru4rec", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.name, 5, 0, DefaultMarkovConfig())
			if (err != nil) != tt.wantErr {
				t.Fatalf("New(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if err == nil && s.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", s.Name(), tt.want)
			}
		})
	}

	if _, err := New("markov", 1, 0, DefaultMarkovConfig()); !errors.Is(err, tensor.ErrInvalidShape) {
		t.Errorf("New() with vocab 1 error = %v, want ErrInvalidShape", err)
	}
	if _, err := New("popularity", 4, 4, DefaultMarkovConfig()); !errors.Is(err, tensor.ErrInvalidShape) {
		t.Errorf("New() with pad outside vocab error = %v, want ErrInvalidShape", err)
	}
}

func TestPopularity(t *testing.T) {
	p, err := NewPopularity(4, 0)
	if err != nil {
		t.Fatalf("NewPopularity() error = %v", err)
	}
	if _, err := p.Score(mustMatrix(t, [][]int{{1}})); !errors.Is(err, ErrNotTrained) {
		t.Fatalf("Score() before Train error = %v, want ErrNotTrained", err)
	}

	if err := p.Train(context.Background(), [][]int{{0, 1, 1, 2}}); err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	scores, err := p.Score(mustMatrix(t, [][]int{{0, 2}, {1, 1}}))
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	want := []float64{padScore, 2.0 / 3, 1.0 / 3, 0}
	for i := 0; i < 2; i++ {
		for c, w := range want {
			if math.Abs(scores.At(i, c)-w) > tolerance {
				t.Errorf("score(%d, %d) = %f, want %f", i, c, scores.At(i, c), w)
			}
		}
	}
}

func TestPopularity_UniformBeforeData(t *testing.T) {
	p, _ := NewPopularity(5, 0)
	dist := p.Distribution()
	if dist[0] != 0 {
		t.Errorf("pad entry = %f, want 0", dist[0])
	}
	for id := 1; id < 5; id++ {
		if math.Abs(dist[id]-0.25) > tolerance {
			t.Errorf("dist[%d] = %f, want 0.25", id, dist[id])
		}
	}
}

func TestPopularity_RejectsOutOfRangeIDs(t *testing.T) {
	p, _ := NewPopularity(3, 0)
	if err := p.Train(context.Background(), [][]int{{1, 7}}); !errors.Is(err, tensor.ErrInvalidShape) {
		t.Errorf("Train() error = %v, want ErrInvalidShape", err)
	}
}

func TestMarkov_Transitions(t *testing.T) {
	m, err := NewMarkov(4, 0, DefaultMarkovConfig())
	if err != nil {
		t.Fatalf("NewMarkov() error = %v", err)
	}
	sessions := [][]int{{0, 1, 2}, {0, 1, 2}, {0, 1, 3}}
	if err := m.Train(context.Background(), sessions); err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	tests := []struct {
		from, to int
		want     float64
	}{
		{1, 2, 2.1 / 3.3},
		{1, 3, 1.1 / 3.3},
		{1, 1, 0.1 / 3.3},
		{1, 0, 0},
		{2, 1, 0},
	}
	for _, tt := range tests {
		if got := m.Transition(tt.from, tt.to); math.Abs(got-tt.want) > tolerance {
			t.Errorf("Transition(%d, %d) = %f, want %f", tt.from, tt.to, got, tt.want)
		}
	}

	scores, err := m.Score(mustMatrix(t, [][]int{{0, 0, 1}, {0, 1, 2}, {0, 0, 0}}))
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if got := scores.At(0, 2); math.Abs(got-2.1/3.3) > tolerance {
		t.Errorf("score after item 1 = %f, want %f", got, 2.1/3.3)
	}
	// Item 2 is never a source and the empty row has no last item: popularity
	wantFallback := []float64{padScore, 0.5, 1.0 / 3, 1.0 / 6}
	for _, row := range []int{1, 2} {
		for c, w := range wantFallback {
			if math.Abs(scores.At(row, c)-w) > tolerance {
				t.Errorf("fallback score(%d, %d) = %f, want %f", row, c, scores.At(row, c), w)
			}
		}
	}
}

func TestMarkov_MinTransitionCount(t *testing.T) {
	m, _ := NewMarkov(4, 0, MarkovConfig{SmoothingAlpha: 0.1, MinTransitionCount: 2})
	if err := m.Train(context.Background(), [][]int{{1, 2}, {1, 2}, {1, 3}}); err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	if got, want := m.Transition(1, 3), 0.1/2.3; math.Abs(got-want) > tolerance {
		t.Errorf("pruned Transition(1, 3) = %f, want %f", got, want)
	}
	if got := m.TransitionCount(); got != 1 {
		t.Errorf("TransitionCount() after pruning = %d, want 1", got)
	}
}

func TestMarkov_StoresObservedTransitionsOnly(t *testing.T) {
	const vocab = 100000
	m, err := NewMarkov(vocab, 0, DefaultMarkovConfig())
	if err != nil {
		t.Fatalf("NewMarkov() error = %v", err)
	}
	if err := m.Train(context.Background(), [][]int{{1, 2, 3}, {1, 2}, {vocab - 1, 1}}); err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	if got := m.TransitionCount(); got != 3 {
		t.Errorf("TransitionCount() = %d, want 3", got)
	}
	alpha := DefaultMarkovConfig().SmoothingAlpha
	if got, want := m.Transition(1, 2), (2+alpha)/(2+alpha*(vocab-1)); math.Abs(got-want) > tolerance {
		t.Errorf("Transition(1, 2) = %g, want %g", got, want)
	}
	if got, want := m.Transition(vocab-1, 5), alpha/(1+alpha*(vocab-1)); math.Abs(got-want) > tolerance {
		t.Errorf("unseen Transition(%d, 5) = %g, want %g", vocab-1, got, want)
	}
}

func TestMarkov_PadBreaksChain(t *testing.T) {
	m, _ := NewMarkov(4, 0, DefaultMarkovConfig())
	if err := m.Train(context.Background(), [][]int{{1, 0, 2}}); err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	if got := m.Transition(1, 2); got != 0 {
		t.Errorf("Transition(1, 2) across pad = %f, want 0", got)
	}
}

func TestEvaluate(t *testing.T) {
	sessions := make([][]int, 10)
	for i := range sessions {
		sessions[i] = []int{1, 2, 1, 2}
	}

	tests := []struct {
		name       string
		scorer     string
		wantRecall float64
	}{
		// 1 -> 2 is the only transition following item 1
		{"markov follows the chain", "markov", 1},
		// item 1 occurs twice per prefix, item 2 once
		{"popularity ranks item 1 first", "popularity", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scorer, err := New(tt.scorer, 3, 0, DefaultMarkovConfig())
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			suite, err := ranking.NewSuiteFor([]string{ranking.FamilyRecall}, []int{1})
			if err != nil {
				t.Fatalf("NewSuiteFor() error = %v", err)
			}

			result, err := Evaluate(context.Background(), scorer, sessions, 0, 3, suite)
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if result.Rows != len(sessions) {
				t.Errorf("rows = %d, want %d", result.Rows, len(sessions))
			}
			key := ranking.ResultKey(ranking.FamilyRecall, 1)
			if got := result.Metrics[key]; math.Abs(got-tt.wantRecall) > tolerance {
				t.Errorf("%s = %f, want %f", key, got, tt.wantRecall)
			}
		})
	}
}

func TestEvaluate_Errors(t *testing.T) {
	suite := ranking.DefaultSuite()
	scorer, _ := New("popularity", 30, 0, DefaultMarkovConfig())

	if _, err := Evaluate(context.Background(), scorer, [][]int{{1, 2}}, 0, 0, suite); err == nil {
		t.Error("Evaluate() with batch size 0 succeeded")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Evaluate(ctx, scorer, [][]int{{1, 2}}, 0, 1, suite); !errors.Is(err, context.Canceled) {
		t.Errorf("Evaluate() with canceled context error = %v, want context.Canceled", err)
	}

	// Default cutoffs reach 20, beyond this vocabulary
	small, _ := New("popularity", 5, 0, DefaultMarkovConfig())
	if _, err := Evaluate(context.Background(), small, [][]int{{1, 2}}, 0, 1, suite); !errors.Is(err, tensor.ErrInvalidShape) {
		t.Errorf("Evaluate() with k > vocab error = %v, want ErrInvalidShape", err)
	}
}

func TestEvaluate_NoSessions(t *testing.T) {
	scorer, _ := New("markov", 30, 0, DefaultMarkovConfig())
	result, err := Evaluate(context.Background(), scorer, [][]int{{0, 0}}, 0, 4, ranking.DefaultSuite())
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if result.Rows != 0 || len(result.Metrics) != 0 {
		t.Errorf("result = %+v, want zero rows and no metrics", result)
	}
}

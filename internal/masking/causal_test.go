// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

package masking

import (
	"math"
	"reflect"
	"testing"
)

func TestCausalLM_Training(t *testing.T) {
	c := NewCausalLM(DefaultOptions())
	ids := mustIDs(t, [][]int{{0, 4, 5, 6}})

	info, err := c.ComputeMaskedTargets(ids, ModeTraining, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := info.Targets.Row(0), []int{4, 5, 6, 0}; !reflect.DeepEqual(got, want) {
		t.Errorf("targets = %v, want %v", got, want)
	}
	if got, want := info.Schema.Row(0), []bool{true, true, true, false}; !reflect.DeepEqual(got, want) {
		t.Errorf("schema = %v, want %v", got, want)
	}
}

func TestCausalLM_EvaluationLastItem(t *testing.T) {
	c := NewCausalLM(Options{PadID: 0, EvalLastItemOnly: true})
	ids := mustIDs(t, [][]int{{0, 4, 5, 6}})

	info, err := c.ComputeMaskedTargets(ids, ModeEvaluation, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := info.Schema.Row(0), []bool{false, false, false, true}; !reflect.DeepEqual(got, want) {
		t.Errorf("schema = %v, want %v", got, want)
	}
}

func TestCausalLM_Constraints(t *testing.T) {
	c := NewCausalLM(DefaultOptions())
	got := c.EncoderConstraints(3)
	if !got.Causal {
		t.Error("causal strategy returned bidirectional constraints")
	}
	if len(got.AttentionMask) != 3 || !math.IsInf(got.AttentionMask[0][1], -1) {
		t.Errorf("attention mask = %v", got.AttentionMask)
	}

	if NewMaskedLM(DefaultOptions()).EncoderConstraints(3).Causal {
		t.Error("masked strategy returned causal constraints")
	}
}

func TestPredictAll_IgnoresMode(t *testing.T) {
	p := NewPredictAll(0)
	ids := mustIDs(t, [][]int{{0, 0, 5, 3, 7}})

	train, err := p.ComputeMaskedTargets(ids, ModeTraining, nil)
	if err != nil {
		t.Fatal(err)
	}
	eval, err := p.ComputeMaskedTargets(ids, ModeEvaluation, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(train, eval) {
		t.Error("predict-all schema depends on mode")
	}
	if got := train.Schema.Count(); got != 3 {
		t.Errorf("masked = %d, want 3", got)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		strategy string
		wantErr  bool
	}{
		{"masked", "mlm", false},
		{"causal", "clm", false},
		{"predict all", "all", false},
		{"unknown", "plm", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.strategy, DefaultOptions())
			if (err != nil) != tt.wantErr {
				t.Fatalf("New(%q) error = %v, wantErr %v", tt.strategy, err, tt.wantErr)
			}
			if err == nil && s.Name() != tt.strategy {
				t.Errorf("Name() = %q, want %q", s.Name(), tt.strategy)
			}
		})
	}
}

func TestModeString(t *testing.T) {
	if ModeTraining.String() != "training" || ModeEvaluation.String() != "evaluation" || Mode(9).String() != "unknown" {
		t.Error("unexpected mode names")
	}
}

// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

package evaluation

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/sessionrank/internal/masking"
	"github.com/tomtom215/sessionrank/internal/metrics"
	"github.com/tomtom215/sessionrank/internal/prediction"
	"github.com/tomtom215/sessionrank/internal/ranking"
	"github.com/tomtom215/sessionrank/internal/tensor"
)

const (
	testVocab  = 20
	testHidden = 4
	testSeqLen = 6
)

func newTestPipeline(t *testing.T, encoder Encoder) *Pipeline {
	t.Helper()
	rng := rand.New(rand.NewSource(99))

	engine, err := masking.NewEngine(masking.NewMaskedLM(masking.DefaultOptions()), testHidden, 7, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	table, err := prediction.NewItemEmbeddings(testVocab, testHidden, 0, rng)
	if err != nil {
		t.Fatalf("NewItemEmbeddings() error = %v", err)
	}
	head, err := prediction.NewHead(prediction.HeadConfig{InputWidth: testHidden, WeightTying: true, Temperature: 1}, table, rng)
	if err != nil {
		t.Fatalf("NewHead() error = %v", err)
	}
	task, err := prediction.NewTask(head, 0, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}
	p, err := NewPipeline(engine, table, encoder, task, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewPipeline() error = %v", err)
	}
	return p
}

func testBatch(t *testing.T, sessions int, seed int64) *tensor.IntMatrix {
	t.Helper()
	rows, err := SyntheticSessions(SessionConfig{Sessions: sessions, SeqLen: testSeqLen, VocabSize: testVocab}, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("SyntheticSessions() error = %v", err)
	}
	ids, err := tensor.IntMatrixFromRows(rows)
	if err != nil {
		t.Fatalf("IntMatrixFromRows() error = %v", err)
	}
	return ids
}

func testSuite(t *testing.T) *ranking.Suite {
	t.Helper()
	s, err := ranking.NewSuiteFor(ranking.Families(), []int{1, 5})
	if err != nil {
		t.Fatalf("NewSuiteFor() error = %v", err)
	}
	return s
}

func TestNewPipeline_RequiresComponents(t *testing.T) {
	p := newTestPipeline(t, IdentityEncoder{})
	table, _ := prediction.NewItemEmbeddings(testVocab, testHidden, 0, rand.New(rand.NewSource(1)))

	tests := []struct {
		name    string
		engine  *masking.Engine
		table   *prediction.ItemEmbeddings
		encoder Encoder
		task    *prediction.Task
	}{
		{"no engine", nil, table, IdentityEncoder{}, p.Task()},
		{"no embeddings", p.Engine(), nil, IdentityEncoder{}, p.Task()},
		{"no encoder", p.Engine(), table, nil, p.Task()},
		{"no task", p.Engine(), table, IdentityEncoder{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPipeline(tt.engine, tt.table, tt.encoder, tt.task, zerolog.Nop()); err == nil {
				t.Error("NewPipeline() succeeded, want error")
			}
		})
	}
}

func TestPipeline_StepEvaluation(t *testing.T) {
	p := newTestPipeline(t, IdentityEncoder{})
	ids := testBatch(t, 8, 1)

	result, err := p.Step(context.Background(), ids, masking.ModeEvaluation)
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}

	// last-item-only evaluation scores one position per non-empty session
	if result.Prediction.Rows() != 8 {
		t.Errorf("Rows() = %d, want 8", result.Prediction.Rows())
	}
	for i, target := range result.Prediction.Targets {
		if want := ids.At(i, testSeqLen-1); target != want {
			t.Errorf("target %d = %d, want last item %d", i, target, want)
		}
	}
	if result.Loss <= 0 {
		t.Errorf("Loss = %f, want > 0", result.Loss)
	}
	if result.Info.Schema.Count() != 8 {
		t.Errorf("schema count = %d, want 8", result.Info.Schema.Count())
	}
}

func TestPipeline_StepTraining(t *testing.T) {
	p := newTestPipeline(t, IdentityEncoder{})
	ids := testBatch(t, 16, 2)

	result, err := p.Step(context.Background(), ids, masking.ModeTraining)
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if result.Prediction.Rows() != result.Info.Schema.Count() {
		t.Errorf("Rows() = %d, schema count = %d, want equal", result.Prediction.Rows(), result.Info.Schema.Count())
	}
}

func TestPipeline_StepErrors(t *testing.T) {
	failing := EncoderFunc(func(context.Context, *tensor.Tensor3, masking.Constraints) (*tensor.Tensor3, error) {
		return nil, errors.New("encoder unavailable")
	})
	truncating := EncoderFunc(func(_ context.Context, in *tensor.Tensor3, _ masking.Constraints) (*tensor.Tensor3, error) {
		return tensor.NewTensor3(in.B, in.L-1, in.H), nil
	})
	short := EncoderFunc(func(_ context.Context, in *tensor.Tensor3, _ masking.Constraints) (*tensor.Tensor3, error) {
		return &tensor.Tensor3{B: in.B, L: in.L, H: in.H, Data: in.Data[:len(in.Data)-1]}, nil
	})
	empty := EncoderFunc(func(context.Context, *tensor.Tensor3, masking.Constraints) (*tensor.Tensor3, error) {
		return nil, nil
	})

	tests := []struct {
		name    string
		encoder Encoder
		stage   string
		wantErr error
	}{
		{"encoder failure", failing, StageEncode, nil},
		{"encoder shape", truncating, StageEncode, tensor.ErrShapeMismatch},
		{"encoder short data", short, StageEncode, tensor.ErrInvalidShape},
		{"encoder nil output", empty, StageEncode, tensor.ErrInvalidShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPipeline(t, tt.encoder)
			before := testutil.ToFloat64(metrics.EvaluationErrors.WithLabelValues(tt.stage))

			_, err := p.Step(context.Background(), testBatch(t, 2, 3), masking.ModeEvaluation)
			if err == nil {
				t.Fatal("Step() succeeded, want error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Step() error = %v, want %v", err, tt.wantErr)
			}
			if got := testutil.ToFloat64(metrics.EvaluationErrors.WithLabelValues(tt.stage)) - before; got != 1 {
				t.Errorf("%s errors delta = %f, want 1", tt.stage, got)
			}
		})
	}
}

func TestPipeline_StepOutOfVocabulary(t *testing.T) {
	p := newTestPipeline(t, IdentityEncoder{})
	ids, _ := tensor.IntMatrixFromRows([][]int{{0, 3, testVocab}})

	_, err := p.Step(context.Background(), ids, masking.ModeEvaluation)
	if !errors.Is(err, tensor.ErrInvalidShape) {
		t.Errorf("Step() error = %v, want ErrInvalidShape", err)
	}
}

func TestPipeline_StepCancelled(t *testing.T) {
	p := newTestPipeline(t, IdentityEncoder{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Step(ctx, testBatch(t, 2, 4), masking.ModeEvaluation); !errors.Is(err, context.Canceled) {
		t.Errorf("Step() error = %v, want context.Canceled", err)
	}
}

func TestPipeline_Evaluate(t *testing.T) {
	p := newTestPipeline(t, IdentityEncoder{})
	suite := testSuite(t)

	if _, err := p.Evaluate(context.Background(), testBatch(t, 5, 5), suite); err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if suite.Rows() != 5 {
		t.Errorf("suite rows = %d, want 5", suite.Rows())
	}
	results, err := suite.Compute()
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	for key, v := range results {
		if v < 0 || (key != "dcg_at_1" && key != "dcg_at_5" && v > 1) {
			t.Errorf("%s = %f out of range", key, v)
		}
	}
}

func TestIdentityEncoder(t *testing.T) {
	in := tensor.NewTensor3(1, 2, 3)
	out, err := IdentityEncoder{}.Encode(context.Background(), in, masking.Constraints{})
	if err != nil || out != in {
		t.Errorf("Encode() = %p, %v, want input back", out, err)
	}
}

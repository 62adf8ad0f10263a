// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

package prediction

import (
	"errors"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/sessionrank/internal/masking"
	"github.com/tomtom215/sessionrank/internal/metrics"
	"github.com/tomtom215/sessionrank/internal/ranking"
	"github.com/tomtom215/sessionrank/internal/tensor"
)

func newTestTask(t *testing.T) *Task {
	t.Helper()
	head, err := NewHead(HeadConfig{InputWidth: 2, VocabSize: 8}, nil, testRNG())
	if err != nil {
		t.Fatalf("NewHead() error = %v", err)
	}
	task, err := NewTask(head, 0, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}
	return task
}

func infoFromTargets(t *testing.T, rows [][]int) *masking.Info {
	t.Helper()
	targets, err := tensor.IntMatrixFromRows(rows)
	if err != nil {
		t.Fatalf("IntMatrixFromRows() error = %v", err)
	}
	schema := tensor.NewBoolMatrix(targets.Rows, targets.Cols)
	for i := 0; i < targets.Rows; i++ {
		for j := 0; j < targets.Cols; j++ {
			schema.Set(i, j, targets.At(i, j) != 0)
		}
	}
	return &masking.Info{Schema: schema, Targets: targets}
}

func TestNewTask_RequiresHead(t *testing.T) {
	if _, err := NewTask(nil, 0, zerolog.Nop()); err == nil {
		t.Error("NewTask(nil) succeeded")
	}
}

func TestTask_ForwardErrors(t *testing.T) {
	task := newTestTask(t)
	x := tensor.NewTensor3(2, 3, 2)

	if _, err := task.Forward(x, nil); !errors.Is(err, masking.ErrMissingMasking) {
		t.Errorf("Forward() without masking error = %v, want ErrMissingMasking", err)
	}
	if _, err := task.Forward(x, &masking.Info{}); !errors.Is(err, masking.ErrMissingMasking) {
		t.Errorf("Forward() with empty info error = %v, want ErrMissingMasking", err)
	}

	info := infoFromTargets(t, [][]int{{0, 1}, {2, 0}})
	if _, err := task.Forward(x, info); !errors.Is(err, tensor.ErrShapeMismatch) {
		t.Errorf("Forward() with mismatched targets error = %v, want ErrShapeMismatch", err)
	}

	pad := infoFromTargets(t, [][]int{{0, 1, 2}, {3, 0, 0}})
	malformed := []*tensor.Tensor3{
		nil,
		tensor.NewTensor3(0, 3, 2),
		{B: 2, L: 3, H: 2, Data: make([]float64, 11)},
	}
	for _, m := range malformed {
		if _, err := task.Forward(m, pad); !errors.Is(err, tensor.ErrInvalidShape) {
			t.Errorf("Forward() with malformed inputs error = %v, want ErrInvalidShape", err)
		}
	}
}

func TestTask_ForwardStripsPadPositions(t *testing.T) {
	task := newTestTask(t)
	x := tensor.NewTensor3(2, 3, 2)
	for i := range x.Data {
		x.Data[i] = float64(i)
	}
	info := infoFromTargets(t, [][]int{{0, 5, 0}, {0, 0, 7}})

	before := testutil.ToFloat64(metrics.HeadRows)
	pred, err := task.Forward(x, info)
	if err != nil {
		t.Fatalf("Forward() error = %v", err)
	}
	if got := testutil.ToFloat64(metrics.HeadRows) - before; got != 2 {
		t.Errorf("head rows delta = %f, want 2", got)
	}

	if pred.Rows() != 2 || pred.Targets[0] != 5 || pred.Targets[1] != 7 {
		t.Fatalf("targets = %v, want [5 7]", pred.Targets)
	}

	rows := mat.NewDense(2, 2, nil)
	rows.SetRow(0, x.Vector(0, 1))
	rows.SetRow(1, x.Vector(1, 2))
	want, err := task.Head().Forward(rows)
	if err != nil {
		t.Fatalf("Head().Forward() error = %v", err)
	}
	if !mat.EqualApprox(pred.LogProbs, want, 1e-12) {
		t.Errorf("log-probs differ from scoring the non-pad rows directly")
	}
}

func TestTask_ForwardAllPad(t *testing.T) {
	task := newTestTask(t)
	pred, err := task.Forward(tensor.NewTensor3(1, 3, 2), infoFromTargets(t, [][]int{{0, 0, 0}}))
	if err != nil {
		t.Fatalf("Forward() error = %v", err)
	}
	if pred.Rows() != 0 || pred.LogProbs != nil {
		t.Errorf("Rows() = %d, LogProbs = %v, want empty prediction", pred.Rows(), pred.LogProbs)
	}

	loss, err := task.Loss(pred)
	if err != nil || loss != 0 {
		t.Errorf("Loss() = %f, %v, want 0, nil", loss, err)
	}

	suite, err := ranking.NewSuiteFor([]string{ranking.FamilyPrecision}, []int{1})
	if err != nil {
		t.Fatalf("NewSuiteFor() error = %v", err)
	}
	if err := task.CalculateMetrics(suite, pred); err != nil {
		t.Fatalf("CalculateMetrics() error = %v", err)
	}
	if _, err := task.ComputeMetrics(suite); !errors.Is(err, ranking.ErrNoBatches) {
		t.Errorf("ComputeMetrics() error = %v, want ErrNoBatches", err)
	}
}

func logRows(rows [][]float64) *mat.Dense {
	m := mat.NewDense(len(rows), len(rows[0]), nil)
	for i, row := range rows {
		logged := make([]float64, len(row))
		for j, p := range row {
			logged[j] = math.Log(p)
		}
		m.SetRow(i, logged)
	}
	return m
}

func TestTask_Loss(t *testing.T) {
	task := newTestTask(t)
	probs := [][]float64{
		{0.5, 0.25, 0.25},
		{0.1, 0.1, 0.8},
	}

	tests := []struct {
		name    string
		targets []int
		want    float64
	}{
		{"all rows count", []int{1, 2}, -(math.Log(0.25) + math.Log(0.8)) / 2},
		{"pad target ignored", []int{0, 2}, -math.Log(0.8)},
		{"only pad targets", []int{0, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := task.Loss(&Prediction{LogProbs: logRows(probs), Targets: tt.targets})
			if err != nil {
				t.Fatalf("Loss() error = %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Loss() = %f, want %f", got, tt.want)
			}
		})
	}

	if _, err := task.Loss(&Prediction{LogProbs: logRows(probs), Targets: []int{1}}); !errors.Is(err, tensor.ErrShapeMismatch) {
		t.Errorf("Loss() with short targets error = %v, want ErrShapeMismatch", err)
	}
}

func TestTask_CalculateAndComputeMetrics(t *testing.T) {
	task := newTestTask(t)
	suite, err := ranking.NewSuiteFor([]string{ranking.FamilyPrecision, ranking.FamilyRecall}, []int{1, 2})
	if err != nil {
		t.Fatalf("NewSuiteFor() error = %v", err)
	}

	pred := &Prediction{
		LogProbs: logRows([][]float64{
			{0.1, 0.6, 0.3},
			{0.2, 0.5, 0.3},
		}),
		Targets: []int{1, 2},
	}
	if err := task.CalculateMetrics(suite, pred); err != nil {
		t.Fatalf("CalculateMetrics() error = %v", err)
	}

	got, err := task.ComputeMetrics(suite)
	if err != nil {
		t.Fatalf("ComputeMetrics() error = %v", err)
	}
	want := map[string]float64{
		"precision_at_1": 0.5,
		"precision_at_2": 0.5,
		"recall_at_1":    0.5,
		"recall_at_2":    1,
	}
	for key, w := range want {
		if !scalar.EqualWithinAbs(got[key], w, 1e-12) {
			t.Errorf("%s = %f, want %f", key, got[key], w)
		}
	}
}

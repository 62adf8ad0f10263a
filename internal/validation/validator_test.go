// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

type testMasking struct {
	Strategy    string  `koanf:"strategy" validate:"oneof=mlm clm all"`
	Probability float64 `koanf:"probability" validate:"gte=0,lte=1"`
}

type testConfig struct {
	Masking testMasking `koanf:"masking"`
	TopKs   []int       `koanf:"top_ks" validate:"required,min=1,dive,gt=0"`
	Workers int         `validate:"gte=1"`
}

func validConfig() testConfig {
	return testConfig{
		Masking: testMasking{Strategy: "mlm", Probability: 0.15},
		TopKs:   []int{10, 20},
		Workers: 4,
	}
}

func TestValidateStruct_Valid(t *testing.T) {
	cfg := validConfig()
	if err := ValidateStruct(&cfg); err != nil {
		t.Errorf("ValidateStruct() = %v, want nil", err)
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*testConfig)
		wantField string
		wantTag   string
		wantMsg   string
	}{
		{
			name:      "unknown strategy",
			mutate:    func(c *testConfig) { c.Masking.Strategy = "plm" },
			wantField: "masking.strategy",
			wantTag:   "oneof",
			wantMsg:   "masking.strategy must be one of: mlm clm all",
		},
		{
			name:      "probability above one",
			mutate:    func(c *testConfig) { c.Masking.Probability = 1.5 },
			wantField: "masking.probability",
			wantTag:   "lte",
			wantMsg:   "masking.probability must be less than or equal to 1",
		},
		{
			name:      "missing cutoffs",
			mutate:    func(c *testConfig) { c.TopKs = nil },
			wantField: "top_ks",
			wantTag:   "required",
			wantMsg:   "top_ks is required",
		},
		{
			name:      "empty cutoffs",
			mutate:    func(c *testConfig) { c.TopKs = []int{} },
			wantField: "top_ks",
			wantTag:   "min",
			wantMsg:   "top_ks must have at least 1 entries",
		},
		{
			name:      "zero cutoff",
			mutate:    func(c *testConfig) { c.TopKs = []int{5, 0} },
			wantField: "top_ks[1]",
			wantTag:   "gt",
			wantMsg:   "top_ks[1] must be greater than 0",
		},
		{
			name:      "untagged field uses Go name",
			mutate:    func(c *testConfig) { c.Workers = 0 },
			wantField: "Workers",
			wantTag:   "gte",
			wantMsg:   "Workers must be greater than or equal to 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := ValidateStruct(&cfg)
			if err == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			errs := err.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors (%v), want 1", len(errs), err)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Tag() != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", errs[0].Tag(), tt.wantTag)
			}
			if errs[0].Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", errs[0].Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidateStruct_MultipleErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Masking.Strategy = ""
	cfg.Workers = -1

	err := ValidateStruct(&cfg)
	if err == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}
	fields := err.Fields()
	if len(fields) != 2 || fields[0] != "masking.strategy" || fields[1] != "Workers" {
		t.Errorf("Fields() = %v, want [masking.strategy Workers]", fields)
	}
	if !strings.Contains(err.Error(), "; ") {
		t.Errorf("Error() = %q, want messages joined by '; '", err.Error())
	}
}

func TestStructValidationError_Empty(t *testing.T) {
	err := &StructValidationError{}
	if err.Error() != "validation failed" {
		t.Errorf("Error() = %q, want 'validation failed'", err.Error())
	}
}

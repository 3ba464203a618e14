// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

package validation

import (
	"errors"
	"strings"
	"testing"
)

type sample struct {
	Backend  string  `validate:"required,oneof=badger nats redis"`
	Schedule string  `validate:"required,cronspec"`
	Rate     float64 `validate:"gt=0"`
	Limit    int     `validate:"min=1,max=1000"`
}

func TestGetValidator_Singleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator() should return the same singleton instance")
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name       string
		input      sample
		wantFields []string
	}{
		{
			name:  "valid",
			input: sample{Backend: "badger", Schedule: "@every 15m", Rate: 2, Limit: 10},
		},
		{
			name:  "standard five field schedule",
			input: sample{Backend: "redis", Schedule: "*/5 * * * *", Rate: 1, Limit: 1},
		},
		{
			name:       "unknown backend",
			input:      sample{Backend: "firestore", Schedule: "@hourly", Rate: 1, Limit: 1},
			wantFields: []string{"sample.Backend"},
		},
		{
			name:       "bad schedule and zero rate",
			input:      sample{Backend: "nats", Schedule: "every so often", Rate: 0, Limit: 1},
			wantFields: []string{"sample.Schedule", "sample.Rate"},
		},
		{
			name:       "limit out of range",
			input:      sample{Backend: "nats", Schedule: "@daily", Rate: 1, Limit: 5000},
			wantFields: []string{"sample.Limit"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var verrs Errors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected validation.Errors, got %T (%v)", err, err)
			}
			got := strings.Join(verrs.Fields(), ",")
			want := strings.Join(tt.wantFields, ",")
			if got != want {
				t.Errorf("failing fields = %s, want %s", got, want)
			}
		})
	}
}

func TestValidateStruct_Messages(t *testing.T) {
	err := ValidateStruct(&sample{Backend: "", Schedule: "@every 1m", Rate: 1, Limit: 1})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "sample.Backend is required") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestValidateCronSpec(t *testing.T) {
	if err := ValidateCronSpec("@every 30s"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateCronSpec("61 * * * *"); err == nil {
		t.Error("expected error for minute 61")
	}
}

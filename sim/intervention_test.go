package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeterministic_Validation(t *testing.T) {
	tests := []struct {
		name    string
		minutes float64
		wantErr bool
	}{
		{"zero is allowed", 0, false},
		{"positive value", 12.5, false},
		{"negative rejected", -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv, err := Deterministic(tt.minutes)
			if tt.wantErr {
				var invalid InvalidInterventionError
				assert.True(t, errors.As(err, &invalid))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, KindDeterministic, iv.Kind)
			assert.Equal(t, tt.minutes, iv.Value)
		})
	}
}

func TestSpeedup_Validation(t *testing.T) {
	tests := []struct {
		name     string
		fraction float64
		wantErr  bool
	}{
		{"mid range", 0.5, false},
		{"near zero", 0.001, false},
		{"near one", 0.999, false},
		{"zero rejected", 0, true},
		{"one rejected", 1, true}, // 100% speedup is ambiguous; use Deterministic(0)
		{"above one rejected", 1.5, true},
		{"negative rejected", -0.2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Speedup(tt.fraction)
			if tt.wantErr {
				var invalid InvalidInterventionError
				assert.True(t, errors.As(err, &invalid))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSlowdown_Validation(t *testing.T) {
	if _, err := Slowdown(0.25); err != nil {
		t.Fatalf("Slowdown(0.25) unexpected error: %v", err)
	}
	// Slowdowns above 100% are meaningful (e.g. 2x longer)
	if _, err := Slowdown(2.0); err != nil {
		t.Fatalf("Slowdown(2.0) unexpected error: %v", err)
	}

	var invalid InvalidInterventionError
	_, err := Slowdown(0)
	assert.True(t, errors.As(err, &invalid))
	_, err = Slowdown(-1)
	assert.True(t, errors.As(err, &invalid))
}

func TestIntervention_Apply(t *testing.T) {
	det, _ := Deterministic(3)
	speedup, _ := Speedup(0.25)
	slowdown, _ := Slowdown(0.5)

	assert.Equal(t, 3.0, det.Apply(100))
	assert.InDelta(t, 75.0, speedup.Apply(100), 1e-12)
	assert.InDelta(t, 150.0, slowdown.Apply(100), 1e-12)

	// no-kind intervention leaves the sample unchanged
	assert.Equal(t, 42.0, Intervention{}.Apply(42))

	// clamp at zero, even though valid fractions cannot produce negatives
	assert.Equal(t, 0.0, speedup.Apply(-10))
}

package sim

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario_FullConfig(t *testing.T) {
	path := writeScenario(t, `
run_count: 500
max_trace_length: 30
seed: 42
interventions:
  Review Claim:
    type: speedup
    fraction: 0.25
  Approve:
    type: deterministic
    value: 0
  Archive:
    type: slowdown
    fraction: 1.5
`)

	sc, err := LoadScenario(path)
	require.NoError(t, err)
	cfg, err := sc.RunConfig()
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.RunCount)
	assert.Equal(t, 30, cfg.MaxTraceLength)
	assert.Equal(t, int64(42), cfg.Seed)
	require.Len(t, cfg.Interventions, 3)
	assert.Equal(t, KindSpeedup, cfg.Interventions["Review Claim"].Kind)
	assert.Equal(t, 0.25, cfg.Interventions["Review Claim"].Value)
	assert.Equal(t, KindDeterministic, cfg.Interventions["Approve"].Kind)
	assert.Equal(t, KindSlowdown, cfg.Interventions["Archive"].Kind)
}

func TestLoadScenario_RejectsUnknownKeys(t *testing.T) {
	path := writeScenario(t, `
run_count: 10
max_trace_len: 5
`)
	_, err := LoadScenario(path)
	assert.Error(t, err, "typoed keys must be rejected by strict parsing")
}

func TestScenario_InvalidInterventionSurfacesAtLoadTime(t *testing.T) {
	path := writeScenario(t, `
run_count: 10
max_trace_length: 5
seed: 1
interventions:
  Approve:
    type: speedup
    fraction: 1.0
`)
	sc, err := LoadScenario(path)
	require.NoError(t, err)

	_, err = sc.RunConfig()
	var invalid InvalidInterventionError
	assert.True(t, errors.As(err, &invalid))
}

func TestScenario_UnknownInterventionType(t *testing.T) {
	spec := InterventionSpec{Type: "pause", Value: 1}
	_, err := spec.Build()
	var invalid InvalidInterventionError
	assert.True(t, errors.As(err, &invalid))
}

func TestScenario_DefaultTraceLength(t *testing.T) {
	sc := &Scenario{RunCount: 10}
	cfg, err := sc.RunConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxTraceLength, cfg.MaxTraceLength)
}

func TestScenario_InvalidCounts(t *testing.T) {
	sc := &Scenario{RunCount: 0, MaxTraceLength: 5}
	_, err := sc.RunConfig()
	assert.Error(t, err)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

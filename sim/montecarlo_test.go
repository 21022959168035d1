package sim

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunConfig_Validate(t *testing.T) {
	valid := RunConfig{RunCount: 10, MaxTraceLength: 5}
	assert.NoError(t, valid.Validate())
	assert.Error(t, RunConfig{RunCount: 0, MaxTraceLength: 5}.Validate())
	assert.Error(t, RunConfig{RunCount: 10, MaxTraceLength: 0}.Validate())
}

func TestRun_SameSeedIdenticalResults(t *testing.T) {
	// GIVEN two orchestrations with identical seed, model and interventions
	log, table, profiles := claimModel()
	speedup, _ := Speedup(0.2)
	cfg := RunConfig{
		RunCount:       200,
		MaxTraceLength: 25,
		Seed:           42,
		Interventions:  InterventionSet{"B": speedup},
	}

	res1, err := Run(context.Background(), log, table, profiles, cfg)
	require.NoError(t, err)
	res2, err := Run(context.Background(), log, table, profiles, cfg)
	require.NoError(t, err)

	// THEN the results are bit-identical despite the parallel fan-out
	if !reflect.DeepEqual(res1, res2) {
		t.Fatal("two runs with the same seed produced different results")
	}
}

func TestRun_DifferentSeedsDifferentTraces(t *testing.T) {
	log, table, profiles := claimModel()
	cfg := RunConfig{RunCount: 100, MaxTraceLength: 25, Seed: 1}

	res1, err := Run(context.Background(), log, table, profiles, cfg)
	require.NoError(t, err)
	cfg.Seed = 2
	res2, err := Run(context.Background(), log, table, profiles, cfg)
	require.NoError(t, err)

	assert.False(t, reflect.DeepEqual(res1.Traces, res2.Traces))
}

func TestRun_BaselineScenarioStatistics(t *testing.T) {
	// 1000 unmodified runs over the two-case claim log
	log, table, profiles := claimModel()
	cfg := RunConfig{RunCount: 1000, MaxTraceLength: 25, Seed: 7}

	res, err := Run(context.Background(), log, table, profiles, cfg)
	require.NoError(t, err)
	require.Len(t, res.Traces, 1000)
	assert.Equal(t, 0, res.TruncatedRuns)

	// B resamples from {5, 6}: simulated mean ~= 5.5
	assert.InDelta(t, 5.5, res.Simulated.Activities["B"].Mean, 0.1)

	// roughly half the traces end in C, half in D
	endC := 0
	for _, tr := range res.Traces {
		last := tr.Steps[len(tr.Steps)-1].Activity
		require.Contains(t, []string{"C", "D"}, last)
		if last == "C" {
			endC++
		}
	}
	assert.InDelta(t, 500, endC, 60)

	// baseline summaries reflect the historical log exactly
	assert.Equal(t, 2, res.Baseline.Activities["B"].Count)
	assert.InDelta(t, 5.5, res.Baseline.Activities["B"].Mean, 1e-9)
	assert.InDelta(t, 17.0, res.Baseline.CaseDuration.Mean, 1e-9)
}

func TestRun_DeterministicZeroDropsCaseDuration(t *testing.T) {
	// GIVEN Deterministic(0) pinned on B
	log, table, profiles := claimModel()
	det, _ := Deterministic(0)
	base := RunConfig{RunCount: 1000, MaxTraceLength: 25, Seed: 7}
	pinned := base
	pinned.Interventions = InterventionSet{"B": det}

	baseline, err := Run(context.Background(), log, table, profiles, base)
	require.NoError(t, err)
	res, err := Run(context.Background(), log, table, profiles, pinned)
	require.NoError(t, err)

	// THEN B's simulated durations collapse to exactly 0 with zero variance
	bStats := res.Simulated.Activities["B"]
	assert.Equal(t, 0.0, bStats.Mean)
	assert.Equal(t, 0.0, bStats.StdDev)
	for _, tr := range res.Traces {
		for _, step := range tr.Steps {
			if step.Activity == "B" {
				assert.Equal(t, 0.0, step.Duration)
			}
		}
	}

	// and mean case duration drops by about B's historical mean (5.5)
	drop := baseline.Simulated.CaseDuration.Mean - res.Simulated.CaseDuration.Mean
	assert.InDelta(t, 5.5, drop, 0.3)
	assert.Less(t, res.CaseDurationDelta.AbsoluteMean, 0.0)
}

func TestRun_ModelIncompleteAbortsWholeInvocation(t *testing.T) {
	// GIVEN an activity that stays reachable but lost all its history
	log, table, profiles := claimModel()
	delete(profiles, "B")
	cfg := RunConfig{RunCount: 50, MaxTraceLength: 25, Seed: 3}

	res, err := Run(context.Background(), log, table, profiles, cfg)
	var incomplete ModelIncompleteError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, "B", incomplete.Activity)
	assert.Nil(t, res, "no partial result may be surfaced")
}

func TestRun_ShortCapCountsTruncatedRuns(t *testing.T) {
	// max trace length below the true path length flags every run,
	// and raises no error
	log, table, profiles := claimModel()
	cfg := RunConfig{RunCount: 40, MaxTraceLength: 2, Seed: 3}

	res, err := Run(context.Background(), log, table, profiles, cfg)
	require.NoError(t, err)
	assert.Equal(t, 40, res.TruncatedRuns)
	for _, tr := range res.Traces {
		assert.True(t, tr.Truncated)
	}
}

func TestRun_EmptyLog(t *testing.T) {
	_, table, profiles := claimModel()
	cfg := RunConfig{RunCount: 10, MaxTraceLength: 5, Seed: 1}

	_, err := Run(context.Background(), &EventLog{}, table, profiles, cfg)
	var emptyErr EmptyLogError
	assert.True(t, errors.As(err, &emptyErr))
}

func TestRun_CancelledContext(t *testing.T) {
	log, table, profiles := claimModel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, log, table, profiles, RunConfig{RunCount: 100, MaxTraceLength: 25, Seed: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBaselineReport_PerActivityAndPerCase(t *testing.T) {
	log := claimLog()
	report := BaselineReport(log)

	assert.Equal(t, 2, report.Activities["A"].Count)
	assert.InDelta(t, 9.0, report.Activities["A"].Mean, 1e-9)
	assert.Equal(t, 1, report.Activities["C"].Count)
	assert.Equal(t, 2, report.CaseDuration.Count)
	assert.InDelta(t, 17.0, report.CaseDuration.Mean, 1e-9)
}

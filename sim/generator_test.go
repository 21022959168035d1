package sim

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceGenerator_StopsAtTerminalActivity(t *testing.T) {
	_, table, profiles := claimModel()
	gen := NewTraceGenerator(table, NewDurationSampler(profiles, nil), 50)
	rng := rand.New(rand.NewSource(9))

	for i := 0; i < 100; i++ {
		trace, err := gen.Generate(rng)
		require.NoError(t, err)
		require.NotEmpty(t, trace.Steps)

		// every natural trace is A -> B -> (C|D)
		assert.False(t, trace.Truncated)
		assert.Equal(t, "A", trace.Steps[0].Activity)
		last := trace.Steps[len(trace.Steps)-1].Activity
		assert.Contains(t, []string{"C", "D"}, last)
		assert.True(t, table.IsTerminal(last))
	}
}

func TestTraceGenerator_LengthCapMarksTruncated(t *testing.T) {
	// GIVEN a cap shorter than the shortest natural path
	_, table, profiles := claimModel()
	gen := NewTraceGenerator(table, NewDurationSampler(profiles, nil), 2)
	rng := rand.New(rand.NewSource(9))

	// THEN the walk stops at the cap with the truncated flag, not an error
	trace, err := gen.Generate(rng)
	require.NoError(t, err)
	assert.True(t, trace.Truncated)
	assert.Len(t, trace.Steps, 2)
	assert.Equal(t, []string{"A", "B"}, trace.Activities())
}

func TestTraceGenerator_TerminalAtCapIsNotTruncated(t *testing.T) {
	// A trace that reaches a terminal activity exactly at the cap ended
	// naturally
	_, table, profiles := claimModel()
	gen := NewTraceGenerator(table, NewDurationSampler(profiles, nil), 3)
	rng := rand.New(rand.NewSource(9))

	trace, err := gen.Generate(rng)
	require.NoError(t, err)
	assert.False(t, trace.Truncated)
	assert.Len(t, trace.Steps, 3)
}

func TestTraceGenerator_SamplerFailureAborts(t *testing.T) {
	// GIVEN profiles missing activity B, which the chain always reaches
	_, table, profiles := claimModel()
	delete(profiles, "B")
	gen := NewTraceGenerator(table, NewDurationSampler(profiles, nil), 50)
	rng := rand.New(rand.NewSource(9))

	_, err := gen.Generate(rng)
	var incomplete ModelIncompleteError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, "B", incomplete.Activity)
}

func TestSimulatedTrace_TotalDuration(t *testing.T) {
	trace := SimulatedTrace{Steps: []TraceStep{
		{Activity: "A", Duration: 10},
		{Activity: "B", Duration: 5.5},
	}}
	assert.InDelta(t, 15.5, trace.TotalDuration(), 1e-12)
	assert.Equal(t, []string{"A", "B"}, trace.Activities())
}
